// Package progression drives a player through a level catalog.
//
// A Controller owns the active level, the program buffer for that level, the
// avatar position and the unlock state. It moves between four phases:
//
//	idle              level selected, program empty
//	awaiting_run      level selected, program not empty
//	completed         the last run reached the goal, waiting for Continue
//	all_levels_cleared the final level was solved
//
// Runs are delegated to an engine.Runner. A successful run on level i unlocks
// level i+1; a crash or a run that ends off the goal puts the avatar back on
// the start cell and keeps the program so it can be tweaked. Unlock progress
// only ever grows until Restart.
//
// Only one run may be in flight per controller. Select, Restart and program
// edits fail with program.ErrLockedWhileRunning while it lasts; Abort cancels
// it.
package progression
