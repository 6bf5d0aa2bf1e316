// Package program holds the instruction sequence a player is authoring for
// the active level.
//
// A Buffer accepts appends and clears until a run takes its run lock with
// BeginRun. While the lock is held every mutation fails with
// ErrLockedWhileRunning, so the engine always executes a stable snapshot.
// Successful mutations are reported to a feedback channel.
package program
