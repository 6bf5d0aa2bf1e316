// Package engine provides the core program execution logic for Arrow Bot.
//
// The engine package implements:
//   - Grid positions, directions and level definitions
//   - Level validation (bounds, obstacle placement, start/goal distinctness)
//   - Character layouts as an alternative way to author a level
//   - The step-by-step program runner with boundary clamping and crash detection
//
// Core Types:
//
// Level is an immutable puzzle definition. Program is a snapshot of the
// instructions a learner authored for one level. Engine runs a Program against
// a Level and returns a RunResult holding the terminal status, final position,
// crash step and the full step trace.
//
// Usage:
//
//	level, err := engine.LevelFromLayout("intro", []string{
//		"....",
//		"S..G",
//		"....",
//		"....",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	eng := engine.New()
//	program := engine.Program{LevelID: level.ID, Instructions: []engine.Direction{
//		engine.Right, engine.Right, engine.Right,
//	}}
//	result, err := eng.Run(ctx, level, program, observer)
//
// Observers that implement Pacer are asked to pace the run after every
// landed step; feedback.Paced is the usual one.
//
// Rules:
//
// Moving off the grid is a no-op nudge against the wall. Moving into an
// obstacle crashes the run at the pre-move position and no further
// instructions are evaluated. A run that consumes every instruction without
// crashing succeeds only if the avatar ends on the goal cell.
package engine
