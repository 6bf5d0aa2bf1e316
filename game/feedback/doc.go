// Package feedback defines the channel through which the puzzle core reports
// what happens during authoring and execution.
//
// Every call on a Channel is fire-and-forget: the simulation never waits on a
// return value and never changes its behavior because of a presentation
// failure. The package ships a no-op channel, a fan-out, an event emitter that
// turns calls into Event values, a recorder for tests, a logger, and an
// asynchronous wrapper that keeps slow collaborators (speech, image
// generation) off the simulation path.
//
// Paced is the one channel the simulation does wait on: it implements
// engine.Pacer and holds each landed step long enough to be animated.
package feedback
