package engine

import (
	"context"
	"fmt"
)

// Observer receives the per-step events of a run. Calls are fire-and-forget:
// nothing an observer does can change the outcome.
type Observer interface {
	OnStepStarted(stepIndex int)
	OnStepLanded(pos Position)
	OnCrashed(stepIndex int, pos Position)
	OnGoalMissed(finalPos Position)
}

// Pacer is implemented by observers that schedule the presentation of each
// step. Run calls Pace after every landed step and aborts the run when it
// returns an error.
type Pacer interface {
	Pace(ctx context.Context, stepIndex int) error
}

// Runner executes programs against levels
type Runner interface {
	Run(ctx context.Context, level Level, program Program, obs Observer) (*RunResult, error)
}

// Engine implements Runner. It holds no per-run state, so one Engine can
// serve any number of sessions.
type Engine struct{}

// New creates an engine
func New() *Engine {
	return &Engine{}
}

// Run simulates program on level one instruction at a time.
//
// Expected outcomes (succeeded, crashed, finished without reaching the goal)
// are reported through the RunResult. Errors are returned only for misuse:
// ErrEmptyProgram, ErrLevelMismatch, ErrMalformedLevel, ErrInvalidInstruction,
// and ErrRunAborted when ctx is cancelled between steps. An aborted run emits
// no terminal event.
func (e *Engine) Run(ctx context.Context, level Level, program Program, obs Observer) (*RunResult, error) {
	if program.Len() == 0 {
		return nil, ErrEmptyProgram
	}
	if program.LevelID != level.ID {
		return nil, fmt.Errorf("%w: program for %q, level is %q", ErrLevelMismatch, program.LevelID, level.ID)
	}
	if err := ValidateLevel(level); err != nil {
		return nil, err
	}
	for i, dir := range program.Instructions {
		if !dir.Valid() {
			return nil, fmt.Errorf("%w: %q at step %d", ErrInvalidInstruction, dir, i)
		}
	}
	if obs == nil {
		obs = nopObserver{}
	}

	return replay(ctx, level, program.Instructions, obs)
}

// replay is the step loop shared by Engine.Run and Trace
func replay(ctx context.Context, level Level, program []Direction, obs Observer) (*RunResult, error) {
	st := newRunState(level)
	result := &RunResult{
		LevelID:   level.ID,
		CrashStep: -1,
		Steps:     make([]StepRecord, 0, len(program)),
	}

	for i, dir := range program {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w before step %d: %w", ErrRunAborted, i, err)
		}

		obs.OnStepStarted(i)
		rec, crashed := st.advance(level, i, dir)
		result.Steps = append(result.Steps, rec)

		if crashed {
			target := rec.To
			result.CrashStep = i
			result.CrashTarget = &target
			obs.OnCrashed(i, st.pos)
			break
		}

		obs.OnStepLanded(st.pos)
		if err := pause(ctx, obs, i); err != nil {
			return nil, fmt.Errorf("%w after step %d: %w", ErrRunAborted, i, err)
		}
	}

	result.Status = st.finish(level)
	result.FinalPosition = st.pos

	if result.Status == StatusFinishedNoGoal {
		obs.OnGoalMissed(st.pos)
	}

	return result, nil
}

// pause is the suspension point between steps
func pause(ctx context.Context, obs Observer, stepIndex int) error {
	if p, ok := obs.(Pacer); ok {
		if err := p.Pace(ctx, stepIndex); err != nil {
			return err
		}
	}
	return ctx.Err()
}

type nopObserver struct{}

func (nopObserver) OnStepStarted(int) {}
func (nopObserver) OnStepLanded(Position) {}
func (nopObserver) OnCrashed(int, Position) {}
func (nopObserver) OnGoalMissed(Position) {}
