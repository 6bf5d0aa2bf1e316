package progression

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/wricardo/arrowbot/game/catalog"
	"github.com/wricardo/arrowbot/game/engine"
	"github.com/wricardo/arrowbot/game/feedback"
	"github.com/wricardo/arrowbot/game/program"
)

var ErrNotCompleted = errors.New("current level is not completed")

// Phase is the controller's position in the level flow
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseAwaitingRun      Phase = "awaiting_run"
	PhaseCompleted        Phase = "completed"
	PhaseAllLevelsCleared Phase = "all_levels_cleared"
)

// State is a snapshot of a controller
type State struct {
	Phase        Phase              `json:"phase"`
	LevelIndex   int                `json:"level_index"`
	LevelID      string             `json:"level_id"`
	LevelCount   int                `json:"level_count"`
	UnlockedUpTo int                `json:"unlocked_up_to"`
	Avatar       engine.Position    `json:"avatar"`
	Program      []engine.Direction `json:"program"`
	Running      bool               `json:"running"`
	LastOutcome  *engine.RunResult  `json:"last_outcome,omitempty"`
}

// Outcome is delivered once a started run is over
type Outcome struct {
	Result *engine.RunResult
	Err    error
}

// Option configures a Controller
type Option func(*Controller)

// WithRunner replaces the default engine
func WithRunner(r engine.Runner) Option {
	return func(c *Controller) { c.runner = r }
}

// WithFeedback sets the channel that receives every event
func WithFeedback(ch feedback.Channel) Option {
	return func(c *Controller) { c.feedback = ch }
}

// WithAutoAdvance selects the next level right after a success instead of
// waiting for Continue
func WithAutoAdvance(on bool) Option {
	return func(c *Controller) { c.autoAdvance = on }
}

// Controller runs the level flow for one player
type Controller struct {
	mu sync.Mutex

	catalog     *catalog.Catalog
	runner      engine.Runner
	feedback    feedback.Channel
	buffer      *program.Buffer
	autoAdvance bool

	levelIndex   int
	unlockedUpTo int
	phase        Phase
	avatar       engine.Position
	lastOutcome  *engine.RunResult
	cancel       context.CancelFunc
}

// New creates a controller positioned on the first level of cat
func New(cat *catalog.Catalog, opts ...Option) (*Controller, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, fmt.Errorf("%w: controller needs a catalog with levels", catalog.ErrInvalidCatalog)
	}

	c := &Controller{catalog: cat}
	for _, opt := range opts {
		opt(c)
	}
	if c.runner == nil {
		c.runner = engine.New()
	}
	if c.feedback == nil {
		c.feedback = feedback.Nop{}
	}

	first, err := cat.Get(0)
	if err != nil {
		return nil, err
	}
	c.buffer = program.NewBuffer(first.ID, c.feedback)
	c.phase = PhaseIdle
	c.avatar = first.Start

	return c, nil
}

// Catalog returns the catalog being played
func (c *Controller) Catalog() *catalog.Catalog {
	return c.catalog
}

// CurrentLevel returns the active level
func (c *Controller) CurrentLevel() engine.Level {
	c.mu.Lock()
	defer c.mu.Unlock()
	level, _ := c.catalog.Get(c.levelIndex)
	return level
}

// Select makes level index active, clears the program and puts the avatar
// on the start cell
func (c *Controller) Select(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectLocked(index)
}

func (c *Controller) selectLocked(index int) error {
	level, err := c.catalog.Get(index)
	if err != nil {
		return err
	}
	if err := c.buffer.Reset(level.ID); err != nil {
		return err
	}

	c.levelIndex = index
	c.phase = PhaseIdle
	c.avatar = level.Start
	c.lastOutcome = nil
	return nil
}

// AddInstruction appends one instruction to the program
func (c *Controller) AddInstruction(dir engine.Direction) error {
	return c.buffer.Append(dir)
}

// AddInstructions appends every instruction or none
func (c *Controller) AddInstructions(dirs []engine.Direction) error {
	return c.buffer.AppendAll(dirs)
}

// ClearProgram empties the program
func (c *Controller) ClearProgram() error {
	return c.buffer.Clear()
}

// Start takes the run lock and executes the program in the background. The
// returned channel receives exactly one Outcome. Misuse that can be detected
// up front (empty program, a run already in flight) is returned directly.
func (c *Controller) Start(ctx context.Context) (<-chan Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prog, release, err := c.buffer.BeginRun()
	if err != nil {
		return nil, err
	}
	if prog.Len() == 0 {
		release()
		return nil, engine.ErrEmptyProgram
	}

	index := c.levelIndex
	level, err := c.catalog.Get(index)
	if err != nil {
		release()
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.avatar = level.Start

	done := make(chan Outcome, 1)
	go func() {
		defer cancel()
		result, err := c.runner.Run(runCtx, level, prog, &avatarObserver{c: c, next: c.feedback})
		done <- c.finish(index, level, result, err, release)
	}()

	return done, nil
}

// Run executes the program and waits for the outcome
func (c *Controller) Run(ctx context.Context) (*engine.RunResult, error) {
	done, err := c.Start(ctx)
	if err != nil {
		return nil, err
	}
	outcome := <-done
	return outcome.Result, outcome.Err
}

// finish applies a run outcome and releases the program buffer
func (c *Controller) finish(index int, level engine.Level, result *engine.RunResult, runErr error, release func()) Outcome {
	c.mu.Lock()
	c.cancel = nil

	if runErr != nil {
		c.avatar = level.Start
		release()
		c.mu.Unlock()
		return Outcome{Err: runErr}
	}

	c.lastOutcome = result
	last := index == c.catalog.Len()-1

	if !result.Succeeded() {
		c.avatar = level.Start
		c.phase = PhaseIdle
		release()
		c.mu.Unlock()
		return Outcome{Result: result}
	}

	c.avatar = result.FinalPosition
	next := index + 1
	if last {
		next = index
	}
	if next > c.unlockedUpTo {
		c.unlockedUpTo = next
	}
	if last {
		c.phase = PhaseAllLevelsCleared
	} else {
		c.phase = PhaseCompleted
	}
	release()

	if c.autoAdvance && !last {
		if err := c.selectLocked(index + 1); err != nil {
			log.Printf("[PROGRESSION] auto-advance to level %d failed: %v", index+1, err)
		}
		// keep the outcome that caused the advance visible
		c.lastOutcome = result
	}
	c.mu.Unlock()

	c.feedback.OnSucceeded(index)
	if last {
		c.feedback.OnAllLevelsCleared()
	}
	return Outcome{Result: result}
}

// Continue moves from a completed level to the next one
func (c *Controller) Continue() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseCompleted {
		return fmt.Errorf("%w: phase is %s", ErrNotCompleted, c.phase)
	}
	return c.selectLocked(c.levelIndex + 1)
}

// Abort cancels the run in flight. It reports whether there was one.
func (c *Controller) Abort() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel == nil {
		return false
	}
	c.cancel()
	return true
}

// Restart returns to the first level and forgets all unlock progress
func (c *Controller) Restart() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.selectLocked(0); err != nil {
		return err
	}
	c.unlockedUpTo = 0
	return nil
}

// Unlocked reports whether index has been unlocked
func (c *Controller) Unlocked(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return index >= 0 && index <= c.unlockedUpTo
}

// CurrentState returns a snapshot of the controller
func (c *Controller) CurrentState() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.buffer.Snapshot()
	phase := c.phase
	if phase == PhaseIdle && snap.Len() > 0 {
		phase = PhaseAwaitingRun
	}

	return State{
		Phase:        phase,
		LevelIndex:   c.levelIndex,
		LevelID:      snap.LevelID,
		LevelCount:   c.catalog.Len(),
		UnlockedUpTo: c.unlockedUpTo,
		Avatar:       c.avatar,
		Program:      snap.Instructions,
		Running:      c.buffer.Running(),
		LastOutcome:  c.lastOutcome,
	}
}

// avatarObserver tracks the avatar while a run is in flight and forwards
// every event
type avatarObserver struct {
	c    *Controller
	next engine.Observer
}

func (o *avatarObserver) OnStepStarted(stepIndex int) {
	o.next.OnStepStarted(stepIndex)
}

func (o *avatarObserver) OnStepLanded(pos engine.Position) {
	o.c.mu.Lock()
	o.c.avatar = pos
	o.c.mu.Unlock()
	o.next.OnStepLanded(pos)
}

func (o *avatarObserver) OnCrashed(stepIndex int, pos engine.Position) {
	o.next.OnCrashed(stepIndex, pos)
}

func (o *avatarObserver) OnGoalMissed(finalPos engine.Position) {
	o.next.OnGoalMissed(finalPos)
}

// Pace lets a pacing feedback channel hold the run between steps
func (o *avatarObserver) Pace(ctx context.Context, stepIndex int) error {
	if p, ok := o.next.(engine.Pacer); ok {
		return p.Pace(ctx, stepIndex)
	}
	return nil
}
