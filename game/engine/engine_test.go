package engine

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"
)

// recordingObserver captures events as compact strings
type recordingObserver struct {
	events []string
	onStep func(pos Position)
}

func (r *recordingObserver) OnStepStarted(i int) {
	r.events = append(r.events, fmt.Sprintf("start:%d", i))
}

func (r *recordingObserver) OnStepLanded(pos Position) {
	r.events = append(r.events, fmt.Sprintf("land:%s", pos))
	if r.onStep != nil {
		r.onStep(pos)
	}
}

func (r *recordingObserver) OnCrashed(i int, pos Position) {
	r.events = append(r.events, fmt.Sprintf("crash:%d:%s", i, pos))
}

func (r *recordingObserver) OnGoalMissed(pos Position) {
	r.events = append(r.events, fmt.Sprintf("missed:%s", pos))
}

func program(levelID string, dirs ...Direction) Program {
	return Program{LevelID: levelID, Instructions: dirs}
}

func TestEngine_Success(t *testing.T) {
	level := Level{ID: "success", GridSize: 4, Start: Position{X: 0, Y: 1}, Goal: Position{X: 3, Y: 1}}
	obs := &recordingObserver{}

	result, err := New().Run(context.Background(), level, program(level.ID, Right, Right, Right), obs)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Status != StatusSucceeded {
		t.Errorf("Expected status %s, got %s", StatusSucceeded, result.Status)
	}
	if result.FinalPosition != (Position{X: 3, Y: 1}) {
		t.Errorf("Expected final position (3,1), got %s", result.FinalPosition)
	}
	if result.CrashStep != -1 {
		t.Errorf("Expected crash step -1, got %d", result.CrashStep)
	}

	expected := []string{
		"start:0", "land:(1,1)",
		"start:1", "land:(2,1)",
		"start:2", "land:(3,1)",
	}
	if !reflect.DeepEqual(obs.events, expected) {
		t.Errorf("Expected events %v, got %v", expected, obs.events)
	}
}

func TestEngine_BoundaryClampIsNotACrash(t *testing.T) {
	for n := 2; n <= 6; n++ {
		level := Level{ID: "clamp", GridSize: n, Start: Position{X: 0, Y: 0}, Goal: Position{X: n - 1, Y: n - 1}}
		obs := &recordingObserver{}

		result, err := New().Run(context.Background(), level, program(level.ID, Left), obs)
		if err != nil {
			t.Fatalf("grid %d: Run failed: %v", n, err)
		}

		if result.Status != StatusFinishedNoGoal {
			t.Errorf("grid %d: expected %s, got %s", n, StatusFinishedNoGoal, result.Status)
		}
		if result.FinalPosition != (Position{X: 0, Y: 0}) {
			t.Errorf("grid %d: expected final (0,0), got %s", n, result.FinalPosition)
		}
		if !result.Steps[0].Clamped {
			t.Errorf("grid %d: expected step to be marked clamped", n)
		}
		if obs.events[len(obs.events)-1] != "missed:(0,0)" {
			t.Errorf("grid %d: expected goal missed event last, got %v", n, obs.events)
		}
	}
}

func TestEngine_CrashStopsImmediately(t *testing.T) {
	level := Level{
		ID:        "crash",
		GridSize:  3,
		Start:     Position{X: 0, Y: 0},
		Goal:      Position{X: 2, Y: 0},
		Obstacles: []Position{{X: 1, Y: 0}},
	}
	obs := &recordingObserver{}

	result, err := New().Run(context.Background(), level, program(level.ID, Right, Right), obs)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Status != StatusCrashed {
		t.Errorf("Expected status %s, got %s", StatusCrashed, result.Status)
	}
	if result.CrashStep != 0 {
		t.Errorf("Expected crash at step 0, got %d", result.CrashStep)
	}
	if result.FinalPosition != (Position{X: 0, Y: 0}) {
		t.Errorf("Expected avatar to stay at (0,0), got %s", result.FinalPosition)
	}
	if result.CrashTarget == nil || *result.CrashTarget != (Position{X: 1, Y: 0}) {
		t.Errorf("Expected crash target (1,0), got %v", result.CrashTarget)
	}
	if len(result.Steps) != 1 {
		t.Errorf("Expected only the crashing step in the trace, got %d steps", len(result.Steps))
	}

	expected := []string{"start:0", "crash:0:(0,0)"}
	if !reflect.DeepEqual(obs.events, expected) {
		t.Errorf("Expected events %v, got %v", expected, obs.events)
	}
}

func TestEngine_CrashAfterSomeSteps(t *testing.T) {
	level := Level{
		ID:        "later-crash",
		GridSize:  4,
		Start:     Position{X: 0, Y: 0},
		Goal:      Position{X: 3, Y: 3},
		Obstacles: []Position{{X: 2, Y: 1}},
	}

	result, err := New().Run(context.Background(), level, program(level.ID, Down, Right, Right, Down), nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Status != StatusCrashed || result.CrashStep != 2 {
		t.Errorf("Expected crash at step 2, got %s at %d", result.Status, result.CrashStep)
	}
	if result.FinalPosition != (Position{X: 1, Y: 1}) {
		t.Errorf("Expected final position (1,1), got %s", result.FinalPosition)
	}
}

func TestEngine_Idempotent(t *testing.T) {
	level := createTestLevel()
	programs := [][]Direction{
		{Right, Right, Right},
		{Up, Right, Right},
		{Down, Right, Right, Down},
		{Left, Left, Up},
	}

	eng := New()
	for _, dirs := range programs {
		first, err := eng.Run(context.Background(), level, program(level.ID, dirs...), nil)
		if err != nil {
			t.Fatalf("first run failed: %v", err)
		}
		second, err := eng.Run(context.Background(), level, program(level.ID, dirs...), nil)
		if err != nil {
			t.Fatalf("second run failed: %v", err)
		}

		if !reflect.DeepEqual(first, second) {
			t.Errorf("Program %v: runs differ: %+v vs %+v", dirs, first, second)
		}
		if traced := Trace(level, dirs); !reflect.DeepEqual(traced, first) {
			t.Errorf("Program %v: Trace differs from Run: %+v vs %+v", dirs, traced, first)
		}
	}
}

func TestEngine_EmptyProgram(t *testing.T) {
	level := createTestLevel()
	obs := &recordingObserver{}

	result, err := New().Run(context.Background(), level, program(level.ID), obs)
	if !errors.Is(err, ErrEmptyProgram) {
		t.Errorf("Expected ErrEmptyProgram, got %v", err)
	}
	if result != nil {
		t.Errorf("Expected no result, got %+v", result)
	}
	if len(obs.events) != 0 {
		t.Errorf("Expected no events, got %v", obs.events)
	}
}

func TestEngine_LevelMismatch(t *testing.T) {
	level := createTestLevel()

	_, err := New().Run(context.Background(), level, program("another-level", Right), nil)
	if !errors.Is(err, ErrLevelMismatch) {
		t.Errorf("Expected ErrLevelMismatch, got %v", err)
	}
}

func TestEngine_RejectsMalformedLevel(t *testing.T) {
	level := createTestLevel()
	level.Obstacles = append(level.Obstacles, level.Goal)

	_, err := New().Run(context.Background(), level, program(level.ID, Right), nil)
	if !errors.Is(err, ErrMalformedLevel) {
		t.Errorf("Expected ErrMalformedLevel, got %v", err)
	}
}

func TestEngine_RejectsInvalidInstruction(t *testing.T) {
	level := createTestLevel()

	_, err := New().Run(context.Background(), level, program(level.ID, Right, Direction("jump")), nil)
	if !errors.Is(err, ErrInvalidInstruction) {
		t.Errorf("Expected ErrInvalidInstruction, got %v", err)
	}
}

func TestEngine_AbortBetweenSteps(t *testing.T) {
	level := Level{ID: "abort", GridSize: 5, Start: Position{X: 0, Y: 0}, Goal: Position{X: 4, Y: 0}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	obs := &recordingObserver{}
	landed := 0
	obs.onStep = func(Position) {
		landed++
		if landed == 2 {
			cancel()
		}
	}

	result, err := New().Run(ctx, level, program(level.ID, Right, Right, Right, Right), obs)
	if !errors.Is(err, ErrRunAborted) {
		t.Fatalf("Expected ErrRunAborted, got %v", err)
	}
	if result != nil {
		t.Errorf("Expected no terminal result, got %+v", result)
	}

	expected := []string{"start:0", "land:(1,0)", "start:1", "land:(2,0)"}
	if !reflect.DeepEqual(obs.events, expected) {
		t.Errorf("Expected events %v, got %v", expected, obs.events)
	}
}

// pacingObserver blocks in Pace until ctx is done or release is closed
type pacingObserver struct {
	recordingObserver
	paced   []int
	release chan struct{}
}

func (p *pacingObserver) Pace(ctx context.Context, stepIndex int) error {
	p.paced = append(p.paced, stepIndex)
	if p.release == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.release:
		return nil
	}
}

func TestEngine_PacesAfterLandedSteps(t *testing.T) {
	level := createTestLevel()
	obs := &pacingObserver{}

	result, err := New().Run(context.Background(), level, program(level.ID, Up, Right, Right), obs)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Status != StatusCrashed {
		t.Fatalf("Expected crash, got %s", result.Status)
	}

	// The crashing step is never paced
	if !reflect.DeepEqual(obs.paced, []int{0}) {
		t.Errorf("Expected only step 0 to be paced, got %v", obs.paced)
	}
}

func TestEngine_PaceHonorsCancellation(t *testing.T) {
	level := Level{ID: "paced", GridSize: 5, Start: Position{X: 0, Y: 0}, Goal: Position{X: 4, Y: 0}}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	obs := &pacingObserver{release: make(chan struct{})}

	start := time.Now()
	result, err := New().Run(ctx, level, program(level.ID, Right, Right), obs)
	if !errors.Is(err, ErrRunAborted) {
		t.Errorf("Expected ErrRunAborted, got %v", err)
	}
	if result != nil {
		t.Errorf("Expected no terminal result, got %+v", result)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Expected cancellation to interrupt the pause, took %s", elapsed)
	}
	if !reflect.DeepEqual(obs.events, []string{"start:0", "land:(1,0)"}) {
		t.Errorf("Expected the run to stop after the first step, got %v", obs.events)
	}
}

func TestTrace_EmptyProgram(t *testing.T) {
	level := createTestLevel()

	result := Trace(level, nil)
	if result.Status != StatusFinishedNoGoal || result.FinalPosition != level.Start {
		t.Errorf("Expected finished at start, got %s at %s", result.Status, result.FinalPosition)
	}
}
