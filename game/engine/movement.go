package engine

import "context"

// Step moves one cell from pos in direction dir. Each axis is clamped to
// [0, gridSize-1]; clamped reports whether the move pushed against an edge.
func Step(pos Position, dir Direction, gridSize int) (next Position, clamped bool) {
	dx, dy := dir.Delta()
	next = Position{
		X: clamp(pos.X+dx, 0, gridSize-1),
		Y: clamp(pos.Y+dy, 0, gridSize-1),
	}
	clamped = next == pos
	return next, clamped
}

// Trace replays a program without observers or pacing. Unlike Run it accepts
// an empty program and reports it as finished without reaching the goal.
func Trace(level Level, program []Direction) *RunResult {
	result, _ := replay(context.Background(), level, program, nopObserver{})
	return result
}

// runState is the transient state of a single run
type runState struct {
	pos    Position
	cursor int
	status RunStatus
}

func newRunState(level Level) *runState {
	return &runState{pos: level.Start, status: StatusRunning}
}

// advance evaluates one instruction. On a crash the record's To field holds
// the obstacle cell while the state stays at the pre-move position.
func (s *runState) advance(level Level, index int, dir Direction) (StepRecord, bool) {
	candidate, clamped := Step(s.pos, dir, level.GridSize)
	rec := StepRecord{
		Index:     index,
		Direction: dir,
		From:      s.pos,
		To:        candidate,
		Clamped:   clamped,
	}

	if level.IsObstacle(candidate) {
		rec.Blocked = true
		s.status = StatusCrashed
		return rec, true
	}

	s.pos = candidate
	s.cursor++
	return rec, false
}

// finish resolves the terminal status once the loop has stopped
func (s *runState) finish(level Level) RunStatus {
	if s.status == StatusCrashed {
		return s.status
	}
	if s.pos == level.Goal {
		s.status = StatusSucceeded
	} else {
		s.status = StatusFinishedNoGoal
	}
	return s.status
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
