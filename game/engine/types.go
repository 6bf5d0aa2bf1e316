package engine

import (
	"fmt"
	"strings"
)

// Direction is one of the four instructions a learner can place in a program
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Directions lists every valid instruction in palette order
var Directions = []Direction{Up, Down, Left, Right}

// ParseDirection converts user input into a Direction (case-insensitive)
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q (want up, down, left or right)", ErrInvalidInstruction, s)
	}
	return d, nil
}

// Valid reports whether d is one of the four instructions
func (d Direction) Valid() bool {
	switch d {
	case Up, Down, Left, Right:
		return true
	}
	return false
}

// Delta returns the unit offset for d. The y axis grows downward.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Program is a snapshot of the instructions authored for one level
type Program struct {
	LevelID      string      `json:"level_id"`
	Instructions []Direction `json:"instructions"`
}

// Len returns the number of instructions
func (p Program) Len() int {
	return len(p.Instructions)
}

// RunStatus is the state of a run
type RunStatus string

const (
	StatusRunning        RunStatus = "running"
	StatusSucceeded      RunStatus = "succeeded"
	StatusCrashed        RunStatus = "crashed"
	StatusFinishedNoGoal RunStatus = "finished_no_goal"
)

// Terminal reports whether s ends a run
func (s RunStatus) Terminal() bool {
	return s == StatusSucceeded || s == StatusCrashed || s == StatusFinishedNoGoal
}

// StepRecord is one entry of the step trace
type StepRecord struct {
	Index     int       `json:"index"`
	Direction Direction `json:"direction"`
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Clamped   bool      `json:"clamped,omitempty"` // pushed against the grid edge
	Blocked   bool      `json:"blocked,omitempty"` // target was an obstacle
}

// RunResult is the terminal outcome of a run
type RunResult struct {
	LevelID       string       `json:"level_id"`
	Status        RunStatus    `json:"status"`
	FinalPosition Position     `json:"final_position"`
	CrashStep     int          `json:"crash_step"`             // -1 unless Status is StatusCrashed
	CrashTarget   *Position    `json:"crash_target,omitempty"` // obstacle cell that was hit
	Steps         []StepRecord `json:"steps"`
}

// Succeeded reports whether the run landed on the goal
func (r *RunResult) Succeeded() bool {
	return r != nil && r.Status == StatusSucceeded
}
