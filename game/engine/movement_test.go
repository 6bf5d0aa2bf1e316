package engine

import "testing"

func TestStep_Directions(t *testing.T) {
	from := Position{X: 2, Y: 2}

	tests := []struct {
		dir      Direction
		expected Position
	}{
		{Up, Position{X: 2, Y: 1}},
		{Down, Position{X: 2, Y: 3}},
		{Left, Position{X: 1, Y: 2}},
		{Right, Position{X: 3, Y: 2}},
	}

	for _, tt := range tests {
		got, clamped := Step(from, tt.dir, 5)
		if got != tt.expected {
			t.Errorf("Step %s: expected %s, got %s", tt.dir, tt.expected, got)
		}
		if clamped {
			t.Errorf("Step %s: did not expect clamp", tt.dir)
		}
	}
}

func TestStep_ClampsAtEdges(t *testing.T) {
	tests := []struct {
		name string
		from Position
		dir  Direction
	}{
		{"top edge", Position{X: 1, Y: 0}, Up},
		{"bottom edge", Position{X: 1, Y: 3}, Down},
		{"left edge", Position{X: 0, Y: 1}, Left},
		{"right edge", Position{X: 3, Y: 1}, Right},
	}

	for _, tt := range tests {
		got, clamped := Step(tt.from, tt.dir, 4)
		if got != tt.from {
			t.Errorf("%s: expected to stay at %s, got %s", tt.name, tt.from, got)
		}
		if !clamped {
			t.Errorf("%s: expected clamp", tt.name)
		}
	}
}

func TestTrace_MatchesStepByStep(t *testing.T) {
	level := createTestLevel()
	program := []Direction{Right, Right, Up, Down, Right}

	result := Trace(level, program)

	if len(result.Steps) != len(program) {
		t.Fatalf("Expected %d steps, got %d", len(program), len(result.Steps))
	}
	for i := 1; i < len(result.Steps); i++ {
		if result.Steps[i].From != result.Steps[i-1].To {
			t.Errorf("Step %d does not start where step %d ended", i, i-1)
		}
	}
	if result.Status != StatusSucceeded {
		t.Errorf("Expected %s, got %s (final %s)", StatusSucceeded, result.Status, result.FinalPosition)
	}
}

func TestManhattanDistance(t *testing.T) {
	if d := ManhattanDistance(Position{X: 0, Y: 1}, Position{X: 3, Y: 3}); d != 5 {
		t.Errorf("Expected distance 5, got %d", d)
	}
	if d := ManhattanDistance(Position{X: 3, Y: 3}, Position{X: 0, Y: 1}); d != 5 {
		t.Errorf("Expected distance to be symmetric, got %d", d)
	}
}

func TestObstacleDensity(t *testing.T) {
	level := createTestLevel()
	if got := ObstacleDensity(level); got != 2.0/16.0 {
		t.Errorf("Expected density 0.125, got %f", got)
	}
}
