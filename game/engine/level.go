package engine

import "fmt"

// Layout characters
const (
	LayoutEmpty    = '.'
	LayoutStart    = 'S'
	LayoutGoal     = 'G'
	LayoutObstacle = '#'
)

// Level is an immutable puzzle definition
type Level struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name,omitempty" yaml:"name,omitempty"`
	GridSize  int        `json:"grid_size" yaml:"grid_size"`
	Start     Position   `json:"start" yaml:"start"`
	Goal      Position   `json:"goal" yaml:"goal"`
	Obstacles []Position `json:"obstacles" yaml:"obstacles"`
}

// InBounds reports whether p lies inside the grid
func (l Level) InBounds(p Position) bool {
	return p.X >= 0 && p.X < l.GridSize && p.Y >= 0 && p.Y < l.GridSize
}

// IsObstacle reports whether p is blocked
func (l Level) IsObstacle(p Position) bool {
	for _, o := range l.Obstacles {
		if o == p {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no memory with l
func (l Level) Clone() Level {
	c := l
	c.Obstacles = append(make([]Position, 0, len(l.Obstacles)), l.Obstacles...)
	return c
}

// Layout renders the level as rows of layout characters
func (l Level) Layout() []string {
	rows := make([]string, l.GridSize)
	for y := 0; y < l.GridSize; y++ {
		row := make([]byte, l.GridSize)
		for x := 0; x < l.GridSize; x++ {
			p := Position{X: x, Y: y}
			switch {
			case p == l.Start:
				row[x] = LayoutStart
			case p == l.Goal:
				row[x] = LayoutGoal
			case l.IsObstacle(p):
				row[x] = LayoutObstacle
			default:
				row[x] = LayoutEmpty
			}
		}
		rows[y] = string(row)
	}
	return rows
}

// ValidateLevel checks the level invariants. Every error wraps ErrMalformedLevel.
func ValidateLevel(level Level) error {
	if level.GridSize < 1 {
		return fmt.Errorf("%w: level %q: grid_size must be at least 1, got %d", ErrMalformedLevel, level.ID, level.GridSize)
	}
	if !level.InBounds(level.Start) {
		return fmt.Errorf("%w: level %q: start %s is outside the %dx%d grid",
			ErrMalformedLevel, level.ID, level.Start, level.GridSize, level.GridSize)
	}
	if !level.InBounds(level.Goal) {
		return fmt.Errorf("%w: level %q: goal %s is outside the %dx%d grid",
			ErrMalformedLevel, level.ID, level.Goal, level.GridSize, level.GridSize)
	}
	if level.Start == level.Goal {
		return fmt.Errorf("%w: level %q: start and goal are both %s", ErrMalformedLevel, level.ID, level.Start)
	}
	for i, o := range level.Obstacles {
		if !level.InBounds(o) {
			return fmt.Errorf("%w: level %q: obstacle %d at %s is outside the grid", ErrMalformedLevel, level.ID, i, o)
		}
		if o == level.Start {
			return fmt.Errorf("%w: level %q: obstacle %d covers the start %s", ErrMalformedLevel, level.ID, i, o)
		}
		if o == level.Goal {
			return fmt.Errorf("%w: level %q: obstacle %d covers the goal %s", ErrMalformedLevel, level.ID, i, o)
		}
	}
	return nil
}

// LevelFromLayout builds a level from square rows of layout characters.
// Each layout must contain exactly one start (S) and one goal (G).
func LevelFromLayout(id string, layout []string) (Level, error) {
	gridSize := len(layout)
	if gridSize == 0 {
		return Level{}, fmt.Errorf("%w: level %q: layout is empty", ErrMalformedLevel, id)
	}

	level := Level{ID: id, GridSize: gridSize}
	starts, goals := 0, 0

	for y, row := range layout {
		if len(row) != gridSize {
			return Level{}, fmt.Errorf("%w: level %q: row %d must have %d characters to match the row count, got %d",
				ErrMalformedLevel, id, y+1, gridSize, len(row))
		}
		for x := 0; x < len(row); x++ {
			switch row[x] {
			case LayoutEmpty:
			case LayoutStart:
				level.Start = Position{X: x, Y: y}
				starts++
			case LayoutGoal:
				level.Goal = Position{X: x, Y: y}
				goals++
			case LayoutObstacle:
				level.Obstacles = append(level.Obstacles, Position{X: x, Y: y})
			default:
				return Level{}, fmt.Errorf("%w: level %q: invalid character '%c' at row %d, col %d",
					ErrMalformedLevel, id, row[x], y+1, x+1)
			}
		}
	}

	if starts != 1 {
		return Level{}, fmt.Errorf("%w: level %q: layout must contain exactly one start (S), got %d", ErrMalformedLevel, id, starts)
	}
	if goals != 1 {
		return Level{}, fmt.Errorf("%w: level %q: layout must contain exactly one goal (G), got %d", ErrMalformedLevel, id, goals)
	}

	return level, ValidateLevel(level)
}
