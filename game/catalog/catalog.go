package catalog

import (
	"errors"
	"fmt"

	"github.com/wricardo/arrowbot/game/engine"
)

var (
	ErrOutOfRange      = errors.New("level index out of range")
	ErrCatalogNotFound = errors.New("catalog not found")
	ErrInvalidCatalog  = errors.New("invalid catalog")
)

// Catalog is an ordered, immutable list of validated levels. It is safe to
// share between goroutines without locking.
type Catalog struct {
	id          string
	name        string
	description string
	levels      []engine.Level
}

// Info describes a catalog for listings
type Info struct {
	Filename    string `json:"filename,omitempty"`
	CatalogID   string `json:"catalog_id"` // The identifier to use for session creation
	Name        string `json:"name"`       // Display name
	Description string `json:"description"`
	Levels      int    `json:"levels"`
	MinGridSize int    `json:"min_grid_size"`
	MaxGridSize int    `json:"max_grid_size"`
}

// New validates every level and builds a catalog. Levels without an ID get
// one derived from the catalog ID and their position.
func New(id, name, description string, levels []engine.Level) (*Catalog, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: catalog id is required", ErrInvalidCatalog)
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w: catalog %q has no levels", ErrInvalidCatalog, id)
	}

	c := &Catalog{
		id:          id,
		name:        name,
		description: description,
		levels:      make([]engine.Level, len(levels)),
	}
	if c.name == "" {
		c.name = id
	}

	seen := make(map[string]int, len(levels))
	for i, level := range levels {
		level = level.Clone()
		if level.ID == "" {
			level.ID = fmt.Sprintf("%s-%02d", id, i+1)
		}
		if level.Name == "" {
			level.Name = fmt.Sprintf("Level %d", i+1)
		}
		if prev, dup := seen[level.ID]; dup {
			return nil, fmt.Errorf("%w: catalog %q: level id %q used by levels %d and %d",
				ErrInvalidCatalog, id, level.ID, prev+1, i+1)
		}
		seen[level.ID] = i

		if err := engine.ValidateLevel(level); err != nil {
			return nil, fmt.Errorf("catalog %q level %d: %w", id, i+1, err)
		}
		c.levels[i] = level
	}

	return c, nil
}

// MustNew is New for built-in content; it panics on an invalid catalog
func MustNew(id, name, description string, levels []engine.Level) *Catalog {
	c, err := New(id, name, description, levels)
	if err != nil {
		panic(err)
	}
	return c
}

// ID returns the catalog identifier
func (c *Catalog) ID() string { return c.id }

// Name returns the display name
func (c *Catalog) Name() string { return c.name }

// Description returns the catalog description
func (c *Catalog) Description() string { return c.description }

// Len returns the number of levels
func (c *Catalog) Len() int { return len(c.levels) }

// Get returns the level at index
func (c *Catalog) Get(index int) (engine.Level, error) {
	if index < 0 || index >= len(c.levels) {
		return engine.Level{}, fmt.Errorf("%w: %d (catalog %q has %d levels)", ErrOutOfRange, index, c.id, len(c.levels))
	}
	return c.levels[index].Clone(), nil
}

// Levels returns copies of every level in order
func (c *Catalog) Levels() []engine.Level {
	out := make([]engine.Level, len(c.levels))
	for i, l := range c.levels {
		out[i] = l.Clone()
	}
	return out
}

// Info summarizes the catalog
func (c *Catalog) Info() *Info {
	info := &Info{
		CatalogID:   c.id,
		Name:        c.name,
		Description: c.description,
		Levels:      len(c.levels),
	}
	for i, l := range c.levels {
		if i == 0 || l.GridSize < info.MinGridSize {
			info.MinGridSize = l.GridSize
		}
		if l.GridSize > info.MaxGridSize {
			info.MaxGridSize = l.GridSize
		}
	}
	return info
}
