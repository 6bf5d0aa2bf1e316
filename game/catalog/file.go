package catalog

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/arrowbot/game/engine"
)

// File is the on-disk catalog format shared by the JSON and YAML loaders
type File struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Levels      []LevelSpec `json:"levels" yaml:"levels"`
}

// LevelSpec describes one level either by coordinates or by layout rows
type LevelSpec struct {
	ID        string            `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string            `json:"name,omitempty" yaml:"name,omitempty"`
	GridSize  int               `json:"grid_size,omitempty" yaml:"grid_size,omitempty"`
	Start     *engine.Position  `json:"start,omitempty" yaml:"start,omitempty"`
	Goal      *engine.Position  `json:"goal,omitempty" yaml:"goal,omitempty"`
	Obstacles []engine.Position `json:"obstacles,omitempty" yaml:"obstacles,omitempty"`
	Layout    []string          `json:"layout,omitempty" yaml:"layout,omitempty"`
}

// Level converts s into an engine level. Validation happens in New.
func (s LevelSpec) Level() (engine.Level, error) {
	if len(s.Layout) > 0 {
		if s.GridSize != 0 || s.Start != nil || s.Goal != nil || len(s.Obstacles) > 0 {
			return engine.Level{}, fmt.Errorf("%w: level %q: layout cannot be combined with grid_size, start, goal or obstacles",
				engine.ErrMalformedLevel, s.ID)
		}
		level, err := engine.LevelFromLayout(s.ID, s.Layout)
		if err != nil {
			return engine.Level{}, err
		}
		level.Name = s.Name
		return level, nil
	}

	if s.Start == nil || s.Goal == nil {
		return engine.Level{}, fmt.Errorf("%w: level %q: start and goal are required", engine.ErrMalformedLevel, s.ID)
	}
	return engine.Level{
		ID:        s.ID,
		Name:      s.Name,
		GridSize:  s.GridSize,
		Start:     *s.Start,
		Goal:      *s.Goal,
		Obstacles: append([]engine.Position(nil), s.Obstacles...),
	}, nil
}

// SpecFromLevel converts a level into its coordinate form
func SpecFromLevel(level engine.Level) LevelSpec {
	start, goal := level.Start, level.Goal
	return LevelSpec{
		ID:        level.ID,
		Name:      level.Name,
		GridSize:  level.GridSize,
		Start:     &start,
		Goal:      &goal,
		Obstacles: append([]engine.Position{}, level.Obstacles...),
	}
}

// Format selects the catalog encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath returns the encoding implied by the file extension
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	}
	return "", false
}

// Parse decodes catalog data and builds a validated catalog with the given id
func Parse(id string, data []byte, format Format) (*Catalog, error) {
	var file File
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("%w: failed to parse JSON: %v", ErrInvalidCatalog, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("%w: failed to parse YAML: %v", ErrInvalidCatalog, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidCatalog, format)
	}
	return file.Build(id)
}

// Build converts every level spec and validates the result
func (f *File) Build(id string) (*Catalog, error) {
	levels := make([]engine.Level, 0, len(f.Levels))
	for i, spec := range f.Levels {
		level, err := spec.Level()
		if err != nil {
			return nil, fmt.Errorf("catalog %q level %d: %w", id, i+1, err)
		}
		levels = append(levels, level)
	}
	return New(id, f.Name, f.Description, levels)
}

// Encode serializes a catalog in the given format
func Encode(c *Catalog, format Format) ([]byte, error) {
	file := File{Name: c.Name(), Description: c.Description()}
	for _, level := range c.levels {
		file.Levels = append(file.Levels, SpecFromLevel(level))
	}

	switch format {
	case FormatJSON:
		return json.MarshalIndent(file, "", "  ")
	case FormatYAML:
		return yaml.Marshal(file)
	}
	return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidCatalog, format)
}
