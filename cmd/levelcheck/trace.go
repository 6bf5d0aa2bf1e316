package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/wricardo/arrowbot/game/catalog"
	"github.com/wricardo/arrowbot/game/engine"
)

var errLevelRange = errors.New("level out of range")

// openManager serves the levels directory when it exists and only the
// built-in catalog otherwise
func openManager(dir string) (*catalog.Manager, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		dir = ""
	}
	return catalog.NewManager(dir)
}

// runTrace replays moves against level number (1-based) of the named catalog
func runTrace(w io.Writer, manager *catalog.Manager, name string, number int, moves []string) error {
	cat, err := manager.LoadCatalog(name)
	if err != nil {
		return err
	}
	if number < 1 || number > cat.Len() {
		return fmt.Errorf("%w: %d (catalog %s has %d levels)", errLevelRange, number, cat.ID(), cat.Len())
	}
	level, err := cat.Get(number - 1)
	if err != nil {
		return err
	}

	program := make([]engine.Direction, 0, len(moves))
	for _, m := range moves {
		dir, err := engine.ParseDirection(m)
		if err != nil {
			return err
		}
		program = append(program, dir)
	}

	fmt.Fprintf(w, "=== Tracing %s: %s ===\n", level.ID, level.Name)
	result := engine.Trace(level, program)
	for _, step := range result.Steps {
		note := ""
		switch {
		case step.Blocked:
			note = " (blocked)"
		case step.Clamped:
			note = " (edge)"
		}
		fmt.Fprintf(w, "%d. %-5s (%d,%d) -> (%d,%d)%s\n",
			step.Index+1, step.Direction, step.From.X, step.From.Y, step.To.X, step.To.Y, note)
	}
	fmt.Fprintf(w, "Result: %s at (%d,%d)\n", result.Status, result.FinalPosition.X, result.FinalPosition.Y)
	return nil
}

// runExport writes the named catalog into the manager's levels directory
func runExport(w io.Writer, manager *catalog.Manager, name, target string, format catalog.Format) error {
	cat, err := manager.LoadCatalog(name)
	if err != nil {
		return err
	}
	if target == "" {
		target = cat.ID()
	}
	filename := target
	if _, ok := catalog.FormatFromPath(target); !ok {
		filename = target + "." + string(format)
	}

	if err := manager.SaveCatalog(filename, cat); err != nil {
		return err
	}
	fmt.Fprintf(w, "✓ Exported %s (%d levels) to %s/%s\n", cat.ID(), cat.Len(), manager.LevelsDir(), filename)
	return nil
}
