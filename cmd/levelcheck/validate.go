package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/arrowbot/game/catalog"
)

var (
	errNoFiles      = errors.New("no catalog files found")
	errInvalidFiles = errors.New("some catalogs have errors")
)

// ValidationResult captures the outcome of validating a single file.
// Notes holds informational lines for valid files.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Notes  []string
}

// resolveFiles returns args, or every catalog file in dir when args is empty
func resolveFiles(args []string, dir string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", dir, err)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", errNoFiles, dir)
	}
	sort.Strings(files)
	return files, nil
}

// loadFile parses one catalog file. The catalog ID is the file name without
// its extension, as the server derives it.
func loadFile(path string) (*catalog.Catalog, error) {
	format, ok := catalog.FormatFromPath(path)
	if !ok {
		return nil, fmt.Errorf("unsupported file extension %q", filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return catalog.Parse(id, data, format)
}

// validateFile loads and validates a single catalog file
func validateFile(path string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(path),
		Valid: true,
	}

	cat, err := loadFile(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	info := cat.Info()
	result.Notes = append(result.Notes,
		fmt.Sprintf("✓ Name: %s", info.Name),
		fmt.Sprintf("✓ Levels: %d", info.Levels),
	)
	if info.MinGridSize == info.MaxGridSize {
		result.Notes = append(result.Notes, fmt.Sprintf("✓ Grid: %dx%d", info.MinGridSize, info.MinGridSize))
	} else {
		result.Notes = append(result.Notes, fmt.Sprintf("✓ Grids: %dx%d to %dx%d",
			info.MinGridSize, info.MinGridSize, info.MaxGridSize, info.MaxGridSize))
	}
	return result
}

// runValidate validates every file and prints a report. It fails when any
// file is invalid.
func runValidate(w io.Writer, files []string) error {
	allValid := true
	for _, file := range files {
		result := validateFile(file)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, note := range result.Notes {
				fmt.Fprintln(w, "  "+note)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, msg := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+msg)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if !allValid {
		fmt.Fprintln(w, "❌ Some catalogs have errors")
		return errInvalidFiles
	}
	fmt.Fprintln(w, "✅ All catalogs are valid!")
	return nil
}
