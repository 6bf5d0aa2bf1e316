package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/arrowbot/game/catalog"
	"github.com/wricardo/arrowbot/game/engine"
)

const validJSON = `{
	"name": "Test Catalog",
	"levels": [
		{"name": "Right", "grid_size": 3, "start": {"x": 0, "y": 0}, "goal": {"x": 2, "y": 0}},
		{"name": "Down", "grid_size": 4, "start": {"x": 0, "y": 0}, "goal": {"x": 0, "y": 3}, "obstacles": [{"x": 1, "y": 1}]}
	]
}`

const validYAML = `name: Layout Catalog
levels:
  - name: Hop
    layout:
      - "S.G"
      - ".#."
      - "..."
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name      string
		file      string
		content   string
		wantValid bool
		wantText  string
	}{
		{"valid json", "ok.json", validJSON, true, "✓ Levels: 2"},
		{"valid yaml layout", "ok.yaml", validYAML, true, "✓ Grid: 3x3"},
		{"broken json", "broken.json", `{"name":`, false, "failed to parse JSON"},
		{"goal on obstacle", "bad.json", `{"name":"x","levels":[{"grid_size":3,"start":{"x":0,"y":0},"goal":{"x":1,"y":1},"obstacles":[{"x":1,"y":1}]}]}`, false, "malformed level"},
		{"no levels", "empty.yaml", "name: Empty\nlevels: []\n", false, "has no levels"},
		{"layout mixed with coordinates", "mixed.yaml", "name: Mixed\nlevels:\n  - grid_size: 3\n    layout: [\"S.G\", \"...\", \"...\"]\n", false, "layout cannot be combined"},
		{"unsupported extension", "notes.txt", "hello", false, "unsupported file extension"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)

			result := validateFile(path)
			if result.Valid != tt.wantValid {
				t.Fatalf("Expected valid=%v, got %v (errors: %v)", tt.wantValid, result.Valid, result.Errors)
			}

			lines := result.Notes
			if !result.Valid {
				lines = result.Errors
			}
			if !strings.Contains(strings.Join(lines, "\n"), tt.wantText) {
				t.Errorf("Expected %q in %v", tt.wantText, lines)
			}
		})
	}
}

func TestValidateFile_MissingFile(t *testing.T) {
	result := validateFile(filepath.Join(t.TempDir(), "missing.json"))

	if result.Valid {
		t.Fatal("Expected a missing file to be invalid")
	}
	if !strings.Contains(result.Errors[0], "failed to read file") {
		t.Errorf("Unexpected error: %v", result.Errors)
	}
}

func TestResolveFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", validYAML)
	writeFile(t, dir, "a.json", validJSON)
	writeFile(t, dir, "c.yml", validYAML)
	writeFile(t, dir, "readme.md", "ignored")

	files, err := resolveFiles(nil, dir)
	if err != nil {
		t.Fatalf("resolveFiles failed: %v", err)
	}

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	if got := strings.Join(names, ","); got != "a.json,b.yaml,c.yml" {
		t.Errorf("Expected a.json,b.yaml,c.yml, got %s", got)
	}

	explicit, err := resolveFiles([]string{"x.json"}, dir)
	if err != nil || len(explicit) != 1 || explicit[0] != "x.json" {
		t.Errorf("Expected explicit args to win, got %v, %v", explicit, err)
	}

	if _, err := resolveFiles(nil, t.TempDir()); !errors.Is(err, errNoFiles) {
		t.Errorf("Expected errNoFiles for an empty directory, got %v", err)
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok.json", validJSON)

	var out bytes.Buffer
	err := newApp(&out).Run(context.Background(), []string{"levelcheck", "validate", "--levels-dir", dir})
	if err != nil {
		t.Fatalf("validate failed: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "✅ All catalogs are valid!") {
		t.Errorf("Unexpected output:\n%s", out.String())
	}

	writeFile(t, dir, "bad.json", `{"name": "Bad", "levels": [{"grid_size": 0, "start": {"x":0,"y":0}, "goal": {"x":0,"y":0}}]}`)
	out.Reset()
	err = newApp(&out).Run(context.Background(), []string{"levelcheck", "validate", "--levels-dir", dir})
	if !errors.Is(err, errInvalidFiles) {
		t.Fatalf("Expected errInvalidFiles, got %v", err)
	}
	if !strings.Contains(out.String(), "❌ INVALID") {
		t.Errorf("Expected the invalid file to be reported:\n%s", out.String())
	}
}

func TestAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ok.json", validJSON)

	var out bytes.Buffer
	if err := newApp(&out).Run(context.Background(), []string{"levelcheck", "analyze", path}); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	report := out.String()
	for _, want := range []string{"=== Analyzing ok (Test Catalog) ===", "ok-01", "ok-02", "4x4", "6%"} {
		if !strings.Contains(report, want) {
			t.Errorf("Expected %q in report:\n%s", want, report)
		}
	}
}

func TestAnalyzeClassic(t *testing.T) {
	var out bytes.Buffer
	if err := newApp(&out).Run(context.Background(), []string{"levelcheck", "analyze", "--classic"}); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	report := out.String()
	if !strings.Contains(report, "classic-01") || !strings.Contains(report, "classic-30") {
		t.Errorf("Expected every classic level in the report:\n%s", report)
	}
}

func TestShippedLevels(t *testing.T) {
	dir := filepath.Join("..", "..", "levels")
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Skip("Skipping test - levels directory not found")
	}

	files, err := resolveFiles(nil, dir)
	if err != nil {
		t.Fatalf("resolveFiles failed: %v", err)
	}
	for _, file := range files {
		if result := validateFile(file); !result.Valid {
			t.Errorf("%s is invalid: %v", result.File, result.Errors)
		}
	}
}

func TestTraceCommand(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		wants []string
	}{
		{
			name:  "goal reached",
			args:  []string{"--level", "1", "right", "right", "right"},
			wants: []string{"=== Tracing classic-01: Just go right ===", "3. right (2,1) -> (3,1)", "Result: succeeded at (3,1)"},
		},
		{
			name:  "crash stops the trace",
			args:  []string{"--level", "2", "left", "down"},
			wants: []string{"1. left  (1,0) -> (0,0)", "2. down  (0,0) -> (0,1) (blocked)", "Result: crashed at (0,0)"},
		},
		{
			name:  "edge clamp",
			args:  []string{"up"},
			wants: []string{"1. up    (0,1) -> (0,0)", "Result: finished_no_goal at (0,0)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			args := append([]string{"levelcheck", "trace", "--levels-dir", t.TempDir()}, tt.args...)
			if err := newApp(&out).Run(context.Background(), args); err != nil {
				t.Fatalf("trace failed: %v", err)
			}
			for _, want := range tt.wants {
				if !strings.Contains(out.String(), want) {
					t.Errorf("Expected %q in output:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestTraceCommand_Errors(t *testing.T) {
	dir := t.TempDir()

	var out bytes.Buffer
	err := newApp(&out).Run(context.Background(), []string{"levelcheck", "trace", "--levels-dir", dir, "--level", "31", "up"})
	if !errors.Is(err, errLevelRange) {
		t.Errorf("Expected errLevelRange, got %v", err)
	}

	err = newApp(&out).Run(context.Background(), []string{"levelcheck", "trace", "--levels-dir", dir, "sideways"})
	if !errors.Is(err, engine.ErrInvalidInstruction) {
		t.Errorf("Expected ErrInvalidInstruction, got %v", err)
	}

	err = newApp(&out).Run(context.Background(), []string{"levelcheck", "trace", "--levels-dir", dir, "--catalog", "../ok", "up"})
	if !errors.Is(err, catalog.ErrCatalogNotFound) {
		t.Errorf("Expected ErrCatalogNotFound, got %v", err)
	}
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()

	var out bytes.Buffer
	err := newApp(&out).Run(context.Background(), []string{"levelcheck", "export", "--levels-dir", dir, "--format", "yaml", "starter"})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Exported classic (30 levels)") {
		t.Errorf("Unexpected output:\n%s", out.String())
	}

	path := filepath.Join(dir, "starter.yaml")
	result := validateFile(path)
	if !result.Valid {
		t.Fatalf("Exported catalog is invalid: %v", result.Errors)
	}
	cat, err := loadFile(path)
	if err != nil {
		t.Fatalf("Failed to load export: %v", err)
	}
	if cat.Len() != 30 {
		t.Errorf("Expected 30 levels, got %d", cat.Len())
	}

	out.Reset()
	err = newApp(&out).Run(context.Background(), []string{"levelcheck", "trace", "--levels-dir", dir, "--catalog", "starter", "right", "right", "right"})
	if err != nil {
		t.Fatalf("trace of exported catalog failed: %v", err)
	}
	if !strings.Contains(out.String(), "Result: succeeded") {
		t.Errorf("Expected the exported level 1 to play like classic:\n%s", out.String())
	}
}

func TestExportCommand_Errors(t *testing.T) {
	dir := t.TempDir()

	var out bytes.Buffer
	if err := newApp(&out).Run(context.Background(), []string{"levelcheck", "export", "--levels-dir", dir, "--format", "toml"}); err == nil {
		t.Error("Expected an unsupported format to fail")
	}
	if err := newApp(&out).Run(context.Background(), []string{"levelcheck", "export", "--levels-dir", dir, "../escape"}); err == nil {
		t.Error("Expected a path outside the levels directory to fail")
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "escape.json")); !os.IsNotExist(err) {
		t.Errorf("Expected no file outside the levels directory, got %v", err)
	}
}
