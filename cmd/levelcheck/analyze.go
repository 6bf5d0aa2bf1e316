package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/wricardo/arrowbot/game/catalog"
	"github.com/wricardo/arrowbot/game/engine"
)

// LevelStats is the static summary of one level
type LevelStats struct {
	Index     int
	ID        string
	Name      string
	GridSize  int
	Obstacles int
	Distance  int
	Density   float64
}

func levelStats(index int, level engine.Level) LevelStats {
	return LevelStats{
		Index:     index,
		ID:        level.ID,
		Name:      level.Name,
		GridSize:  level.GridSize,
		Obstacles: len(level.Obstacles),
		Distance:  engine.ManhattanDistance(level.Start, level.Goal),
		Density:   engine.ObstacleDensity(level),
	}
}

func analyzeCatalog(w io.Writer, cat *catalog.Catalog) {
	fmt.Fprintf(w, "\n=== Analyzing %s (%s) ===\n", cat.ID(), cat.Name())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tNAME\tGRID\tOBSTACLES\tDISTANCE\tDENSITY")
	for i, level := range cat.Levels() {
		s := levelStats(i, level)
		fmt.Fprintf(tw, "%d\t%s\t%s\t%dx%d\t%d\t%d\t%.0f%%\n",
			s.Index+1, s.ID, s.Name, s.GridSize, s.GridSize, s.Obstacles, s.Distance, s.Density*100)
	}
	tw.Flush()
}

// runAnalyze prints statistics for every file. Files that fail to load are
// reported and skipped.
func runAnalyze(w io.Writer, files []string) error {
	loaded := 0
	for _, file := range files {
		cat, err := loadFile(file)
		if err != nil {
			fmt.Fprintf(w, "\n=== %s ===\nError: %v\n", file, err)
			continue
		}
		analyzeCatalog(w, cat)
		loaded++
	}
	if loaded == 0 {
		return errInvalidFiles
	}
	return nil
}

func runAnalyzeClassic(w io.Writer) error {
	analyzeCatalog(w, catalog.Classic())
	return nil
}
