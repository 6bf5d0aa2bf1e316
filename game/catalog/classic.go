package catalog

import "github.com/wricardo/arrowbot/game/engine"

// ClassicID identifies the built-in catalog
const ClassicID = "classic"

// Classic returns the built-in thirty level catalog. Grids grow from 4x4 to
// 6x6 and obstacles get denser as the levels progress.
func Classic() *Catalog {
	return MustNew(ClassicID, "Classic", "Thirty levels from a straight line to the grand spiral", classicLevels())
}

func classicLevels() []engine.Level {
	return []engine.Level{
		{ID: "classic-01", Name: "Just go right", GridSize: 4, Start: engine.Position{X: 0, Y: 1}, Goal: engine.Position{X: 3, Y: 1}, Obstacles: []engine.Position{}},
		{ID: "classic-02", Name: "Just go down", GridSize: 4, Start: engine.Position{X: 1, Y: 0}, Goal: engine.Position{X: 1, Y: 3}, Obstacles: []engine.Position{{X: 0, Y: 1}, {X: 2, Y: 2}}},
		{ID: "classic-03", Name: "One simple turn", GridSize: 4, Start: engine.Position{X: 0, Y: 0}, Goal: engine.Position{X: 2, Y: 2}, Obstacles: []engine.Position{{X: 1, Y: 0}, {X: 2, Y: 0}}},
		{ID: "classic-04", Name: "Simple Dodge", GridSize: 4, Start: engine.Position{X: 0, Y: 2}, Goal: engine.Position{X: 3, Y: 2}, Obstacles: []engine.Position{{X: 1, Y: 2}, {X: 1, Y: 3}}},
		{ID: "classic-05", Name: "The Stairs", GridSize: 4, Start: engine.Position{X: 0, Y: 0}, Goal: engine.Position{X: 2, Y: 2}, Obstacles: []engine.Position{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: 2, Y: 1}}},
		{ID: "classic-06", Name: "Long Straight Walk", GridSize: 5, Start: engine.Position{X: 0, Y: 2}, Goal: engine.Position{X: 4, Y: 2}, Obstacles: []engine.Position{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1}, {X: 4, Y: 1}}},
		{ID: "classic-07", Name: "Go Around the Block", GridSize: 5, Start: engine.Position{X: 2, Y: 0}, Goal: engine.Position{X: 2, Y: 4}, Obstacles: []engine.Position{{X: 2, Y: 2}, {X: 1, Y: 2}, {X: 3, Y: 2}}},
		{ID: "classic-08", Name: "The Tunnel", GridSize: 5, Start: engine.Position{X: 0, Y: 2}, Goal: engine.Position{X: 4, Y: 2}, Obstacles: []engine.Position{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1}, {X: 1, Y: 3}, {X: 2, Y: 3}, {X: 3, Y: 3}}},
		{ID: "classic-09", Name: "Big U-Turn", GridSize: 5, Start: engine.Position{X: 0, Y: 0}, Goal: engine.Position{X: 4, Y: 0}, Obstacles: []engine.Position{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}, {X: 1, Y: 2}, {X: 2, Y: 2}, {X: 3, Y: 2}}},
		{ID: "classic-10", Name: "Simple Zig Zag", GridSize: 5, Start: engine.Position{X: 1, Y: 0}, Goal: engine.Position{X: 3, Y: 4}, Obstacles: []engine.Position{{X: 2, Y: 0}, {X: 2, Y: 1}, {X: 2, Y: 3}, {X: 2, Y: 4}}},
		{ID: "classic-11", Name: "Pillars", GridSize: 5, Start: engine.Position{X: 0, Y: 2}, Goal: engine.Position{X: 4, Y: 2}, Obstacles: []engine.Position{{X: 1, Y: 1}, {X: 1, Y: 3}, {X: 3, Y: 1}, {X: 3, Y: 3}}},
		{ID: "classic-12", Name: "The Snake", GridSize: 5, Start: engine.Position{X: 0, Y: 0}, Goal: engine.Position{X: 4, Y: 0}, Obstacles: []engine.Position{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1}, {X: 3, Y: 0}}},
		{ID: "classic-13", Name: "Two Walls", GridSize: 5, Start: engine.Position{X: 0, Y: 0}, Goal: engine.Position{X: 4, Y: 0}, Obstacles: []engine.Position{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 3, Y: 4}, {X: 3, Y: 3}, {X: 3, Y: 2}}},
		{ID: "classic-14", Name: "Zig Zag Up", GridSize: 5, Start: engine.Position{X: 2, Y: 4}, Goal: engine.Position{X: 2, Y: 0}, Obstacles: []engine.Position{{X: 2, Y: 3}, {X: 1, Y: 3}, {X: 1, Y: 2}, {X: 3, Y: 2}, {X: 3, Y: 1}, {X: 2, Y: 1}}},
		{ID: "classic-15", Name: "Corner to Corner", GridSize: 5, Start: engine.Position{X: 0, Y: 4}, Goal: engine.Position{X: 4, Y: 0}, Obstacles: []engine.Position{{X: 0, Y: 3}, {X: 1, Y: 3}, {X: 2, Y: 3}, {X: 2, Y: 2}, {X: 2, Y: 1}, {X: 3, Y: 1}}},
		{ID: "classic-16", Name: "The Maze Begins", GridSize: 5, Start: engine.Position{X: 2, Y: 2}, Goal: engine.Position{X: 4, Y: 4}, Obstacles: []engine.Position{{X: 3, Y: 3}, {X: 3, Y: 2}, {X: 2, Y: 3}, {X: 1, Y: 2}, {X: 2, Y: 1}}},
		{ID: "classic-17", Name: "Escape the Box", GridSize: 5, Start: engine.Position{X: 2, Y: 2}, Goal: engine.Position{X: 0, Y: 0}, Obstacles: []engine.Position{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1}, {X: 3, Y: 2}, {X: 3, Y: 3}, {X: 2, Y: 3}, {X: 1, Y: 3}}},
		{ID: "classic-18", Name: "Wide 6x6 Diagonal", GridSize: 6, Start: engine.Position{X: 0, Y: 0}, Goal: engine.Position{X: 5, Y: 5}, Obstacles: []engine.Position{{X: 1, Y: 0}, {X: 2, Y: 1}, {X: 3, Y: 2}, {X: 4, Y: 3}, {X: 5, Y: 4}}},
		{ID: "classic-19", Name: "Long Way Around", GridSize: 6, Start: engine.Position{X: 0, Y: 0}, Goal: engine.Position{X: 0, Y: 1}, Obstacles: []engine.Position{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 1, Y: 3}, {X: 1, Y: 4}, {X: 1, Y: 5}, {X: 3, Y: 0}, {X: 3, Y: 1}, {X: 3, Y: 2}, {X: 3, Y: 3}, {X: 3, Y: 4}, {X: 3, Y: 5}, {X: 5, Y: 0}, {X: 5, Y: 1}}},
		{ID: "classic-20", Name: "Divide", GridSize: 6, Start: engine.Position{X: 2, Y: 5}, Goal: engine.Position{X: 3, Y: 0}, Obstacles: []engine.Position{{X: 2, Y: 4}, {X: 3, Y: 4}, {X: 2, Y: 3}, {X: 3, Y: 3}, {X: 2, Y: 2}, {X: 3, Y: 2}}},
		{ID: "classic-21", Name: "Scatter", GridSize: 6, Start: engine.Position{X: 0, Y: 2}, Goal: engine.Position{X: 5, Y: 3}, Obstacles: []engine.Position{{X: 2, Y: 2}, {X: 3, Y: 3}, {X: 2, Y: 3}, {X: 3, Y: 2}}},
		{ID: "classic-22", Name: "Tight Spin", GridSize: 6, Start: engine.Position{X: 2, Y: 3}, Goal: engine.Position{X: 3, Y: 2}, Obstacles: []engine.Position{{X: 2, Y: 2}, {X: 3, Y: 3}, {X: 1, Y: 3}, {X: 4, Y: 2}, {X: 2, Y: 4}, {X: 3, Y: 1}}},
		{ID: "classic-23", Name: "The Big Snake", GridSize: 6, Start: engine.Position{X: 0, Y: 5}, Goal: engine.Position{X: 5, Y: 0}, Obstacles: []engine.Position{{X: 1, Y: 5}, {X: 1, Y: 4}, {X: 1, Y: 3}, {X: 3, Y: 3}, {X: 3, Y: 2}, {X: 3, Y: 1}, {X: 5, Y: 1}}},
		{ID: "classic-24", Name: "Spiral In", GridSize: 6, Start: engine.Position{X: 0, Y: 0}, Goal: engine.Position{X: 3, Y: 3}, Obstacles: []engine.Position{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1}, {X: 4, Y: 1}, {X: 4, Y: 2}, {X: 4, Y: 3}, {X: 4, Y: 4}, {X: 2, Y: 3}}},
		{ID: "classic-25", Name: "Corner Maze", GridSize: 6, Start: engine.Position{X: 5, Y: 5}, Goal: engine.Position{X: 0, Y: 0}, Obstacles: []engine.Position{{X: 4, Y: 4}, {X: 5, Y: 4}, {X: 2, Y: 2}, {X: 3, Y: 2}, {X: 2, Y: 3}, {X: 3, Y: 3}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}},
		{ID: "classic-26", Name: "Stripes", GridSize: 6, Start: engine.Position{X: 0, Y: 0}, Goal: engine.Position{X: 5, Y: 5}, Obstacles: []engine.Position{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 1, Y: 3}, {X: 1, Y: 4}, {X: 3, Y: 5}, {X: 3, Y: 4}, {X: 3, Y: 3}, {X: 3, Y: 2}, {X: 3, Y: 1}}},
		{ID: "classic-27", Name: "The Hurdles", GridSize: 6, Start: engine.Position{X: 0, Y: 5}, Goal: engine.Position{X: 5, Y: 5}, Obstacles: []engine.Position{{X: 1, Y: 5}, {X: 2, Y: 4}, {X: 3, Y: 5}, {X: 5, Y: 3}, {X: 5, Y: 4}}},
		{ID: "classic-28", Name: "Around the World", GridSize: 6, Start: engine.Position{X: 2, Y: 2}, Goal: engine.Position{X: 3, Y: 3}, Obstacles: []engine.Position{{X: 2, Y: 3}, {X: 3, Y: 2}, {X: 1, Y: 1}, {X: 4, Y: 4}, {X: 1, Y: 4}, {X: 4, Y: 1}}},
		{ID: "classic-29", Name: "Final Test A", GridSize: 6, Start: engine.Position{X: 0, Y: 0}, Goal: engine.Position{X: 5, Y: 0}, Obstacles: []engine.Position{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 3, Y: 5}, {X: 3, Y: 4}, {X: 3, Y: 3}, {X: 5, Y: 2}, {X: 5, Y: 1}}},
		{ID: "classic-30", Name: "The Grand Spiral", GridSize: 6, Start: engine.Position{X: 0, Y: 0}, Goal: engine.Position{X: 3, Y: 3}, Obstacles: []engine.Position{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1}, {X: 4, Y: 1}, {X: 4, Y: 2}, {X: 4, Y: 3}, {X: 4, Y: 4}, {X: 1, Y: 4}, {X: 2, Y: 4}, {X: 3, Y: 4}, {X: 1, Y: 3}, {X: 2, Y: 3}}},
	}
}
