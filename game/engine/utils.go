package engine

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	return abs(from.X-to.X) + abs(from.Y-to.Y)
}

// ObstacleDensity returns the share of grid cells covered by obstacles
func ObstacleDensity(level Level) float64 {
	cells := level.GridSize * level.GridSize
	if cells == 0 {
		return 0
	}
	return float64(len(level.Obstacles)) / float64(cells)
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
