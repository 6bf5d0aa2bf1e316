package service

import (
	"time"

	"github.com/wricardo/arrowbot/game/catalog"
	"github.com/wricardo/arrowbot/game/engine"
	"github.com/wricardo/arrowbot/game/progression"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string        `json:"id"`
	CatalogID      string        `json:"catalog_id"`
	CatalogName    string        `json:"catalog_name"`
	CreatedAt      time.Time     `json:"created_at"`
	LastAccessedAt time.Time     `json:"last_accessed_at"`
	GameState      *GameState    `json:"game_state"`
	Catalog        *catalog.Info `json:"catalog"`
}

// GameState is a session's progression state plus the active level
type GameState struct {
	SessionID string `json:"session_id"`
	progression.State
	Level     engine.Level `json:"level"`
	Grid      []string     `json:"grid"` // level layout with the avatar drawn as A
	LastRunID string       `json:"last_run_id,omitempty"`
	Message   string       `json:"message,omitempty"`
}

// RunReport describes a started or finished run
type RunReport struct {
	RunID      string            `json:"run_id"`
	Background bool              `json:"background"`
	Result     *engine.RunResult `json:"result,omitempty"`
	GameState  *GameState        `json:"game_state"`
	Message    string            `json:"message"`

	// Failure diagnostics
	CrashStep   int              `json:"crash_step,omitempty"` // 1-based index of the instruction that crashed
	CrashTarget *engine.Position `json:"crash_target,omitempty"`
	GoalMissBy  int              `json:"goal_miss_by,omitempty"` // Manhattan distance left to the goal
}

// CatalogView is a catalog with all of its levels
type CatalogView struct {
	*catalog.Info
	Levels []engine.Level `json:"levels"`
}

// LevelView is one level of a catalog
type LevelView struct {
	CatalogID string       `json:"catalog_id"`
	Index     int          `json:"index"`
	Level     engine.Level `json:"level"`
	Grid      []string     `json:"grid"`
	Distance  int          `json:"distance"` // Manhattan distance from start to goal
	Density   float64      `json:"obstacle_density"`
}

// Explanation answers a concept question
type Explanation struct {
	Topic string `json:"topic"`
	Text  string `json:"text"`
}
