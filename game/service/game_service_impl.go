package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/wricardo/arrowbot/game/catalog"
	"github.com/wricardo/arrowbot/game/engine"
	"github.com/wricardo/arrowbot/game/progression"
)

// AvatarMark marks the avatar in rendered grids
const AvatarMark = 'A'

const explainFallback = "Oops! My magic wand is tired. Let's just play the game!"

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions  SessionManager
	catalogs  CatalogManager
	explainer Explainer
	onRunDone StateListener
}

// Option configures the game service
type Option func(*gameServiceImpl)

// WithExplainer sets the source of concept explanations
func WithExplainer(e Explainer) Option {
	return func(s *gameServiceImpl) { s.explainer = e }
}

// StateListener receives a session's game state when a background run ends
type StateListener func(sessionID string, state *GameState)

// WithStateListener sets the callback notified when a background run ends
func WithStateListener(fn StateListener) Option {
	return func(s *gameServiceImpl) { s.onRunDone = fn }
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, catalogs CatalogManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		catalogs: catalogs,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, catalogID string) (*SessionInfo, error) {
	var cat *catalog.Catalog
	var err error
	if catalogID != "" {
		cat, err = s.catalogs.LoadCatalog(catalogID)
		if err != nil {
			// Provide helpful error message with available options
			if errors.Is(err, catalog.ErrCatalogNotFound) {
				if available, listErr := s.catalogs.ListCatalogs(); listErr == nil && len(available) > 0 {
					var ids []string
					for _, info := range available {
						ids = append(ids, info.CatalogID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available catalogs: %v", catalog.ErrCatalogNotFound, catalogID, ids)
				}
			}
			return nil, fmt.Errorf("failed to load catalog %s: %w", catalogID, err)
		}
	} else {
		cat = s.catalogs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", cat)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Printf("[SESSION] created %s with catalog %s (%d levels)", sess.ID, cat.ID(), cat.Len())
	return s.sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(sessionID)
}

// AddInstruction appends one instruction to the session's program
func (s *gameServiceImpl) AddInstruction(ctx context.Context, sessionID, direction string) (*GameState, error) {
	return s.AddInstructions(ctx, sessionID, []string{direction})
}

// AddInstructions appends instructions; an invalid one rejects the whole batch
func (s *gameServiceImpl) AddInstructions(ctx context.Context, sessionID string, directions []string) (*GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	dirs, err := parseDirections(directions)
	if err != nil {
		return nil, err
	}
	if err := sess.Controller.AddInstructions(dirs); err != nil {
		return nil, err
	}

	return s.gameState(sess, ""), nil
}

// ClearProgram empties the session's program
func (s *gameServiceImpl) ClearProgram(ctx context.Context, sessionID string) (*GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Controller.ClearProgram(); err != nil {
		return nil, err
	}
	return s.gameState(sess, "Program cleared"), nil
}

// SelectLevel activates a level
func (s *gameServiceImpl) SelectLevel(ctx context.Context, sessionID string, levelIndex int) (*GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Controller.Select(levelIndex); err != nil {
		return nil, err
	}

	level := sess.Controller.CurrentLevel()
	return s.gameState(sess, fmt.Sprintf("Level %d: %s", levelIndex+1, level.Name)), nil
}

// Run executes the session's program
func (s *gameServiceImpl) Run(ctx context.Context, sessionID string, wait bool) (*RunReport, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	runCtx := ctx
	if !wait {
		runCtx = sess.Context()
	}

	done, err := sess.Controller.Start(runCtx)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	sess.setLastRunID(runID)
	level := sess.Controller.CurrentLevel()
	log.Printf("[RUN] %s: run %s started on %s (wait=%v)", sess.ID, runID, level.ID, wait)

	if !wait {
		go func() {
			outcome := <-done
			logOutcome(sess.ID, runID, outcome)
			if s.onRunDone == nil {
				return
			}
			message := "Run stopped"
			if outcome.Err == nil {
				message = describeOutcome(level, outcome.Result)
			}
			s.onRunDone(sess.ID, s.gameState(sess, message))
		}()
		return &RunReport{
			RunID:      runID,
			Background: true,
			GameState:  s.gameState(sess, ""),
			Message:    "Running! Watch the robot move.",
		}, nil
	}

	outcome := <-done
	logOutcome(sess.ID, runID, outcome)
	if outcome.Err != nil {
		return nil, outcome.Err
	}

	report := &RunReport{
		RunID:   runID,
		Result:  outcome.Result,
		Message: describeOutcome(level, outcome.Result),
	}
	switch outcome.Result.Status {
	case engine.StatusCrashed:
		report.CrashStep = outcome.Result.CrashStep + 1
		report.CrashTarget = outcome.Result.CrashTarget
	case engine.StatusFinishedNoGoal:
		report.GoalMissBy = engine.ManhattanDistance(outcome.Result.FinalPosition, level.Goal)
	}
	report.GameState = s.gameState(sess, report.Message)
	return report, nil
}

// Abort cancels the session's run in flight, if any
func (s *gameServiceImpl) Abort(ctx context.Context, sessionID string) (*GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	message := "Nothing is running"
	if sess.Controller.Abort() {
		message = "Run stopped"
		log.Printf("[RUN] %s: abort requested", sess.ID)
	}
	return s.gameState(sess, message), nil
}

// Continue moves on to the next level after a success
func (s *gameServiceImpl) Continue(ctx context.Context, sessionID string) (*GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Controller.Continue(); err != nil {
		return nil, err
	}

	level := sess.Controller.CurrentLevel()
	state := sess.Controller.CurrentState()
	return s.gameState(sess, fmt.Sprintf("Level %d: %s", state.LevelIndex+1, level.Name)), nil
}

// Restart begins the catalog again from the first level
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Controller.Restart(); err != nil {
		return nil, err
	}

	log.Printf("[SESSION] %s restarted", sess.ID)
	return s.gameState(sess, "Starting over from level 1"), nil
}

// GetState returns the session's game state
func (s *gameServiceImpl) GetState(ctx context.Context, sessionID string) (*GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.gameState(sess, ""), nil
}

// ListCatalogs returns every available catalog
func (s *gameServiceImpl) ListCatalogs(ctx context.Context) ([]*catalog.Info, error) {
	return s.catalogs.ListCatalogs()
}

// GetCatalog returns a catalog with its levels
func (s *gameServiceImpl) GetCatalog(ctx context.Context, catalogID string) (*CatalogView, error) {
	cat, err := s.catalogs.LoadCatalog(catalogID)
	if err != nil {
		return nil, err
	}
	return &CatalogView{Info: cat.Info(), Levels: cat.Levels()}, nil
}

// GetLevel returns one level of a catalog with a few metrics
func (s *gameServiceImpl) GetLevel(ctx context.Context, catalogID string, levelIndex int) (*LevelView, error) {
	cat, err := s.catalogs.LoadCatalog(catalogID)
	if err != nil {
		return nil, err
	}
	level, err := cat.Get(levelIndex)
	if err != nil {
		return nil, err
	}
	return &LevelView{
		CatalogID: cat.ID(),
		Index:     levelIndex,
		Level:     level,
		Grid:      level.Layout(),
		Distance:  engine.ManhattanDistance(level.Start, level.Goal),
		Density:   engine.ObstacleDensity(level),
	}, nil
}

// Explain returns a friendly explanation of a concept
func (s *gameServiceImpl) Explain(ctx context.Context, topic string) (*Explanation, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, errors.New("topic is required")
	}

	text := explainFallback
	if s.explainer != nil {
		text = s.explainer.Explain(ctx, topic)
	}
	return &Explanation{Topic: topic, Text: text}, nil
}

// session looks up a session and marks it as accessed
func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		CatalogID:      sess.Catalog.ID(),
		CatalogName:    sess.Catalog.Name(),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt(),
		GameState:      s.gameState(sess, ""),
		Catalog:        sess.Catalog.Info(),
	}
}

func (s *gameServiceImpl) gameState(sess *Session, message string) *GameState {
	state := sess.Controller.CurrentState()
	level, _ := sess.Catalog.Get(state.LevelIndex)

	if message == "" {
		message = describePhase(state)
	}

	return &GameState{
		SessionID: sess.ID,
		State:     state,
		Level:     level,
		Grid:      renderGrid(level, state.Avatar),
		LastRunID: sess.LastRunID(),
		Message:   message,
	}
}

// renderGrid draws the level layout with the avatar on top
func renderGrid(level engine.Level, avatar engine.Position) []string {
	rows := level.Layout()
	if level.InBounds(avatar) {
		row := []byte(rows[avatar.Y])
		row[avatar.X] = AvatarMark
		rows[avatar.Y] = string(row)
	}
	return rows
}

func parseDirections(directions []string) ([]engine.Direction, error) {
	dirs := make([]engine.Direction, 0, len(directions))
	for i, raw := range directions {
		dir, err := engine.ParseDirection(raw)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i+1, err)
		}
		dirs = append(dirs, dir)
	}
	return dirs, nil
}

func describePhase(state progression.State) string {
	switch state.Phase {
	case progression.PhaseIdle:
		return "Add some arrows to build a program"
	case progression.PhaseAwaitingRun:
		return fmt.Sprintf("%d instructions ready. Press run!", len(state.Program))
	case progression.PhaseCompleted:
		return "Level complete! Continue to the next level"
	case progression.PhaseAllLevelsCleared:
		return fmt.Sprintf("Amazing! You cleared all %d levels!", state.LevelCount)
	}
	return ""
}

func describeOutcome(level engine.Level, result *engine.RunResult) string {
	switch result.Status {
	case engine.StatusSucceeded:
		return fmt.Sprintf("Reached the goal in %d steps!", len(result.Steps))
	case engine.StatusCrashed:
		return fmt.Sprintf("Bonk! Instruction %d ran into an obstacle at %s", result.CrashStep+1, result.CrashTarget)
	case engine.StatusFinishedNoGoal:
		dist := engine.ManhattanDistance(result.FinalPosition, level.Goal)
		return fmt.Sprintf("Stopped at %s, %d steps away from the goal. Try again!", result.FinalPosition, dist)
	}
	return string(result.Status)
}

func logOutcome(sessionID, runID string, outcome progression.Outcome) {
	if outcome.Err != nil {
		log.Printf("[RUN] %s: run %s ended: %v", sessionID, runID, outcome.Err)
		return
	}
	r := outcome.Result
	log.Printf("[RUN] %s: run %s %s at %s after %d steps", sessionID, runID, r.Status, r.FinalPosition, len(r.Steps))
}
