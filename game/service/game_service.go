package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wricardo/arrowbot/game/catalog"
	"github.com/wricardo/arrowbot/game/progression"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidLevelIndex    = errors.New("invalid level index")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, catalogID string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Program authoring
	AddInstruction(ctx context.Context, sessionID, direction string) (*GameState, error)
	AddInstructions(ctx context.Context, sessionID string, directions []string) (*GameState, error)
	ClearProgram(ctx context.Context, sessionID string) (*GameState, error)

	// Runs and progression
	SelectLevel(ctx context.Context, sessionID string, levelIndex int) (*GameState, error)
	Run(ctx context.Context, sessionID string, wait bool) (*RunReport, error)
	Abort(ctx context.Context, sessionID string) (*GameState, error)
	Continue(ctx context.Context, sessionID string) (*GameState, error)
	Restart(ctx context.Context, sessionID string) (*GameState, error)

	// Game State
	GetState(ctx context.Context, sessionID string) (*GameState, error)

	// Catalogs
	ListCatalogs(ctx context.Context) ([]*catalog.Info, error)
	GetCatalog(ctx context.Context, catalogID string) (*CatalogView, error)
	GetLevel(ctx context.Context, catalogID string, levelIndex int) (*LevelView, error)

	// Help
	Explain(ctx context.Context, topic string) (*Explanation, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, cat *catalog.Catalog) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// CatalogManager handles catalog loading
type CatalogManager interface {
	LoadCatalog(name string) (*catalog.Catalog, error)
	ListCatalogs() ([]*catalog.Info, error)
	GetDefault() *catalog.Catalog
}

// Explainer turns a programming concept into a short, friendly explanation
type Explainer interface {
	Explain(ctx context.Context, topic string) string
}

// Session represents an active game session
type Session struct {
	ID         string
	Catalog    *catalog.Catalog
	Controller *progression.Controller
	CreatedAt  time.Time

	ctx     context.Context
	cancel  context.CancelFunc
	cleanup func()
	once    sync.Once

	mu             sync.Mutex
	lastAccessedAt time.Time
	lastRunID      string
}

// NewSession wraps a controller. cleanup, if not nil, runs once on Close.
func NewSession(id string, cat *catalog.Catalog, ctrl *progression.Controller, cleanup func()) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now()
	return &Session{
		ID:             id,
		Catalog:        cat,
		Controller:     ctrl,
		CreatedAt:      now,
		ctx:            ctx,
		cancel:         cancel,
		cleanup:        cleanup,
		lastAccessedAt: now,
	}
}

// Context is cancelled when the session is closed. Background runs use it.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Close aborts any run in flight and releases the session's collaborators
func (s *Session) Close() {
	s.once.Do(func() {
		s.cancel()
		s.Controller.Abort()
		if s.cleanup != nil {
			s.cleanup()
		}
	})
}

// LastAccessedAt returns when the session was last used
func (s *Session) LastAccessedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessedAt
}

// SetLastAccessed records when the session was last used
func (s *Session) SetLastAccessed(t time.Time) {
	s.mu.Lock()
	s.lastAccessedAt = t
	s.mu.Unlock()
}

// LastRunID returns the ID of the most recent run
func (s *Session) LastRunID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRunID
}

func (s *Session) setLastRunID(id string) {
	s.mu.Lock()
	s.lastRunID = id
	s.mu.Unlock()
}
