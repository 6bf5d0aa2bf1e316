package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/wricardo/arrowbot/game/catalog"
	"github.com/wricardo/arrowbot/game/engine"
	"github.com/wricardo/arrowbot/game/program"
	"github.com/wricardo/arrowbot/game/progression"
	"github.com/wricardo/arrowbot/game/service"
	"github.com/wricardo/arrowbot/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server. hub may be nil.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Program authoring
	api.HandleFunc("/sessions/{id}/state", s.handleGetState).Methods("GET")
	api.HandleFunc("/sessions/{id}/program", s.handleAddInstructions).Methods("POST")
	api.HandleFunc("/sessions/{id}/program", s.handleClearProgram).Methods("DELETE")

	// Runs and progression
	api.HandleFunc("/sessions/{id}/select", s.handleSelectLevel).Methods("POST")
	api.HandleFunc("/sessions/{id}/run", s.handleRun).Methods("POST")
	api.HandleFunc("/sessions/{id}/abort", s.handleAbort).Methods("POST")
	api.HandleFunc("/sessions/{id}/continue", s.handleContinue).Methods("POST")
	api.HandleFunc("/sessions/{id}/restart", s.handleRestart).Methods("POST")

	// Catalogs
	api.HandleFunc("/catalogs", s.handleListCatalogs).Methods("GET")
	api.HandleFunc("/catalogs/{name}", s.handleGetCatalog).Methods("GET")
	api.HandleFunc("/catalogs/{name}/levels/{index}", s.handleGetLevel).Methods("GET")

	// Help
	api.HandleFunc("/explain", s.handleExplain).Methods("POST")

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps a service error onto its HTTP status
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusForError(err), err.Error())
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, catalog.ErrCatalogNotFound),
		errors.Is(err, catalog.ErrOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSessionAlreadyExists),
		errors.Is(err, program.ErrLockedWhileRunning),
		errors.Is(err, progression.ErrNotCompleted):
		return http.StatusConflict
	case errors.Is(err, engine.ErrMalformedLevel),
		errors.Is(err, engine.ErrEmptyProgram),
		errors.Is(err, engine.ErrInvalidInstruction),
		errors.Is(err, program.ErrProgramFull):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidLevelIndex):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrRunAborted):
		// nginx's "client closed request"; the run was cancelled under the caller
		return 499
	default:
		return http.StatusInternalServerError
	}
}

// decodeOptional decodes a JSON body into v. A missing or empty body leaves
// v untouched.
func decodeOptional(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Server) broadcast(state *service.GameState) {
	if s.hub == nil || state == nil || s.hub.ClientCount(state.SessionID) == 0 {
		return
	}
	s.hub.BroadcastToSession(state.SessionID, state)
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CatalogID string `json:"catalog_id,omitempty"`
	}

	// An empty body selects the default catalog
	if err := decodeOptional(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := s.service.CreateSession(r.Context(), req.CatalogID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default)
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			sessions = sessions[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Program Handlers

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.GetState(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleAddInstructions(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Direction  string   `json:"direction,omitempty"`
		Directions []string `json:"directions,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var (
		state *service.GameState
		err   error
	)
	switch {
	case len(req.Directions) > 0:
		state, err = s.service.AddInstructions(r.Context(), sessionID, req.Directions)
	case req.Direction != "":
		state, err = s.service.AddInstruction(r.Context(), sessionID, req.Direction)
	default:
		respondError(w, http.StatusBadRequest, "direction or directions is required")
		return
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(state)
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleClearProgram(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.ClearProgram(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(state)
	respondJSON(w, http.StatusOK, state)
}

// Run and Progression Handlers

func (s *Server) handleSelectLevel(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		LevelIndex *int `json:"level_index"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.LevelIndex == nil {
		respondError(w, http.StatusBadRequest, "level_index is required")
		return
	}

	state, err := s.service.SelectLevel(r.Context(), sessionID, *req.LevelIndex)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(state)
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	// Runs wait for the outcome unless the caller asks otherwise
	req := struct {
		Wait *bool `json:"wait,omitempty"`
	}{}
	if err := decodeOptional(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	wait := req.Wait == nil || *req.Wait

	report, err := s.service.Run(r.Context(), sessionID, wait)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(report.GameState)

	status := "started"
	if report.Result != nil {
		status = string(report.Result.Status)
	}
	log.Printf("[RUN] session=%s run=%s status=%s", sessionID, report.RunID, status)

	code := http.StatusOK
	if report.Background {
		code = http.StatusAccepted
	}
	respondJSON(w, code, report)
}

func (s *Server) handleAbort(w http.ResponseWriter, r *http.Request) {
	s.handleStateChange(w, r, s.service.Abort)
}

func (s *Server) handleContinue(w http.ResponseWriter, r *http.Request) {
	s.handleStateChange(w, r, s.service.Continue)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.handleStateChange(w, r, s.service.Restart)
}

func (s *Server) handleStateChange(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, sessionID string) (*service.GameState, error)) {
	sessionID := mux.Vars(r)["id"]

	state, err := op(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(state)
	respondJSON(w, http.StatusOK, state)
}

// Catalog Handlers

func (s *Server) handleListCatalogs(w http.ResponseWriter, r *http.Request) {
	catalogs, err := s.service.ListCatalogs(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, catalogs)
}

func (s *Server) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	view, err := s.service.GetCatalog(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleGetLevel(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		respondServiceError(w, fmt.Errorf("%w: %q", service.ErrInvalidLevelIndex, vars["index"]))
		return
	}

	view, err := s.service.GetLevel(r.Context(), vars["name"], index)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic string `json:"topic"`
	}

	if err := decodeOptional(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	explanation, err := s.service.Explain(r.Context(), req.Topic)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, explanation)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	if _, err := s.service.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}
	if s.hub == nil {
		http.Error(w, "WebSocket updates are disabled", http.StatusServiceUnavailable)
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
