package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wricardo/arrowbot/game/catalog"
	"github.com/wricardo/arrowbot/game/engine"
	"github.com/wricardo/arrowbot/game/progression"
	"github.com/wricardo/arrowbot/game/service"
)

func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func sampleState() *service.GameState {
	return &service.GameState{
		SessionID: "a1b2",
		State: progression.State{
			Phase:        progression.PhaseAwaitingRun,
			LevelIndex:   1,
			LevelID:      "classic-02",
			LevelCount:   30,
			UnlockedUpTo: 1,
			Avatar:       engine.Position{X: 0, Y: 1},
			Program:      []engine.Direction{engine.Right, engine.Right},
		},
		Level: engine.Level{
			ID:       "classic-02",
			Name:     "Straight Ahead",
			GridSize: 3,
			Start:    engine.Position{X: 0, Y: 1},
			Goal:     engine.Position{X: 2, Y: 1},
		},
		Grid: []string{"...", "A.G", "..."},
	}
}

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	if client == nil {
		t.Fatal("Expected client to be created")
	}
	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sampleState())
	}))
	defer server.Close()

	client := NewClient(server.URL)
	var state service.GameState
	if err := client.apiCall(context.Background(), "GET", "/api/sessions/a1b2/state", nil, &state); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if state.SessionID != "a1b2" {
		t.Errorf("Expected session a1b2, got %s", state.SessionID)
	}
	if state.LevelIndex != 1 {
		t.Errorf("Expected level index 1, got %d", state.LevelIndex)
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:99999")

	err := client.apiCall(context.Background(), "GET", "/test", nil, nil)
	if err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"error body", `{"error":"session ffff: session not found"}`, "session ffff: session not found"},
		{"no error body", ``, "API error: 404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL)
			err := client.apiCall(context.Background(), "GET", "/test", nil, nil)
			if err == nil {
				t.Fatal("Expected error for 404 response")
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("Expected %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestClient_createSession(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)

		resp := service.SessionInfo{
			ID:          "c0de",
			CatalogID:   catalog.ClassicID,
			CatalogName: "Classic",
			CreatedAt:   time.Now(),
			GameState:   sampleState(),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleCreateSession(context.Background(), toolRequest("create_session", map[string]interface{}{
		"catalog_id": "classic",
	}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "c0de") {
		t.Errorf("Expected session ID in result, got: %s", text)
	}
	if !strings.Contains(text, "A.G") {
		t.Errorf("Expected grid in result, got: %s", text)
	}
	if gotBody["catalog_id"] != "classic" {
		t.Errorf("Expected catalog_id to be forwarded, got %v", gotBody)
	}
}

func TestClient_addInstructions(t *testing.T) {
	var gotBody struct {
		Directions []string `json:"directions"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions/a1b2/program" {
			t.Errorf("Expected POST /api/sessions/a1b2/program, got %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(sampleState())
	}))
	defer server.Close()

	client := NewClient(server.URL)

	t.Run("forwards directions", func(t *testing.T) {
		result, err := client.handleAddInstructions(context.Background(), toolRequest("add_instructions", map[string]interface{}{
			"session_id": "a1b2",
			"directions": []interface{}{"right", "right"},
			"intent":     "walk straight to the goal",
		}))
		if err != nil {
			t.Fatalf("addInstructions failed: %v", err)
		}

		text := resultText(t, result)
		if !strings.Contains(text, "Program (2): right, right") {
			t.Errorf("Expected program in result, got: %s", text)
		}
		if len(gotBody.Directions) != 2 {
			t.Errorf("Expected 2 directions forwarded, got %v", gotBody.Directions)
		}
	})

	t.Run("rejects empty list", func(t *testing.T) {
		result, err := client.handleAddInstructions(context.Background(), toolRequest("add_instructions", map[string]interface{}{
			"session_id": "a1b2",
		}))
		if err != nil {
			t.Fatalf("addInstructions failed: %v", err)
		}
		if !result.IsError {
			t.Error("Expected an error result for an empty directions list")
		}
	})
}

func TestClient_selectLevel(t *testing.T) {
	var gotIndex int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]int
		json.NewDecoder(r.Body).Decode(&body)
		gotIndex = body["level_index"]
		json.NewEncoder(w).Encode(sampleState())
	}))
	defer server.Close()

	client := NewClient(server.URL)
	// JSON numbers arrive as float64
	result, err := client.handleSelectLevel(context.Background(), toolRequest("select_level", map[string]interface{}{
		"session_id":  "a1b2",
		"level_index": float64(1),
	}))
	if err != nil {
		t.Fatalf("selectLevel failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("Unexpected error result: %s", resultText(t, result))
	}
	if gotIndex != 1 {
		t.Errorf("Expected level_index 1, got %d", gotIndex)
	}
}

func TestClient_runProgram(t *testing.T) {
	tests := []struct {
		name     string
		report   service.RunReport
		wantText []string
	}{
		{
			name: "success",
			report: service.RunReport{
				RunID: "run-1",
				Result: &engine.RunResult{
					Status:        engine.StatusSucceeded,
					FinalPosition: engine.Position{X: 2, Y: 1},
					CrashStep:     -1,
					Steps: []engine.StepRecord{
						{Index: 0, Direction: engine.Right, From: engine.Position{X: 0, Y: 1}, To: engine.Position{X: 1, Y: 1}},
						{Index: 1, Direction: engine.Right, From: engine.Position{X: 1, Y: 1}, To: engine.Position{X: 2, Y: 1}},
					},
				},
				Message: "Great job!",
			},
			wantText: []string{"✓ reached the goal", "2. right (1,1)->(2,1)", "Great job!"},
		},
		{
			name: "crash",
			report: service.RunReport{
				RunID:       "run-2",
				Result:      &engine.RunResult{Status: engine.StatusCrashed, CrashStep: 0},
				CrashStep:   1,
				CrashTarget: &engine.Position{X: 1, Y: 1},
			},
			wantText: []string{"✗ crashed", "Instruction 1 hit the obstacle at (1,1)"},
		},
		{
			name: "goal missed",
			report: service.RunReport{
				RunID:      "run-3",
				Result:     &engine.RunResult{Status: engine.StatusFinishedNoGoal, FinalPosition: engine.Position{X: 1, Y: 1}, CrashStep: -1},
				GoalMissBy: 1,
			},
			wantText: []string{"finished away from the goal", "1 cells from the goal"},
		},
		{
			name:     "background",
			report:   service.RunReport{RunID: "run-4", Background: true},
			wantText: []string{"started in the background"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotWait bool
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var body map[string]bool
				json.NewDecoder(r.Body).Decode(&body)
				gotWait = body["wait"]
				json.NewEncoder(w).Encode(tt.report)
			}))
			defer server.Close()

			client := NewClient(server.URL)
			result, err := client.handleRunProgram(context.Background(), toolRequest("run_program", map[string]interface{}{
				"session_id": "a1b2",
				"background": tt.report.Background,
			}))
			if err != nil {
				t.Fatalf("runProgram failed: %v", err)
			}

			text := resultText(t, result)
			for _, want := range tt.wantText {
				if !strings.Contains(text, want) {
					t.Errorf("Expected %q in result, got: %s", want, text)
				}
			}
			if gotWait == tt.report.Background {
				t.Errorf("Expected wait=%v, got %v", !tt.report.Background, gotWait)
			}
		})
	}
}

func TestClient_stateCallRequiresSession(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGetState(context.Background(), toolRequest("get_state", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("gameState failed: %v", err)
	}
	if !result.IsError {
		t.Error("Expected an error result without session_id")
	}
}

func TestFormatGameState(t *testing.T) {
	result := formatGameState(sampleState())

	expected := []string{
		"Level 2/30: Straight Ahead [awaiting_run]",
		"Robot: (0,1)  Goal: (2,1)",
		"Unlocked up to level 2",
		"Program (2): right, right",
		"A.G",
	}
	for _, want := range expected {
		if !strings.Contains(result, want) {
			t.Errorf("Expected %q in result, got: %s", want, result)
		}
	}
}

func TestFormatGameState_Phases(t *testing.T) {
	tests := []struct {
		phase progression.Phase
		want  string
	}{
		{progression.PhaseCompleted, "continue_level"},
		{progression.PhaseAllLevelsCleared, "restart"},
	}

	for _, tt := range tests {
		state := sampleState()
		state.Phase = tt.phase
		state.Program = nil

		result := formatGameState(state)
		if !strings.Contains(result, tt.want) {
			t.Errorf("Expected %q for phase %s, got: %s", tt.want, tt.phase, result)
		}
		if !strings.Contains(result, "Program: (empty)") {
			t.Errorf("Expected empty program marker, got: %s", result)
		}
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), toolRequest("game_instructions", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := resultText(t, result)
	expectedContent := []string{
		"Arrow Robot Puzzles - Complete Instructions",
		"GAME OBJECTIVE:",
		"GRID LEGEND:",
		"MOVEMENT COMMANDS:",
		"RULES:",
		"PROGRESSION:",
	}
	for _, content := range expectedContent {
		if !strings.Contains(text, content) {
			t.Errorf("Expected '%s' in instructions", content)
		}
	}
}
