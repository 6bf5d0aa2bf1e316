package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/arrowbot/game/catalog"
	"github.com/wricardo/arrowbot/game/engine"
	"github.com/wricardo/arrowbot/game/progression"
	"github.com/wricardo/arrowbot/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			// Waiting runs are paced by the step delay
			Timeout: 60 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Arrow Robot Puzzles",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Arrow Robot Puzzles - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Write a program of arrow instructions (up/down/left/right) that moves the
robot (A) from its start cell to the goal (G) without bumping into an
obstacle (#). Each instruction moves exactly one cell. Clear a level to
unlock the next one.

AVAILABLE TOOLS:
- create_session: Create a new game session
- list_sessions / get_session: Inspect sessions
- get_state: Current level, grid, program and progress
- list_catalogs: Available level catalogs
- select_level: Jump to a level by index
- add_instructions: Append arrows to the program
- clear_program: Remove every instruction
- run_program: Execute the program and report the outcome
- abort_run: Stop a run in progress
- continue_level: Move on after clearing a level
- restart: Go back to the first level
- explain: Ask for a kid-friendly explanation of a concept
- game_instructions: Full rules and tips`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional catalog selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"catalog_id": map[string]interface{}{
					"type":        "string",
					"description": "Catalog to play (optional, defaults to classic)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game state
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_state",
		Description: "Get the current level, grid, program and progress",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_catalogs",
		Description: "List available level catalogs",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListCatalogs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "select_level",
		Description: "Jump to a level of the session's catalog. Clears the program.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"level_index": map[string]interface{}{
					"type":        "integer",
					"description": "Zero-based level index",
				},
			},
			Required: []string{"session_id", "level_index"},
		},
	}, c.handleSelectLevel)

	// Program authoring
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "add_instructions",
		Description: "Append arrow instructions to the program",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"directions": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"up", "down", "left", "right"},
					},
					"description": "Instructions in execution order",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the plan behind these instructions (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "directions"},
		},
	}, c.handleAddInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "clear_program",
		Description: "Remove every instruction from the program",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleClearProgram)

	// Runs and progression
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "run_program",
		Description: "Run the program on the current level and report what happened",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"background": map[string]interface{}{
					"type":        "boolean",
					"description": "Return immediately instead of waiting for the outcome",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRunProgram)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "abort_run",
		Description: "Stop a run in progress and put the robot back on its start cell",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleAbortRun)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "continue_level",
		Description: "Move on to the next level after clearing the current one",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleContinue)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "restart",
		Description: "Go back to the first level. Unlocked levels stay unlocked.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleRestart)

	// Help
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "explain",
		Description: "Get a short, kid-friendly explanation of a programming concept",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"topic": map[string]interface{}{
					"type":        "string",
					"description": "Concept to explain (optional)",
				},
			},
		},
	}, c.handleExplain)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the full rules of the game and tips for solving levels",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall makes an HTTP call to the REST API
func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]string{}
	if catalogID := request.GetString("catalog_id", ""); catalogID != "" {
		body["catalog_id"] = catalogID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	if session.GameState != nil {
		result += "\n" + formatGameState(session.GameState)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var resp struct {
		Count    int                    `json:"count"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if resp.Count == 0 {
		return mcp.NewToolResultText("No active sessions"), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Active sessions (%d):\n", resp.Count)
	for _, session := range resp.Sessions {
		sb.WriteString("- " + formatSessionInfo(session))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", "/api/sessions/"+sessionID, nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	if session.GameState != nil {
		result += "\n" + formatGameState(session.GameState)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.stateCall(ctx, request, "GET", "/state", nil)
}

func (c *Client) handleListCatalogs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var catalogs []*catalog.Info
	if err := c.apiCall(ctx, "GET", "/api/catalogs", nil, &catalogs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	sb.WriteString("Available catalogs:\n")
	for _, info := range catalogs {
		fmt.Fprintf(&sb, "- %s (%s): %d levels, grids %d-%d", info.CatalogID, info.Name, info.Levels, info.MinGridSize, info.MaxGridSize)
		if info.Description != "" {
			sb.WriteString(" - " + info.Description)
		}
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleSelectLevel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := request.RequireInt("level_index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return c.stateCall(ctx, request, "POST", "/select", map[string]int{"level_index": index})
}

func (c *Client) handleAddInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	directions := request.GetStringSlice("directions", nil)
	if len(directions) == 0 {
		return mcp.NewToolResultError("directions must contain at least one of up, down, left, right"), nil
	}

	// The intent argument is only there for the caller's own reasoning
	return c.stateCall(ctx, request, "POST", "/program", map[string]interface{}{"directions": directions})
}

func (c *Client) handleClearProgram(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.stateCall(ctx, request, "DELETE", "/program", nil)
}

func (c *Client) handleRunProgram(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	background := request.GetBool("background", false)

	var report service.RunReport
	path := fmt.Sprintf("/api/sessions/%s/run", sessionID)
	if err := c.apiCall(ctx, "POST", path, map[string]bool{"wait": !background}, &report); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRunReport(&report)), nil
}

func (c *Client) handleAbortRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.stateCall(ctx, request, "POST", "/abort", nil)
}

func (c *Client) handleContinue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.stateCall(ctx, request, "POST", "/continue", nil)
}

func (c *Client) handleRestart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.stateCall(ctx, request, "POST", "/restart", nil)
}

func (c *Client) handleExplain(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var explanation service.Explanation
	body := map[string]string{"topic": request.GetString("topic", "")}
	if err := c.apiCall(ctx, "POST", "/api/explain", body, &explanation); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(explanation.Text), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameInstructions), nil
}

// stateCall runs a session operation that answers with a game state
func (c *Client) stateCall(ctx context.Context, request mcp.CallToolRequest, method, suffix string, body interface{}) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	var state service.GameState
	if err := c.apiCall(ctx, method, "/api/sessions/"+sessionID+suffix, body, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGameState(&state)), nil
}

const gameInstructions = `Arrow Robot Puzzles - Complete Instructions

GAME OBJECTIVE:
Each level is a square grid with a robot, a goal and some obstacles.
Build a program of arrows, then run it. The level is cleared when the
robot is standing on the goal after the last instruction.

GRID LEGEND:
- A = robot (avatar)
- S = start cell (shown when the robot has moved away)
- G = goal
- # = obstacle
- . = empty cell
Row 0 is the top of the grid. x grows to the right, y grows downwards.

MOVEMENT COMMANDS:
- up: y - 1
- down: y + 1
- left: x - 1
- right: x + 1

RULES:
- Instructions run one at a time, in order.
- Moving into an obstacle is a crash. The run stops and the robot goes back to start.
- Moving off the edge of the grid does nothing; the robot stays where it is.
- Passing over the goal does not count. The robot must end the program on it.
- The program is locked while it runs; abort_run stops it early.
- A program holds at most 100 instructions.

PROGRESSION:
- Clearing a level unlocks the next one.
- Call continue_level to move on, or select_level to replay any level.
- Clearing the last level finishes the catalog. restart goes back to level 1.

TIPS:
- Count the cells between the robot and the goal before writing arrows.
- Plan around obstacles: go around them, never through.
- If a run crashes, the report tells you which instruction hit which cell.
- If the robot finishes short of the goal, the report tells you how far it was.

Good luck, and have fun programming your robot!`

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nCatalog: %s (%s)\nCreated: %s\n",
		session.ID, session.CatalogName, session.CatalogID, session.CreatedAt.Format(time.RFC3339))
}

func formatGameState(state *service.GameState) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Level %d/%d", state.LevelIndex+1, state.LevelCount)
	if state.Level.Name != "" {
		fmt.Fprintf(&sb, ": %s", state.Level.Name)
	}
	fmt.Fprintf(&sb, " [%s]\n", state.Phase)
	fmt.Fprintf(&sb, "Robot: (%d,%d)  Goal: (%d,%d)\n",
		state.Avatar.X, state.Avatar.Y, state.Level.Goal.X, state.Level.Goal.Y)
	fmt.Fprintf(&sb, "Unlocked up to level %d\n", state.UnlockedUpTo+1)

	if len(state.Program) == 0 {
		sb.WriteString("Program: (empty)\n")
	} else {
		fmt.Fprintf(&sb, "Program (%d): %s\n", len(state.Program), formatProgram(state.Program))
	}
	if state.Running {
		sb.WriteString("A run is in progress\n")
	}

	if len(state.Grid) > 0 {
		sb.WriteString("\nGrid:\n")
		for _, row := range state.Grid {
			sb.WriteString(row + "\n")
		}
	}

	switch state.Phase {
	case progression.PhaseCompleted:
		sb.WriteString("\nLevel cleared! Call continue_level for the next one.\n")
	case progression.PhaseAllLevelsCleared:
		sb.WriteString("\nEvery level is cleared! Call restart to play again.\n")
	}

	if state.Message != "" {
		sb.WriteString("\n" + state.Message + "\n")
	}
	return sb.String()
}

func formatProgram(program []engine.Direction) string {
	parts := make([]string, len(program))
	for i, d := range program {
		parts[i] = string(d)
	}
	return strings.Join(parts, ", ")
}

func formatRunReport(report *service.RunReport) string {
	var sb strings.Builder

	if report.Background {
		fmt.Fprintf(&sb, "Run %s started in the background. Check get_state for the outcome.\n", report.RunID)
		return sb.String()
	}

	fmt.Fprintf(&sb, "Run %s", report.RunID)
	if report.Result != nil {
		switch report.Result.Status {
		case engine.StatusSucceeded:
			sb.WriteString(": ✓ reached the goal\n")
		case engine.StatusCrashed:
			sb.WriteString(": ✗ crashed\n")
			if report.CrashTarget != nil {
				fmt.Fprintf(&sb, "Instruction %d hit the obstacle at (%d,%d)\n",
					report.CrashStep, report.CrashTarget.X, report.CrashTarget.Y)
			}
		case engine.StatusFinishedNoGoal:
			sb.WriteString(": ✗ finished away from the goal\n")
			fmt.Fprintf(&sb, "Ended at (%d,%d), %d cells from the goal\n",
				report.Result.FinalPosition.X, report.Result.FinalPosition.Y, report.GoalMissBy)
		}

		if len(report.Result.Steps) > 0 {
			sb.WriteString("Steps:\n")
			for _, step := range report.Result.Steps {
				fmt.Fprintf(&sb, "  %d. %s (%d,%d)->(%d,%d)%s\n", step.Index+1, step.Direction,
					step.From.X, step.From.Y, step.To.X, step.To.Y, stepNote(step))
			}
		}
	} else {
		sb.WriteString("\n")
	}

	if report.Message != "" {
		sb.WriteString(report.Message + "\n")
	}
	if report.GameState != nil {
		sb.WriteString("\n" + formatGameState(report.GameState))
	}
	return sb.String()
}

func stepNote(step engine.StepRecord) string {
	switch {
	case step.Blocked:
		return " BLOCKED"
	case step.Clamped:
		return " edge"
	default:
		return ""
	}
}
