// Package mcp exposes the arrow robot puzzle game to AI agents over the
// Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request to the REST
// API served by package api, and the JSON answer is rendered as text that
// an agent can read (level header, program, grid, run report).
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session management
//   - get_state: current level, grid, program and progress
//   - list_catalogs: available level catalogs
//   - select_level: jump to a level by index
//   - add_instructions, clear_program: edit the program
//   - run_program: run and report success, crash step or distance left
//   - abort_run, continue_level, restart: run and progression control
//   - explain: kid-friendly explanation of a concept
//   - game_instructions: full rules
//
// Transport Modes:
//
// main wires the same MCPServer in two ways:
//   - Stdio: server.ServeStdio for local MCP clients
//   - HTTP: POST /mcp forwarded to MCPServer.HandleMessage
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
