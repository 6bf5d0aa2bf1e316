// Package service provides the business logic layer for Arrow Bot.
//
// The service package implements:
//   - Multi-session game management
//   - Catalog listing and level lookup
//   - Program authoring and run orchestration
//   - Level progression (select, continue, restart)
//   - Friendly concept explanations
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// CatalogManager loads level catalogs.
// Explainer answers "what is ...?" questions in kid-friendly language.
//
// Architecture:
//
// The service layer sits between the transports (HTTP/WebSocket/MCP) and the
// progression controller. Each session owns its own controller, so sessions
// never share mutable state. Every run gets a UUID so transports can
// correlate streamed step events with the final report.
//
// Usage:
//
//	sessionMgr := session.NewManager(nil)
//	catalogMgr, _ := catalog.NewManager("levels")
//	gameService := service.NewGameService(sessionMgr, catalogMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameService.AddInstructions(ctx, info.ID, []string{"right", "right", "right"})
//	report, err := gameService.Run(ctx, info.ID, true)
//
// Runs:
//
// Run with wait=true blocks until the outcome is known and returns it. With
// wait=false the run continues on the session's own context, the report only
// carries the run ID, and the outcome shows up later as last_outcome in the
// game state and as feedback events.
package service
