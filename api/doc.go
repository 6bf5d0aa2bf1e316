// Package api provides HTTP REST API handlers for the arrow robot puzzle game.
//
// The api package implements:
//   - Session management endpoints
//   - Program authoring and run control for a session
//   - Catalog and level browsing
//   - WebSocket upgrade handling
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"catalog_id": "classic"}, optional)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session and abort its run
//
// Program and Runs:
//   - GET /api/sessions/{id}/state - Current progression state and grid
//   - POST /api/sessions/{id}/program - Append {"direction": "up"} or {"directions": [...]}
//   - DELETE /api/sessions/{id}/program - Clear the program
//   - POST /api/sessions/{id}/select - Select a level ({"level_index": 0})
//   - POST /api/sessions/{id}/run - Run the program ({"wait": false} runs in the background)
//   - POST /api/sessions/{id}/abort - Cancel a run in flight
//   - POST /api/sessions/{id}/continue - Advance after a completed level
//   - POST /api/sessions/{id}/restart - Return to the first level
//
// Catalogs:
//   - GET /api/catalogs - List available catalogs
//   - GET /api/catalogs/{name} - Catalog with all levels
//   - GET /api/catalogs/{name}/levels/{index} - One level with its rendered grid
//
// Other:
//   - POST /api/explain - Kid-friendly explanation of a topic ({"topic": "..."})
//   - GET /api/health - Health check
//   - GET /ws?session={id} - WebSocket stream of feedback events and state updates
//
// Every mutating endpoint broadcasts the new game state to the session's
// WebSocket clients. Background runs broadcast their final state when they
// finish.
//
// Error Handling:
//
// Errors are returned as JSON, with the status derived from the error:
//
//	400  malformed JSON body (an empty body is fine where the body is optional)
//	404  unknown session, catalog or level index
//	409  program locked by a running run, continue before completion
//	422  invalid instruction, empty or full program, malformed level
//	499  run aborted before it finished
//
//	{
//	  "error": "session 9f3a: session not found"
//	}
package api
