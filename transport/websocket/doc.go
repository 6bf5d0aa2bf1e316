// Package websocket streams Arrow Bot events to browser clients.
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a pair of
// goroutines that read, write and clean up.
//
// Message Protocol:
//
// Every frame is one JSON message:
//
//	{"session_id": "ab12", "event": "step_landed", "data": {...}}
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//
// Event names are the feedback event types (instruction_added, step_started,
// step_landed, crashed, goal_missed, succeeded, all_levels_cleared, ...), the
// narration message types (narration, sound, reward) and state_update.
//
// Session Integration:
//
// Clients pick their session with the ?session= query parameter. Messages
// are delivered only to clients of the same session. Hub.Channel adapts the
// hub to a feedback.Channel and Hub.Publish makes it a narration.Publisher,
// so both can be attached to a session when it is created.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// Broadcasting never blocks the caller. When the hub falls behind, messages
// are dropped and counted; a client whose own buffer is full is disconnected.
package websocket
