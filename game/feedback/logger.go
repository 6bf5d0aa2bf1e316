package feedback

import "log"

// NewLogger returns a channel that writes one compact line per event,
// prefixed with the session ID
func NewLogger(sessionID string) Channel {
	return Emitter(func(e Event) {
		switch e.Type {
		case EventInstructionAdded:
			log.Printf("[PROGRAM] session=%s add=%s", sessionID, e.Direction)
		case EventInstructionsClear:
			log.Printf("[PROGRAM] session=%s cleared", sessionID)
		case EventStepStarted:
			log.Printf("[STEP] session=%s step=%d", sessionID, e.StepIndex)
		case EventStepLanded:
			log.Printf("[STEP] session=%s landed=%s", sessionID, e.Position)
		case EventCrashed:
			log.Printf("[RUN] session=%s CRASHED step=%d at=%s", sessionID, e.StepIndex, e.Position)
		case EventGoalMissed:
			log.Printf("[RUN] session=%s MISSED final=%s", sessionID, e.Position)
		case EventSucceeded:
			log.Printf("[RUN] session=%s SUCCEEDED level=%d", sessionID, e.LevelIndex)
		case EventAllLevelsCleared:
			log.Printf("[RUN] session=%s ALL LEVELS CLEARED", sessionID)
		}
	})
}
