package feedback

import "github.com/wricardo/arrowbot/game/engine"

// Channel receives authoring, execution and progression events
type Channel interface {
	engine.Observer

	OnInstructionAdded(dir engine.Direction)
	OnInstructionsCleared()
	OnSucceeded(levelIndex int)
	OnAllLevelsCleared()
}

// EventType names a feedback event
type EventType string

const (
	EventInstructionAdded  EventType = "instruction_added"
	EventInstructionsClear EventType = "instructions_cleared"
	EventStepStarted       EventType = "step_started"
	EventStepLanded        EventType = "step_landed"
	EventCrashed           EventType = "crashed"
	EventGoalMissed        EventType = "goal_missed"
	EventSucceeded         EventType = "succeeded"
	EventAllLevelsCleared  EventType = "all_levels_cleared"
)

// Event is the value form of a Channel call
type Event struct {
	Type       EventType        `json:"type"`
	Direction  engine.Direction `json:"direction,omitempty"`
	StepIndex  int              `json:"step_index"`
	Position   *engine.Position `json:"position,omitempty"`
	LevelIndex int              `json:"level_index"`
}

// Nop discards every event
type Nop struct{}

func (Nop) OnInstructionAdded(engine.Direction) {}
func (Nop) OnInstructionsCleared() {}
func (Nop) OnStepStarted(int) {}
func (Nop) OnStepLanded(engine.Position) {}
func (Nop) OnCrashed(int, engine.Position) {}
func (Nop) OnGoalMissed(engine.Position) {}
func (Nop) OnSucceeded(int) {}
func (Nop) OnAllLevelsCleared() {}

// Emitter converts Channel calls into Event values passed to a sink
type Emitter func(Event)

func (f Emitter) OnInstructionAdded(dir engine.Direction) {
	f(Event{Type: EventInstructionAdded, Direction: dir, StepIndex: -1})
}

func (f Emitter) OnInstructionsCleared() {
	f(Event{Type: EventInstructionsClear, StepIndex: -1})
}

func (f Emitter) OnStepStarted(stepIndex int) {
	f(Event{Type: EventStepStarted, StepIndex: stepIndex})
}

func (f Emitter) OnStepLanded(pos engine.Position) {
	f(Event{Type: EventStepLanded, StepIndex: -1, Position: &pos})
}

func (f Emitter) OnCrashed(stepIndex int, pos engine.Position) {
	f(Event{Type: EventCrashed, StepIndex: stepIndex, Position: &pos})
}

func (f Emitter) OnGoalMissed(finalPos engine.Position) {
	f(Event{Type: EventGoalMissed, StepIndex: -1, Position: &finalPos})
}

func (f Emitter) OnSucceeded(levelIndex int) {
	f(Event{Type: EventSucceeded, StepIndex: -1, LevelIndex: levelIndex})
}

func (f Emitter) OnAllLevelsCleared() {
	f(Event{Type: EventAllLevelsCleared, StepIndex: -1})
}

// Replay delivers e to ch as the matching Channel call
func Replay(ch Channel, e Event) {
	var pos engine.Position
	if e.Position != nil {
		pos = *e.Position
	}

	switch e.Type {
	case EventInstructionAdded:
		ch.OnInstructionAdded(e.Direction)
	case EventInstructionsClear:
		ch.OnInstructionsCleared()
	case EventStepStarted:
		ch.OnStepStarted(e.StepIndex)
	case EventStepLanded:
		ch.OnStepLanded(pos)
	case EventCrashed:
		ch.OnCrashed(e.StepIndex, pos)
	case EventGoalMissed:
		ch.OnGoalMissed(pos)
	case EventSucceeded:
		ch.OnSucceeded(e.LevelIndex)
	case EventAllLevelsCleared:
		ch.OnAllLevelsCleared()
	}
}
