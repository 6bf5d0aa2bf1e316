package feedback

import (
	"log"

	"github.com/wricardo/arrowbot/game/engine"
)

// Multi fans every event out to several channels. A panicking channel is
// logged and skipped so it cannot take the simulation down with it.
type Multi []Channel

// Combine builds a Multi, dropping nil channels
func Combine(channels ...Channel) Multi {
	m := make(Multi, 0, len(channels))
	for _, ch := range channels {
		if ch != nil {
			m = append(m, ch)
		}
	}
	return m
}

func (m Multi) each(fn func(Channel)) {
	for _, ch := range m {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Warning: feedback channel %T panicked: %v", ch, r)
				}
			}()
			fn(ch)
		}()
	}
}

func (m Multi) OnInstructionAdded(dir engine.Direction) {
	m.each(func(ch Channel) { ch.OnInstructionAdded(dir) })
}

func (m Multi) OnInstructionsCleared() {
	m.each(func(ch Channel) { ch.OnInstructionsCleared() })
}

func (m Multi) OnStepStarted(stepIndex int) {
	m.each(func(ch Channel) { ch.OnStepStarted(stepIndex) })
}

func (m Multi) OnStepLanded(pos engine.Position) {
	m.each(func(ch Channel) { ch.OnStepLanded(pos) })
}

func (m Multi) OnCrashed(stepIndex int, pos engine.Position) {
	m.each(func(ch Channel) { ch.OnCrashed(stepIndex, pos) })
}

func (m Multi) OnGoalMissed(finalPos engine.Position) {
	m.each(func(ch Channel) { ch.OnGoalMissed(finalPos) })
}

func (m Multi) OnSucceeded(levelIndex int) {
	m.each(func(ch Channel) { ch.OnSucceeded(levelIndex) })
}

func (m Multi) OnAllLevelsCleared() {
	m.each(func(ch Channel) { ch.OnAllLevelsCleared() })
}
