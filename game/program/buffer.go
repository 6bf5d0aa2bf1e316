package program

import (
	"errors"
	"fmt"
	"sync"

	"github.com/wricardo/arrowbot/game/engine"
	"github.com/wricardo/arrowbot/game/feedback"
)

var ErrLockedWhileRunning = errors.New("program is locked while a run is in progress")

// MaxInstructions caps a single program
const MaxInstructions = 100

var ErrProgramFull = fmt.Errorf("program cannot hold more than %d instructions", MaxInstructions)

// Buffer is the program being authored for one level
type Buffer struct {
	mu           sync.Mutex
	levelID      string
	instructions []engine.Direction
	running      bool
	feedback     feedback.Channel
}

// NewBuffer creates an empty buffer for levelID. A nil channel discards events.
func NewBuffer(levelID string, ch feedback.Channel) *Buffer {
	if ch == nil {
		ch = feedback.Nop{}
	}
	return &Buffer{levelID: levelID, feedback: ch}
}

// Append adds one instruction to the end of the program
func (b *Buffer) Append(dir engine.Direction) error {
	if !dir.Valid() {
		return fmt.Errorf("%w: %q", engine.ErrInvalidInstruction, dir)
	}

	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return ErrLockedWhileRunning
	}
	if len(b.instructions) >= MaxInstructions {
		b.mu.Unlock()
		return ErrProgramFull
	}
	b.instructions = append(b.instructions, dir)
	b.mu.Unlock()

	b.feedback.OnInstructionAdded(dir)
	return nil
}

// AppendAll adds every instruction or none of them
func (b *Buffer) AppendAll(dirs []engine.Direction) error {
	for _, dir := range dirs {
		if !dir.Valid() {
			return fmt.Errorf("%w: %q", engine.ErrInvalidInstruction, dir)
		}
	}

	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return ErrLockedWhileRunning
	}
	if len(b.instructions)+len(dirs) > MaxInstructions {
		b.mu.Unlock()
		return ErrProgramFull
	}
	b.instructions = append(b.instructions, dirs...)
	b.mu.Unlock()

	for _, dir := range dirs {
		b.feedback.OnInstructionAdded(dir)
	}
	return nil
}

// Clear empties the program
func (b *Buffer) Clear() error {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return ErrLockedWhileRunning
	}
	b.instructions = nil
	b.mu.Unlock()

	b.feedback.OnInstructionsCleared()
	return nil
}

// Reset empties the program and ties it to another level. Unlike Clear it
// emits nothing; level changes are not authoring actions.
func (b *Buffer) Reset(levelID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		return ErrLockedWhileRunning
	}
	b.levelID = levelID
	b.instructions = nil
	return nil
}

// Snapshot returns a copy of the program
func (b *Buffer) Snapshot() engine.Program {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Buffer) snapshotLocked() engine.Program {
	return engine.Program{
		LevelID:      b.levelID,
		Instructions: append([]engine.Direction(nil), b.instructions...),
	}
}

// Len returns the number of instructions
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.instructions)
}

// LevelID returns the level the program is authored for
func (b *Buffer) LevelID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.levelID
}

// BeginRun takes the run lock and returns the program to execute. The
// returned release func must be called once the run is over; calling it more
// than once is harmless.
func (b *Buffer) BeginRun() (engine.Program, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		return engine.Program{}, nil, ErrLockedWhileRunning
	}
	b.running = true

	var once sync.Once
	release := func() {
		once.Do(func() {
			b.mu.Lock()
			b.running = false
			b.mu.Unlock()
		})
	}
	return b.snapshotLocked(), release, nil
}

// Running reports whether a run holds the buffer
func (b *Buffer) Running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.running
}
