package engine

import "errors"

var (
	ErrMalformedLevel     = errors.New("malformed level")
	ErrEmptyProgram       = errors.New("program is empty")
	ErrLevelMismatch      = errors.New("program was authored for a different level")
	ErrInvalidInstruction = errors.New("invalid instruction")
	ErrRunAborted         = errors.New("run aborted")
)
