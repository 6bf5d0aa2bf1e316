package feedback

import (
	"context"
	"time"
)

// Paced forwards events to an inner channel and holds the run for delay after
// every landed step, giving clients time to animate the move. It implements
// engine.Pacer.
type Paced struct {
	Channel
	delay time.Duration
}

// NewPaced wraps inner. A non-positive delay disables pacing.
func NewPaced(inner Channel, delay time.Duration) *Paced {
	if inner == nil {
		inner = Nop{}
	}
	if delay < 0 {
		delay = 0
	}
	return &Paced{Channel: inner, delay: delay}
}

// Pace waits for the step delay or until ctx is done
func (p *Paced) Pace(ctx context.Context, stepIndex int) error {
	if p.delay == 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
