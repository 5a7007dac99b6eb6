package watcher

import (
	"context"
	"time"

	"github.com/xcgen/xcgen/pkg/logging"
)

// Debouncer batches rapid change events to avoid regenerating the workspace
// once per saved file.
type Debouncer struct {
	input       <-chan ChangeEvent
	output      chan ChangeEvent
	quietPeriod time.Duration
	maxWait     time.Duration
}

// NewDebouncer creates a new event debouncer. Events are held until
// quietPeriod passes without a new one, but never longer than maxWait.
func NewDebouncer(input <-chan ChangeEvent, quietPeriod, maxWait time.Duration) *Debouncer {
	return &Debouncer{
		input:       input,
		output:      make(chan ChangeEvent, 10),
		quietPeriod: quietPeriod,
		maxWait:     maxWait,
	}
}

// Start begins processing events with debouncing
func (d *Debouncer) Start(ctx context.Context) {
	go d.run(ctx)
}

func (d *Debouncer) run(ctx context.Context) {
	var (
		timer        *time.Timer
		maxWaitTimer *time.Timer
		accumulated  []string
	)

	stopTimers := func() {
		if timer != nil {
			timer.Stop()
			timer = nil
		}
		if maxWaitTimer != nil {
			maxWaitTimer.Stop()
			maxWaitTimer = nil
		}
	}

	flush := func() {
		if len(accumulated) == 0 {
			return
		}
		logging.Debug("flushing accumulated manifest changes", "count", len(accumulated))
		d.output <- ChangeEvent{Paths: accumulated, Timestamp: time.Now()}
		accumulated = nil
		stopTimers()
	}

	timerC := func(t *time.Timer) <-chan time.Time {
		if t == nil {
			return nil
		}
		return t.C
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			close(d.output)
			return

		case event, ok := <-d.input:
			if !ok {
				flush()
				close(d.output)
				return
			}

			accumulated = append(accumulated, event.Paths...)

			if timer == nil {
				timer = time.NewTimer(d.quietPeriod)
			} else {
				timer.Reset(d.quietPeriod)
			}
			if maxWaitTimer == nil {
				maxWaitTimer = time.NewTimer(d.maxWait)
			}

		case <-timerC(timer):
			flush()

		case <-timerC(maxWaitTimer):
			flush()
		}
	}
}

// Output returns the channel of debounced events
func (d *Debouncer) Output() <-chan ChangeEvent {
	return d.output
}
