package playground

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"
)

// State is the dispatcher's position in the Idle/Pending cycle.
type State int32

const (
	StateIdle State = iota
	StatePending
)

func (s State) String() string {
	if s == StatePending {
		return "pending"
	}
	return "idle"
}

// Dispatcher turns a settings snapshot into one completion call.
// At most one call is in flight; a second Generate while pending returns ErrPending.
type Dispatcher struct {
	llm     LLMClient
	state   atomic.Int32
	verbose bool
	logger  *log.Logger
}

func NewDispatcher(llm LLMClient, verbose bool, logger *log.Logger) (*Dispatcher, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{llm: llm, verbose: verbose, logger: logger}, nil
}

func (d *Dispatcher) State() State {
	return State(d.state.Load())
}

func (d *Dispatcher) infof(format string, args ...interface{}) {
	if !d.verbose {
		return
	}
	d.logger.Printf("[dispatch] "+format, args...)
}

// Generate issues a single attempt with s and returns the first choice's content.
func (d *Dispatcher) Generate(ctx context.Context, s Settings) (string, error) {
	if !d.state.CompareAndSwap(int32(StateIdle), int32(StatePending)) {
		return "", ErrPending
	}
	defer d.state.Store(int32(StateIdle))

	start := time.Now()
	d.infof("model=%s temperature=%g max_tokens=%d presence=%g frequency=%g",
		s.Model, s.Temperature, s.MaxTokens, s.PresencePenalty, s.FrequencyPenalty)
	out, err := d.llm.Complete(ctx, RequestFrom(s))
	if err != nil {
		d.logger.Printf("[dispatch] failed kind=%s after %s: %v", KindOf(err), time.Since(start).Round(time.Millisecond), err)
		return "", err
	}
	d.infof("done in %s, %d bytes", time.Since(start).Round(time.Millisecond), len(out))
	return out, nil
}
