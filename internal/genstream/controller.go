package genstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"jobtrack-backend/internal/llm"
	"jobtrack-backend/internal/shared/metrics"
	"jobtrack-backend/internal/shared/telemetry"
)

// State is the lifecycle position of a job's generation.
type State string

const (
	StateIdle       State = "idle"
	StateRequesting State = "requesting"
	StateStreaming  State = "streaming"
	StateCompleted  State = "completed"
	StateCancelled  State = "cancelled"
	StateFailed     State = "failed"
)

// Terminal reports whether the state is one of the three end states.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFailed
}

// Callbacks receive generation progress. OnChunk fires per decoded chunk,
// OnDone once with the full text on completion, OnError once on failure.
// Nothing fires for cancellation beyond Generate returning StateCancelled.
type Callbacks struct {
	OnChunk func(chunk string)
	OnDone  func(full string)
	OnError func(err error)
}

type generation struct {
	cancel context.CancelFunc
	state  State
	done   chan struct{}
}

// Controller runs at most one generation per job. Starting a new generation
// while one is in flight cancels the old one first; Cancel is cooperative
// and idempotent.
type Controller struct {
	llm llm.StreamClient

	mu   sync.Mutex
	gens map[string]*generation
}

func NewController(client llm.StreamClient) *Controller {
	return &Controller{
		llm:  client,
		gens: map[string]*generation{},
	}
}

// State returns the job's current generation state, StateIdle when the job
// has never generated.
func (c *Controller) State(jobID string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.gens[jobID]
	if !ok {
		return StateIdle
	}
	return g.state
}

// Cancel requests cooperative cancellation of the job's in-flight
// generation. Calling it with no generation running, or after the
// generation reached a terminal state, is a no-op.
func (c *Controller) Cancel(jobID string) {
	c.mu.Lock()
	g, ok := c.gens[jobID]
	if !ok || g.state.Terminal() {
		c.mu.Unlock()
		return
	}
	g.cancel()
	c.mu.Unlock()
	telemetry.Info("genstream.cancel_requested", map[string]any{"job_id": jobID})
}

// Generate streams a cover letter for the job, invoking cb as chunks
// arrive, and blocks until the generation reaches a terminal state. It
// returns that state; the error is non-nil only for StateFailed.
// Cancellation, whether through Cancel, ctx, or a newer Generate for the
// same job, returns StateCancelled with a nil error.
func (c *Controller) Generate(ctx context.Context, jobID string, input llm.GenerateInput, cb Callbacks) (State, error) {
	g, genCtx := c.begin(ctx, jobID)
	defer g.finish()

	metrics.IncGenerationStarted()
	started := time.Now()
	defer func() {
		metrics.ObserveGenerationDurationMs(float64(time.Since(started).Milliseconds()))
	}()

	full, err := c.run(genCtx, jobID, input, cb)
	switch {
	case err == nil:
		c.setState(g, StateCompleted)
		metrics.IncGenerationCompleted()
		if cb.OnDone != nil {
			cb.OnDone(full)
		}
		return StateCompleted, nil
	case errors.Is(err, errStreamCancelled):
		c.setState(g, StateCancelled)
		metrics.IncGenerationCancelled()
		telemetry.Info("genstream.cancelled", map[string]any{"job_id": jobID})
		return StateCancelled, nil
	default:
		c.setState(g, StateFailed)
		metrics.IncGenerationFailed()
		wrapped := fmt.Errorf("%w: %v", ErrStreamFailed, err)
		telemetry.Error("genstream.failed", map[string]any{"job_id": jobID, "error": err.Error()})
		if cb.OnError != nil {
			cb.OnError(wrapped)
		}
		return StateFailed, wrapped
	}
}

// begin registers a fresh generation for the job, cancelling and waiting
// out any generation already in flight.
func (c *Controller) begin(ctx context.Context, jobID string) (*generation, context.Context) {
	c.mu.Lock()
	prev, ok := c.gens[jobID]
	if ok && !prev.state.Terminal() {
		prev.cancel()
		c.mu.Unlock()
		<-prev.done
		telemetry.Info("genstream.superseded", map[string]any{"job_id": jobID})
		c.mu.Lock()
	}

	genCtx, cancel := context.WithCancel(ctx)
	g := &generation{
		cancel: cancel,
		state:  StateRequesting,
		done:   make(chan struct{}),
	}
	c.gens[jobID] = g
	c.mu.Unlock()
	return g, genCtx
}

func (g *generation) finish() {
	g.cancel()
	close(g.done)
}

func (c *Controller) setState(g *generation, s State) {
	c.mu.Lock()
	g.state = s
	c.mu.Unlock()
}

// run performs the request and read loop, mapping context cancellation to
// errStreamCancelled.
func (c *Controller) run(ctx context.Context, jobID string, input llm.GenerateInput, cb Callbacks) (string, error) {
	stream, err := c.llm.Generate(ctx, input)
	if err != nil {
		if cancelled(ctx, err) {
			return "", errStreamCancelled
		}
		return "", err
	}
	defer stream.Close()

	c.mu.Lock()
	c.gens[jobID].state = StateStreaming
	c.mu.Unlock()

	var full strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return full.String(), nil
		}
		if err != nil {
			if cancelled(ctx, err) {
				return "", errStreamCancelled
			}
			return "", err
		}
		full.WriteString(chunk)
		if cb.OnChunk != nil {
			cb.OnChunk(chunk)
		}
		if ctx.Err() != nil {
			return "", errStreamCancelled
		}
	}
}

func cancelled(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled)
}
