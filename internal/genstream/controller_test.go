package genstream

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtrack-backend/internal/llm"
)

// scriptedStream yields the given chunks, optionally blocking until
// cancelled part-way through.
type scriptedStream struct {
	chunks  []string
	failAt  int
	err     error
	blockAt int
	ctx     context.Context

	mu     sync.Mutex
	closed int
	idx    int
}

func (s *scriptedStream) Recv() (string, error) {
	s.mu.Lock()
	i := s.idx
	s.idx++
	s.mu.Unlock()

	if s.err != nil && i == s.failAt {
		return "", s.err
	}
	if s.ctx != nil && s.blockAt > 0 && i == s.blockAt {
		<-s.ctx.Done()
		return "", s.ctx.Err()
	}
	if i >= len(s.chunks) {
		return "", io.EOF
	}
	return s.chunks[i], nil
}

func (s *scriptedStream) Close() error {
	s.mu.Lock()
	s.closed++
	s.mu.Unlock()
	return nil
}

type scriptedClient struct {
	mu      sync.Mutex
	streams []*scriptedStream
	calls   int
}

func (c *scriptedClient) Generate(ctx context.Context, input llm.GenerateInput) (llm.Stream, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stream := c.streams[c.calls]
	c.calls++
	if stream.blockAt > 0 {
		stream.ctx = ctx
	}
	return stream, nil
}

func TestGenerateStreamsToCompletion(t *testing.T) {
	stream := &scriptedStream{chunks: []string{"Dear ", "team", "."}}
	ctrl := NewController(&scriptedClient{streams: []*scriptedStream{stream}})

	var got []string
	var full string
	state, err := ctrl.Generate(context.Background(), "job-1", llm.GenerateInput{}, Callbacks{
		OnChunk: func(chunk string) { got = append(got, chunk) },
		OnDone:  func(text string) { full = text },
	})
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, state)
	assert.Equal(t, []string{"Dear ", "team", "."}, got)
	assert.Equal(t, "Dear team.", full)
	assert.Equal(t, StateCompleted, ctrl.State("job-1"))
	assert.Equal(t, 1, stream.closed, "stream released exactly once")
}

func TestCancelMidStreamIsNotAnError(t *testing.T) {
	stream := &scriptedStream{chunks: []string{"a", "b", "c", "d"}, blockAt: 2}
	ctrl := NewController(&scriptedClient{streams: []*scriptedStream{stream}})

	var errCalled bool
	var got []string
	done := make(chan struct{})
	var state State
	var genErr error
	go func() {
		defer close(done)
		state, genErr = ctrl.Generate(context.Background(), "job-1", llm.GenerateInput{}, Callbacks{
			OnChunk: func(chunk string) { got = append(got, chunk) },
			OnError: func(err error) { errCalled = true },
		})
	}()

	require.Eventually(t, func() bool {
		return ctrl.State("job-1") == StateStreaming
	}, time.Second, time.Millisecond)

	ctrl.Cancel("job-1")
	<-done

	require.NoError(t, genErr, "cancellation is never surfaced as an error")
	assert.Equal(t, StateCancelled, state)
	assert.Equal(t, StateCancelled, ctrl.State("job-1"))
	assert.Equal(t, []string{"a", "b"}, got, "chunks delivered before the cancel stay, nothing follows")
	assert.False(t, errCalled, "no error callback for cancellation")
	assert.Equal(t, 1, stream.closed)
}

func TestCancelIsIdempotent(t *testing.T) {
	stream := &scriptedStream{chunks: []string{"a", "b", "c"}, blockAt: 1}
	ctrl := NewController(&scriptedClient{streams: []*scriptedStream{stream}})

	done := make(chan struct{})
	go func() {
		defer close(done)
		ctrl.Generate(context.Background(), "job-1", llm.GenerateInput{}, Callbacks{})
	}()

	require.Eventually(t, func() bool {
		return ctrl.State("job-1") == StateStreaming
	}, time.Second, time.Millisecond)

	ctrl.Cancel("job-1")
	ctrl.Cancel("job-1")
	<-done
	ctrl.Cancel("job-1") // after terminal state: no-op

	assert.Equal(t, StateCancelled, ctrl.State("job-1"))
	assert.Equal(t, 1, stream.closed)
}

func TestCancelAfterCompletionIsNoOp(t *testing.T) {
	stream := &scriptedStream{chunks: []string{"x"}}
	ctrl := NewController(&scriptedClient{streams: []*scriptedStream{stream}})

	state, err := ctrl.Generate(context.Background(), "job-1", llm.GenerateInput{}, Callbacks{})
	require.NoError(t, err)
	require.Equal(t, StateCompleted, state)

	ctrl.Cancel("job-1")
	assert.Equal(t, StateCompleted, ctrl.State("job-1"))
}

func TestProviderFailureSurfacesStreamFailed(t *testing.T) {
	stream := &scriptedStream{chunks: []string{"a", "b"}, failAt: 1, err: errors.New("connection reset")}
	ctrl := NewController(&scriptedClient{streams: []*scriptedStream{stream}})

	var cbErr error
	state, err := ctrl.Generate(context.Background(), "job-1", llm.GenerateInput{}, Callbacks{
		OnError: func(e error) { cbErr = e },
	})
	assert.Equal(t, StateFailed, state)
	require.ErrorIs(t, err, ErrStreamFailed)
	require.ErrorIs(t, cbErr, ErrStreamFailed)
	assert.Equal(t, StateFailed, ctrl.State("job-1"))
}

func TestSecondGenerateCancelsFirst(t *testing.T) {
	first := &scriptedStream{chunks: []string{"a", "b", "c"}, blockAt: 1}
	second := &scriptedStream{chunks: []string{"fresh"}}
	ctrl := NewController(&scriptedClient{streams: []*scriptedStream{first, second}})

	firstDone := make(chan State, 1)
	go func() {
		state, _ := ctrl.Generate(context.Background(), "job-1", llm.GenerateInput{}, Callbacks{})
		firstDone <- state
	}()

	require.Eventually(t, func() bool {
		return ctrl.State("job-1") == StateStreaming
	}, time.Second, time.Millisecond)

	state, err := ctrl.Generate(context.Background(), "job-1", llm.GenerateInput{}, Callbacks{})
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, state)

	select {
	case firstState := <-firstDone:
		assert.Equal(t, StateCancelled, firstState)
	case <-time.After(time.Second):
		t.Fatal("first generation never finished")
	}
	assert.Equal(t, StateCompleted, ctrl.State("job-1"))
	assert.Equal(t, 1, first.closed)
	assert.Equal(t, 1, second.closed)
}

func TestStateIdleForUnknownJob(t *testing.T) {
	ctrl := NewController(llm.PlaceholderClient{})
	assert.Equal(t, StateIdle, ctrl.State("nope"))
}

func TestPlaceholderClientFails(t *testing.T) {
	ctrl := NewController(llm.PlaceholderClient{})
	state, err := ctrl.Generate(context.Background(), "job-1", llm.GenerateInput{}, Callbacks{})
	assert.Equal(t, StateFailed, state)
	require.ErrorIs(t, err, ErrStreamFailed)
}
