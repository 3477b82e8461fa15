package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtrack-backend/internal/llm"
)

func sseChunk(content string) string {
	payload, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"delta": map[string]string{"content": content}},
		},
	})
	return "data: " + string(payload) + "\n\n"
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient("test-key", "gpt-4o-mini", srv.URL)
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresModelAndKey(t *testing.T) {
	_, err := NewClient("key", "", "")
	require.ErrorContains(t, err, "LLM_MODEL")

	_, err = NewClient("", "gpt-4o-mini", "")
	require.ErrorContains(t, err, "LLM_API_KEY")
}

func TestGenerateStreamsChunks(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, sseChunk("Dear "))
		io.WriteString(w, sseChunk("hiring team,"))
		io.WriteString(w, `data: {"choices":[{"delta":{},"finish_reason":"stop"}]}`+"\n\n")
		io.WriteString(w, "data: [DONE]\n\n")
	})

	stream, err := client.Generate(context.Background(), llm.GenerateInput{
		JobTitle: "Backend Engineer",
		Company:  "Acme",
	})
	require.NoError(t, err)
	defer stream.Close()

	var chunks []string
	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		chunks = append(chunks, chunk)
	}

	assert.Equal(t, []string{"Dear ", "hiring team,"}, chunks)
	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotReq.Model)
	assert.True(t, gotReq.Stream)
	require.NotEmpty(t, gotReq.Messages)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Contains(t, gotReq.Messages[1].Content, "Backend Engineer")
}

func TestGenerateStopsOnDoneSentinel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, sseChunk("only"))
		io.WriteString(w, "data: [DONE]\n\n")
	})

	stream, err := client.Generate(context.Background(), llm.GenerateInput{})
	require.NoError(t, err)
	defer stream.Close()

	chunk, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, "only", chunk)

	_, err = stream.Recv()
	assert.Equal(t, io.EOF, err)
	// Recv after EOF keeps returning EOF.
	_, err = stream.Recv()
	assert.Equal(t, io.EOF, err)
}

func TestGenerateSurfacesHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"message":"bad key"}}`)
	})

	_, err := client.Generate(context.Background(), llm.GenerateInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai status 401")
	assert.Contains(t, err.Error(), "bad key")
}

func TestGenerateSurfacesInStreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `data: {"error":{"message":"rate limited","type":"rate_limit"}}`+"\n\n")
	})

	stream, err := client.Generate(context.Background(), llm.GenerateInput{})
	require.NoError(t, err)
	defer stream.Close()

	_, err = stream.Recv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestGenerateHonoursContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	_, err := client.Generate(ctx, llm.GenerateInput{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "context canceled"))
}
