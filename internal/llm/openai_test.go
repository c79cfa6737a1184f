package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClient_Generate(t *testing.T) {
	var gotAuth string
	var gotReq chatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"  a helpful reply  "}}]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(server.URL, "test-key", 5*time.Second)
	text, err := client.Generate(context.Background(), "gpt-4o", "hello", 256, 0.7)

	require.NoError(t, err)
	assert.Equal(t, "a helpful reply", text)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-4o", gotReq.Model)
	assert.Equal(t, 256, gotReq.MaxTokens)
}

func TestOpenAIClient_Generate_Failures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantEmpty bool
	}{
		{
			name:   "api error status",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"message":"rate limited","type":"rate_limit"}}`,
		},
		{
			name:      "no choices",
			status:    http.StatusOK,
			body:      `{"choices":[]}`,
			wantEmpty: true,
		},
		{
			name:      "blank content",
			status:    http.StatusOK,
			body:      `{"choices":[{"message":{"content":"   "}}]}`,
			wantEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewOpenAIClient(server.URL, "test-key", 5*time.Second)
			_, err := client.Generate(context.Background(), "gpt-4o", "hello", 256, 0.7)

			require.Error(t, err)
			if tt.wantEmpty {
				assert.ErrorIs(t, err, ErrEmptyResult)
			}
		})
	}
}
