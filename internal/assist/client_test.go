package assist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionValid(t *testing.T) {
	t.Parallel()
	assert.True(t, ActionGrammar.Valid())
	assert.True(t, ActionImprove.Valid())
	assert.True(t, ActionSuggestions.Valid())
	assert.False(t, Action("translate").Valid())
	assert.False(t, Action("").Valid())
}

func TestActionPrompt(t *testing.T) {
	t.Parallel()
	assert.Contains(t, ActionGrammar.Prompt("my text"), "grammar, spelling, and punctuation")
	assert.Contains(t, ActionImprove.Prompt("my text"), "more engaging")
	assert.Contains(t, ActionSuggestions.Prompt("my text"), "3 brief suggestions")
	assert.Contains(t, ActionImprove.Prompt("my text"), "my text")
}

func TestClientConfigured(t *testing.T) {
	t.Parallel()
	assert.False(t, NewClient("", "").Configured())
	assert.False(t, NewClient("your-openai-api-key-here", "").Configured())
	assert.True(t, NewClient("sk-real-key", "").Configured())
}

func TestCompleteSuccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-3.5-turbo", req.Model)
		assert.Equal(t, 500, req.MaxTokens)
		require.Len(t, req.Messages, 1)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "  Corrected text.  "}},
			},
		})
	}))
	defer srv.Close()

	client := NewClient("sk-test", srv.URL)
	result, err := client.Complete(context.Background(), ActionGrammar.Prompt("sum text"))
	require.NoError(t, err)
	assert.Equal(t, "Corrected text.", result)
}

func TestCompleteUnauthorized(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "bad key"},
		})
	}))
	defer srv.Close()

	client := NewClient("sk-bad", srv.URL)
	_, err := client.Complete(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestCompleteQuotaExceeded(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "quota", "code": "insufficient_quota"},
		})
	}))
	defer srv.Close()

	client := NewClient("sk-test", srv.URL)
	_, err := client.Complete(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AI quota exceeded")
}

func TestCompleteNoChoices(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer srv.Close()

	client := NewClient("sk-test", srv.URL)
	_, err := client.Complete(context.Background(), "hello")
	assert.Error(t, err)
}
