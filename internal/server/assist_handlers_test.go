package server

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIAssist_RequiresAuth(t *testing.T) {
	_, app := newTestServer(t)

	resp := doJSON(t, app, http.MethodPost, "/api/ai-assist", fiber.Map{
		"text":   "Draft",
		"action": "improve",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAIAssist_UnconfiguredReturns503(t *testing.T) {
	_, app := newTestServer(t)
	token, _ := registerUser(t, app, "assistant")

	// the test server carries no completion API key
	resp := doJSON(t, app, http.MethodPost, "/api/ai-assist", fiber.Map{
		"text":   "Make this better",
		"action": "improve",
	}, token)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", body["code"])
}

func TestAIAssist_EmptyTextRejected(t *testing.T) {
	_, app := newTestServer(t)
	token, _ := registerUser(t, app, "assisted")

	resp := doJSON(t, app, http.MethodPost, "/api/ai-assist", fiber.Map{
		"text":   "",
		"action": "improve",
	}, token)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}
