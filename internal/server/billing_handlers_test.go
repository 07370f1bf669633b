package server

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartSubscriptionEndpoint_Trial(t *testing.T) {
	_, app := newTestServer(t)
	token, _ := registerUser(t, app, "writer")

	resp := doJSON(t, app, http.MethodPost, "/api/start-subscription", fiber.Map{
		"plan": "premium",
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Free trial started successfully", body["message"])
	assert.Equal(t, false, body["payment_required"])
	assert.NotEmpty(t, body["trial_ends"])
}

func TestStartSubscriptionEndpoint_SecondTimeQuotesPayment(t *testing.T) {
	_, app := newTestServer(t)
	token, _ := registerUser(t, app, "writer")

	resp := doJSON(t, app, http.MethodPost, "/api/start-subscription", fiber.Map{
		"plan": "premium",
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/start-subscription", fiber.Map{
		"plan":          "business",
		"billing_cycle": "yearly",
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["payment_required"])
	assert.Equal(t, float64(190), body["price"])
	assert.Contains(t, body["payment_url"], "plan=business")
}

func TestStartSubscriptionEndpoint_InvalidPlan(t *testing.T) {
	_, app := newTestServer(t)
	token, _ := registerUser(t, app, "writer")

	resp := doJSON(t, app, http.MethodPost, "/api/start-subscription", fiber.Map{
		"plan": "free",
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProcessPaymentEndpoint_IncompleteCard(t *testing.T) {
	_, app := newTestServer(t)
	token, _ := registerUser(t, app, "writer")

	// A card missing its CVV is always declined before the gateway roll.
	resp := doJSON(t, app, http.MethodPost, "/api/process-payment", fiber.Map{
		"plan":          "premium",
		"billing_cycle": "monthly",
		"card":          fiber.Map{"number": "4242424242424242"},
	}, token)
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
}

func TestCancelSubscriptionEndpoint_NoSubscription(t *testing.T) {
	_, app := newTestServer(t)
	token, _ := registerUser(t, app, "writer")

	resp := doJSON(t, app, http.MethodPost, "/api/cancel-subscription", nil, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "No active subscription to cancel", body["error"])
}

func TestCancelSubscriptionEndpoint_AfterTrial(t *testing.T) {
	_, app := newTestServer(t)
	token, _ := registerUser(t, app, "writer")

	resp := doJSON(t, app, http.MethodPost, "/api/start-subscription", fiber.Map{
		"plan": "premium",
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/cancel-subscription", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Contains(t, body["message"], "cancelled")
	assert.NotEmpty(t, body["expires_at"])
}
