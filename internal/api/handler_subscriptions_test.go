package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionLifecycle(t *testing.T) {
	r := newTestRouter(t)

	adminToken := signupAdmin(t, r, "warden")
	roomID := createRoom(t, r, adminToken, "Lab1", 101, 2)

	code, _ := doJSON(t, r, http.MethodPut, "/api/subscriptions", "", gin.H{
		"endpoint":         "https://example.com/push",
		"p256dh":           "test_p256dh",
		"auth":             "test_auth",
		"subscribed_rooms": []int64{roomID},
	})
	require.Equal(t, http.StatusCreated, code)

	code, body := doJSON(t, r, http.MethodGet, "/api/subscriptions?endpoint=https%3A%2F%2Fexample.com%2Fpush", "", nil)
	require.Equal(t, http.StatusOK, code)
	rooms := body["subscribed_rooms"].([]any)
	require.Len(t, rooms, 1)
	assert.Equal(t, float64(roomID), rooms[0])

	// Re-subscribing with an empty room set clears the watch list.
	code, _ = doJSON(t, r, http.MethodPut, "/api/subscriptions", "", gin.H{
		"endpoint": "https://example.com/push",
		"p256dh":   "rotated_p256dh",
		"auth":     "rotated_auth",
	})
	require.Equal(t, http.StatusCreated, code)

	code, body = doJSON(t, r, http.MethodGet, "/api/subscriptions?endpoint=https%3A%2F%2Fexample.com%2Fpush", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["subscribed_rooms"])

	code, _ = doJSON(t, r, http.MethodDelete, "/api/subscriptions", "", gin.H{
		"endpoint": "https://example.com/push",
	})
	require.Equal(t, http.StatusNoContent, code)

	code, _ = doJSON(t, r, http.MethodGet, "/api/subscriptions?endpoint=https%3A%2F%2Fexample.com%2Fpush", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPutSubscription_MissingFields(t *testing.T) {
	r := newTestRouter(t)

	code, _ := doJSON(t, r, http.MethodPut, "/api/subscriptions", "", gin.H{
		"endpoint": "https://example.com/push",
	})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestGetVAPIDPublicKey_Unconfigured(t *testing.T) {
	r := newTestRouter(t)

	code, _ := doJSON(t, r, http.MethodGet, "/api/vapid_public_key", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
}
