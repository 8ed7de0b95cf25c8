package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/thekillingspree/quick-entry/config"
	"github.com/thekillingspree/quick-entry/internal/auth"
	"github.com/thekillingspree/quick-entry/internal/db"
	"github.com/thekillingspree/quick-entry/internal/occupancy"
	"github.com/thekillingspree/quick-entry/internal/store"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.Migrate(gormDB))

	s := store.NewGormStore(gormDB)
	authSvc := auth.NewService("test-secret", time.Hour)
	occ := occupancy.NewService(s, nil)
	h := NewHandler(s, occ, authSvc, auth.NewResolver(s), nil)

	cfg := &config.Config{}
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.Server.CacheTTLSeconds = 1
	return NewRouter(cfg, h, authSvc)
}

// doJSON performs a request against the router and decodes the JSON response
// body into a map. A nil body sends an empty request.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	decoded := map[string]any{}
	if w.Body.Len() > 0 && strings.HasPrefix(w.Body.String(), "{") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w.Code, decoded
}

func signupAdmin(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()
	code, body := doJSON(t, r, http.MethodPost, "/api/admin/signup", "", gin.H{
		"username": username,
		"fname":    "Warden",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func signupUser(t *testing.T, r *gin.Engine, username, tecID string) string {
	t.Helper()
	code, body := doJSON(t, r, http.MethodPost, "/api/users/signup", "", gin.H{
		"username": username,
		"fullname": "Test " + username,
		"email":    username + "@example.com",
		"tecid":    tecID,
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func createRoom(t *testing.T, r *gin.Engine, adminToken, name string, number, capacity int) int64 {
	t.Helper()
	code, body := doJSON(t, r, http.MethodPost, "/api/rooms/new", adminToken, gin.H{
		"name":       name,
		"roomnumber": number,
		"capacity":   capacity,
	})
	require.Equal(t, http.StatusCreated, code)
	id, ok := body["id"].(float64)
	require.True(t, ok, "room response should carry an id: %v", body)
	return int64(id)
}

func TestAPI_FullFlow(t *testing.T) {
	r := newTestRouter(t)

	adminToken := signupAdmin(t, r, "warden")
	roomID := createRoom(t, r, adminToken, "Lab1", 101, 2)
	roomPath := fmt.Sprintf("/api/rooms/%d", roomID)

	// Same admin may not reuse the room name.
	code, body := doJSON(t, r, http.MethodPost, "/api/rooms/new", adminToken, gin.H{
		"name": "Lab1", "roomnumber": 999, "capacity": 3,
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "duplicate_room", body["code"])

	aliceToken := signupUser(t, r, "alice", "TU3F1718076")
	bobToken := signupUser(t, r, "bob", "TU3F1718077")
	carolToken := signupUser(t, r, "carol", "TU3F1718078")

	// Check-in admits up to capacity; a duplicate scan is rejected without
	// consuming a slot.
	code, body = doJSON(t, r, http.MethodPost, roomPath+"/checkin", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["occupancy"])

	code, body = doJSON(t, r, http.MethodPost, roomPath+"/checkin", aliceToken, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "already_entered", body["code"])

	code, body = doJSON(t, r, http.MethodPost, roomPath+"/checkin", bobToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), body["occupancy"])

	code, body = doJSON(t, r, http.MethodPost, roomPath+"/checkin", carolToken, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "room_full", body["code"])

	// The roster reflects the two open entries.
	code, body = doJSON(t, r, http.MethodGet, roomPath, aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	room := body["room"].(map[string]any)
	assert.Equal(t, float64(2), room["current"])
	occupants := body["occupants"].([]any)
	assert.Len(t, occupants, 2)

	// Checking out frees the slot and reports the visit duration.
	code, body = doJSON(t, r, http.MethodPost, roomPath+"/checkout", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	duration, ok := body["durationMs"].(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, duration, float64(0))

	// Carol gets the freed slot.
	code, _ = doJSON(t, r, http.MethodPost, roomPath+"/checkin", carolToken, nil)
	assert.Equal(t, http.StatusOK, code)

	// A second checkout for the same visit is rejected.
	code, body = doJSON(t, r, http.MethodPost, roomPath+"/checkout", aliceToken, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "not_inside_this_room", body["code"])

	// Alice's profile shows her back outside with one closed visit.
	code, body = doJSON(t, r, http.MethodGet, "/api/users/me", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, body["currentRoom"])
	history := body["history"].([]any)
	require.Len(t, history, 1)
	visit := history[0].(map[string]any)
	assert.Equal(t, "Lab1", visit["roomName"])
	assert.NotNil(t, visit["exitedAt"])
}

func TestAPI_ScanTogglesPresence(t *testing.T) {
	r := newTestRouter(t)

	adminToken := signupAdmin(t, r, "warden")
	roomID := createRoom(t, r, adminToken, "Lab1", 101, 2)
	signupUser(t, r, "alice", "TU3F1718076")

	// The reader reports the raw badge text; resolution normalizes it.
	code, body := doJSON(t, r, http.MethodPost, "/api/entries/scan", adminToken, gin.H{
		"credential": "tu3-f17-18076",
		"roomId":     roomID,
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "checkin", body["action"])

	code, body = doJSON(t, r, http.MethodPost, "/api/entries/scan", adminToken, gin.H{
		"credential": "TU3F1718076",
		"roomId":     roomID,
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "checkout", body["action"])

	code, body = doJSON(t, r, http.MethodPost, "/api/entries/scan", adminToken, gin.H{
		"credential": "ZZ9F9999999",
		"roomId":     roomID,
	})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "unresolved", body["code"])
}

func TestAPI_Login(t *testing.T) {
	r := newTestRouter(t)
	signupUser(t, r, "alice", "TU3F1718076")

	code, body := doJSON(t, r, http.MethodPost, "/api/users/login", "", gin.H{
		"username": "alice", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid_credentials", body["code"])

	// Unknown usernames fail the same way as bad passwords.
	code, body = doJSON(t, r, http.MethodPost, "/api/users/login", "", gin.H{
		"username": "nobody", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid_credentials", body["code"])

	code, body = doJSON(t, r, http.MethodPost, "/api/users/login", "", gin.H{
		"username": "alice", "password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	code, _ = doJSON(t, r, http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestAPI_AuthBoundaries(t *testing.T) {
	r := newTestRouter(t)

	adminToken := signupAdmin(t, r, "warden")
	roomID := createRoom(t, r, adminToken, "Lab1", 101, 2)
	userToken := signupUser(t, r, "alice", "TU3F1718076")

	roomPath := fmt.Sprintf("/api/rooms/%d", roomID)

	code, _ := doJSON(t, r, http.MethodPost, roomPath+"/checkin", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	// Admin tokens do not carry user presence.
	code, _ = doJSON(t, r, http.MethodPost, roomPath+"/checkin", adminToken, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	// Room creation is an admin operation.
	code, _ = doJSON(t, r, http.MethodPost, "/api/rooms/new", userToken, gin.H{
		"name": "Lab2", "roomnumber": 102, "capacity": 1,
	})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAPI_BadRequests(t *testing.T) {
	r := newTestRouter(t)
	adminToken := signupAdmin(t, r, "warden")
	userToken := signupUser(t, r, "alice", "TU3F1718076")

	code, _ := doJSON(t, r, http.MethodPost, "/api/rooms/abc/checkin", userToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = doJSON(t, r, http.MethodPost, "/api/rooms/new", adminToken, gin.H{
		"name": "Lab1", "roomnumber": 101, "capacity": 0,
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = doJSON(t, r, http.MethodPost, "/api/users/signup", "", gin.H{
		"username": "bob",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	// Badge text that cannot normalize is rejected before any write.
	code, _ = doJSON(t, r, http.MethodPost, "/api/users/signup", "", gin.H{
		"username": "bob",
		"fullname": "Bob",
		"email":    "bob@example.com",
		"tecid":    "!!",
		"password": "hunter2hunter2",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := doJSON(t, r, http.MethodGet, "/api/rooms/999999", userToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not_found", body["code"])
}
