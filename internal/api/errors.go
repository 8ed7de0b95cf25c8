package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thekillingspree/quick-entry/internal/auth"
	"github.com/thekillingspree/quick-entry/internal/store"
)

// errorCode maps a typed failure to its stable wire code and HTTP status.
type errorCode struct {
	status int
	code   string
}

var errorCodes = []struct {
	err  error
	resp errorCode
}{
	{store.ErrRoomNotFound, errorCode{http.StatusNotFound, "not_found"}},
	{store.ErrUserNotFound, errorCode{http.StatusNotFound, "not_found"}},
	{auth.ErrUnresolved, errorCode{http.StatusNotFound, "unresolved"}},
	{store.ErrDuplicateRoom, errorCode{http.StatusConflict, "duplicate_room"}},
	{store.ErrDuplicateUser, errorCode{http.StatusConflict, "duplicate_user"}},
	{store.ErrRoomFull, errorCode{http.StatusConflict, "room_full"}},
	{store.ErrAlreadyEntered, errorCode{http.StatusConflict, "already_entered"}},
	{store.ErrAlreadyOpen, errorCode{http.StatusConflict, "already_entered"}},
	{store.ErrInAnotherRoom, errorCode{http.StatusConflict, "in_another_room"}},
	{store.ErrNotInsideThisRoom, errorCode{http.StatusConflict, "not_inside_this_room"}},
	{store.ErrNoOpenEntry, errorCode{http.StatusConflict, "not_inside_this_room"}},
	{store.ErrWrongRoom, errorCode{http.StatusConflict, "not_inside_this_room"}},
	{store.ErrStoreConflict, errorCode{http.StatusConflict, "conflict"}},
	{auth.ErrInvalidCredentials, errorCode{http.StatusUnauthorized, "invalid_credentials"}},
	{auth.ErrInvalidToken, errorCode{http.StatusUnauthorized, "invalid_token"}},
	{store.ErrUnavailable, errorCode{http.StatusServiceUnavailable, "unavailable"}},
}

// writeError renders a typed failure as a stable code plus a human-readable
// message. Unknown errors become a generic 500 without leaking internals.
func writeError(c *gin.Context, err error) {
	for _, m := range errorCodes {
		if errors.Is(err, m.err) {
			c.AbortWithStatusJSON(m.resp.status, gin.H{"code": m.resp.code, "error": m.err.Error()})
			return
		}
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"code": "internal", "error": "internal server error"})
}
