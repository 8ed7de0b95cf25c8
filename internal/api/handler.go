package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"github.com/thekillingspree/quick-entry/internal/auth"
	"github.com/thekillingspree/quick-entry/internal/occupancy"
	"github.com/thekillingspree/quick-entry/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store     store.Store
	occupancy *occupancy.Service
	auth      *auth.Service
	resolver  auth.Resolver
	webpush   *webpush.Options
}

// NewHandler creates a new API handler. webpushOptions may be nil when push
// notifications are not configured.
func NewHandler(s store.Store, occ *occupancy.Service, authSvc *auth.Service, resolver auth.Resolver, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:     s,
		occupancy: occ,
		auth:      authSvc,
		resolver:  resolver,
		webpush:   webpushOptions,
	}
}
