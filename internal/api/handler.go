package api

import (
	"time"

	"call-alert-backend/internal/notification"
	"call-alert-backend/internal/store"
	"call-alert-backend/internal/vapid"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store        store.Store
	dispatcher   *notification.Dispatcher
	keys         *vapid.Manager
	webhookToken string
	startedAt    time.Time
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, d *notification.Dispatcher, keys *vapid.Manager, webhookToken string) *Handler {
	return &Handler{
		store:        s,
		dispatcher:   d,
		keys:         keys,
		webhookToken: webhookToken,
		startedAt:    time.Now(),
	}
}
