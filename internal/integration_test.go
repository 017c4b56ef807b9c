package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"call-alert-backend/config"
	"call-alert-backend/internal/api"
	"call-alert-backend/internal/notification"
	"call-alert-backend/internal/store"
	"call-alert-backend/internal/vapid"
)

// scriptedSender records every push attempt and answers with a
// per-endpoint scripted status.
type scriptedSender struct {
	mu       sync.Mutex
	statuses map[string]int
	attempts []string
}

func (s *scriptedSender) Send(ctx context.Context, payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	s.mu.Lock()
	s.attempts = append(s.attempts, sub.Endpoint)
	status, ok := s.statuses[sub.Endpoint]
	s.mu.Unlock()
	if !ok {
		status = http.StatusCreated
	}
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewBufferString(""))}, nil
}

func (s *scriptedSender) attemptCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attempts)
}

// TestCallAlertLifecycle walks the whole relay: device registration,
// an inbound CRM call event fanning out to every device, pruning of a
// dead endpoint, and the follow-up event only reaching live devices.
func TestCallAlertLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	subStore := store.NewMemoryStore()
	keys, err := vapid.NewManager(&config.PushConfig{
		Subject:            "mailto:ops@example.com",
		TTL:                3600,
		SendTimeoutSeconds: 5,
	})
	require.NoError(t, err)

	dispatcher := notification.NewDispatcher(subStore, keys, 5*time.Second)
	sender := &scriptedSender{statuses: map[string]int{
		"https://push.example.com/stale": http.StatusGone,
	}}
	dispatcher.SetSender(sender)

	handler := api.NewHandler(subStore, dispatcher, keys, "integration-secret")
	router := api.NewRouter(handler, &config.ServerConfig{
		RateLimitPerMin: 600,
		RateLimitBurst:  100,
		CacheTTLSeconds: 300,
	})

	register := func(userID, endpoint string) {
		body := `{"endpoint":"` + endpoint + `","keys":{"p256dh":"p256dh-key","auth":"auth-key"}}`
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/devices", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-Id", userID)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	webhook := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/webhooks/call", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Webhook-Token", "integration-secret")
		router.ServeHTTP(w, req)
		return w
	}

	// --- Step 1: Two devices for alice, one for bob ---
	register("alice", "https://push.example.com/phone")
	register("alice", "https://push.example.com/stale")
	register("bob", "https://push.example.com/bob")

	stats := subStore.Stats()
	assert.Equal(t, 2, stats.Users)
	assert.Equal(t, 3, stats.TotalSubscriptions)

	// --- Step 2: Call event for alice fans out to both her devices ---
	w := webhook(`{"owner_user_id":"alice","callee_number":"+49 123 456789"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Sent  int `json:"sent"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Sent, "the stale endpoint fails permanently")
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 2, sender.attemptCount(), "bob's device must not be contacted")

	// --- Step 3: The stale endpoint was pruned as a side effect ---
	remaining := subStore.Get("alice")
	require.Len(t, remaining, 1)
	assert.Equal(t, "https://push.example.com/phone", remaining[0].Endpoint)

	// --- Step 4: The next event only reaches the live device ---
	w = webhook(`{"owner_user_id":"alice","callee_number":"(555) 123-4567"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Sent)
	assert.Equal(t, 1, resp.Total)

	// --- Step 5: Health reflects the pruned store ---
	w = httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var health struct {
		OK      bool        `json:"ok"`
		Storage store.Stats `json:"storage"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.True(t, health.OK)
	assert.Equal(t, 2, health.Storage.Users)
	assert.Equal(t, 2, health.Storage.TotalSubscriptions)
	assert.Equal(t, 1.0, health.Storage.AvgSubscriptionsPerUser)
}
