package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"call-alert-backend/internal/model"
	"call-alert-backend/internal/store"
	"call-alert-backend/internal/vapid"
)

// Sender defines the interface for sending a single web push message.
type Sender interface {
	Send(ctx context.Context, payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real Sender implementation using the webpush library.
type WebPushSender struct{}

// Send delivers a message through the web push protocol.
func (s *WebPushSender) Send(ctx context.Context, payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotificationWithContext(ctx, payload, sub, options)
}

// Result holds the delivery counts for one fan-out.
type Result struct {
	Sent  int `json:"sent"`
	Total int `json:"total"`
}

// Dispatcher fans a notification out to every subscription a user has
// registered and prunes subscriptions the push service reports as
// permanently dead.
type Dispatcher struct {
	store       store.Store
	keys        *vapid.Manager
	sender      Sender
	sendTimeout time.Duration
}

// NewDispatcher creates a new Dispatcher. sendTimeout bounds each
// individual delivery attempt.
func NewDispatcher(s store.Store, keys *vapid.Manager, sendTimeout time.Duration) *Dispatcher {
	return &Dispatcher{
		store:       s,
		keys:        keys,
		sender:      &WebPushSender{},
		sendTimeout: sendTimeout,
	}
}

// SetSender replaces the delivery transport. Used by tests.
func (d *Dispatcher) SetSender(s Sender) {
	d.sender = s
}

type attemptOutcome struct {
	sub       model.Subscription
	delivered bool
	dead      bool
}

// SendToUser delivers the payload to every subscription the user has.
// All attempts run concurrently and independently; one failure never
// aborts or delays the others, and every outcome is awaited before the
// counts are returned. Subscriptions rejected as gone or unknown by the
// push service are removed from the store. Partial failure is never an
// error: the error return is reserved for subsystem failures.
func (d *Dispatcher) SendToUser(ctx context.Context, userID string, payload *Payload) (Result, error) {
	subs := d.store.Get(userID)
	if len(subs) == 0 {
		return Result{}, nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode notification payload: %w", err)
	}
	options := d.keys.Options()

	outcomes := make(chan attemptOutcome, len(subs))
	for _, sub := range subs {
		go func(sub model.Subscription) {
			outcomes <- d.attempt(ctx, sub, body, options)
		}(sub)
	}

	result := Result{Total: len(subs)}
	for range subs {
		out := <-outcomes
		if out.delivered {
			result.Sent++
		}
		if out.dead {
			log.Printf("subscription %s for user %s is permanently dead, removing", out.sub.Endpoint, userID)
			d.store.Remove(userID, out.sub)
		}
	}

	log.Printf("delivered %d/%d notifications for user %s", result.Sent, result.Total, userID)
	return result, nil
}

// attempt sends the payload to one subscription. A timed-out or
// transport-failed attempt counts as transient: it is part of the total
// but never triggers removal.
func (d *Dispatcher) attempt(ctx context.Context, sub model.Subscription, body []byte, options *webpush.Options) attemptOutcome {
	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.Keys.P256dh,
			Auth:   sub.Keys.Auth,
		},
	}

	resp, err := d.sender.Send(sendCtx, body, wpSub, options)
	if err != nil {
		log.Printf("error sending notification to %s: %v", sub.Endpoint, err)
		return attemptOutcome{sub: sub}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		// The push service will never accept further messages for
		// this subscription.
		return attemptOutcome{sub: sub, dead: true}
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return attemptOutcome{sub: sub, delivered: true}
	default:
		log.Printf("push service returned %d for %s, keeping subscription", resp.StatusCode, sub.Endpoint)
		return attemptOutcome{sub: sub}
	}
}
