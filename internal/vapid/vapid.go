// Package vapid manages the VAPID keypair used to authenticate outbound
// push messages. One keypair is active for the whole process lifetime;
// there is no rotation.
package vapid

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"call-alert-backend/config"
)

// Manager holds the process-lifetime VAPID keypair and the delivery
// options every push send is stamped with.
type Manager struct {
	publicKey  string
	privateKey string
	subject    string
	ttl        int
	httpClient *http.Client
}

// NewManager builds a Manager from configuration. When the config
// carries both key halves they are used verbatim; otherwise a fresh
// keypair is generated and both halves are logged exactly once so the
// operator can persist them for future restarts.
func NewManager(cfg *config.PushConfig) (*Manager, error) {
	publicKey := cfg.PublicKey
	privateKey := cfg.PrivateKey

	if publicKey == "" || privateKey == "" {
		var err error
		privateKey, publicKey, err = webpush.GenerateVAPIDKeys()
		if err != nil {
			return nil, fmt.Errorf("failed to generate VAPID keys: %w", err)
		}
		log.Printf("no VAPID keypair configured; generated a fresh one")
		log.Printf("VAPID public key:  %s", publicKey)
		log.Printf("VAPID private key: %s", privateKey)
		log.Printf("persist these keys in the configuration to keep existing subscriptions across restarts")
	}

	return &Manager{
		publicKey:  publicKey,
		privateKey: privateKey,
		subject:    cfg.Subject,
		ttl:        cfg.TTL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.SendTimeoutSeconds) * time.Second,
		},
	}, nil
}

// PublicKey returns the active VAPID public key. Clients need it to
// construct a subscription.
func (m *Manager) PublicKey() string {
	return m.publicKey
}

// Options returns the webpush options for one delivery attempt: the
// signing keys, the operator contact, the message TTL, a high urgency
// hint, and an HTTP client with a bounded timeout.
func (m *Manager) Options() *webpush.Options {
	return &webpush.Options{
		HTTPClient:      m.httpClient,
		Subscriber:      m.subject,
		TTL:             m.ttl,
		Urgency:         webpush.UrgencyHigh,
		VAPIDPublicKey:  m.publicKey,
		VAPIDPrivateKey: m.privateKey,
	}
}
