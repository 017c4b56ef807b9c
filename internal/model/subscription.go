package model

import (
	"crypto/sha256"
	"encoding/hex"
)

// Subscription holds the information for a browser push subscription,
// as supplied by the PushManager on the client.
type Subscription struct {
	Endpoint string `json:"endpoint" binding:"required"`
	Keys     Keys   `json:"keys" binding:"required"`
}

// Keys holds the client key material the push service requires to
// encrypt messages for this subscription.
type Keys struct {
	P256dh string `json:"p256dh" binding:"required"`
	Auth   string `json:"auth" binding:"required"`
}

// Fingerprint returns the content key identifying this subscription.
// Two subscriptions with the same endpoint and key material are the
// same subscription; the fingerprint is computed once at insert so
// set membership never re-serializes the record.
func (s Subscription) Fingerprint() string {
	h := sha256.New()
	h.Write([]byte(s.Endpoint))
	h.Write([]byte{0})
	h.Write([]byte(s.Keys.P256dh))
	h.Write([]byte{0})
	h.Write([]byte(s.Keys.Auth))
	return hex.EncodeToString(h.Sum(nil))
}
