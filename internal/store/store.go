package store

import (
	"sync"

	"call-alert-backend/internal/model"
)

// Store defines the interface for subscription storage.
type Store interface {
	// Add inserts a subscription into the user's set. Adding a
	// structurally identical record twice is a no-op; the return value
	// reports whether a new record was stored.
	Add(userID string, sub model.Subscription) bool

	// Get returns a snapshot of the user's subscriptions, in arbitrary
	// order. Unknown users yield an empty slice, not an error.
	Get(userID string) []model.Subscription

	// Remove deletes the matching record by structural equality. When
	// the user's last subscription is removed the user entry itself is
	// dropped. Removing an absent record or user is a no-op.
	Remove(userID string, sub model.Subscription)

	// Stats returns aggregate counts across all users.
	Stats() Stats
}

// Stats holds aggregate subscription counts.
type Stats struct {
	Users                   int     `json:"users"`
	TotalSubscriptions      int     `json:"totalSubscriptions"`
	AvgSubscriptionsPerUser float64 `json:"avgSubscriptionsPerUser"`
}

// memoryStore implements Store with an in-memory map. Subscriptions are
// keyed per user by their content fingerprint, giving set semantics.
// A single coarse mutex guards the whole map; contention is not a
// concern at this scale.
type memoryStore struct {
	mu   sync.Mutex
	subs map[string]map[string]model.Subscription
}

// NewMemoryStore creates a new in-memory subscription store. The store
// is not durable: all subscriptions are lost on process restart.
func NewMemoryStore() Store {
	return &memoryStore{
		subs: make(map[string]map[string]model.Subscription),
	}
}

func (s *memoryStore) Add(userID string, sub model.Subscription) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.subs[userID]
	if !ok {
		set = make(map[string]model.Subscription)
		s.subs[userID] = set
	}

	key := sub.Fingerprint()
	if _, exists := set[key]; exists {
		return false
	}
	set[key] = sub
	return true
}

func (s *memoryStore) Get(userID string) []model.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.subs[userID]
	snapshot := make([]model.Subscription, 0, len(set))
	for _, sub := range set {
		snapshot = append(snapshot, sub)
	}
	return snapshot
}

func (s *memoryStore) Remove(userID string, sub model.Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.subs[userID]
	if !ok {
		return
	}

	delete(set, sub.Fingerprint())
	if len(set) == 0 {
		delete(s.subs, userID)
	}
}

func (s *memoryStore) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, set := range s.subs {
		total += len(set)
	}

	stats := Stats{
		Users:              len(s.subs),
		TotalSubscriptions: total,
	}
	if stats.Users > 0 {
		stats.AvgSubscriptionsPerUser = float64(total) / float64(stats.Users)
	}
	return stats
}
