// Package preferences persists the transcript font size per visitor.
package preferences

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/Shimizu-Technology/transcript-viewer/internal/models"
	"github.com/Shimizu-Technology/transcript-viewer/internal/services/analytics"
)

// Store is a key-value store scoped by visitor. *database.DB satisfies it.
type Store interface {
	GetPreference(ctx context.Context, visitorID, key string) (string, bool, error)
	SetPreference(ctx context.Context, visitorID, key, value string) error
	DeleteVisitorPreferences(ctx context.Context, visitorID string) (int64, error)
	Name() string
}

// Service reads and writes the font size preference.
type Service struct {
	store   Store
	tracker analytics.Tracker
}

// NewService creates a Service. A nil store keeps preferences in memory.
func NewService(store Store, tracker analytics.Tracker) *Service {
	if store == nil {
		store = NewMemoryStore()
	}
	if tracker == nil {
		tracker = analytics.Nop{}
	}
	return &Service{store: store, tracker: tracker}
}

// StoreName reports which backend holds the preferences.
func (s *Service) StoreName() string {
	return s.store.Name()
}

// Ping checks the backing store when it supports health checks.
func (s *Service) Ping(ctx context.Context) error {
	if hc, ok := s.store.(interface{ HealthCheck(context.Context) error }); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

// Load returns the visitor's font size. Missing, invalid, or unreadable
// values all yield the default.
func (s *Service) Load(ctx context.Context, visitorID string) models.FontSize {
	value, found, err := s.store.GetPreference(ctx, visitorID, models.FontSizePreferenceKey)
	if err != nil {
		log.Printf("⚠️  Failed to load font size for %s: %v", visitorID, err)
		return models.DefaultFontSize
	}
	if !found {
		return models.DefaultFontSize
	}
	return models.ParseFontSize(value)
}

// Save normalizes raw and stores it. The stored value is returned.
func (s *Service) Save(ctx context.Context, visitorID, raw string) (models.FontSize, error) {
	size := models.ParseFontSize(raw)
	if err := s.store.SetPreference(ctx, visitorID, models.FontSizePreferenceKey, string(size)); err != nil {
		return size, fmt.Errorf("failed to save font size: %w", err)
	}

	analytics.SafeTrack(s.tracker, analytics.Event{
		Name:    analytics.EventFontSizeChange,
		Value:   string(size),
		Visitor: visitorID,
	})
	return size, nil
}

// Forget removes everything stored for the visitor.
func (s *Service) Forget(ctx context.Context, visitorID string) error {
	n, err := s.store.DeleteVisitorPreferences(ctx, visitorID)
	if err != nil {
		return fmt.Errorf("failed to forget preferences: %w", err)
	}
	if n > 0 {
		log.Printf("🗑️  Cleared %d preferences for %s", n, visitorID)
	}
	return nil
}

// MemoryStore keeps preferences in a map. It is the default when no
// database is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]map[string]string)}
}

// GetPreference returns the value for (visitorID, key).
func (m *MemoryStore) GetPreference(_ context.Context, visitorID, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[visitorID][key]
	return v, ok, nil
}

// SetPreference stores value for (visitorID, key).
func (m *MemoryStore) SetPreference(_ context.Context, visitorID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values[visitorID] == nil {
		m.values[visitorID] = make(map[string]string)
	}
	m.values[visitorID][key] = value
	return nil
}

// DeleteVisitorPreferences drops the visitor's values and reports how many there were.
func (m *MemoryStore) DeleteVisitorPreferences(_ context.Context, visitorID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.values[visitorID]))
	delete(m.values, visitorID)
	return n, nil
}

// Name identifies the store in health output.
func (m *MemoryStore) Name() string {
	return "memory"
}
