package profile

import (
	"context"
	"sync"

	"github.com/xaenox/calendar-bot/internal/models"
	"github.com/xaenox/calendar-bot/internal/storage"
	"go.uber.org/zap"
)

// Caps on the bounded profile lists. Direct preference statements keep the
// last 10; insights inferred from general conversation keep the last 15;
// priorities keep the last 5. Eviction is always oldest-first.
const (
	PreferenceCap = 10
	InsightCap    = 15
	PriorityCap   = 5
)

// Store is the exclusive owner of user profiles. Every mutation is written
// through to the backing storage before it becomes visible to readers, so
// no partial update is ever observable.
type Store struct {
	storage storage.Storage
	logger  *zap.Logger

	mu    sync.Mutex
	cache map[int64]*models.UserProfile
}

func NewStore(st storage.Storage, logger *zap.Logger) *Store {
	return &Store{
		storage: st,
		logger:  logger,
		cache:   make(map[int64]*models.UserProfile),
	}
}

// Snapshot returns a read-only copy of the user's profile for rendering.
func (s *Store) Snapshot(ctx context.Context, userID int64) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profile.Clone(), nil
}

// AppendPreference appends an insight to the preferences list and truncates
// to the last limit entries.
func (s *Store) AppendPreference(ctx context.Context, userID int64, text string, limit int) (*models.UserProfile, error) {
	return s.mutate(ctx, userID, func(p *models.UserProfile) {
		p.Preferences = appendBounded(p.Preferences, text, limit)
	})
}

// AppendPriority appends a priority and truncates to the last PriorityCap entries.
func (s *Store) AppendPriority(ctx context.Context, userID int64, text string) (*models.UserProfile, error) {
	return s.mutate(ctx, userID, func(p *models.UserProfile) {
		p.Priorities = appendBounded(p.Priorities, text, PriorityCap)
	})
}

// mutate applies fn to a copy of the profile, persists it, and only then
// commits the copy to the cache.
func (s *Store) mutate(ctx context.Context, userID int64, fn func(*models.UserProfile)) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated := current.Clone()
	fn(updated)

	if err := s.storage.SaveProfile(ctx, userID, updated); err != nil {
		s.logger.Error("Failed to persist profile",
			zap.Error(err),
			zap.Int64("user_id", userID))
		return nil, err
	}

	s.cache[userID] = updated
	return updated.Clone(), nil
}

// load returns the cached profile, reading it from storage on first use.
// Callers must hold s.mu.
func (s *Store) load(ctx context.Context, userID int64) (*models.UserProfile, error) {
	if profile, exists := s.cache[userID]; exists {
		return profile, nil
	}

	profile, err := s.storage.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache[userID] = profile
	return profile, nil
}

func appendBounded(list []string, text string, limit int) []string {
	list = append(list, text)
	if len(list) > limit {
		list = list[len(list)-limit:]
	}
	return list
}
