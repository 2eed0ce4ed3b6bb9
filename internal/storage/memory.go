package storage

import (
	"context"
	"sync"

	"github.com/xaenox/calendar-bot/internal/models"
)

type MemoryStorage struct {
	mu       sync.RWMutex
	profiles map[int64]*models.UserProfile
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		profiles: make(map[int64]*models.UserProfile),
	}
}

func (s *MemoryStorage) GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if profile, exists := s.profiles[userID]; exists {
		return profile.Clone(), nil
	}
	return models.DefaultProfile(), nil
}

func (s *MemoryStorage) SaveProfile(ctx context.Context, userID int64, profile *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[userID] = profile.Clone()
	return nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
