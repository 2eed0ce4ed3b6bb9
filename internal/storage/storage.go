package storage

import (
	"context"

	"github.com/xaenox/calendar-bot/internal/models"
)

// Storage persists one UserProfile record per user. Implementations return
// a default profile for users that have never been saved.
type Storage interface {
	GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, userID int64, profile *models.UserProfile) error
	Close() error
}
