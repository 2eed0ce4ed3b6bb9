package calendar

import (
	"context"
	"errors"

	"github.com/xaenox/calendar-bot/internal/models"
)

// ErrNotAuthenticated is returned by gateway operations before a successful
// Authenticate call. Handlers recover it into a reconnect prompt.
var ErrNotAuthenticated = errors.New("calendar: not authenticated")

// DefaultPageSize is the number of upcoming events fetched when the caller
// does not ask for a specific amount.
const DefaultPageSize = 10

// Gateway abstracts the calendar provider. ListUpcoming returns future
// events only, soonest first.
type Gateway interface {
	IsAuthenticated() bool
	Authenticate(ctx context.Context) error
	ListUpcoming(ctx context.Context, maxResults int) ([]models.CalendarEvent, error)
	CreateEvent(ctx context.Context, event models.ParsedEvent) (models.CalendarEvent, error)
	DeleteEvent(ctx context.Context, id string) error
}
