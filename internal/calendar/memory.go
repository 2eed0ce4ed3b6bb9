package calendar

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xaenox/calendar-bot/internal/models"
)

// MemoryGateway is an in-process calendar used for tests and local runs
// without a real provider.
type MemoryGateway struct {
	mu            sync.RWMutex
	authenticated bool
	events        map[string]models.CalendarEvent

	now func() time.Time
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		events: make(map[string]models.CalendarEvent),
		now:    time.Now,
	}
}

func (g *MemoryGateway) IsAuthenticated() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.authenticated
}

func (g *MemoryGateway) Authenticate(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.authenticated = true
	return nil
}

func (g *MemoryGateway) ListUpcoming(ctx context.Context, maxResults int) ([]models.CalendarEvent, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.authenticated {
		return nil, ErrNotAuthenticated
	}
	if maxResults <= 0 {
		maxResults = DefaultPageSize
	}

	now := g.now()
	upcoming := make([]models.CalendarEvent, 0, len(g.events))
	for _, event := range g.events {
		if event.Start.After(now) {
			upcoming = append(upcoming, event)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].Start.Before(upcoming[j].Start)
	})

	if len(upcoming) > maxResults {
		upcoming = upcoming[:maxResults]
	}
	return upcoming, nil
}

func (g *MemoryGateway) CreateEvent(ctx context.Context, event models.ParsedEvent) (models.CalendarEvent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.authenticated {
		return models.CalendarEvent{}, ErrNotAuthenticated
	}

	created := models.CalendarEvent{
		ID:      uuid.New().String(),
		Summary: event.Title,
		Start:   event.Start,
		End:     event.End,
	}
	g.events[created.ID] = created
	return created, nil
}

func (g *MemoryGateway) DeleteEvent(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.authenticated {
		return ErrNotAuthenticated
	}
	if _, exists := g.events[id]; !exists {
		return fmt.Errorf("event %s not found", id)
	}
	delete(g.events, id)
	return nil
}
