package calendar

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/xaenox/calendar-bot/internal/models"
	"go.uber.org/zap"
)

// ICSGateway stores the calendar as a single iCalendar file on disk. It is
// the default provider: no remote account needed, and the file can be
// opened by any calendar application.
type ICSGateway struct {
	path   string
	logger *zap.Logger

	mu            sync.Mutex
	authenticated bool

	now func() time.Time
}

func NewICSGateway(path string, logger *zap.Logger) *ICSGateway {
	return &ICSGateway{
		path:   path,
		logger: logger,
		now:    time.Now,
	}
}

func (g *ICSGateway) IsAuthenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.authenticated
}

// Authenticate verifies the calendar file is readable, creating an empty
// calendar when none exists yet.
func (g *ICSGateway) Authenticate(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	cal, err := g.load()
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(g.path); os.IsNotExist(statErr) {
		if err := g.save(cal); err != nil {
			return err
		}
	}
	g.authenticated = true
	return nil
}

func (g *ICSGateway) ListUpcoming(ctx context.Context, maxResults int) ([]models.CalendarEvent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.authenticated {
		return nil, ErrNotAuthenticated
	}
	if maxResults <= 0 {
		maxResults = DefaultPageSize
	}

	cal, err := g.load()
	if err != nil {
		return nil, err
	}

	now := g.now()
	upcoming := make([]models.CalendarEvent, 0)
	for _, ve := range cal.Events() {
		event, err := eventFromVEvent(ve)
		if err != nil {
			// Skip malformed entries but keep listing the rest.
			g.logger.Warn("Skipping unreadable calendar entry",
				zap.Error(err),
				zap.String("path", g.path))
			continue
		}
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

func (g *ICSGateway) CreateEvent(ctx context.Context, event models.ParsedEvent) (models.CalendarEvent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.authenticated {
		return models.CalendarEvent{}, ErrNotAuthenticated
	}

	cal, err := g.load()
	if err != nil {
		return models.CalendarEvent{}, err
	}

	id := uuid.New().String()
	ve := cal.AddEvent(id)
	ve.SetCreatedTime(g.now())
	ve.SetDtStampTime(g.now())
	ve.SetStartAt(event.Start)
	ve.SetEndAt(event.End)
	ve.SetSummary(event.Title)
	ve.SetDescription(event.Description)

	if err := g.save(cal); err != nil {
		return models.CalendarEvent{}, err
	}

	return models.CalendarEvent{
		ID:      id,
		Summary: event.Title,
		Start:   event.Start,
		End:     event.End,
	}, nil
}

func (g *ICSGateway) DeleteEvent(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.authenticated {
		return ErrNotAuthenticated
	}

	cal, err := g.load()
	if err != nil {
		return err
	}

	found := false
	kept := cal.Components[:0]
	for _, comp := range cal.Components {
		if ve, ok := comp.(*ical.VEvent); ok && vEventID(ve) == id {
			found = true
			continue
		}
		kept = append(kept, comp)
	}
	if !found {
		return fmt.Errorf("event %s not found", id)
	}
	cal.Components = kept

	return g.save(cal)
}

// load parses the calendar file, returning a fresh calendar when the file
// does not exist yet.
func (g *ICSGateway) load() (*ical.Calendar, error) {
	data, err := os.ReadFile(g.path)
	if os.IsNotExist(err) {
		cal := ical.NewCalendar()
		cal.SetMethod(ical.MethodPublish)
		return cal, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading calendar file: %w", err)
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("error parsing calendar file: %w", err)
	}
	return cal, nil
}

func (g *ICSGateway) save(cal *ical.Calendar) error {
	if err := os.WriteFile(g.path, []byte(cal.Serialize()), 0o644); err != nil {
		return fmt.Errorf("error writing calendar file: %w", err)
	}
	return nil
}

func vEventID(ve *ical.VEvent) string {
	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		return p.Value
	}
	return ""
}

// eventFromVEvent normalizes a VEVENT, detecting date-only starts the same
// way as timed ones so all-day entries still render in listings.
func eventFromVEvent(ve *ical.VEvent) (models.CalendarEvent, error) {
	event := models.CalendarEvent{ID: vEventID(ve)}
	if event.ID == "" {
		return event, fmt.Errorf("missing UID")
	}

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		event.Summary = p.Value
	}

	start, err := ve.GetStartAt()
	if err != nil {
		start, err = ve.GetAllDayStartAt()
		if err != nil {
			return event, fmt.Errorf("unreadable DTSTART: %w", err)
		}
		event.AllDay = true
	}
	event.Start = start

	if end, err := ve.GetEndAt(); err == nil {
		event.End = end
	} else if end, err := ve.GetAllDayEndAt(); err == nil {
		event.End = end
	}

	return event, nil
}
