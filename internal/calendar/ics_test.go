package calendar

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/calendar-bot/internal/models"
	"go.uber.org/zap"
)

func newTestICSGateway(t *testing.T) (*ICSGateway, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calendar.ics")
	g := NewICSGateway(path, zap.NewNop())
	require.NoError(t, g.Authenticate(context.Background()))
	return g, path
}

func TestICSGateway_AuthenticateCreatesFile(t *testing.T) {
	g, path := newTestICSGateway(t)

	assert.True(t, g.IsAuthenticated())
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestICSGateway_AuthGate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar.ics")
	g := NewICSGateway(path, zap.NewNop())

	_, err := g.ListUpcoming(context.Background(), 0)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = g.CreateEvent(context.Background(), models.ParsedEvent{Title: "x"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestICSGateway_CreateListDelete(t *testing.T) {
	g, _ := newTestICSGateway(t)
	ctx := context.Background()

	start := time.Now().Add(24 * time.Hour).Truncate(time.Second).UTC()
	created, err := g.CreateEvent(ctx, models.ParsedEvent{
		Title:       "Team meeting",
		Start:       start,
		End:         start.Add(time.Hour),
		Description: "Scheduled via AI Calendar Assistant",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	events, err := g.ListUpcoming(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, created.ID, events[0].ID)
	assert.Equal(t, "Team meeting", events[0].Summary)
	assert.WithinDuration(t, start, events[0].Start, time.Second)

	require.NoError(t, g.DeleteEvent(ctx, created.ID))

	events, err = g.ListUpcoming(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, events)

	assert.Error(t, g.DeleteEvent(ctx, created.ID))
}

func TestICSGateway_SortsAndFilters(t *testing.T) {
	g, _ := newTestICSGateway(t)
	ctx := context.Background()

	base := time.Now().Truncate(time.Second).UTC()
	for _, e := range []struct {
		title string
		start time.Time
	}{
		{"later", base.Add(72 * time.Hour)},
		{"sooner", base.Add(3 * time.Hour)},
		{"already happened", base.Add(-24 * time.Hour)},
	} {
		_, err := g.CreateEvent(ctx, models.ParsedEvent{
			Title: e.title,
			Start: e.start,
			End:   e.start.Add(time.Hour),
		})
		require.NoError(t, err)
	}

	events, err := g.ListUpcoming(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "sooner", events[0].Summary)
	assert.Equal(t, "later", events[1].Summary)
}

func TestICSGateway_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar.ics")
	ctx := context.Background()

	first := NewICSGateway(path, zap.NewNop())
	require.NoError(t, first.Authenticate(ctx))

	start := time.Now().Add(24 * time.Hour).Truncate(time.Second).UTC()
	_, err := first.CreateEvent(ctx, models.ParsedEvent{
		Title: "Persisted",
		Start: start,
		End:   start.Add(time.Hour),
	})
	require.NoError(t, err)

	second := NewICSGateway(path, zap.NewNop())
	require.NoError(t, second.Authenticate(ctx))

	events, err := second.ListUpcoming(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Persisted", events[0].Summary)
}
