package profile

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/calendar-bot/internal/storage"
	"go.uber.org/zap"
)

const testUser int64 = 42

func newTestStore() *Store {
	return NewStore(storage.NewMemoryStorage(), zap.NewNop())
}

func TestStore_DefaultsOnFirstUse(t *testing.T) {
	s := newTestStore()

	snapshot, err := s.Snapshot(context.Background(), testUser)
	require.NoError(t, err)

	assert.Empty(t, snapshot.Preferences)
	assert.Empty(t, snapshot.Priorities)
	assert.Equal(t, 15, snapshot.BufferTime)
	assert.Equal(t, 9, snapshot.WorkingHours.Start)
	assert.Equal(t, 17, snapshot.WorkingHours.End)
}

func TestStore_PreferenceCapFIFO(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	for i := 1; i <= 11; i++ {
		_, err := s.AppendPreference(ctx, testUser, fmt.Sprintf("insight %d", i), PreferenceCap)
		require.NoError(t, err)
	}

	snapshot, err := s.Snapshot(ctx, testUser)
	require.NoError(t, err)

	require.Len(t, snapshot.Preferences, PreferenceCap)
	// Oldest entry is evicted first.
	assert.Equal(t, "insight 2", snapshot.Preferences[0])
	assert.Equal(t, "insight 11", snapshot.Preferences[PreferenceCap-1])
}

func TestStore_InsightCap(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	for i := 1; i <= 16; i++ {
		_, err := s.AppendPreference(ctx, testUser, fmt.Sprintf("insight %d", i), InsightCap)
		require.NoError(t, err)
	}

	snapshot, err := s.Snapshot(ctx, testUser)
	require.NoError(t, err)

	require.Len(t, snapshot.Preferences, InsightCap)
	assert.Equal(t, "insight 2", snapshot.Preferences[0])
}

func TestStore_PriorityCapFIFO(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	for i := 1; i <= 6; i++ {
		_, err := s.AppendPriority(ctx, testUser, fmt.Sprintf("priority %d", i))
		require.NoError(t, err)
	}

	snapshot, err := s.Snapshot(ctx, testUser)
	require.NoError(t, err)

	require.Len(t, snapshot.Priorities, PriorityCap)
	assert.Equal(t, "priority 2", snapshot.Priorities[0])
	assert.Equal(t, "priority 6", snapshot.Priorities[PriorityCap-1])
}

func TestStore_SnapshotIsIsolated(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	_, err := s.AppendPreference(ctx, testUser, "original", PreferenceCap)
	require.NoError(t, err)

	snapshot, err := s.Snapshot(ctx, testUser)
	require.NoError(t, err)
	snapshot.Preferences[0] = "mutated"
	snapshot.Priorities = append(snapshot.Priorities, "sneaky")

	fresh, err := s.Snapshot(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, []string{"original"}, fresh.Preferences)
	assert.Empty(t, fresh.Priorities)
}

func TestStore_PersistsThroughStorage(t *testing.T) {
	backing := storage.NewMemoryStorage()
	ctx := context.Background()

	first := NewStore(backing, zap.NewNop())
	_, err := first.AppendPriority(ctx, testUser, "ship the release")
	require.NoError(t, err)

	// A second store over the same backing sees the persisted write.
	second := NewStore(backing, zap.NewNop())
	snapshot, err := second.Snapshot(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, []string{"ship the release"}, snapshot.Priorities)
}

func TestStore_UsersAreIndependent(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()

	_, err := s.AppendPreference(ctx, 1, "likes mornings", PreferenceCap)
	require.NoError(t, err)

	other, err := s.Snapshot(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, other.Preferences)
}
