package triprepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/trip-planner/internal/domain/itinerary"
)

func TestMemoryRepository_OwnershipAndOrder(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		_, err := repo.Create(ctx, itinerary.SavedItinerary{
			ID:        id,
			UserID:    "u1",
			Title:     "trip " + id,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, itinerary.SavedItinerary{ID: "z", UserID: "u2", CreatedAt: base})
	require.NoError(t, err)

	list, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, []string{"c", "b", "a"}, []string{list[0].ID, list[1].ID, list[2].ID})

	_, ok, err := repo.Get(ctx, "u1", "z")
	require.NoError(t, err)
	require.False(t, ok, "other users' itineraries are invisible")

	deleted, err := repo.Delete(ctx, "u1", "z")
	require.NoError(t, err)
	require.False(t, deleted)

	deleted, err = repo.Delete(ctx, "u1", "b")
	require.NoError(t, err)
	require.True(t, deleted)

	_, ok, err = repo.Get(ctx, "u1", "b")
	require.NoError(t, err)
	require.False(t, ok)

	empty, err := repo.List(ctx, "nobody")
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)
}
