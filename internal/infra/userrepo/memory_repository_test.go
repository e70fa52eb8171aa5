package userrepo

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/trip-planner/internal/domain/auth"
)

func TestMemoryRepository(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	user, err := repo.Create(ctx, "a@b.io", "Ana", "hash")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)

	_, err = repo.Create(ctx, "a@b.io", "Other", "hash")
	require.True(t, errors.Is(err, auth.ErrEmailExists))

	got, ok, err := repo.GetByEmail(ctx, "a@b.io")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, user, got)

	got, ok, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Ana", got.Name)

	_, ok, err = repo.GetByID(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryRepository_ConcurrentCreate(t *testing.T) {
	repo := NewMemoryRepository()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Create(context.Background(), "same@b.io", "Ana", "hash"); err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, created)
}
