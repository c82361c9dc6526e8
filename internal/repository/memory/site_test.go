package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"signpost/internal/domain"
	"signpost/internal/domain/models"
	"signpost/internal/sidebar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func site(id, name string, updated time.Time) *models.Site {
	return &models.Site{ID: id, Name: name, Config: sidebar.Default(), CreatedAt: updated, UpdatedAt: updated}
}

func TestSiteRepository(t *testing.T) {
	repo := NewSiteRepository()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, site("1", "docs", base)))
	require.NoError(t, repo.Create(ctx, site("2", "api", base.Add(time.Hour))))

	err := repo.Create(ctx, site("3", "docs", base))
	var conflictErr *domain.ConflictError
	require.True(t, errors.As(err, &conflictErr))
	assert.Equal(t, "1", conflictErr.ResourceID)

	got, err := repo.GetByName(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)

	// returned values are copies
	got.Config = sidebar.Config{}
	again, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, sidebar.Default(), again.Config)

	sites, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, sites, 2)
	assert.Equal(t, "api", sites[0].Name)

	rename := site("1", "api", base.Add(2*time.Hour))
	assert.ErrorIs(t, repo.Update(ctx, rename), domain.ErrConflict)

	rename.Name = "handbook"
	require.NoError(t, repo.Update(ctx, rename))

	deleted, err := repo.Delete(ctx, "1")
	require.NoError(t, err)
	assert.NotNil(t, deleted.DeletedAt)

	_, err = repo.GetByID(ctx, "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, rename), domain.ErrNotFound)
	_, err = repo.Delete(ctx, "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// deleted names are free again
	assert.NoError(t, repo.Create(ctx, site("4", "handbook", base)))
}

func TestTransactionManager_SerialisesAndNests(t *testing.T) {
	tm := NewTransactionManager()
	ctx := context.Background()

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tm.ExecTx(ctx, func(ctx context.Context) error {
				mu.Lock()
				active++
				if active > maxSeen {
					maxSeen = active
				}
				mu.Unlock()

				// nested call must not deadlock
				err := tm.ExecTx(ctx, func(context.Context) error { return nil })

				mu.Lock()
				active--
				mu.Unlock()
				return err
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}
