package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rohits-web03/filebridge/internal/models"
	"github.com/rohits-web03/filebridge/internal/repositories"
	"github.com/rohits-web03/filebridge/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupRepositoryLifecycle(t *testing.T) {
	repo := repositories.NewCleanupRepository(testutil.NewDB(t), time.Second)
	ctx := context.Background()

	require.NoError(t, repo.Enqueue(ctx, "files", "a/one.txt", models.ReasonRecordDeleted, errors.New("timeout")))
	require.NoError(t, repo.Enqueue(ctx, "files", "b/two.txt", models.ReasonUploadAborted, nil))

	now := time.Now().UTC().Add(time.Second)
	due, err := repo.Due(ctx, now, 3, 10)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "a/one.txt", due[0].Key)
	assert.Equal(t, "timeout", due[0].LastError)
	assert.Equal(t, models.ReasonUploadAborted, due[1].Reason)

	// Pushed into the future: no longer due.
	require.NoError(t, repo.Reschedule(ctx, due[0].ID, 1, now.Add(time.Hour), "still failing"))
	due, err = repo.Due(ctx, now, 3, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "b/two.txt", due[0].Key)

	require.NoError(t, repo.Complete(ctx, due[0].ID))

	pending, err := repo.Pending(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)
}

func TestCleanupRepositoryDueSkipsExhausted(t *testing.T) {
	repo := repositories.NewCleanupRepository(testutil.NewDB(t), time.Second)
	ctx := context.Background()

	require.NoError(t, repo.Enqueue(ctx, "files", "k", models.ReasonRecordDeleted, nil))
	now := time.Now().UTC().Add(time.Second)
	due, err := repo.Due(ctx, now, 3, 10)
	require.NoError(t, err)
	require.Len(t, due, 1)

	require.NoError(t, repo.Reschedule(ctx, due[0].ID, 3, now.Add(-time.Minute), "gave up"))

	due, err = repo.Due(ctx, now, 3, 10)
	require.NoError(t, err)
	assert.Empty(t, due)

	pending, err := repo.Pending(ctx, 3)
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestCleanupRepositoryDueRespectsLimit(t *testing.T) {
	repo := repositories.NewCleanupRepository(testutil.NewDB(t), time.Second)
	ctx := context.Background()

	for _, k := range []string{"1", "2", "3"} {
		require.NoError(t, repo.Enqueue(ctx, "files", k, models.ReasonRecordDeleted, nil))
	}

	due, err := repo.Due(ctx, time.Now().UTC().Add(time.Second), 5, 2)
	require.NoError(t, err)
	assert.Len(t, due, 2)
}
