package inmemdb

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutil "github.com/trezcool/masomo-reports/tests"
)

func TestAssessmentRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAssessmentRepository(testutil.SchoolSnapshot())

	snap, err := repo.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Tests, 3)
	assert.False(t, snap.LoadedAt.IsZero())

	boom := errors.New("boom")
	repo.Fail(boom)
	_, err = repo.LoadSnapshot(ctx)
	assert.Equal(t, boom, err)

	repo.Fail(nil)
	emptied := testutil.SchoolSnapshot()
	emptied.Tests = nil
	repo.Set(emptied)
	snap, err = repo.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Tests)
	assert.Equal(t, 3, repo.Loads())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = repo.LoadSnapshot(cancelled)
	assert.Equal(t, context.Canceled, err)
	assert.Equal(t, 3, repo.Loads())
}
