package assessment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repoFunc func(ctx context.Context) (Snapshot, error)

func (f repoFunc) LoadSnapshot(ctx context.Context) (Snapshot, error) { return f(ctx) }

func TestService(t *testing.T) {
	now := time.Date(2024, time.April, 1, 8, 0, 0, 0, time.UTC)

	t.Run("not loaded", func(t *testing.T) {
		svc := NewService(repoFunc(func(context.Context) (Snapshot, error) { return Snapshot{}, nil }))
		_, err := svc.Info()
		assert.Equal(t, ErrNoSnapshot, err)
		_, err = svc.Snapshot()
		assert.Equal(t, ErrNoSnapshot, err)
		_, err = svc.Catalog("")
		assert.Equal(t, ErrNoSnapshot, err)
		_, err = svc.Report(ReportClassSummary, Filter{})
		assert.Equal(t, ErrNoSnapshot, err)
	})

	t.Run("refresh", func(t *testing.T) {
		svc := NewService(repoFunc(func(context.Context) (Snapshot, error) { return schoolSnapshot(), nil }))
		svc.nowFunc = func() time.Time { return now }

		info, err := svc.Refresh(context.Background())
		require.NoError(t, err)
		assert.Equal(t, SnapshotInfo{
			Generation: 1,
			LoadedAt:   now,
			Tests:      3,
			Exams:      2,
			TestMarks:  6,
			ExamMarks:  5,
			Students:   6,
		}, info)

		got, err := svc.Info()
		require.NoError(t, err)
		assert.Equal(t, info, got)

		list, err := svc.Catalog("c6")
		require.NoError(t, err)
		assert.Len(t, list, 2)

		rep, err := svc.Report(ReportTopPerformers, Filter{})
		require.NoError(t, err)
		assert.Equal(t, 5, rep.TopPerformers.Stats.TotalStudents)

		_, err = svc.Report("nope", Filter{})
		assert.Equal(t, ErrUnknownReportKind, errors.Cause(err))
	})

	t.Run("failed refresh keeps the previous snapshot", func(t *testing.T) {
		fail := false
		boom := errors.New("connection refused")
		svc := NewService(repoFunc(func(context.Context) (Snapshot, error) {
			if fail {
				return Snapshot{}, boom
			}
			return schoolSnapshot(), nil
		}))

		_, err := svc.Refresh(context.Background())
		require.NoError(t, err)

		fail = true
		_, err = svc.Refresh(context.Background())
		assert.Equal(t, boom, errors.Cause(err))

		info, err := svc.Info()
		require.NoError(t, err)
		assert.Equal(t, uint64(1), info.Generation)
	})

	t.Run("last started refresh wins", func(t *testing.T) {
		release := make(chan struct{})
		calls := make(chan int, 2)
		var mu sync.Mutex
		var n int

		svc := NewService(repoFunc(func(context.Context) (Snapshot, error) {
			mu.Lock()
			n++
			call := n
			mu.Unlock()
			calls <- call

			snap := schoolSnapshot()
			if call == 1 {
				<-release // the first load finishes after the second one
				snap.Tests = nil
			}
			return snap, nil
		}))

		firstErr := make(chan error, 1)
		go func() {
			_, err := svc.Refresh(context.Background())
			firstErr <- err
		}()
		require.Equal(t, 1, <-calls)

		info, err := svc.Refresh(context.Background())
		require.NoError(t, err)
		assert.Equal(t, uint64(2), info.Generation)
		assert.Equal(t, 3, info.Tests)

		close(release)
		assert.Equal(t, ErrStaleSnapshot, <-firstErr)

		got, err := svc.Info()
		require.NoError(t, err)
		assert.Equal(t, uint64(2), got.Generation)
		assert.Equal(t, 3, got.Tests)
	})

	t.Run("failed newer refresh does not discard an older load", func(t *testing.T) {
		release := make(chan struct{})
		calls := make(chan int, 2)
		boom := errors.New("db down")
		var mu sync.Mutex
		var n int

		svc := NewService(repoFunc(func(context.Context) (Snapshot, error) {
			mu.Lock()
			n++
			call := n
			mu.Unlock()
			calls <- call

			if call == 2 {
				return Snapshot{}, boom
			}
			<-release // the first load finishes after the second one failed
			return schoolSnapshot(), nil
		}))

		firstErr := make(chan error, 1)
		go func() {
			_, err := svc.Refresh(context.Background())
			firstErr <- err
		}()
		require.Equal(t, 1, <-calls)

		_, err := svc.Refresh(context.Background())
		assert.Equal(t, boom, errors.Cause(err))

		close(release)
		require.NoError(t, <-firstErr)

		info, err := svc.Info()
		require.NoError(t, err)
		assert.Equal(t, uint64(1), info.Generation)
		assert.Equal(t, 3, info.Tests)
	})
}
