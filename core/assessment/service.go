package assessment

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNoSnapshot    = errors.New("assessment data not loaded yet")
	ErrStaleSnapshot = errors.New("snapshot superseded by a newer refresh")
)

type (
	// Repository loads the raw data reports are computed from.
	Repository interface {
		LoadSnapshot(ctx context.Context) (Snapshot, error)
	}

	ServiceInterface interface {
		Refresh(ctx context.Context) (SnapshotInfo, error)
		Info() (SnapshotInfo, error)
		Snapshot() (Snapshot, error)
		Catalog(classID string) ([]Assessment, error)
		Report(kind ReportKind, filter Filter) (Report, error)
	}

	SnapshotInfo struct {
		Generation uint64    `json:"generation"`
		LoadedAt   time.Time `json:"loaded_at"`
		Tests      int       `json:"tests"`
		Exams      int       `json:"exams"`
		TestMarks  int       `json:"test_marks"`
		ExamMarks  int       `json:"exam_marks"`
		Students   int       `json:"students"`
	}

	// Service keeps the latest snapshot and computes reports from it.
	Service struct {
		repo    Repository
		nowFunc func() time.Time

		started uint64 // last refresh generation handed out; atomic

		mu   sync.RWMutex
		snap *Snapshot
		gen  uint64 // generation of snap
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo, nowFunc: time.Now}
}

// Refresh reloads the snapshot from the repository.
// Each refresh takes a generation when it starts. A loaded snapshot is published unless a
// refresh started later has already published its own, in which case it is discarded and
// ErrStaleSnapshot is returned. Failed refreshes never publish, nor do they block older ones.
func (svc *Service) Refresh(ctx context.Context) (SnapshotInfo, error) {
	gen := atomic.AddUint64(&svc.started, 1)

	snap, err := svc.repo.LoadSnapshot(ctx)
	if err != nil {
		return SnapshotInfo{}, errors.Wrap(err, "loading snapshot")
	}
	if snap.LoadedAt.IsZero() {
		snap.LoadedAt = svc.nowFunc().UTC()
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if gen < svc.gen {
		return SnapshotInfo{}, ErrStaleSnapshot
	}
	svc.snap = &snap
	svc.gen = gen
	return newSnapshotInfo(gen, snap), nil
}

func (svc *Service) current() (*Snapshot, uint64, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	if svc.snap == nil {
		return nil, 0, ErrNoSnapshot
	}
	return svc.snap, svc.gen, nil
}

func (svc *Service) Info() (SnapshotInfo, error) {
	snap, gen, err := svc.current()
	if err != nil {
		return SnapshotInfo{}, err
	}
	return newSnapshotInfo(gen, *snap), nil
}

// Snapshot returns the current snapshot. Callers must not modify it.
func (svc *Service) Snapshot() (Snapshot, error) {
	snap, _, err := svc.current()
	if err != nil {
		return Snapshot{}, err
	}
	return *snap, nil
}

func (svc *Service) Catalog(classID string) ([]Assessment, error) {
	snap, _, err := svc.current()
	if err != nil {
		return nil, err
	}
	return Catalog(*snap, classID), nil
}

func (svc *Service) Report(kind ReportKind, filter Filter) (Report, error) {
	snap, _, err := svc.current()
	if err != nil {
		return Report{}, err
	}
	return Select(*snap, kind, filter)
}

func newSnapshotInfo(gen uint64, snap Snapshot) SnapshotInfo {
	return SnapshotInfo{
		Generation: gen,
		LoadedAt:   snap.LoadedAt,
		Tests:      len(snap.Tests),
		Exams:      len(snap.Exams),
		TestMarks:  len(snap.TestMarks),
		ExamMarks:  len(snap.ExamMarks),
		Students:   len(snap.Students),
	}
}
