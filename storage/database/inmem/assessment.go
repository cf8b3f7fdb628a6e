package inmemdb

import (
	"context"
	"sync"
	"time"

	"github.com/trezcool/masomo-reports/core/assessment"
)

// AssessmentRepository serves a snapshot kept in memory.
type AssessmentRepository struct {
	mutex sync.RWMutex
	snap  assessment.Snapshot
	err   error
	loads int
}

var _ assessment.Repository = (*AssessmentRepository)(nil) // interface compliance check

func NewAssessmentRepository(snap assessment.Snapshot) *AssessmentRepository {
	return &AssessmentRepository{snap: snap}
}

// Set replaces the data returned by the next loads.
func (repo *AssessmentRepository) Set(snap assessment.Snapshot) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()
	repo.snap = snap
}

// Fail makes the next loads return err; nil restores normal behaviour.
func (repo *AssessmentRepository) Fail(err error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()
	repo.err = err
}

// Loads tells how many times the snapshot was loaded.
func (repo *AssessmentRepository) Loads() int {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()
	return repo.loads
}

func (repo *AssessmentRepository) LoadSnapshot(ctx context.Context) (assessment.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return assessment.Snapshot{}, err
	}

	repo.mutex.Lock()
	defer repo.mutex.Unlock()
	repo.loads++
	if repo.err != nil {
		return assessment.Snapshot{}, repo.err
	}

	snap := repo.snap
	snap.LoadedAt = time.Now().UTC()
	return snap, nil
}
