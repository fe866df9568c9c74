package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// RunState tracks one in-flight analysis so a case is never analyzed twice
// concurrently.
type RunState struct {
	CaseId    uuid.UUID
	StartedAt time.Time
}

type RunRepository struct {
	cache *cache.Cache
}

func NewRunRepository() *RunRepository {
	// Runs are bounded by the pipeline's own timeouts; the 30 minute TTL is
	// a safety net against a crashed goroutine leaving a case locked.
	c := cache.New(30*time.Minute, 5*time.Minute)
	return &RunRepository{
		cache: c,
	}
}

// TryStart marks a case as analyzing. Returns false if a run is already
// in flight for it.
func (r *RunRepository) TryStart(caseId uuid.UUID) bool {
	state := &RunState{CaseId: caseId, StartedAt: time.Now()}
	err := r.cache.Add(caseId.String(), state, cache.DefaultExpiration)
	return err == nil
}

func (r *RunRepository) Get(caseId uuid.UUID) (*RunState, bool) {
	if x, found := r.cache.Get(caseId.String()); found {
		return x.(*RunState), true
	}
	return nil, false
}

func (r *RunRepository) Finish(caseId uuid.UUID) {
	r.cache.Delete(caseId.String())
}
