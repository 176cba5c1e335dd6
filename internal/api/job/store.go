// internal/api/job/store.go
package job

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quantfolio/quantfolio/internal/core"
)

// Status represents job status.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// Job represents an async job.
type Job struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Status    Status      `json:"status"`
	Progress  int         `json:"progress"`
	Result    any         `json:"result,omitempty"`
	Error     *core.Error `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Gauge receives the number of pending or running jobs per type. The
// prometheus registry in internal/metrics implements it.
type Gauge interface {
	SetJobsActive(jobType string, count int)
}

// Store manages async jobs.
type Store struct {
	jobs    map[string]*Job
	order   []string // Track insertion order for eviction
	active  map[string]int
	maxSize int
	ttl     time.Duration
	gauge   Gauge
	mu      sync.RWMutex
}

// NewStore creates a new job store.
func NewStore(maxSize int, ttl time.Duration) *Store {
	return &Store{
		jobs:    make(map[string]*Job),
		order:   make([]string, 0, maxSize),
		active:  make(map[string]int),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// WithMetrics attaches a gauge tracking active jobs per type.
func (s *Store) WithMetrics(g Gauge) *Store {
	s.gauge = g
	return s
}

func isActive(status Status) bool {
	return status == StatusPending || status == StatusRunning
}

// publish pushes the active count for one job type to the gauge.
// Callers must hold the lock.
func (s *Store) publish(jobType string) {
	if s.gauge != nil {
		s.gauge.SetJobsActive(jobType, s.active[jobType])
	}
}

// Create creates a new job and returns it.
func (s *Store) Create(jobType string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	job := &Job{
		ID:        uuid.NewString(),
		Type:      jobType,
		Status:    StatusPending,
		Progress:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Evict oldest if at capacity
	if len(s.jobs) >= s.maxSize && len(s.order) > 0 {
		oldest := s.order[0]
		if evicted, ok := s.jobs[oldest]; ok && isActive(evicted.Status) {
			s.active[evicted.Type]--
			s.publish(evicted.Type)
		}
		delete(s.jobs, oldest)
		s.order = s.order[1:]
	}

	s.jobs[job.ID] = job
	s.order = append(s.order, job.ID)
	s.active[job.Type]++
	s.publish(job.Type)

	return job
}

// Get retrieves a job by ID.
func (s *Store) Get(id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, core.ErrJobNotFound
	}

	// Expired jobs are gone even if not yet evicted.
	if s.ttl > 0 && time.Since(job.UpdatedAt) > s.ttl {
		return nil, core.ErrJobNotFound
	}

	// Return copy to prevent race conditions
	jobCopy := *job
	return &jobCopy, nil
}

// Update modifies a job using an update function.
func (s *Store) Update(id string, fn func(*Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return core.ErrJobNotFound
	}

	wasActive := isActive(job.Status)
	fn(job)
	job.UpdatedAt = time.Now()

	if nowActive := isActive(job.Status); nowActive != wasActive {
		if nowActive {
			s.active[job.Type]++
		} else {
			s.active[job.Type]--
		}
		s.publish(job.Type)
	}
	return nil
}

// List returns all jobs.
func (s *Store) List() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		result = append(result, *job)
	}
	return result
}
