// internal/api/job/store_test.go
package job

import (
	"testing"
	"time"
)

func TestStore_CreateAndGet(t *testing.T) {
	store := NewStore(100, time.Hour)

	job := store.Create("backtest")
	if job.ID == "" {
		t.Error("expected job ID")
	}
	if job.Status != StatusPending {
		t.Errorf("expected pending, got %s", job.Status)
	}

	retrieved, err := store.Get(job.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if retrieved.ID != job.ID {
		t.Error("IDs don't match")
	}
}

func TestStore_Update(t *testing.T) {
	store := NewStore(100, time.Hour)
	job := store.Create("backtest")

	err := store.Update(job.ID, func(j *Job) {
		j.Status = StatusRunning
		j.Progress = 50
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	retrieved, _ := store.Get(job.ID)
	if retrieved.Status != StatusRunning {
		t.Errorf("expected running, got %s", retrieved.Status)
	}
	if retrieved.Progress != 50 {
		t.Errorf("expected 50, got %d", retrieved.Progress)
	}
}

func TestStore_MaxSize(t *testing.T) {
	store := NewStore(2, time.Hour)

	job1 := store.Create("backtest")
	store.Create("backtest")
	store.Create("backtest") // Should evict job1

	_, err := store.Get(job1.ID)
	if err == nil {
		t.Error("expected job1 to be evicted")
	}
}

func TestStore_NotFound(t *testing.T) {
	store := NewStore(100, time.Hour)

	_, err := store.Get("nonexistent")
	if err == nil {
		t.Error("expected error for nonexistent job")
	}
}

func TestStore_Expiry(t *testing.T) {
	store := NewStore(100, time.Nanosecond)
	job := store.Create("backtest")

	time.Sleep(time.Millisecond)

	if _, err := store.Get(job.ID); err == nil {
		t.Error("expected expired job to be gone")
	}
}

type fakeGauge struct {
	counts map[string]int
}

func (g *fakeGauge) SetJobsActive(jobType string, count int) {
	g.counts[jobType] = count
}

func TestStore_ActiveGauge(t *testing.T) {
	gauge := &fakeGauge{counts: make(map[string]int)}
	store := NewStore(100, time.Hour).WithMetrics(gauge)

	job := store.Create("backtest")
	if gauge.counts["backtest"] != 1 {
		t.Errorf("expected 1 active after create, got %d", gauge.counts["backtest"])
	}

	store.Update(job.ID, func(j *Job) { j.Status = StatusRunning })
	if gauge.counts["backtest"] != 1 {
		t.Errorf("running jobs are still active, got %d", gauge.counts["backtest"])
	}

	store.Update(job.ID, func(j *Job) { j.Status = StatusComplete })
	if gauge.counts["backtest"] != 0 {
		t.Errorf("expected 0 active after completion, got %d", gauge.counts["backtest"])
	}
}

func TestStore_ActiveGauge_Eviction(t *testing.T) {
	gauge := &fakeGauge{counts: make(map[string]int)}
	store := NewStore(1, time.Hour).WithMetrics(gauge)

	store.Create("backtest")
	store.Create("backtest") // evicts the first, still pending

	if gauge.counts["backtest"] != 1 {
		t.Errorf("evicted pending job must leave the gauge, got %d", gauge.counts["backtest"])
	}
}

func TestStore_List(t *testing.T) {
	store := NewStore(100, time.Hour)
	store.Create("backtest")
	store.Create("report")

	jobs := store.List()
	if len(jobs) != 2 {
		t.Errorf("expected 2 jobs, got %d", len(jobs))
	}
}
