// internal/api/handler/api/jobs.go
package api

import (
	"net/http"
	"sort"

	"github.com/quantfolio/quantfolio/internal/api/job"
	"github.com/quantfolio/quantfolio/internal/api/response"
)

// JobsHandler serves the job listing.
type JobsHandler struct {
	jobStore *job.Store
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(jobStore *job.Store) *JobsHandler {
	return &JobsHandler{jobStore: jobStore}
}

// List returns all known jobs, newest first.
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs := h.jobStore.List()
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})

	response.JSON(w, http.StatusOK, map[string]any{
		"jobs":  jobs,
		"count": len(jobs),
	})
}
