// internal/api/handler/api/report.go
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/quantfolio/quantfolio/internal/api/job"
	"github.com/quantfolio/quantfolio/internal/api/response"
	"github.com/quantfolio/quantfolio/internal/core"
	"github.com/quantfolio/quantfolio/internal/metrics"
	"github.com/quantfolio/quantfolio/internal/report"
)

const reportTimeout = 5 * time.Minute

// ReportHandler triggers daily report generation.
type ReportHandler struct {
	jobStore  *job.Store
	generator *report.Generator
	config    report.Config
	metrics   *metrics.Registry
}

// NewReportHandler creates a new report handler.
func NewReportHandler(jobStore *job.Store, generator *report.Generator, cfg report.Config, reg *metrics.Registry) *ReportHandler {
	return &ReportHandler{
		jobStore:  jobStore,
		generator: generator,
		config:    cfg,
		metrics:   reg,
	}
}

// Trigger generates and archives the standing report in the background.
func (h *ReportHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	j := h.jobStore.Create("report")
	jobID := j.ID
	status := j.Status

	go h.runReport(jobID)

	response.JSON(w, http.StatusAccepted, map[string]any{
		"job_id": jobID,
		"status": status,
	})
}

func (h *ReportHandler) runReport(jobID string) {
	h.jobStore.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusRunning
	})

	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	rep, err := h.generator.Generate(ctx, h.config)
	if err == nil {
		err = h.generator.Store(ctx, rep)
	}

	if err != nil {
		h.jobStore.Update(jobID, func(j *job.Job) {
			j.Status = job.StatusFailed
			j.Error = core.WrapError(core.ErrProviderFailed, err)
		})
		return
	}

	if h.metrics != nil {
		h.metrics.RecordReport()
	}
	h.jobStore.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusComplete
		j.Progress = 100
		j.Result = rep
	})
}
