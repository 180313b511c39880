package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hotshotlogistics/dispatch/internal/api/response"
	"github.com/hotshotlogistics/dispatch/internal/store"
	"github.com/hotshotlogistics/dispatch/pkg/models"
)

// JobService defines the interface the job handlers depend on.
type JobService interface {
	CreateJob(ctx context.Context, j *models.Job) (*models.Job, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)
	ListJobs(ctx context.Context, filter store.JobFilter) ([]*models.Job, error)
	UpdateJob(ctx context.Context, id string, j *models.Job) (*models.Job, error)
	UpdateJobStatus(ctx context.Context, id string, status models.JobStatus) (*models.Job, error)
	DeleteJob(ctx context.Context, id string) (bool, error)
}

// JobHandler serves the /jobs endpoints.
type JobHandler struct {
	svc JobService
}

func NewJobHandler(svc JobService) *JobHandler {
	return &JobHandler{svc: svc}
}

type jobRequest struct {
	ID                    string             `json:"id,omitempty"`
	Title                 string             `json:"title"`
	PickupAddress         string             `json:"pickup_address"`
	DropoffAddress        string             `json:"dropoff_address"`
	Status                models.JobStatus   `json:"status,omitempty"`
	Priority              models.JobPriority `json:"priority,omitempty"`
	AmountCents           int64              `json:"amount_cents"`
	EstimatedDeliveryTime string             `json:"estimated_delivery_time"`
}

func (req jobRequest) toModel() *models.Job {
	return &models.Job{
		ID:                    req.ID,
		Title:                 req.Title,
		PickupAddress:         req.PickupAddress,
		DropoffAddress:        req.DropoffAddress,
		Status:                req.Status,
		Priority:              req.Priority,
		AmountCents:           req.AmountCents,
		EstimatedDeliveryTime: req.EstimatedDeliveryTime,
	}
}

// Create handles POST /jobs.
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
		return
	}

	job, err := h.svc.CreateJob(r.Context(), req.toModel())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Created(w, job)
}

// Get handles GET /jobs/{id}.
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	job, err := h.svc.GetJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, job)
}

// List handles GET /jobs with an optional ?status= filter.
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.JobFilter{Status: models.JobStatus(r.URL.Query().Get("status"))}

	jobs, err := h.svc.ListJobs(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, emptyToSlice(jobs))
}

// Update handles PUT /jobs/{id}.
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
		return
	}

	job, err := h.svc.UpdateJob(r.Context(), chi.URLParam(r, "id"), req.toModel())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, job)
}

// UpdateStatus handles PUT /jobs/{id}/status.
func (h *JobHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status models.JobStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
		return
	}

	job, err := h.svc.UpdateJobStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, job)
}

// Delete handles DELETE /jobs/{id}.
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.svc.DeleteJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !deleted {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Job not found", nil)
		return
	}
	response.NoContent(w)
}
