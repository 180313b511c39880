// Package handler contains the HTTP handlers for the dispatch API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hotshotlogistics/dispatch/internal/api/response"
	"github.com/hotshotlogistics/dispatch/internal/dispatch"
	"github.com/hotshotlogistics/dispatch/pkg/models"
)

// AssignmentService defines the interface the assignment handlers depend on.
type AssignmentService interface {
	AssignJob(ctx context.Context, jobID string, driverID int) (*models.JobAssignment, error)
	UpdateAssignmentStatus(ctx context.Context, id string, status models.AssignmentStatus) (*models.JobAssignment, error)
	UnassignJob(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.JobAssignment, error)
	GetAll(ctx context.Context) ([]*models.JobAssignment, error)
	GetByDriverID(ctx context.Context, driverID int) ([]*models.JobAssignment, error)
	GetByJobID(ctx context.Context, jobID string) ([]*models.JobAssignment, error)
	GetActiveAssignments(ctx context.Context) ([]*models.JobAssignment, error)
}

// AssignmentHandler serves the /jobassignments endpoints.
type AssignmentHandler struct {
	svc AssignmentService
}

func NewAssignmentHandler(svc AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{svc: svc}
}

// GetByID handles GET /jobassignments/{id}.
func (h *AssignmentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	assignment, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, assignment)
}

// List handles GET /jobassignments.
func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.svc.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, emptyToSlice(assignments))
}

// ListByDriver handles GET /jobassignments/driver/{driverId}.
func (h *AssignmentHandler) ListByDriver(w http.ResponseWriter, r *http.Request) {
	driverID, err := strconv.Atoi(chi.URLParam(r, "driverId"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "driver id must be an integer", nil)
		return
	}

	assignments, err := h.svc.GetByDriverID(r.Context(), driverID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, emptyToSlice(assignments))
}

// ListByJob handles GET /jobassignments/job/{jobId}.
func (h *AssignmentHandler) ListByJob(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.svc.GetByJobID(r.Context(), chi.URLParam(r, "jobId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, emptyToSlice(assignments))
}

// ListActive handles GET /jobassignments/active.
func (h *AssignmentHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.svc.GetActiveAssignments(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, emptyToSlice(assignments))
}

// Assign handles POST /jobassignments.
func (h *AssignmentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JobID    string `json:"job_id"`
		DriverID int    `json:"driver_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
		return
	}

	assignment, err := h.svc.AssignJob(r.Context(), req.JobID, req.DriverID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Created(w, assignment)
}

// UpdateStatus handles PUT /jobassignments/{id}/status.
func (h *AssignmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status models.AssignmentStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
		return
	}

	assignment, err := h.svc.UpdateAssignmentStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.JSON(w, assignment)
}

// Unassign handles DELETE /jobassignments/{id}.
func (h *AssignmentHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.svc.UnassignJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !deleted {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Assignment not found", nil)
		return
	}
	response.NoContent(w)
}

// writeServiceError maps the dispatch error taxonomy onto HTTP statuses.
// Unexpected errors are logged and return an opaque 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var conflict *dispatch.ConflictError
	switch {
	case errors.As(err, &conflict):
		response.Error(w, http.StatusConflict, "ALREADY_ASSIGNED", conflict.Error(),
			map[string]any{"job_id": conflict.JobID, "driver_id": conflict.DriverID})
	case errors.Is(err, dispatch.ErrInvalidArgument):
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	case errors.Is(err, dispatch.ErrJobNotFound),
		errors.Is(err, dispatch.ErrDriverNotFound),
		errors.Is(err, dispatch.ErrAssignmentNotFound):
		response.Error(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	default:
		slog.Error("request failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", nil)
	}
}

// emptyToSlice keeps list responses as [] instead of null.
func emptyToSlice[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
