// Package dispatch holds the freight dispatch services: assigning jobs to
// drivers, the single-active-assignment invariant, and the thin CRUD wrappers
// for jobs and drivers.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotshotlogistics/dispatch/internal/cache"
	"github.com/hotshotlogistics/dispatch/internal/store"
	"github.com/hotshotlogistics/dispatch/pkg/models"
)

// AssignmentService orchestrates the assignment workflow. It validates inputs,
// checks that the job and driver exist, and enforces at most one active
// assignment per job.
//
// Correctness under concurrent AssignJob calls does not depend on the
// read-then-insert sequence here: the store's partial unique index rejects a
// duplicate active assignment, and that rejection is translated back into the
// same ConflictError the pre-check produces.
type AssignmentService struct {
	assignments store.AssignmentStore
	jobs        store.JobStore
	drivers     store.DriverStore
	cache       cache.Cache
	cacheTTL    time.Duration
}

// NewAssignmentService creates an AssignmentService. cache may be nil, in
// which case all reads go straight to the store.
func NewAssignmentService(assignments store.AssignmentStore, jobs store.JobStore, drivers store.DriverStore, c cache.Cache, cacheTTL time.Duration) *AssignmentService {
	return &AssignmentService{
		assignments: assignments,
		jobs:        jobs,
		drivers:     drivers,
		cache:       c,
		cacheTTL:    cacheTTL,
	}
}

// AssignJob binds driverID to jobID with a new active assignment.
func (s *AssignmentService) AssignJob(ctx context.Context, jobID string, driverID int) (*models.JobAssignment, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, fmt.Errorf("%w: job id cannot be empty", ErrInvalidArgument)
	}
	if driverID <= 0 {
		return nil, fmt.Errorf("%w: driver id must be greater than zero", ErrInvalidArgument)
	}

	if _, err := s.jobs.GetJob(ctx, jobID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
		}
		return nil, err
	}

	if _, err := s.drivers.GetDriver(ctx, driverID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrDriverNotFound, driverID)
		}
		return nil, err
	}

	// Pre-check for a friendly conflict naming the incumbent driver. The
	// store's unique index is what actually holds under concurrency.
	if conflict, err := s.activeConflict(ctx, jobID); err != nil {
		return nil, err
	} else if conflict != nil {
		return nil, conflict
	}

	assignment := &models.JobAssignment{
		ID:         uuid.NewString(),
		JobID:      jobID,
		DriverID:   driverID,
		AssignedAt: time.Now().UTC(),
		Status:     models.AssignmentStatusActive,
	}

	if err := s.assignments.CreateAssignment(ctx, assignment); err != nil {
		if errors.Is(err, store.ErrActiveAssignmentExists) {
			// Lost the race; report whoever won it.
			if conflict, cerr := s.activeConflict(ctx, jobID); cerr == nil && conflict != nil {
				return nil, conflict
			}
			return nil, &ConflictError{JobID: jobID}
		}
		return nil, err
	}

	s.invalidate(ctx, jobID)

	return s.assignments.GetAssignment(ctx, assignment.ID)
}

// UpdateAssignmentStatus transitions an assignment. Active → Completed is the
// only real transition; repeating the current status is an idempotent no-op,
// and reactivating a completed assignment is rejected.
func (s *AssignmentService) UpdateAssignmentStatus(ctx context.Context, id string, status models.AssignmentStatus) (*models.JobAssignment, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: assignment id cannot be empty", ErrInvalidArgument)
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown assignment status %q", ErrInvalidArgument, status)
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.Status == status {
		return existing, nil
	}
	if existing.Status == models.AssignmentStatusCompleted {
		return nil, fmt.Errorf("%w: completed assignment %s cannot be reactivated", ErrInvalidArgument, id)
	}

	updated, err := s.assignments.UpdateAssignmentStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAssignmentNotFound, id)
		}
		return nil, err
	}

	s.invalidate(ctx, updated.JobID)
	return updated, nil
}

// UnassignJob deletes the assignment. Returns false when the id is unknown.
func (s *AssignmentService) UnassignJob(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, fmt.Errorf("%w: assignment id cannot be empty", ErrInvalidArgument)
	}

	existing, err := s.assignments.GetAssignment(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	deleted, err := s.assignments.DeleteAssignment(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.invalidate(ctx, existing.JobID)
	}
	return deleted, nil
}

// GetByID fetches one assignment with its driver and job snapshots.
func (s *AssignmentService) GetByID(ctx context.Context, id string) (*models.JobAssignment, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: assignment id cannot be empty", ErrInvalidArgument)
	}
	a, err := s.assignments.GetAssignment(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAssignmentNotFound, id)
	}
	return a, err
}

// GetAll lists every assignment, historical ones included.
func (s *AssignmentService) GetAll(ctx context.Context) ([]*models.JobAssignment, error) {
	return s.assignments.ListAssignments(ctx)
}

// GetByDriverID lists all assignments ever made to a driver.
func (s *AssignmentService) GetByDriverID(ctx context.Context, driverID int) ([]*models.JobAssignment, error) {
	if driverID <= 0 {
		return nil, fmt.Errorf("%w: driver id must be greater than zero", ErrInvalidArgument)
	}
	return s.assignments.ListAssignmentsByDriver(ctx, driverID)
}

// GetByJobID lists all assignments ever made for a job.
func (s *AssignmentService) GetByJobID(ctx context.Context, jobID string) ([]*models.JobAssignment, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, fmt.Errorf("%w: job id cannot be empty", ErrInvalidArgument)
	}
	return s.assignments.ListAssignmentsByJob(ctx, jobID)
}

// GetActiveAssignments lists current active assignments, serving from the
// cache when possible. Cache failures fall through to the store.
func (s *AssignmentService) GetActiveAssignments(ctx context.Context) ([]*models.JobAssignment, error) {
	if s.cache != nil {
		if raw, ok, err := s.cache.Get(ctx, cache.ActiveAssignmentsKey()); err == nil && ok {
			var cached []*models.JobAssignment
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	assignments, err := s.assignments.ListActiveAssignments(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(assignments); err == nil {
			if err := s.cache.Set(ctx, cache.ActiveAssignmentsKey(), raw, s.cacheTTL); err != nil {
				slog.Debug("cache active assignments", "error", err)
			}
		}
	}
	return assignments, nil
}

// activeConflict returns a ConflictError if jobID currently has an active
// assignment, nil otherwise.
func (s *AssignmentService) activeConflict(ctx context.Context, jobID string) (*ConflictError, error) {
	existing, err := s.assignments.ListAssignmentsByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	for _, a := range existing {
		if a.Status == models.AssignmentStatusActive {
			return &ConflictError{JobID: jobID, DriverID: a.DriverID}, nil
		}
	}
	return nil, nil
}

// invalidate drops cache entries touched by an assignment write.
func (s *AssignmentService) invalidate(ctx context.Context, jobID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.ActiveAssignmentsKey(), cache.JobKey(jobID)); err != nil {
		slog.Debug("cache invalidate", "job_id", jobID, "error", err)
	}
}
