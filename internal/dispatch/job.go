package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotshotlogistics/dispatch/internal/store"
	"github.com/hotshotlogistics/dispatch/pkg/models"
)

// JobService is a thin CRUD wrapper over the job store.
type JobService struct {
	jobs store.JobStore
}

func NewJobService(jobs store.JobStore) *JobService {
	return &JobService{jobs: jobs}
}

// CreateJob stores a new job, generating an id and stamping CreatedAt when
// the caller supplied none. New jobs default to pending / medium priority.
func (s *JobService) CreateJob(ctx context.Context, j *models.Job) (*models.Job, error) {
	if j == nil {
		return nil, fmt.Errorf("%w: job cannot be nil", ErrInvalidArgument)
	}
	if strings.TrimSpace(j.Title) == "" {
		return nil, fmt.Errorf("%w: job title cannot be empty", ErrInvalidArgument)
	}
	if j.AmountCents < 0 {
		return nil, fmt.Errorf("%w: job amount cannot be negative", ErrInvalidArgument)
	}

	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if j.Status == "" {
		j.Status = models.JobStatusPending
	} else if !j.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown job status %q", ErrInvalidArgument, j.Status)
	}
	if j.Priority == "" {
		j.Priority = models.JobPriorityMedium
	} else if !j.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown job priority %q", ErrInvalidArgument, j.Priority)
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now().UTC()
	}

	if err := s.jobs.CreateJob(ctx, j); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: job id %s already exists", ErrInvalidArgument, j.ID)
		}
		return nil, err
	}
	return j, nil
}

func (s *JobService) GetJob(ctx context.Context, id string) (*models.Job, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: job id cannot be empty", ErrInvalidArgument)
	}
	j, err := s.jobs.GetJob(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return j, err
}

func (s *JobService) ListJobs(ctx context.Context, filter store.JobFilter) ([]*models.Job, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown job status %q", ErrInvalidArgument, filter.Status)
	}
	return s.jobs.ListJobs(ctx, filter)
}

// UpdateJob replaces the mutable fields of a job.
func (s *JobService) UpdateJob(ctx context.Context, id string, j *models.Job) (*models.Job, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: job id cannot be empty", ErrInvalidArgument)
	}
	if j == nil {
		return nil, fmt.Errorf("%w: job cannot be nil", ErrInvalidArgument)
	}
	if !j.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown job status %q", ErrInvalidArgument, j.Status)
	}
	if !j.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown job priority %q", ErrInvalidArgument, j.Priority)
	}
	if j.AmountCents < 0 {
		return nil, fmt.Errorf("%w: job amount cannot be negative", ErrInvalidArgument)
	}

	j.ID = id
	if err := s.jobs.UpdateJob(ctx, j); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
		}
		return nil, err
	}
	return s.jobs.GetJob(ctx, id)
}

// UpdateJobStatus moves a job through its lifecycle (in_transit, delivered,
// cancelled). Assignment-driven transitions happen in the assignment store.
func (s *JobService) UpdateJobStatus(ctx context.Context, id string, status models.JobStatus) (*models.Job, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: job id cannot be empty", ErrInvalidArgument)
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown job status %q", ErrInvalidArgument, status)
	}

	j, err := s.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}

	j.Status = status
	if err := s.jobs.UpdateJob(ctx, j); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
		}
		return nil, err
	}
	return s.jobs.GetJob(ctx, id)
}

func (s *JobService) DeleteJob(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, fmt.Errorf("%w: job id cannot be empty", ErrInvalidArgument)
	}
	return s.jobs.DeleteJob(ctx, id)
}
