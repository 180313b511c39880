package store

import (
	"context"
	"errors"

	"github.com/hotshotlogistics/dispatch/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// ErrActiveAssignmentExists is returned when an insert trips the partial
// unique index guarding one active assignment per job.
var ErrActiveAssignmentExists = errors.New("job already has an active assignment")

// DriverStore is the persistence contract for drivers.
type DriverStore interface {
	CreateDriver(ctx context.Context, d *models.Driver) error
	GetDriver(ctx context.Context, id int) (*models.Driver, error)
	ListDrivers(ctx context.Context) ([]*models.Driver, error)
	UpdateDriver(ctx context.Context, d *models.Driver) error
	DeleteDriver(ctx context.Context, id int) (bool, error)
}

// JobStore is the persistence contract for jobs.
type JobStore interface {
	CreateJob(ctx context.Context, j *models.Job) error
	GetJob(ctx context.Context, id string) (*models.Job, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*models.Job, error)
	UpdateJob(ctx context.Context, j *models.Job) error
	DeleteJob(ctx context.Context, id string) (bool, error)
}

// AssignmentStore is the persistence contract for job assignments.
//
// CreateAssignment and DeleteAssignment also maintain the denormalized
// status/driver columns on the job row, within the same transaction as the
// assignment write.
type AssignmentStore interface {
	GetAssignment(ctx context.Context, id string) (*models.JobAssignment, error)
	ListAssignments(ctx context.Context) ([]*models.JobAssignment, error)
	ListAssignmentsByDriver(ctx context.Context, driverID int) ([]*models.JobAssignment, error)
	ListAssignmentsByJob(ctx context.Context, jobID string) ([]*models.JobAssignment, error)
	ListActiveAssignments(ctx context.Context) ([]*models.JobAssignment, error)

	// CreateAssignment inserts a new assignment and marks the job assigned.
	// Returns ErrActiveAssignmentExists if the job already has an active one.
	CreateAssignment(ctx context.Context, a *models.JobAssignment) error

	// UpdateAssignmentStatus sets the status and returns the updated row.
	UpdateAssignmentStatus(ctx context.Context, id string, status models.AssignmentStatus) (*models.JobAssignment, error)

	// DeleteAssignment removes the assignment, resetting the job to pending if
	// the assignment was active. Returns false when the id is unknown.
	DeleteAssignment(ctx context.Context, id string) (bool, error)
}

// Store is the full data access surface the services depend on.
type Store interface {
	DriverStore
	JobStore
	AssignmentStore
	Ping(ctx context.Context) error
}

// JobFilter narrows ListJobs. Zero value means no filtering.
type JobFilter struct {
	Status models.JobStatus
}
