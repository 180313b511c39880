package models

import "time"

// AssignmentStatus is the state of a job assignment. Active is the only
// initial state; Completed is terminal.
type AssignmentStatus string

const (
	AssignmentStatusActive    AssignmentStatus = "active"
	AssignmentStatusCompleted AssignmentStatus = "completed"
)

// Valid reports whether s is a known assignment status.
func (s AssignmentStatus) Valid() bool {
	return s == AssignmentStatusActive || s == AssignmentStatusCompleted
}

// JobAssignment binds a driver to a job. At most one assignment per job may be
// active at a time; the store enforces this with a partial unique index on
// (job_id) WHERE status = 'active'.
//
// Driver and Job are joined snapshots for API convenience and may be nil on
// list queries that skip the join.
type JobAssignment struct {
	ID         string           `db:"id"          json:"id"`
	JobID      string           `db:"job_id"      json:"job_id"`
	DriverID   int              `db:"driver_id"   json:"driver_id"`
	AssignedAt time.Time        `db:"assigned_at" json:"assigned_at"`
	Status     AssignmentStatus `db:"status"      json:"status"`
	UpdatedAt  *time.Time       `db:"updated_at"  json:"updated_at,omitempty"`

	Driver *Driver `db:"-" json:"driver,omitempty"`
	Job    *Job    `db:"-" json:"job,omitempty"`
}
