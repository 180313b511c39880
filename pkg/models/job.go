package models

import "time"

// JobStatus is the lifecycle state of a freight job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusAssigned  JobStatus = "assigned"
	JobStatusInTransit JobStatus = "in_transit"
	JobStatusDelivered JobStatus = "delivered"
	JobStatusCancelled JobStatus = "cancelled"
)

// Valid reports whether s is a known job status.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusAssigned, JobStatusInTransit, JobStatusDelivered, JobStatusCancelled:
		return true
	}
	return false
}

// JobPriority orders jobs for dispatchers; it carries no scheduling logic here.
type JobPriority string

const (
	JobPriorityLow    JobPriority = "low"
	JobPriorityMedium JobPriority = "medium"
	JobPriorityHigh   JobPriority = "high"
)

// Valid reports whether p is a known job priority.
func (p JobPriority) Valid() bool {
	switch p {
	case JobPriorityLow, JobPriorityMedium, JobPriorityHigh:
		return true
	}
	return false
}

// Job is a freight job to be dispatched to a driver. AssignedDriverID and
// Status mirror the job's active assignment; the assignment store keeps both
// in sync within the same transaction as the assignment write.
type Job struct {
	ID                    string      `db:"id"                      json:"id"`
	Title                 string      `db:"title"                   json:"title"`
	PickupAddress         string      `db:"pickup_address"          json:"pickup_address"`
	DropoffAddress        string      `db:"dropoff_address"         json:"dropoff_address"`
	Status                JobStatus   `db:"status"                  json:"status"`
	Priority              JobPriority `db:"priority"                json:"priority"`
	AmountCents           int64       `db:"amount_cents"            json:"amount_cents"`
	EstimatedDeliveryTime string      `db:"estimated_delivery_time" json:"estimated_delivery_time"`
	AssignedDriverID      *int        `db:"assigned_driver_id"      json:"assigned_driver_id,omitempty"`
	CreatedAt             time.Time   `db:"created_at"              json:"created_at"`
	UpdatedAt             *time.Time  `db:"updated_at"              json:"updated_at,omitempty"`
}
