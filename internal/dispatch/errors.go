package dispatch

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned before any repository call when an input is
// malformed: empty ids, non-positive driver ids, unknown statuses.
var ErrInvalidArgument = errors.New("invalid argument")

var ErrJobNotFound = errors.New("job not found")
var ErrDriverNotFound = errors.New("driver not found")
var ErrAssignmentNotFound = errors.New("assignment not found")

// ConflictError is returned when a job already has an active assignment.
// DriverID names the driver holding the incumbent assignment.
type ConflictError struct {
	JobID    string
	DriverID int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("job %s is already assigned to driver %d", e.JobID, e.DriverID)
}
