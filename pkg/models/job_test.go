package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobStatusValid(t *testing.T) {
	for _, s := range []JobStatus{JobStatusPending, JobStatusAssigned, JobStatusInTransit, JobStatusDelivered, JobStatusCancelled} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, JobStatus("").Valid())
	assert.False(t, JobStatus("done").Valid())
}

func TestJobPriorityValid(t *testing.T) {
	for _, p := range []JobPriority{JobPriorityLow, JobPriorityMedium, JobPriorityHigh} {
		assert.True(t, p.Valid(), string(p))
	}
	assert.False(t, JobPriority("urgent").Valid())
}

func TestAssignmentStatusValid(t *testing.T) {
	assert.True(t, AssignmentStatusActive.Valid())
	assert.True(t, AssignmentStatusCompleted.Valid())
	assert.False(t, AssignmentStatus("paused").Valid())
}
