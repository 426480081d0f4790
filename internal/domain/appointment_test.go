package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentStatus_IsTerminal(t *testing.T) {
	terminal := []AppointmentStatus{StatusCompleted, StatusCancelled, StatusCanceled, StatusRejected}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), s)
	}

	active := []AppointmentStatus{StatusScheduled, StatusAccepted, StatusRepairing, StatusTesting}
	for _, s := range active {
		assert.False(t, s.IsTerminal(), s)
	}
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusScheduled, StatusAccepted))
	assert.True(t, CanTransition(StatusScheduled, StatusRejected))
	assert.True(t, CanTransition(StatusAccepted, StatusRepairing))
	assert.True(t, CanTransition(StatusRepairing, StatusTesting))
	assert.True(t, CanTransition(StatusTesting, StatusCompleted))

	assert.False(t, CanTransition(StatusScheduled, StatusCompleted))
	assert.False(t, CanTransition(StatusCompleted, StatusScheduled))
	assert.False(t, CanTransition(StatusRejected, StatusAccepted))
}

func TestStatusFor_Scheduled(t *testing.T) {
	s := StatusFor(StatusScheduled)
	assert.Equal(t, StatusScheduled, s.Global)
	assert.Equal(t, "Waiting for technician to accept", s.UserView)
	assert.Equal(t, "Request pending", s.TechnicianView)
}

func TestAppointment_AwaitsFeedback(t *testing.T) {
	a := &Appointment{Status: StatusFor(StatusCompleted)}
	assert.True(t, a.AwaitsFeedback())

	a.Rated = true
	assert.False(t, a.AwaitsFeedback())

	a.Rated = false
	a.HiddenFromUser = true
	assert.False(t, a.AwaitsFeedback())
}

func TestCancellationReason(t *testing.T) {
	assert.True(t, ReasonScheduleConflict.IsValid())
	assert.False(t, CancellationReason("Too expensive").IsValid())

	assert.Equal(t, "Schedule conflict", ReasonScheduleConflict.Describe("ignored"))
	assert.Equal(t, "Moving abroad", ReasonOthers.Describe("  Moving abroad "))
}

func TestCancelDeadlineFor(t *testing.T) {
	scheduled := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 4, 7, 35, 0, 0, time.UTC), CancelDeadlineFor(scheduled))
}
