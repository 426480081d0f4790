package domain

import (
	"strings"
	"time"
)

// AppointmentStatus global lifecycle status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "Scheduled"
	StatusAccepted  AppointmentStatus = "Accepted"
	StatusRepairing AppointmentStatus = "Repairing"
	StatusTesting   AppointmentStatus = "Testing"
	StatusCompleted AppointmentStatus = "Completed"
	StatusRejected  AppointmentStatus = "Rejected"
	StatusCancelled AppointmentStatus = "Cancelled"
	// StatusCanceled старое написание, встречается в исторических записях
	StatusCanceled AppointmentStatus = "Canceled"
)

// ServiceType how the repair is delivered
type ServiceType string

const (
	ServiceWalkIn      ServiceType = "walk-in"
	ServiceHomeService ServiceType = "home-service"
)

// IsValid returns true for a known service type
func (s ServiceType) IsValid() bool {
	return s == ServiceWalkIn || s == ServiceHomeService
}

// CancelledBy who cancelled the appointment
type CancelledBy string

const (
	CancelledByUser       CancelledBy = "user"
	CancelledByTechnician CancelledBy = "technician"
)

// Status tri-part appointment status: global enum plus free-text views per side
type Status struct {
	Global         AppointmentStatus
	UserView       string
	TechnicianView string
}

// Diagnosis snapshot copied into the appointment at creation time.
// Later edits of the diagnosis never change a booked appointment.
type Diagnosis struct {
	Category      string
	Brand         string
	Model         string
	Issue         string
	DiagnosisText string
	EstimatedCost float64
	IsCustomIssue bool
}

// Appointment a booked repair
type Appointment struct {
	ID            int64
	UserID        int64
	TechnicianID  int64
	ServiceType   ServiceType
	ScheduledDate time.Time
	Status        Status

	// CancelDeadline = ScheduledDate - 2h25m, информационное поле для стороны техника
	CancelDeadline time.Time

	Diagnosis Diagnosis

	CancellationReason *string
	CancelledBy        *CancelledBy
	CancelledAt        *time.Time
	RejectionReason    *string

	Rated      bool
	UserRating *int

	// HiddenFromUser запись скрыта из активного представления пользователя
	// (после "записаться снова" или закрытия запроса на отзыв), но не удалена
	HiddenFromUser bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true for Completed, Cancelled/Canceled and Rejected
func (a *Appointment) IsTerminal() bool {
	return a.Status.Global.IsTerminal()
}

// IsActive returns true if the appointment blocks a new booking for the user
func (a *Appointment) IsActive() bool {
	return !a.IsTerminal()
}

// CanBeCancelled returns true if the user may still cancel the appointment
func (a *Appointment) CanBeCancelled() bool {
	return a.Status.Global == StatusScheduled || a.Status.Global == StatusAccepted
}

// IsRejected returns true if the technician declined the appointment
func (a *Appointment) IsRejected() bool {
	return a.Status.Global == StatusRejected
}

// AwaitsFeedback returns true for a completed, unrated appointment still visible to the user
func (a *Appointment) AwaitsFeedback() bool {
	return a.Status.Global == StatusCompleted && !a.Rated && !a.HiddenFromUser
}

// IsTerminal returns true if no further lifecycle transition is expected
func (s AppointmentStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusCanceled, StatusRejected:
		return true
	default:
		return false
	}
}

// IsCancelled returns true for both spellings of the cancelled status
func (s AppointmentStatus) IsCancelled() bool {
	return s == StatusCancelled || s == StatusCanceled
}

// IsKnown returns true for statuses of the lifecycle graph
func (s AppointmentStatus) IsKnown() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return s == StatusCanceled
}

// transitions technician-driven lifecycle edges
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusScheduled: {StatusAccepted, StatusRejected},
	StatusAccepted:  {StatusRepairing, StatusRejected},
	StatusRepairing: {StatusTesting},
	StatusTesting:   {StatusCompleted},
}

// CanTransition returns true if a technician may move an appointment from one status to another
func CanTransition(from, to AppointmentStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// StatusFor builds the tri-part status with the standard view texts
func StatusFor(global AppointmentStatus) Status {
	views, ok := statusViews[global]
	if !ok {
		return Status{Global: global, UserView: string(global), TechnicianView: string(global)}
	}
	return Status{Global: global, UserView: views[0], TechnicianView: views[1]}
}

// CancellationReason fixed set of reasons a user may pick when cancelling
type CancellationReason string

const (
	ReasonDeviceFixed      CancellationReason = "Device is already fixed"
	ReasonScheduleConflict CancellationReason = "Schedule conflict"
	ReasonBetterTechnician CancellationReason = "Found a better technician"
	ReasonChangedMind      CancellationReason = "Changed my mind"
	ReasonOthers           CancellationReason = "Others"
)

// CancellationReasons all accepted reasons in display order
var CancellationReasons = []CancellationReason{
	ReasonDeviceFixed,
	ReasonScheduleConflict,
	ReasonBetterTechnician,
	ReasonChangedMind,
	ReasonOthers,
}

// IsValid returns true if the reason belongs to the fixed set
func (r CancellationReason) IsValid() bool {
	for _, known := range CancellationReasons {
		if r == known {
			return true
		}
	}
	return false
}

// Describe returns the human-readable reason, substituting the custom text for Others
func (r CancellationReason) Describe(customText string) string {
	if r == ReasonOthers {
		return strings.TrimSpace(customText)
	}
	return string(r)
}

// BookingDraft data restored into the booking form after cancellation or rejection
type BookingDraft struct {
	Diagnosis     Diagnosis
	ScheduledDate time.Time
	ServiceType   ServiceType
	// DeclinedByTechnicianID техник, отклонивший предыдущую запись (для предупреждения)
	DeclinedByTechnicianID *int64
}

// DraftFrom copies the re-bookable part of an appointment
func DraftFrom(a *Appointment) BookingDraft {
	return BookingDraft{
		Diagnosis:     a.Diagnosis,
		ScheduledDate: a.ScheduledDate,
		ServiceType:   a.ServiceType,
	}
}

// CancelDeadlineFor computes the advisory cancel deadline for a scheduled date
func CancelDeadlineFor(scheduled time.Time) time.Time {
	return scheduled.Add(-CancelDeadlineOffset)
}

// UserAppointmentsFilter фильтр записей пользователя
type UserAppointmentsFilter struct {
	UserID        int64               // Обязательный параметр
	Statuses      []AppointmentStatus // Фильтр по статусам (опционально, пусто - все)
	ExcludeStatus []AppointmentStatus // Исключить статусы (опционально)
	TechnicianID  *int64              // Фильтр по технику (опционально)
	IncludeHidden bool                // Включать ли скрытые из активного представления записи
}
