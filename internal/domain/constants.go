package domain

import "time"

// Matching and scheduling constants
const (
	// AllCategories техник обслуживает любые категории
	AllCategories = "All"

	// EligibilityRadiusKm максимальное расстояние до техника
	EligibilityRadiusKm = 20.0

	// CancelDeadlineOffset за сколько до визита истекает рекомендованный срок отмены
	CancelDeadlineOffset = 2*time.Hour + 25*time.Minute

	// CivilTimezone часовой пояс, в котором интерпретируются дни и часы работы
	CivilTimezone = "Asia/Manila"
)

// Rating constants
const (
	MinRating = 1
	MaxRating = 5
)

// Validation limits
const (
	MaxCancellationTextLength = 500
	MaxRejectionReasonLength  = 500
	MaxRatingCommentLength    = 1000
)

// AllStatuses statuses of the lifecycle graph
var AllStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusAccepted,
	StatusRepairing,
	StatusTesting,
	StatusCompleted,
	StatusRejected,
	StatusCancelled,
}

// TerminalStatuses статусы, не блокирующие новую запись пользователя
var TerminalStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusCancelled,
	StatusCanceled,
	StatusRejected,
}

// statusViews тексты статуса для пользователя и для техника
var statusViews = map[AppointmentStatus][2]string{
	StatusScheduled: {"Waiting for technician to accept", "Request pending"},
	StatusAccepted:  {"Technician accepted your request", "Accepted"},
	StatusRepairing: {"Your device is being repaired", "Repairing"},
	StatusTesting:   {"Your device is being tested", "Testing"},
	StatusCompleted: {"Repair completed", "Completed"},
	StatusRejected:  {"Technician declined your request", "Declined"},
	StatusCancelled: {"You cancelled this appointment", "Cancelled by user"},
}
