package create_appointment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-RepairService/internal/domain"
)

var (
	// ErrInvalidSchedule возвращается, когда время визита не в будущем
	ErrInvalidSchedule = errors.New("create_appointment: scheduled date must be in the future")

	// ErrDayUnavailable возвращается, когда техник не работает в этот день недели
	ErrDayUnavailable = errors.New("create_appointment: technician does not work on this day")

	// ErrTimeUnavailable возвращается, когда время вне рабочих часов техника
	ErrTimeUnavailable = errors.New("create_appointment: time is outside technician working hours")

	// ErrDuplicateActiveAppointment возвращается, когда у пользователя уже есть активная запись
	ErrDuplicateActiveAppointment = errors.New("create_appointment: user already has an active appointment")

	// ErrPendingFeedback возвращается, когда завершённая запись пользователя ещё не оценена
	ErrPendingFeedback = errors.New("create_appointment: completed appointment awaits feedback")

	// ErrTechnicianNotFound возвращается, когда техник не найден
	ErrTechnicianNotFound = errors.New("create_appointment: technician not found")

	// ErrTechnicianUnavailable возвращается, когда техник не одобрен или ограничен
	ErrTechnicianUnavailable = errors.New("create_appointment: technician is not accepting appointments")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)

// AvailabilityError отказ по графику техника вместе с описанием графика для показа
// errors.Is(err, ErrDayUnavailable) / errors.Is(err, ErrTimeUnavailable)
type AvailabilityError struct {
	Reason  error
	Summary domain.AvailabilitySummary
}

func (e *AvailabilityError) Error() string {
	days := strings.Join(e.Summary.WorkingDays, ", ")
	if days == "" {
		days = "not set"
	}
	hours := e.Summary.WorkingHours
	if hours == "" {
		hours = "not set"
	}
	return fmt.Sprintf("%v (working days: %s; working hours: %s)", e.Reason, days, hours)
}

func (e *AvailabilityError) Unwrap() error {
	return e.Reason
}
