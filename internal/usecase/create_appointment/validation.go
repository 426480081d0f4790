package create_appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-RepairService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.TechnicianID <= 0 {
		return fmt.Errorf("%w: technicianID must be positive", ErrInvalidInput)
	}

	if req.ScheduledDate.IsZero() {
		return fmt.Errorf("%w: scheduledDate is required", ErrInvalidInput)
	}

	if !req.ServiceType.IsValid() {
		return fmt.Errorf("%w: unknown serviceType %q", ErrInvalidInput, req.ServiceType)
	}

	if strings.TrimSpace(req.Diagnosis.Category) == "" {
		return fmt.Errorf("%w: diagnosis category is required", ErrInvalidInput)
	}

	if req.Diagnosis.EstimatedCost < 0 {
		return fmt.Errorf("%w: estimatedCost must not be negative", ErrInvalidInput)
	}

	return nil
}

// validateSchedule время визита должно быть строго в будущем
func validateSchedule(scheduled, now time.Time) error {
	if !scheduled.After(now) {
		return ErrInvalidSchedule
	}
	return nil
}

// checkUserAppointments проверяет правило "одна активная запись" и закрытый отзыв
func checkUserAppointments(appointments []*domain.Appointment) error {
	for _, a := range appointments {
		if a.IsActive() {
			return fmt.Errorf("%w: appointment id=%d is %s", ErrDuplicateActiveAppointment, a.ID, a.Status.Global)
		}
	}

	for _, a := range appointments {
		if a.AwaitsFeedback() {
			return fmt.Errorf("%w: appointment id=%d", ErrPendingFeedback, a.ID)
		}
	}

	return nil
}

// resolveSchedule рабочий график с учётом мастерской (данные мастерской главнее)
func resolveSchedule(t *domain.Technician, shop *domain.Shop) ([]string, domain.WorkingHours, string) {
	days, hours, name := t.WorkingDays, t.WorkingHours, t.FullName
	if shop == nil {
		return days, hours, name
	}
	if len(shop.WorkingDays) > 0 {
		days = shop.WorkingDays
	}
	if !shop.WorkingHours.IsEmpty() {
		hours = shop.WorkingHours
	}
	if shop.Name != "" {
		name = shop.Name
	}
	return days, hours, name
}
