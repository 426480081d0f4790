package submit_rating

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-RepairService/internal/domain"
)

// validateRequest проверяет запрос и нормализует комментарий
func validateRequest(req *Request) error {
	if req.TechnicianID <= 0 {
		return fmt.Errorf("%w: technician_id must be positive", ErrInvalidInput)
	}
	if req.UserID <= 0 {
		return fmt.Errorf("%w: user_id must be positive", ErrInvalidInput)
	}
	if req.AppointmentID != nil && *req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointment_id must be positive", ErrInvalidInput)
	}
	if !domain.IsValidRating(req.Rating) {
		return ErrInvalidRating
	}

	if req.Comment != nil {
		comment := strings.TrimSpace(*req.Comment)
		if utf8.RuneCountInString(comment) > domain.MaxRatingCommentLength {
			return fmt.Errorf("%w: comment exceeds %d characters", ErrInvalidInput, domain.MaxRatingCommentLength)
		}
		if comment == "" {
			req.Comment = nil
		} else {
			req.Comment = &comment
		}
	}

	return nil
}

// checkAppointment запись должна быть завершённой записью этого пользователя у этого техника
func checkAppointment(appointment *domain.Appointment, req *Request) error {
	if appointment.UserID != req.UserID || appointment.TechnicianID != req.TechnicianID {
		return ErrAppointmentMismatch
	}
	if appointment.Status.Global != domain.StatusCompleted {
		return ErrAppointmentNotCompleted
	}
	return nil
}
