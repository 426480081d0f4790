package delete_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-RepairService/internal/api/handlers"
	"github.com/m04kA/SMC-RepairService/internal/api/middleware"
	"github.com/m04kA/SMC-RepairService/internal/service/appointments"
	"github.com/m04kA/SMC-RepairService/internal/service/appointments/models"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgConfirmationRequired = "подтвердите удаление параметром confirm=true"
	msgNotFound             = "запись не найдена"
	msgForbidden            = "доступ запрещен"
	msgNotTerminal          = "удалить можно только завершённую, отменённую или отклонённую запись"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/appointments/{appointmentId}?confirm=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := handlers.PathInt64(r, "appointmentId")
	if err != nil {
		h.logger.Warn("DELETE /appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}
	userID, _ := middleware.UserIDFromContext(r.Context())
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	err = h.service.Delete(r.Context(), appointmentID, &models.DeleteRequest{
		UserID:    userID,
		Confirmed: confirmed,
	})
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrConfirmationRequired):
			handlers.RespondBadRequest(w, msgConfirmationRequired)

		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("DELETE /appointments/{id} - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("DELETE /appointments/{id} - Access denied: appointment_id=%d, user_id=%d", appointmentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrNotTerminal):
			h.logger.Warn("DELETE /appointments/{id} - Not terminal: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgNotTerminal)

		default:
			h.logger.Error("DELETE /appointments/{id} - Failed to delete: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /appointments/{id} - Appointment deleted: appointment_id=%d, user_id=%d", appointmentID, userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
