package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RepairService/internal/api/handlers"
	"github.com/m04kA/SMC-RepairService/internal/api/middleware"
	createAppointment "github.com/m04kA/SMC-RepairService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidSchedule       = "время визита должно быть в будущем"
	msgDayUnavailable        = "техник не работает в выбранный день"
	msgTimeUnavailable       = "выбранное время вне рабочих часов техника"
	msgDuplicateActive       = "у вас уже есть активная запись"
	msgPendingFeedback       = "оцените завершённый ремонт перед новой записью"
	msgTechnicianNotFound    = "техник не найден"
	msgTechnicianUnavailable = "техник сейчас не принимает записи"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		// Отказ по графику возвращаем вместе с графиком техника
		var availabilityErr *createAppointment.AvailabilityError
		if errors.As(err, &availabilityErr) {
			msg := msgTimeUnavailable
			if errors.Is(err, createAppointment.ErrDayUnavailable) {
				msg = msgDayUnavailable
			}
			h.logger.Warn("POST /appointments - Technician unavailable: user_id=%d, technician_id=%d, error=%v",
				userID, req.TechnicianID, err)
			handlers.RespondErrorWithDetails(w, http.StatusUnprocessableEntity, msg, fromSummary(availabilityErr.Summary))
			return
		}

		switch {
		case errors.Is(err, createAppointment.ErrInvalidSchedule):
			h.logger.Warn("POST /appointments - Invalid schedule: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgInvalidSchedule)

		case errors.Is(err, createAppointment.ErrDuplicateActiveAppointment):
			h.logger.Warn("POST /appointments - Duplicate active appointment: user_id=%d", userID)
			handlers.RespondConflict(w, msgDuplicateActive)

		case errors.Is(err, createAppointment.ErrPendingFeedback):
			h.logger.Warn("POST /appointments - Pending feedback: user_id=%d", userID)
			handlers.RespondConflict(w, msgPendingFeedback)

		case errors.Is(err, createAppointment.ErrTechnicianNotFound):
			h.logger.Warn("POST /appointments - Technician not found: technician_id=%d", req.TechnicianID)
			handlers.RespondNotFound(w, msgTechnicianNotFound)

		case errors.Is(err, createAppointment.ErrTechnicianUnavailable):
			h.logger.Warn("POST /appointments - Technician not bookable: technician_id=%d", req.TechnicianID)
			handlers.RespondConflict(w, msgTechnicianUnavailable)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: user_id=%d, technician_id=%d, error=%v",
				userID, req.TechnicianID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, user_id=%d, technician_id=%d",
		result.Appointment.ID, userID, req.TechnicianID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
