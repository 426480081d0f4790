package submit_rating

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RepairService/internal/api/handlers"
	"github.com/m04kA/SMC-RepairService/internal/api/middleware"
	submitRating "github.com/m04kA/SMC-RepairService/internal/usecase/submit_rating"
)

const (
	msgInvalidTechnicianID  = "некорректный ID техника"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidRating        = "оценка должна быть целым числом от 1 до 5"
	msgTechnicianNotFound   = "техник не найден"
	msgAppointmentNotFound  = "запись не найдена"
	msgAppointmentMismatch  = "запись не относится к этому технику"
	msgAppointmentNotClosed = "оценить можно только завершённый ремонт"
)

type Handler struct {
	useCase SubmitRatingUseCase
	logger  Logger
}

func NewHandler(useCase SubmitRatingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/technicians/{technicianId}/ratings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	technicianID, err := handlers.PathInt64(r, "technicianId")
	if err != nil {
		h.logger.Warn("POST /technicians/{id}/ratings - Invalid technician ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTechnicianID)
		return
	}
	userID, _ := middleware.UserIDFromContext(r.Context())

	var req SubmitRatingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /technicians/{id}/ratings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ucReq, err := req.ToUseCaseRequest(technicianID, userID)
	if err != nil {
		h.logger.Warn("POST /technicians/{id}/ratings - Invalid rating: technician_id=%d, error=%v", technicianID, err)
		handlers.RespondBadRequest(w, msgInvalidRating)
		return
	}

	result, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		switch {
		case errors.Is(err, submitRating.ErrInvalidRating):
			handlers.RespondBadRequest(w, msgInvalidRating)

		case errors.Is(err, submitRating.ErrInvalidInput):
			h.logger.Warn("POST /technicians/{id}/ratings - Invalid input: technician_id=%d, error=%v", technicianID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, submitRating.ErrTechnicianNotFound):
			h.logger.Warn("POST /technicians/{id}/ratings - Technician not found: technician_id=%d", technicianID)
			handlers.RespondNotFound(w, msgTechnicianNotFound)

		case errors.Is(err, submitRating.ErrAppointmentNotFound):
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, submitRating.ErrAppointmentMismatch):
			h.logger.Warn("POST /technicians/{id}/ratings - Appointment mismatch: technician_id=%d, user_id=%d",
				technicianID, userID)
			handlers.RespondForbidden(w, msgAppointmentMismatch)

		case errors.Is(err, submitRating.ErrAppointmentNotCompleted):
			handlers.RespondConflict(w, msgAppointmentNotClosed)

		default:
			h.logger.Error("POST /technicians/{id}/ratings - Failed to submit rating: technician_id=%d, user_id=%d, error=%v",
				technicianID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := http.StatusCreated
	if result.Kind == submitRating.KindUpdate {
		status = http.StatusOK
	}

	h.logger.Info("POST /technicians/{id}/ratings - Rating saved: rating_id=%d, technician_id=%d, kind=%s",
		result.Rating.ID, technicianID, result.Kind)
	handlers.RespondJSON(w, status, FromUseCaseResponse(result))
}
