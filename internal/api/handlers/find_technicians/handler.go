package find_technicians

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RepairService/internal/api/handlers"
	"github.com/m04kA/SMC-RepairService/internal/api/middleware"
	findTechnicians "github.com/m04kA/SMC-RepairService/internal/usecase/find_technicians"
)

const (
	msgLocationRequired = "укажите местоположение в профиле, чтобы найти техников рядом"
	msgUserNotFound     = "пользователь не найден"
	msgInvalidRequest   = "некорректный запрос"
)

type Handler struct {
	useCase FindTechniciansUseCase
	logger  Logger
}

func NewHandler(useCase FindTechniciansUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/technicians/eligible?category=Aircon
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	category := r.URL.Query().Get("category")

	result, err := h.useCase.Execute(r.Context(), &findTechnicians.Request{
		UserID:   userID,
		Category: category,
	})
	if err != nil {
		switch {
		case errors.Is(err, findTechnicians.ErrLocationRequired):
			h.logger.Warn("GET /technicians/eligible - Location required: user_id=%d", userID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgLocationRequired)

		case errors.Is(err, findTechnicians.ErrUserNotFound):
			h.logger.Warn("GET /technicians/eligible - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, findTechnicians.ErrInvalidInput):
			h.logger.Warn("GET /technicians/eligible - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /technicians/eligible - Failed to find technicians: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /technicians/eligible - Found %d technicians: user_id=%d, category=%q, degraded=%t",
		len(result.Technicians), userID, category, result.DegradedMatch)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
