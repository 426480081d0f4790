package cancel_appointment

import "github.com/m04kA/SMC-RepairService/internal/service/appointments/models"

// CancelAppointmentRequest HTTP request model
type CancelAppointmentRequest struct {
	Reason       string `json:"reason" validate:"required"`
	CustomReason string `json:"customReason" validate:"max=2000"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CancelAppointmentRequest) ToServiceRequest(userID int64) *models.CancelRequest {
	return &models.CancelRequest{
		UserID:       userID,
		Reason:       r.Reason,
		CustomReason: r.CustomReason,
	}
}
