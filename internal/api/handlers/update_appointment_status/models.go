package update_appointment_status

import "github.com/m04kA/SMC-RepairService/internal/service/appointments/models"

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status          string  `json:"status" validate:"required,oneof=Accepted Repairing Testing Completed Rejected"`
	RejectionReason *string `json:"rejectionReason,omitempty" validate:"omitempty,max=1000"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest(technicianID int64) *models.UpdateStatusRequest {
	return &models.UpdateStatusRequest{
		TechnicianID:    technicianID,
		Status:          r.Status,
		RejectionReason: r.RejectionReason,
	}
}
