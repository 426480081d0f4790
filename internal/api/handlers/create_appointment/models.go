package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	"github.com/m04kA/SMC-RepairService/internal/service/appointments/models"
	createAppointment "github.com/m04kA/SMC-RepairService/internal/usecase/create_appointment"
)

// DiagnosisRequest снимок диагноза, выбранного пользователем
type DiagnosisRequest struct {
	Category      string  `json:"category" validate:"required,max=100"`
	Brand         string  `json:"brand" validate:"max=100"`
	Model         string  `json:"model" validate:"max=100"`
	Issue         string  `json:"issue" validate:"max=1000"`
	DiagnosisText string  `json:"diagnosisText" validate:"max=5000"`
	EstimatedCost float64 `json:"estimatedCost" validate:"min=0"`
	IsCustomIssue bool    `json:"isCustomIssue"`
}

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	TechnicianID  int64            `json:"technicianId" validate:"required,gt=0"`
	ScheduledDate time.Time        `json:"scheduledDate" validate:"required"` // RFC3339 с часовым поясом
	ServiceType   string           `json:"serviceType" validate:"required,oneof=walk-in home-service"`
	Diagnosis     DiagnosisRequest `json:"diagnosis" validate:"required"`
}

// CreateAppointmentResponse HTTP response model
type CreateAppointmentResponse struct {
	Appointment        *models.AppointmentResponse `json:"appointment"`
	PreviouslyDeclined bool                        `json:"previouslyDeclined"`
}

// AvailabilityDetails график техника, возвращаемый при отказе по времени
type AvailabilityDetails struct {
	WorkingDays  []string `json:"workingDays"`
	WorkingHours string   `json:"workingHours"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(userID int64) *createAppointment.Request {
	return &createAppointment.Request{
		UserID:        userID,
		TechnicianID:  r.TechnicianID,
		ScheduledDate: r.ScheduledDate,
		ServiceType:   domain.ServiceType(r.ServiceType),
		Diagnosis: domain.Diagnosis{
			Category:      r.Diagnosis.Category,
			Brand:         r.Diagnosis.Brand,
			Model:         r.Diagnosis.Model,
			Issue:         r.Diagnosis.Issue,
			DiagnosisText: r.Diagnosis.DiagnosisText,
			EstimatedCost: r.Diagnosis.EstimatedCost,
			IsCustomIssue: r.Diagnosis.IsCustomIssue,
		},
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *CreateAppointmentResponse {
	return &CreateAppointmentResponse{
		Appointment:        models.FromDomainAppointment(resp.Appointment),
		PreviouslyDeclined: resp.PreviouslyDeclined,
	}
}

func fromSummary(s domain.AvailabilitySummary) AvailabilityDetails {
	days := s.WorkingDays
	if days == nil {
		days = []string{}
	}
	return AvailabilityDetails{WorkingDays: days, WorkingHours: s.WorkingHours}
}
