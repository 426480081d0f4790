package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-RepairService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelRequest запрос на отмену записи пользователем
type CancelRequest struct {
	UserID       int64  `json:"userId"`
	Reason       string `json:"reason"`
	CustomReason string `json:"customReason,omitempty"` // Обязателен для "Others"
}

// DeleteRequest запрос на удаление записи
type DeleteRequest struct {
	UserID    int64 `json:"userId"`
	Confirmed bool  `json:"confirmed"`
}

// UpdateStatusRequest запрос техника на смену статуса
type UpdateStatusRequest struct {
	TechnicianID    int64   `json:"technicianId"`
	Status          string  `json:"status"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
}

// GetUserAppointmentsRequest запрос на получение записей пользователя
type GetUserAppointmentsRequest struct {
	RequesterID   int64   `json:"requesterId"`
	UserID        int64   `json:"userId"`
	Status        *string `json:"status,omitempty"`
	ActiveOnly    bool    `json:"activeOnly,omitempty"`    // Только незавершённые записи
	IncludeHidden bool    `json:"includeHidden,omitempty"` // Включая скрытые из активного представления
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetUserAppointmentsRequest) ToDomainFilter() (domain.UserAppointmentsFilter, error) {
	filter := domain.UserAppointmentsFilter{
		UserID:        r.UserID,
		IncludeHidden: r.IncludeHidden,
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Statuses = []domain.AppointmentStatus{status}
	}

	if r.ActiveOnly {
		filter.ExcludeStatus = domain.TerminalStatuses
	}

	return filter, nil
}

// Response модели

// StatusResponse статус записи для обеих сторон
type StatusResponse struct {
	Global         string `json:"global"`
	UserView       string `json:"userView"`
	TechnicianView string `json:"technicianView"`
}

// DiagnosisResponse снимок диагноза
type DiagnosisResponse struct {
	Category      string  `json:"category"`
	Brand         string  `json:"brand,omitempty"`
	Model         string  `json:"model,omitempty"`
	Issue         string  `json:"issue,omitempty"`
	DiagnosisText string  `json:"diagnosisText,omitempty"`
	EstimatedCost float64 `json:"estimatedCost"`
	IsCustomIssue bool    `json:"isCustomIssue"`
}

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID             int64             `json:"id"`
	UserID         int64             `json:"userId"`
	TechnicianID   int64             `json:"technicianId"`
	ServiceType    string            `json:"serviceType"`
	ScheduledDate  time.Time         `json:"scheduledDate"`
	Status         StatusResponse    `json:"status"`
	CancelDeadline time.Time         `json:"cancelDeadline"`
	Diagnosis      DiagnosisResponse `json:"diagnosis"`

	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledBy        *string    `json:"cancelledBy,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	RejectionReason    *string    `json:"rejectionReason,omitempty"`

	Rated          bool `json:"rated"`
	UserRating     *int `json:"userRating,omitempty"`
	AwaitsFeedback bool `json:"awaitsFeedback"`
	HiddenFromUser bool `json:"hiddenFromUser"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// BookingDraftResponse данные для повторного заполнения формы записи
type BookingDraftResponse struct {
	Diagnosis     DiagnosisResponse `json:"diagnosis"`
	ScheduledDate time.Time         `json:"scheduledDate"`
	ServiceType   string            `json:"serviceType"`
	// DeclinedByTechnicianID техник, отклонивший запись: при его выборе показываем предупреждение
	DeclinedByTechnicianID *int64 `json:"declinedByTechnicianId,omitempty"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:            a.ID,
		UserID:        a.UserID,
		TechnicianID:  a.TechnicianID,
		ServiceType:   string(a.ServiceType),
		ScheduledDate: a.ScheduledDate,
		Status: StatusResponse{
			Global:         string(a.Status.Global),
			UserView:       a.Status.UserView,
			TechnicianView: a.Status.TechnicianView,
		},
		CancelDeadline:     a.CancelDeadline,
		Diagnosis:          fromDomainDiagnosis(a.Diagnosis),
		CancellationReason: a.CancellationReason,
		CancelledAt:        a.CancelledAt,
		RejectionReason:    a.RejectionReason,
		Rated:              a.Rated,
		UserRating:         a.UserRating,
		AwaitsFeedback:     a.AwaitsFeedback(),
		HiddenFromUser:     a.HiddenFromUser,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CancelledBy != nil {
		by := string(*a.CancelledBy)
		resp.CancelledBy = &by
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, a := range appointments {
		if r := FromDomainAppointment(a); r != nil {
			resp.Appointments = append(resp.Appointments, *r)
		}
	}

	return resp
}

// FromDomainDraft конвертирует черновик записи в DTO
func FromDomainDraft(d domain.BookingDraft) *BookingDraftResponse {
	return &BookingDraftResponse{
		Diagnosis:              fromDomainDiagnosis(d.Diagnosis),
		ScheduledDate:          d.ScheduledDate,
		ServiceType:            string(d.ServiceType),
		DeclinedByTechnicianID: d.DeclinedByTechnicianID,
	}
}

func fromDomainDiagnosis(d domain.Diagnosis) DiagnosisResponse {
	return DiagnosisResponse{
		Category:      d.Category,
		Brand:         d.Brand,
		Model:         d.Model,
		Issue:         d.Issue,
		DiagnosisText: d.DiagnosisText,
		EstimatedCost: d.EstimatedCost,
		IsCustomIssue: d.IsCustomIssue,
	}
}

// ToDomainStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)
	if !s.IsKnown() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
