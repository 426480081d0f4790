package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-RepairService/internal/domain"
)

// Request модель запроса на создание записи
type Request struct {
	UserID        int64              // ID пользователя
	TechnicianID  int64              // ID выбранного техника
	Diagnosis     domain.Diagnosis   // Снимок диагноза (копируется в запись)
	ScheduledDate time.Time          // Момент визита
	ServiceType   domain.ServiceType // walk-in | home-service
}

// Response модель ответа с созданной записью
type Response struct {
	Appointment *domain.Appointment
	// PreviouslyDeclined этот техник уже отклонял запись пользователя (предупреждение, не блокирует)
	PreviouslyDeclined bool
}
