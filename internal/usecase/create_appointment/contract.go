package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RepairService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	GetByUser(ctx context.Context, filter domain.UserAppointmentsFilter) ([]*domain.Appointment, error)
}

// TechnicianRepository интерфейс репозитория техников
type TechnicianRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Technician, error)
}

// ShopRepository интерфейс репозитория мастерских
type ShopRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Shop, error)
}

// AvailabilityEvaluator проверка рабочего графика техника
type AvailabilityEvaluator interface {
	IsDayAvailable(instant time.Time, workingDays []string) bool
	IsTimeAvailable(instant time.Time, workingHours domain.WorkingHours) bool
	Summary(workingDays []string, workingHours domain.WorkingHours) domain.AvailabilitySummary
	FormatInstant(instant time.Time) string
}

// Locker взаимное исключение по ключу (на пользователя)
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier отправка уведомления о созданной записи
type Notifier interface {
	SendAppointmentConfirmation(ctx context.Context, userID int64, technicianName, formattedDateTime string) error
}

// MetricsRecorder бизнес-метрики
type MetricsRecorder interface {
	AppointmentCreated(serviceType string)
	AppointmentRejected(reason string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
