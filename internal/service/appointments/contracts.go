package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RepairService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByUser(ctx context.Context, filter domain.UserAppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status, rejectionReason *string) error
	Cancel(ctx context.Context, id int64, status domain.Status, reason string, by domain.CancelledBy, at time.Time) error
	SetHidden(ctx context.Context, id int64, hidden bool) error
	Delete(ctx context.Context, id int64) error
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Notifier уведомление техника об отмене записи
type Notifier interface {
	SendAppointmentCancellation(ctx context.Context, technicianID int64, userName, formattedDateTime, reason string) error
}

// InstantFormatter форматирование момента времени в гражданском поясе
type InstantFormatter interface {
	FormatInstant(instant time.Time) string
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder бизнес-метрики
type MetricsRecorder interface {
	AppointmentCancelled(reason string)
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
