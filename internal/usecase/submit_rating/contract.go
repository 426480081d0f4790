package submit_rating

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RepairService/internal/domain"
)

// RatingRepository интерфейс репозитория оценок
type RatingRepository interface {
	GetByTechnicianAndUser(ctx context.Context, technicianID, userID int64) (*domain.Rating, error)
	Create(ctx context.Context, rating *domain.Rating) (*domain.Rating, error)
	Update(ctx context.Context, rating *domain.Rating) error
}

// TechnicianRepository агрегат рейтинга техника
type TechnicianRepository interface {
	GetRatingStats(ctx context.Context, id int64) (domain.RatingStats, error)
	UpdateRatingStats(ctx context.Context, id int64, stats domain.RatingStats) error
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	MarkRated(ctx context.Context, id int64, rating int) error
}

// Locker взаимное исключение по ключу (техник, пользователь)
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder бизнес-метрики
type MetricsRecorder interface {
	RatingSubmitted(kind string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
