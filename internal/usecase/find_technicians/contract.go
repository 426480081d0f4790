package find_technicians

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RepairService/internal/domain"
)

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// TechnicianRepository интерфейс репозитория техников
type TechnicianRepository interface {
	// GetApproved получает всех одобренных техников (ограничения не фильтруются)
	GetApproved(ctx context.Context) ([]*domain.Technician, error)
}

// ShopRepository интерфейс репозитория мастерских
type ShopRepository interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Shop, error)
}

// AvailabilityEvaluator формирует описание рабочего графика для показа
type AvailabilityEvaluator interface {
	Summary(workingDays []string, workingHours domain.WorkingHours) domain.AvailabilitySummary
	IsAvailable(instant time.Time, workingDays []string, workingHours domain.WorkingHours) bool
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
