package availability

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	"github.com/m04kA/SMC-RepairService/pkg/civiltime"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Evaluator проверяет, попадает ли момент времени в рабочие дни и часы техника
// Все проверки выполняются в гражданском часовом поясе и никогда не возвращают ошибку:
// некорректные данные означают "недоступно"
type Evaluator struct {
	clock  *civiltime.Converter
	logger Logger
}

// NewEvaluator создает Evaluator для указанного часового пояса
func NewEvaluator(timezone string, logger Logger) *Evaluator {
	clock := civiltime.NewConverter(timezone)
	if !clock.Loaded() {
		logger.Warn("Availability: failed to load timezone %q, instants are used as-is", timezone)
	}
	return &Evaluator{
		clock:  clock,
		logger: logger,
	}
}

// Clock возвращает конвертер гражданского времени
func (e *Evaluator) Clock() *civiltime.Converter {
	return e.clock
}

// FormatInstant форматирует момент времени в гражданском поясе ("Mar 4, 2025 at 10:30 AM")
func (e *Evaluator) FormatInstant(instant time.Time) string {
	return e.clock.Format(instant)
}

// IsDayAvailable возвращает true, если день недели момента времени входит в рабочие дни
// Пустой список рабочих дней означает "закрыто"
func (e *Evaluator) IsDayAvailable(instant time.Time, workingDays []string) bool {
	if len(workingDays) == 0 {
		return false
	}

	weekday := e.clock.ToCivil(instant).Weekday()
	for _, token := range workingDays {
		day, ok := NormalizeDay(token)
		if ok && day == weekday {
			return true
		}
	}
	return false
}

// IsTimeAvailable возвращает true, если время суток момента попадает в рабочие часы (включительно)
func (e *Evaluator) IsTimeAvailable(instant time.Time, workingHours domain.WorkingHours) bool {
	hours, err := ParseWorkingHours(workingHours)
	if err != nil {
		if errors.Is(err, ErrMalformedWorkingHours) {
			e.logger.Warn("Availability: %v", err)
		}
		return false
	}

	return hours.Contains(e.clock.MinutesSinceMidnight(instant))
}

// IsAvailable объединяет проверки дня и времени
func (e *Evaluator) IsAvailable(instant time.Time, workingDays []string, workingHours domain.WorkingHours) bool {
	return e.IsDayAvailable(instant, workingDays) && e.IsTimeAvailable(instant, workingHours)
}

// Summary формирует описание доступности для показа пользователю
func (e *Evaluator) Summary(workingDays []string, workingHours domain.WorkingHours) domain.AvailabilitySummary {
	summary := domain.AvailabilitySummary{
		WorkingDays: NormalizeDays(workingDays),
	}

	if hours, err := ParseWorkingHours(workingHours); err == nil {
		summary.WorkingHours = hours.String()
	} else if !workingHours.IsStructured() && !workingHours.IsMalformed() {
		// Нераспознанный текст показываем как есть
		summary.WorkingHours = workingHours.Text
	}

	return summary
}
