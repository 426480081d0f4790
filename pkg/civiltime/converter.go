package civiltime

import (
	"time"
	// Встраиваем базу часовых поясов, чтобы не зависеть от tzdata в контейнере
	_ "time/tzdata"
)

// DefaultTimezone гражданский часовой пояс по умолчанию
const DefaultTimezone = "Asia/Manila"

// DisplayLayout формат даты и времени для уведомлений
const DisplayLayout = "Jan 2, 2006 at 3:04 PM"

// Converter переводит момент времени в гражданское время фиксированного часового пояса
// Никогда не возвращает ошибку: если пояс не удалось загрузить,
// момент времени используется как есть (считается уже локальным)
type Converter struct {
	timezone string
	location *time.Location
}

// NewConverter создает конвертер для указанного часового пояса
func NewConverter(timezone string) *Converter {
	loc, err := time.LoadLocation(timezone)
	if err != nil || timezone == "" {
		loc = nil
	}
	return &Converter{
		timezone: timezone,
		location: loc,
	}
}

// Timezone возвращает идентификатор часового пояса
func (c *Converter) Timezone() string {
	return c.timezone
}

// Loaded возвращает true, если часовой пояс успешно загружен
func (c *Converter) Loaded() bool {
	return c != nil && c.location != nil
}

// ToCivil возвращает момент времени в гражданском часовом поясе
func (c *Converter) ToCivil(instant time.Time) time.Time {
	if !c.Loaded() {
		return instant
	}
	return instant.In(c.location)
}

// Format форматирует момент времени для отображения пользователю
func (c *Converter) Format(instant time.Time) string {
	return c.ToCivil(instant).Format(DisplayLayout)
}

// MinutesSinceMidnight возвращает количество минут от полуночи в гражданском времени
func (c *Converter) MinutesSinceMidnight(instant time.Time) int {
	civil := c.ToCivil(instant)
	return civil.Hour()*60 + civil.Minute()
}
