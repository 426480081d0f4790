package availability

import (
	"strings"
	"time"
)

var weekdayNames = []time.Weekday{
	time.Sunday,
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
}

// NormalizeDay приводит токен дня недели к полному названию ("Mon" -> "Monday")
// Принимает полные названия и сокращения от трёх букв ("Thu", "Thurs") без учёта регистра
func NormalizeDay(token string) (time.Weekday, bool) {
	t := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(token), "."))
	if len(t) < 3 {
		return time.Sunday, false
	}

	for _, day := range weekdayNames {
		if strings.HasPrefix(strings.ToLower(day.String()), t) {
			return day, true
		}
	}
	return time.Sunday, false
}

// NormalizeDays приводит список дней к полным названиям, пропуская нераспознанные и дубликаты
func NormalizeDays(tokens []string) []string {
	seen := make(map[time.Weekday]bool, len(tokens))
	result := make([]string, 0, len(tokens))

	for _, token := range tokens {
		day, ok := NormalizeDay(token)
		if !ok || seen[day] {
			continue
		}
		seen[day] = true
		result = append(result, day.String())
	}

	return result
}
