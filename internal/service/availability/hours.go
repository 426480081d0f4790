package availability

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	"github.com/m04kA/SMC-RepairService/pkg/types"
)

// HoursRange канонический вид рабочих часов (границы включительно)
type HoursRange struct {
	Start types.TimeString
	End   types.TimeString
}

// Contains проверяет, что минута суток попадает в диапазон [Start, End]
func (r HoursRange) Contains(minutes int) bool {
	return minutes >= r.Start.Minutes() && minutes <= r.End.Minutes()
}

// String возвращает диапазон в 12-часовом формате ("9:00 AM - 5:00 PM")
func (r HoursRange) String() string {
	return fmt.Sprintf("%s - %s", r.Start.Format12h(), r.End.Format12h())
}

// textHoursPattern "H(:MM)? (AM|PM)? - H(:MM)? (AM|PM)?"
// Допускается длинное тире из старых профилей
var textHoursPattern = regexp.MustCompile(`(?i)^\s*(\d{1,2})(?::(\d{2}))?\s*(AM|PM)?\s*[-–]\s*(\d{1,2})(?::(\d{2}))?\s*(AM|PM)?\s*$`)

// ParseWorkingHours приводит любой вариант рабочих часов к HoursRange
// Пустые часы -> ErrWorkingHoursNotSet, нераспознанные -> ErrMalformedWorkingHours
func ParseWorkingHours(hours domain.WorkingHours) (HoursRange, error) {
	if hours.IsMalformed() {
		return HoursRange{}, fmt.Errorf("%w: stored value %s", ErrMalformedWorkingHours, hours.Malformed)
	}

	if hours.IsEmpty() {
		return HoursRange{}, ErrWorkingHoursNotSet
	}

	if hours.IsStructured() {
		return parseStructured(hours.Structured)
	}

	return parseText(hours.Text)
}

func parseStructured(s *domain.StructuredHours) (HoursRange, error) {
	start, err := types.NewTimeStringFromString(strings.TrimSpace(s.StartTime))
	if err != nil {
		return HoursRange{}, fmt.Errorf("%w: startTime %q", ErrMalformedWorkingHours, s.StartTime)
	}

	end, err := types.NewTimeStringFromString(strings.TrimSpace(s.EndTime))
	if err != nil {
		return HoursRange{}, fmt.Errorf("%w: endTime %q", ErrMalformedWorkingHours, s.EndTime)
	}

	return HoursRange{Start: start, End: end}, nil
}

func parseText(text string) (HoursRange, error) {
	m := textHoursPattern.FindStringSubmatch(text)
	if m == nil {
		return HoursRange{}, fmt.Errorf("%w: %q", ErrMalformedWorkingHours, text)
	}

	start, err := clockToTimeString(m[1], m[2], m[3])
	if err != nil {
		return HoursRange{}, fmt.Errorf("%w: %q: %v", ErrMalformedWorkingHours, text, err)
	}

	end, err := clockToTimeString(m[4], m[5], m[6])
	if err != nil {
		return HoursRange{}, fmt.Errorf("%w: %q: %v", ErrMalformedWorkingHours, text, err)
	}

	return HoursRange{Start: start, End: end}, nil
}

// clockToTimeString переводит часы/минуты/маркер AM|PM в 24-часовой HH:MM
// 12 AM -> 00, 12 PM -> 12
func clockToTimeString(hourStr, minuteStr, marker string) (types.TimeString, error) {
	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return "", err
	}

	minute := 0
	if minuteStr != "" {
		minute, err = strconv.Atoi(minuteStr)
		if err != nil {
			return "", err
		}
	}
	if minute > 59 {
		return "", fmt.Errorf("minute out of range: %d", minute)
	}

	switch strings.ToUpper(marker) {
	case "AM":
		if hour < 1 || hour > 12 {
			return "", fmt.Errorf("hour out of range for 12-hour clock: %d", hour)
		}
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour < 1 || hour > 12 {
			return "", fmt.Errorf("hour out of range for 12-hour clock: %d", hour)
		}
		if hour != 12 {
			hour += 12
		}
	default:
		if hour > 23 {
			return "", fmt.Errorf("hour out of range: %d", hour)
		}
	}

	return types.NewTimeStringFromMinutes(hour*60 + minute)
}
