package availability

import "errors"

var (
	// ErrWorkingHoursNotSet возвращается, когда у техника не указаны рабочие часы
	ErrWorkingHoursNotSet = errors.New("availability: working hours not set")

	// ErrMalformedWorkingHours возвращается, когда рабочие часы не удалось распознать
	// Наружу не пробрасывается: такие часы считаются недоступными
	ErrMalformedWorkingHours = errors.New("availability: malformed working hours")
)
