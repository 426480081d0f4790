package domain

import (
	"math"
	"strconv"
	"time"
)

// Rating a user's rating of a technician. (TechnicianID, UserID) is unique:
// a repeated rating from the same user updates this record.
type Rating struct {
	ID            int64
	TechnicianID  int64
	UserID        int64
	Value         int
	Comment       *string
	AppointmentID *int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RatingStats aggregate rating of a technician derived from individual ratings
type RatingStats struct {
	Average float64
	Count   int
}

// IsValidRating returns true for integer ratings in [1, 5]
func IsValidRating(value int) bool {
	return value >= MinRating && value <= MaxRating
}

// AddRating returns stats after a brand-new rating:
// newAvg = (oldAvg*oldCount + value) / (oldCount+1)
func (s RatingStats) AddRating(value int) RatingStats {
	count := s.Count
	if count < 0 {
		count = 0
	}
	total := s.Average*float64(count) + float64(value)
	return RatingStats{
		Average: RoundRating(total / float64(count+1)),
		Count:   count + 1,
	}
}

// ReplaceRating returns stats after an existing rating changed from oldValue to newValue.
// Count stays unchanged: newAvg = (oldAvg*count - oldValue + newValue) / count
func (s RatingStats) ReplaceRating(oldValue, newValue int) RatingStats {
	if s.Count <= 0 {
		// Агрегат рассинхронизирован с записями - считаем оценку первой
		return RatingStats{}.AddRating(newValue)
	}
	total := s.Average*float64(s.Count) - float64(oldValue) + float64(newValue)
	avg := RoundRating(total / float64(s.Count))
	return RatingStats{
		Average: clampRating(avg),
		Count:   s.Count,
	}
}

// RoundRating rounds an average to one decimal place
func RoundRating(x float64) float64 {
	return math.Round(x*10) / 10
}

// FormatRating renders a rating with exactly one decimal ("0.0" for zero)
func FormatRating(x float64) string {
	return strconv.FormatFloat(RoundRating(x), 'f', 1, 64)
}

func clampRating(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > MaxRating {
		return MaxRating
	}
	return x
}
