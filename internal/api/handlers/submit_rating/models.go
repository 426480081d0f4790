package submit_rating

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	submitRating "github.com/m04kA/SMC-RepairService/internal/usecase/submit_rating"
)

// SubmitRatingRequest HTTP request model
type SubmitRatingRequest struct {
	Rating        json.Number `json:"rating"`
	Comment       *string     `json:"comment,omitempty"`
	AppointmentID *int64      `json:"appointmentId,omitempty" validate:"omitempty,gt=0"`
}

// RatingResponse HTTP response model
type RatingResponse struct {
	ID            int64     `json:"id"`
	TechnicianID  int64     `json:"technicianId"`
	Rating        int       `json:"rating"`
	Comment       *string   `json:"comment,omitempty"`
	AppointmentID *int64    `json:"appointmentId,omitempty"`
	Updated       bool      `json:"updated"`
	Average       string    `json:"technicianRating"`
	Count         int       `json:"technicianRatingCount"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Дробная или отсутствующая оценка -> submitRating.ErrInvalidRating
func (r *SubmitRatingRequest) ToUseCaseRequest(technicianID, userID int64) (*submitRating.Request, error) {
	value, err := r.Rating.Float64()
	if err != nil {
		return nil, fmt.Errorf("%w: %q", submitRating.ErrInvalidRating, r.Rating.String())
	}
	if value != math.Trunc(value) || value < math.MinInt32 || value > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %s is not an integer", submitRating.ErrInvalidRating, r.Rating.String())
	}

	return &submitRating.Request{
		TechnicianID:  technicianID,
		UserID:        userID,
		Rating:        int(value),
		Comment:       r.Comment,
		AppointmentID: r.AppointmentID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *submitRating.Response) *RatingResponse {
	return &RatingResponse{
		ID:            resp.Rating.ID,
		TechnicianID:  resp.Rating.TechnicianID,
		Rating:        resp.Rating.Value,
		Comment:       resp.Rating.Comment,
		AppointmentID: resp.Rating.AppointmentID,
		Updated:       resp.Kind == submitRating.KindUpdate,
		Average:       domain.FormatRating(resp.Stats.Average),
		Count:         resp.Stats.Count,
		UpdatedAt:     resp.Rating.UpdatedAt,
	}
}
