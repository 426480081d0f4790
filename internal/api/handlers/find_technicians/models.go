package find_technicians

import (
	"github.com/m04kA/SMC-RepairService/internal/domain"
	findTechnicians "github.com/m04kA/SMC-RepairService/internal/usecase/find_technicians"
)

// TechnicianResponse техник в списке подбора
type TechnicianResponse struct {
	ID                int64    `json:"id"`
	FullName          string   `json:"fullName"`
	Type              string   `json:"type"`
	ShopName          *string  `json:"shopName,omitempty"`
	Address           string   `json:"address"`
	Phone             string   `json:"phone"`
	ServiceCategories []string `json:"serviceCategories"`
	DistanceKm        *float64 `json:"distanceKm"`
	WorkingDays       []string `json:"workingDays"`
	WorkingHours      string   `json:"workingHours"`
	AvailableNow      bool     `json:"availableNow"`
	Rating            string   `json:"rating"`
	RatingCount       int      `json:"ratingCount"`
}

// EligibleTechniciansResponse HTTP response model
type EligibleTechniciansResponse struct {
	Technicians   []TechnicianResponse `json:"technicians"`
	DegradedMatch bool                 `json:"degradedMatch"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *findTechnicians.Response) *EligibleTechniciansResponse {
	result := &EligibleTechniciansResponse{
		Technicians:   make([]TechnicianResponse, 0, len(resp.Technicians)),
		DegradedMatch: resp.DegradedMatch,
	}

	for _, c := range resp.Technicians {
		t := c.Technician
		categories := t.ServiceCategories
		if categories == nil {
			categories = []string{}
		}
		result.Technicians = append(result.Technicians, TechnicianResponse{
			ID:                t.ID,
			FullName:          t.FullName,
			Type:              string(t.Type),
			ShopName:          c.ShopName,
			Address:           t.Address,
			Phone:             t.Phone,
			ServiceCategories: categories,
			DistanceKm:        c.DistanceKm,
			WorkingDays:       c.Availability.WorkingDays,
			WorkingHours:      c.Availability.WorkingHours,
			AvailableNow:      c.AvailableNow,
			Rating:            domain.FormatRating(t.RatingAverage),
			RatingCount:       t.RatingCount,
		})
	}

	return result
}
