package find_technicians

import (
	"sort"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	"github.com/m04kA/SMC-RepairService/pkg/geo"
)

// Rank отбирает и упорядочивает техников для записи
//
// Шаги выполняются строго по порядку, каждый отдельной функцией:
//  1. approvedOnly          - только одобренные модерацией
//  2. matchCategory         - категория совпадает, "All" или категории не указаны
//  3. fallbackToApproved    - если шаг 2 пуст, берём всех одобренных (деградированный поиск)
//  4. resolveCandidates     - данные мастерской вместо данных техника, расстояние
//  5. excludeRestricted     - без suspended/banned/blocked/deleted
//  6. withinRadius          - расстояние <= радиуса; неопределённое расстояние проходит
//  7. sortByDistance        - по возрастанию, неопределённые в конце, стабильно
func Rank(in RankInput) RankResult {
	radius := in.RadiusKm
	if radius <= 0 {
		radius = domain.EligibilityRadiusKm
	}

	approved := approvedOnly(in.Technicians)

	matched := matchCategory(approved, in.Category)
	degraded := false
	if len(matched) == 0 {
		matched = fallbackToApproved(approved)
		degraded = len(matched) > 0
	}

	candidates := resolveCandidates(matched, in.Shops, in.UserLocation)
	candidates = excludeRestricted(candidates)
	candidates = withinRadius(candidates, radius)
	sortByDistance(candidates)

	return RankResult{
		Candidates:    candidates,
		DegradedMatch: degraded,
	}
}

func approvedOnly(technicians []*domain.Technician) []*domain.Technician {
	result := make([]*domain.Technician, 0, len(technicians))
	for _, t := range technicians {
		if t != nil && t.IsApproved() {
			result = append(result, t)
		}
	}
	return result
}

// matchCategory политика "wildcard": пустой список категорий или "All" подходит под любую категорию
func matchCategory(technicians []*domain.Technician, category string) []*domain.Technician {
	result := make([]*domain.Technician, 0, len(technicians))
	for _, t := range technicians {
		if t.HandlesCategory(category) {
			result = append(result, t)
		}
	}
	return result
}

// fallbackToApproved политика "деградированный поиск": лучше показать кого-то, чем никого
func fallbackToApproved(approved []*domain.Technician) []*domain.Technician {
	return approved
}

func resolveCandidates(technicians []*domain.Technician, shops map[int64]*domain.Shop, userLocation *domain.Location) []Candidate {
	result := make([]Candidate, 0, len(technicians))
	for _, t := range technicians {
		c := applyShop(t, shops)
		c.DistanceKm = distanceTo(userLocation, c.Technician.Location)
		result = append(result, c)
	}
	return result
}

// applyShop для техника мастерской данные мастерской (название, адрес, дни, часы) главнее
func applyShop(t *domain.Technician, shops map[int64]*domain.Shop) Candidate {
	resolved := *t
	c := Candidate{Technician: &resolved}

	if t.IsShop() && t.ShopID != nil {
		if shop, ok := shops[*t.ShopID]; ok && shop != nil {
			if shop.Name != "" {
				name := shop.Name
				c.ShopName = &name
			}
			if shop.Address != "" {
				resolved.Address = shop.Address
			}
			if len(shop.WorkingDays) > 0 {
				resolved.WorkingDays = shop.WorkingDays
			}
			if !shop.WorkingHours.IsEmpty() {
				resolved.WorkingHours = shop.WorkingHours
			}
		}
	}

	c.WorkingDays = resolved.WorkingDays
	c.WorkingHours = resolved.WorkingHours
	return c
}

func distanceTo(from, to *domain.Location) *float64 {
	if from == nil || to == nil {
		return nil
	}
	d := geo.DistanceKm(from.Latitude, from.Longitude, to.Latitude, to.Longitude)
	return &d
}

func excludeRestricted(candidates []Candidate) []Candidate {
	result := candidates[:0]
	for _, c := range candidates {
		if !c.Technician.IsRestricted() {
			result = append(result, c)
		}
	}
	return result
}

func withinRadius(candidates []Candidate, radiusKm float64) []Candidate {
	result := candidates[:0]
	for _, c := range candidates {
		if c.DistanceKm == nil || *c.DistanceKm <= radiusKm {
			result = append(result, c)
		}
	}
	return result
}

func sortByDistance(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].DistanceKm, candidates[j].DistanceKm
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
}
