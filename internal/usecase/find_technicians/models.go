package find_technicians

import (
	"github.com/m04kA/SMC-RepairService/internal/domain"
)

// Request модель запроса на поиск техников
type Request struct {
	UserID   int64  // ID пользователя (источник местоположения)
	Category string // Категория диагноза (например, "Aircon")
}

// Response модель ответа с упорядоченным списком техников
type Response struct {
	Technicians []Candidate
	// DegradedMatch true, если по категории никто не нашёлся и фильтр категории был снят
	DegradedMatch bool
}

// Candidate техник с разрешёнными данными мастерской и расстоянием до пользователя
type Candidate struct {
	Technician *domain.Technician // Копия с применёнными данными мастерской

	ShopName     *string
	WorkingDays  []string
	WorkingHours domain.WorkingHours

	// DistanceKm nil, если расстояние не определено (нет координат)
	DistanceKm *float64

	Availability domain.AvailabilitySummary
	AvailableNow bool
}

// RankInput входные данные ранжирования
type RankInput struct {
	Category     string
	UserLocation *domain.Location // nil - расстояние не определено
	Technicians  []*domain.Technician
	Shops        map[int64]*domain.Shop
	RadiusKm     float64 // <= 0 - domain.EligibilityRadiusKm
}

// RankResult результат ранжирования
type RankResult struct {
	Candidates    []Candidate
	DegradedMatch bool
}
