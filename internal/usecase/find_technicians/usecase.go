package find_technicians

import (
	"context"
	"errors"
	"fmt"

	userRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/user"
)

// UseCase use case поиска техников рядом с пользователем
type UseCase struct {
	userRepo       UserRepository
	technicianRepo TechnicianRepository
	shopRepo       ShopRepository
	evaluator      AvailabilityEvaluator
	radiusKm       float64
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
// radiusKm <= 0 означает радиус по умолчанию (20 км)
func NewUseCase(
	userRepo UserRepository,
	technicianRepo TechnicianRepository,
	shopRepo ShopRepository,
	evaluator AvailabilityEvaluator,
	radiusKm float64,
	logger Logger,
) *UseCase {
	return &UseCase{
		userRepo:       userRepo,
		technicianRepo: technicianRepo,
		shopRepo:       shopRepo,
		evaluator:      evaluator,
		radiusKm:       radiusKm,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute находит подходящих техников, упорядоченных по расстоянию
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("FindTechnicians: user=%d, category=%q", req.UserID, req.Category)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("FindTechnicians: validation failed: %v", err)
		return nil, err
	}

	// 2. Местоположение пользователя обязательно, каталог без него не запрашиваем
	user, err := uc.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			uc.logger.Warn("FindTechnicians: user id=%d not found", req.UserID)
			return nil, ErrUserNotFound
		}
		uc.logger.Error("FindTechnicians: failed to get user id=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
	}
	if user.Location == nil {
		uc.logger.Warn("FindTechnicians: user id=%d has no location", req.UserID)
		return nil, ErrLocationRequired
	}

	// 3. Получаем одобренных техников
	technicians, err := uc.technicianRepo.GetApproved(ctx)
	if err != nil {
		uc.logger.Error("FindTechnicians: failed to get technicians: %v", err)
		return nil, fmt.Errorf("%w: failed to get technicians: %v", ErrInternal, err)
	}

	// 4. Получаем мастерские для техников типа shop
	shopIDs := make([]int64, 0)
	for _, t := range technicians {
		if t.IsShop() && t.ShopID != nil {
			shopIDs = append(shopIDs, *t.ShopID)
		}
	}
	shops, err := uc.shopRepo.GetByIDs(ctx, shopIDs)
	if err != nil {
		uc.logger.Error("FindTechnicians: failed to get shops: %v", err)
		return nil, fmt.Errorf("%w: failed to get shops: %v", ErrInternal, err)
	}

	// 5. Ранжируем
	result := Rank(RankInput{
		Category:     req.Category,
		UserLocation: user.Location,
		Technicians:  technicians,
		Shops:        shops,
		RadiusKm:     uc.radiusKm,
	})

	if result.DegradedMatch {
		uc.logger.Info("FindTechnicians: no technicians for category %q, showing all approved", req.Category)
	}

	// 6. Описание графика для показа
	now := uc.timeProvider.Now()
	for i := range result.Candidates {
		c := &result.Candidates[i]
		c.Availability = uc.evaluator.Summary(c.WorkingDays, c.WorkingHours)
		c.AvailableNow = uc.evaluator.IsAvailable(now, c.WorkingDays, c.WorkingHours)
	}

	uc.logger.Info("FindTechnicians: found %d technicians for user=%d", len(result.Candidates), req.UserID)

	return &Response{
		Technicians:   result.Candidates,
		DegradedMatch: result.DegradedMatch,
	}, nil
}
