package submit_rating

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	"github.com/m04kA/SMC-RepairService/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/appointment"
	ratingRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/rating"
	technicianRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/technician"
)

// UseCase use case для оценки техника
type UseCase struct {
	ratingRepo      RatingRepository
	technicianRepo  TechnicianRepository
	appointmentRepo AppointmentRepository
	locker          Locker
	txManager       TransactionManager
	metrics         MetricsRecorder
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	ratingRepo RatingRepository,
	technicianRepo TechnicianRepository,
	appointmentRepo AppointmentRepository,
	locker Locker,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		ratingRepo:      ratingRepo,
		technicianRepo:  technicianRepo,
		appointmentRepo: appointmentRepo,
		locker:          locker,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute сохраняет оценку и пересчитывает рейтинг техника
// Повторная оценка того же пользователя обновляет прежнюю, количество оценок не меняется
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SubmitRating: technician=%d, user=%d, rating=%d", req.TechnicianID, req.UserID, req.Rating)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SubmitRating: validation failed: %v", err)
		return nil, err
	}

	var result *Response

	// 2. Чтение и запись оценки под блокировкой пары (техник, пользователь) в транзакции
	err := uc.locker.WithLock(ctx, lock.RatingKey(req.TechnicianID, req.UserID), func(lockCtx context.Context) error {
		return uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			// 2.1. Агрегат техника (строка блокируется до коммита)
			stats, err := uc.technicianRepo.GetRatingStats(txCtx, req.TechnicianID)
			if err != nil {
				if errors.Is(err, technicianRepo.ErrTechnicianNotFound) {
					uc.logger.Warn("SubmitRating: technician id=%d not found", req.TechnicianID)
					return ErrTechnicianNotFound
				}
				uc.logger.Error("SubmitRating: failed to get rating stats: %v", err)
				return fmt.Errorf("%w: failed to get rating stats: %v", ErrInternal, err)
			}

			// 2.2. Привязанная запись должна быть завершена
			if req.AppointmentID != nil {
				if err := uc.verifyAppointment(txCtx, req); err != nil {
					return err
				}
			}

			// 2.3. Новая оценка или обновление существующей
			existing, err := uc.ratingRepo.GetByTechnicianAndUser(txCtx, req.TechnicianID, req.UserID)
			if err != nil && !errors.Is(err, ratingRepo.ErrRatingNotFound) {
				uc.logger.Error("SubmitRating: failed to get existing rating: %v", err)
				return fmt.Errorf("%w: failed to get existing rating: %v", ErrInternal, err)
			}

			var (
				saved *domain.Rating
				kind  string
			)
			if existing != nil {
				oldValue := existing.Value
				existing.Value = req.Rating
				existing.Comment = req.Comment
				if req.AppointmentID != nil {
					existing.AppointmentID = req.AppointmentID
				}
				existing.UpdatedAt = uc.timeProvider.Now()

				if err := uc.ratingRepo.Update(txCtx, existing); err != nil {
					uc.logger.Error("SubmitRating: failed to update rating id=%d: %v", existing.ID, err)
					return fmt.Errorf("%w: failed to update rating: %v", ErrInternal, err)
				}
				saved = existing
				kind = KindUpdate
				stats = stats.ReplaceRating(oldValue, req.Rating)
			} else {
				created, err := uc.ratingRepo.Create(txCtx, &domain.Rating{
					TechnicianID:  req.TechnicianID,
					UserID:        req.UserID,
					Value:         req.Rating,
					Comment:       req.Comment,
					AppointmentID: req.AppointmentID,
				})
				if err != nil {
					uc.logger.Error("SubmitRating: failed to create rating: %v", err)
					return fmt.Errorf("%w: failed to create rating: %v", ErrInternal, err)
				}
				saved = created
				kind = KindNew
				stats = stats.AddRating(req.Rating)
			}

			// 2.4. Сохраняем пересчитанный агрегат
			if err := uc.technicianRepo.UpdateRatingStats(txCtx, req.TechnicianID, stats); err != nil {
				uc.logger.Error("SubmitRating: failed to update rating stats: %v", err)
				return fmt.Errorf("%w: failed to update rating stats: %v", ErrInternal, err)
			}

			// 2.5. Отмечаем запись как оценённую
			if req.AppointmentID != nil {
				if err := uc.appointmentRepo.MarkRated(txCtx, *req.AppointmentID, req.Rating); err != nil {
					uc.logger.Error("SubmitRating: failed to mark appointment id=%d rated: %v", *req.AppointmentID, err)
					return fmt.Errorf("%w: failed to mark appointment rated: %v", ErrInternal, err)
				}
			}

			result = &Response{Rating: saved, Stats: stats, Kind: kind}
			return nil
		})
	})

	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) || errors.Is(err, lock.ErrBackend) {
			uc.logger.Error("SubmitRating: failed to lock technician=%d user=%d: %v", req.TechnicianID, req.UserID, err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		return nil, err
	}

	uc.logger.Info("SubmitRating: %s rating id=%d saved, technician=%d average=%s count=%d",
		result.Kind, result.Rating.ID, req.TechnicianID, domain.FormatRating(result.Stats.Average), result.Stats.Count)
	uc.metrics.RatingSubmitted(result.Kind)

	return result, nil
}

// verifyAppointment проверяет привязанную к оценке запись
func (uc *UseCase) verifyAppointment(ctx context.Context, req *Request) error {
	appointment, err := uc.appointmentRepo.GetByID(ctx, *req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("SubmitRating: appointment id=%d not found", *req.AppointmentID)
			return ErrAppointmentNotFound
		}
		uc.logger.Error("SubmitRating: failed to get appointment id=%d: %v", *req.AppointmentID, err)
		return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	if err := checkAppointment(appointment, req); err != nil {
		uc.logger.Warn("SubmitRating: appointment id=%d rejected: %v", appointment.ID, err)
		return err
	}

	return nil
}
