package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	"github.com/m04kA/SMC-RepairService/internal/infra/lock"
	shopRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/shop"
	technicianRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/technician"
)

// UseCase use case для создания записи на ремонт
type UseCase struct {
	appointmentRepo AppointmentRepository
	technicianRepo  TechnicianRepository
	shopRepo        ShopRepository
	evaluator       AvailabilityEvaluator
	locker          Locker
	txManager       TransactionManager
	notifier        Notifier
	metrics         MetricsRecorder
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	technicianRepo TechnicianRepository,
	shopRepo ShopRepository,
	evaluator AvailabilityEvaluator,
	locker Locker,
	txManager TransactionManager,
	notifier Notifier,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		technicianRepo:  technicianRepo,
		shopRepo:        shopRepo,
		evaluator:       evaluator,
		locker:          locker,
		txManager:       txManager,
		notifier:        notifier,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
// Проверка "одна активная запись" и создание выполняются под блокировкой пользователя
// в сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: user=%d, technician=%d, scheduled=%s, serviceType=%s",
		req.UserID, req.TechnicianID, req.ScheduledDate.UTC().Format("2006-01-02T15:04Z"), req.ServiceType)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		uc.metrics.AppointmentRejected("invalid_input")
		return nil, err
	}

	// 2. Время визита должно быть в будущем
	now := uc.timeProvider.Now()
	if err := validateSchedule(req.ScheduledDate, now); err != nil {
		uc.logger.Warn("CreateAppointment: scheduled date %s is not after now %s", req.ScheduledDate, now)
		uc.metrics.AppointmentRejected("invalid_schedule")
		return nil, err
	}

	// 3. Получаем техника
	technician, err := uc.technicianRepo.GetByID(ctx, req.TechnicianID)
	if err != nil {
		if errors.Is(err, technicianRepo.ErrTechnicianNotFound) {
			uc.logger.Warn("CreateAppointment: technician id=%d not found", req.TechnicianID)
			uc.metrics.AppointmentRejected("technician_not_found")
			return nil, ErrTechnicianNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get technician id=%d: %v", req.TechnicianID, err)
		return nil, fmt.Errorf("%w: failed to get technician: %v", ErrInternal, err)
	}
	if !technician.IsApproved() || technician.IsRestricted() {
		uc.logger.Warn("CreateAppointment: technician id=%d is not bookable (approval=%s, restricted=%t)",
			technician.ID, technician.ApprovalStatus, technician.IsRestricted())
		uc.metrics.AppointmentRejected("technician_unavailable")
		return nil, ErrTechnicianUnavailable
	}

	// 4. Для техника мастерской график берём из мастерской
	shop, err := uc.getShop(ctx, technician)
	if err != nil {
		return nil, err
	}
	workingDays, workingHours, technicianName := resolveSchedule(technician, shop)

	// 5. Проверяем рабочий день и рабочее время
	if !uc.evaluator.IsDayAvailable(req.ScheduledDate, workingDays) {
		uc.logger.Warn("CreateAppointment: technician id=%d does not work on %s",
			technician.ID, uc.evaluator.FormatInstant(req.ScheduledDate))
		uc.metrics.AppointmentRejected("day_unavailable")
		return nil, &AvailabilityError{
			Reason:  ErrDayUnavailable,
			Summary: uc.evaluator.Summary(workingDays, workingHours),
		}
	}
	if !uc.evaluator.IsTimeAvailable(req.ScheduledDate, workingHours) {
		uc.logger.Warn("CreateAppointment: technician id=%d is not working at %s",
			technician.ID, uc.evaluator.FormatInstant(req.ScheduledDate))
		uc.metrics.AppointmentRejected("time_unavailable")
		return nil, &AvailabilityError{
			Reason:  ErrTimeUnavailable,
			Summary: uc.evaluator.Summary(workingDays, workingHours),
		}
	}

	// Переменные для хранения результата
	var (
		result             *domain.Appointment
		previouslyDeclined bool
	)

	// 6. Проверка активных записей и создание под блокировкой пользователя в транзакции
	err = uc.locker.WithLock(ctx, lock.UserAppointmentKey(req.UserID), func(lockCtx context.Context) error {
		return uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			// 6.1. Все видимые записи пользователя
			appointments, err := uc.appointmentRepo.GetByUser(txCtx, domain.UserAppointmentsFilter{UserID: req.UserID})
			if err != nil {
				uc.logger.Error("CreateAppointment: failed to get user appointments: %v", err)
				return fmt.Errorf("%w: failed to get user appointments: %v", ErrInternal, err)
			}

			// 6.2. Одна активная запись и закрытый отзыв
			if err := checkUserAppointments(appointments); err != nil {
				uc.logger.Warn("CreateAppointment: user=%d: %v", req.UserID, err)
				return err
			}

			// 6.3. Отклонял ли этот техник пользователя раньше (включая скрытые записи)
			declined, err := uc.appointmentRepo.GetByUser(txCtx, domain.UserAppointmentsFilter{
				UserID:        req.UserID,
				Statuses:      []domain.AppointmentStatus{domain.StatusRejected},
				TechnicianID:  &req.TechnicianID,
				IncludeHidden: true,
			})
			if err != nil {
				uc.logger.Error("CreateAppointment: failed to get declined appointments: %v", err)
				return fmt.Errorf("%w: failed to get declined appointments: %v", ErrInternal, err)
			}
			previouslyDeclined = len(declined) > 0

			// 6.4. Создаем запись со снимком диагноза
			appointment := &domain.Appointment{
				UserID:         req.UserID,
				TechnicianID:   req.TechnicianID,
				ServiceType:    req.ServiceType,
				ScheduledDate:  req.ScheduledDate,
				Status:         domain.StatusFor(domain.StatusScheduled),
				CancelDeadline: domain.CancelDeadlineFor(req.ScheduledDate),
				Diagnosis:      req.Diagnosis,
			}

			created, err := uc.appointmentRepo.Create(txCtx, appointment)
			if err != nil {
				uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
				return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
			}

			result = created
			return nil
		})
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateActiveAppointment):
			uc.metrics.AppointmentRejected("duplicate_active")
		case errors.Is(err, ErrPendingFeedback):
			uc.metrics.AppointmentRejected("pending_feedback")
		case errors.Is(err, lock.ErrNotAcquired), errors.Is(err, lock.ErrBackend):
			uc.logger.Error("CreateAppointment: failed to lock user=%d: %v", req.UserID, err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d (previouslyDeclined=%t)",
		result.ID, previouslyDeclined)
	uc.metrics.AppointmentCreated(string(result.ServiceType))

	// 7. Уведомление о подтверждении (ошибки не влияют на результат)
	formatted := uc.evaluator.FormatInstant(result.ScheduledDate)
	if err := uc.notifier.SendAppointmentConfirmation(ctx, result.UserID, technicianName, formatted); err != nil {
		uc.logger.Warn("CreateAppointment: failed to send confirmation for appointment id=%d: %v", result.ID, err)
	}

	return &Response{
		Appointment:        result,
		PreviouslyDeclined: previouslyDeclined,
	}, nil
}

// getShop получает мастерскую техника; отсутствие мастерской не ошибка
func (uc *UseCase) getShop(ctx context.Context, technician *domain.Technician) (*domain.Shop, error) {
	if !technician.IsShop() || technician.ShopID == nil {
		return nil, nil
	}

	shop, err := uc.shopRepo.GetByID(ctx, *technician.ShopID)
	if err != nil {
		if errors.Is(err, shopRepo.ErrShopNotFound) {
			uc.logger.Warn("CreateAppointment: shop id=%d of technician id=%d not found, using technician schedule",
				*technician.ShopID, technician.ID)
			return nil, nil
		}
		uc.logger.Error("CreateAppointment: failed to get shop id=%d: %v", *technician.ShopID, err)
		return nil, fmt.Errorf("%w: failed to get shop: %v", ErrInternal, err)
	}

	return shop, nil
}
