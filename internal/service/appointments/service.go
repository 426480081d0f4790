package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-RepairService/internal/service/appointments/models"
)

// Service сервис жизненного цикла записи после её создания
type Service struct {
	appointmentRepo AppointmentRepository
	userRepo        UserRepository
	notifier        Notifier
	formatter       InstantFormatter
	txManager       TransactionManager
	metrics         MetricsRecorder
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	userRepo UserRepository,
	notifier Notifier,
	formatter InstantFormatter,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		notifier:        notifier,
		formatter:       formatter,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Доступ есть у владельца записи и у назначенного техника
func (s *Service) GetByID(ctx context.Context, id int64, requesterID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for requester=%d", id, requesterID)

	appointment, err := s.getAppointment(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if appointment.UserID != requesterID && appointment.TechnicianID != requesterID {
		s.logger.Warn("GetByID: access denied for requester=%d to appointment id=%d", requesterID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(appointment), nil
}

// GetUserAppointments получает записи пользователя
// По умолчанию скрытые записи (после "записаться снова") не возвращаются
func (s *Service) GetUserAppointments(ctx context.Context, req *models.GetUserAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetUserAppointments: fetching appointments for user=%d, status=%v, activeOnly=%t",
		req.UserID, req.Status, req.ActiveOnly)

	if req.RequesterID != req.UserID {
		s.logger.Warn("GetUserAppointments: requester=%d cannot read appointments of user=%d", req.RequesterID, req.UserID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetUserAppointments: invalid filter for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	var appointments []*domain.Appointment
	err = s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		appointments, err = s.appointmentRepo.GetByUser(txCtx, filter)
		return err
	})
	if err != nil {
		s.logger.Error("GetUserAppointments: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserAppointments: successfully fetched %d appointments for user=%d", len(appointments), req.UserID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись по инициативе пользователя
// Возвращает данные для повторного заполнения формы записи
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelRequest) (*models.BookingDraftResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d, reason=%q", id, req.UserID, req.Reason)

	// 1. Валидация причины
	reason := domain.CancellationReason(req.Reason)
	reasonText, err := validateCancellation(reason, req.CustomReason)
	if err != nil {
		s.logger.Warn("Cancel: invalid reason for appointment id=%d: %v", id, err)
		return nil, err
	}

	now := s.timeProvider.Now()
	var cancelled *domain.Appointment

	// 2. Проверка и отмена в одной транзакции (строка блокируется)
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		appointment, err := s.getAppointment(txCtx, "Cancel", id)
		if err != nil {
			return err
		}

		if appointment.UserID != req.UserID {
			s.logger.Warn("Cancel: access denied for user=%d to appointment id=%d", req.UserID, id)
			return ErrAccessDenied
		}

		if appointment.Status.Global.IsCancelled() {
			s.logger.Warn("Cancel: appointment id=%d is already cancelled", id)
			return fmt.Errorf("%w: already cancelled", ErrCannotCancel)
		}

		if !appointment.CanBeCancelled() {
			s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, appointment.Status.Global)
			return fmt.Errorf("%w: status is %s", ErrCannotCancel, appointment.Status.Global)
		}

		status := domain.StatusFor(domain.StatusCancelled)
		if err := s.appointmentRepo.Cancel(txCtx, id, status, reasonText, domain.CancelledByUser, now); err != nil {
			return s.repositoryError("Cancel", id, err)
		}

		cancelled = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", id)
	s.metrics.AppointmentCancelled(string(reason))

	// 3. Уведомление техника (ошибки не влияют на результат)
	s.notifyCancellation(ctx, cancelled, reasonText)

	return models.FromDomainDraft(domain.DraftFrom(cancelled)), nil
}

// RebookAfterRejection скрывает отклонённую запись из активного представления пользователя
// Запись не удаляется: у техника остаётся история
func (s *Service) RebookAfterRejection(ctx context.Context, id int64, userID int64) (*models.BookingDraftResponse, error) {
	s.logger.Info("RebookAfterRejection: appointment id=%d, user=%d", id, userID)

	appointment, err := s.getAppointment(ctx, "RebookAfterRejection", id)
	if err != nil {
		return nil, err
	}

	if appointment.UserID != userID {
		s.logger.Warn("RebookAfterRejection: access denied for user=%d to appointment id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	if !appointment.IsRejected() {
		s.logger.Warn("RebookAfterRejection: appointment id=%d is %s, not rejected", id, appointment.Status.Global)
		return nil, ErrNotRejected
	}

	if !appointment.HiddenFromUser {
		if err := s.appointmentRepo.SetHidden(ctx, id, true); err != nil {
			return nil, s.repositoryError("RebookAfterRejection", id, err)
		}
	}

	draft := domain.DraftFrom(appointment)
	declinedBy := appointment.TechnicianID
	draft.DeclinedByTechnicianID = &declinedBy

	s.logger.Info("RebookAfterRejection: appointment id=%d hidden, draft restored", id)
	return models.FromDomainDraft(draft), nil
}

// Delete удаляет запись безвозвратно
// Только для завершённых записей и только с явным подтверждением
func (s *Service) Delete(ctx context.Context, id int64, req *models.DeleteRequest) error {
	s.logger.Info("Delete: appointment id=%d by user=%d, confirmed=%t", id, req.UserID, req.Confirmed)

	if !req.Confirmed {
		s.logger.Warn("Delete: appointment id=%d deletion not confirmed", id)
		return ErrConfirmationRequired
	}

	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		appointment, err := s.getAppointment(txCtx, "Delete", id)
		if err != nil {
			return err
		}

		if appointment.UserID != req.UserID {
			s.logger.Warn("Delete: access denied for user=%d to appointment id=%d", req.UserID, id)
			return ErrAccessDenied
		}

		if !appointment.IsTerminal() {
			s.logger.Warn("Delete: appointment id=%d is %s, not finished", id, appointment.Status.Global)
			return ErrNotTerminal
		}

		if err := s.appointmentRepo.Delete(txCtx, id); err != nil {
			return s.repositoryError("Delete", id, err)
		}

		s.logger.Info("Delete: appointment id=%d deleted", id)
		return nil
	})
}

// UpdateStatus переводит запись по графу статусов со стороны техника
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: appointment id=%d to status=%s by technician=%d", id, req.Status, req.TechnicianID)

	// 1. Валидация статуса и причины отклонения
	target, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, id)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	var rejectionReason *string
	if target == domain.StatusRejected {
		rejectionReason, err = validateRejectionReason(req.RejectionReason)
		if err != nil {
			s.logger.Warn("UpdateStatus: appointment id=%d: %v", id, err)
			return nil, err
		}
	}

	var updated *domain.Appointment

	// 2. Переход в транзакции (строка блокируется)
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		appointment, err := s.getAppointment(txCtx, "UpdateStatus", id)
		if err != nil {
			return err
		}

		if appointment.TechnicianID != req.TechnicianID {
			s.logger.Warn("UpdateStatus: technician=%d is not assigned to appointment id=%d", req.TechnicianID, id)
			return ErrAccessDenied
		}

		if !domain.CanTransition(appointment.Status.Global, target) {
			s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for appointment id=%d",
				appointment.Status.Global, target, id)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appointment.Status.Global, target)
		}

		status := domain.StatusFor(target)
		if err := s.appointmentRepo.UpdateStatus(txCtx, id, status, rejectionReason); err != nil {
			return s.repositoryError("UpdateStatus", id, err)
		}

		appointment.Status = status
		if rejectionReason != nil {
			appointment.RejectionReason = rejectionReason
		}
		updated = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}

	if target == domain.StatusRejected {
		s.metrics.AppointmentRejected("technician_declined")
	}

	s.logger.Info("UpdateStatus: appointment id=%d is now %s", id, target)
	return models.FromDomainAppointment(updated), nil
}

// DismissFeedback закрывает запрос на отзыв по завершённой записи без оценки
func (s *Service) DismissFeedback(ctx context.Context, id int64, userID int64) error {
	s.logger.Info("DismissFeedback: appointment id=%d, user=%d", id, userID)

	appointment, err := s.getAppointment(ctx, "DismissFeedback", id)
	if err != nil {
		return err
	}

	if appointment.UserID != userID {
		s.logger.Warn("DismissFeedback: access denied for user=%d to appointment id=%d", userID, id)
		return ErrAccessDenied
	}

	if !appointment.AwaitsFeedback() {
		s.logger.Warn("DismissFeedback: appointment id=%d does not await feedback", id)
		return ErrNoPendingFeedback
	}

	if err := s.appointmentRepo.SetHidden(ctx, id, true); err != nil {
		return s.repositoryError("DismissFeedback", id, err)
	}

	s.logger.Info("DismissFeedback: appointment id=%d hidden", id)
	return nil
}

// Вспомогательные методы

func (s *Service) getAppointment(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appointment, nil
}

func (s *Service) repositoryError(op string, id int64, err error) error {
	if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
		s.logger.Warn("%s: appointment id=%d not found during update", op, id)
		return ErrAppointmentNotFound
	}
	s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

// notifyCancellation сообщает технику об отмене: имя пользователя, исходное время визита и причина
func (s *Service) notifyCancellation(ctx context.Context, a *domain.Appointment, reasonText string) {
	userName := "A customer"
	if user, err := s.userRepo.GetByID(ctx, a.UserID); err != nil {
		s.logger.Warn("Cancel: failed to get user id=%d for notification: %v", a.UserID, err)
	} else if strings.TrimSpace(user.FullName) != "" {
		userName = user.FullName
	}

	formatted := s.formatter.FormatInstant(a.ScheduledDate)
	if err := s.notifier.SendAppointmentCancellation(ctx, a.TechnicianID, userName, formatted, reasonText); err != nil {
		s.logger.Warn("Cancel: failed to notify technician id=%d: %v", a.TechnicianID, err)
	}
}
