package notifier

import (
	"context"
	"sync"
	"time"
)

// DefaultSendTimeout ограничение на одну отправку в фоне
const DefaultSendTimeout = 10 * time.Second

// Notifier доставка уведомлений о записях
type Notifier interface {
	SendAppointmentConfirmation(ctx context.Context, userID int64, technicianName, formattedDateTime string) error
	SendAppointmentCancellation(ctx context.Context, technicianID int64, userName, formattedDateTime, reason string) error
}

// Async отправляет уведомления в фоне и никогда не возвращает ошибку вызывающему.
// Ошибки доставки логируются и учитываются в метриках.
type Async struct {
	next     Notifier
	timeout  time.Duration
	recorder FailureRecorder
	logger   Logger
	wg       sync.WaitGroup
}

// NewAsync оборачивает notifier фоновой отправкой
func NewAsync(next Notifier, timeout time.Duration, recorder FailureRecorder, logger Logger) *Async {
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	return &Async{
		next:     next,
		timeout:  timeout,
		recorder: recorder,
		logger:   logger,
	}
}

func (a *Async) SendAppointmentConfirmation(ctx context.Context, userID int64, technicianName, formattedDateTime string) error {
	a.dispatch(ctx, TypeAppointmentConfirmation, func(sendCtx context.Context) error {
		return a.next.SendAppointmentConfirmation(sendCtx, userID, technicianName, formattedDateTime)
	})
	return nil
}

func (a *Async) SendAppointmentCancellation(ctx context.Context, technicianID int64, userName, formattedDateTime, reason string) error {
	a.dispatch(ctx, TypeAppointmentCancellation, func(sendCtx context.Context) error {
		return a.next.SendAppointmentCancellation(sendCtx, technicianID, userName, formattedDateTime, reason)
	})
	return nil
}

// Wait дожидается завершения всех фоновых отправок (graceful shutdown)
func (a *Async) Wait() {
	a.wg.Wait()
}

func (a *Async) dispatch(ctx context.Context, notificationType string, send func(ctx context.Context) error) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		// Отправка не должна обрываться вместе с HTTP запросом
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
		defer cancel()

		if err := send(sendCtx); err != nil {
			a.logger.Error("AsyncNotifier: %s failed: %v", notificationType, err)
			if a.recorder != nil {
				a.recorder.NotificationFailed(notificationType)
			}
		}
	}()
}
