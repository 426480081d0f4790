package notifier

import (
	"context"

	"firebase.google.com/go/v4/messaging"
)

// Sender отправка сообщения в FCM (*messaging.Client)
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FailureRecorder учёт неудачных отправок (метрики)
type FailureRecorder interface {
	NotificationFailed(notificationType string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
