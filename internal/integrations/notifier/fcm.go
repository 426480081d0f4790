package notifier

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// FCMNotifier отправляет push-уведомления через Firebase Cloud Messaging
type FCMNotifier struct {
	sender Sender
	logger Logger
}

// NewFCMNotifier инициализирует Firebase по файлу service account
func NewFCMNotifier(ctx context.Context, credentialsFile string, logger Logger) (*FCMNotifier, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("%w: new app: %v", ErrInit, err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: messaging client: %v", ErrInit, err)
	}

	return NewFCMNotifierWithSender(client, logger), nil
}

// NewFCMNotifierWithSender создает notifier поверх готового отправителя
func NewFCMNotifierWithSender(sender Sender, logger Logger) *FCMNotifier {
	return &FCMNotifier{sender: sender, logger: logger}
}

// SendAppointmentConfirmation уведомляет пользователя о созданной записи
func (n *FCMNotifier) SendAppointmentConfirmation(ctx context.Context, userID int64, technicianName, formattedDateTime string) error {
	id, err := n.sender.Send(ctx, confirmationMessage(userID, technicianName, formattedDateTime))
	if err != nil {
		return fmt.Errorf("%w: confirmation for user=%d: %v", ErrSend, userID, err)
	}

	n.logger.Info("FCMNotifier: confirmation sent to user=%d, message=%s", userID, id)
	return nil
}

// SendAppointmentCancellation уведомляет техника об отмене записи пользователем
func (n *FCMNotifier) SendAppointmentCancellation(ctx context.Context, technicianID int64, userName, formattedDateTime, reason string) error {
	id, err := n.sender.Send(ctx, cancellationMessage(technicianID, userName, formattedDateTime, reason))
	if err != nil {
		return fmt.Errorf("%w: cancellation for technician=%d: %v", ErrSend, technicianID, err)
	}

	n.logger.Info("FCMNotifier: cancellation sent to technician=%d, message=%s", technicianID, id)
	return nil
}
