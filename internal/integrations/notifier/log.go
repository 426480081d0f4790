package notifier

import "context"

// LogNotifier пишет уведомления в лог (push отключены в конфигурации)
type LogNotifier struct {
	logger Logger
}

// NewLogNotifier создает notifier без внешней доставки
func NewLogNotifier(logger Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendAppointmentConfirmation(_ context.Context, userID int64, technicianName, formattedDateTime string) error {
	n.logger.Info("LogNotifier: confirmation user=%d technician=%q at %s", userID, technicianName, formattedDateTime)
	return nil
}

func (n *LogNotifier) SendAppointmentCancellation(_ context.Context, technicianID int64, userName, formattedDateTime, reason string) error {
	n.logger.Info("LogNotifier: cancellation technician=%d user=%q at %s, reason=%q", technicianID, userName, formattedDateTime, reason)
	return nil
}
