package dismiss_feedback

import "context"

type AppointmentService interface {
	DismissFeedback(ctx context.Context, id int64, userID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
