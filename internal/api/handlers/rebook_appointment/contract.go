package rebook_appointment

import (
	"context"

	"github.com/m04kA/SMC-RepairService/internal/service/appointments/models"
)

type AppointmentService interface {
	RebookAfterRejection(ctx context.Context, id int64, userID int64) (*models.BookingDraftResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
