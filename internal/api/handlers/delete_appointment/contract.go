package delete_appointment

import (
	"context"

	"github.com/m04kA/SMC-RepairService/internal/service/appointments/models"
)

type AppointmentService interface {
	Delete(ctx context.Context, id int64, req *models.DeleteRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
