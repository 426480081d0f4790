package find_technicians

import (
	"context"

	findTechnicians "github.com/m04kA/SMC-RepairService/internal/usecase/find_technicians"
)

type FindTechniciansUseCase interface {
	Execute(ctx context.Context, req *findTechnicians.Request) (*findTechnicians.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
