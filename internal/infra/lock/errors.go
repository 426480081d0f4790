package lock

import "errors"

var (
	// ErrNotAcquired возвращается, когда блокировку не удалось получить за отведённое время
	ErrNotAcquired = errors.New("lock: not acquired")

	// ErrBackend возвращается при ошибке хранилища блокировок (Redis)
	ErrBackend = errors.New("lock: backend error")
)
