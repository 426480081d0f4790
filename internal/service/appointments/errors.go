package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointments: appointment not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на запись
	ErrAccessDenied = errors.New("appointments: access denied")

	// ErrCannotCancel возвращается, когда запись уже нельзя отменить
	ErrCannotCancel = errors.New("appointments: appointment cannot be cancelled")

	// ErrInvalidReason возвращается при неизвестной причине отмены или пустом тексте для "Others"
	ErrInvalidReason = errors.New("appointments: invalid cancellation reason")

	// ErrNotRejected возвращается, когда повторная запись запрошена для неотклонённой записи
	ErrNotRejected = errors.New("appointments: appointment was not rejected")

	// ErrNotTerminal возвращается при попытке удалить незавершённую запись
	ErrNotTerminal = errors.New("appointments: only finished appointments can be deleted")

	// ErrConfirmationRequired возвращается, когда удаление не подтверждено пользователем
	ErrConfirmationRequired = errors.New("appointments: deletion must be confirmed")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("appointments: invalid status transition")

	// ErrRejectionReasonRequired возвращается при отклонении без причины
	ErrRejectionReasonRequired = errors.New("appointments: rejection reason is required")

	// ErrNoPendingFeedback возвращается, когда у записи нет ожидающего отзыва
	ErrNoPendingFeedback = errors.New("appointments: appointment does not await feedback")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("appointments: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments: internal error")
)
