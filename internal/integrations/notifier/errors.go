package notifier

import "errors"

var (
	// ErrInit возвращается, когда не удалось инициализировать Firebase
	ErrInit = errors.New("notifier: failed to initialize firebase messaging")

	// ErrSend возвращается при ошибке отправки уведомления
	ErrSend = errors.New("notifier: failed to send notification")
)
