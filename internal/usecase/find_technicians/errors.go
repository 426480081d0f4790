package find_technicians

import "errors"

var (
	// ErrLocationRequired возвращается, когда у пользователя не указано местоположение
	// Проверяется до любого запроса к каталогу техников
	ErrLocationRequired = errors.New("find_technicians: user location is required")

	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("find_technicians: user not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("find_technicians: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("find_technicians: internal error")
)
