package submit_rating

import "errors"

var (
	// ErrInvalidRating возвращается, когда оценка не целое число от 1 до 5
	ErrInvalidRating = errors.New("submit_rating: rating must be an integer between 1 and 5")

	// ErrTechnicianNotFound возвращается, когда техник не найден
	ErrTechnicianNotFound = errors.New("submit_rating: technician not found")

	// ErrAppointmentNotFound возвращается, когда указанная запись не найдена
	ErrAppointmentNotFound = errors.New("submit_rating: appointment not found")

	// ErrAppointmentMismatch возвращается, когда запись принадлежит другому пользователю или технику
	ErrAppointmentMismatch = errors.New("submit_rating: appointment does not belong to this user and technician")

	// ErrAppointmentNotCompleted возвращается, когда запись ещё не завершена
	ErrAppointmentNotCompleted = errors.New("submit_rating: appointment is not completed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("submit_rating: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("submit_rating: internal error")
)
