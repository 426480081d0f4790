package lock

import "fmt"

// UserAppointmentKey ключ блокировки создания записи для пользователя
func UserAppointmentKey(userID int64) string {
	return fmt.Sprintf("lock:appointment:user:%d", userID)
}

// RatingKey ключ блокировки оценки пары (техник, пользователь)
func RatingKey(technicianID, userID int64) string {
	return fmt.Sprintf("lock:rating:%d:%d", technicianID, userID)
}
