package submit_rating

import "github.com/m04kA/SMC-RepairService/internal/domain"

const (
	// KindNew первая оценка пользователя для техника
	KindNew = "new"
	// KindUpdate повторная оценка перезаписывает прежнюю
	KindUpdate = "update"
)

// Request модель запроса на оценку техника
type Request struct {
	TechnicianID  int64
	UserID        int64
	Rating        int
	Comment       *string
	AppointmentID *int64 // Необязательная ссылка на завершённую запись
}

// Response результат оценки
type Response struct {
	Rating *domain.Rating
	Stats  domain.RatingStats // Агрегат техника после оценки
	Kind   string             // KindNew | KindUpdate
}
