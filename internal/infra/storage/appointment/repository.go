package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	"github.com/m04kA/SMC-RepairService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RepairService/pkg/psqlbuilder"
)

const table = "appointments"

// columns порядок колонок совпадает с порядком полей в scanAppointment
var columns = []string{
	"id",
	"user_id",
	"technician_id",
	"service_type",
	"scheduled_date",
	"status",
	"status_user_view",
	"status_technician_view",
	"cancel_deadline",
	"diagnosis_category",
	"diagnosis_brand",
	"diagnosis_model",
	"diagnosis_issue",
	"diagnosis_text",
	"estimated_cost",
	"is_custom_issue",
	"cancellation_reason",
	"cancelled_by",
	"cancelled_at",
	"rejection_reason",
	"rated",
	"user_rating",
	"hidden_from_user",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями на ремонт
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"user_id",
			"technician_id",
			"service_type",
			"scheduled_date",
			"status",
			"status_user_view",
			"status_technician_view",
			"cancel_deadline",
			"diagnosis_category",
			"diagnosis_brand",
			"diagnosis_model",
			"diagnosis_issue",
			"diagnosis_text",
			"estimated_cost",
			"is_custom_issue",
		).
		Values(
			a.UserID,
			a.TechnicianID,
			a.ServiceType,
			a.ScheduledDate,
			a.Status.Global,
			a.Status.UserView,
			a.Status.TechnicianView,
			a.CancelDeadline,
			a.Diagnosis.Category,
			a.Diagnosis.Brand,
			a.Diagnosis.Model,
			a.Diagnosis.Issue,
			a.Diagnosis.DiagnosisText,
			a.Diagnosis.EstimatedCost,
			a.Diagnosis.IsCustomIssue,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&a.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	// Внутри транзакции блокируем строку, чтобы переход статуса был атомарным
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return a, nil
}

// GetByUser получает записи пользователя с фильтрацией
// Сортировка: сначала ближайшие по дате визита
//
// Примеры:
//
//  1. Активные (не терминальные) записи:
//     filter := domain.UserAppointmentsFilter{UserID: 1, ExcludeStatus: domain.TerminalStatuses}
//
//  2. Завершённые записи, включая скрытые:
//     filter := domain.UserAppointmentsFilter{UserID: 1, Statuses: []domain.AppointmentStatus{domain.StatusCompleted}, IncludeHidden: true}
func (r *Repository) GetByUser(ctx context.Context, filter domain.UserAppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"user_id": filter.UserID})

	if len(filter.Statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(filter.Statuses)})
	}
	if len(filter.ExcludeStatus) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": statusStrings(filter.ExcludeStatus)})
	}
	if filter.TechnicianID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"technician_id": *filter.TechnicianID})
	}
	if !filter.IncludeHidden {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"hidden_from_user": false})
	}

	query, args, err := selectBuilder.OrderBy("scheduled_date DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// UpdateStatus обновляет статус записи (переходы на стороне техника)
// rejectionReason сохраняется только если не nil
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.Status, rejectionReason *string) error {
	updateBuilder := psqlbuilder.Update(table).
		Set("status", status.Global).
		Set("status_user_view", status.UserView).
		Set("status_technician_view", status.TechnicianView).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if rejectionReason != nil {
		updateBuilder = updateBuilder.Set("rejection_reason", *rejectionReason)
	}

	return r.execUpdate(ctx, "UpdateStatus", updateBuilder)
}

// Cancel отменяет запись с указанием причины и инициатора
func (r *Repository) Cancel(ctx context.Context, id int64, status domain.Status, reason string, by domain.CancelledBy, at time.Time) error {
	updateBuilder := psqlbuilder.Update(table).
		Set("status", status.Global).
		Set("status_user_view", status.UserView).
		Set("status_technician_view", status.TechnicianView).
		Set("cancellation_reason", reason).
		Set("cancelled_by", by).
		Set("cancelled_at", at).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	return r.execUpdate(ctx, "Cancel", updateBuilder)
}

// SetHidden скрывает запись из активного представления пользователя (запись не удаляется)
func (r *Repository) SetHidden(ctx context.Context, id int64, hidden bool) error {
	updateBuilder := psqlbuilder.Update(table).
		Set("hidden_from_user", hidden).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	return r.execUpdate(ctx, "SetHidden", updateBuilder)
}

// MarkRated отмечает запись как оценённую
func (r *Repository) MarkRated(ctx context.Context, id int64, rating int) error {
	updateBuilder := psqlbuilder.Update(table).
		Set("rated", true).
		Set("user_rating", rating).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	return r.execUpdate(ctx, "MarkRated", updateBuilder)
}

// Delete удаляет запись (физическое удаление, необратимо)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return execAffectingOne(ctx, executor, "Delete", query, args)
}

func (r *Repository) execUpdate(ctx context.Context, op string, b squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	return execAffectingOne(ctx, executor, op, query, args)
}

func execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanAppointment сканирует одну строку в модель
func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var (
		createdAt, updatedAt sql.NullTime
		cancelledBy          sql.NullString
		userRating           sql.NullInt64
	)

	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.TechnicianID,
		&a.ServiceType,
		&a.ScheduledDate,
		&a.Status.Global,
		&a.Status.UserView,
		&a.Status.TechnicianView,
		&a.CancelDeadline,
		&a.Diagnosis.Category,
		&a.Diagnosis.Brand,
		&a.Diagnosis.Model,
		&a.Diagnosis.Issue,
		&a.Diagnosis.DiagnosisText,
		&a.Diagnosis.EstimatedCost,
		&a.Diagnosis.IsCustomIssue,
		&a.CancellationReason,
		&cancelledBy,
		&a.CancelledAt,
		&a.RejectionReason,
		&a.Rated,
		&userRating,
		&a.HiddenFromUser,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if cancelledBy.Valid {
		by := domain.CancelledBy(cancelledBy.String)
		a.CancelledBy = &by
	}
	if userRating.Valid {
		rating := int(userRating.Int64)
		a.UserRating = &rating
	}
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

func statusStrings(statuses []domain.AppointmentStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}
