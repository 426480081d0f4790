package rating

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	"github.com/m04kA/SMC-RepairService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RepairService/pkg/psqlbuilder"
)

const (
	table = "ratings"

	// uniqueViolation код ошибки PostgreSQL для нарушения UNIQUE
	uniqueViolation = "23505"
)

var columns = []string{
	"id",
	"technician_id",
	"user_id",
	"value",
	"comment",
	"appointment_id",
	"created_at",
	"updated_at",
}

// Repository репозиторий оценок техников
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория оценок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByTechnicianAndUser получает оценку пользователя для техника
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByTechnicianAndUser(ctx context.Context, technicianID, userID int64) (*domain.Rating, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"technician_id": technicianID, "user_id": userID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTechnicianAndUser - build select query: %v", ErrBuildQuery, err)
	}

	var (
		rt            domain.Rating
		comment       sql.NullString
		appointmentID sql.NullInt64
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rt.ID,
		&rt.TechnicianID,
		&rt.UserID,
		&rt.Value,
		&comment,
		&appointmentID,
		&rt.CreatedAt,
		&rt.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRatingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTechnicianAndUser - scan rating: %v", ErrScanRow, err)
	}

	if comment.Valid {
		rt.Comment = &comment.String
	}
	if appointmentID.Valid {
		id := appointmentID.Int64
		rt.AppointmentID = &id
	}

	return &rt, nil
}

// Create сохраняет новую оценку
func (r *Repository) Create(ctx context.Context, rt *domain.Rating) (*domain.Rating, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("technician_id", "user_id", "value", "comment", "appointment_id").
		Values(rt.TechnicianID, rt.UserID, rt.Value, rt.Comment, rt.AppointmentID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&rt.ID, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateRating
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return rt, nil
}

// Update перезаписывает значение и комментарий существующей оценки
func (r *Repository) Update(ctx context.Context, rt *domain.Rating) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("value", rt.Value).
		Set("comment", rt.Comment).
		Set("appointment_id", rt.AppointmentID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": rt.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrRatingNotFound
	}

	return nil
}
