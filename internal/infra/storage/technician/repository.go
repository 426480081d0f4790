package technician

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

const table = "technicians"

// columns порядок колонок совпадает с порядком полей в scanTechnician
var columns = []string{
	"id",
	"username",
	"full_name",
	"phone",
	"address",
	"latitude",
	"longitude",
	"type",
	"shop_id",
	"service_categories",
	"working_days",
	"working_hours",
	"approval_status",
	"suspended",
	"banned",
	"blocked",
	"deleted",
	"rating_average",
	"rating_count",
}

// Repository репозиторий для работы с техниками
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория техников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает техника по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Technician, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	t, err := scanTechnician(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTechnicianNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan technician: %v", ErrScanRow, err)
	}

	return t, nil
}

// GetApproved получает всех одобренных модерацией техников.
// Ограничения (suspended/banned/...) не фильтруются: это делает ранжирование.
func (r *Repository) GetApproved(ctx context.Context) ([]*domain.Technician, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"approval_status": domain.ApprovalApproved}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetApproved - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetApproved - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	technicians := make([]*domain.Technician, 0)
	for rows.Next() {
		t, err := scanTechnician(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetApproved - scan row: %v", ErrScanRow, err)
		}
		technicians = append(technicians, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetApproved - rows error: %v", ErrScanRow, err)
	}

	return technicians, nil
}

// GetRatingStats получает агрегированный рейтинг техника
// Внутри транзакции строка блокируется (FOR UPDATE) до коммита
func (r *Repository) GetRatingStats(ctx context.Context, id int64) (domain.RatingStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("rating_average", "rating_count").
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return domain.RatingStats{}, fmt.Errorf("%w: GetRatingStats - build select query: %v", ErrBuildQuery, err)
	}

	var stats domain.RatingStats
	err = executor.QueryRowContext(ctx, query, args...).Scan(&stats.Average, &stats.Count)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RatingStats{}, ErrTechnicianNotFound
	}
	if err != nil {
		return domain.RatingStats{}, fmt.Errorf("%w: GetRatingStats - scan: %v", ErrScanRow, err)
	}

	return stats, nil
}

// UpdateRatingStats сохраняет пересчитанный рейтинг техника
func (r *Repository) UpdateRatingStats(ctx context.Context, id int64, stats domain.RatingStats) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("rating_average", stats.Average).
		Set("rating_count", stats.Count).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateRatingStats - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateRatingStats - execute: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateRatingStats - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrTechnicianNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTechnician(row rowScanner) (*domain.Technician, error) {
	var t domain.Technician
	var (
		latitude, longitude sql.NullFloat64
		shopID              sql.NullInt64
		categories, days    pq.StringArray
	)

	err := row.Scan(
		&t.ID,
		&t.Username,
		&t.FullName,
		&t.Phone,
		&t.Address,
		&latitude,
		&longitude,
		&t.Type,
		&shopID,
		&categories,
		&days,
		&t.WorkingHours,
		&t.ApprovalStatus,
		&t.Suspended,
		&t.Banned,
		&t.Blocked,
		&t.Deleted,
		&t.RatingAverage,
		&t.RatingCount,
	)
	if err != nil {
		return nil, err
	}

	if latitude.Valid && longitude.Valid {
		t.Location = &domain.Location{Latitude: latitude.Float64, Longitude: longitude.Float64}
	}
	if shopID.Valid {
		id := shopID.Int64
		t.ShopID = &id
	}
	t.ServiceCategories = []string(categories)
	t.WorkingDays = []string(days)

	return &t, nil
}
