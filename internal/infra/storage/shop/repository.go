package shop

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

const table = "shops"

var columns = []string{
	"id",
	"owner_id",
	"name",
	"address",
	"working_days",
	"working_hours",
}

// Repository репозиторий для работы с мастерскими
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория мастерских
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает мастерскую по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Shop, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanShop(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShopNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan shop: %v", ErrScanRow, err)
	}

	return s, nil
}

// GetByIDs получает мастерские пачкой, результат индексирован по ID.
// Отсутствующие ID просто не попадают в результат.
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Shop, error) {
	shops := make(map[int64]*domain.Shop, len(ids))
	if len(ids) == 0 {
		return shops, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanShop(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByIDs - scan row: %v", ErrScanRow, err)
		}
		shops[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - rows error: %v", ErrScanRow, err)
	}

	return shops, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanShop(row rowScanner) (*domain.Shop, error) {
	var s domain.Shop
	var days pq.StringArray

	err := row.Scan(
		&s.ID,
		&s.OwnerID,
		&s.Name,
		&s.Address,
		&days,
		&s.WorkingHours,
	)
	if err != nil {
		return nil, err
	}

	s.WorkingDays = []string(days)
	return &s, nil
}
