package rating

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RepairService/internal/domain"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestRepository_GetByTechnicianAndUser(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT (.+) FROM ratings WHERE technician_id = \$1 AND user_id = \$2`).
		WithArgs(int64(7), int64(1)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(3), int64(7), int64(1), 4, "great", nil, now, now))

	rt, err := repo.GetByTechnicianAndUser(context.Background(), 7, 1)

	require.NoError(t, err)
	assert.Equal(t, 4, rt.Value)
	require.NotNil(t, rt.Comment)
	assert.Equal(t, "great", *rt.Comment)
	assert.Nil(t, rt.AppointmentID)
}

func TestRepository_GetByTechnicianAndUser_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM ratings`).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByTechnicianAndUser(context.Background(), 7, 1)
	assert.ErrorIs(t, err, ErrRatingNotFound)
}

func TestRepository_Create_Duplicate(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO ratings`).
		WillReturnError(&pq.Error{Code: uniqueViolation})

	_, err := repo.Create(context.Background(), &domain.Rating{TechnicianID: 7, UserID: 1, Value: 5})
	assert.ErrorIs(t, err, ErrDuplicateRating)
}

func TestRepository_Update(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`UPDATE ratings SET value = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &domain.Rating{ID: 3, Value: 2})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
