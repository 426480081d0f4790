package submit_rating

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	"github.com/m04kA/SMC-RepairService/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/appointment"
	ratingRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/rating"
	technicianRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/technician"
	"github.com/m04kA/SMC-RepairService/pkg/logger"
	"github.com/m04kA/SMC-RepairService/pkg/metrics"
	"github.com/m04kA/SMC-RepairService/pkg/ptr"
)

var now = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

type store struct {
	mu           sync.Mutex
	ratings      []*domain.Rating
	stats        map[int64]domain.RatingStats
	appointments map[int64]*domain.Appointment
	nextID       int64
	createErr    error
}

func newStore() *store {
	return &store{
		stats:        map[int64]domain.RatingStats{7: {}},
		appointments: make(map[int64]*domain.Appointment),
	}
}

func (s *store) GetByTechnicianAndUser(_ context.Context, technicianID, userID int64) (*domain.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.ratings {
		if r.TechnicianID == technicianID && r.UserID == userID {
			copied := *r
			return &copied, nil
		}
	}
	return nil, ratingRepo.ErrRatingNotFound
}

func (s *store) Create(_ context.Context, r *domain.Rating) (*domain.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.nextID++
	stored := *r
	stored.ID = s.nextID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.ratings = append(s.ratings, &stored)
	return &stored, nil
}

func (s *store) Update(_ context.Context, r *domain.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.ratings {
		if existing.ID == r.ID {
			copied := *r
			s.ratings[i] = &copied
			return nil
		}
	}
	return ratingRepo.ErrRatingNotFound
}

func (s *store) GetRatingStats(_ context.Context, id int64) (domain.RatingStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats, ok := s.stats[id]
	if !ok {
		return domain.RatingStats{}, technicianRepo.ErrTechnicianNotFound
	}
	return stats, nil
}

func (s *store) UpdateRatingStats(_ context.Context, id int64, stats domain.RatingStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[id] = stats
	return nil
}

func (s *store) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (s *store) MarkRated(_ context.Context, id int64, rating int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.appointments[id]
	a.Rated = true
	a.UserRating = &rating
	return nil
}

type passThroughTx struct{}

func (passThroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{}

func (fixedTime) Now() time.Time { return now }

func newUseCase(s *store) *UseCase {
	uc := NewUseCase(s, s, s, lock.NewMemoryLocker(), passThroughTx{}, metrics.NewRecorder(nil), logger.Nop())
	uc.timeProvider = fixedTime{}
	return uc
}

func submit(t *testing.T, uc *UseCase, userID int64, value int) *Response {
	t.Helper()
	resp, err := uc.Execute(context.Background(), &Request{TechnicianID: 7, UserID: userID, Rating: value})
	require.NoError(t, err)
	return resp
}

func TestExecute_SameUserUpdatesTwoUsersAdd(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)

	first := submit(t, uc, 1, 5)
	assert.Equal(t, KindNew, first.Kind)
	assert.Equal(t, domain.RatingStats{Average: 5.0, Count: 1}, s.stats[7])

	// Повторная оценка того же пользователя: количество не меняется
	second := submit(t, uc, 1, 3)
	assert.Equal(t, KindUpdate, second.Kind)
	assert.Equal(t, first.Rating.ID, second.Rating.ID)
	assert.Equal(t, domain.RatingStats{Average: 3.0, Count: 1}, s.stats[7])
	require.Len(t, s.ratings, 1)
	assert.Equal(t, 3, s.ratings[0].Value)

	// Другой пользователь добавляет новую оценку
	third := submit(t, uc, 2, 4)
	assert.Equal(t, KindNew, third.Kind)
	assert.Equal(t, domain.RatingStats{Average: 3.5, Count: 2}, s.stats[7])
	assert.Equal(t, "3.5", domain.FormatRating(s.stats[7].Average))
}

func TestExecute_RoundsStoredAverage(t *testing.T) {
	s := newStore()
	s.stats[7] = domain.RatingStats{Average: 5.0, Count: 2}
	uc := newUseCase(s)

	resp := submit(t, uc, 3, 4)

	// (5*2 + 4) / 3 = 4.666...
	assert.Equal(t, 4.7, resp.Stats.Average)
	assert.Equal(t, 3, resp.Stats.Count)
}

func TestExecute_InvalidRating(t *testing.T) {
	uc := newUseCase(newStore())

	for _, value := range []int{0, 6, -1} {
		_, err := uc.Execute(context.Background(), &Request{TechnicianID: 7, UserID: 1, Rating: value})
		assert.ErrorIs(t, err, ErrInvalidRating, value)
	}
}

func TestExecute_TechnicianNotFound(t *testing.T) {
	uc := newUseCase(newStore())

	_, err := uc.Execute(context.Background(), &Request{TechnicianID: 99, UserID: 1, Rating: 4})
	assert.ErrorIs(t, err, ErrTechnicianNotFound)
}

func TestExecute_CommentNormalized(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)

	resp, err := uc.Execute(context.Background(), &Request{TechnicianID: 7, UserID: 1, Rating: 4, Comment: ptr.Ptr("  Quick fix  ")})
	require.NoError(t, err)
	assert.Equal(t, "Quick fix", *resp.Rating.Comment)

	long := make([]rune, domain.MaxRatingCommentLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = uc.Execute(context.Background(), &Request{TechnicianID: 7, UserID: 2, Rating: 4, Comment: ptr.Ptr(string(long))})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_MarksCompletedAppointmentRated(t *testing.T) {
	s := newStore()
	s.appointments[10] = &domain.Appointment{ID: 10, UserID: 1, TechnicianID: 7, Status: domain.StatusFor(domain.StatusCompleted)}
	uc := newUseCase(s)

	_, err := uc.Execute(context.Background(), &Request{TechnicianID: 7, UserID: 1, Rating: 5, AppointmentID: ptr.Ptr(int64(10))})
	require.NoError(t, err)

	assert.True(t, s.appointments[10].Rated)
	assert.Equal(t, 5, *s.appointments[10].UserRating)
	assert.False(t, s.appointments[10].AwaitsFeedback())
	assert.Equal(t, int64(10), *s.ratings[0].AppointmentID)
}

func TestExecute_AppointmentGating(t *testing.T) {
	s := newStore()
	s.appointments[10] = &domain.Appointment{ID: 10, UserID: 1, TechnicianID: 7, Status: domain.StatusFor(domain.StatusRepairing)}
	s.appointments[11] = &domain.Appointment{ID: 11, UserID: 2, TechnicianID: 7, Status: domain.StatusFor(domain.StatusCompleted)}
	uc := newUseCase(s)

	_, err := uc.Execute(context.Background(), &Request{TechnicianID: 7, UserID: 1, Rating: 5, AppointmentID: ptr.Ptr(int64(10))})
	assert.ErrorIs(t, err, ErrAppointmentNotCompleted)

	_, err = uc.Execute(context.Background(), &Request{TechnicianID: 7, UserID: 1, Rating: 5, AppointmentID: ptr.Ptr(int64(11))})
	assert.ErrorIs(t, err, ErrAppointmentMismatch)

	_, err = uc.Execute(context.Background(), &Request{TechnicianID: 7, UserID: 1, Rating: 5, AppointmentID: ptr.Ptr(int64(12))})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	assert.Empty(t, s.ratings)
	assert.Equal(t, domain.RatingStats{}, s.stats[7])
}

func TestExecute_ConcurrentSameUserCountsOnce(t *testing.T) {
	s := newStore()
	uc := newUseCase(s)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(value int) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), &Request{TechnicianID: 7, UserID: 1, Rating: value})
			assert.NoError(t, err)
		}(i%5 + 1)
	}
	wg.Wait()

	require.Len(t, s.ratings, 1)
	assert.Equal(t, 1, s.stats[7].Count)
	assert.Equal(t, float64(s.ratings[0].Value), s.stats[7].Average)
}

func TestExecute_RepositoryError(t *testing.T) {
	s := newStore()
	s.createErr = errors.New("db down")
	uc := newUseCase(s)

	_, err := uc.Execute(context.Background(), &Request{TechnicianID: 7, UserID: 1, Rating: 4})
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, domain.RatingStats{}, s.stats[7])
}
