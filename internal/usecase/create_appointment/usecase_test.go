package create_appointment

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
	technicianRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/technician"
	"github.com/m04kA/SMC-RepairService/internal/service/availability"
	"github.com/m04kA/SMC-RepairService/pkg/logger"
	"github.com/m04kA/SMC-RepairService/pkg/metrics"
)

var manilaLoc = func() *time.Location {
	loc, err := time.LoadLocation(domain.CivilTimezone)
	if err != nil {
		panic(err)
	}
	return loc
}()

// now понедельник 3 марта 2025, 09:00 по Маниле
var now = time.Date(2025, 3, 3, 9, 0, 0, 0, manilaLoc)

// tuesdayAt10_30 вторник 4 марта 2025, 10:30 по Маниле
var tuesdayAt10_30 = time.Date(2025, 3, 4, 10, 30, 0, 0, manilaLoc)

type memoryAppointments struct {
	mu     sync.Mutex
	items  []*domain.Appointment
	nextID int64
	err    error
}

func (m *memoryAppointments) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.nextID++
	stored := *a
	stored.ID = m.nextID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.items = append(m.items, &stored)
	return &stored, nil
}

func (m *memoryAppointments) GetByUser(_ context.Context, f domain.UserAppointmentsFilter) ([]*domain.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*domain.Appointment, 0)
	for _, a := range m.items {
		if a.UserID != f.UserID {
			continue
		}
		if !f.IncludeHidden && a.HiddenFromUser {
			continue
		}
		if f.TechnicianID != nil && a.TechnicianID != *f.TechnicianID {
			continue
		}
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, a.Status.Global) {
			continue
		}
		if containsStatus(f.ExcludeStatus, a.Status.Global) {
			continue
		}
		copied := *a
		result = append(result, &copied)
	}
	return result, nil
}

func containsStatus(list []domain.AppointmentStatus, s domain.AppointmentStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type fakeTechnicians map[int64]*domain.Technician

func (f fakeTechnicians) GetByID(_ context.Context, id int64) (*domain.Technician, error) {
	t, ok := f[id]
	if !ok {
		return nil, technicianRepo.ErrTechnicianNotFound
	}
	return t, nil
}

type fakeShops map[int64]*domain.Shop

func (f fakeShops) GetByID(_ context.Context, id int64) (*domain.Shop, error) {
	return f[id], nil
}

type passThroughTx struct{}

func (passThroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (n *recordingNotifier) SendAppointmentConfirmation(_ context.Context, _ int64, technicianName, formatted string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, technicianName+" @ "+formatted)
	return n.err
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type fixture struct {
	uc           *UseCase
	appointments *memoryAppointments
	notifier     *recordingNotifier
}

func tuesdayTechnician() *domain.Technician {
	return &domain.Technician{
		ID:             7,
		FullName:       "Juan Cruz",
		Type:           domain.TechnicianFreelance,
		WorkingDays:    []string{"Tue"},
		WorkingHours:   domain.NewTextHours("8:00 AM - 12:00 PM"),
		ApprovalStatus: domain.ApprovalApproved,
	}
}

func newFixture(technicians fakeTechnicians, shops fakeShops) *fixture {
	f := &fixture{
		appointments: &memoryAppointments{},
		notifier:     &recordingNotifier{},
	}
	f.uc = NewUseCase(
		f.appointments,
		technicians,
		shops,
		availability.NewEvaluator(domain.CivilTimezone, logger.Nop()),
		lock.NewMemoryLocker(),
		passThroughTx{},
		f.notifier,
		metrics.NewRecorder(nil),
		logger.Nop(),
	)
	f.uc.timeProvider = fixedTime{t: now}
	return f
}

func validRequest() *Request {
	return &Request{
		UserID:        1,
		TechnicianID:  7,
		ScheduledDate: tuesdayAt10_30,
		ServiceType:   domain.ServiceHomeService,
		Diagnosis: domain.Diagnosis{
			Category:      "Aircon",
			Brand:         "Carrier",
			Issue:         "Not cooling",
			EstimatedCost: 1500,
		},
	}
}

func TestExecute_EndToEndTuesdayMorning(t *testing.T) {
	f := newFixture(fakeTechnicians{7: tuesdayTechnician()}, nil)

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	a := resp.Appointment
	assert.Equal(t, domain.StatusScheduled, a.Status.Global)
	assert.Equal(t, "Waiting for technician to accept", a.Status.UserView)
	assert.Equal(t, "Request pending", a.Status.TechnicianView)
	assert.Equal(t, tuesdayAt10_30.Add(-2*time.Hour-25*time.Minute), a.CancelDeadline)
	assert.Equal(t, "Carrier", a.Diagnosis.Brand)
	assert.False(t, resp.PreviouslyDeclined)
	assert.Equal(t, []string{"Juan Cruz @ Mar 4, 2025 at 10:30 AM"}, f.notifier.calls)
}

func TestExecute_InvalidSchedule(t *testing.T) {
	f := newFixture(fakeTechnicians{7: tuesdayTechnician()}, nil)

	for _, scheduled := range []time.Time{now, now.Add(-time.Minute)} {
		req := validRequest()
		req.ScheduledDate = scheduled

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidSchedule)
	}
	assert.Empty(t, f.appointments.items)
}

func TestExecute_DayUnavailableCarriesSummary(t *testing.T) {
	f := newFixture(fakeTechnicians{7: tuesdayTechnician()}, nil)
	req := validRequest()
	req.ScheduledDate = time.Date(2025, 3, 5, 10, 30, 0, 0, manilaLoc) // среда

	_, err := f.uc.Execute(context.Background(), req)

	require.ErrorIs(t, err, ErrDayUnavailable)
	var availErr *AvailabilityError
	require.True(t, errors.As(err, &availErr))
	assert.Equal(t, []string{"Tuesday"}, availErr.Summary.WorkingDays)
	assert.Equal(t, "8:00 AM - 12:00 PM", availErr.Summary.WorkingHours)
}

func TestExecute_TimeUnavailable(t *testing.T) {
	f := newFixture(fakeTechnicians{7: tuesdayTechnician()}, nil)
	req := validRequest()
	req.ScheduledDate = time.Date(2025, 3, 4, 12, 1, 0, 0, manilaLoc)

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrTimeUnavailable)
}

func TestExecute_MalformedStoredHoursIsTimeUnavailable(t *testing.T) {
	technician := tuesdayTechnician()
	technician.WorkingHours = domain.WorkingHours{Malformed: `{"startTime":9,"endTime":17}`}
	f := newFixture(fakeTechnicians{7: technician}, nil)

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrTimeUnavailable)
	assert.Empty(t, f.appointments.items)
}

func TestExecute_ShopScheduleOverridesTechnician(t *testing.T) {
	technician := tuesdayTechnician()
	technician.Type = domain.TechnicianShop
	shopID := int64(10)
	technician.ShopID = &shopID

	shops := fakeShops{10: {
		ID:           10,
		Name:         "FixIt Shop",
		WorkingDays:  []string{"Wednesday"},
		WorkingHours: domain.NewStructuredHours("09:00", "17:00"),
	}}
	f := newFixture(fakeTechnicians{7: technician}, shops)

	_, err := f.uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrDayUnavailable)

	req := validRequest()
	req.ScheduledDate = time.Date(2025, 3, 5, 16, 0, 0, 0, manilaLoc)
	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.NotZero(t, resp.Appointment.ID)
	assert.Equal(t, "FixIt Shop @ Mar 5, 2025 at 4:00 PM", f.notifier.calls[0])
}

func TestExecute_TechnicianNotFound(t *testing.T) {
	f := newFixture(fakeTechnicians{}, nil)

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTechnicianNotFound)
}

func TestExecute_RestrictedTechnician(t *testing.T) {
	technician := tuesdayTechnician()
	technician.Suspended = true
	f := newFixture(fakeTechnicians{7: technician}, nil)

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTechnicianUnavailable)
}

func TestExecute_SecondCreateIsDuplicate(t *testing.T) {
	f := newFixture(fakeTechnicians{7: tuesdayTechnician()}, nil)

	_, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDuplicateActiveAppointment)
	assert.Len(t, f.appointments.items, 1)
}

func TestExecute_ConcurrentCreatesForSameUser(t *testing.T) {
	f := newFixture(fakeTechnicians{7: tuesdayTechnician()}, nil)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Execute(context.Background(), validRequest())
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrDuplicateActiveAppointment)
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, f.appointments.items, 1)
}

func TestExecute_TerminalAppointmentsDoNotBlock(t *testing.T) {
	f := newFixture(fakeTechnicians{7: tuesdayTechnician()}, nil)
	rated := 5
	f.appointments.items = []*domain.Appointment{
		{ID: 1, UserID: 1, TechnicianID: 7, Status: domain.StatusFor(domain.StatusCancelled)},
		{ID: 2, UserID: 1, TechnicianID: 7, Status: domain.StatusFor(domain.StatusCanceled)},
		{ID: 3, UserID: 1, TechnicianID: 7, Status: domain.StatusFor(domain.StatusCompleted), Rated: true, UserRating: &rated},
		{ID: 4, UserID: 2, TechnicianID: 7, Status: domain.StatusFor(domain.StatusScheduled)},
	}
	f.appointments.nextID = 4

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_PendingFeedback(t *testing.T) {
	f := newFixture(fakeTechnicians{7: tuesdayTechnician()}, nil)
	f.appointments.items = []*domain.Appointment{
		{ID: 1, UserID: 1, TechnicianID: 7, Status: domain.StatusFor(domain.StatusCompleted)},
	}
	f.appointments.nextID = 1

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrPendingFeedback)

	// После закрытия запроса на отзыв запись больше не мешает
	f.appointments.items[0].HiddenFromUser = true
	_, err = f.uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_PreviouslyDeclinedWarning(t *testing.T) {
	f := newFixture(fakeTechnicians{7: tuesdayTechnician()}, nil)
	f.appointments.items = []*domain.Appointment{
		{ID: 1, UserID: 1, TechnicianID: 7, Status: domain.StatusFor(domain.StatusRejected), HiddenFromUser: true},
	}
	f.appointments.nextID = 1

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.True(t, resp.PreviouslyDeclined)
}

func TestExecute_NotificationFailureIsSwallowed(t *testing.T) {
	f := newFixture(fakeTechnicians{7: tuesdayTechnician()}, nil)
	f.notifier.err = errors.New("fcm unavailable")

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.NotNil(t, resp.Appointment)
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture(fakeTechnicians{7: tuesdayTechnician()}, nil)

	req := validRequest()
	req.ServiceType = "drive-through"
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = validRequest()
	req.Diagnosis.Category = " "
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_RepositoryErrorIsInternal(t *testing.T) {
	f := newFixture(fakeTechnicians{7: tuesdayTechnician()}, nil)
	f.appointments.err = errors.New("db down")

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInternal)
}
