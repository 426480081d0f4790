package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RepairService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-RepairService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-RepairService/internal/service/appointments/models"
	"github.com/m04kA/SMC-RepairService/pkg/logger"
	"github.com/m04kA/SMC-RepairService/pkg/metrics"
)

var (
	now       = time.Date(2025, 3, 3, 1, 0, 0, 0, time.UTC)
	scheduled = time.Date(2025, 3, 4, 2, 30, 0, 0, time.UTC)
)

type memoryRepo struct {
	items   map[int64]*domain.Appointment
	deleted []int64
	err     error
}

func newMemoryRepo(items ...*domain.Appointment) *memoryRepo {
	r := &memoryRepo{items: make(map[int64]*domain.Appointment)}
	for _, a := range items {
		r.items[a.ID] = a
	}
	return r
}

func (r *memoryRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if r.err != nil {
		return nil, r.err
	}
	a, ok := r.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *memoryRepo) GetByUser(_ context.Context, f domain.UserAppointmentsFilter) ([]*domain.Appointment, error) {
	result := make([]*domain.Appointment, 0)
	for _, a := range r.items {
		if a.UserID != f.UserID || (!f.IncludeHidden && a.HiddenFromUser) {
			continue
		}
		if f.TechnicianID != nil && a.TechnicianID != *f.TechnicianID {
			continue
		}
		if len(f.Statuses) > 0 && f.Statuses[0] != a.Status.Global {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (r *memoryRepo) UpdateStatus(_ context.Context, id int64, status domain.Status, rejectionReason *string) error {
	a := r.items[id]
	a.Status = status
	if rejectionReason != nil {
		a.RejectionReason = rejectionReason
	}
	return nil
}

func (r *memoryRepo) Cancel(_ context.Context, id int64, status domain.Status, reason string, by domain.CancelledBy, at time.Time) error {
	a := r.items[id]
	a.Status = status
	a.CancellationReason = &reason
	a.CancelledBy = &by
	a.CancelledAt = &at
	return nil
}

func (r *memoryRepo) SetHidden(_ context.Context, id int64, hidden bool) error {
	r.items[id].HiddenFromUser = hidden
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id int64) error {
	delete(r.items, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeUsers struct{}

func (fakeUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	return &domain.User{ID: id, FullName: "Maria Santos"}, nil
}

type cancellation struct {
	technicianID int64
	userName     string
	formatted    string
	reason       string
}

type recordingNotifier struct {
	sent []cancellation
	err  error
}

func (n *recordingNotifier) SendAppointmentCancellation(_ context.Context, technicianID int64, userName, formatted, reason string) error {
	n.sent = append(n.sent, cancellation{technicianID, userName, formatted, reason})
	return n.err
}

type utcFormatter struct{}

func (utcFormatter) FormatInstant(t time.Time) string { return t.UTC().Format(time.RFC3339) }

type passThroughTx struct{}

func (passThroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passThroughTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingTx struct {
	passThroughTx
	readOnly int
}

func (r *recordingTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	r.readOnly++
	return fn(ctx)
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func appointment(id int64, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:            id,
		UserID:        1,
		TechnicianID:  7,
		ServiceType:   domain.ServiceWalkIn,
		ScheduledDate: scheduled,
		Status:        domain.StatusFor(status),
		Diagnosis:     domain.Diagnosis{Category: "Aircon", Issue: "Leaking"},
	}
}

func newService(repo *memoryRepo, notifier *recordingNotifier) *Service {
	s := NewService(repo, fakeUsers{}, notifier, utcFormatter{}, passThroughTx{}, metrics.NewRecorder(nil), logger.Nop())
	s.timeProvider = fixedTime{t: now}
	return s
}

func TestCancel_RecordsReasonAndNotifiesTechnician(t *testing.T) {
	repo := newMemoryRepo(appointment(1, domain.StatusScheduled))
	notifier := &recordingNotifier{}
	s := newService(repo, notifier)

	draft, err := s.Cancel(context.Background(), 1, &models.CancelRequest{
		UserID: 1,
		Reason: string(domain.ReasonScheduleConflict),
	})

	require.NoError(t, err)
	stored := repo.items[1]
	assert.Equal(t, domain.StatusCancelled, stored.Status.Global)
	assert.Equal(t, "Schedule conflict", *stored.CancellationReason)
	assert.Equal(t, domain.CancelledByUser, *stored.CancelledBy)
	assert.Equal(t, now, *stored.CancelledAt)

	assert.Equal(t, "Aircon", draft.Diagnosis.Category)
	assert.Equal(t, scheduled, draft.ScheduledDate)
	assert.Equal(t, "walk-in", draft.ServiceType)
	assert.Nil(t, draft.DeclinedByTechnicianID)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, cancellation{7, "Maria Santos", "2025-03-04T02:30:00Z", "Schedule conflict"}, notifier.sent[0])
}

func TestCancel_OthersRequiresCustomText(t *testing.T) {
	repo := newMemoryRepo(appointment(1, domain.StatusAccepted))
	s := newService(repo, &recordingNotifier{})

	_, err := s.Cancel(context.Background(), 1, &models.CancelRequest{UserID: 1, Reason: "Others", CustomReason: "   "})
	assert.ErrorIs(t, err, ErrInvalidReason)

	_, err = s.Cancel(context.Background(), 1, &models.CancelRequest{UserID: 1, Reason: "Others", CustomReason: " Moving away "})
	require.NoError(t, err)
	assert.Equal(t, "Moving away", *repo.items[1].CancellationReason)
}

func TestCancel_UnknownReason(t *testing.T) {
	s := newService(newMemoryRepo(appointment(1, domain.StatusScheduled)), &recordingNotifier{})

	_, err := s.Cancel(context.Background(), 1, &models.CancelRequest{UserID: 1, Reason: "Bored"})
	assert.ErrorIs(t, err, ErrInvalidReason)
}

func TestCancel_NotCancellableStates(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{domain.StatusRepairing, domain.StatusCompleted, domain.StatusRejected, domain.StatusCancelled} {
		s := newService(newMemoryRepo(appointment(1, status)), &recordingNotifier{})

		_, err := s.Cancel(context.Background(), 1, &models.CancelRequest{UserID: 1, Reason: string(domain.ReasonChangedMind)})
		assert.ErrorIs(t, err, ErrCannotCancel, status)
	}
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{domain.StatusCancelled, domain.StatusCanceled} {
		repo := newMemoryRepo(appointment(1, status))
		notifier := &recordingNotifier{}
		s := newService(repo, notifier)

		_, err := s.Cancel(context.Background(), 1, &models.CancelRequest{UserID: 1, Reason: string(domain.ReasonChangedMind)})

		require.ErrorIs(t, err, ErrCannotCancel, status)
		assert.Contains(t, err.Error(), "already cancelled")
		assert.Empty(t, notifier.sent)
	}
}

func TestCancel_OtherUserDenied(t *testing.T) {
	s := newService(newMemoryRepo(appointment(1, domain.StatusScheduled)), &recordingNotifier{})

	_, err := s.Cancel(context.Background(), 1, &models.CancelRequest{UserID: 2, Reason: string(domain.ReasonChangedMind)})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancel_NotificationFailureIgnored(t *testing.T) {
	s := newService(newMemoryRepo(appointment(1, domain.StatusScheduled)), &recordingNotifier{err: errors.New("down")})

	_, err := s.Cancel(context.Background(), 1, &models.CancelRequest{UserID: 1, Reason: string(domain.ReasonDeviceFixed)})
	assert.NoError(t, err)
}

func TestRebookAfterRejection(t *testing.T) {
	repo := newMemoryRepo(appointment(1, domain.StatusRejected))
	s := newService(repo, &recordingNotifier{})

	draft, err := s.RebookAfterRejection(context.Background(), 1, 1)

	require.NoError(t, err)
	require.NotNil(t, draft.DeclinedByTechnicianID)
	assert.Equal(t, int64(7), *draft.DeclinedByTechnicianID)
	assert.Equal(t, "Leaking", draft.Diagnosis.Issue)

	// Запись осталась, только скрыта у пользователя
	require.Contains(t, repo.items, int64(1))
	assert.True(t, repo.items[1].HiddenFromUser)
}

func TestRebookAfterRejection_RequiresRejected(t *testing.T) {
	s := newService(newMemoryRepo(appointment(1, domain.StatusCancelled)), &recordingNotifier{})

	_, err := s.RebookAfterRejection(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrNotRejected)
}

func TestDelete(t *testing.T) {
	repo := newMemoryRepo(appointment(1, domain.StatusRejected), appointment(2, domain.StatusAccepted))
	s := newService(repo, &recordingNotifier{})

	err := s.Delete(context.Background(), 1, &models.DeleteRequest{UserID: 1})
	assert.ErrorIs(t, err, ErrConfirmationRequired)

	err = s.Delete(context.Background(), 2, &models.DeleteRequest{UserID: 1, Confirmed: true})
	assert.ErrorIs(t, err, ErrNotTerminal)

	err = s.Delete(context.Background(), 1, &models.DeleteRequest{UserID: 1, Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, repo.deleted)

	err = s.Delete(context.Background(), 1, &models.DeleteRequest{UserID: 1, Confirmed: true})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestUpdateStatus_FollowsGraph(t *testing.T) {
	repo := newMemoryRepo(appointment(1, domain.StatusScheduled))
	s := newService(repo, &recordingNotifier{})

	for _, next := range []domain.AppointmentStatus{domain.StatusAccepted, domain.StatusRepairing, domain.StatusTesting, domain.StatusCompleted} {
		resp, err := s.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{TechnicianID: 7, Status: string(next)})
		require.NoError(t, err, next)
		assert.Equal(t, string(next), resp.Status.Global)
	}

	assert.Equal(t, "Repair completed", repo.items[1].Status.UserView)
	assert.True(t, repo.items[1].AwaitsFeedback())
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	s := newService(newMemoryRepo(appointment(1, domain.StatusScheduled)), &recordingNotifier{})

	_, err := s.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{TechnicianID: 7, Status: "Completed"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_RejectRequiresReason(t *testing.T) {
	repo := newMemoryRepo(appointment(1, domain.StatusScheduled))
	s := newService(repo, &recordingNotifier{})

	_, err := s.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{TechnicianID: 7, Status: "Rejected"})
	assert.ErrorIs(t, err, ErrRejectionReasonRequired)

	reason := " Fully booked "
	resp, err := s.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{TechnicianID: 7, Status: "Rejected", RejectionReason: &reason})
	require.NoError(t, err)
	assert.Equal(t, "Declined", resp.Status.TechnicianView)
	assert.Equal(t, "Fully booked", *repo.items[1].RejectionReason)
}

func TestUpdateStatus_OnlyAssignedTechnician(t *testing.T) {
	s := newService(newMemoryRepo(appointment(1, domain.StatusScheduled)), &recordingNotifier{})

	_, err := s.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{TechnicianID: 8, Status: "Accepted"})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestDismissFeedback(t *testing.T) {
	repo := newMemoryRepo(appointment(1, domain.StatusCompleted), appointment(2, domain.StatusScheduled))
	s := newService(repo, &recordingNotifier{})

	require.NoError(t, s.DismissFeedback(context.Background(), 1, 1))
	assert.True(t, repo.items[1].HiddenFromUser)

	assert.ErrorIs(t, s.DismissFeedback(context.Background(), 1, 1), ErrNoPendingFeedback)
	assert.ErrorIs(t, s.DismissFeedback(context.Background(), 2, 1), ErrNoPendingFeedback)
}

func TestGetByID_Access(t *testing.T) {
	s := newService(newMemoryRepo(appointment(1, domain.StatusScheduled)), &recordingNotifier{})

	resp, err := s.GetByID(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "Waiting for technician to accept", resp.Status.UserView)

	_, err = s.GetByID(context.Background(), 1, 7)
	assert.NoError(t, err)

	_, err = s.GetByID(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = s.GetByID(context.Background(), 42, 1)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetUserAppointments_HidesHidden(t *testing.T) {
	hidden := appointment(2, domain.StatusRejected)
	hidden.HiddenFromUser = true
	s := newService(newMemoryRepo(appointment(1, domain.StatusScheduled), hidden), &recordingNotifier{})

	resp, err := s.GetUserAppointments(context.Background(), &models.GetUserAppointmentsRequest{RequesterID: 1, UserID: 1})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, int64(1), resp.Appointments[0].ID)

	_, err = s.GetUserAppointments(context.Background(), &models.GetUserAppointmentsRequest{RequesterID: 2, UserID: 1})
	assert.ErrorIs(t, err, ErrAccessDenied)

	bad := "Paused"
	_, err = s.GetUserAppointments(context.Background(), &models.GetUserAppointmentsRequest{RequesterID: 1, UserID: 1, Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetUserAppointments_RunsInReadOnlyTransaction(t *testing.T) {
	tx := &recordingTx{}
	s := NewService(newMemoryRepo(appointment(1, domain.StatusScheduled)), fakeUsers{}, &recordingNotifier{}, utcFormatter{}, tx, metrics.NewRecorder(nil), logger.Nop())

	resp, err := s.GetUserAppointments(context.Background(), &models.GetUserAppointmentsRequest{RequesterID: 1, UserID: 1})

	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 1)
	assert.Equal(t, 1, tx.readOnly)
}

func TestGetByID_RepositoryError(t *testing.T) {
	repo := newMemoryRepo()
	repo.err = errors.New("db down")
	s := newService(repo, &recordingNotifier{})

	_, err := s.GetByID(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrInternal)
}
