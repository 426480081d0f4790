package create_appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RepairService/internal/api/middleware"
	"github.com/m04kA/SMC-RepairService/internal/domain"
	createAppointment "github.com/m04kA/SMC-RepairService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-RepairService/pkg/logger"
)

type fakeUseCase struct {
	got  *createAppointment.Request
	resp *createAppointment.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	f.got = req
	return f.resp, f.err
}

const body = `{
	"technicianId": 7,
	"scheduledDate": "2025-03-04T10:30:00+08:00",
	"serviceType": "walk-in",
	"diagnosis": {"category": "Aircon", "issue": "Leaking", "estimatedCost": 1500}
}`

func serve(t *testing.T, uc *fakeUseCase, payload string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bytes.NewBufferString(payload))
	req = req.WithContext(middleware.WithUserID(req.Context(), 1))
	rec := httptest.NewRecorder()

	NewHandler(uc, logger.Nop()).Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	scheduled := time.Date(2025, 3, 4, 2, 30, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &createAppointment.Response{
		Appointment: &domain.Appointment{
			ID:            10,
			UserID:        1,
			TechnicianID:  7,
			ServiceType:   domain.ServiceWalkIn,
			ScheduledDate: scheduled,
			Status:        domain.StatusFor(domain.StatusScheduled),
		},
		PreviouslyDeclined: true,
	}}

	rec := serve(t, uc, body)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(1), uc.got.UserID)
	assert.True(t, uc.got.ScheduledDate.Equal(scheduled))
	assert.Equal(t, "Aircon", uc.got.Diagnosis.Category)

	var resp CreateAppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(10), resp.Appointment.ID)
	assert.Equal(t, "Scheduled", resp.Appointment.Status.Global)
	assert.True(t, resp.PreviouslyDeclined)
}

func TestHandle_AvailabilityErrorCarriesSchedule(t *testing.T) {
	uc := &fakeUseCase{err: &createAppointment.AvailabilityError{
		Reason: createAppointment.ErrDayUnavailable,
		Summary: domain.AvailabilitySummary{
			WorkingDays:  []string{"Monday", "Wednesday"},
			WorkingHours: "9:00 AM - 5:00 PM",
		},
	}}

	rec := serve(t, uc, body)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp struct {
		Error   string              `json:"error"`
		Details AvailabilityDetails `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, msgDayUnavailable, resp.Error)
	assert.Equal(t, []string{"Monday", "Wednesday"}, resp.Details.WorkingDays)
	assert.Equal(t, "9:00 AM - 5:00 PM", resp.Details.WorkingHours)
}

func TestHandle_ErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{createAppointment.ErrDuplicateActiveAppointment, http.StatusConflict},
		{createAppointment.ErrPendingFeedback, http.StatusConflict},
		{createAppointment.ErrTechnicianNotFound, http.StatusNotFound},
		{createAppointment.ErrInvalidSchedule, http.StatusBadRequest},
		{createAppointment.ErrInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := serve(t, &fakeUseCase{err: tc.err}, body)
		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
	}
}

func TestHandle_InvalidBody(t *testing.T) {
	uc := &fakeUseCase{}

	rec := serve(t, uc, `{"technicianId": 7, "serviceType": "drone", "scheduledDate": "2025-03-04T10:30:00Z", "diagnosis": {"category": "Aircon"}}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.got)
}
