package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder_CountsAppointments(t *testing.T) {
	m := NewWithRegisterer("test", prometheus.NewRegistry())
	r := NewRecorder(m)

	r.AppointmentCreated("walk-in")
	r.AppointmentCreated("walk-in")
	r.AppointmentRejected("duplicate_active")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AppointmentsCreated.WithLabelValues("walk-in")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AppointmentsRejected.WithLabelValues("duplicate_active")))
}

func TestRecorder_NilSafe(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.AppointmentCreated("walk-in")
		NewRecorder(nil).RatingSubmitted("new")
	})
}
