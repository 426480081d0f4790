package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkingHours_UnmarshalVariants(t *testing.T) {
	var structured WorkingHours
	require.NoError(t, json.Unmarshal([]byte(`{"startTime":"09:00","endTime":"17:00"}`), &structured))
	require.True(t, structured.IsStructured())
	assert.Equal(t, "09:00", structured.Structured.StartTime)
	assert.Equal(t, "17:00", structured.Structured.EndTime)

	var legacy WorkingHours
	require.NoError(t, json.Unmarshal([]byte(`{"start":"08:00","end":"12:00"}`), &legacy))
	assert.Equal(t, "08:00", legacy.Structured.StartTime)

	var text WorkingHours
	require.NoError(t, json.Unmarshal([]byte(`"9:00 AM - 5:00 PM"`), &text))
	assert.False(t, text.IsStructured())
	assert.Equal(t, "9:00 AM - 5:00 PM", text.Text)

	var empty WorkingHours
	require.NoError(t, json.Unmarshal([]byte(`null`), &empty))
	assert.True(t, empty.IsEmpty())
	assert.False(t, empty.IsMalformed())
}

func TestWorkingHours_UnknownShapeKeptAsMalformed(t *testing.T) {
	payloads := []string{
		`42`,
		`["09:00","17:00"]`,
		`{"startTime":9,"endTime":17}`,
		`true`,
	}

	for _, payload := range payloads {
		var hours WorkingHours
		require.NoError(t, json.Unmarshal([]byte(payload), &hours), payload)
		assert.True(t, hours.IsMalformed(), payload)
		assert.False(t, hours.IsEmpty(), payload)
		assert.False(t, hours.IsStructured(), payload)
		assert.Equal(t, payload, hours.Malformed)
	}
}

func TestWorkingHours_ScanMalformed(t *testing.T) {
	var hours WorkingHours
	require.NoError(t, hours.Scan([]byte(`{"startTime":9,"endTime":17}`)))
	assert.True(t, hours.IsMalformed())

	// Значение сохраняется без изменений
	v, err := hours.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"startTime":9,"endTime":17}`, string(v.([]byte)))

	var fromInt WorkingHours
	require.NoError(t, fromInt.Scan(int64(900)))
	assert.Equal(t, "900", fromInt.Malformed)
}

func TestWorkingHours_ValueRoundTrip(t *testing.T) {
	v, err := NewStructuredHours("09:00", "17:00").Value()
	require.NoError(t, err)

	var scanned WorkingHours
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, "17:00", scanned.Structured.EndTime)

	v, err = WorkingHours{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestTechnician_HandlesCategory(t *testing.T) {
	tech := &Technician{ServiceCategories: []string{"Aircon", "Refrigerator"}}
	assert.True(t, tech.HandlesCategory("aircon"))
	assert.False(t, tech.HandlesCategory("Washing Machine"))

	assert.True(t, (&Technician{}).HandlesCategory("Washing Machine"))
	assert.True(t, (&Technician{ServiceCategories: []string{"All"}}).HandlesCategory("TV"))
}
