package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, ts.Minutes())

	for _, bad := range []string{"", "9:30", "24:00", "12:60", "ab:cd", "09:30:00"} {
		_, err := NewTimeStringFromString(bad)
		assert.ErrorIs(t, err, ErrInvalidTimeString, bad)
	}
}

func TestTimeString_Format12h(t *testing.T) {
	assert.Equal(t, "9:00 AM", TimeString("09:00").Format12h())
	assert.Equal(t, "12:00 PM", TimeString("12:00").Format12h())
	assert.Equal(t, "12:15 AM", TimeString("00:15").Format12h())
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.Scan("10:45:00"))
	assert.Equal(t, TimeString("10:45"), ts)

	require.NoError(t, ts.Scan(time.Date(2025, 1, 1, 7, 5, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("07:05"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())
}
