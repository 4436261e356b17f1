package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "valid time", input: "18:00", want: "18:00"},
		{name: "midnight", input: "00:00", want: "00:00"},
		{name: "end of day", input: "23:59", want: "23:59"},
		{name: "invalid hour", input: "24:00", wantErr: true},
		{name: "invalid minute", input: "18:60", wantErr: true},
		{name: "missing leading zero is normalized", input: "9:00", want: "09:00"},
		{name: "garbage", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_Comparisons(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
	assert.True(t, TimeString("21:00").IsAfter("06:00"))
	assert.False(t, TimeString("06:00").IsAfter("06:00"))
}

func TestTimeString_Minutes(t *testing.T) {
	minutes, err := TimeString("18:30").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 18*60+30, minutes)
}

func TestTimeString_SubMinutes(t *testing.T) {
	diff, err := TimeString("19:00").SubMinutes("18:00")
	require.NoError(t, err)
	assert.Equal(t, 60, diff)

	diff, err = TimeString("18:00").SubMinutes("19:30")
	require.NoError(t, err)
	assert.Equal(t, -90, diff)
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("18:00").AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("19:30"), got)

	// Переход через полночь обрезается по модулю суток
	got, err = TimeString("23:30").AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, TimeString("00:30"), got)
}

func TestTimeString_At(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	got, err := TimeString("18:30").At(date)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 15, 18, 30, 0, 0, time.UTC), got)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("18:00:00"))
	assert.Equal(t, TimeString("18:00"), ts)

	require.NoError(t, ts.Scan([]byte("09:30")))
	assert.Equal(t, TimeString("09:30"), ts)

	require.NoError(t, ts.Scan(time.Date(2025, 1, 1, 7, 45, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("07:45"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("18:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "18:00", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = TimeString("bogus").Value()
	assert.Error(t, err)
}
