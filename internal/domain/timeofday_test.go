package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTimeOfDay(t *testing.T) {
	testCases := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "09:00", want: NewTimeOfDay(9, 0)},
		{in: "21:30", want: NewTimeOfDay(21, 30)},
		{in: "18:30:00", want: NewTimeOfDay(18, 30)},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				assert.True(t, IsCode(err, CodeInvalidRequest))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestTimeOfDay_String(t *testing.T) {
	assert.Equal(t, "09:05", NewTimeOfDay(9, 5).String())
	assert.Equal(t, "21:30", NewTimeOfDay(21, 30).String())
}

func TestTimeOfDay_Arithmetic(t *testing.T) {
	slot := NewTimeOfDay(19, 0)
	assert.Equal(t, NewTimeOfDay(18, 50), slot.Add(-10))
	assert.Equal(t, NewTimeOfDay(19, 30), slot.Add(30))
	assert.Equal(t, 30, NewTimeOfDay(19, 30).Sub(slot))
	assert.True(t, NewTimeOfDay(18, 0).Before(slot))
	assert.True(t, NewTimeOfDay(19, 30).After(slot))
}

func TestTimeOfDay_MicrosecondsRoundTrip(t *testing.T) {
	slot := NewTimeOfDay(18, 30)
	assert.Equal(t, slot, TimeOfDayFromMicroseconds(slot.Microseconds()))
}

func TestTimeOfDay_On(t *testing.T) {
	date := time.Date(2025, 5, 21, 0, 0, 0, 0, time.UTC)
	at := NewTimeOfDay(19, 0).On(date)
	assert.Equal(t, time.Date(2025, 5, 21, 19, 0, 0, 0, time.UTC), at)
}

func TestTimeOfDay_JSON(t *testing.T) {
	data, err := json.Marshal(NewTimeOfDay(18, 30))
	assert.NoError(t, err)
	assert.Equal(t, `"18:30"`, string(data))

	var parsed TimeOfDay
	assert.NoError(t, json.Unmarshal([]byte(`"09:00"`), &parsed))
	assert.Equal(t, NewTimeOfDay(9, 0), parsed)

	assert.Error(t, json.Unmarshal([]byte(`42`), &parsed))
}
