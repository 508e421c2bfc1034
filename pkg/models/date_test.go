package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2023-12-15")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2023, time.December, 15), d)
	assert.Equal(t, time.Friday, d.Weekday())

	_, err = ParseDate("15/12/2023")
	assert.Error(t, err)
}

func TestDateAddDays(t *testing.T) {
	tests := []struct {
		name string
		from Date
		n    int
		want Date
	}{
		{"same month", NewDate(2023, time.December, 15), 1, NewDate(2023, time.December, 16)},
		{"month rollover", NewDate(2023, time.November, 30), 1, NewDate(2023, time.December, 1)},
		{"year rollover", NewDate(2023, time.December, 31), 1, NewDate(2024, time.January, 1)},
		{"leap day", NewDate(2024, time.February, 28), 1, NewDate(2024, time.February, 29)},
		{"backwards", NewDate(2024, time.January, 1), -1, NewDate(2023, time.December, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.AddDays(tt.n))
		})
	}
}

func TestDateOrdering(t *testing.T) {
	a := NewDate(2023, time.December, 15)
	b := NewDate(2023, time.December, 19)
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.After(a))
	assert.False(t, a.Before(a))
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2023, time.December, 25)
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2023-12-25"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back)
}

func TestDateOfUsesOwnLocation(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	// 23:00 UTC on the 14th is already the 15th in Tokyo.
	utc := time.Date(2023, time.December, 14, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, NewDate(2023, time.December, 15), DateOf(utc.In(loc)))
	assert.Equal(t, NewDate(2023, time.December, 14), DateOf(utc))
}
