package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTime(t *testing.T) {
	cases := map[string]string{
		"09:00:00": "09:00:00",
		"09:00":    "09:00:00",
		"9:00 AM":  "09:00:00",
		"9:00AM":   "09:00:00",
		"9:00 am":  "09:00:00",
		"2:30 PM":  "14:30:00",
		"2:30pm":   "14:30:00",
		"3 PM":     "15:00:00",
		"12:00 PM": "12:00:00",
		"12:00 AM": "00:00:00",
		"23:30":    "23:30:00",
		" 10:00 ":  "10:00:00",
	}
	for input, want := range cases {
		got, err := NormalizeTime(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}

	for _, input := range []string{"", "   ", "25:00", "noonish", "9:99 AM", "10-30"} {
		_, err := NormalizeTime(input)
		assert.ErrorIs(t, err, ErrInvalidTime, "input %q", input)
	}
}

func TestFormatDisplay(t *testing.T) {
	assert.Equal(t, "9:00 AM", FormatDisplay("09:00:00"))
	assert.Equal(t, "2:30 PM", FormatDisplay("14:30:00"))
	assert.Equal(t, "12:00 AM", FormatDisplay("00:00:00"))
	assert.Equal(t, "12:30 PM", FormatDisplay("12:30:00"))

	// Unparseable input passes through untouched.
	assert.Equal(t, "garbage", FormatDisplay("garbage"))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-09-07")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d.Weekday())

	for _, input := range []string{"", "07-09-2026", "2026/09/07", "next tuesday"} {
		_, err := ParseDate(input)
		assert.ErrorIs(t, err, ErrInvalidDate, "input %q", input)
	}
}

func TestCombineDateTime(t *testing.T) {
	instant, err := CombineDateTime("2026-09-07", "14:30:00")
	require.NoError(t, err)
	assert.Equal(t, 2026, instant.Year())
	assert.Equal(t, time.September, instant.Month())
	assert.Equal(t, 7, instant.Day())
	assert.Equal(t, 14, instant.Hour())
	assert.Equal(t, 30, instant.Minute())
	assert.Equal(t, time.Local, instant.Location())

	_, err = CombineDateTime("bad", "14:30:00")
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, err = CombineDateTime("2026-09-07", "2:30 PM")
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestMinuteConversionsRoundTrip(t *testing.T) {
	for _, canonical := range []string{"00:00:00", "09:30:00", "16:30:00", "23:30:00"} {
		m, err := minuteOfDay(canonical)
		require.NoError(t, err)
		assert.Equal(t, canonical, minuteToCanonical(m))
	}
}
