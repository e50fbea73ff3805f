package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	t.Run("valid clock strings", func(t *testing.T) {
		hours, minutes, err := ParseClock("09:30")
		assert.NoError(t, err)
		assert.Equal(t, 9, hours)
		assert.Equal(t, 30, minutes)

		hours, minutes, err = ParseClock("00:00")
		assert.NoError(t, err)
		assert.Equal(t, 0, hours)
		assert.Equal(t, 0, minutes)

		hours, minutes, err = ParseClock("23:59")
		assert.NoError(t, err)
		assert.Equal(t, 23, hours)
		assert.Equal(t, 59, minutes)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, clock := range []string{"", "0930", "9:30:00", "24:00", "12:60", "ab:cd", "-1:30"} {
			_, _, err := ParseClock(clock)
			assert.Error(t, err, clock)
		}
	})
}

func TestCombineDateAndClock(t *testing.T) {
	date := time.Date(2025, 6, 15, 17, 45, 12, 0, time.UTC)

	combined, err := CombineDateAndClock(date, "11:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 15, 11, 0, 0, 0, time.UTC), combined)

	_, err = CombineDateAndClock(date, "nope")
	assert.Error(t, err)
}

func TestAddMinutesToClock(t *testing.T) {
	t.Run("simple addition", func(t *testing.T) {
		end, err := AddMinutesToClock("09:00", 135)
		assert.NoError(t, err)
		assert.Equal(t, "11:15", end)
	})

	t.Run("wraps past midnight", func(t *testing.T) {
		end, err := AddMinutesToClock("23:30", 45)
		assert.NoError(t, err)
		assert.Equal(t, "00:15", end)
	})

	t.Run("negative offsets wrap backwards", func(t *testing.T) {
		end, err := AddMinutesToClock("00:15", -30)
		assert.NoError(t, err)
		assert.Equal(t, "23:45", end)
	})

	t.Run("propagates parse errors", func(t *testing.T) {
		_, err := AddMinutesToClock("25:00", 10)
		assert.Error(t, err)
	})
}

func TestMidnight(t *testing.T) {
	instant := time.Date(2025, 6, 15, 17, 45, 12, 999, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), Midnight(instant))
}

func TestDayBounds(t *testing.T) {
	instant := time.Date(2025, 6, 15, 17, 45, 12, 0, time.UTC)

	start, end := DayBounds(instant)

	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), end)
}
