package leave_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/leave"
)

func TestComputeDurationHours(t *testing.T) {
	t.Run("same day clock window", func(t *testing.T) {
		got, err := leave.ComputeDurationHours(
			mustDate("2025-07-14"), mustDate("2025-07-14"),
			"09:00", "13:00", "09:00", "18:00")

		assert.NoError(t, err)
		assert.Equal(t, 4.0, got)
	})

	t.Run("missing clocks fall back to working day bounds", func(t *testing.T) {
		got, err := leave.ComputeDurationHours(
			mustDate("2025-07-14"), mustDate("2025-07-14"),
			"", "", "09:00", "18:00")

		assert.NoError(t, err)
		assert.Equal(t, 9.0, got)
	})

	t.Run("multi day span counts elapsed time", func(t *testing.T) {
		// day one 09:00 through day two 18:00 is 33 elapsed hours
		got, err := leave.ComputeDurationHours(
			mustDate("2025-07-14"), mustDate("2025-07-15"),
			"09:00", "18:00", "09:00", "18:00")

		assert.NoError(t, err)
		assert.Equal(t, 33.0, got)
	})

	t.Run("inverted clocks floor at zero", func(t *testing.T) {
		got, err := leave.ComputeDurationHours(
			mustDate("2025-07-14"), mustDate("2025-07-14"),
			"15:00", "09:00", "09:00", "18:00")

		assert.NoError(t, err)
		assert.Equal(t, 0.0, got)
	})

	t.Run("partial minutes round to two decimals", func(t *testing.T) {
		// 09:00 to 12:20 is 3 hours 20 minutes
		got, err := leave.ComputeDurationHours(
			mustDate("2025-07-14"), mustDate("2025-07-14"),
			"09:00", "12:20", "09:00", "18:00")

		assert.NoError(t, err)
		assert.Equal(t, 3.33, got)
	})

	t.Run("negative malformed clock", func(t *testing.T) {
		_, err := leave.ComputeDurationHours(
			mustDate("2025-07-14"), mustDate("2025-07-14"),
			"9am", "13:00", "09:00", "18:00")

		assert.Error(t, err)
	})
}

func TestCalendarDays(t *testing.T) {
	assert.Equal(t, 1, leave.CalendarDays(mustDate("2025-07-14"), mustDate("2025-07-14")))
	assert.Equal(t, 3, leave.CalendarDays(mustDate("2025-07-14"), mustDate("2025-07-16")))
	assert.Equal(t, 0, leave.CalendarDays(mustDate("2025-07-16"), mustDate("2025-07-14")))
}
