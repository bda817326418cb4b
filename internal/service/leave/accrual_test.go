package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestAccruedDays(t *testing.T) {
	calc := NewAccrualCalculator()

	cases := []struct {
		name            string
		employmentStart time.Time
		year            int
		asOf            time.Time
		want            float64
	}{
		{
			name:            "no completed month yet",
			employmentStart: date(2020, time.June, 1),
			year:            2025,
			asOf:            date(2025, time.January, 15),
			want:            0,
		},
		{
			name:            "first month completes on its last day",
			employmentStart: date(2020, time.June, 1),
			year:            2025,
			asOf:            date(2025, time.January, 31),
			want:            1.66,
		},
		{
			name:            "three months into the year",
			employmentStart: date(2020, time.June, 1),
			year:            2025,
			asOf:            date(2025, time.March, 31),
			want:            4.98,
		},
		{
			name:            "full calendar year",
			employmentStart: date(2020, time.June, 1),
			year:            2025,
			asOf:            date(2025, time.December, 31),
			want:            19.92,
		},
		{
			name:            "mid-year hire accrues from the hire date",
			employmentStart: date(2025, time.July, 1),
			year:            2025,
			asOf:            date(2025, time.December, 31),
			want:            9.96,
		},
		{
			name:            "mid-month hire rounds down to completed months",
			employmentStart: date(2025, time.March, 15),
			year:            2025,
			asOf:            date(2025, time.June, 10),
			want:            3.32,
		},
		{
			name:            "hired after the reference date",
			employmentStart: date(2025, time.October, 1),
			year:            2025,
			asOf:            date(2025, time.September, 1),
			want:            0,
		},
		{
			name:            "future year accrues nothing yet",
			employmentStart: date(2020, time.May, 1),
			year:            2027,
			asOf:            date(2026, time.September, 1),
			want:            0,
		},
		{
			name:            "past year keeps its full accrual",
			employmentStart: date(2020, time.May, 1),
			year:            2024,
			asOf:            date(2026, time.September, 1),
			want:            19.92,
		},
		{
			name:            "past year hire mid-year keeps partial accrual",
			employmentStart: date(2024, time.July, 1),
			year:            2024,
			asOf:            date(2026, time.September, 1),
			want:            9.96,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := calc.AccruedDays(c.employmentStart, c.year, c.asOf)
			assert.InDelta(t, c.want, got, 0.001)
		})
	}
}

func TestCarryover(t *testing.T) {
	calc := NewAccrualCalculator()

	assert.Equal(t, 0.0, calc.Carryover(0))
	assert.Equal(t, 0.0, calc.Carryover(-2))
	assert.Equal(t, 3.5, calc.Carryover(3.5))
	assert.Equal(t, 5.0, calc.Carryover(5))
	assert.Equal(t, 5.0, calc.Carryover(12))
}

func TestCarryoverExpiry(t *testing.T) {
	calc := NewAccrualCalculator()

	expiry := calc.CarryoverExpiry(2026)
	assert.Equal(t, date(2026, time.January, 31), expiry)
}

func TestEffectiveCarryover(t *testing.T) {
	calc := NewAccrualCalculator()
	expiry := date(2026, time.January, 31)

	balance := leave.Balance{
		CarryoverDays:       4,
		CarryoverExpiryDate: &expiry,
	}

	// Spendable through the expiry date itself, whatever the clock says
	assert.Equal(t, 4.0, calc.EffectiveCarryover(balance, date(2026, time.January, 15)))
	assert.Equal(t, 4.0, calc.EffectiveCarryover(balance, date(2026, time.January, 31)))
	assert.Equal(t, 4.0, calc.EffectiveCarryover(balance, time.Date(2026, time.January, 31, 12, 30, 0, 0, time.UTC)))
	assert.Equal(t, 0.0, calc.EffectiveCarryover(balance, date(2026, time.February, 1)))

	noExpiry := leave.Balance{CarryoverDays: 4}
	assert.Equal(t, 4.0, calc.EffectiveCarryover(noExpiry, date(2030, time.June, 1)))
}

func TestTotalAvailable(t *testing.T) {
	calc := NewAccrualCalculator()
	expiry := date(2026, time.January, 31)

	balance := leave.Balance{
		AccruedDays:         10,
		UsedDays:            3,
		CarryoverDays:       5,
		CarryoverExpiryDate: &expiry,
	}

	assert.InDelta(t, 12.0, calc.TotalAvailable(balance, date(2026, time.January, 10)), 0.001)
	assert.InDelta(t, 7.0, calc.TotalAvailable(balance, date(2026, time.March, 1)), 0.001)

	overdrawn := leave.Balance{AccruedDays: 2, UsedDays: 5}
	assert.Equal(t, 0.0, calc.TotalAvailable(overdrawn, date(2026, time.March, 1)))
}

func TestCalendarDays(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  float64
	}{
		{"single day", date(2026, time.March, 2), date(2026, time.March, 2), 1},
		{"inclusive range", date(2026, time.March, 2), date(2026, time.March, 4), 3},
		{"spans a month boundary", date(2026, time.March, 28), date(2026, time.April, 2), 6},
		{"weekend days count", date(2026, time.March, 6), date(2026, time.March, 9), 4},
		{"end before start", date(2026, time.March, 4), date(2026, time.March, 2), 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, CalendarDays(c.start, c.end))
		})
	}
}
