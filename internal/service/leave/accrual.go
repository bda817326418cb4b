package leave

import (
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
)

const (
	// monthlyAccrualRate is the number of annual-leave days earned per
	// completed month of service.
	monthlyAccrualRate = 1.66

	// maxAnnualAccrual caps the days accrued within a single year.
	maxAnnualAccrual = 20.0

	// maxCarryoverDays caps the unused days carried into the next year.
	maxCarryoverDays = 5.0

	// carryoverExpiryMonth / carryoverExpiryDay is the last day carried
	// days can be spent (January 31 of the carryover year).
	carryoverExpiryMonth = time.January
	carryoverExpiryDay   = 31
)

// AccrualCalculator derives accrued, carryover and available day counts
// for accruing balances. All methods are pure; the caller supplies the
// reference date.
type AccrualCalculator struct {
}

func NewAccrualCalculator() *AccrualCalculator {
	return &AccrualCalculator{}
}

// AccruedDays returns the annual-leave days earned within the given
// year as of asOf. Accrual runs from Jan 1 of the year or the
// employment start, whichever is later, to asOf or Dec 31 of the year,
// whichever is earlier. Completed months earn monthlyAccrualRate days,
// capped at maxAnnualAccrual. A year the employee had not joined yet,
// or that has not started yet, accrues nothing.
func (c *AccrualCalculator) AccruedDays(employmentStart time.Time, year int, asOf time.Time) float64 {
	accrualStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	if employmentStart.After(accrualStart) {
		accrualStart = employmentStart
	}

	accrualEnd := asOf
	if yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC); accrualEnd.After(yearEnd) {
		accrualEnd = yearEnd
	}
	if accrualEnd.Before(accrualStart) {
		return 0
	}

	// The day itself counts toward the month boundary.
	months := monthsBetween(accrualStart, accrualEnd.AddDate(0, 0, 1))
	if months <= 0 {
		return 0
	}

	accrued := float64(months) * monthlyAccrualRate
	if accrued > maxAnnualAccrual {
		accrued = maxAnnualAccrual
	}

	return accrued
}

// Carryover returns the days that move into the next year: the unused
// remainder, capped at maxCarryoverDays.
func (c *AccrualCalculator) Carryover(availableDays float64) float64 {
	if availableDays <= 0 {
		return 0
	}
	if availableDays > maxCarryoverDays {
		return maxCarryoverDays
	}
	return availableDays
}

// CarryoverExpiry returns the date after which carried days lapse for
// the given year.
func (c *AccrualCalculator) CarryoverExpiry(year int) time.Time {
	return time.Date(year, carryoverExpiryMonth, carryoverExpiryDay, 0, 0, 0, 0, time.UTC)
}

// EffectiveCarryover returns the carryover days still spendable on the
// given date. Expired carryover contributes nothing.
func (c *AccrualCalculator) EffectiveCarryover(balance leave.Balance, today time.Time) float64 {
	if balance.CarryoverExpired(today) {
		return 0
	}
	return balance.CarryoverDays
}

// TotalAvailable recomputes the balance's spendable days as of today:
// accrued plus unexpired carryover, minus what has been used.
func (c *AccrualCalculator) TotalAvailable(balance leave.Balance, today time.Time) float64 {
	available := balance.AccruedDays + c.EffectiveCarryover(balance, today) - balance.UsedDays
	if available < 0 {
		return 0
	}
	return available
}

// monthsBetween counts whole calendar months from start to end.
func monthsBetween(start, end time.Time) int {
	years := end.Year() - start.Year()
	months := int(end.Month()) - int(start.Month())

	totalMonths := years*12 + months

	// Adjust if the day of month hasn't been reached yet
	if end.Day() < start.Day() {
		totalMonths--
	}

	if totalMonths < 0 {
		totalMonths = 0
	}

	return totalMonths
}

// CalendarDays counts the days in an inclusive date range. Weekends and
// public holidays are counted like any other day.
func CalendarDays(start, end time.Time) float64 {
	if end.Before(start) {
		return 0
	}
	days := end.Sub(start).Hours()/24 + 1
	return float64(int(days + 0.5))
}
