package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/repository/postgresql"
)

// MyBalances implements leave.LeaveService. Missing balance rows are
// created on first read with the category's default allowance, and
// accruing balances are refreshed against the calendar before being
// returned.
func (s *leaveServiceImpl) MyBalances(ctx context.Context, userID int64, year int) ([]leave.BalanceResponse, error) {
	var balances []leave.Balance

	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		for _, category := range leave.Categories {
			balance, err := s.getOrCreateBalance(txCtx, userID, category, year)
			if err != nil {
				return err
			}
			balances = append(balances, balance)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	responses := make([]leave.BalanceResponse, 0, len(balances))
	for _, balance := range balances {
		responses = append(responses, balance.ToResponse())
	}

	return responses, nil
}

// getOrCreateBalance returns the balance row for the user, category and
// year, creating it with defaults when absent. Accruing categories are
// refreshed so accrued days track the calendar.
func (s *leaveServiceImpl) getOrCreateBalance(ctx context.Context, userID int64, category leave.Category, year int) (leave.Balance, error) {
	balance, err := s.balanceRepo.GetByUserCategoryYear(ctx, userID, category, year)
	if err != nil {
		if !errors.Is(err, leave.ErrBalanceNotFound) {
			return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
		}

		balance, err = s.createDefaultBalance(ctx, userID, category, year)
		if err != nil {
			return leave.Balance{}, err
		}
	}

	if category.Accrues() {
		balance, err = s.refreshAccrual(ctx, balance, time.Now().UTC())
		if err != nil {
			return leave.Balance{}, err
		}
	}

	return balance, nil
}

func (s *leaveServiceImpl) createDefaultBalance(ctx context.Context, userID int64, category leave.Category, year int) (leave.Balance, error) {
	balance := leave.Balance{
		UserID:   userID,
		Category: category,
		Year:     year,
	}

	if start := s.employmentStart(ctx, userID); start != nil {
		balance.EmploymentStartDate = start
	}

	if category.Accrues() {
		// Accrued days are filled in by refreshAccrual.
		expiry := s.calc.CarryoverExpiry(year)
		balance.CarryoverExpiryDate = &expiry
	} else {
		balance.TotalDays = category.DefaultAllowance()
	}

	created, err := s.balanceRepo.Create(ctx, balance)
	if err != nil {
		// Lost a create race; the row is there now.
		if errors.Is(err, leave.ErrDuplicateBalance) {
			return s.balanceRepo.GetByUserCategoryYear(ctx, userID, category, year)
		}
		return leave.Balance{}, fmt.Errorf("failed to create leave balance: %w", err)
	}

	return created, nil
}

// employmentStart asks the identity service when the user joined. A
// lookup failure degrades to accruing from the start of the year.
func (s *leaveServiceImpl) employmentStart(ctx context.Context, userID int64) *time.Time {
	u, err := s.resolver.GetUser(ctx, userID)
	if err != nil {
		slog.Warn("Failed to resolve employment start date", "user_id", userID, "error", err)
		return nil
	}
	return u.EmploymentStartDate
}

// refreshAccrual recomputes accrued days and the derived totals for an
// accruing balance as of today, persisting the row when it moved.
// Accrual is always computed for the balance's own year, so reading a
// past or future year never rewrites it with today's partial accrual.
// Lapsed carryover is zeroed on the row.
func (s *leaveServiceImpl) refreshAccrual(ctx context.Context, balance leave.Balance, today time.Time) (leave.Balance, error) {
	employmentStart := time.Date(balance.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	if balance.EmploymentStartDate != nil {
		employmentStart = *balance.EmploymentStartDate
	}

	accrued := s.calc.AccruedDays(employmentStart, balance.Year, today)
	carryover := s.calc.EffectiveCarryover(balance, today)
	total := accrued + carryover

	if accrued == balance.AccruedDays && carryover == balance.CarryoverDays && total == balance.TotalDays {
		return balance, nil
	}

	balance.AccruedDays = accrued
	balance.CarryoverDays = carryover
	balance.TotalDays = total
	balance.AvailableDays = total - balance.UsedDays

	if err := s.balanceRepo.Update(ctx, balance); err != nil {
		return leave.Balance{}, fmt.Errorf("failed to refresh accrued balance: %w", err)
	}

	return balance, nil
}

// RunYearEndCarryover implements leave.LeaveService. Unused annual
// days roll into a fresh balance row for the next year, capped by the
// carryover limit. The source year is never mutated, and the unique
// balance constraint makes re-runs no-ops.
func (s *leaveServiceImpl) RunYearEndCarryover(ctx context.Context, fromYear int) error {
	candidates, err := s.balanceRepo.GetCarryoverCandidates(ctx, fromYear)
	if err != nil {
		return fmt.Errorf("failed to get carryover candidates: %w", err)
	}

	toYear := fromYear + 1
	expiry := s.calc.CarryoverExpiry(toYear)

	created, skipped := 0, 0
	for _, balance := range candidates {
		carryover := s.calc.Carryover(balance.AvailableDays)
		if carryover <= 0 {
			continue
		}

		next := leave.Balance{
			UserID:              balance.UserID,
			Category:            balance.Category,
			Year:                toYear,
			TotalDays:           carryover,
			CarryoverDays:       carryover,
			CarryoverExpiryDate: &expiry,
			EmploymentStartDate: balance.EmploymentStartDate,
		}

		if _, err := s.balanceRepo.Create(ctx, next); err != nil {
			if errors.Is(err, leave.ErrDuplicateBalance) {
				skipped++
				continue
			}
			return fmt.Errorf("failed to create carryover balance for user %d: %w", balance.UserID, err)
		}
		created++
	}

	slog.Info("Year-end carryover completed",
		"from_year", fromYear,
		"candidates", len(candidates),
		"created", created,
		"skipped", skipped,
	)

	return nil
}
