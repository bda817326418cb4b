package leave

import (
	"context"
	"time"
)

// StatusCount is one row of a per-user, per-category status
// aggregation.
type StatusCount struct {
	UserID   int64
	Category Category
	Status   Status
	Count    int
}

// BalanceRepository - interface for leave_balances table
type BalanceRepository interface {
	Create(ctx context.Context, balance Balance) (Balance, error)
	GetByUserCategoryYear(ctx context.Context, userID int64, category Category, year int) (Balance, error)
	GetByUserAndYear(ctx context.Context, userID int64, year int) ([]Balance, error)
	GetByYear(ctx context.Context, year int) ([]Balance, error)
	Update(ctx context.Context, balance Balance) error

	// Deduct increments used_days by days, guarded so available_days
	// never goes negative. Returns ErrInsufficientBalance when the
	// guard rejects the write.
	Deduct(ctx context.Context, balanceID string, days float64) error

	// Refund decrements used_days by days, clamped at zero.
	Refund(ctx context.Context, balanceID string, days float64) error

	// GetCarryoverCandidates returns accruing balances for the given
	// year that still have spendable days.
	GetCarryoverCandidates(ctx context.Context, year int) ([]Balance, error)
}

// RequestRepository - interface for leave_requests table
type RequestRepository interface {
	Create(ctx context.Context, request Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	GetByUserID(ctx context.Context, userID int64, filter RequestFilter) ([]Request, int64, error)
	GetByUserIDs(ctx context.Context, userIDs []int64, filter RequestFilter) ([]Request, int64, error)

	// HasOverlap reports whether the user has a pending or approved
	// request whose date range intersects [start, end].
	HasOverlap(ctx context.Context, userID int64, start, end time.Time) (bool, error)

	// Review moves a pending request to APPROVED or REJECTED. Returns
	// ErrRequestAlreadyProcessed when the request is no longer pending.
	Review(ctx context.Context, id string, decision Status, managerID int64, comments *string) error

	// Cancel moves a pending or approved request to CANCELLED. Returns
	// ErrRequestAlreadyProcessed when the request is already terminal.
	Cancel(ctx context.Context, id string) error

	// ApprovedStartingOn returns approved requests whose leave begins
	// on the given date.
	ApprovedStartingOn(ctx context.Context, date time.Time) ([]Request, error)

	// ApprovedInRange returns approved requests for the given users
	// that intersect [from, to].
	ApprovedInRange(ctx context.Context, userIDs []int64, from, to time.Time) ([]Request, error)

	// ActiveInRange is ApprovedInRange plus pending requests, for
	// calendar projections.
	ActiveInRange(ctx context.Context, userIDs []int64, from, to time.Time) ([]Request, error)

	CountByStatus(ctx context.Context, status Status) (int64, error)

	// StatusCountsForYear aggregates request counts per user and
	// status for requests starting in the given year.
	StatusCountsForYear(ctx context.Context, year int) ([]StatusCount, error)
}
