package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/database"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type balanceRepositoryImpl struct {
	db *database.DB
}

func NewBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &balanceRepositoryImpl{db: db}
}

const balanceColumns = `
	id, user_id, leave_type, year,
	total_days, used_days, available_days,
	accrued_days, carryover_days, carryover_expiry_date,
	employment_start_date, created_at, updated_at
`

func scanBalance(row pgx.Row) (leave.Balance, error) {
	var b leave.Balance
	err := row.Scan(
		&b.ID, &b.UserID, &b.Category, &b.Year,
		&b.TotalDays, &b.UsedDays, &b.AvailableDays,
		&b.AccruedDays, &b.CarryoverDays, &b.CarryoverExpiryDate,
		&b.EmploymentStartDate, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

// Create implements leave.BalanceRepository. A concurrent insert for
// the same user, category and year surfaces as ErrDuplicateBalance so
// callers can re-read instead of failing.
func (r *balanceRepositoryImpl) Create(ctx context.Context, balance leave.Balance) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)
	query := `
        INSERT INTO leave_balances (
            id, user_id, leave_type, year,
            total_days, used_days,
            accrued_days, carryover_days, carryover_expiry_date,
            employment_start_date, created_at, updated_at
        ) VALUES (
            gen_random_uuid(), $1, $2, $3,
            $4, $5,
            $6, $7, $8,
            $9, NOW(), NOW()
        ) RETURNING id, available_days, created_at, updated_at
    `

	err := q.QueryRow(ctx, query,
		balance.UserID, balance.Category, balance.Year,
		balance.TotalDays, balance.UsedDays,
		balance.AccruedDays, balance.CarryoverDays, balance.CarryoverExpiryDate,
		balance.EmploymentStartDate,
	).Scan(&balance.ID, &balance.AvailableDays, &balance.CreatedAt, &balance.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return leave.Balance{}, leave.ErrDuplicateBalance
		}
		return leave.Balance{}, err
	}

	return balance, nil
}

// GetByUserCategoryYear implements leave.BalanceRepository.
func (r *balanceRepositoryImpl) GetByUserCategoryYear(ctx context.Context, userID int64, category leave.Category, year int) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)
	query := `
        SELECT ` + balanceColumns + `
        FROM leave_balances
        WHERE user_id = $1 AND leave_type = $2 AND year = $3
    `

	b, err := scanBalance(q.QueryRow(ctx, query, userID, category, year))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, err
	}

	return b, nil
}

// GetByUserAndYear implements leave.BalanceRepository.
func (r *balanceRepositoryImpl) GetByUserAndYear(ctx context.Context, userID int64, year int) ([]leave.Balance, error) {
	q := GetQuerier(ctx, r.db)
	query := `
        SELECT ` + balanceColumns + `
        FROM leave_balances
        WHERE user_id = $1 AND year = $2
        ORDER BY leave_type
    `

	rows, err := q.Query(ctx, query, userID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make([]leave.Balance, 0)
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}

	return balances, rows.Err()
}

// GetByYear implements leave.BalanceRepository.
func (r *balanceRepositoryImpl) GetByYear(ctx context.Context, year int) ([]leave.Balance, error) {
	q := GetQuerier(ctx, r.db)
	query := `
        SELECT ` + balanceColumns + `
        FROM leave_balances
        WHERE year = $1
        ORDER BY user_id, leave_type
    `

	rows, err := q.Query(ctx, query, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make([]leave.Balance, 0)
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}

	return balances, rows.Err()
}

// Update implements leave.BalanceRepository. Only the accrual-derived
// fields are writable; used_days moves through Deduct and Refund.
func (r *balanceRepositoryImpl) Update(ctx context.Context, balance leave.Balance) error {
	q := GetQuerier(ctx, r.db)
	query := `
        UPDATE leave_balances
        SET total_days = $1,
            accrued_days = $2,
            carryover_days = $3,
            carryover_expiry_date = $4,
            employment_start_date = $5,
            updated_at = NOW()
        WHERE id = $6
    `

	result, err := q.Exec(ctx, query,
		balance.TotalDays, balance.AccruedDays, balance.CarryoverDays,
		balance.CarryoverExpiryDate, balance.EmploymentStartDate, balance.ID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return leave.ErrBalanceNotFound
	}

	return nil
}

// Deduct implements leave.BalanceRepository. The WHERE clause keeps
// used_days from exceeding total_days even under concurrent approvals.
func (r *balanceRepositoryImpl) Deduct(ctx context.Context, balanceID string, days float64) error {
	q := GetQuerier(ctx, r.db)
	query := `
        UPDATE leave_balances
        SET used_days = used_days + $1,
            updated_at = NOW()
        WHERE id = $2
        AND (total_days - used_days - $1) >= 0
    `

	result, err := q.Exec(ctx, query, days, balanceID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return leave.ErrInsufficientBalance
	}

	return nil
}

// Refund implements leave.BalanceRepository. used_days never drops
// below zero.
func (r *balanceRepositoryImpl) Refund(ctx context.Context, balanceID string, days float64) error {
	q := GetQuerier(ctx, r.db)
	query := `
        UPDATE leave_balances
        SET used_days = GREATEST(used_days - $1, 0),
            updated_at = NOW()
        WHERE id = $2
    `

	result, err := q.Exec(ctx, query, days, balanceID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return leave.ErrBalanceNotFound
	}

	return nil
}

// GetCarryoverCandidates implements leave.BalanceRepository.
func (r *balanceRepositoryImpl) GetCarryoverCandidates(ctx context.Context, year int) ([]leave.Balance, error) {
	q := GetQuerier(ctx, r.db)
	query := `
        SELECT ` + balanceColumns + `
        FROM leave_balances
        WHERE year = $1 AND leave_type = $2 AND (total_days - used_days) > 0
        ORDER BY user_id
    `

	rows, err := q.Query(ctx, query, year, leave.CategoryAnnual)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make([]leave.Balance, 0)
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}

	return balances, rows.Err()
}
