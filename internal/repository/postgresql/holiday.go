package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/holiday"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/database"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

const holidayColumns = `
	id, name, holiday_date, year, description, is_recurring,
	created_at, updated_at
`

func scanHoliday(row pgx.Row) (holiday.Holiday, error) {
	var h holiday.Holiday
	err := row.Scan(
		&h.ID, &h.Name, &h.Date, &h.Year, &h.Description, &h.IsRecurring,
		&h.CreatedAt, &h.UpdatedAt,
	)
	return h, err
}

// Create implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)
	query := `
        INSERT INTO public_holidays (
            id, name, holiday_date, year, description, is_recurring,
            created_at, updated_at
        ) VALUES (
            gen_random_uuid(), $1, $2, $3, $4, $5,
            NOW(), NOW()
        ) RETURNING id, created_at, updated_at
    `

	err := q.QueryRow(ctx, query,
		h.Name, h.Date, h.Year, h.Description, h.IsRecurring,
	).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return holiday.Holiday{}, holiday.ErrDuplicateDate
		}
		return holiday.Holiday{}, err
	}

	return h, nil
}

// GetByID implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) GetByID(ctx context.Context, id string) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)
	query := `
        SELECT ` + holidayColumns + `
        FROM public_holidays
        WHERE id = $1
    `

	h, err := scanHoliday(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return holiday.Holiday{}, holiday.ErrHolidayNotFound
		}
		return holiday.Holiday{}, err
	}

	return h, nil
}

// GetByYear implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) GetByYear(ctx context.Context, year int) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)
	query := `
        SELECT ` + holidayColumns + `
        FROM public_holidays
        WHERE year = $1
        ORDER BY holiday_date
    `

	rows, err := q.Query(ctx, query, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holidays := make([]holiday.Holiday, 0)
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}

	return holidays, rows.Err()
}

// GetBetween implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) GetBetween(ctx context.Context, from, to time.Time) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)
	query := `
        SELECT ` + holidayColumns + `
        FROM public_holidays
        WHERE holiday_date BETWEEN $1 AND $2
        ORDER BY holiday_date
    `

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holidays := make([]holiday.Holiday, 0)
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}

	return holidays, rows.Err()
}

// Update implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Update(ctx context.Context, h holiday.Holiday) error {
	q := GetQuerier(ctx, r.db)
	query := `
        UPDATE public_holidays
        SET name = $1,
            holiday_date = $2,
            year = $3,
            description = $4,
            is_recurring = $5,
            updated_at = NOW()
        WHERE id = $6
    `

	result, err := q.Exec(ctx, query,
		h.Name, h.Date, h.Year, h.Description, h.IsRecurring, h.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return holiday.ErrDuplicateDate
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return holiday.ErrHolidayNotFound
	}

	return nil
}

// Delete implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	result, err := q.Exec(ctx, `DELETE FROM public_holidays WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return holiday.ErrHolidayNotFound
	}

	return nil
}
