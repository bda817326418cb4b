package holiday

import (
	"context"
	"time"
)

// HolidayRepository - interface for public_holidays table
type HolidayRepository interface {
	Create(ctx context.Context, h Holiday) (Holiday, error)
	GetByID(ctx context.Context, id string) (Holiday, error)
	GetByYear(ctx context.Context, year int) ([]Holiday, error)
	GetBetween(ctx context.Context, from, to time.Time) ([]Holiday, error)
	Update(ctx context.Context, h Holiday) error
	Delete(ctx context.Context, id string) error
}
