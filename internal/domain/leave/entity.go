package leave

import "time"

// Category enumerates the supported leave types.
type Category string

const (
	CategorySick      Category = "SICK"
	CategoryAnnual    Category = "ANNUAL"
	CategoryCasual    Category = "CASUAL"
	CategoryMaternity Category = "MATERNITY"
)

// Categories lists every valid category, in display order.
var Categories = []Category{CategorySick, CategoryAnnual, CategoryCasual, CategoryMaternity}

func (c Category) Valid() bool {
	switch c {
	case CategorySick, CategoryAnnual, CategoryCasual, CategoryMaternity:
		return true
	}
	return false
}

func (c Category) DisplayName() string {
	switch c {
	case CategorySick:
		return "Sick Leave"
	case CategoryAnnual:
		return "Annual Leave"
	case CategoryCasual:
		return "Casual Leave"
	case CategoryMaternity:
		return "Maternity Leave"
	}
	return string(c)
}

// DefaultAllowance is the number of days granted per year for the category.
func (c Category) DefaultAllowance() float64 {
	switch c {
	case CategorySick:
		return 15
	case CategoryAnnual:
		return 21
	case CategoryCasual:
		return 7
	case CategoryMaternity:
		return 90
	}
	return 0
}

// Accrues reports whether the category earns days monthly instead of
// being granted up front. Only annual leave accrues.
func (c Category) Accrues() bool {
	return c == CategoryAnnual
}

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusCancelled
}

// Request entity
type Request struct {
	ID       string
	UserID   int64
	Category Category

	StartDate time.Time
	EndDate   time.Time
	Days      float64

	Reason      string
	DocumentURL *string

	Status          Status
	ManagerID       *int64
	ManagerComments *string
	ReviewedAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Resolved from the identity service (for responses)
	UserName    *string
	ManagerName *string
}

// Balance entity. AvailableDays is always TotalDays - UsedDays; the
// repository maintains the equality on every write.
type Balance struct {
	ID       string
	UserID   int64
	Category Category
	Year     int

	TotalDays     float64
	UsedDays      float64
	AvailableDays float64

	AccruedDays         float64
	CarryoverDays       float64
	CarryoverExpiryDate *time.Time

	EmploymentStartDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CarryoverExpired reports whether the carried-over days can no longer
// be spent. The comparison is by calendar date, so the days stay
// spendable through the whole expiry day. A missing expiry date never
// expires.
func (b Balance) CarryoverExpired(today time.Time) bool {
	if b.CarryoverExpiryDate == nil {
		return false
	}
	date := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return date.After(*b.CarryoverExpiryDate)
}
