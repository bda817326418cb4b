package leave

import (
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/pkg/validator"
)

type SubmitRequest struct {
	UserID      int64     `json:"-"`
	Category    Category  `json:"leave_type"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Reason      string    `json:"reason"`
	DocumentURL *string   `json:"-"`
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.Category.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must be one of SICK, ANNUAL, CASUAL, MATERNITY",
		})
	}

	if r.StartDate.IsZero() {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	}
	if r.EndDate.IsZero() {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required",
		})
	}
	if !r.StartDate.IsZero() && !r.EndDate.IsZero() && r.EndDate.Before(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}
	if len(r.Reason) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ReviewRequest struct {
	RequestID string  `json:"-"`
	ManagerID int64   `json:"-"`
	Decision  Status  `json:"decision"`
	Comments  *string `json:"comments,omitempty"`
}

func (r *ReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "request_id",
			Message: "request_id is required",
		})
	}

	if r.Decision != StatusApproved && r.Decision != StatusRejected {
		errs = append(errs, validator.ValidationError{
			Field:   "decision",
			Message: "decision must be APPROVED or REJECTED",
		})
	}

	if r.Comments != nil && len(*r.Comments) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "comments",
			Message: "comments must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RequestFilter struct {
	Status *Status
	Year   *int
	Limit  int
	Offset int
}

type RequestResponse struct {
	ID              string   `json:"leave_request_id"`
	UserID          int64    `json:"user_id"`
	UserName        *string  `json:"user_name,omitempty"`
	Category        Category `json:"leave_type"`
	CategoryName    string   `json:"leave_type_name"`
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date"`
	Days            float64  `json:"number_of_days"`
	Reason          string   `json:"reason"`
	DocumentURL     *string  `json:"document_url,omitempty"`
	Status          Status   `json:"status"`
	ManagerID       *int64   `json:"manager_id,omitempty"`
	ManagerName     *string  `json:"manager_name,omitempty"`
	ManagerComments *string  `json:"manager_comments,omitempty"`
	ReviewedAt      *string  `json:"reviewed_at,omitempty"`
	CreatedAt       string   `json:"created_at"`
}

type ListRequestResponse struct {
	Requests []RequestResponse `json:"leave_requests"`
	Total    int64             `json:"total"`
}

type BalanceResponse struct {
	Category            Category `json:"leave_type"`
	CategoryName        string   `json:"leave_type_name"`
	Year                int      `json:"year"`
	TotalDays           float64  `json:"total_days"`
	UsedDays            float64  `json:"used_days"`
	AvailableDays       float64  `json:"available_days"`
	AccruedDays         float64  `json:"accrued_days"`
	CarryoverDays       float64  `json:"carryover_days"`
	CarryoverExpiryDate *string  `json:"carryover_expiry_date,omitempty"`
}

const dateLayout = "2006-01-02"

// ToResponse maps a request entity to its API shape.
func (r Request) ToResponse() RequestResponse {
	resp := RequestResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		UserName:        r.UserName,
		Category:        r.Category,
		CategoryName:    r.Category.DisplayName(),
		StartDate:       r.StartDate.Format(dateLayout),
		EndDate:         r.EndDate.Format(dateLayout),
		Days:            r.Days,
		Reason:          r.Reason,
		DocumentURL:     r.DocumentURL,
		Status:          r.Status,
		ManagerID:       r.ManagerID,
		ManagerName:     r.ManagerName,
		ManagerComments: r.ManagerComments,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
	}
	if r.ReviewedAt != nil {
		reviewed := r.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &reviewed
	}
	return resp
}

func (b Balance) ToResponse() BalanceResponse {
	resp := BalanceResponse{
		Category:      b.Category,
		CategoryName:  b.Category.DisplayName(),
		Year:          b.Year,
		TotalDays:     b.TotalDays,
		UsedDays:      b.UsedDays,
		AvailableDays: b.AvailableDays,
		AccruedDays:   b.AccruedDays,
		CarryoverDays: b.CarryoverDays,
	}
	if b.CarryoverExpiryDate != nil {
		expiry := b.CarryoverExpiryDate.Format(dateLayout)
		resp.CarryoverExpiryDate = &expiry
	}
	return resp
}
