package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/repository/postgresql"
)

// Submit implements leave.LeaveService. The overlap check, balance
// feasibility check and insert run in one transaction; the manager
// notification goes out only after commit.
func (s *leaveServiceImpl) Submit(ctx context.Context, req leave.SubmitRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	days := CalendarDays(req.StartDate, req.EndDate)

	// The request is routed to the employee's manager up front; review
	// re-stamps manager_id with whoever actually decides.
	var managerID *int64
	if manager, err := s.resolver.GetManager(ctx, req.UserID); err == nil {
		managerID = &manager.ID
	} else {
		slog.Warn("Failed to resolve manager for new request", "user_id", req.UserID, "error", err)
	}

	var created leave.Request
	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		hasOverlap, err := s.requestRepo.HasOverlap(txCtx, req.UserID, req.StartDate, req.EndDate)
		if err != nil {
			return fmt.Errorf("failed to check overlapping leave requests: %w", err)
		}
		if hasOverlap {
			return leave.ErrOverlappingRequest
		}

		balance, err := s.getOrCreateBalance(txCtx, req.UserID, req.Category, req.StartDate.Year())
		if err != nil {
			return err
		}

		// Feasibility check only: nothing is deducted until approval,
		// which re-checks against the balance of that moment.
		if balance.AvailableDays < days {
			return leave.ErrInsufficientBalance
		}

		created, err = s.requestRepo.Create(txCtx, leave.Request{
			UserID:      req.UserID,
			Category:    req.Category,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			Days:        days,
			Reason:      req.Reason,
			DocumentURL: req.DocumentURL,
			Status:      leave.StatusPending,
			ManagerID:   managerID,
		})
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}

		return nil
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	s.dispatcher.LeaveSubmitted(ctx, created)

	s.attachNames(ctx, []*leave.Request{&created})
	return created.ToResponse(), nil
}

// Review implements leave.LeaveService. Approval deducts the days
// inside the same transaction as the status flip, so an insufficient
// balance rolls the request back to pending review.
func (s *leaveServiceImpl) Review(ctx context.Context, req leave.ReviewRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	var reviewed leave.Request
	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		request, err := s.requestRepo.GetByID(txCtx, req.RequestID)
		if err != nil {
			return err
		}

		if err := s.requestRepo.Review(txCtx, request.ID, req.Decision, req.ManagerID, req.Comments); err != nil {
			return err
		}

		if req.Decision == leave.StatusApproved {
			balance, err := s.getOrCreateBalance(txCtx, request.UserID, request.Category, request.StartDate.Year())
			if err != nil {
				return err
			}

			if err := s.balanceRepo.Deduct(txCtx, balance.ID, request.Days); err != nil {
				return err
			}
		}

		reviewed, err = s.requestRepo.GetByID(txCtx, request.ID)
		return err
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	s.dispatcher.LeaveReviewed(ctx, reviewed)

	s.attachNames(ctx, []*leave.Request{&reviewed})
	return reviewed.ToResponse(), nil
}

// Cancel implements leave.LeaveService. Cancelling an approved request
// refunds the deducted days; cancelling a pending one touches no
// balance. Rejected and already-cancelled requests stay as they are.
func (s *leaveServiceImpl) Cancel(ctx context.Context, requestID string, userID int64) (leave.RequestResponse, error) {
	var cancelled leave.Request
	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		request, err := s.requestRepo.GetByID(txCtx, requestID)
		if err != nil {
			return err
		}

		if request.UserID != userID {
			return leave.ErrNotRequestOwner
		}

		wasApproved := request.Status == leave.StatusApproved

		if err := s.requestRepo.Cancel(txCtx, request.ID); err != nil {
			return err
		}

		if wasApproved {
			balance, err := s.balanceRepo.GetByUserCategoryYear(txCtx, request.UserID, request.Category, request.StartDate.Year())
			if err != nil {
				return err
			}

			if err := s.balanceRepo.Refund(txCtx, balance.ID, request.Days); err != nil {
				return err
			}
		}

		cancelled, err = s.requestRepo.GetByID(txCtx, request.ID)
		return err
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	s.attachNames(ctx, []*leave.Request{&cancelled})
	return cancelled.ToResponse(), nil
}

// reminderLeadDays is how far ahead the daily reminder looks.
const reminderLeadDays = 3

// SendUpcomingLeaveReminders implements leave.LeaveService.
func (s *leaveServiceImpl) SendUpcomingLeaveReminders(ctx context.Context) error {
	now := time.Now().UTC()
	target := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, reminderLeadDays)

	requests, err := s.requestRepo.ApprovedStartingOn(ctx, target)
	if err != nil {
		return fmt.Errorf("failed to find upcoming leaves: %w", err)
	}

	for _, request := range requests {
		s.dispatcher.LeaveReminder(ctx, request)
	}

	slog.Info("Upcoming leave reminders dispatched", "date", target.Format("2006-01-02"), "count", len(requests))
	return nil
}

// LogPendingRequestCount implements leave.LeaveService.
func (s *leaveServiceImpl) LogPendingRequestCount(ctx context.Context) error {
	count, err := s.requestRepo.CountByStatus(ctx, leave.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to count pending requests: %w", err)
	}

	slog.Info("Pending leave requests awaiting review", "count", count)
	return nil
}
