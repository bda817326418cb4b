// Package notify fans leave lifecycle events out to the affected
// people. Delivery runs on detached goroutines and is best effort:
// failures are logged and never surface to the caller, so a slow
// identity lookup or a broken mail server cannot block a submission
// or an approval.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/email"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/identity"
)

// Dispatcher delivers leave notifications. Satisfied by *Service;
// tests substitute a recorder.
type Dispatcher interface {
	LeaveSubmitted(ctx context.Context, req leave.Request)
	LeaveReviewed(ctx context.Context, req leave.Request)
	LeaveReminder(ctx context.Context, req leave.Request)
}

type Service struct {
	emailSvc email.EmailService
	resolver identity.Resolver
	wg       sync.WaitGroup
}

func NewService(emailSvc email.EmailService, resolver identity.Resolver) *Service {
	return &Service{
		emailSvc: emailSvc,
		resolver: resolver,
	}
}

const dateLayout = "2006-01-02"

// dispatch hands delivery to a goroutine. The context is detached so a
// finished HTTP request does not cancel an in-flight delivery.
func (s *Service) dispatch(ctx context.Context, deliver func(context.Context)) {
	ctx = context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		deliver(ctx)
	}()
}

// Wait blocks until all in-flight deliveries have finished. Called on
// shutdown.
func (s *Service) Wait() {
	s.wg.Wait()
}

// LeaveSubmitted confirms the submission to the employee and alerts
// the manager that a request awaits review.
func (s *Service) LeaveSubmitted(ctx context.Context, req leave.Request) {
	s.dispatch(ctx, func(ctx context.Context) { s.deliverSubmitted(ctx, req) })
}

// LeaveReviewed tells the employee the outcome of a review.
func (s *Service) LeaveReviewed(ctx context.Context, req leave.Request) {
	s.dispatch(ctx, func(ctx context.Context) { s.deliverReviewed(ctx, req) })
}

// LeaveReminder tells the employee their approved leave starts soon.
func (s *Service) LeaveReminder(ctx context.Context, req leave.Request) {
	s.dispatch(ctx, func(ctx context.Context) { s.deliverReminder(ctx, req) })
}

func (s *Service) deliverSubmitted(ctx context.Context, req leave.Request) {
	employee, err := s.resolver.GetUser(ctx, req.UserID)
	if err != nil {
		slog.Error("Notify: failed to resolve employee", "user_id", req.UserID, "error", err)
		return
	}

	start := req.StartDate.Format(dateLayout)
	end := req.EndDate.Format(dateLayout)

	err = s.emailSvc.SendLeaveSubmissionReceived(
		employee.Email, employee.Name,
		req.Category.DisplayName(), start, end, req.Days,
	)
	if err != nil {
		slog.Error("Notify: failed to send submission confirmation",
			"request_id", req.ID, "user_id", employee.ID, "error", err)
	}

	manager, err := s.resolver.GetManager(ctx, req.UserID)
	if err != nil {
		slog.Error("Notify: failed to resolve manager", "user_id", req.UserID, "error", err)
		return
	}

	err = s.emailSvc.SendLeaveSubmitted(
		manager.Email, manager.Name, employee.Name,
		req.Category.DisplayName(), start, end, req.Days,
	)
	if err != nil {
		slog.Error("Notify: failed to send review alert",
			"request_id", req.ID, "manager_id", manager.ID, "error", err)
	}
}

func (s *Service) deliverReviewed(ctx context.Context, req leave.Request) {
	employee, err := s.resolver.GetUser(ctx, req.UserID)
	if err != nil {
		slog.Error("Notify: failed to resolve employee", "user_id", req.UserID, "error", err)
		return
	}

	comments := ""
	if req.ManagerComments != nil {
		comments = *req.ManagerComments
	}

	start := req.StartDate.Format(dateLayout)
	end := req.EndDate.Format(dateLayout)

	switch req.Status {
	case leave.StatusApproved:
		err = s.emailSvc.SendLeaveApproved(
			employee.Email, employee.Name, req.Category.DisplayName(), start, end, comments)
	case leave.StatusRejected:
		err = s.emailSvc.SendLeaveRejected(
			employee.Email, employee.Name, req.Category.DisplayName(), start, end, comments)
	default:
		return
	}

	if err != nil {
		slog.Error("Notify: failed to send review email",
			"request_id", req.ID, "status", req.Status, "error", err)
	}
}

func (s *Service) deliverReminder(ctx context.Context, req leave.Request) {
	employee, err := s.resolver.GetUser(ctx, req.UserID)
	if err != nil {
		slog.Error("Notify: failed to resolve employee", "user_id", req.UserID, "error", err)
		return
	}

	err = s.emailSvc.SendLeaveReminder(
		employee.Email, employee.Name,
		req.Category.DisplayName(), req.StartDate.Format(dateLayout),
	)
	if err != nil {
		slog.Error("Notify: failed to send reminder email",
			"request_id", req.ID, "error", err)
	}
}
