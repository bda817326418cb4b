package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
)

type LeaveJobs struct {
	leaveSvc leave.LeaveService
}

func NewLeaveJobs(leaveSvc leave.LeaveService) *LeaveJobs {
	return &LeaveJobs{
		leaveSvc: leaveSvc,
	}
}

func (j *LeaveJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("send_upcoming_leave_reminders", 1*time.Hour, j.SendUpcomingLeaveReminders)
	scheduler.AddJob("log_pending_requests", 1*time.Hour, j.LogPendingRequests)
	scheduler.AddJob("year_end_carryover", 1*time.Hour, j.YearEndCarryover)
}

// SendUpcomingLeaveReminders emails employees whose approved leave
// starts in three days.
func (j *LeaveJobs) SendUpcomingLeaveReminders(ctx context.Context) error {
	// Only run at 09:00-09:59 UTC
	if time.Now().UTC().Hour() != 9 {
		return nil
	}

	slog.Info("Cron: Starting upcoming leave reminders job")
	return j.leaveSvc.SendUpcomingLeaveReminders(ctx)
}

// LogPendingRequests surfaces the pending review backlog in the logs.
func (j *LeaveJobs) LogPendingRequests(ctx context.Context) error {
	// Only run at 10:00-10:59 UTC
	if time.Now().UTC().Hour() != 10 {
		return nil
	}

	return j.leaveSvc.LogPendingRequestCount(ctx)
}

// YearEndCarryover rolls unused annual leave into the next year on the
// evening of December 31. The rollover itself is idempotent, so a
// repeated run after a crash is harmless.
func (j *LeaveJobs) YearEndCarryover(ctx context.Context) error {
	now := time.Now().UTC()
	if now.Month() != time.December || now.Day() != 31 || now.Hour() != 23 {
		return nil
	}

	slog.Info("Cron: Starting year-end carryover job", "year", now.Year())
	return j.leaveSvc.RunYearEndCarryover(ctx, now.Year())
}
