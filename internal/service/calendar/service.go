// Package calendar exposes read-only views that merge pending and
// approved leave with the public holiday calendar.
package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/holiday"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/identity"
)

type Entry struct {
	UserID    int64          `json:"user_id"`
	UserName  string         `json:"user_name,omitempty"`
	Category  leave.Category `json:"leave_type"`
	Status    leave.Status   `json:"status"`
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Days      float64        `json:"number_of_days"`
}

type CalendarResponse struct {
	From     string                    `json:"from"`
	To       string                    `json:"to"`
	Entries  []Entry                   `json:"entries"`
	Holidays []holiday.HolidayResponse `json:"holidays"`
}

type CalendarService interface {
	MyCalendar(ctx context.Context, userID int64, from, to time.Time) (CalendarResponse, error)
	TeamCalendar(ctx context.Context, managerID int64, from, to time.Time) (CalendarResponse, error)
	OnLeaveToday(ctx context.Context, managerID int64) ([]Entry, error)
	UpcomingHolidays(ctx context.Context, months int) ([]holiday.HolidayResponse, error)
}

type calendarServiceImpl struct {
	requestRepo leave.RequestRepository
	holidayRepo holiday.HolidayRepository
	resolver    identity.Resolver
}

func NewCalendarService(
	requestRepo leave.RequestRepository,
	holidayRepo holiday.HolidayRepository,
	resolver identity.Resolver,
) CalendarService {
	return &calendarServiceImpl{
		requestRepo: requestRepo,
		holidayRepo: holidayRepo,
		resolver:    resolver,
	}
}

const dateLayout = "2006-01-02"

// MyCalendar implements CalendarService.
func (s *calendarServiceImpl) MyCalendar(ctx context.Context, userID int64, from, to time.Time) (CalendarResponse, error) {
	return s.buildCalendar(ctx, []int64{userID}, from, to)
}

// TeamCalendar implements CalendarService.
func (s *calendarServiceImpl) TeamCalendar(ctx context.Context, managerID int64, from, to time.Time) (CalendarResponse, error) {
	userIDs, err := s.teamIDs(ctx, managerID)
	if err != nil {
		return CalendarResponse{}, err
	}
	return s.buildCalendar(ctx, userIDs, from, to)
}

// OnLeaveToday implements CalendarService.
func (s *calendarServiceImpl) OnLeaveToday(ctx context.Context, managerID int64) ([]Entry, error) {
	userIDs, err := s.teamIDs(ctx, managerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	requests, err := s.requestRepo.ApprovedInRange(ctx, userIDs, today, today)
	if err != nil {
		return nil, fmt.Errorf("failed to find leaves for today: %w", err)
	}

	return s.toEntries(ctx, requests), nil
}

// UpcomingHolidays implements CalendarService.
func (s *calendarServiceImpl) UpcomingHolidays(ctx context.Context, months int) ([]holiday.HolidayResponse, error) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, months, 0)

	holidays, err := s.holidayRepo.GetBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming holidays: %w", err)
	}

	responses := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		responses = append(responses, h.ToResponse())
	}

	return responses, nil
}

func (s *calendarServiceImpl) teamIDs(ctx context.Context, managerID int64) ([]int64, error) {
	reports, err := s.resolver.GetDirectReports(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve direct reports: %w", err)
	}

	userIDs := make([]int64, 0, len(reports))
	for _, report := range reports {
		userIDs = append(userIDs, report.ID)
	}

	return userIDs, nil
}

func (s *calendarServiceImpl) buildCalendar(ctx context.Context, userIDs []int64, from, to time.Time) (CalendarResponse, error) {
	requests, err := s.requestRepo.ActiveInRange(ctx, userIDs, from, to)
	if err != nil {
		return CalendarResponse{}, fmt.Errorf("failed to list leaves: %w", err)
	}

	holidays, err := s.holidayRepo.GetBetween(ctx, from, to)
	if err != nil {
		return CalendarResponse{}, fmt.Errorf("failed to list holidays: %w", err)
	}

	holidayResponses := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		holidayResponses = append(holidayResponses, h.ToResponse())
	}

	return CalendarResponse{
		From:     from.Format(dateLayout),
		To:       to.Format(dateLayout),
		Entries:  s.toEntries(ctx, requests),
		Holidays: holidayResponses,
	}, nil
}

func (s *calendarServiceImpl) toEntries(ctx context.Context, requests []leave.Request) []Entry {
	idSet := make(map[int64]struct{})
	for _, request := range requests {
		idSet[request.UserID] = struct{}{}
	}
	ids := make([]int64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	// Name resolution is best effort
	users, err := s.resolver.GetUsersByIDs(ctx, ids)
	if err != nil {
		users = nil
	}

	entries := make([]Entry, 0, len(requests))
	for _, request := range requests {
		entry := Entry{
			UserID:    request.UserID,
			Category:  request.Category,
			Status:    request.Status,
			StartDate: request.StartDate.Format(dateLayout),
			EndDate:   request.EndDate.Format(dateLayout),
			Days:      request.Days,
		}
		if u, ok := users[request.UserID]; ok {
			entry.UserName = u.Name
		}
		entries = append(entries, entry)
	}

	return entries
}
