package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/leave-management-go/internal/handler/http/response"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/validator"
	"github.com/cmlabs-hris/leave-management-go/internal/service/calendar"
)

type CalendarHandler interface {
	MyCalendar(w http.ResponseWriter, r *http.Request)
	TeamCalendar(w http.ResponseWriter, r *http.Request)
	OnLeaveToday(w http.ResponseWriter, r *http.Request)
	UpcomingHolidays(w http.ResponseWriter, r *http.Request)
}

type CalendarHandlerImpl struct {
	calendarService calendar.CalendarService
}

func NewCalendarHandler(calendarService calendar.CalendarService) CalendarHandler {
	return &CalendarHandlerImpl{
		calendarService: calendarService,
	}
}

// MyCalendar implements CalendarHandler.
func (h *CalendarHandlerImpl) MyCalendar(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	from, to, ok := parseDateRange(w, r)
	if !ok {
		return
	}

	cal, err := h.calendarService.MyCalendar(r.Context(), userID, from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, cal)
}

// TeamCalendar implements CalendarHandler.
func (h *CalendarHandlerImpl) TeamCalendar(w http.ResponseWriter, r *http.Request) {
	managerID, err := middleware.UserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	from, to, ok := parseDateRange(w, r)
	if !ok {
		return
	}

	cal, err := h.calendarService.TeamCalendar(r.Context(), managerID, from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, cal)
}

// OnLeaveToday implements CalendarHandler.
func (h *CalendarHandlerImpl) OnLeaveToday(w http.ResponseWriter, r *http.Request) {
	managerID, err := middleware.UserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	entries, err := h.calendarService.OnLeaveToday(r.Context(), managerID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entries)
}

// UpcomingHolidays implements CalendarHandler.
func (h *CalendarHandlerImpl) UpcomingHolidays(w http.ResponseWriter, r *http.Request) {
	months := 3
	if m := r.URL.Query().Get("months"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil || parsed < 1 || parsed > 24 {
			response.BadRequest(w, "months must be between 1 and 24", nil)
			return
		}
		months = parsed
	}

	holidays, err := h.calendarService.UpcomingHolidays(r.Context(), months)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, holidays)
}

// parseDateRange reads from/to query params, defaulting to the current
// month when absent.
func parseDateRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	if f := r.URL.Query().Get("from"); f != "" {
		parsed, ok := validator.IsValidDate(f)
		if !ok {
			response.BadRequest(w, "from must be in YYYY-MM-DD format", nil)
			return time.Time{}, time.Time{}, false
		}
		from = parsed
	}
	if t := r.URL.Query().Get("to"); t != "" {
		parsed, ok := validator.IsValidDate(t)
		if !ok {
			response.BadRequest(w, "to must be in YYYY-MM-DD format", nil)
			return time.Time{}, time.Time{}, false
		}
		to = parsed
	}

	if to.Before(from) {
		response.BadRequest(w, "to must not be before from", nil)
		return time.Time{}, time.Time{}, false
	}

	return from, to, true
}
