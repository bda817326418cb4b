package holiday

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/holiday"
)

type HolidayService interface {
	Create(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error)
	Get(ctx context.Context, id string) (holiday.HolidayResponse, error)
	ListByYear(ctx context.Context, year int) ([]holiday.HolidayResponse, error)
	Update(ctx context.Context, req holiday.UpdateHolidayRequest) (holiday.HolidayResponse, error)
	Delete(ctx context.Context, id string) error
}

type holidayServiceImpl struct {
	repo holiday.HolidayRepository
}

func NewHolidayService(repo holiday.HolidayRepository) HolidayService {
	return &holidayServiceImpl{repo: repo}
}

// Create implements HolidayService.
func (s *holidayServiceImpl) Create(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	created, err := s.repo.Create(ctx, holiday.Holiday{
		Name:        req.Name,
		Date:        req.Date,
		Year:        req.Date.Year(),
		Description: req.Description,
		IsRecurring: req.IsRecurring,
	})
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	return created.ToResponse(), nil
}

// Get implements HolidayService.
func (s *holidayServiceImpl) Get(ctx context.Context, id string) (holiday.HolidayResponse, error) {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}
	return h.ToResponse(), nil
}

// ListByYear implements HolidayService.
func (s *holidayServiceImpl) ListByYear(ctx context.Context, year int) ([]holiday.HolidayResponse, error) {
	holidays, err := s.repo.GetByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	responses := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		responses = append(responses, h.ToResponse())
	}

	return responses, nil
}

// Update implements HolidayService.
func (s *holidayServiceImpl) Update(ctx context.Context, req holiday.UpdateHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	h, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	if req.Name != nil {
		h.Name = *req.Name
	}
	if req.Date != nil {
		h.Date = *req.Date
		h.Year = req.Date.Year()
	}
	if req.Description != nil {
		h.Description = req.Description
	}
	if req.IsRecurring != nil {
		h.IsRecurring = *req.IsRecurring
	}

	if err := s.repo.Update(ctx, h); err != nil {
		return holiday.HolidayResponse{}, err
	}

	return h.ToResponse(), nil
}

// Delete implements HolidayService.
func (s *holidayServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
