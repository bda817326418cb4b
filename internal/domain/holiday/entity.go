package holiday

import "time"

// Holiday entity
type Holiday struct {
	ID          string
	Name        string
	Date        time.Time
	Year        int
	Description *string
	IsRecurring bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

type HolidayResponse struct {
	ID          string  `json:"holiday_id"`
	Name        string  `json:"name"`
	Date        string  `json:"date"`
	Year        int     `json:"year"`
	Description *string `json:"description,omitempty"`
	IsRecurring bool    `json:"is_recurring"`
}

func (h Holiday) ToResponse() HolidayResponse {
	return HolidayResponse{
		ID:          h.ID,
		Name:        h.Name,
		Date:        h.Date.Format("2006-01-02"),
		Year:        h.Year,
		Description: h.Description,
		IsRecurring: h.IsRecurring,
	}
}
