package dto

// DateLayout is the wire format for date-only fields.
const DateLayout = "2006-01-02"

// TripRequest is the writable trip payload. Dates use YYYY-MM-DD.
type TripRequest struct {
	Name         string   `json:"name" binding:"required,max=255"`
	Destination  string   `json:"destination" binding:"omitempty,max=255"`
	StartDate    *string  `json:"start_date" binding:"omitempty"`
	EndDate      *string  `json:"end_date" binding:"omitempty"`
	CurrencyCode string   `json:"currency_code" binding:"omitempty,len=3"`
	TotalBudget  *float64 `json:"total_budget" binding:"omitempty"`
}
