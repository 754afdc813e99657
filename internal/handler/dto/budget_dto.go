package dto

// BudgetItemRequest is the writable expense-line payload.
type BudgetItemRequest struct {
	CategoryID    int16    `json:"category_id" binding:"required"`
	Title         string   `json:"title" binding:"required,max=255"`
	PlannedAmount float64  `json:"planned_amount" binding:"omitempty"`
	ActualAmount  float64  `json:"actual_amount" binding:"omitempty"`
	Date          *string  `json:"date" binding:"omitempty"`
}

// BudgetTargetRequest sets a per-category planned-amount cap.
type BudgetTargetRequest struct {
	CategoryID    int16   `json:"category_id" binding:"required"`
	PlannedAmount float64 `json:"planned_amount" binding:"required"`
}
