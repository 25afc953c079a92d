package budget

import (
	"errors"
	"time"
)

type CreateBudgetDTO struct {
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Amount      int64     `json:"amount"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	UserID      *string   `json:"user_id,omitempty"`
	CategoryID  *string   `json:"category_id,omitempty"`
}

func (dto CreateBudgetDTO) Validate() error {
	if dto.Name == "" {
		return errors.New("name is required")
	}
	if dto.Amount <= 0 {
		return errors.New("amount must be greater than zero")
	}
	if dto.StartDate.IsZero() || dto.EndDate.IsZero() {
		return errors.New("start and end dates are required")
	}
	return nil
}

type UpdateBudgetDTO struct {
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Amount      int64     `json:"amount"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	CategoryID  *string   `json:"category_id,omitempty"`
}

type BudgetStatusesResponse struct {
	Statuses []BudgetStatus `json:"budget_statuses"`
}
