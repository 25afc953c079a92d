package expense

import (
	"errors"
	"time"
)

// CreateExpenseDTO is the request payload for creating an expense request.
type CreateExpenseDTO struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Amount      int64     `json:"amount"`
	ExpenseDate time.Time `json:"expense_date"`
	CategoryID  *string   `json:"category_id,omitempty"`
}

func (dto CreateExpenseDTO) Validate() error {
	if dto.Title == "" {
		return errors.New("title is required")
	}
	if dto.Amount <= 0 {
		return errors.New("amount must be greater than zero")
	}
	if dto.ExpenseDate.IsZero() {
		return errors.New("expense date is required")
	}
	return nil
}

type UpdateExpenseDTO struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Amount      int64   `json:"amount"`
	CategoryID  *string `json:"category_id,omitempty"`
}

func (dto UpdateExpenseDTO) Validate() error {
	if dto.Title == "" {
		return errors.New("title is required")
	}
	if dto.Amount <= 0 {
		return errors.New("amount must be greater than zero")
	}
	return nil
}

type RejectExpenseDTO struct {
	Reason string `json:"reason"`
}

func (dto RejectExpenseDTO) Validate() error {
	if dto.Reason == "" {
		return errors.New("reason is required when rejecting an expense request")
	}
	return nil
}

type AttachmentDTO struct {
	URL string `json:"url"`
}

func (dto AttachmentDTO) Validate() error {
	if dto.URL == "" {
		return errors.New("url is required")
	}
	return nil
}

const (
	SortByAmount      = "amount"
	SortByExpenseDate = "expense_date"
	SortBySubmittedAt = "submitted_at"
	SortByCreatedAt   = "created_at"

	MaxPageSize     = 100
	DefaultPageSize = 20
)

var allowedSortKeys = map[string]bool{
	SortByAmount:      true,
	SortByExpenseDate: true,
	SortBySubmittedAt: true,
	SortByCreatedAt:   true,
}

// ListParams carries the filter/sort/paginate semantics for expense queries.
type ListParams struct {
	CreatorID string     // empty = all creators (moderators only)
	Search    string     // substring over title + description
	Status    string     // empty = all statuses
	DateFrom  *time.Time // expense_date lower bound
	DateTo    *time.Time // expense_date upper bound
	AmountMin *int64
	AmountMax *int64
	SortBy    string
	SortDesc  bool
	Page      int
	PageSize  int
}

// Normalize clamps pagination and falls back to a safe sort key. Sort keys are
// whitelisted because they end up in an ORDER BY clause.
func (p *ListParams) Normalize() {
	if !allowedSortKeys[p.SortBy] {
		p.SortBy = SortByCreatedAt
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type ListExpensesResponse struct {
	Expenses []*ExpenseRequest `json:"expenses"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}
