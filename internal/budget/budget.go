package budget

import (
	"time"

	errors "expense-approval/internal"
	budgetDatamodel "expense-approval/internal/core/datamodel/budget"

	"github.com/google/uuid"
)

// Budget is a date-ranged spending allocation. A nil UserID applies the budget
// to all users; a nil CategoryID to all categories.
type Budget struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Amount      int64     `json:"amount"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	UserID      *string   `json:"user_id,omitempty"`
	CategoryID  *string   `json:"category_id,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewBudget(name string, description *string, amount int64, startDate, endDate time.Time, userID, categoryID *string) (*Budget, error) {
	if err := validate(name, amount, startDate, endDate); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Budget{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Amount:      amount,
		StartDate:   startDate,
		EndDate:     endDate,
		UserID:      userID,
		CategoryID:  categoryID,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func validate(name string, amount int64, startDate, endDate time.Time) error {
	if name == "" {
		return errors.NewBusinessRuleError("budget name is required")
	}
	if amount <= 0 {
		return errors.NewBusinessRuleError("budget amount must be greater than zero")
	}
	if !startDate.Before(endDate) {
		return errors.NewBusinessRuleError("budget start date must be before end date")
	}
	return nil
}

func (b *Budget) Update(name string, description *string, amount int64, startDate, endDate time.Time, categoryID *string) error {
	if err := validate(name, amount, startDate, endDate); err != nil {
		return err
	}

	b.Name = name
	b.Description = description
	b.Amount = amount
	b.StartDate = startDate
	b.EndDate = endDate
	b.CategoryID = categoryID
	b.UpdatedAt = time.Now()
	return nil
}

func (b *Budget) Deactivate() {
	b.IsActive = false
	b.UpdatedAt = time.Now()
}

// IsCurrentlyActive means the active flag is set and now falls inside the
// budget period.
func (b *Budget) IsCurrentlyActive(now time.Time) bool {
	return b.IsActive && !now.Before(b.StartDate) && !now.After(b.EndDate)
}

// BudgetStatus is the computed utilization of a budget. It is derived on
// demand from approved expenses and never stored.
type BudgetStatus struct {
	Budget            *Budget `json:"budget"`
	Spent             int64   `json:"spent"`
	Remaining         int64   `json:"remaining"`
	PercentageUsed    float64 `json:"percentage_used"`
	IsOverBudget      bool    `json:"is_over_budget"`
	DaysRemaining     int     `json:"days_remaining"`
	IsCurrentlyActive bool    `json:"is_currently_active"`
}

// ComputeStatus derives the utilization of a budget given the spent total.
func ComputeStatus(b *Budget, spent int64, now time.Time) BudgetStatus {
	var percentage float64
	if b.Amount > 0 {
		percentage = float64(spent) / float64(b.Amount) * 100
	}

	daysRemaining := int(b.EndDate.Sub(now).Hours() / 24)
	if daysRemaining < 0 {
		daysRemaining = 0
	}

	return BudgetStatus{
		Budget:            b,
		Spent:             spent,
		Remaining:         b.Amount - spent,
		PercentageUsed:    percentage,
		IsOverBudget:      spent > b.Amount,
		DaysRemaining:     daysRemaining,
		IsCurrentlyActive: b.IsCurrentlyActive(now),
	}
}

func ToDataModel(b *Budget) *budgetDatamodel.Budget {
	return &budgetDatamodel.Budget{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Amount:      b.Amount,
		StartDate:   b.StartDate,
		EndDate:     b.EndDate,
		UserID:      b.UserID,
		CategoryID:  b.CategoryID,
		IsActive:    b.IsActive,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func FromDataModel(m *budgetDatamodel.Budget) *Budget {
	return &Budget{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Amount:      m.Amount,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		UserID:      m.UserID,
		CategoryID:  m.CategoryID,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func FromDataModelSlice(models []*budgetDatamodel.Budget) []*Budget {
	result := make([]*Budget, len(models))
	for i, m := range models {
		result[i] = FromDataModel(m)
	}
	return result
}
