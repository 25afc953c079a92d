package postgres

import (
	"time"

	errors "expense-approval/internal"
	"expense-approval/internal/budget"
	budgetDatamodel "expense-approval/internal/core/datamodel/budget"
	expenseDatamodel "expense-approval/internal/core/datamodel/expense"

	"gorm.io/gorm"
)

type BudgetRepository struct {
	db *gorm.DB
}

func NewBudgetRepository(db *gorm.DB) budget.Repository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) Create(b *budget.Budget) error {
	return r.db.Create(budget.ToDataModel(b)).Error
}

func (r *BudgetRepository) GetByID(id string) (*budget.Budget, error) {
	var model budgetDatamodel.Budget
	err := r.db.Where("id = ?", id).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBudgetNotFound
		}
		return nil, err
	}
	return budget.FromDataModel(&model), nil
}

// ListForUser returns the user's budgets and the global ones (user_id IS NULL).
func (r *BudgetRepository) ListForUser(userID string) ([]*budget.Budget, error) {
	var models []*budgetDatamodel.Budget
	err := r.db.Where("user_id = ? OR user_id IS NULL", userID).
		Where("is_active = ?", true).
		Order("start_date ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return budget.FromDataModelSlice(models), nil
}

func (r *BudgetRepository) Update(b *budget.Budget) error {
	return r.db.Save(budget.ToDataModel(b)).Error
}

// Delete deactivates the budget rather than removing the row.
func (r *BudgetRepository) Delete(id string) error {
	return r.db.Model(&budgetDatamodel.Budget{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		}).Error
}

func (r *BudgetRepository) SumApprovedExpenses(userID, categoryID *string, from, to time.Time) (int64, error) {
	query := r.db.Model(&expenseDatamodel.ExpenseRequest{}).
		Where("status = ?", "approved").
		Where("expense_date >= ? AND expense_date <= ?", from, to)

	if userID != nil {
		query = query.Where("creator_id = ?", *userID)
	}
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var spent *int64
	if err := query.Select("SUM(amount)").Scan(&spent).Error; err != nil {
		return 0, err
	}
	if spent == nil {
		return 0, nil
	}
	return *spent, nil
}
