package postgres

import (
	"fmt"
	"strings"

	errors "expense-approval/internal"
	"expense-approval/internal/auditlog"
	expenseDatamodel "expense-approval/internal/core/datamodel/expense"
	"expense-approval/internal/expense"

	"gorm.io/gorm"
)

// ExpenseRepository implements expense.Repository using GORM. The *WithAudit
// methods run the entity write and the audit insert in one transaction.
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) expense.Repository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) CreateWithAudit(exp *expense.ExpenseRequest, log *auditlog.AuditLog) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(expense.ToDataModel(exp)).Error; err != nil {
			return err
		}
		return tx.Create(auditlog.ToDataModel(log)).Error
	})
}

func (r *ExpenseRepository) SaveWithAudit(exp *expense.ExpenseRequest, log *auditlog.AuditLog) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(expense.ToDataModel(exp)).Error; err != nil {
			return err
		}
		return tx.Create(auditlog.ToDataModel(log)).Error
	})
}

func (r *ExpenseRepository) DeleteWithAudit(exp *expense.ExpenseRequest, log *auditlog.AuditLog) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&expenseDatamodel.ExpenseRequest{}, "id = ?", exp.ID).Error; err != nil {
			return err
		}
		return tx.Create(auditlog.ToDataModel(log)).Error
	})
}

func (r *ExpenseRepository) GetByID(id string) (*expense.ExpenseRequest, error) {
	var model expenseDatamodel.ExpenseRequest
	err := r.db.Where("id = ?", id).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrExpenseNotFound
		}
		return nil, err
	}
	return expense.FromDataModel(&model), nil
}

// List applies the filter/sort/paginate semantics. params must already be
// normalized so the sort key is whitelisted.
func (r *ExpenseRepository) List(params expense.ListParams) ([]*expense.ExpenseRequest, int64, error) {
	query := r.db.Model(&expenseDatamodel.ExpenseRequest{})

	if params.CreatorID != "" {
		query = query.Where("creator_id = ?", params.CreatorID)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Search != "" {
		pattern := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if params.DateFrom != nil {
		query = query.Where("expense_date >= ?", *params.DateFrom)
	}
	if params.DateTo != nil {
		query = query.Where("expense_date <= ?", *params.DateTo)
	}
	if params.AmountMin != nil {
		query = query.Where("amount >= ?", *params.AmountMin)
	}
	if params.AmountMax != nil {
		query = query.Where("amount <= ?", *params.AmountMax)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	direction := "ASC"
	if params.SortDesc {
		direction = "DESC"
	}

	var models []*expenseDatamodel.ExpenseRequest
	err := query.Order(fmt.Sprintf("%s %s", params.SortBy, direction)).
		Limit(params.PageSize).
		Offset(params.Offset()).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	return expense.FromDataModelSlice(models), total, nil
}
