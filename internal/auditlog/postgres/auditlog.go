package postgres

import (
	"expense-approval/internal/auditlog"
	auditDatamodel "expense-approval/internal/core/datamodel/auditlog"

	"gorm.io/gorm"
)

type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) auditlog.Repository {
	return &AuditLogRepository{db: db}
}

// ListByExpense returns the trail in the order the operations happened.
func (r *AuditLogRepository) ListByExpense(expenseID string) ([]*auditlog.AuditLog, error) {
	var models []*auditDatamodel.AuditLog
	err := r.db.Where("expense_id = ?", expenseID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return auditlog.FromDataModelSlice(models), nil
}
