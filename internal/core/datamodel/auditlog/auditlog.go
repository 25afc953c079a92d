package auditlog

import "time"

type AuditLog struct {
	ID             string    `gorm:"primaryKey;type:uuid"`
	ExpenseID      string    `gorm:"column:expense_id;type:uuid;not null;index"`
	UserID         string    `gorm:"column:user_id;type:uuid;not null"`
	Action         string    `gorm:"column:action;not null"`
	PreviousStatus *string   `gorm:"column:previous_status"`
	NewStatus      *string   `gorm:"column:new_status"`
	Details        *string   `gorm:"column:details"`
	CreatedAt      time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
