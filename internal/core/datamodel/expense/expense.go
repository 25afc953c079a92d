package expense

import "time"

// ExpenseRequest is the persistence shape of an expense request. Attachments
// are stored as a JSON-encoded array in a text column.
type ExpenseRequest struct {
	ID              string     `gorm:"primaryKey;type:uuid"`
	CreatorID       string     `gorm:"column:creator_id;type:uuid;not null;index"`
	CreatorRole     string     `gorm:"column:creator_role;not null"`
	CategoryID      *string    `gorm:"column:category_id;type:uuid"`
	Title           string     `gorm:"column:title;not null"`
	Description     string     `gorm:"column:description"`
	Amount          int64      `gorm:"column:amount;not null"`
	ExpenseDate     time.Time  `gorm:"column:expense_date;type:date;not null"`
	Status          string     `gorm:"column:status;not null;default:draft;index"`
	Attachments     []string   `gorm:"column:attachments;serializer:json"`
	RejectionReason *string    `gorm:"column:rejection_reason"`
	ProcessedBy     *string    `gorm:"column:processed_by;type:uuid"`
	SubmittedAt     *time.Time `gorm:"column:submitted_at"`
	ProcessedAt     *time.Time `gorm:"column:processed_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (ExpenseRequest) TableName() string {
	return "expense_requests"
}
