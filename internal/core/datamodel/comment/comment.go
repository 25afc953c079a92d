package comment

import "time"

type ExpenseComment struct {
	ID         string    `gorm:"primaryKey;type:uuid"`
	ExpenseID  string    `gorm:"column:expense_id;type:uuid;not null;index"`
	AuthorID   string    `gorm:"column:author_id;type:uuid;not null"`
	AuthorName string    `gorm:"column:author_name;not null"`
	Text       string    `gorm:"column:text;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
}

func (ExpenseComment) TableName() string {
	return "expense_comments"
}
