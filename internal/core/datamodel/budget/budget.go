package budget

import "time"

type Budget struct {
	ID          string    `gorm:"primaryKey;type:uuid"`
	Name        string    `gorm:"column:name;not null"`
	Description *string   `gorm:"column:description"`
	Amount      int64     `gorm:"column:amount;not null"`
	StartDate   time.Time `gorm:"column:start_date;type:date;not null"`
	EndDate     time.Time `gorm:"column:end_date;type:date;not null"`
	UserID      *string   `gorm:"column:user_id;type:uuid;index"`
	CategoryID  *string   `gorm:"column:category_id;type:uuid"`
	IsActive    bool      `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP"`
}

func (Budget) TableName() string {
	return "budgets"
}
