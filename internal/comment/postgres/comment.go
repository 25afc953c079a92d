package postgres

import (
	"expense-approval/internal/comment"
	commentDatamodel "expense-approval/internal/core/datamodel/comment"

	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(c *comment.ExpenseComment) error {
	return r.db.Create(comment.ToDataModel(c)).Error
}

func (r *CommentRepository) ListByExpense(expenseID string) ([]*comment.ExpenseComment, error) {
	var models []*commentDatamodel.ExpenseComment
	if err := r.db.
		Where("expense_id = ?", expenseID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	return comment.FromDataModelSlice(models), nil
}
