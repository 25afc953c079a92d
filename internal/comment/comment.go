package comment

import (
	"time"

	errors "expense-approval/internal"
	commentDatamodel "expense-approval/internal/core/datamodel/comment"

	"github.com/google/uuid"
)

// ExpenseComment is an immutable note on an expense request.
type ExpenseComment struct {
	ID         string    `json:"id"`
	ExpenseID  string    `json:"expense_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewExpenseComment(expenseID, authorID, authorName, text string) (*ExpenseComment, error) {
	if text == "" {
		return nil, errors.NewBusinessRuleError("comment text is required")
	}

	return &ExpenseComment{
		ID:         uuid.New().String(),
		ExpenseID:  expenseID,
		AuthorID:   authorID,
		AuthorName: authorName,
		Text:       text,
		CreatedAt:  time.Now(),
	}, nil
}

func ToDataModel(c *ExpenseComment) *commentDatamodel.ExpenseComment {
	return &commentDatamodel.ExpenseComment{
		ID:         c.ID,
		ExpenseID:  c.ExpenseID,
		AuthorID:   c.AuthorID,
		AuthorName: c.AuthorName,
		Text:       c.Text,
		CreatedAt:  c.CreatedAt,
	}
}

func FromDataModel(m *commentDatamodel.ExpenseComment) *ExpenseComment {
	return &ExpenseComment{
		ID:         m.ID,
		ExpenseID:  m.ExpenseID,
		AuthorID:   m.AuthorID,
		AuthorName: m.AuthorName,
		Text:       m.Text,
		CreatedAt:  m.CreatedAt,
	}
}

func FromDataModelSlice(models []*commentDatamodel.ExpenseComment) []*ExpenseComment {
	result := make([]*ExpenseComment, len(models))
	for i, m := range models {
		result[i] = FromDataModel(m)
	}
	return result
}
