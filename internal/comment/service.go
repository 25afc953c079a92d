package comment

import (
	"log/slog"

	"expense-approval/internal/expense"
)

type Repository interface {
	Create(c *ExpenseComment) error
	ListByExpense(expenseID string) ([]*ExpenseComment, error)
}

// ExpenseGetter ensures comments only attach to existing expense requests.
type ExpenseGetter interface {
	GetByID(id string) (*expense.ExpenseRequest, error)
}

type Service struct {
	repo     Repository
	expenses ExpenseGetter
	logger   *slog.Logger
}

func NewService(repo Repository, expenses ExpenseGetter, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		expenses: expenses,
		logger:   logger,
	}
}

func (s *Service) AddComment(expenseID, authorID, authorName, text string) (*ExpenseComment, error) {
	if _, err := s.expenses.GetByID(expenseID); err != nil {
		return nil, err
	}

	c, err := NewExpenseComment(expenseID, authorID, authorName, text)
	if err != nil {
		s.logger.Warn("comment rejected", "error", err, "expense_id", expenseID)
		return nil, err
	}

	if err := s.repo.Create(c); err != nil {
		s.logger.Error("failed to create comment", "error", err, "expense_id", expenseID)
		return nil, err
	}

	return c, nil
}

func (s *Service) ListComments(expenseID string) ([]*ExpenseComment, error) {
	if _, err := s.expenses.GetByID(expenseID); err != nil {
		return nil, err
	}
	return s.repo.ListByExpense(expenseID)
}
