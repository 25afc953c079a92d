package budget

import (
	"log/slog"
	"time"
)

// Repository persists budgets and answers the spent-amount aggregation over
// approved expenses.
type Repository interface {
	Create(b *Budget) error
	GetByID(id string) (*Budget, error)
	ListForUser(userID string) ([]*Budget, error)
	Update(b *Budget) error
	Delete(id string) error
	// SumApprovedExpenses totals approved expenses with expense_date inside
	// [from, to], optionally scoped to a user and/or category.
	SumApprovedExpenses(userID, categoryID *string, from, to time.Time) (int64, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) CreateBudget(dto CreateBudgetDTO) (*Budget, error) {
	b, err := NewBudget(dto.Name, dto.Description, dto.Amount, dto.StartDate, dto.EndDate, dto.UserID, dto.CategoryID)
	if err != nil {
		s.logger.Warn("budget creation rejected", "error", err)
		return nil, err
	}

	if err := s.repo.Create(b); err != nil {
		s.logger.Error("failed to create budget", "error", err)
		return nil, err
	}

	s.logger.Info("budget created", "budget_id", b.ID, "amount", b.Amount)
	return b, nil
}

func (s *Service) GetBudget(id string) (*Budget, error) {
	return s.repo.GetByID(id)
}

func (s *Service) UpdateBudget(id string, dto UpdateBudgetDTO) (*Budget, error) {
	b, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := b.Update(dto.Name, dto.Description, dto.Amount, dto.StartDate, dto.EndDate, dto.CategoryID); err != nil {
		s.logger.Warn("budget update rejected", "error", err, "budget_id", id)
		return nil, err
	}

	if err := s.repo.Update(b); err != nil {
		s.logger.Error("failed to update budget", "error", err, "budget_id", id)
		return nil, err
	}

	return b, nil
}

func (s *Service) DeleteBudget(id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

// GetBudgetStatuses computes utilization for every budget visible to the
// user: their own budgets plus global ones.
func (s *Service) GetBudgetStatuses(userID string) ([]BudgetStatus, error) {
	budgets, err := s.repo.ListForUser(userID)
	if err != nil {
		s.logger.Error("failed to list budgets", "error", err, "user_id", userID)
		return nil, err
	}

	now := time.Now()
	statuses := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		status, err := s.computeStatus(b, now)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (s *Service) GetBudgetStatus(id string) (*BudgetStatus, error) {
	b, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	status, err := s.computeStatus(b, time.Now())
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *Service) computeStatus(b *Budget, now time.Time) (BudgetStatus, error) {
	spent, err := s.repo.SumApprovedExpenses(b.UserID, b.CategoryID, b.StartDate, b.EndDate)
	if err != nil {
		s.logger.Error("failed to sum approved expenses", "error", err, "budget_id", b.ID)
		return BudgetStatus{}, err
	}
	return ComputeStatus(b, spent, now), nil
}
