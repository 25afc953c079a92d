package category

import (
	"log/slog"

	errors "expense-approval/internal"
	categoryDatamodel "expense-approval/internal/core/datamodel/category"
)

type RepositoryAPI interface {
	GetAll() ([]*categoryDatamodel.ExpenseCategory, error)
	GetByID(id string) (*categoryDatamodel.ExpenseCategory, error)
	GetByName(name string) (*categoryDatamodel.ExpenseCategory, error)
	Create(category *categoryDatamodel.ExpenseCategory) error
	Update(category *categoryDatamodel.ExpenseCategory) error
	Delete(id string) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetActiveCategories returns only categories usable for new expenses.
func (s *Service) GetActiveCategories() ([]CategoryResponse, error) {
	models, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to get categories from repository", "error", err)
		return nil, err
	}

	var responses []CategoryResponse
	for _, model := range models {
		c := FromDataModel(model)
		if c.IsActiveCategory() {
			responses = append(responses, c.ToResponse())
		}
	}

	return responses, nil
}

func (s *Service) GetByID(id string) (*Category, error) {
	model, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if model == nil {
		return nil, errors.ErrCategoryNotFound
	}
	return FromDataModel(model), nil
}

func (s *Service) CreateCategory(dto CreateCategoryDTO) (*Category, error) {
	c := NewCategory(dto.Name, dto.Description, dto.Icon, dto.Color)
	if err := s.repo.Create(ToDataModel(c)); err != nil {
		s.logger.Error("failed to create category", "error", err, "name", dto.Name)
		return nil, err
	}
	return c, nil
}

func (s *Service) UpdateCategory(id string, dto CreateCategoryDTO) (*Category, error) {
	c, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	c.Name = dto.Name
	c.Description = dto.Description
	c.Icon = dto.Icon
	c.Color = dto.Color
	if err := s.repo.Update(ToDataModel(c)); err != nil {
		s.logger.Error("failed to update category", "error", err, "category_id", id)
		return nil, err
	}
	return c, nil
}

// DeactivateCategory soft-deletes: existing expense references stay intact.
func (s *Service) DeactivateCategory(id string) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

// IsValidCategory reports whether the id references an active category.
func (s *Service) IsValidCategory(id string) bool {
	c, err := s.GetByID(id)
	if err != nil {
		return false
	}
	return c.IsActiveCategory()
}
