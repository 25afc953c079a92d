package user

import (
	"log/slog"

	errors "expense-approval/internal"
	userDatamodel "expense-approval/internal/core/datamodel/user"

	"gorm.io/gorm"
)

type RepositoryAPI interface {
	GetByID(id string) (*userDatamodel.User, error)
	GetByEmail(email string) (*userDatamodel.User, error)
}

// Service is the identity directory consumed by the expense workflow.
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

func (s *Service) GetByID(id string) (*User, error) {
	model, err := s.repo.GetByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		s.logger.Error("failed to load user", "error", err, "user_id", id)
		return nil, err
	}
	return FromDataModel(model), nil
}

// RoleOf resolves the workflow role of a user.
func (s *Service) RoleOf(userID string) (Role, error) {
	u, err := s.GetByID(userID)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

// DisplayNameOf resolves the display name used to enrich read responses.
func (s *Service) DisplayNameOf(userID string) (string, error) {
	u, err := s.GetByID(userID)
	if err != nil {
		return "", err
	}
	return u.Name, nil
}
