package postgres

import (
	userDatamodel "expense-approval/internal/core/datamodel/user"
	"expense-approval/internal/user"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(id string) (*userDatamodel.User, error) {
	var model userDatamodel.User
	if err := r.db.Where("id = ?", id).First(&model).Error; err != nil {
		return nil, err
	}
	return &model, nil
}

func (r *UserRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	var model userDatamodel.User
	if err := r.db.Where("email = ?", email).First(&model).Error; err != nil {
		return nil, err
	}
	return &model, nil
}
