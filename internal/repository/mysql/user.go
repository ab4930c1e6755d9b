package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Guyuepp/go-article-service/domain"
	"github.com/Guyuepp/go-article-service/internal/repository/mysql/model"
)

type userRepository struct {
	DB *gorm.DB
}

var _ domain.UserRepository = (*userRepository)(nil)

// NewUserRepository will create an implementation of domain.UserRepository
func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{
		DB: db,
	}
}

func (m *userRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	key, err := model.ParseID(id)
	if err != nil || key == 0 {
		return domain.User{}, domain.ErrNotFound
	}

	var user model.User
	if err := m.DB.WithContext(ctx).First(&user, "id = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("repository/mysql/GetUserByID: %w", err)
	}

	return user.ToDomain(), nil
}

func (m *userRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	keys := make([]int64, 0, len(ids))
	for _, id := range ids {
		if key, err := model.ParseID(id); err == nil && key != 0 {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return []domain.User{}, nil
	}

	var users []model.User
	err := m.DB.WithContext(ctx).Model(&model.User{}).Where("id in ?", keys).Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("repository/mysql/GetUsersByIDs: %w", err)
	}
	res := make([]domain.User, len(users))
	for i := range users {
		res[i] = users[i].ToDomain()
	}
	return res, nil
}
