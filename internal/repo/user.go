package repo

import (
	"Testify/internal/model"
	"context"

	"gorm.io/gorm"
)

// UserRepository — доступ к пользователям.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	// GetUserByLogin возвращает gorm.ErrRecordNotFound, если пользователя нет.
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)
	// DeleteUser удаляет пользователя; пространства и отзывы удаляются каскадом.
	DeleteUser(ctx context.Context, id int64) (int64, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("login = ?", login).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) DeleteUser(ctx context.Context, id int64) (int64, error) {
	tx := r.db.WithContext(ctx).Delete(&model.User{}, id)
	return tx.RowsAffected, tx.Error
}
