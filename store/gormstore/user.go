package gormstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/loeylei-cell/my-fullstack-system/models"
)

type Users struct {
	db *gorm.DB
}

func (s *Users) FindByUsernameOrID(ctx context.Context, key string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Where("id = ? OR username = ?", key, key).
		First(&u).Error
	if err != nil {
		return nil, notFoundOr(err, "find user")
	}
	return &u, nil
}

func (s *Users) Create(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return errors.Wrap(s.db.WithContext(ctx).Create(u).Error, "create user")
}
