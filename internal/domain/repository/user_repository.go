package repository

import (
	"clinic-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(db *gorm.DB, user *entity.User) error
	FindByEmail(db *gorm.DB, email string) (*entity.User, error)
	FindByID(db *gorm.DB, id int64) (*entity.User, error)
}

type RoleRepository interface {
	FindByName(db *gorm.DB, name string) (*entity.Role, error)
}
