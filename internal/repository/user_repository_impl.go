package repository

import (
	"clinic-backend/internal/domain/entity"
	domainRepo "clinic-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type userRepository struct{}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *entity.User) error {
	return db.Omit("DoctorProfile", "PatientProfile").Create(user).Error
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	var user entity.User
	if err := db.Preload("Roles").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, firstOrNil(err)
	}
	return &user, nil
}

func (r *userRepository) FindByID(db *gorm.DB, id int64) (*entity.User, error) {
	var user entity.User
	if err := db.Preload("Roles").Preload("DoctorProfile").Preload("PatientProfile").Where("id = ?", id).First(&user).Error; err != nil {
		return nil, firstOrNil(err)
	}
	return &user, nil
}

type roleRepository struct{}

func NewRoleRepository() domainRepo.RoleRepository {
	return &roleRepository{}
}

func (r *roleRepository) FindByName(db *gorm.DB, name string) (*entity.Role, error) {
	var role entity.Role
	if err := db.Where("role_name = ?", name).First(&role).Error; err != nil {
		return nil, firstOrNil(err)
	}
	return &role, nil
}
