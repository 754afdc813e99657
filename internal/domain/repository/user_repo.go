package repository

import "github.com/yourusername/mytrip-api/internal/domain/entity"

// UserRepository persists local user records.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByFirebaseUID(uid string) (*entity.User, error)
	Update(user *entity.User) error
	UpdateProfile(userID uint, updates map[string]interface{}) error
}
