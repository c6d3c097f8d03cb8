package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"webbase/internal/model"
)

// UserRepository defines user persistence operations. Lookups are scoped to
// active users; a missing row is a valid outcome and is reported as
// (nil, nil), not as an error.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindActiveByID(ctx context.Context, id uint) (*model.User, error)
	FindActiveByUsername(ctx context.Context, username string) (*model.User, error)
	// UpdateEmail reports whether a row was actually changed.
	UpdateEmail(ctx context.Context, id uint, email string) (bool, error)
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	// SetPasswordHash is the administrative path: unscoped by is_active, and
	// existence is checked via the affected-row count rather than a separate
	// query, so there is no check-then-update race.
	SetPasswordHash(ctx context.Context, id uint, hash string) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindActiveByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindActiveByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("username = ? AND is_active = ?", username, true).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateEmail(ctx context.Context, id uint, email string) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("email", email)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("password_hash", hash).Error
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("last_login", at).Error
}

func (r *userRepository) SetPasswordHash(ctx context.Context, id uint, hash string) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("password_hash", hash)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
