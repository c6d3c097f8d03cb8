package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"webbase/internal/model"
)

// SessionRepository persists session records in the same relational store as
// users. A missing record is reported as (nil, nil). Deletes are idempotent.
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	FindByToken(ctx context.Context, token string) (*model.Session, error)
	UpdateLastActivity(ctx context.Context, token string, at time.Time) error
	UpdatePayload(ctx context.Context, token string, payload []byte) error
	DeleteByToken(ctx context.Context, token string) error
	// DeleteExpiredBefore removes sessions whose last activity is older than
	// cutoff and returns the number of rows removed.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository builds a GORM-backed session repository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *model.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	var session model.Session
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) UpdateLastActivity(ctx context.Context, token string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Session{}).
		Where("token = ?", token).
		Update("last_activity", at).Error
}

func (r *sessionRepository) UpdatePayload(ctx context.Context, token string, payload []byte) error {
	return r.db.WithContext(ctx).Model(&model.Session{}).
		Where("token = ?", token).
		Update("payload", payload).Error
}

func (r *sessionRepository) DeleteByToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&model.Session{}).Error
}

func (r *sessionRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("last_activity < ?", cutoff).
		Delete(&model.Session{})
	return tx.RowsAffected, tx.Error
}
