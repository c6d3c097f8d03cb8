package model

import "time"

// User represents a user account. Accounts are provisioned by an
// administrator (self-registration is disabled), so PasswordHash may be nil
// until a password is set out-of-band.
type User struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Username      string     `json:"username" gorm:"uniqueIndex;size:255;not null"`
	Email         string     `json:"email" gorm:"size:255;not null"`
	PasswordHash  *string    `json:"-" gorm:"size:255"` // Never expose in JSON
	EmailVerified bool       `json:"email_verified" gorm:"default:false"`
	IsActive      bool       `json:"is_active" gorm:"default:true;index"`
	LastLogin     *time.Time `json:"last_login"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Identity is the reduced projection of a User that is safe to serialize
// into a session payload or an HTTP response. It never carries the password
// hash.
type Identity struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// Identity returns the session-safe projection of the user.
func (u *User) Identity() *Identity {
	return &Identity{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		IsActive: u.IsActive,
	}
}
