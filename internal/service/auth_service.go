package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"webbase/internal/auth"
	"webbase/internal/model"
	"webbase/internal/repository"
)

var (
	// ErrInvalidCredentials is the single externally visible outcome for
	// every login rejection. Unknown user, inactive user, no password
	// configured and wrong password all collapse to it so responses cannot
	// be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrCurrentPasswordIncorrect is returned when a password change fails
	// verification of the current password.
	ErrCurrentPasswordIncorrect = errors.New("current password is incorrect")
	// ErrPasswordTooShort is returned when a new password fails the policy.
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	// ErrUsernameTaken is returned when creating a user with a username that
	// already exists.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrUserNotFound is returned by administrative operations targeting a
	// nonexistent user id.
	ErrUserNotFound = errors.New("user not found")
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// AuthService orchestrates credential verification against the user store
// and the hasher. Store failures are wrapped and never reach the end user as
// raw storage errors.
type AuthService interface {
	// Authenticate verifies username/password and returns the identity
	// projection on success.
	Authenticate(ctx context.Context, username, password string) (*model.Identity, error)
	// ChangePassword verifies the current password before accepting the new
	// one. Equality of new and confirm passwords is a form-handling concern
	// checked by the caller.
	ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error
	// UpdateProfile persists a new email and reports whether a row changed.
	UpdateProfile(ctx context.Context, userID uint, email string) (bool, error)
	// SetPassword is the administrative set-password path used by
	// provisioning tooling; it does not require the current password.
	SetPassword(ctx context.Context, userID uint, password string) error
	// CreateUser provisions a new active, email-unverified user. An empty
	// password leaves the password hash unset.
	CreateUser(ctx context.Context, username, email, password string) (*model.User, error)
}

type authService struct {
	users repository.UserRepository
}

// NewAuthService creates an authentication service.
func NewAuthService(users repository.UserRepository) AuthService {
	return &authService{users: users}
}

func (s *authService) Authenticate(ctx context.Context, username, password string) (*model.Identity, error) {
	user, err := s.users.FindActiveByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		log.Printf("login rejected: unknown or inactive user %q", username)
		return nil, ErrInvalidCredentials
	}

	if user.PasswordHash == nil {
		log.Printf("login rejected: no password configured for user %d", user.ID)
		return nil, ErrInvalidCredentials
	}

	ok, err := auth.VerifyPassword(password, *user.PasswordHash)
	if err != nil {
		// Malformed stored hash. Never authenticate against corrupt data;
		// log distinctly for operator attention.
		log.Printf("login rejected: corrupt password hash for user %d: %v", user.ID, err)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		log.Printf("login rejected: wrong password for user %d", user.ID)
		return nil, ErrInvalidCredentials
	}

	// Best effort: last_login is a liveness signal, not worth failing a
	// correct login over.
	if err := s.users.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		log.Printf("update last login for user %d: %v", user.ID, err)
	}

	return user.Identity(), nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	user, err := s.users.FindActiveByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil || user.PasswordHash == nil {
		// A vanished user or one with no password to change reads the same
		// as a wrong current password.
		return ErrCurrentPasswordIncorrect
	}

	ok, err := auth.VerifyPassword(currentPassword, *user.PasswordHash)
	if err != nil {
		log.Printf("password change rejected: corrupt password hash for user %d: %v", userID, err)
		return ErrCurrentPasswordIncorrect
	}
	if !ok {
		return ErrCurrentPasswordIncorrect
	}

	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uint, email string) (bool, error) {
	changed, err := s.users.UpdateEmail(ctx, userID, email)
	if err != nil {
		return false, fmt.Errorf("update email: %w", err)
	}
	return changed, nil
}

func (s *authService) SetPassword(ctx context.Context, userID uint, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	updated, err := s.users.SetPasswordHash(ctx, userID, hash)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	if !updated {
		return ErrUserNotFound
	}
	return nil
}

func (s *authService) CreateUser(ctx context.Context, username, email, password string) (*model.User, error) {
	user := &model.User{
		Username:      username,
		Email:         email,
		EmailVerified: false,
		IsActive:      true,
	}

	if password != "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = &hash
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}
