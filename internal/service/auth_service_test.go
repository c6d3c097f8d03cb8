package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"webbase/internal/auth"
	"webbase/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindActiveByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindActiveByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateEmail(ctx context.Context, id uint, email string) (bool, error) {
	args := m.Called(ctx, id, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUserRepository) SetPasswordHash(ctx context.Context, id uint, hash string) (bool, error) {
	args := m.Called(ctx, id, hash)
	return args.Bool(0), args.Error(1)
}

func mustHash(t *testing.T, password string) *string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &hash
}

func TestAuthService_Authenticate(t *testing.T) {
	corrupt := "$argon2id$not-a-real-hash"

	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*testing.T, *MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful sign-in",
			username: "alice",
			password: "hunter2pass",
			setupMock: func(t *testing.T, m *MockUserRepository) {
				m.On("FindActiveByUsername", mock.Anything, "alice").Return(&model.User{
					ID:           7,
					Username:     "alice",
					Email:        "alice@example.com",
					IsActive:     true,
					PasswordHash: mustHash(t, "hunter2pass"),
				}, nil)
				m.On("UpdateLastLogin", mock.Anything, uint(7), mock.AnythingOfType("time.Time")).Return(nil)
			},
		},
		{
			name:     "unknown username",
			username: "nobody",
			password: "hunter2pass",
			setupMock: func(t *testing.T, m *MockUserRepository) {
				m.On("FindActiveByUsername", mock.Anything, "nobody").Return(nil, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "no password set",
			username: "pending",
			password: "hunter2pass",
			setupMock: func(t *testing.T, m *MockUserRepository) {
				m.On("FindActiveByUsername", mock.Anything, "pending").Return(&model.User{
					ID:       3,
					Username: "pending",
					IsActive: true,
				}, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "corrupt stored hash",
			username: "broken",
			password: "hunter2pass",
			setupMock: func(t *testing.T, m *MockUserRepository) {
				m.On("FindActiveByUsername", mock.Anything, "broken").Return(&model.User{
					ID:           4,
					Username:     "broken",
					IsActive:     true,
					PasswordHash: &corrupt,
				}, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "not-the-password",
			setupMock: func(t *testing.T, m *MockUserRepository) {
				m.On("FindActiveByUsername", mock.Anything, "alice").Return(&model.User{
					ID:           7,
					Username:     "alice",
					IsActive:     true,
					PasswordHash: mustHash(t, "hunter2pass"),
				}, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(t, mockRepo)

			service := NewAuthService(mockRepo)
			identity, err := service.Authenticate(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, identity)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, identity)
				assert.Equal(t, tt.username, identity.Username)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

// Every rejection path must collapse to the same error so responses cannot be
// used to probe which usernames exist.
func TestAuthService_Authenticate_UniformRejection(t *testing.T) {
	unknownRepo := new(MockUserRepository)
	unknownRepo.On("FindActiveByUsername", mock.Anything, mock.Anything).Return(nil, nil)

	wrongRepo := new(MockUserRepository)
	wrongRepo.On("FindActiveByUsername", mock.Anything, mock.Anything).Return(&model.User{
		ID:           1,
		Username:     "alice",
		IsActive:     true,
		PasswordHash: mustHash(t, "hunter2pass"),
	}, nil)

	_, errUnknown := NewAuthService(unknownRepo).Authenticate(context.Background(), "nobody", "whatever123")
	_, errWrong := NewAuthService(wrongRepo).Authenticate(context.Background(), "alice", "whatever123")

	assert.Equal(t, errUnknown, errWrong)
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
}

func TestAuthService_Authenticate_LastLoginFailureIsNotFatal(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindActiveByUsername", mock.Anything, "alice").Return(&model.User{
		ID:           7,
		Username:     "alice",
		IsActive:     true,
		PasswordHash: mustHash(t, "hunter2pass"),
	}, nil)
	mockRepo.On("UpdateLastLogin", mock.Anything, uint(7), mock.AnythingOfType("time.Time")).
		Return(errors.New("connection lost"))

	identity, err := NewAuthService(mockRepo).Authenticate(context.Background(), "alice", "hunter2pass")

	assert.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, uint(7), identity.ID)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ChangePassword(t *testing.T) {
	tests := []struct {
		name            string
		currentPassword string
		newPassword     string
		setupMock       func(*testing.T, *MockUserRepository)
		expectedError   error
	}{
		{
			name:            "successful change",
			currentPassword: "hunter2pass",
			newPassword:     "newpass123",
			setupMock: func(t *testing.T, m *MockUserRepository) {
				m.On("FindActiveByID", mock.Anything, uint(7)).Return(&model.User{
					ID:           7,
					Username:     "alice",
					IsActive:     true,
					PasswordHash: mustHash(t, "hunter2pass"),
				}, nil)
				m.On("UpdatePasswordHash", mock.Anything, uint(7), mock.AnythingOfType("string")).Return(nil)
			},
		},
		{
			name:            "wrong current password",
			currentPassword: "not-the-password",
			newPassword:     "newpass123",
			setupMock: func(t *testing.T, m *MockUserRepository) {
				m.On("FindActiveByID", mock.Anything, uint(7)).Return(&model.User{
					ID:           7,
					IsActive:     true,
					PasswordHash: mustHash(t, "hunter2pass"),
				}, nil)
			},
			expectedError: ErrCurrentPasswordIncorrect,
		},
		{
			name:            "user vanished mid-session",
			currentPassword: "hunter2pass",
			newPassword:     "newpass123",
			setupMock: func(t *testing.T, m *MockUserRepository) {
				m.On("FindActiveByID", mock.Anything, uint(7)).Return(nil, nil)
			},
			expectedError: ErrCurrentPasswordIncorrect,
		},
		{
			name:            "new password too short",
			currentPassword: "hunter2pass",
			newPassword:     "short",
			setupMock: func(t *testing.T, m *MockUserRepository) {
				m.On("FindActiveByID", mock.Anything, uint(7)).Return(&model.User{
					ID:           7,
					IsActive:     true,
					PasswordHash: mustHash(t, "hunter2pass"),
				}, nil)
			},
			expectedError: ErrPasswordTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(t, mockRepo)

			err := NewAuthService(mockRepo).ChangePassword(context.Background(), 7, tt.currentPassword, tt.newPassword)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

// The policy check runs only after the current password is verified, so the
// length of a rejected attempt leaks nothing about the stored credential.
func TestAuthService_ChangePassword_PolicyAfterVerification(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindActiveByID", mock.Anything, uint(7)).Return(&model.User{
		ID:           7,
		IsActive:     true,
		PasswordHash: mustHash(t, "hunter2pass"),
	}, nil)

	err := NewAuthService(mockRepo).ChangePassword(context.Background(), 7, "wrong-current", "short")

	assert.ErrorIs(t, err, ErrCurrentPasswordIncorrect)
}

func TestAuthService_CreateUser(t *testing.T) {
	t.Run("duplicate username", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)

		user, err := NewAuthService(mockRepo).CreateUser(context.Background(), "alice", "alice@example.com", "hunter2pass")

		assert.ErrorIs(t, err, ErrUsernameTaken)
		assert.Nil(t, user)
	})

	t.Run("empty password leaves hash unset", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		user, err := NewAuthService(mockRepo).CreateUser(context.Background(), "bob", "bob@example.com", "")

		require.NoError(t, err)
		assert.Nil(t, user.PasswordHash)
		assert.True(t, user.IsActive)
		assert.False(t, user.EmailVerified)
	})

	t.Run("password is stored hashed", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		user, err := NewAuthService(mockRepo).CreateUser(context.Background(), "carol", "carol@example.com", "hunter2pass")

		require.NoError(t, err)
		require.NotNil(t, user.PasswordHash)
		assert.NotEqual(t, "hunter2pass", *user.PasswordHash)

		ok, err := auth.VerifyPassword("hunter2pass", *user.PasswordHash)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestAuthService_SetPassword(t *testing.T) {
	t.Run("unknown user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("SetPasswordHash", mock.Anything, uint(42), mock.AnythingOfType("string")).Return(false, nil)

		err := NewAuthService(mockRepo).SetPassword(context.Background(), 42, "newpass123")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("existing user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("SetPasswordHash", mock.Anything, uint(7), mock.AnythingOfType("string")).Return(true, nil)

		err := NewAuthService(mockRepo).SetPassword(context.Background(), 7, "newpass123")

		assert.NoError(t, err)
	})
}

// fakeUserRepo is an in-memory repository for the end-to-end credential
// lifecycle scenario, where mock expectations would obscure the flow.
type fakeUserRepo struct {
	users  map[uint]*model.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*model.User{}, nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindActiveByID(_ context.Context, id uint) (*model.User, error) {
	u, ok := f.users[id]
	if !ok || !u.IsActive {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) FindActiveByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username && u.IsActive {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdateEmail(_ context.Context, id uint, email string) (bool, error) {
	u, ok := f.users[id]
	if !ok || !u.IsActive {
		return false, nil
	}
	u.Email = email
	return true, nil
}

func (f *fakeUserRepo) UpdatePasswordHash(_ context.Context, id uint, hash string) error {
	if u, ok := f.users[id]; ok && u.IsActive {
		u.PasswordHash = &hash
	}
	return nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, id uint, at time.Time) error {
	if u, ok := f.users[id]; ok {
		u.LastLogin = &at
	}
	return nil
}

func (f *fakeUserRepo) SetPasswordHash(_ context.Context, id uint, hash string) (bool, error) {
	u, ok := f.users[id]
	if !ok {
		return false, nil
	}
	u.PasswordHash = &hash
	return true, nil
}

func TestAuthService_CredentialLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	service := NewAuthService(repo)

	user, err := service.CreateUser(ctx, "alice", "alice@example.com", "")
	require.NoError(t, err)
	require.NotNil(t, user)

	// No password yet, so sign-in is impossible.
	_, err = service.Authenticate(ctx, "alice", "hunter2pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Administrative provisioning enables sign-in.
	require.NoError(t, service.SetPassword(ctx, user.ID, "hunter2pass"))

	identity, err := service.Authenticate(ctx, "alice", "hunter2pass")
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.Username)
	assert.NotNil(t, repo.users[user.ID].LastLogin)

	// Self-service change retires the old credential.
	require.NoError(t, service.ChangePassword(ctx, user.ID, "hunter2pass", "newpass123"))

	_, err = service.Authenticate(ctx, "alice", "hunter2pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	identity, err = service.Authenticate(ctx, "alice", "newpass123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.ID)
}
