package services_test

import (
	"fmt"
	"testing"

	"bazaar/internal/models"
	"bazaar/internal/repositories"
	"bazaar/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepo is a mock implementation of repositories.UserRepository
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, repositories.ErrNotFound)
}

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepo)
	service := services.NewAuthService(mockRepo, "test-secret")

	user := &models.User{Username: "admin", Email: "admin@example.com", Password: "password123"}

	mockRepo.On("GetByUsername", "admin").Return(nil, notFound("user admin")).Once()
	mockRepo.On("GetByEmail", "admin@example.com").Return(nil, notFound("user admin@example.com")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := service.RegisterUser(user)
	assert.NoError(t, err)

	// The stored password is a bcrypt hash, not the plaintext.
	assert.NotEqual(t, "password123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUserDuplicateUsername(t *testing.T) {
	mockRepo := new(MockUserRepo)
	service := services.NewAuthService(mockRepo, "test-secret")

	existing := &models.User{ID: "1", Username: "admin", Email: "other@example.com"}
	mockRepo.On("GetByUsername", "admin").Return(existing, nil).Once()

	err := service.RegisterUser(&models.User{Username: "admin", Email: "admin@example.com", Password: "password123"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already taken")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginAndValidate(t *testing.T) {
	mockRepo := new(MockUserRepo)
	service := services.NewAuthService(mockRepo, "test-secret")

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	user := &models.User{ID: "user-1", Username: "admin", Password: string(hashed)}

	mockRepo.On("GetByUsername", "admin").Return(user, nil).Once()

	token, err := service.LoginUser("admin", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "admin", claims["username"])
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	mockRepo := new(MockUserRepo)
	service := services.NewAuthService(mockRepo, "test-secret")

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	user := &models.User{ID: "user-1", Username: "admin", Password: string(hashed)}

	mockRepo.On("GetByUsername", "admin").Return(user, nil).Once()
	_, err = service.LoginUser("admin", "wrong-password")
	assert.Error(t, err)

	// An unknown username yields the same opaque error.
	mockRepo.On("GetByUsername", "ghost").Return(nil, notFound("user ghost")).Once()
	_, err = service.LoginUser("ghost", "password123")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateTokenWrongSecret(t *testing.T) {
	mockRepo := new(MockUserRepo)
	service := services.NewAuthService(mockRepo, "test-secret")

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	mockRepo.On("GetByUsername", "admin").Return(&models.User{ID: "user-1", Username: "admin", Password: string(hashed)}, nil).Once()

	token, err := service.LoginUser("admin", "password123")
	assert.NoError(t, err)

	other := services.NewAuthService(mockRepo, "a-different-secret")
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}
