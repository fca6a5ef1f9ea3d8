package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/incidentflow/incidentflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	users         map[string]*domain.User
	createUserErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockRepository) CreateUser(_ context.Context, user *domain.User) error {
	if m.createUserErr != nil {
		return m.createUserErr
	}
	if _, ok := m.users[user.Email]; ok {
		return ErrEmailExists
	}
	user.ID = "test-user-id"
	m.users[user.Email] = user
	return nil
}

func (m *mockRepository) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

// mockIssuer implements TokenIssuer for testing.
type mockIssuer struct {
	lastUserID string
	err        error
}

func (m *mockIssuer) Generate(userID string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.lastUserID = userID
	return "token-for-" + userID, nil
}

func TestRegister_IssuesToken(t *testing.T) {
	// Arrange
	repo := newMockRepository()
	issuer := &mockIssuer{}
	service := NewService(repo, issuer)

	// Act
	token, err := service.Register(context.Background(), RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "token-for-test-user-id", token)
	assert.Equal(t, "test-user-id", issuer.lastUserID)

	stored := repo.users["test@example.com"]
	require.NotNil(t, stored)
	assert.Equal(t, "Test User", stored.Name)
	assert.NotEqual(t, "password123", stored.PasswordHash, "password must be stored hashed")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))
}

func TestRegister_NormalizesEmail(t *testing.T) {
	// Arrange
	repo := newMockRepository()
	service := NewService(repo, &mockIssuer{})

	// Act
	_, err := service.Register(context.Background(), RegisterInput{
		Name:     "Test User",
		Email:    "  Test@Example.COM ",
		Password: "password123",
	})

	// Assert
	require.NoError(t, err)
	assert.Contains(t, repo.users, "test@example.com")
}

func TestRegister_EmailAlreadyExists(t *testing.T) {
	// Arrange
	repo := newMockRepository()
	repo.users["existing@example.com"] = &domain.User{Email: "existing@example.com"}
	service := NewService(repo, &mockIssuer{})

	// Act
	token, err := service.Register(context.Background(), RegisterInput{
		Name:     "Test User",
		Email:    "existing@example.com",
		Password: "password123",
	})

	// Assert
	assert.Empty(t, token)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestRegister_CreateUserFails(t *testing.T) {
	// Arrange
	repo := newMockRepository()
	repo.createUserErr = errors.New("database error")
	issuer := &mockIssuer{}
	service := NewService(repo, issuer)

	// Act
	token, err := service.Register(context.Background(), RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
	})

	// Assert
	assert.Empty(t, token)
	assert.Error(t, err)
	assert.Empty(t, issuer.lastUserID, "no token should be issued if user creation fails")
}

func TestLogin_Succeeds(t *testing.T) {
	// Arrange
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := newMockRepository()
	repo.users["test@example.com"] = &domain.User{
		ID:           "user-1",
		Email:        "test@example.com",
		PasswordHash: string(hash),
	}
	service := NewService(repo, &mockIssuer{})

	// Act
	token, err := service.Login(context.Background(), LoginInput{
		Email:    "Test@example.com",
		Password: "password123",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "token-for-user-1", token)
}

func TestLogin_WrongPassword(t *testing.T) {
	// Arrange
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := newMockRepository()
	repo.users["test@example.com"] = &domain.User{
		ID:           "user-1",
		Email:        "test@example.com",
		PasswordHash: string(hash),
	}
	service := NewService(repo, &mockIssuer{})

	// Act
	token, err := service.Login(context.Background(), LoginInput{
		Email:    "test@example.com",
		Password: "wrong-password",
	})

	// Assert
	assert.Empty(t, token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	// Arrange
	service := NewService(newMockRepository(), &mockIssuer{})

	// Act
	token, err := service.Login(context.Background(), LoginInput{
		Email:    "missing@example.com",
		Password: "password123",
	})

	// Assert
	assert.Empty(t, token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
