package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhanushramudri/events-backend/internal/domain"
	"github.com/dhanushramudri/events-backend/internal/repository"
)

type fakeUserStore struct {
	nextID uint
	users  map[string]domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]domain.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user domain.User) (domain.User, error) {
	if _, ok := f.users[user.Email]; ok {
		return domain.User{}, repository.ErrUserEmailExists
	}
	f.nextID++
	user.ID = f.nextID
	f.users[user.Email] = user
	return user, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (domain.User, error) {
	user, ok := f.users[email]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func TestAuthService_SignupAndLogin(t *testing.T) {
	svc := NewAuthService(newFakeUserStore())

	created, err := svc.Signup(context.Background(), domain.User{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret12",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RoleUser, created.Role)
	assert.NotEqual(t, "secret12", created.Password, "password must be hashed")

	user, err := svc.Login(context.Background(), "alice@example.com", "secret12")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserStore())

	_, err := svc.Signup(context.Background(), domain.User{Email: "alice@example.com", Password: "secret12"})
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), domain.User{Email: "alice@example.com", Password: "secret12"})
	assert.ErrorIs(t, err, ErrUserEmailExists)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := NewAuthService(newFakeUserStore())

	_, err := svc.Signup(context.Background(), domain.User{Email: "alice@example.com", Password: "secret12"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = svc.Login(context.Background(), "nobody@example.com", "secret12")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
