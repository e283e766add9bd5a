package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fittrack/backend/internal/apperr"
	"github.com/fittrack/backend/internal/model"
)

// fakeUserStore is an in-memory UserStore.
type fakeUserStore struct {
	users  map[int64]*model.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int64]*model.User{}, nextID: 1}
}

func (f *fakeUserStore) CreateUser(_ context.Context, username, email, passwordHash string) (*model.User, error) {
	u := &model.User{
		ID:           f.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Active:       true,
		CreatedAt:    time.Now(),
	}
	f.users[u.ID] = u
	f.nextID++
	return u, nil
}

func (f *fakeUserStore) GetUserByLogin(_ context.Context, login string) (*model.User, error) {
	for _, u := range f.users {
		if u.Active && (u.Username == login || u.Email == login) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) GetUserByID(_ context.Context, userID int64) (*model.User, error) {
	if u, ok := f.users[userID]; ok && u.Active {
		cp := *u
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) UpdateUserProfile(_ context.Context, userID int64, username, email string) (*model.User, error) {
	u, ok := f.users[userID]
	if !ok || !u.Active {
		return nil, pgx.ErrNoRows
	}
	u.Username = username
	u.Email = email
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) TouchLastLogin(_ context.Context, userID int64, at time.Time) error {
	if u, ok := f.users[userID]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

func (f *fakeUserStore) DeactivateUser(_ context.Context, userID int64) error {
	if u, ok := f.users[userID]; ok {
		u.Active = false
	}
	return nil
}

func newTestAuthService() (*AuthService, *fakeUserStore) {
	store := newFakeUserStore()
	svc := NewAuthService(store, NewPasswordHasher(4), testTokenService())
	return svc, store
}

func register(t *testing.T, svc *AuthService) *model.AuthResponse {
	t.Helper()
	res, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "runner_jane",
		Email:    "Jane@Example.com",
		Password: "sup3r-secret",
	})
	require.NoError(t, err)
	return res
}

func TestRegister(t *testing.T) {
	svc, store := newTestAuthService()
	res := register(t, svc)

	assert.Equal(t, "runner_jane", res.User.Username)
	assert.Equal(t, "jane@example.com", res.User.Email, "email is lowercased")
	assert.NotEmpty(t, res.Tokens.AccessToken)

	// Plaintext never reaches the store.
	stored := store.users[res.User.ID]
	assert.NotEqual(t, "sup3r-secret", stored.PasswordHash)
	assert.NotContains(t, stored.PasswordHash, "secret")
}

func TestRegisterDuplicates(t *testing.T) {
	svc, _ := newTestAuthService()
	register(t, svc)

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "runner_jane", Email: "other@example.com", Password: "password1",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))

	_, err = svc.Register(context.Background(), model.RegisterRequest{
		Username: "other_user", Email: "jane@example.com", Password: "password1",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
}

func TestLogin(t *testing.T) {
	svc, store := newTestAuthService()
	register(t, svc)

	// By username.
	res, err := svc.Login(context.Background(), model.LoginRequest{Login: "runner_jane", Password: "sup3r-secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Tokens.AccessToken)
	assert.NotNil(t, store.users[res.User.ID].LastLoginAt, "login records last-login")

	// By email.
	_, err = svc.Login(context.Background(), model.LoginRequest{Login: "jane@example.com", Password: "sup3r-secret"})
	require.NoError(t, err)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestAuthService()
	register(t, svc)

	_, wrongPw := svc.Login(context.Background(), model.LoginRequest{Login: "runner_jane", Password: "nope"})
	_, noUser := svc.Login(context.Background(), model.LoginRequest{Login: "ghost", Password: "nope"})

	require.Error(t, wrongPw)
	require.Error(t, noUser)
	assert.Equal(t, apperr.Unauthorized, apperr.KindOf(wrongPw))
	assert.Equal(t, apperr.Unauthorized, apperr.KindOf(noUser))
	assert.Equal(t, wrongPw.Error(), noUser.Error(), "unknown user and bad password must look identical")
}

func TestRefresh(t *testing.T) {
	svc, _ := newTestAuthService()
	res := register(t, svc)

	refreshed, err := svc.Refresh(context.Background(), res.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Tokens.AccessToken)

	// Access tokens are not refresh tokens.
	_, err = svc.Refresh(context.Background(), res.Tokens.AccessToken)
	require.Error(t, err)
	assert.Equal(t, apperr.Unauthorized, apperr.KindOf(err))
}

func TestRefreshAfterDeactivation(t *testing.T) {
	svc, _ := newTestAuthService()
	res := register(t, svc)

	require.NoError(t, svc.Deactivate(context.Background(), res.User.ID))

	_, err := svc.Refresh(context.Background(), res.Tokens.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, apperr.Unauthorized, apperr.KindOf(err))

	_, err = svc.Login(context.Background(), model.LoginRequest{Login: "runner_jane", Password: "sup3r-secret"})
	require.Error(t, err, "deactivated accounts cannot log in")
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestAuthService()
	res := register(t, svc)

	newName := "runner_joan"
	profile, err := svc.UpdateProfile(context.Background(), res.User.ID, model.UpdateProfileRequest{Username: &newName})
	require.NoError(t, err)
	assert.Equal(t, "runner_joan", profile.Username)
	assert.Equal(t, "jane@example.com", profile.Email, "unset fields keep their value")

	// Colliding with another account's username is a conflict.
	_, err = svc.Register(context.Background(), model.RegisterRequest{
		Username: "runner_kate", Email: "kate@example.com", Password: "password1",
	})
	require.NoError(t, err)
	taken := "runner_kate"
	_, err = svc.UpdateProfile(context.Background(), res.User.ID, model.UpdateProfileRequest{Username: &taken})
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
}
