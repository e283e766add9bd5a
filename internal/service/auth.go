package service

import (
	"context"
	"strings"
	"time"

	"github.com/fittrack/backend/internal/apperr"
	"github.com/fittrack/backend/internal/db"
	"github.com/fittrack/backend/internal/model"
)

// Generic credential failure. Deliberately identical for unknown user
// and wrong password so accounts cannot be enumerated.
const msgBadCredentials = "invalid login or password"

// dummyDigest keeps login latency flat when the user does not exist:
// the bcrypt comparison runs either way.
const dummyDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserStore is the credential store collaborator. Defined here, on the
// consumer side; *db.Postgres satisfies it.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*model.User, error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)
	GetUserByID(ctx context.Context, userID int64) (*model.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateUserProfile(ctx context.Context, userID int64, username, email string) (*model.User, error)
	TouchLastLogin(ctx context.Context, userID int64, at time.Time) error
	DeactivateUser(ctx context.Context, userID int64) error
}

// AuthService owns the credential lifecycle: registration, login,
// token refresh and profile maintenance. Hashing happens here, before
// the store is asked to persist; the store is a dumb writer.
type AuthService struct {
	users  UserStore
	hasher *PasswordHasher
	tokens *TokenService
}

func NewAuthService(users UserStore, hasher *PasswordHasher, tokens *TokenService) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	email := strings.ToLower(req.Email)

	taken, err := s.users.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, apperr.Wrap(err, "check username")
	}
	if taken {
		return nil, apperr.New(apperr.Conflict, "username already taken")
	}
	taken, err = s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, apperr.Wrap(err, "check email")
	}
	if taken {
		return nil, apperr.New(apperr.Conflict, "email already registered")
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperr.Wrap(err, "hash password")
	}

	user, err := s.users.CreateUser(ctx, req.Username, email, digest)
	if err != nil {
		// The exists checks race with concurrent registrations; the
		// unique index is the authority.
		if db.IsUniqueViolation(err) {
			return nil, apperr.New(apperr.Conflict, "username or email already registered")
		}
		return nil, apperr.Wrap(err, "create user")
	}

	return s.respond(user)
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	user, err := s.users.GetUserByLogin(ctx, req.Login)

	digest := dummyDigest
	if err == nil {
		digest = user.PasswordHash
	} else if !db.IsNoRows(err) {
		return nil, apperr.Wrap(err, "load user")
	}

	// Always compare, even against the dummy digest.
	result := s.hasher.Verify(req.Password, digest)
	if err != nil || result != VerifyMatch {
		return nil, apperr.New(apperr.Unauthorized, msgBadCredentials)
	}

	now := time.Now()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, apperr.Wrap(err, "update last login")
	}
	user.LastLoginAt = &now

	return s.respond(user)
}

// Refresh exchanges a valid refresh token for a fresh pair. The account
// must still be active; deactivation cuts refresh off even before the
// token expires.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.AuthResponse, error) {
	subject, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, subject.ID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.New(apperr.Unauthorized, msgBadCredentials)
		}
		return nil, apperr.Wrap(err, "load user")
	}

	return s.respond(user)
}

func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*model.Profile, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.New(apperr.NotFound, "user not found")
		}
		return nil, apperr.Wrap(err, "load user")
	}
	p := user.Profile()
	return &p, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, req model.UpdateProfileRequest) (*model.Profile, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.New(apperr.NotFound, "user not found")
		}
		return nil, apperr.Wrap(err, "load user")
	}

	username := user.Username
	email := user.Email
	if req.Username != nil && *req.Username != username {
		username = *req.Username
		taken, err := s.users.UsernameExists(ctx, username)
		if err != nil {
			return nil, apperr.Wrap(err, "check username")
		}
		if taken {
			return nil, apperr.New(apperr.Conflict, "username already taken")
		}
	}
	if req.Email != nil && strings.ToLower(*req.Email) != email {
		email = strings.ToLower(*req.Email)
		taken, err := s.users.EmailExists(ctx, email)
		if err != nil {
			return nil, apperr.Wrap(err, "check email")
		}
		if taken {
			return nil, apperr.New(apperr.Conflict, "email already registered")
		}
	}

	updated, err := s.users.UpdateUserProfile(ctx, userID, username, email)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperr.New(apperr.Conflict, "username or email already registered")
		}
		return nil, apperr.Wrap(err, "update profile")
	}

	p := updated.Profile()
	return &p, nil
}

// Deactivate flips the active flag. The record stays; listing and login
// stop seeing it.
func (s *AuthService) Deactivate(ctx context.Context, userID int64) error {
	if err := s.users.DeactivateUser(ctx, userID); err != nil {
		return apperr.Wrap(err, "deactivate user")
	}
	return nil
}

func (s *AuthService) respond(user *model.User) (*model.AuthResponse, error) {
	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{User: user.Profile(), Tokens: pair}, nil
}
