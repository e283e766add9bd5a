package service

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fittrack/backend/internal/apperr"
	"github.com/fittrack/backend/internal/config"
	"github.com/fittrack/backend/internal/model"
)

// Terse client-facing messages for the three verification failure
// kinds. None leaks which internal check failed beyond the category.
const (
	msgTokenMissing   = "authentication token missing"
	msgTokenExpired   = "authentication token expired"
	msgTokenMalformed = "authentication token invalid"
)

type tokenClaims struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies the two bearer token families.
// Access and refresh tokens are signed with independent secrets; a
// token issued for one purpose never verifies under the other. Tokens
// are stateless: nothing is persisted, revocation is expiry only.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenService(cfg config.AuthConfig) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}
}

// WithClock replaces the time source. Test hook.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// IssuePair signs a fresh access/refresh token pair for the user.
func (s *TokenService) IssuePair(user *model.User) (model.TokenPair, error) {
	access, err := s.sign(user, s.accessSecret, s.accessTTL)
	if err != nil {
		return model.TokenPair{}, apperr.Wrap(err, "sign access token")
	}
	refresh, err := s.sign(user, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return model.TokenPair{}, apperr.Wrap(err, "sign refresh token")
	}
	return model.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

func (s *TokenService) sign(user *model.User, secret []byte, ttl time.Duration) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyAccess validates an access token and returns the subject.
func (s *TokenService) VerifyAccess(token string) (*model.AuthUser, error) {
	return s.verify(token, s.accessSecret)
}

// VerifyRefresh validates a refresh token and returns the subject.
func (s *TokenService) VerifyRefresh(token string) (*model.AuthUser, error) {
	return s.verify(token, s.refreshSecret)
}

func (s *TokenService) verify(token string, secret []byte) (*model.AuthUser, error) {
	if token == "" {
		return nil, apperr.New(apperr.Unauthorized, msgTokenMissing)
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.New(apperr.Unauthorized, msgTokenExpired)
		}
		return nil, apperr.New(apperr.Unauthorized, msgTokenMalformed)
	}
	if !parsed.Valid {
		return nil, apperr.New(apperr.Unauthorized, msgTokenMalformed)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, apperr.New(apperr.Unauthorized, msgTokenMalformed)
	}

	return &model.AuthUser{
		ID:       userID,
		Username: claims.Username,
		Email:    claims.Email,
	}, nil
}
