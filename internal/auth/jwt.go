package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"dealership/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = fmt.Errorf("%w: expired", ErrInvalidToken)
)

// Claims is the session token payload. It never carries the password hash.
type Claims struct {
	AccountID int         `json:"account_id"`
	Firstname string      `json:"account_firstname"`
	Lastname  string      `json:"account_lastname"`
	Email     string      `json:"account_email"`
	Role      models.Role `json:"account_type"`
	jwt.RegisteredClaims
}

func (c Claims) Profile() models.Profile {
	return models.Profile{ID: c.AccountID, Firstname: c.Firstname, Lastname: c.Lastname, Email: c.Email, Role: c.Role}
}

// TokenService signs and verifies HS256 session tokens with a process secret.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

type TokenOption func(*TokenService)

// WithClock replaces time.Now for issuing and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(secret []byte, opts ...TokenOption) *TokenService {
	s := &TokenService{secret: secret, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *TokenService) Issue(p models.Profile, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		AccountID: p.ID,
		Firstname: p.Firstname,
		Lastname:  p.Lastname,
		Email:     p.Email,
		Role:      p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.Itoa(p.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify returns the embedded profile. Malformed, forged and expired tokens
// all yield an error matching ErrInvalidToken.
func (s *TokenService) Verify(tokenStr string) (models.Profile, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Profile{}, ErrTokenExpired
		}
		return models.Profile{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid || claims.AccountID <= 0 {
		return models.Profile{}, ErrInvalidToken
	}
	return claims.Profile(), nil
}
