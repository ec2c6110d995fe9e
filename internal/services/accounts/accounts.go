// Package accounts implements registration, login and profile maintenance.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dealership/internal/models"
	"dealership/internal/store"
	"dealership/internal/validate"

	"go.uber.org/zap"
)

var (
	ErrDuplicateEmail = errors.New("email already registered")
	ErrBadCredentials = errors.New("bad credentials")
	ErrForbidden      = errors.New("not allowed to change this account")
)

type Store interface {
	Create(ctx context.Context, a *models.Account) (int, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ByEmail(ctx context.Context, email string) (*models.Account, error)
	ByID(ctx context.Context, id int) (*models.Account, error)
	UpdateProfile(ctx context.Context, id int, firstname, lastname, email string) error
	UpdatePassword(ctx context.Context, id int, hash string) error
}

type Hasher interface {
	Hash(pw string) (string, error)
	Compare(hash, pw string) (bool, error)
}

type Tokens interface {
	Issue(p models.Profile, ttl time.Duration) (string, error)
}

type Service struct {
	store  Store
	hasher Hasher
	tokens Tokens
	ttl    time.Duration
	lg     *zap.SugaredLogger
}

func NewService(st Store, h Hasher, t Tokens, ttl time.Duration, lg *zap.SugaredLogger) *Service {
	return &Service{store: st, hasher: h, tokens: t, ttl: ttl, lg: lg}
}

// Session is what a successful login or profile change hands back to the
// transport: the public profile and a freshly signed token.
type Session struct {
	Profile models.Profile
	Token   string
}

type RegisterInput struct {
	Firstname string `form:"account_firstname" validate:"required" msg:"Please provide a first name."`
	Lastname  string `form:"account_lastname" validate:"required" msg:"Please provide a last name."`
	Email     string `form:"account_email" validate:"required,email" msg:"A valid email is required."`
	Password  string `form:"account_password" validate:"required,min=8,bcryptlen,hasdigit" msg:"Passwords must be at least 8 characters and contain at least 1 number."`
}

func (in *RegisterInput) normalize() {
	in.Firstname = strings.TrimSpace(in.Firstname)
	in.Lastname = strings.TrimSpace(in.Lastname)
	in.Email = models.NormalizeEmail(in.Email)
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (models.Profile, error) {
	in.normalize()
	if err := validate.Struct(in); err != nil {
		return models.Profile{}, err
	}
	exists, err := s.store.EmailExists(ctx, in.Email)
	if err != nil {
		return models.Profile{}, fmt.Errorf("register: %w", err)
	}
	if exists {
		return models.Profile{}, ErrDuplicateEmail
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return models.Profile{}, fmt.Errorf("register: hash password: %w", err)
	}
	acc, err := models.NewAccount(in.Firstname, in.Lastname, in.Email, hash)
	if err != nil {
		return models.Profile{}, fmt.Errorf("register: %w", err)
	}
	if _, err := s.store.Create(ctx, acc); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return models.Profile{}, ErrDuplicateEmail
		}
		return models.Profile{}, fmt.Errorf("register: %w", err)
	}
	s.lg.Infow("account registered", "account_id", acc.ID)
	return acc.Profile(), nil
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	acc, err := s.store.ByEmail(ctx, models.NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, ErrBadCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("login: %w", err)
	}
	ok, err := s.hasher.Compare(acc.PasswordHash, password)
	if err != nil {
		return Session{}, fmt.Errorf("login: compare password: %w", err)
	}
	if !ok {
		return Session{}, ErrBadCredentials
	}
	return s.session(acc.Profile())
}

func (s *Service) session(p models.Profile) (Session, error) {
	tok, err := s.tokens.Issue(p, s.ttl)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{Profile: p, Token: tok}, nil
}

func (s *Service) Get(ctx context.Context, id int) (models.Profile, error) {
	acc, err := s.store.ByID(ctx, id)
	if err != nil {
		return models.Profile{}, err
	}
	return acc.Profile(), nil
}

type ProfileInput struct {
	ID        int    `form:"account_id" validate:"gt=0"`
	Firstname string `form:"account_firstname" validate:"required" msg:"Please provide a first name."`
	Lastname  string `form:"account_lastname" validate:"required" msg:"Please provide a last name."`
	Email     string `form:"account_email" validate:"required,email" msg:"A valid email is required."`
}

// CanEdit reports whether actor may change account id: owners edit
// themselves, admins edit anyone.
func CanEdit(actor models.Profile, id int) bool {
	return actor.ID == id || actor.Role == models.RoleAdmin
}

// UpdateProfile saves the new names and email, then re-reads the account and
// signs a token that carries the updated profile.
func (s *Service) UpdateProfile(ctx context.Context, actor models.Profile, in ProfileInput) (Session, error) {
	in.Firstname = strings.TrimSpace(in.Firstname)
	in.Lastname = strings.TrimSpace(in.Lastname)
	in.Email = models.NormalizeEmail(in.Email)
	if err := validate.Struct(in); err != nil {
		return Session{}, err
	}
	if !CanEdit(actor, in.ID) {
		return Session{}, ErrForbidden
	}
	if err := s.store.UpdateProfile(ctx, in.ID, in.Firstname, in.Lastname, in.Email); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return Session{}, ErrDuplicateEmail
		}
		return Session{}, fmt.Errorf("update profile: %w", err)
	}
	acc, err := s.store.ByID(ctx, in.ID)
	if err != nil {
		return Session{}, fmt.Errorf("update profile: reload: %w", err)
	}
	// An admin editing someone else keeps their own session.
	if actor.ID != acc.ID {
		return s.session(actor)
	}
	return s.session(acc.Profile())
}

type PasswordInput struct {
	ID       int    `form:"account_id" validate:"gt=0"`
	Password string `form:"account_password" validate:"required,min=8,bcryptlen,hasdigit" msg:"Passwords must be at least 8 characters and contain at least 1 number."`
}

func (s *Service) UpdatePassword(ctx context.Context, actor models.Profile, in PasswordInput) (models.Profile, error) {
	if err := validate.Struct(in); err != nil {
		return models.Profile{}, err
	}
	if !CanEdit(actor, in.ID) {
		return models.Profile{}, ErrForbidden
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return models.Profile{}, fmt.Errorf("update password: hash: %w", err)
	}
	if err := s.store.UpdatePassword(ctx, in.ID, hash); err != nil {
		return models.Profile{}, fmt.Errorf("update password: %w", err)
	}
	s.lg.Infow("password changed", "account_id", in.ID, "by", actor.ID)
	return s.Get(ctx, in.ID)
}
