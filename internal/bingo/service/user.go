package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/billybingo/internal/bingo/domain"
	"github.com/aussiebroadwan/billybingo/internal/bingo/store"
	"github.com/aussiebroadwan/billybingo/pkg/cryptox"
	"github.com/aussiebroadwan/billybingo/pkg/idx"
	"github.com/aussiebroadwan/billybingo/pkg/slogx"
)

const (
	msgUserNotFound      = "User not found"
	msgEmailTaken        = "Email already exists"
	msgNameTaken         = "Username already exists"
	msgBadCredentials    = "Invalid email or password"
	msgCredentialsNeeded = "Email and password are required"
)

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,alphanum"`
	Email    string `json:"email" validate:"required,emailaddr"`
	Password string `json:"password" validate:"required,min=8,letterdigit"`
}

var userMessages = map[string]fieldMessages{
	"Name": {
		Required: "Name is required",
		Invalid:  "Name must be at least 2 characters and contain only letters and numbers",
	},
	"Email": {
		Required: "Email is required",
		Invalid:  "Please provide a valid email address",
	},
	"Password": {
		Required: "Password is required",
		Invalid:  "Password must be at least 8 characters and contain both letters and numbers",
	},
}

// UserPatch is a partial profile update. Password is validated when
// present but never applied; there is no password change flow.
type UserPatch struct {
	Name     *string `json:"name" validate:"omitnil,min=2,alphanum"`
	Email    *string `json:"email" validate:"omitnil,emailaddr"`
	Password *string `json:"password" validate:"omitnil,min=8,letterdigit"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User  domain.User
	Token string
}

type UserService struct {
	Store  store.Store
	Hasher cryptox.Hasher
	Tokens *TokenService

	dummyOnce sync.Once
	dummyHash string
}

// Register validates in, creates the account and issues a token.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	u, err := s.Create(ctx, in)
	if err != nil {
		return AuthResult{}, err
	}
	token, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return AuthResult{}, domain.Internal(err)
	}

	slogx.FromContext(ctx).Info("user registered", slog.String("user_id", u.ID))
	return AuthResult{User: u, Token: token}, nil
}

// Create validates in and stores a new account without issuing a token.
func (s *UserService) Create(ctx context.Context, in RegisterInput) (domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := check(in, userMessages); err != nil {
		return domain.User{}, err
	}
	if err := domain.ValidateStoredPassword(in.Password); err != nil {
		return domain.User{}, err
	}

	ts := now()
	u := domain.User{
		ID:        idx.New().String(),
		Name:      in.Name,
		Email:     in.Email,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	u.Normalize()

	// Fast path for a friendly message. The unique indexes remain the
	// authority when two registrations race.
	if err := s.ensureAvailable(ctx, u, ""); err != nil {
		return domain.User{}, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, domain.Internal(err)
	}
	u.PasswordHash = hash
	if err := u.Validate(); err != nil {
		return domain.User{}, err
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		return domain.User{}, mapUserWriteErr(err)
	}
	return u, nil
}

// Login checks credentials. Unknown emails and wrong passwords fail with
// the same error and take the same time.
func (s *UserService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	log := slogx.FromContext(ctx)
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return AuthResult{}, domain.Validation(msgCredentialsNeeded)
	}

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		_ = s.Hasher.Verify(password, s.dummy())
		log.Info("login failed", slog.String("reason", "unknown_email"))
		return AuthResult{}, domain.Unauthenticated(msgBadCredentials)
	case err != nil:
		return AuthResult{}, domain.Internal(err)
	}

	switch err := s.Hasher.Verify(password, u.PasswordHash); {
	case errors.Is(err, cryptox.ErrMismatch):
		log.Info("login failed", slog.String("reason", "bad_password"), slog.String("user_id", u.ID))
		return AuthResult{}, domain.Unauthenticated(msgBadCredentials)
	case err != nil:
		return AuthResult{}, domain.Internal(err)
	}

	token, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return AuthResult{}, domain.Internal(err)
	}
	log.Info("user logged in", slog.String("user_id", u.ID))
	return AuthResult{User: u, Token: token}, nil
}

// Get fetches a user by id.
func (s *UserService) Get(ctx context.Context, id string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapUserReadErr(err)
	}
	return u, nil
}

// List returns every user, newest first.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.Store.Users().ListUsers(ctx)
	if err != nil {
		return nil, domain.Internal(err)
	}
	return users, nil
}

// Update applies patch to the user's name and email.
func (s *UserService) Update(ctx context.Context, id string, patch UserPatch) (domain.User, error) {
	trimPtr(patch.Name)
	trimPtr(patch.Email)
	if err := check(patch, userMessages); err != nil {
		return domain.User{}, err
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	next := current
	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.Email != nil {
		next.Email = *patch.Email
	}
	next.Normalize()
	next.UpdatedAt = now()
	if err := next.Validate(); err != nil {
		return domain.User{}, err
	}
	if err := s.ensureAvailable(ctx, next, current.ID); err != nil {
		return domain.User{}, err
	}

	if err := s.Store.Users().ReplaceUser(ctx, next); err != nil {
		return domain.User{}, mapUserWriteErr(err)
	}
	return next, nil
}

// Delete removes the user and their cards.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.Store.Users().DeleteUser(ctx, id); err != nil {
		return mapUserReadErr(err)
	}
	slogx.FromContext(ctx).Info("user deleted", slog.String("user_id", id))
	return nil
}

// ensureAvailable reports a conflict when u's email or name is held by
// another user than self.
func (s *UserService) ensureAvailable(ctx context.Context, u domain.User, self string) error {
	users := s.Store.Users()

	other, err := users.GetUserByEmail(ctx, u.Email)
	switch {
	case err == nil && other.ID != self:
		return domain.Conflict(msgEmailTaken)
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return domain.Internal(err)
	}

	other, err = users.GetUserByName(ctx, u.Name)
	switch {
	case err == nil && other.ID != self:
		return domain.Conflict(msgNameTaken)
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return domain.Internal(err)
	}
	return nil
}

func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		secret, _ := cryptox.GenerateSecret(16)
		s.dummyHash, _ = s.Hasher.Hash(secret)
	})
	return s.dummyHash
}

func mapUserReadErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return domain.NotFound(msgUserNotFound)
	}
	return domain.Internal(err)
}

func mapUserWriteErr(err error) error {
	var ce *store.ConflictError
	switch {
	case errors.As(err, &ce) && ce.Field == store.FieldEmail:
		return domain.Conflict(msgEmailTaken)
	case errors.As(err, &ce) && ce.Field == store.FieldName:
		return domain.Conflict(msgNameTaken)
	case errors.Is(err, store.ErrAlreadyExists):
		return domain.Conflict("User already exists")
	case errors.Is(err, store.ErrNotFound):
		return domain.NotFound(msgUserNotFound)
	}
	return domain.Internal(err)
}

// now is the storage clock. Both drivers keep millisecond precision.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
