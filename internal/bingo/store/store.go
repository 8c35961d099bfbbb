package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/billybingo/internal/bingo/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Unique fields reported by ConflictError.
const (
	FieldEmail = "email"
	FieldName  = "name"
)

// ConflictError reports which unique field a write collided on.
// errors.Is(err, ErrAlreadyExists) holds for it.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string { return "store: already exists: " + e.Field }

func (e *ConflictError) Is(target error) bool { return target == ErrAlreadyExists }

// Store is the root data access interface. Concrete drivers (sqlite, mongo)
// implement this and expose sub-repositories to keep concerns tidy.
type Store interface {
	Users() Users
	Cards() Cards

	// ApplyMigrations creates or upgrades the schema, indexes and
	// validators the driver relies on. It is safe to call repeatedly.
	ApplyMigrations(ctx context.Context) error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error

	Close() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail expects an already normalized email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	GetUserByName(ctx context.Context, name string) (domain.User, error)

	// ListUsers returns every user, newest first.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// CreateUser inserts u. A duplicate email or name yields *ConflictError.
	CreateUser(ctx context.Context, u domain.User) error

	// ReplaceUser overwrites name, email and updated_at of an existing user.
	ReplaceUser(ctx context.Context, u domain.User) error

	// DeleteUser removes the user and all of their cards.
	DeleteUser(ctx context.Context, id string) error
}

// Sort fields accepted by ListOptions. Ordering is always descending.
const (
	SortCreatedAt = "createdAt"
	SortUpdatedAt = "updatedAt"
	SortName      = "name"
	SortDate      = "date"
	SortVenue     = "venue"
)

// SortFields lists every accepted sort field.
var SortFields = []string{SortCreatedAt, SortUpdatedAt, SortName, SortDate, SortVenue}

type ListOptions struct {
	Limit int // 0 means no limit
	Skip  int
	Sort  string // one of SortFields, default SortCreatedAt
}

// Cards is always scoped by owner. A card that exists but belongs to
// someone else is reported as ErrNotFound.
type Cards interface {
	CreateCard(ctx context.Context, c domain.BingoCard) error
	GetCard(ctx context.Context, id, ownerID string) (domain.BingoCard, error)
	ListCards(ctx context.Context, ownerID string, opts ListOptions) ([]domain.BingoCard, error)

	// ReplaceCard overwrites the mutable fields of the card matching
	// (c.ID, c.UserID).
	ReplaceCard(ctx context.Context, c domain.BingoCard) error

	DeleteCard(ctx context.Context, id, ownerID string) error
}
