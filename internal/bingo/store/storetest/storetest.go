// Package storetest is a behavioural suite every store driver must pass.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aussiebroadwan/billybingo/internal/bingo/domain"
	"github.com/aussiebroadwan/billybingo/internal/bingo/store"
	"github.com/aussiebroadwan/billybingo/pkg/idx"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, migrated, empty store.
type Factory func(t *testing.T) store.Store

// Run executes the suite. Each subtest gets its own store.
func Run(t *testing.T, newStore Factory) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("user conflicts", func(t *testing.T) { testUserConflicts(t, newStore(t)) })
	t.Run("cards", func(t *testing.T) { testCards(t, newStore(t)) })
	t.Run("card ownership", func(t *testing.T) { testCardOwnership(t, newStore(t)) })
	t.Run("card listing", func(t *testing.T) { testCardListing(t, newStore(t)) })
	t.Run("delete user cascades", func(t *testing.T) { testDeleteCascade(t, newStore(t)) })
}

var base = time.Date(2025, 3, 14, 20, 0, 0, 0, time.UTC)

// NewUser builds a valid user created at base+offset.
func NewUser(name string, offset time.Duration) domain.User {
	at := base.Add(offset)
	return domain.User{
		ID:           idx.NewAt(at).String(),
		Name:         name,
		Email:        fmt.Sprintf("%s@example.com", name),
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		CreatedAt:    at,
		UpdatedAt:    at,
	}
}

// NewCard builds a valid card owned by userID created at base+offset.
func NewCard(userID, name string, offset time.Duration) domain.BingoCard {
	at := base.Add(offset)
	sq := make([]string, domain.SquareCount)
	sq[0] = "Dust in a Baggie"
	return domain.BingoCard{
		ID:        idx.NewAt(at).String(),
		UserID:    userID,
		Name:      name,
		Date:      "14-03-2025",
		Venue:     "Red Rocks",
		Squares:   sq,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()
	users := s.Users()

	u := NewUser("billy", 0)
	require.NoError(t, users.CreateUser(ctx, u))

	got, err := users.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u, got)

	got, err = users.GetUserByEmail(ctx, u.Email)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	got, err = users.GetUserByName(ctx, u.Name)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = users.GetUserByID(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = users.GetUserByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	second := NewUser("strings", time.Minute)
	require.NoError(t, users.CreateUser(ctx, second))

	list, err := users.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID)

	u.Name = "billy2"
	u.Email = "billy2@example.com"
	u.UpdatedAt = base.Add(time.Hour)
	require.NoError(t, users.ReplaceUser(ctx, u))
	got, err = users.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "billy2", got.Name)
	require.Equal(t, base.Add(time.Hour), got.UpdatedAt)
	require.Equal(t, u.PasswordHash, got.PasswordHash)

	missing := NewUser("ghost", 0)
	require.ErrorIs(t, users.ReplaceUser(ctx, missing), store.ErrNotFound)
	require.ErrorIs(t, users.DeleteUser(ctx, missing.ID), store.ErrNotFound)

	require.NoError(t, users.DeleteUser(ctx, u.ID))
	_, err = users.GetUserByID(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func conflictField(t *testing.T, err error) string {
	t.Helper()
	require.ErrorIs(t, err, store.ErrAlreadyExists)
	var ce *store.ConflictError
	require.True(t, errors.As(err, &ce), "expected *store.ConflictError, got %T: %v", err, err)
	return ce.Field
}

func testUserConflicts(t *testing.T, s store.Store) {
	ctx := context.Background()
	users := s.Users()

	u := NewUser("billy", 0)
	require.NoError(t, users.CreateUser(ctx, u))

	dupEmail := NewUser("other", time.Second)
	dupEmail.Email = u.Email
	require.Equal(t, store.FieldEmail, conflictField(t, users.CreateUser(ctx, dupEmail)))

	dupName := NewUser("billy", 2*time.Second)
	dupName.Email = "fresh@example.com"
	require.Equal(t, store.FieldName, conflictField(t, users.CreateUser(ctx, dupName)))

	other := NewUser("other", 3*time.Second)
	require.NoError(t, users.CreateUser(ctx, other))
	other.Email = u.Email
	require.Equal(t, store.FieldEmail, conflictField(t, users.ReplaceUser(ctx, other)))
}

func testCards(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := NewUser("billy", 0)
	require.NoError(t, s.Users().CreateUser(ctx, owner))
	cards := s.Cards()

	c := NewCard(owner.ID, "Night One", 0)
	require.NoError(t, cards.CreateCard(ctx, c))

	got, err := cards.GetCard(ctx, c.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, c, got)

	c.Name = "Night One (encore)"
	c.Squares[24] = "Meet Me at the Creek"
	c.UpdatedAt = base.Add(time.Hour)
	require.NoError(t, cards.ReplaceCard(ctx, c))

	got, err = cards.GetCard(ctx, c.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, "Night One (encore)", got.Name)
	require.Equal(t, "Meet Me at the Creek", got.Squares[24])
	require.Equal(t, c.CreatedAt, got.CreatedAt)
	require.Equal(t, c.UpdatedAt, got.UpdatedAt)

	require.NoError(t, cards.DeleteCard(ctx, c.ID, owner.ID))
	_, err = cards.GetCard(ctx, c.ID, owner.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.ErrorIs(t, cards.DeleteCard(ctx, c.ID, owner.ID), store.ErrNotFound)
}

func testCardOwnership(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := NewUser("alice", 0)
	bob := NewUser("bob", time.Second)
	require.NoError(t, s.Users().CreateUser(ctx, alice))
	require.NoError(t, s.Users().CreateUser(ctx, bob))
	cards := s.Cards()

	c := NewCard(alice.ID, "Alice's card", 0)
	require.NoError(t, cards.CreateCard(ctx, c))

	_, err := cards.GetCard(ctx, c.ID, bob.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	stolen := c
	stolen.UserID = bob.ID
	stolen.Name = "mine now"
	require.ErrorIs(t, cards.ReplaceCard(ctx, stolen), store.ErrNotFound)
	require.ErrorIs(t, cards.DeleteCard(ctx, c.ID, bob.ID), store.ErrNotFound)

	list, err := cards.ListCards(ctx, bob.ID, store.ListOptions{})
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)

	got, err := cards.GetCard(ctx, c.ID, alice.ID)
	require.NoError(t, err)
	require.Equal(t, "Alice's card", got.Name)
}

func testCardListing(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := NewUser("billy", 0)
	require.NoError(t, s.Users().CreateUser(ctx, owner))
	cards := s.Cards()

	names := []string{"charlie", "alpha", "echo", "bravo", "delta"}
	ids := make([]string, len(names))
	for i, n := range names {
		c := NewCard(owner.ID, n, time.Duration(i)*time.Minute)
		ids[i] = c.ID
		require.NoError(t, cards.CreateCard(ctx, c))
	}

	all, err := cards.ListCards(ctx, owner.ID, store.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	require.Equal(t, ids[4], all[0].ID, "newest first")
	require.Equal(t, ids[0], all[4].ID)

	page, err := cards.ListCards(ctx, owner.ID, store.ListOptions{Limit: 2, Skip: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, ids[3], page[0].ID)
	require.Equal(t, ids[2], page[1].ID)

	byName, err := cards.ListCards(ctx, owner.ID, store.ListOptions{Sort: store.SortName})
	require.NoError(t, err)
	got := make([]string, len(byName))
	for i, c := range byName {
		got[i] = c.Name
	}
	require.Equal(t, []string{"echo", "delta", "charlie", "bravo", "alpha"}, got)
}

func testDeleteCascade(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := NewUser("billy", 0)
	require.NoError(t, s.Users().CreateUser(ctx, owner))

	c := NewCard(owner.ID, "orphan-to-be", 0)
	require.NoError(t, s.Cards().CreateCard(ctx, c))
	require.NoError(t, s.Users().DeleteUser(ctx, owner.ID))

	_, err := s.Cards().GetCard(ctx, c.ID, owner.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}
