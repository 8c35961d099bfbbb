package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/aussiebroadwan/billybingo/internal/bingo/domain"
	"github.com/aussiebroadwan/billybingo/internal/bingo/service"
	"github.com/aussiebroadwan/billybingo/internal/bingo/store"
	"github.com/stretchr/testify/require"
)

// cardInput builds a card with the first filled squares named.
func cardInput(name string, filled int) service.CardInput {
	sq := make([]string, domain.SquareCount)
	for i := range filled {
		sq[i] = fmt.Sprintf("Song %d", i+1)
	}
	return service.CardInput{Name: name, Squares: sq}
}

func newCardFixture(t *testing.T) (*service.CardService, string, string) {
	t.Helper()
	st := newStore(t)
	users := newUserService(t, st)
	a := register(t, users, "billy", "billy@example.com").User
	b := register(t, users, "molly", "molly@example.com").User
	return &service.CardService{Store: st}, a.ID, b.ID
}

func TestCreateCard(t *testing.T) {
	ctx := context.Background()
	cards, owner, _ := newCardFixture(t)

	venue := "  Red Rocks "
	in := cardInput("  Night One ", 5)
	in.Venue = &venue
	c, err := cards.Create(ctx, owner, in)
	require.NoError(t, err)
	require.Equal(t, "Night One", c.Name)
	require.Equal(t, "Red Rocks", c.Venue)
	require.Equal(t, owner, c.UserID)
	require.Len(t, c.Squares, domain.SquareCount)
	require.Equal(t, 5, c.Summary().FilledSquares)

	got, err := cards.Get(ctx, owner, c.ID)
	require.NoError(t, err)
	require.Equal(t, c.Squares, got.Squares)
}

func TestCreateCardValidation(t *testing.T) {
	ctx := context.Background()
	cards, owner, _ := newCardFixture(t)
	const squaresMsg = "Bingo card must have exactly 25 squares, each being a string with maximum 200 characters"

	short := cardInput("short", 0)
	short.Squares = short.Squares[:24]
	_, err := cards.Create(ctx, owner, short)
	requireKind(t, err, domain.KindValidation, squaresMsg)

	long := cardInput("long", 0)
	long.Squares[3] = strings.Repeat("x", 201)
	_, err = cards.Create(ctx, owner, long)
	requireKind(t, err, domain.KindValidation, squaresMsg)

	_, err = cards.Create(ctx, owner, service.CardInput{})
	requireKind(t, err, domain.KindValidation, "Card name is required, Bingo squares are required")

	named := cardInput(strings.Repeat("n", 101), 0)
	_, err = cards.Create(ctx, owner, named)
	requireKind(t, err, domain.KindValidation, "Card name must be between 1 and 100 characters")

	date := strings.Repeat("d", 51)
	dated := cardInput("dated", 0)
	dated.Date = &date
	_, err = cards.Create(ctx, owner, dated)
	requireKind(t, err, domain.KindValidation, "Date must be a string with maximum 50 characters")
}

func TestCardOwnership(t *testing.T) {
	ctx := context.Background()
	cards, owner, stranger := newCardFixture(t)

	c, err := cards.Create(ctx, owner, cardInput("mine", 1))
	require.NoError(t, err)

	_, err = cards.Get(ctx, stranger, c.ID)
	requireKind(t, err, domain.KindNotFound, "Bingo card not found")

	name := "stolen"
	_, err = cards.Update(ctx, stranger, c.ID, service.CardPatch{Name: &name})
	requireKind(t, err, domain.KindNotFound, "Bingo card not found")

	requireKind(t, cards.Delete(ctx, stranger, c.ID), domain.KindNotFound, "Bingo card not found")

	_, err = cards.Get(ctx, owner, c.ID)
	require.NoError(t, err)

	_, err = cards.Get(ctx, owner, "not-an-id")
	requireKind(t, err, domain.KindValidation, "Invalid card ID format")
}

func TestUpdateCard(t *testing.T) {
	ctx := context.Background()
	cards, owner, _ := newCardFixture(t)

	c, err := cards.Create(ctx, owner, cardInput("before", 2))
	require.NoError(t, err)

	sq := cardInput("", domain.SquareCount).Squares
	name := "after"
	updated, err := cards.Update(ctx, owner, c.ID, service.CardPatch{Name: &name, Squares: &sq})
	require.NoError(t, err)
	require.Equal(t, "after", updated.Name)
	require.True(t, updated.Summary().IsComplete)
	require.True(t, c.CreatedAt.Equal(updated.CreatedAt))

	bad := sq[:24]
	_, err = cards.Update(ctx, owner, c.ID, service.CardPatch{Squares: &bad})
	requireKind(t, err, domain.KindValidation, "Bingo card must have exactly 25 squares, each being a string with maximum 200 characters")

	got, err := cards.Get(ctx, owner, c.ID)
	require.NoError(t, err)
	require.Equal(t, "after", got.Name)

	require.NoError(t, cards.Delete(ctx, owner, c.ID))
	_, err = cards.Get(ctx, owner, c.ID)
	requireKind(t, err, domain.KindNotFound, "Bingo card not found")
}

func TestListCards(t *testing.T) {
	ctx := context.Background()
	cards, owner, stranger := newCardFixture(t)

	for i := range 3 {
		_, err := cards.Create(ctx, owner, cardInput(fmt.Sprintf("card %d", i), i))
		require.NoError(t, err)
	}
	_, err := cards.Create(ctx, stranger, cardInput("other", 0))
	require.NoError(t, err)

	all, err := cards.List(ctx, owner, service.ListQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	page, err := cards.List(ctx, owner, service.ListQuery{Limit: 1, Skip: 1, Sort: store.SortName})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "card 1", page[0].Name)

	_, err = cards.List(ctx, owner, service.ListQuery{Sort: "squares; DROP TABLE users"})
	requireKind(t, err, domain.KindValidation, "")

	_, err = cards.List(ctx, owner, service.ListQuery{Skip: -1})
	requireKind(t, err, domain.KindValidation, "Skip must be 0 or greater")
}

func TestCardStats(t *testing.T) {
	ctx := context.Background()
	cards, owner, _ := newCardFixture(t)

	empty, err := cards.Stats(ctx, owner)
	require.NoError(t, err)
	require.Zero(t, empty.TotalCards)
	require.NotNil(t, empty.RecentCards)
	require.Empty(t, empty.RecentCards)

	for _, filled := range []int{25, 10, 0} {
		_, err := cards.Create(ctx, owner, cardInput(fmt.Sprintf("f%d", filled), filled))
		require.NoError(t, err)
	}

	stats, err := cards.Stats(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, 3, stats.TotalCards)
	require.Equal(t, 1, stats.CompletedCards)
	require.Equal(t, 12, stats.AverageProgress)
	require.Len(t, stats.RecentCards, 3)
}
