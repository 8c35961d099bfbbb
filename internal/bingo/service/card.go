package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/aussiebroadwan/billybingo/internal/bingo/domain"
	"github.com/aussiebroadwan/billybingo/internal/bingo/store"
	"github.com/aussiebroadwan/billybingo/pkg/idx"
	"github.com/aussiebroadwan/billybingo/pkg/slogx"
)

const (
	DefaultCardLimit = 50
	MaxCardLimit     = 100

	msgCardNotFound  = "Bingo card not found"
	msgInvalidCardID = "Invalid card ID format"
)

// CardInput is the payload for creating a card.
type CardInput struct {
	Name    string   `json:"name" validate:"required,max=100"`
	Date    *string  `json:"date" validate:"omitnil,max=50"`
	Venue   *string  `json:"venue" validate:"omitnil,max=200"`
	Squares []string `json:"squares" validate:"required,len=25,dive,max=200"`
}

// CardPatch is a partial card update. Absent fields keep their value.
type CardPatch struct {
	Name    *string   `json:"name" validate:"omitnil,min=1,max=100"`
	Date    *string   `json:"date" validate:"omitnil,max=50"`
	Venue   *string   `json:"venue" validate:"omitnil,max=200"`
	Squares *[]string `json:"squares" validate:"omitnil,len=25,dive,max=200"`
}

var cardMessages = map[string]fieldMessages{
	"Name": {
		Required: "Card name is required",
		Invalid:  "Card name must be between 1 and 100 characters",
	},
	"Date":  {Invalid: "Date must be a string with maximum 50 characters"},
	"Venue": {Invalid: "Venue must be a string with maximum 200 characters"},
	"Squares": {
		Required: "Bingo squares are required",
		Invalid:  "Bingo card must have exactly 25 squares, each being a string with maximum 200 characters",
	},
}

// ListQuery controls card listing. Zero values select the defaults.
type ListQuery struct {
	Limit int
	Skip  int
	Sort  string
}

type CardService struct {
	Store store.Store
}

// Create stores a new card owned by ownerID.
func (s *CardService) Create(ctx context.Context, ownerID string, in CardInput) (domain.BingoCard, error) {
	in.Name = strings.TrimSpace(in.Name)
	trimPtr(in.Date)
	trimPtr(in.Venue)
	if err := check(in, cardMessages); err != nil {
		return domain.BingoCard{}, err
	}

	ts := now()
	c := domain.BingoCard{
		ID:        idx.New().String(),
		UserID:    ownerID,
		Name:      in.Name,
		Squares:   slices.Clone(in.Squares),
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if in.Date != nil {
		c.Date = *in.Date
	}
	if in.Venue != nil {
		c.Venue = *in.Venue
	}
	c.Normalize()
	if err := c.Validate(); err != nil {
		return domain.BingoCard{}, err
	}

	if err := s.Store.Cards().CreateCard(ctx, c); err != nil {
		return domain.BingoCard{}, domain.Internal(err)
	}
	slogx.FromContext(ctx).Info("bingo card created", slog.String("card_id", c.ID), slog.String("user_id", ownerID))
	return c, nil
}

// Get returns the card if it exists and belongs to ownerID.
func (s *CardService) Get(ctx context.Context, ownerID, id string) (domain.BingoCard, error) {
	if !idx.Valid(id) {
		return domain.BingoCard{}, domain.Validation(msgInvalidCardID)
	}
	c, err := s.Store.Cards().GetCard(ctx, id, ownerID)
	if err != nil {
		return domain.BingoCard{}, mapCardErr(err)
	}
	return c, nil
}

// List returns a page of the owner's cards, always in descending order.
func (s *CardService) List(ctx context.Context, ownerID string, q ListQuery) ([]domain.BingoCard, error) {
	opts, err := q.options()
	if err != nil {
		return nil, err
	}
	cards, err := s.Store.Cards().ListCards(ctx, ownerID, opts)
	if err != nil {
		return nil, domain.Internal(err)
	}
	return cards, nil
}

func (q ListQuery) options() (store.ListOptions, error) {
	opts := store.ListOptions{Limit: q.Limit, Skip: q.Skip, Sort: q.Sort}
	if opts.Limit <= 0 {
		opts.Limit = DefaultCardLimit
	}
	opts.Limit = min(opts.Limit, MaxCardLimit)
	if opts.Skip < 0 {
		return store.ListOptions{}, domain.Validation("Skip must be 0 or greater")
	}
	if opts.Sort == "" {
		opts.Sort = store.SortCreatedAt
	}
	if !slices.Contains(store.SortFields, opts.Sort) {
		return store.ListOptions{}, domain.Validation("Sort must be one of " + strings.Join(store.SortFields, ", "))
	}
	return opts, nil
}

// Update applies patch to a card the owner holds.
func (s *CardService) Update(ctx context.Context, ownerID, id string, patch CardPatch) (domain.BingoCard, error) {
	current, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return domain.BingoCard{}, err
	}

	trimPtr(patch.Name)
	trimPtr(patch.Date)
	trimPtr(patch.Venue)
	if err := check(patch, cardMessages); err != nil {
		return domain.BingoCard{}, err
	}

	next := current
	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.Date != nil {
		next.Date = *patch.Date
	}
	if patch.Venue != nil {
		next.Venue = *patch.Venue
	}
	if patch.Squares != nil {
		next.Squares = slices.Clone(*patch.Squares)
	}
	next.Normalize()
	next.UpdatedAt = now()
	if err := next.Validate(); err != nil {
		return domain.BingoCard{}, err
	}

	if err := s.Store.Cards().ReplaceCard(ctx, next); err != nil {
		return domain.BingoCard{}, mapCardErr(err)
	}
	return next, nil
}

// Delete removes a card the owner holds.
func (s *CardService) Delete(ctx context.Context, ownerID, id string) error {
	if !idx.Valid(id) {
		return domain.Validation(msgInvalidCardID)
	}
	if err := s.Store.Cards().DeleteCard(ctx, id, ownerID); err != nil {
		return mapCardErr(err)
	}
	slogx.FromContext(ctx).Info("bingo card deleted", slog.String("card_id", id), slog.String("user_id", ownerID))
	return nil
}

// Stats summarizes every card the owner holds.
func (s *CardService) Stats(ctx context.Context, ownerID string) (domain.CardStats, error) {
	cards, err := s.Store.Cards().ListCards(ctx, ownerID, store.ListOptions{Sort: store.SortCreatedAt})
	if err != nil {
		return domain.CardStats{}, domain.Internal(err)
	}
	return domain.ComputeStats(cards), nil
}

func mapCardErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return domain.NotFound(msgCardNotFound)
	}
	return domain.Internal(err)
}
