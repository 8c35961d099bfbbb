package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	SquareCount     = 25
	CardNameMaxLen  = 100
	CardDateMaxLen  = 50
	CardVenueMaxLen = 200
	SquareMaxLen    = 200

	// RecentCardCount is how many cards Stats returns as recent.
	RecentCardCount = 5
)

type BingoCard struct {
	ID        string
	UserID    string
	Name      string
	Date      string
	Venue     string
	Squares   []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary is derived progress information. It is never stored.
type Summary struct {
	FilledSquares int
	TotalSquares  int
	Progress      string
	IsComplete    bool
}

// Normalize trims the free text fields.
func (c *BingoCard) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Date = strings.TrimSpace(c.Date)
	c.Venue = strings.TrimSpace(c.Venue)
}

// Validate enforces the stored shape of a card, including the 25 square
// invariant. It runs immediately before every write.
func (c BingoCard) Validate() error {
	switch {
	case c.UserID == "":
		return Validation("User ID is required")
	case c.Name == "":
		return Validation("Card name is required")
	case utf8.RuneCountInString(c.Name) > CardNameMaxLen:
		return Validation("Card name cannot exceed 100 characters")
	case utf8.RuneCountInString(c.Date) > CardDateMaxLen:
		return Validation("Date cannot exceed 50 characters")
	case utf8.RuneCountInString(c.Venue) > CardVenueMaxLen:
		return Validation("Venue cannot exceed 200 characters")
	case len(c.Squares) != SquareCount:
		return Validation("Bingo card must have exactly 25 squares")
	}
	for _, sq := range c.Squares {
		if utf8.RuneCountInString(sq) > SquareMaxLen {
			return Validation("Square content cannot exceed 200 characters")
		}
	}
	return nil
}

// Summary counts squares whose trimmed text is non-empty.
func (c BingoCard) Summary() Summary {
	filled := 0
	for _, sq := range c.Squares {
		if strings.TrimSpace(sq) != "" {
			filled++
		}
	}
	return Summary{
		FilledSquares: filled,
		TotalSquares:  SquareCount,
		Progress:      fmt.Sprintf("%d/%d", filled, SquareCount),
		IsComplete:    filled == SquareCount,
	}
}

// CardStats aggregates a user's collection.
type CardStats struct {
	TotalCards      int
	CompletedCards  int
	AverageProgress int
	RecentCards     []BingoCard
}

// ComputeStats expects cards newest first. AverageProgress is the mean
// number of filled squares, rounded half away from zero.
func ComputeStats(cards []BingoCard) CardStats {
	stats := CardStats{TotalCards: len(cards), RecentCards: []BingoCard{}}
	if len(cards) == 0 {
		return stats
	}

	filled := 0
	for _, c := range cards {
		s := c.Summary()
		filled += s.FilledSquares
		if s.IsComplete {
			stats.CompletedCards++
		}
	}
	stats.AverageProgress = int(math.Round(float64(filled) / float64(len(cards))))
	stats.RecentCards = cards[:min(RecentCardCount, len(cards))]
	return stats
}
