package domain_test

import (
	"strings"
	"testing"

	"github.com/aussiebroadwan/billybingo/internal/bingo/domain"
	"github.com/stretchr/testify/require"
)

func squares(filled int) []string {
	out := make([]string, domain.SquareCount)
	for i := range filled {
		out[i] = "Song"
	}
	return out
}

func TestSummary(t *testing.T) {
	card := domain.BingoCard{Squares: squares(3)}
	card.Squares[4] = "   "

	s := card.Summary()
	require.Equal(t, 3, s.FilledSquares)
	require.Equal(t, 25, s.TotalSquares)
	require.Equal(t, "3/25", s.Progress)
	require.False(t, s.IsComplete)

	full := domain.BingoCard{Squares: squares(25)}.Summary()
	require.True(t, full.IsComplete)
	require.Equal(t, "25/25", full.Progress)
}

func TestCardValidate(t *testing.T) {
	valid := domain.BingoCard{UserID: "u", Name: "Red Rocks N1", Squares: squares(0)}
	require.NoError(t, valid.Validate())

	cases := map[string]func(c *domain.BingoCard){
		"Card name is required":                       func(c *domain.BingoCard) { c.Name = "" },
		"Card name cannot exceed 100 characters":      func(c *domain.BingoCard) { c.Name = strings.Repeat("n", 101) },
		"Date cannot exceed 50 characters":            func(c *domain.BingoCard) { c.Date = strings.Repeat("d", 51) },
		"Venue cannot exceed 200 characters":          func(c *domain.BingoCard) { c.Venue = strings.Repeat("v", 201) },
		"Bingo card must have exactly 25 squares":     func(c *domain.BingoCard) { c.Squares = c.Squares[:24] },
		"Square content cannot exceed 200 characters": func(c *domain.BingoCard) { c.Squares[7] = strings.Repeat("s", 201) },
	}
	for msg, mutate := range cases {
		t.Run(msg, func(t *testing.T) {
			c := valid
			c.Squares = append([]string(nil), valid.Squares...)
			mutate(&c)

			err := c.Validate()
			require.Error(t, err)
			require.Equal(t, domain.KindValidation, domain.KindOf(err))
			require.Contains(t, err.Error(), msg)
		})
	}
}

func TestComputeStats(t *testing.T) {
	t.Run("empty collection", func(t *testing.T) {
		s := domain.ComputeStats(nil)
		require.Equal(t, 0, s.TotalCards)
		require.Equal(t, 0, s.CompletedCards)
		require.Equal(t, 0, s.AverageProgress)
		require.NotNil(t, s.RecentCards)
		require.Empty(t, s.RecentCards)
	})

	t.Run("mixed collection", func(t *testing.T) {
		cards := []domain.BingoCard{
			{ID: "1", Squares: squares(25)},
			{ID: "2", Squares: squares(10)},
			{ID: "3", Squares: squares(0)},
			{ID: "4", Squares: squares(6)},
			{ID: "5", Squares: squares(25)},
			{ID: "6", Squares: squares(1)},
		}
		s := domain.ComputeStats(cards)
		require.Equal(t, 6, s.TotalCards)
		require.Equal(t, 2, s.CompletedCards)
		require.Equal(t, 11, s.AverageProgress) // 67/6 = 11.17
		require.Len(t, s.RecentCards, 5)
		require.Equal(t, "1", s.RecentCards[0].ID)
	})
}
