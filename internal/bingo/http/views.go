package http

import (
	"time"

	"github.com/aussiebroadwan/billybingo/internal/bingo/domain"
	"github.com/aussiebroadwan/billybingo/internal/bingo/service"
)

// UserView is the public representation of an account.
type UserView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newUserView(u domain.User) UserView {
	return UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func newUserViews(users []domain.User) []UserView {
	out := make([]UserView, len(users))
	for i, u := range users {
		out[i] = newUserView(u)
	}
	return out
}

type AuthView struct {
	User  UserView `json:"user"`
	Token string   `json:"token"`
}

func newAuthView(res service.AuthResult) AuthView {
	return AuthView{User: newUserView(res.User), Token: res.Token}
}

type SummaryView struct {
	FilledSquares int    `json:"filledSquares"`
	TotalSquares  int    `json:"totalSquares"`
	Progress      string `json:"progress"`
	IsComplete    bool   `json:"isComplete"`
}

// CardView is a stored card plus its derived summary.
type CardView struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	Name      string      `json:"name"`
	Date      string      `json:"date"`
	Venue     string      `json:"venue"`
	Squares   []string    `json:"squares"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	Summary   SummaryView `json:"summary"`
}

func newCardView(c domain.BingoCard) CardView {
	s := c.Summary()
	return CardView{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		Date:      c.Date,
		Venue:     c.Venue,
		Squares:   c.Squares,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Summary: SummaryView{
			FilledSquares: s.FilledSquares,
			TotalSquares:  s.TotalSquares,
			Progress:      s.Progress,
			IsComplete:    s.IsComplete,
		},
	}
}

func newCardViews(cards []domain.BingoCard) []CardView {
	out := make([]CardView, len(cards))
	for i, c := range cards {
		out[i] = newCardView(c)
	}
	return out
}

type StatsView struct {
	TotalCards      int        `json:"totalCards"`
	CompletedCards  int        `json:"completedCards"`
	AverageProgress int        `json:"averageProgress"`
	RecentCards     []CardView `json:"recentCards"`
}

func newStatsView(s domain.CardStats) StatsView {
	return StatsView{
		TotalCards:      s.TotalCards,
		CompletedCards:  s.CompletedCards,
		AverageProgress: s.AverageProgress,
		RecentCards:     newCardViews(s.RecentCards),
	}
}

// ListEnvelope is the success envelope for card listings.
type ListEnvelope struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Data    []CardView `json:"data"`
	Count   int        `json:"count"`
}

// UpstreamError is written when setlist.fm could not serve a request.
type UpstreamError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}
