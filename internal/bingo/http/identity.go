package http

import (
	"context"

	"github.com/aussiebroadwan/billybingo/internal/bingo/domain"
	"github.com/aussiebroadwan/billybingo/internal/bingo/service"
	"github.com/aussiebroadwan/billybingo/pkg/httpx"
)

// userResolver loads the token subject as an Identity for AuthnMiddleware.
func userResolver(users *service.UserService) httpx.IdentityResolver {
	return func(ctx context.Context, subject string) (httpx.Identity, error) {
		u, err := users.Get(ctx, subject)
		switch {
		case domain.KindOf(err) == domain.KindNotFound:
			return httpx.Identity{}, httpx.ErrUnknownIdentity
		case err != nil:
			return httpx.Identity{}, err
		}
		return httpx.Identity{ID: u.ID, Name: u.Name, Email: u.Email}, nil
	}
}
