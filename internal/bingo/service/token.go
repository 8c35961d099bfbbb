package service

import (
	"time"

	"github.com/aussiebroadwan/billybingo/pkg/jwtx"
)

type TokenService struct {
	Signer jwtx.Signer
	TTL    time.Duration
}

// Issue returns a signed bearer token whose subject is userID.
func (s *TokenService) Issue(userID string) (string, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultTokenTTL
	}
	return s.Signer.Sign(jwtx.NewClaims(userID, ttl, time.Now().UTC()))
}
