package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/billybingo/internal/bingo/domain"
	"github.com/aussiebroadwan/billybingo/internal/bingo/service"
	"github.com/aussiebroadwan/billybingo/internal/bingo/store"
	"github.com/aussiebroadwan/billybingo/internal/bingo/store/drivers/sqlite"
	"github.com/aussiebroadwan/billybingo/pkg/cryptox"
	"github.com/aussiebroadwan/billybingo/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newStore(t *testing.T) store.Store {
	t.Helper()
	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "bingo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations(context.Background()))
	return s
}

func newUserService(t *testing.T, st store.Store) *service.UserService {
	t.Helper()
	signer, err := jwtx.NewSignerHS256([]byte(testSecret))
	require.NoError(t, err)
	return &service.UserService{
		Store:  st,
		Hasher: cryptox.Hasher{Pepper: "pepper"},
		Tokens: &service.TokenService{Signer: signer},
	}
}

func requireKind(t *testing.T, err error, kind domain.Kind, msg string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, domain.KindOf(err), err.Error())
	if msg != "" {
		var de *domain.Error
		require.ErrorAs(t, err, &de)
		require.Equal(t, msg, de.Message)
	}
}
