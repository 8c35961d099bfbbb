package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	bingohttp "github.com/aussiebroadwan/billybingo/internal/bingo/http"
	"github.com/aussiebroadwan/billybingo/internal/bingo/service"
	"github.com/aussiebroadwan/billybingo/internal/bingo/store/drivers/sqlite"
	"github.com/aussiebroadwan/billybingo/pkg/cryptox"
	"github.com/aussiebroadwan/billybingo/pkg/jwtx"
	"github.com/aussiebroadwan/billybingo/pkg/setlistfm"
	"github.com/aussiebroadwan/billybingo/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type harness struct {
	t      *testing.T
	router *bingohttp.Router
}

// newHarness wires a router over a temp SQLite store. upstream stands in
// for setlist.fm; nil answers every call with 503.
func newHarness(t *testing.T, upstream http.HandlerFunc) *harness {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "bingo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations(context.Background()))

	if upstream == nil {
		upstream = func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}
	fm := httptest.NewServer(upstream)
	t.Cleanup(fm.Close)

	signer, err := jwtx.NewSignerHS256([]byte(testSecret))
	require.NoError(t, err)
	verifier := jwtx.NewVerifierHS256([]byte(testSecret), 0)

	r := bingohttp.NewRouter("/api", "test", verifier, st, slogx.Discard())
	r.UserService = &service.UserService{
		Store:  st,
		Hasher: cryptox.Hasher{},
		Tokens: &service.TokenService{Signer: signer},
	}
	r.CardService = &service.CardService{Store: st}
	r.SetlistService = &service.SetlistService{
		Client:    setlistfm.NewClient(fm.URL, "test-key"),
		PageDelay: -1,
	}
	r.AdminRoutes = true
	r.ApplyRoutes()

	return &harness{t: t, router: r}
}

func (h *harness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode(t, rec)
	e, ok := body["error"].(map[string]any)
	require.True(t, ok, rec.Body.String())
	require.EqualValues(t, rec.Code, e["statusCode"])
	return e["message"].(string)
}

// register creates an account and returns its bearer token.
func (h *harness) register(name string) string {
	h.t.Helper()
	rec := h.do("POST", "/api/users/register", "", map[string]string{
		"name": name, "email": name + "@example.com", "password": "hunter22x",
	})
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())
	data := decode(h.t, rec)["data"].(map[string]any)
	return data["token"].(string)
}

func squares(filled int) []string {
	sq := make([]string, 25)
	for i := range filled {
		sq[i] = fmt.Sprintf("Song %d", i)
	}
	return sq
}

func TestRootAndProbes(t *testing.T) {
	h := newHarness(t, nil)

	rec := h.do("GET", "/api/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Billy Bingo API is running!", decode(t, rec)["message"])

	rec = h.do("GET", "/livez", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decode(t, rec)["status"])

	rec = h.do("GET", "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do("GET", "/api/nope", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Route GET /api/nope not found", errorMessage(t, rec))

	rec = h.do("GET", "/api/", "", nil)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRegisterAndLogin(t *testing.T) {
	h := newHarness(t, nil)

	rec := h.do("POST", "/api/users/register", "", map[string]string{
		"name": "billy", "email": "Billy@Example.com", "password": "hunter22x",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	require.Equal(t, true, body["success"])
	require.Equal(t, "User registered successfully", body["message"])
	data := body["data"].(map[string]any)
	user := data["user"].(map[string]any)
	require.Equal(t, "billy@example.com", user["email"])
	require.NotContains(t, rec.Body.String(), "argon2id")
	require.NotContains(t, user, "password")
	require.NotContains(t, user, "passwordHash")

	rec = h.do("POST", "/api/users/register", "", map[string]string{
		"name": "billy2", "email": "billy@example.com", "password": "hunter22x",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "Email already exists", errorMessage(t, rec))

	rec = h.do("POST", "/api/users/login", "", map[string]string{"email": "billy@example.com", "password": "hunter22x"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode(t, rec)["data"].(map[string]any)["token"].(string)

	rec = h.do("GET", "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "billy", decode(t, rec)["data"].(map[string]any)["name"])

	rec = h.do("POST", "/api/users/login", "", map[string]string{"email": "billy@example.com", "password": "nope12345"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid email or password", errorMessage(t, rec))

	rec = h.do("POST", "/api/users/login", "", `{"email":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid JSON body", errorMessage(t, rec))
}

func TestAuthGate(t *testing.T) {
	h := newHarness(t, nil)

	rec := h.do("GET", "/api/bingo-cards", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Access denied. No token provided.", errorMessage(t, rec))

	rec = h.do("GET", "/api/bingo-cards", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Access denied. Invalid token.", errorMessage(t, rec))

	// A valid token for a user that has since been deleted.
	token := h.register("ghost")
	rec = h.do("GET", "/api/users/me", token, nil)
	id := decode(t, rec)["data"].(map[string]any)["id"].(string)
	require.Equal(t, http.StatusOK, h.do("DELETE", "/api/users/"+id, "", nil).Code)

	rec = h.do("GET", "/api/users/me", token, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Access denied. User not found.", errorMessage(t, rec))
}

func TestUpdateMe(t *testing.T) {
	h := newHarness(t, nil)
	token := h.register("billy")
	h.register("molly")

	rec := h.do("PUT", "/api/users/me", token, map[string]string{"name": "strings"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "strings", decode(t, rec)["data"].(map[string]any)["name"])

	rec = h.do("PUT", "/api/users/me", token, map[string]string{"name": "molly"})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "Username already exists", errorMessage(t, rec))
}

func TestCardLifecycle(t *testing.T) {
	h := newHarness(t, nil)
	token := h.register("billy")
	other := h.register("molly")

	rec := h.do("POST", "/api/bingo-cards", token, map[string]any{
		"name": "Red Rocks N1", "venue": "Red Rocks", "squares": squares(25),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	card := decode(t, rec)["data"].(map[string]any)
	id := card["id"].(string)
	summary := card["summary"].(map[string]any)
	require.Equal(t, "25/25", summary["progress"])
	require.Equal(t, true, summary["isComplete"])

	rec = h.do("GET", "/api/bingo-cards/"+id, other, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Bingo card not found", errorMessage(t, rec))

	rec = h.do("PUT", "/api/bingo-cards/"+id, token, map[string]any{"squares": squares(3)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode(t, rec)["data"].(map[string]any)
	require.Equal(t, "Red Rocks N1", updated["name"])
	require.Equal(t, "3/25", updated["summary"].(map[string]any)["progress"])

	rec = h.do("GET", "/api/bingo-cards", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 1, decode(t, rec)["count"])

	rec = h.do("GET", "/api/bingo-cards/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode(t, rec)["data"].(map[string]any)
	require.EqualValues(t, 1, stats["totalCards"])
	require.EqualValues(t, 0, stats["completedCards"])
	require.EqualValues(t, 3, stats["averageProgress"])

	rec = h.do("DELETE", "/api/bingo-cards/"+id, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Bingo card deleted successfully", decode(t, rec)["message"])

	rec = h.do("GET", "/api/bingo-cards/"+id, token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCardValidation(t *testing.T) {
	h := newHarness(t, nil)
	token := h.register("billy")

	rec := h.do("POST", "/api/bingo-cards", token, map[string]any{"name": "short", "squares": squares(25)[:24]})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Bingo card must have exactly 25 squares, each being a string with maximum 200 characters", errorMessage(t, rec))

	rec = h.do("POST", "/api/bingo-cards", token, map[string]any{"name": "full", "squares": squares(25)})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode(t, rec)["data"].(map[string]any)["id"].(string)

	rec = h.do("PUT", "/api/bingo-cards/"+id, token, map[string]any{"squares": squares(25)[:24]})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Bingo card must have exactly 25 squares, each being a string with maximum 200 characters", errorMessage(t, rec))

	rec = h.do("GET", "/api/bingo-cards/"+id, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode(t, rec)["data"].(map[string]any)["squares"], 25)

	rec = h.do("GET", "/api/bingo-cards/not-a-ulid", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid card ID format", errorMessage(t, rec))

	rec = h.do("GET", "/api/bingo-cards?limit=500", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do("GET", "/api/bingo-cards?sort=squares", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// The stats route must not be captured by the {id} pattern.
	rec = h.do("GET", "/api/bingo-cards/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode(t, rec)["data"].(map[string]any)["recentCards"], 1)
}

func TestAdminUserRoutes(t *testing.T) {
	h := newHarness(t, nil)

	rec := h.do("GET", "/api/users", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Contains(t, body, "data")
	require.Equal(t, []any{}, body["data"])

	h.register("billy")

	rec = h.do("GET", "/api/users", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decode(t, rec)["data"].([]any)
	require.Len(t, users, 1)

	rec = h.do("POST", "/api/users", "", map[string]string{"name": "molly", "email": "molly@example.com", "password": "tuttle123"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode(t, rec)["data"].(map[string]any)["id"].(string)

	rec = h.do("PUT", "/api/users/"+id, "", map[string]string{"email": "molly@tuttle.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "molly@tuttle.com", decode(t, rec)["data"].(map[string]any)["email"])

	rec = h.do("GET", "/api/users/missing", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "User not found", errorMessage(t, rec))
}

func TestAdminRoutesDisabled(t *testing.T) {
	r := bingohttp.NewRouter("/api", "test", nil, nil, slogx.Discard())
	r.ApplyRoutes()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/users", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

const upstreamPage = `{"type":"setlists","itemsPerPage":20,"page":%d,"total":40,"setlist":[
  {"id":"s%d","eventDate":"01-01-2024","sets":{"set":[{"song":[{"name":"Thunder"},{"name":" Song %d "}]}]}}]}`

func fakeSetlistFM(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/artist/"+service.BillyStringsMBID+"/setlists":
			p := r.URL.Query().Get("p")
			var n int
			_, _ = fmt.Sscanf(p, "%d", &n)
			_, _ = fmt.Fprintf(w, upstreamPage, n, n, n)
		case r.URL.Path == "/artist/"+service.BillyStringsMBID:
			_, _ = w.Write([]byte(`{"mbid":"` + service.BillyStringsMBID + `","name":"Billy Strings"}`))
		case r.URL.Path == "/search/setlists":
			require.Equal(t, "Billy Strings", r.URL.Query().Get("artistName"))
			_, _ = w.Write([]byte(`{"type":"setlists","page":2,"total":0,"setlist":[]}`))
		case strings.HasPrefix(r.URL.Path, "/setlist/"):
			if strings.HasSuffix(r.URL.Path, "missing") {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte(`{"id":"abc","eventDate":"01-01-2024","sets":{"set":[]}}`))
		default:
			t.Errorf("unexpected upstream call %s", r.URL)
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
}

func TestSetlistRoutes(t *testing.T) {
	h := newHarness(t, fakeSetlistFM(t))

	rec := h.do("GET", "/api/setlists/billy-strings?page=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	pagination := decode(t, rec)["pagination"].(map[string]any)
	require.EqualValues(t, 2, pagination["page"])
	require.EqualValues(t, 40, pagination["total"])

	rec = h.do("GET", "/api/setlists/billy-strings?page=-1", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Page number must be greater than 0", errorMessage(t, rec))

	rec = h.do("GET", "/api/setlists/billy-strings/songs", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	require.Nil(t, body["error"])
	data := body["data"].(map[string]any)
	require.Equal(t, []any{"Song 1", "Song 2", "Thunder"}, data["songs"])
	meta := data["metadata"].(map[string]any)
	require.EqualValues(t, 2, meta["pagesFetched"])
	require.EqualValues(t, 2, meta["totalPagesAvailable"])

	rec = h.do("GET", "/api/setlists/billy-strings/songs?maxPages=21", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "maxPages must be between 1 and 20", errorMessage(t, rec))

	rec = h.do("GET", "/api/setlists/billy-strings/artist-info", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Billy Strings", decode(t, rec)["data"].(map[string]any)["name"])

	rec = h.do("GET", "/api/setlists/search?artistName=Billy%20Strings&p=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	params := decode(t, rec)["searchParams"].(map[string]any)
	require.Equal(t, "Billy Strings", params["artistName"])
	require.EqualValues(t, 2, params["p"])

	rec = h.do("GET", "/api/setlists/search", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "At least one search parameter is required", errorMessage(t, rec))

	rec = h.do("GET", "/api/setlists/abc", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do("GET", "/api/setlists/missing", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	body = decode(t, rec)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Setlist not found", body["message"])

	rec = h.do("GET", "/api/setlists/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "connected", decode(t, rec)["apiStatus"])
}

func TestSetlistFallback(t *testing.T) {
	h := newHarness(t, nil)

	rec := h.do("GET", "/api/setlists/billy-strings/songs?maxPages=3", "", nil)
	require.Equal(t, http.StatusPartialContent, rec.Code)
	body := decode(t, rec)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Using fallback songs due to API error", body["message"])
	require.NotEmpty(t, body["error"])
	meta := body["data"].(map[string]any)["metadata"].(map[string]any)
	require.Equal(t, true, meta["fallback"])
	require.EqualValues(t, 43, meta["totalSongs"])

	rec = h.do("GET", "/api/setlists/billy-strings", "", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Failed to fetch setlists", decode(t, rec)["message"])

	rec = h.do("GET", "/api/setlists/fallback-songs", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode(t, rec)["data"].(map[string]any)["songs"], 43)

	rec = h.do("GET", "/api/setlists/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "fallback", decode(t, rec)["apiStatus"])
}
