package http

//go:generate swag init --dir ../../.. --generalInfo internal/bingo/http/router.go --output ../../../api/bingo --outputTypes go --parseInternal

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/aussiebroadwan/billybingo/internal/bingo/service"
	"github.com/aussiebroadwan/billybingo/internal/bingo/store"
	"github.com/aussiebroadwan/billybingo/pkg/httpx"
	"github.com/aussiebroadwan/billybingo/pkg/slogx"

	_ "github.com/aussiebroadwan/billybingo/api/bingo" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	basePath     string
	verifier     httpx.TokenVerifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	UserService    *service.UserService
	CardService    *service.CardService
	SetlistService *service.SetlistService

	// AdminRoutes exposes unauthenticated user CRUD under /users.
	AdminRoutes bool

	routes []string
}

func NewRouter(
	basePath, buildVersion string,
	verifier httpx.TokenVerifier,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		basePath:     strings.TrimSuffix(basePath, "/"),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

// Use appends middleware to the global chain. The first registered runs
// outermost.
func (r *Router) Use(mws ...httpx.Middleware) {
	r.middlewares = append(r.middlewares, mws...)
}

func (r *Router) ApplyRoutes() {
	r.registerUsers()
	r.registerCards()
	r.registerSetlists()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
	r.Mux.Handle("/", NotFoundHandler())

	r.logger.Debug("routes applied", slog.Int("count", len(r.routes)))
}

// Routes lists the "METHOD /path" patterns registered under the base path,
// with the base path stripped.
func (r *Router) Routes() []string {
	return slices.Clone(r.routes)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title						Billy Bingo API
//	@version					1.0.0
//	@description				Accounts, bingo cards and setlist.fm lookups for Billy Strings show bingo.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/billybingo
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:3001
//	@BasePath					/api
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT bearer token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// route registers h for "METHOD /path" under the base path.
func (r *Router) route(method, path string, h http.Handler) {
	r.Mux.Handle(method+" "+r.basePath+path, h)
	r.routes = append(r.routes, method+" "+path)
}

func (r *Router) authn() httpx.Middleware {
	return httpx.AuthnMiddleware(r.verifier, userResolver(r.UserService))
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	// Credential endpoints - strict rate limit by IP (brute force)
	r.route("POST", "/users/register", httpx.Chain(http.HandlerFunc(h.HandleRegister),
		httpx.RateLimitByIP(httpx.StrictLimit),
	))
	r.route("POST", "/users/login", httpx.Chain(http.HandlerFunc(h.HandleLogin),
		httpx.RateLimitByIP(httpx.StrictLimit),
	))

	r.route("GET", "/users/me", httpx.Chain(http.HandlerFunc(h.HandleMe),
		r.authn(),
		httpx.RateLimitByIdentity(httpx.LenientLimit),
	))
	r.route("PUT", "/users/me", httpx.Chain(http.HandlerFunc(h.HandleUpdateMe),
		r.authn(),
		httpx.RateLimitByIdentity(httpx.ModerateLimit),
	))

	if !r.AdminRoutes {
		return
	}
	r.logger.Warn("unauthenticated user admin routes are enabled", slog.String("path", r.basePath+"/users"))

	admin := httpx.RateLimitByIP(httpx.ModerateLimit)
	r.route("GET", "/users", httpx.Chain(http.HandlerFunc(h.HandleList), admin))
	r.route("POST", "/users", httpx.Chain(http.HandlerFunc(h.HandleCreate), admin))
	r.route("GET", "/users/{id}", httpx.Chain(http.HandlerFunc(h.HandleGet), admin))
	r.route("PUT", "/users/{id}", httpx.Chain(http.HandlerFunc(h.HandleUpdate), admin))
	r.route("DELETE", "/users/{id}", httpx.Chain(http.HandlerFunc(h.HandleDelete), admin))
}

func (r *Router) registerCards() {
	h := &CardsHandler{CardService: r.CardService}

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			r.authn(),
			httpx.RateLimitByIdentity(httpx.LenientLimit),
		)
	}

	r.route("POST", "/bingo-cards", secured(h.HandleCreate))
	r.route("GET", "/bingo-cards", secured(h.HandleList))
	r.route("GET", "/bingo-cards/stats", secured(h.HandleStats))
	r.route("GET", "/bingo-cards/{id}", secured(h.HandleGet))
	r.route("PUT", "/bingo-cards/{id}", secured(h.HandleUpdate))
	r.route("DELETE", "/bingo-cards/{id}", secured(h.HandleDelete))
}

func (r *Router) registerSetlists() {
	h := &SetlistsHandler{SetlistService: r.SetlistService}

	// Every call spends the shared setlist.fm key - moderate limit by IP
	public := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn, httpx.RateLimitByIP(httpx.ModerateLimit))
	}

	r.route("GET", "/setlists/billy-strings", public(h.HandleArtistSetlists))
	r.route("GET", "/setlists/billy-strings/songs", public(h.HandleSongs))
	r.route("GET", "/setlists/billy-strings/artist-info", public(h.HandleArtistInfo))
	r.route("GET", "/setlists/search", public(h.HandleSearch))
	r.route("GET", "/setlists/health", public(h.HandleHealth))
	r.route("GET", "/setlists/{setlistId}", public(h.HandleSetlist))
	r.route("GET", "/setlists/fallback-songs", httpx.Chain(http.HandlerFunc(h.HandleFallbackSongs),
		httpx.RateLimitByIP(httpx.LenientLimit),
	))
}

func (r *Router) registerSystem() {
	r.route("GET", "/{$}", RootHandler())
	if r.basePath != "" {
		r.route("GET", "", RootHandler())
	}

	// Probes - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
