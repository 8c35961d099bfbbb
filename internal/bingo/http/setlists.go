package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/billybingo/internal/bingo/service"
	"github.com/aussiebroadwan/billybingo/pkg/httpx"
	"github.com/aussiebroadwan/billybingo/pkg/setlistfm"
)

const msgBadPage = "Page number must be greater than 0"

type SetlistsHandler struct {
	SetlistService *service.SetlistService
}

type SetlistsEnvelope struct {
	Success    bool                   `json:"success"`
	Message    string                 `json:"message"`
	Data       setlistfm.SetlistsPage `json:"data"`
	Pagination service.Pagination     `json:"pagination"`
}

type SongsEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    service.SongsData `json:"data"`
	Error   *string           `json:"error"`
}

type SearchEnvelope struct {
	Success      bool                   `json:"success"`
	Message      string                 `json:"message"`
	Data         setlistfm.SetlistsPage `json:"data"`
	SearchParams map[string]any         `json:"searchParams"`
}

type HealthEnvelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	APIStatus string `json:"apiStatus"`
	Timestamp string `json:"timestamp"`
}

// HandleArtistSetlists returns one page of the artist's setlists.
//
//	@Summary		Billy Strings setlists
//	@Tags			Setlists
//	@Produce		json
//	@Param			page	query		int	false	"Page number (default 1)"
//	@Success		200		{object}	SetlistsEnvelope
//	@Failure		400		{object}	httpx.ErrorBody
//	@Failure		500		{object}	UpstreamError
//	@Router			/setlists/billy-strings [get]
func (h *SetlistsHandler) HandleArtistSetlists(w http.ResponseWriter, r *http.Request) {
	page := intOrDefault(r.URL.Query().Get("page"), 1)
	if page < 1 {
		httpx.WriteError(w, http.StatusBadRequest, msgBadPage)
		return
	}

	res, err := h.SetlistService.Setlists(r.Context(), page)
	if err != nil {
		writeUpstreamError(w, http.StatusInternalServerError, "Failed to fetch setlists", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, SetlistsEnvelope{
		Success:    true,
		Message:    "Setlists retrieved successfully",
		Data:       res.Data,
		Pagination: res.Pagination,
	})
}

// HandleSongs aggregates the distinct songs across recent setlists. When
// setlist.fm is unreachable the built-in list is returned with 206.
//
//	@Summary		Billy Strings songs
//	@Tags			Setlists
//	@Produce		json
//	@Param			maxPages	query		int	false	"Pages to walk (1-20, default 5)"
//	@Success		200			{object}	SongsEnvelope
//	@Success		206			{object}	SongsEnvelope	"Fallback songs"
//	@Failure		400			{object}	httpx.ErrorBody
//	@Router			/setlists/billy-strings/songs [get]
func (h *SetlistsHandler) HandleSongs(w http.ResponseWriter, r *http.Request) {
	maxPages := intOrDefault(r.URL.Query().Get("maxPages"), service.DefaultMaxPages)
	if maxPages < 1 || maxPages > service.MaxSongPages {
		httpx.WriteError(w, http.StatusBadRequest, "maxPages must be between 1 and 20")
		return
	}

	res := h.SetlistService.Songs(r.Context(), maxPages)
	if !res.Success {
		httpx.WriteJSON(w, http.StatusPartialContent, SongsEnvelope{
			Message: "Using fallback songs due to API error",
			Data:    res.Data,
			Error:   &res.Error,
		})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, SongsEnvelope{
		Success: true,
		Message: "Songs retrieved successfully",
		Data:    res.Data,
	})
}

// HandleArtistInfo returns the tracked artist.
//
//	@Summary		Billy Strings artist information
//	@Tags			Setlists
//	@Produce		json
//	@Success		200	{object}	httpx.Envelope{data=setlistfm.Artist}
//	@Failure		500	{object}	UpstreamError
//	@Router			/setlists/billy-strings/artist-info [get]
func (h *SetlistsHandler) HandleArtistInfo(w http.ResponseWriter, r *http.Request) {
	a, err := h.SetlistService.ArtistInfo(r.Context())
	if err != nil {
		writeUpstreamError(w, http.StatusInternalServerError, "Failed to fetch artist information", err)
		return
	}
	writeOK(w, http.StatusOK, "Artist information retrieved successfully", a)
}

// searchFilters are the accepted search query parameters, in echo order.
var searchFilters = []string{"artistName", "venueName", "cityName", "countryCode", "date", "year", "p"}

// HandleSearch searches setlists. At least one filter is required.
//
//	@Summary		Search setlists
//	@Tags			Setlists
//	@Produce		json
//	@Param			artistName	query		string	false	"Artist name"
//	@Param			venueName	query		string	false	"Venue name"
//	@Param			cityName	query		string	false	"City name"
//	@Param			countryCode	query		string	false	"ISO country code"
//	@Param			date		query		string	false	"Event date (dd-MM-yyyy)"
//	@Param			year		query		string	false	"Event year"
//	@Param			p			query		int		false	"Page number"
//	@Success		200			{object}	SearchEnvelope
//	@Failure		400			{object}	httpx.ErrorBody
//	@Failure		500			{object}	UpstreamError
//	@Router			/setlists/search [get]
func (h *SetlistsHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := make(map[string]any)
	var q setlistfm.SetlistQuery
	for _, key := range searchFilters {
		v := strings.TrimSpace(query.Get(key))
		if v == "" {
			continue
		}
		params[key] = v
		switch key {
		case "artistName":
			q.ArtistName = v
		case "venueName":
			q.VenueName = v
		case "cityName":
			q.CityName = v
		case "countryCode":
			q.CountryCode = v
		case "date":
			q.Date = v
		case "year":
			q.Year = v
		case "p":
			page, err := strconv.Atoi(v)
			if err != nil || page < 1 {
				httpx.WriteError(w, http.StatusBadRequest, msgBadPage)
				return
			}
			q.Page = page
			params[key] = page
		}
	}
	if len(params) == 0 {
		httpx.WriteError(w, http.StatusBadRequest, "At least one search parameter is required")
		return
	}

	res, err := h.SetlistService.Search(r.Context(), q)
	if err != nil {
		writeUpstreamError(w, http.StatusInternalServerError, "Search failed", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, SearchEnvelope{
		Success:      true,
		Message:      "Search completed successfully",
		Data:         res,
		SearchParams: params,
	})
}

// HandleFallbackSongs returns the built-in song list.
//
//	@Summary		Fallback songs
//	@Tags			Setlists
//	@Produce		json
//	@Success		200	{object}	httpx.Envelope{data=service.SongsData}
//	@Router			/setlists/fallback-songs [get]
func (h *SetlistsHandler) HandleFallbackSongs(w http.ResponseWriter, r *http.Request) {
	songs := service.FallbackSongs()
	writeOK(w, http.StatusOK, "Fallback songs retrieved successfully", service.SongsData{
		Songs:    songs,
		Metadata: service.SongsMetadata{TotalSongs: len(songs), Fallback: true},
	})
}

// HandleSetlist returns one setlist by its setlist.fm id.
//
//	@Summary		Get setlist
//	@Tags			Setlists
//	@Produce		json
//	@Param			setlistId	path		string	true	"setlist.fm setlist ID"
//	@Success		200			{object}	httpx.Envelope{data=setlistfm.Setlist}
//	@Failure		400			{object}	httpx.ErrorBody
//	@Failure		404			{object}	UpstreamError
//	@Router			/setlists/{setlistId} [get]
func (h *SetlistsHandler) HandleSetlist(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("setlistId"))
	if id == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Setlist ID is required")
		return
	}
	sl, err := h.SetlistService.Setlist(r.Context(), id)
	if err != nil {
		writeUpstreamError(w, http.StatusNotFound, "Setlist not found", err)
		return
	}
	writeOK(w, http.StatusOK, "Setlist retrieved successfully", sl)
}

// HandleHealth probes setlist.fm.
//
//	@Summary		Setlist integration health
//	@Tags			Setlists
//	@Produce		json
//	@Success		200	{object}	HealthEnvelope
//	@Router			/setlists/health [get]
func (h *SetlistsHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := "fallback"
	if h.SetlistService.Health(r.Context()) {
		status = "connected"
	}
	httpx.WriteJSON(w, http.StatusOK, HealthEnvelope{
		Success:   true,
		Message:   "Setlist API integration is healthy",
		APIStatus: status,
		Timestamp: timestamp(),
	})
}

// intOrDefault parses s, falling back to def when s is empty, not a
// number or zero.
func intOrDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n == 0 {
		return def
	}
	return n
}

func timestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
