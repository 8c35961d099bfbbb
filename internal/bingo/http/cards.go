package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/billybingo/internal/bingo/service"
	"github.com/aussiebroadwan/billybingo/pkg/httpx"
)

// CardsHandler serves the caller's own bingo cards. Every route runs
// behind AuthnMiddleware.
type CardsHandler struct {
	CardService *service.CardService
}

// HandleCreate stores a new card.
//
//	@Summary		Create bingo card
//	@Tags			Bingo cards
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		service.CardInput	true	"Card"
//	@Success		201		{object}	httpx.Envelope{data=CardView}
//	@Failure		400		{object}	httpx.ErrorBody
//	@Failure		401		{object}	httpx.ErrorBody
//	@Router			/bingo-cards [post]
func (h *CardsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.CardInput
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.CardService.Create(r.Context(), identity(r).ID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "Bingo card created successfully", newCardView(c))
}

// HandleList returns a page of the caller's cards.
//
//	@Summary		List bingo cards
//	@Tags			Bingo cards
//	@Security		BearerAuth
//	@Produce		json
//	@Param			limit	query		int		false	"Page size (1-100, default 50)"
//	@Param			skip	query		int		false	"Cards to skip"
//	@Param			sort	query		string	false	"createdAt, updatedAt, name, date or venue"
//	@Success		200		{object}	ListEnvelope
//	@Failure		400		{object}	httpx.ErrorBody
//	@Failure		401		{object}	httpx.ErrorBody
//	@Router			/bingo-cards [get]
func (h *CardsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, ok := queryInt(q.Get("limit"))
	if !ok || limit < 0 || limit > service.MaxCardLimit {
		httpx.WriteError(w, http.StatusBadRequest, "Limit must be between 1 and 100")
		return
	}
	skip, ok := queryInt(q.Get("skip"))
	if !ok {
		httpx.WriteError(w, http.StatusBadRequest, "Skip must be 0 or greater")
		return
	}

	cards, err := h.CardService.List(r.Context(), identity(r).ID, service.ListQuery{
		Limit: limit,
		Skip:  skip,
		Sort:  q.Get("sort"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ListEnvelope{
		Success: true,
		Message: "Bingo cards retrieved successfully",
		Data:    newCardViews(cards),
		Count:   len(cards),
	})
}

// HandleStats summarizes the caller's collection.
//
//	@Summary		Bingo card statistics
//	@Tags			Bingo cards
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	httpx.Envelope{data=StatsView}
//	@Failure		401	{object}	httpx.ErrorBody
//	@Router			/bingo-cards/stats [get]
func (h *CardsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.CardService.Stats(r.Context(), identity(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Bingo card statistics retrieved successfully", newStatsView(stats))
}

// HandleGet returns one card.
//
//	@Summary		Get bingo card
//	@Tags			Bingo cards
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Card ID"
//	@Success		200	{object}	httpx.Envelope{data=CardView}
//	@Failure		400	{object}	httpx.ErrorBody
//	@Failure		404	{object}	httpx.ErrorBody
//	@Router			/bingo-cards/{id} [get]
func (h *CardsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.CardService.Get(r.Context(), identity(r).ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Bingo card retrieved successfully", newCardView(c))
}

// HandleUpdate applies a partial update.
//
//	@Summary		Update bingo card
//	@Tags			Bingo cards
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Card ID"
//	@Param			body	body		service.CardPatch	true	"Fields to change"
//	@Success		200		{object}	httpx.Envelope{data=CardView}
//	@Failure		400		{object}	httpx.ErrorBody
//	@Failure		404		{object}	httpx.ErrorBody
//	@Router			/bingo-cards/{id} [put]
func (h *CardsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch service.CardPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	c, err := h.CardService.Update(r.Context(), identity(r).ID, r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Bingo card updated successfully", newCardView(c))
}

// HandleDelete removes one card.
//
//	@Summary		Delete bingo card
//	@Tags			Bingo cards
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Card ID"
//	@Success		200	{object}	httpx.Envelope
//	@Failure		400	{object}	httpx.ErrorBody
//	@Failure		404	{object}	httpx.ErrorBody
//	@Router			/bingo-cards/{id} [delete]
func (h *CardsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.CardService.Delete(r.Context(), identity(r).ID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Bingo card deleted successfully", nil)
}

// queryInt parses an optional non-negative integer. Empty means zero.
func queryInt(s string) (int, bool) {
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
