package http

import (
	"net/http"

	"github.com/aussiebroadwan/billybingo/internal/bingo/service"
)

type UsersHandler struct {
	UserService *service.UserService
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates an account and returns a bearer token.
//
//	@Summary		Register
//	@Description	Creates an account and returns a bearer token valid for 7 days.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			body	body		service.RegisterInput	true	"Account details"
//	@Success		201		{object}	httpx.Envelope{data=AuthView}
//	@Failure		400		{object}	httpx.ErrorBody	"Validation failed"
//	@Failure		409		{object}	httpx.ErrorBody	"Email or username taken"
//	@Failure		429		{object}	httpx.ErrorBody	"Rate limited"
//	@Router			/users/register [post]
func (h *UsersHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if !decodeJSON(w, r, &in) {
		return
	}
	res, err := h.UserService.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "User registered successfully", newAuthView(res))
}

// HandleLogin exchanges credentials for a bearer token.
//
//	@Summary		Login
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			body	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	httpx.Envelope{data=AuthView}
//	@Failure		400		{object}	httpx.ErrorBody	"Missing credentials"
//	@Failure		401		{object}	httpx.ErrorBody	"Invalid email or password"
//	@Router			/users/login [post]
func (h *UsersHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in LoginRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	res, err := h.UserService.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Login successful", newAuthView(res))
}

// HandleMe returns the authenticated user.
//
//	@Summary		Current user
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	httpx.Envelope{data=UserView}
//	@Failure		401	{object}	httpx.ErrorBody
//	@Router			/users/me [get]
func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	u, err := h.UserService.Get(r.Context(), identity(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Current user retrieved successfully", newUserView(u))
}

// HandleUpdateMe updates the authenticated user's name or email.
//
//	@Summary		Update current user
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		service.UserPatch	true	"Fields to change"
//	@Success		200		{object}	httpx.Envelope{data=UserView}
//	@Failure		400		{object}	httpx.ErrorBody
//	@Failure		401		{object}	httpx.ErrorBody
//	@Failure		409		{object}	httpx.ErrorBody
//	@Router			/users/me [put]
func (h *UsersHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, identity(r).ID)
}

// HandleList returns every user.
//
//	@Summary		List users
//	@Tags			Users (admin)
//	@Produce		json
//	@Success		200	{object}	httpx.Envelope{data=[]UserView}
//	@Router			/users [get]
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Users retrieved successfully", newUserViews(users))
}

// HandleGet returns one user.
//
//	@Summary		Get user
//	@Tags			Users (admin)
//	@Produce		json
//	@Param			id	path		string	true	"User ID"
//	@Success		200	{object}	httpx.Envelope{data=UserView}
//	@Failure		404	{object}	httpx.ErrorBody
//	@Router			/users/{id} [get]
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	u, err := h.UserService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "User retrieved successfully", newUserView(u))
}

// HandleCreate creates an account without issuing a token.
//
//	@Summary		Create user
//	@Tags			Users (admin)
//	@Accept			json
//	@Produce		json
//	@Param			body	body		service.RegisterInput	true	"Account details"
//	@Success		201		{object}	httpx.Envelope{data=UserView}
//	@Failure		400		{object}	httpx.ErrorBody
//	@Failure		409		{object}	httpx.ErrorBody
//	@Router			/users [post]
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if !decodeJSON(w, r, &in) {
		return
	}
	u, err := h.UserService.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "User created successfully", newUserView(u))
}

// HandleUpdate updates any user's name or email.
//
//	@Summary		Update user
//	@Tags			Users (admin)
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"User ID"
//	@Param			body	body		service.UserPatch	true	"Fields to change"
//	@Success		200		{object}	httpx.Envelope{data=UserView}
//	@Failure		400		{object}	httpx.ErrorBody
//	@Failure		404		{object}	httpx.ErrorBody
//	@Failure		409		{object}	httpx.ErrorBody
//	@Router			/users/{id} [put]
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, r.PathValue("id"))
}

func (h *UsersHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var patch service.UserPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	u, err := h.UserService.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "User updated successfully", newUserView(u))
}

// HandleDelete removes a user and their cards.
//
//	@Summary		Delete user
//	@Tags			Users (admin)
//	@Produce		json
//	@Param			id	path		string	true	"User ID"
//	@Success		200	{object}	httpx.Envelope
//	@Failure		404	{object}	httpx.ErrorBody
//	@Router			/users/{id} [delete]
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.UserService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "User deleted successfully", nil)
}
