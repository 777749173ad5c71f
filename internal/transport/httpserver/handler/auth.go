package handler

import (
	"errors"
	"net/http"
	"strings"

	apartmentdomain "apartment-chores-go/internal/domain/apartment"
	"apartment-chores-go/internal/identity"
	"apartment-chores-go/internal/transport/httpserver/middleware"
)

type signUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetPasswordRequest struct {
	Email string `json:"email"`
}

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type signInResponse struct {
	AccessToken  string       `json:"access_token"`
	User         userResponse `json:"user"`
	HasApartment bool         `json:"has_apartment"`
}

func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	account, err := h.Identity.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		h.writeAuthError(w, "auth.signup", err)
		return
	}

	created, err := h.Users.EnsureUser(r.Context(), account.ID, req.Email, req.DisplayName)
	if err != nil {
		h.log.InternalError("auth.signup: ensure user failed", err, "user_id", account.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{
		ID:          created.ID,
		Email:       created.Email,
		DisplayName: created.DisplayName,
	})
}

func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	session, err := h.Identity.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeAuthError(w, "auth.signin", err)
		return
	}

	ensured, err := h.Users.EnsureUser(r.Context(), session.Account.ID, session.Account.Email, session.Account.DisplayName)
	if err != nil {
		h.log.InternalError("auth.signin: ensure user failed", err, "user_id", session.Account.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	// The front end routes to apartment setup when the user has none yet.
	hasApartment := true
	if _, err := h.Apartments.ResolveForUser(r.Context(), ensured.ID); err != nil {
		if !errors.Is(err, apartmentdomain.ErrApartmentNotFound) {
			h.log.InternalError("auth.signin: resolve apartment failed", err, "user_id", ensured.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}
		hasApartment = false
	}

	writeJSON(w, http.StatusOK, signInResponse{
		AccessToken: session.AccessToken,
		User: userResponse{
			ID:          ensured.ID,
			Email:       ensured.Email,
			DisplayName: ensured.DisplayName,
		},
		HasApartment: hasApartment,
	})
}

func (h *Handlers) SignOut(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer"))
	if token == "" {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := h.Identity.SignOut(r.Context(), token); err != nil {
		h.writeAuthError(w, "auth.signout", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	if err := h.Identity.ResetPassword(r.Context(), req.Email); err != nil {
		h.writeAuthError(w, "auth.reset_password", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	authUser, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	stored, err := h.Users.GetUser(r.Context(), authUser.ID)
	if err != nil {
		h.log.InternalError("auth.me: get user failed", err, "user_id", authUser.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, userResponse{
		ID:          stored.ID,
		Email:       stored.Email,
		DisplayName: stored.DisplayName,
	})
}

// writeAuthError surfaces the provider's message verbatim; anything else is
// an infrastructure failure.
func (h *Handlers) writeAuthError(w http.ResponseWriter, op string, err error) {
	var authErr *identity.AuthError
	if errors.As(err, &authErr) {
		h.log.BusinessError(op+": provider rejected request", err)
		code := authErr.Code
		if code == "" {
			code = "auth_error"
		}
		writeError(w, authErr.Status, code, authErr.Message)
		return
	}

	h.log.InternalError(op+": provider call failed", err)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
