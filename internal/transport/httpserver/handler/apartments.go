package handler

import (
	"errors"
	"net/http"
	"time"

	apartmentdomain "apartment-chores-go/internal/domain/apartment"
	"apartment-chores-go/internal/transport/httpserver/middleware"
)

type createApartmentRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type joinApartmentRequest struct {
	ApartmentID string `json:"apartment_id"`
}

type apartmentResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type rosterResponse struct {
	Members []apartmentdomain.MemberProfile `json:"members"`
}

func toApartmentResponse(apt *apartmentdomain.Apartment) apartmentResponse {
	return apartmentResponse{
		ID:        apt.ID,
		Name:      apt.Name,
		Address:   apt.Address,
		CreatedBy: apt.CreatedBy,
		CreatedAt: apt.CreatedAt,
	}
}

func (h *Handlers) CreateApartment(w http.ResponseWriter, r *http.Request) {
	authUser, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req createApartmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	created, err := h.Apartments.Create(r.Context(), authUser.ID, req.Name, req.Address)
	if err != nil {
		h.log.InternalError("apartments.create: failed", err, "user_id", authUser.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toApartmentResponse(created))
}

func (h *Handlers) JoinApartment(w http.ResponseWriter, r *http.Request) {
	authUser, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req joinApartmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	joined, err := h.Apartments.Join(r.Context(), req.ApartmentID, authUser.ID)
	if err != nil {
		if errors.Is(err, apartmentdomain.ErrApartmentNotFound) {
			h.log.BusinessError("apartments.join: not found", err, "apartment_id", req.ApartmentID)
			writeError(w, http.StatusNotFound, "apartment_not_found", "apartment not found")
			return
		}
		h.log.InternalError("apartments.join: failed", err, "apartment_id", req.ApartmentID, "user_id", authUser.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toApartmentResponse(joined))
}

func (h *Handlers) GetApartmentMe(w http.ResponseWriter, r *http.Request) {
	authUser, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	apt, err := h.Apartments.ResolveForUser(r.Context(), authUser.ID)
	if err != nil {
		if errors.Is(err, apartmentdomain.ErrApartmentNotFound) {
			h.log.BusinessError("apartments.me: not found", err, "user_id", authUser.ID)
			writeError(w, http.StatusNotFound, "apartment_not_found", "apartment not found")
			return
		}
		h.log.InternalError("apartments.me: resolve failed", err, "user_id", authUser.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toApartmentResponse(apt))
}

// ListMembers serves the roommate dropdown. A store failure here degrades to
// an empty roster rather than breaking the page.
func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	apt, ok := h.currentApartment(w, r)
	if !ok {
		return
	}

	roster, err := h.Apartments.Roster(r.Context(), apt.ID)
	if err != nil {
		h.log.Warn("apartments.members: roster load failed, serving empty roster", "err", err, "apartment_id", apt.ID)
		writeJSON(w, http.StatusOK, rosterResponse{Members: []apartmentdomain.MemberProfile{}})
		return
	}

	writeJSON(w, http.StatusOK, rosterResponse{Members: roster})
}

// currentApartment resolves the caller's apartment or writes the error.
func (h *Handlers) currentApartment(w http.ResponseWriter, r *http.Request) (*apartmentdomain.Apartment, bool) {
	authUser, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return nil, false
	}

	apt, err := h.Apartments.ResolveForUser(r.Context(), authUser.ID)
	if err != nil {
		if errors.Is(err, apartmentdomain.ErrApartmentNotFound) {
			h.log.BusinessError("apartments: no apartment for user", err, "user_id", authUser.ID)
			writeError(w, http.StatusNotFound, "apartment_not_found", "apartment not found")
			return nil, false
		}
		h.log.InternalError("apartments: resolve failed", err, "user_id", authUser.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return nil, false
	}

	return apt, true
}
