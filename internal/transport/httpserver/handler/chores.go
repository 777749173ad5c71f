package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	choredomain "apartment-chores-go/internal/domain/chore"
	"github.com/go-chi/chi/v5"
)

type choreResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	AssignedTo  string     `json:"assigned_to"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	Order       int        `json:"order"`
}

type categoryGroupResponse struct {
	Category string          `json:"category"`
	Chores   []choreResponse `json:"chores"`
}

type progressResponse struct {
	Total      int     `json:"total"`
	Completed  int     `json:"completed"`
	Percentage float64 `json:"percentage"`
}

type choreBoardResponse struct {
	Categories []categoryGroupResponse `json:"categories"`
	Progress   progressResponse        `json:"progress"`
}

type choreListResponse struct {
	Chores []choreResponse `json:"chores"`
}

type setCompletionRequest struct {
	Completed *bool `json:"completed"`
}

type setAssignmentRequest struct {
	AssignedTo *string `json:"assigned_to"`
}

type eligibilityDetails struct {
	Category string   `json:"category"`
	Allowed  []string `json:"allowed"`
}

func toChoreResponse(c choredomain.Chore) choreResponse {
	return choreResponse{
		ID:          c.ID,
		Name:        c.Name,
		Category:    c.Category,
		AssignedTo:  c.AssignedTo,
		Completed:   c.Completed,
		CompletedAt: c.CompletedAt,
		Order:       c.SortOrder,
	}
}

func toChoreResponses(chores []choredomain.Chore) []choreResponse {
	result := make([]choreResponse, 0, len(chores))
	for _, c := range chores {
		result = append(result, toChoreResponse(c))
	}
	return result
}

// ListChores renders the board: categories alphabetical, chores ordered
// within each category, plus the progress bar state.
func (h *Handlers) ListChores(w http.ResponseWriter, r *http.Request) {
	apt, ok := h.currentApartment(w, r)
	if !ok {
		return
	}

	chores, err := h.Chores.List(r.Context(), apt.ID)
	if err != nil {
		h.log.InternalError("chores.list: failed", err, "apartment_id", apt.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	groups := choredomain.GroupByCategory(chores)
	categories := make([]categoryGroupResponse, 0, len(groups))
	for _, group := range groups {
		categories = append(categories, categoryGroupResponse{
			Category: group.Category,
			Chores:   toChoreResponses(group.Chores),
		})
	}

	completed := 0
	for _, c := range chores {
		if c.Completed {
			completed++
		}
	}

	writeJSON(w, http.StatusOK, choreBoardResponse{
		Categories: categories,
		Progress: progressResponse{
			Total:      len(chores),
			Completed:  completed,
			Percentage: choredomain.CompletionPercentage(chores),
		},
	})
}

func (h *Handlers) ChoreProgress(w http.ResponseWriter, r *http.Request) {
	apt, ok := h.currentApartment(w, r)
	if !ok {
		return
	}

	progress, err := h.Chores.Progress(r.Context(), apt.ID)
	if err != nil {
		h.log.InternalError("chores.progress: failed", err, "apartment_id", apt.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, progressResponse{
		Total:      progress.Total,
		Completed:  progress.Completed,
		Percentage: progress.Percentage,
	})
}

// LookupChores is the roommate lookup view: chores assigned to one member of
// the caller's apartment.
func (h *Handlers) LookupChores(w http.ResponseWriter, r *http.Request) {
	apt, ok := h.currentApartment(w, r)
	if !ok {
		return
	}

	memberID := strings.TrimSpace(r.URL.Query().Get("member_id"))
	if memberID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "member_id is required")
		return
	}

	chores, err := h.Chores.MemberChores(r.Context(), apt.ID, memberID)
	if err != nil {
		h.log.InternalError("chores.lookup: failed", err, "apartment_id", apt.ID, "member_id", memberID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, choreListResponse{Chores: toChoreResponses(chores)})
}

func (h *Handlers) SetChoreCompletion(w http.ResponseWriter, r *http.Request) {
	apt, ok := h.currentApartment(w, r)
	if !ok {
		return
	}

	choreID := chi.URLParam(r, "chore_id")

	var req setCompletionRequest
	if err := decodeJSON(r, &req); err != nil || req.Completed == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "completed is required")
		return
	}

	if err := h.Chores.SetCompletion(r.Context(), apt.ID, choreID, *req.Completed); err != nil {
		if errors.Is(err, choredomain.ErrChoreNotFound) {
			h.log.BusinessError("chores.completion: not found", err, "chore_id", choreID)
			writeError(w, http.StatusNotFound, "chore_not_found", "chore not found")
			return
		}
		h.log.InternalError("chores.completion: failed", err, "chore_id", choreID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	progress, err := h.Chores.Progress(r.Context(), apt.ID)
	if err != nil {
		h.log.InternalError("chores.completion: progress recompute failed", err, "apartment_id", apt.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, progressResponse{
		Total:      progress.Total,
		Completed:  progress.Completed,
		Percentage: progress.Percentage,
	})
}

func (h *Handlers) SetChoreAssignment(w http.ResponseWriter, r *http.Request) {
	apt, ok := h.currentApartment(w, r)
	if !ok {
		return
	}

	choreID := chi.URLParam(r, "chore_id")

	var req setAssignmentRequest
	if err := decodeJSON(r, &req); err != nil || req.AssignedTo == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "assigned_to is required")
		return
	}

	roster, err := h.Apartments.Roster(r.Context(), apt.ID)
	if err != nil {
		h.log.InternalError("chores.assign: roster load failed", err, "apartment_id", apt.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	assignees := make([]choredomain.Assignee, 0, len(roster))
	for _, member := range roster {
		assignees = append(assignees, choredomain.Assignee{ID: member.UserID, DisplayName: member.DisplayName})
	}

	if err := h.Chores.Assign(r.Context(), apt.ID, choreID, *req.AssignedTo, assignees); err != nil {
		var eligErr *choredomain.EligibilityError
		switch {
		case errors.As(err, &eligErr):
			h.log.BusinessError("chores.assign: not eligible", err, "chore_id", choreID, "category", eligErr.Category)
			writeErrorDetails(w, http.StatusUnprocessableEntity, "not_eligible", eligErr.Error(), eligibilityDetails{
				Category: eligErr.Category,
				Allowed:  eligErr.Allowed,
			})
		case errors.Is(err, choredomain.ErrChoreNotFound):
			h.log.BusinessError("chores.assign: not found", err, "chore_id", choreID)
			writeError(w, http.StatusNotFound, "chore_not_found", "chore not found")
		default:
			h.log.InternalError("chores.assign: failed", err, "chore_id", choreID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ResetChores clears the whole board in one atomic batch. Failure means
// nothing changed, and the client is told so distinctly from success.
func (h *Handlers) ResetChores(w http.ResponseWriter, r *http.Request) {
	apt, ok := h.currentApartment(w, r)
	if !ok {
		return
	}

	if err := h.Chores.ResetAll(r.Context(), apt.ID); err != nil {
		h.log.InternalError("chores.reset: batch failed, no chores were changed", err, "apartment_id", apt.ID)
		writeError(w, http.StatusInternalServerError, "reset_failed", "reset failed, no chores were changed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
