package cards

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/connection-card/internal/config"
	"github.com/wolfman30/connection-card/internal/visitor"
	"github.com/wolfman30/connection-card/pkg/logging"
)

const genericFailure = "Something went wrong while preparing your welcome. Please try again."

// Handler handles HTTP requests for connection cards
type Handler struct {
	svc    *Service
	church config.ChurchProfile
	logger *logging.Logger
}

// NewHandler creates a new cards handler
func NewHandler(svc *Service, church config.ChurchProfile, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		svc:    svc,
		church: church,
		logger: logger,
	}
}

// Routes mounts the visitor-facing card endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/options", h.Options)
	r.Post("/", h.SubmitCard)
	r.Post("/drafts", h.StartDraft)
	r.Route("/drafts/{id}", func(r chi.Router) {
		r.Get("/", h.GetDraft)
		r.Patch("/", h.UpdateDraft)
		r.Post("/reset", h.ResetDraft)
		r.Post("/submit", h.SubmitDraft)
	})
}

// OptionsResponse lists the selector values for the card form.
type OptionsResponse struct {
	Church              config.ChurchProfile `json:"church"`
	Fields              []string             `json:"fields"`
	AgeRanges           []string             `json:"ageRanges"`
	MembershipInterests []string             `json:"membershipInterests"`
	Defaults            visitor.Record       `json:"defaults"`
}

// Options handles GET /cards/options
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	resp := OptionsResponse{
		Church:   h.church,
		Defaults: visitor.DefaultRecord(),
	}
	for _, f := range visitor.Fields() {
		resp.Fields = append(resp.Fields, f.String())
	}
	for _, a := range visitor.AgeRanges() {
		resp.AgeRanges = append(resp.AgeRanges, a.String())
	}
	for _, m := range visitor.MembershipInterests() {
		resp.MembershipInterests = append(resp.MembershipInterests, m.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

// SubmitCard handles POST /cards
func (h *Handler) SubmitCard(w http.ResponseWriter, r *http.Request) {
	var rec visitor.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		h.logger.Warn("failed to decode card", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.svc.SubmitCard(r.Context(), rec, SourceOneShot)
	if err != nil {
		h.fail(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// StartDraft handles POST /cards/drafts
func (h *Handler) StartDraft(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.StartDraft(r.Context())
	if err != nil {
		h.fail(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// GetDraft handles GET /cards/drafts/{id}
func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := h.svc.GetDraft(r.Context(), id)
	if err != nil {
		h.fail(w, err, id)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// UpdateDraft handles PATCH /cards/drafts/{id}
func (h *Handler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		h.logger.Warn("failed to decode draft update", "error", err, "draft_id", id)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess, err := h.svc.UpdateDraft(r.Context(), id, fields)
	if err != nil {
		h.fail(w, err, id)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// ResetDraft handles POST /cards/drafts/{id}/reset
func (h *Handler) ResetDraft(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := h.svc.ResetDraft(r.Context(), id)
	if err != nil {
		h.fail(w, err, id)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// SubmitDraft handles POST /cards/drafts/{id}/submit
func (h *Handler) SubmitDraft(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	result, err := h.svc.SubmitDraft(r.Context(), id)
	if err != nil {
		h.fail(w, err, id)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListCardsResponse is the response for listing archived cards
type ListCardsResponse struct {
	Cards  []*Card `json:"cards"`
	Count  int     `json:"count"`
	Offset int     `json:"offset"`
	Limit  int     `json:"limit"`
}

// ListCards handles GET /admin/cards requests
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Limit:  50,
		Offset: 0,
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 100 {
			filter.Limit = limit
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	if membership := r.URL.Query().Get("membership"); membership != "" {
		m, err := visitor.ParseMembershipInterest(membership)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.MembershipInterest = &m
	}

	cards, err := h.svc.ListCards(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list cards", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list cards")
		return
	}

	writeJSON(w, http.StatusOK, ListCardsResponse{
		Cards:  cards,
		Count:  len(cards),
		Offset: filter.Offset,
		Limit:  filter.Limit,
	})
}

func (h *Handler) fail(w http.ResponseWriter, err error, draftID string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("card request failed", "error", err, "draft_id", draftID)
		writeError(w, status, genericFailure)
		return
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrDraftNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSubmitInFlight), errors.Is(err, ErrNotEditing):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyUpdate),
		errors.Is(err, visitor.ErrUnknownField),
		errors.Is(err, visitor.ErrInvalidAgeRange),
		errors.Is(err, visitor.ErrInvalidMembershipInterest),
		errors.Is(err, visitor.ErrMissingFirstName),
		errors.Is(err, visitor.ErrMissingLastName):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
