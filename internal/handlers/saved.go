package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/diewo77/listings-api/httpx"
	"github.com/diewo77/listings-api/internal/events"
	"github.com/diewo77/listings-api/internal/metrics"
	"github.com/diewo77/listings-api/internal/models"
	"github.com/diewo77/listings-api/internal/store"
	"github.com/diewo77/listings-api/validation"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	msgSavedTargetNotFound = "User or Listing not found"
	msgAlreadySaved        = "Listing already saved"
	msgSavedNotFound       = "Saved listing not found"
)

type SavedHandler struct {
	store   *store.Store
	events  events.Publisher
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewSavedHandler(st *store.Store, pub events.Publisher, m *metrics.Metrics, log *zap.Logger) *SavedHandler {
	if pub == nil {
		pub = events.Nop{}
	}
	return &SavedHandler{store: st, events: pub, metrics: m, log: log.Named("saved")}
}

// Register mounts the bookmark routes on r (expected under /saved).
func (h *SavedHandler) Register(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/{user_id}", h.List)
	r.Delete("/", h.Delete)
}

type saveRequest struct {
	UserID    *string `json:"user_id"`
	ListingID *int    `json:"listing_id"`
}

// Create bookmarks a listing for a user. Both must exist.
func (h *SavedHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadPayload(w, err)
		return
	}
	v := validation.Violations{}
	validation.RequiredPtr("user_id", req.UserID, v)
	validation.PresentInt("listing_id", req.ListingID, v)
	if !v.Empty() {
		writeValidation(w, v)
		return
	}
	userID := strings.TrimSpace(*req.UserID)
	// no listing has an id below 1
	if *req.ListingID <= 0 {
		httpx.JSONError(w, http.StatusNotFound, msgSavedTargetNotFound, nil)
		return
	}
	listingID := uint(*req.ListingID)

	st := h.store.WithContext(r.Context())
	if _, err := st.FindUser(userID); err != nil {
		writeStoreError(w, r, h.log, err, msgSavedTargetNotFound)
		return
	}
	if _, err := st.FindListing(listingID); err != nil {
		writeStoreError(w, r, h.log, err, msgSavedTargetNotFound)
		return
	}

	sv, err := st.SaveListing(userID, listingID)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			httpx.JSONError(w, http.StatusBadRequest, msgAlreadySaved, nil)
			return
		}
		writeStoreError(w, r, h.log, err, msgSavedTargetNotFound)
		return
	}
	h.metrics.Mutation("saved", "create")
	publish(r.Context(), h.events, h.log, events.SubjectSavedCreated, sv)
	httpx.JSON(w, http.StatusCreated, sv)
}

// List returns the listings the user bookmarked, oldest bookmark first.
func (h *SavedHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	st := h.store.WithContext(r.Context())
	if _, err := st.FindUser(userID); err != nil {
		writeStoreError(w, r, h.log, err, msgUserNotFound)
		return
	}
	saved, err := st.ListSavedForUser(userID)
	if err != nil {
		writeStoreError(w, r, h.log, err, msgUserNotFound)
		return
	}
	listings := make([]models.Listing, 0, len(saved))
	for _, sv := range saved {
		if sv.Listing != nil {
			listings = append(listings, *sv.Listing)
		}
	}
	httpx.JSON(w, http.StatusOK, listings)
}

// Delete removes the bookmark named by the user_id and listing_id query
// parameters and returns it.
func (h *SavedHandler) Delete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("user_id")
	v := validation.Violations{}
	validation.Required("user_id", userID, v)
	listingID, ok := parseID(q.Get("listing_id"))
	if !ok {
		v["listing_id"] = "must_be_integer"
	}
	if !v.Empty() {
		writeValidation(w, v)
		return
	}
	if listingID == 0 {
		httpx.JSONError(w, http.StatusNotFound, msgSavedNotFound, nil)
		return
	}

	sv, err := h.store.WithContext(r.Context()).DeleteSaved(userID, listingID)
	if err != nil {
		writeStoreError(w, r, h.log, err, msgSavedNotFound)
		return
	}
	h.metrics.Mutation("saved", "delete")
	publish(r.Context(), h.events, h.log, events.SubjectSavedDeleted, sv)
	httpx.JSON(w, http.StatusOK, sv)
}
