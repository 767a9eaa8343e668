package handlers

import (
	"net/http"
	"strings"

	"github.com/diewo77/listings-api/httpx"
	"github.com/diewo77/listings-api/internal/events"
	"github.com/diewo77/listings-api/internal/media"
	"github.com/diewo77/listings-api/internal/metrics"
	"github.com/diewo77/listings-api/internal/models"
	"github.com/diewo77/listings-api/internal/store"
	"github.com/diewo77/listings-api/validation"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	defaultSkip  = 0
	defaultLimit = 10
)

type ListingHandler struct {
	store   *store.Store
	events  events.Publisher
	images  media.ImageStore // nil when object storage is not configured
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewListingHandler(st *store.Store, pub events.Publisher, images media.ImageStore, m *metrics.Metrics, log *zap.Logger) *ListingHandler {
	if pub == nil {
		pub = events.Nop{}
	}
	return &ListingHandler{store: st, events: pub, images: images, metrics: m, log: log.Named("listings")}
}

// Register mounts the listing routes on r (expected under /listings).
func (h *ListingHandler) Register(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Put("/{id}/image", h.UploadImage)
}

// listingRequest is the full listing payload. Pointers tell a missing field
// apart from an empty one: every field except image_uri and user_full_name
// must be present, on create and on update alike.
type listingRequest struct {
	Title            *string `json:"title"`
	Price            *string `json:"price"`
	Address          *string `json:"address"`
	Description      *string `json:"description"`
	ImageURI         *string `json:"image_uri"`
	UserID           *string `json:"user_id"`
	UserFullName     *string `json:"user_full_name"`
	Area             *string `json:"area"`
	Bedrooms         *string `json:"bedrooms"`
	Bathrooms        *string `json:"bathrooms"`
	Stories          *string `json:"stories"`
	MainRoad         *string `json:"mainroad"`
	GuestRoom        *string `json:"guestroom"`
	FurnishingStatus *string `json:"furnishing_status"`
	Basement         *string `json:"basement"`
	HotWaterHeating  *string `json:"hot_water_heating"`
	AirConditioning  *string `json:"air_conditioning"`
	Parking          *int    `json:"parking"`
	PreferredArea    *string `json:"preferred_area"`
}

func (req *listingRequest) validate() validation.Violations {
	v := validation.Violations{}
	validation.Present("title", req.Title, v)
	validation.Present("price", req.Price, v)
	validation.Present("address", req.Address, v)
	validation.Present("description", req.Description, v)
	validation.RequiredPtr("user_id", req.UserID, v)
	validation.Present("area", req.Area, v)
	validation.Present("bedrooms", req.Bedrooms, v)
	validation.Present("bathrooms", req.Bathrooms, v)
	validation.Present("stories", req.Stories, v)
	validation.Present("mainroad", req.MainRoad, v)
	validation.Present("guestroom", req.GuestRoom, v)
	validation.Present("furnishing_status", req.FurnishingStatus, v)
	validation.Present("basement", req.Basement, v)
	validation.Present("hot_water_heating", req.HotWaterHeating, v)
	validation.Present("air_conditioning", req.AirConditioning, v)
	validation.PresentInt("parking", req.Parking, v)
	if req.Parking != nil {
		validation.NonNegative("parking", *req.Parking, v)
	}
	validation.Present("preferred_area", req.PreferredArea, v)
	return v
}

// fields converts a validated request. UserFullName is filled in from the
// owner by the caller.
func (req *listingRequest) fields() models.ListingFields {
	return models.ListingFields{
		Title:            *req.Title,
		Price:            *req.Price,
		Address:          *req.Address,
		Description:      *req.Description,
		ImageURI:         req.ImageURI,
		UserID:           strings.TrimSpace(*req.UserID),
		Area:             *req.Area,
		Bedrooms:         *req.Bedrooms,
		Bathrooms:        *req.Bathrooms,
		Stories:          *req.Stories,
		MainRoad:         *req.MainRoad,
		GuestRoom:        *req.GuestRoom,
		FurnishingStatus: *req.FurnishingStatus,
		Basement:         *req.Basement,
		HotWaterHeating:  *req.HotWaterHeating,
		AirConditioning:  *req.AirConditioning,
		Parking:          *req.Parking,
		PreferredArea:    *req.PreferredArea,
	}
}

// decodeListing reads and validates the payload and resolves the owner.
// It writes the error response itself and reports false on failure.
func (h *ListingHandler) decodeListing(w http.ResponseWriter, r *http.Request, st *store.Store) (models.ListingFields, bool) {
	var req listingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadPayload(w, err)
		return models.ListingFields{}, false
	}
	if v := req.validate(); !v.Empty() {
		writeValidation(w, v)
		return models.ListingFields{}, false
	}
	fields := req.fields()

	owner, err := st.FindUser(fields.UserID)
	if err != nil {
		writeStoreError(w, r, h.log, err, msgUserNotFound)
		return models.ListingFields{}, false
	}
	fields.UserFullName = owner.FullName
	return fields, true
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	st := h.store.WithContext(r.Context())
	fields, ok := h.decodeListing(w, r, st)
	if !ok {
		return
	}
	l := &models.Listing{ListingFields: fields}
	if err := st.CreateListing(l); err != nil {
		writeStoreError(w, r, h.log, err, msgUserNotFound)
		return
	}
	h.metrics.Mutation("listing", "create")
	publish(r.Context(), h.events, h.log, events.SubjectListingCreated, l)
	httpx.JSON(w, http.StatusCreated, l)
}

// List returns a page of listings, optionally only those owned by user_id.
// skip/limit slice the full result in insertion order.
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	v := validation.Violations{}
	skip := queryInt(r, "skip", defaultSkip, v)
	limit := queryInt(r, "limit", defaultLimit, v)
	if !v.Empty() {
		writeValidation(w, v)
		return
	}

	st := h.store.WithContext(r.Context())
	var (
		listings []models.Listing
		err      error
	)
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		listings, err = st.ListListingsByUser(userID)
	} else {
		listings, err = st.ListListings()
	}
	if err != nil {
		writeStoreError(w, r, h.log, err, msgListingNotFound)
		return
	}
	httpx.JSON(w, http.StatusOK, paginate(listings, skip, limit))
}

func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.listingID(w, r)
	if !ok {
		return
	}
	l, err := h.store.WithContext(r.Context()).FindListing(id)
	if err != nil {
		writeStoreError(w, r, h.log, err, msgListingNotFound)
		return
	}
	httpx.JSON(w, http.StatusOK, l)
}

// Update replaces every field of the listing.
func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.listingID(w, r)
	if !ok {
		return
	}
	st := h.store.WithContext(r.Context())
	if _, err := st.FindListing(id); err != nil {
		writeStoreError(w, r, h.log, err, msgListingNotFound)
		return
	}
	fields, ok := h.decodeListing(w, r, st)
	if !ok {
		return
	}
	l, err := st.UpdateListing(id, fields)
	if err != nil {
		writeStoreError(w, r, h.log, err, msgListingNotFound)
		return
	}
	h.metrics.Mutation("listing", "update")
	publish(r.Context(), h.events, h.log, events.SubjectListingUpdated, l)
	httpx.JSON(w, http.StatusOK, l)
}

// Delete removes the listing and returns it as it was.
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.listingID(w, r)
	if !ok {
		return
	}
	l, err := h.store.WithContext(r.Context()).DeleteListing(id)
	if err != nil {
		writeStoreError(w, r, h.log, err, msgListingNotFound)
		return
	}
	h.metrics.Mutation("listing", "delete")
	publish(r.Context(), h.events, h.log, events.SubjectListingDeleted, l)
	httpx.JSON(w, http.StatusOK, l)
}

func (h *ListingHandler) listingID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "Invalid listing id", nil)
		return 0, false
	}
	if id == 0 {
		httpx.JSONError(w, http.StatusNotFound, msgListingNotFound, nil)
		return 0, false
	}
	return id, true
}

