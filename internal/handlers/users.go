package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/diewo77/listings-api/httpx"
	"github.com/diewo77/listings-api/internal/metrics"
	"github.com/diewo77/listings-api/internal/store"
	"github.com/diewo77/listings-api/validation"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const msgUserExists = "User already exists"

type UserHandler struct {
	store   *store.Store
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewUserHandler(st *store.Store, m *metrics.Metrics, log *zap.Logger) *UserHandler {
	return &UserHandler{store: st, metrics: m, log: log.Named("users")}
}

// Register mounts the user routes on r (expected under /users).
func (h *UserHandler) Register(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/{user_id}", h.Get)
	r.Get("/{user_id}/full_name", h.FullName)
}

type createUserRequest struct {
	UserID   *string `json:"user_id"`
	FullName *string `json:"full_name"`
}

// Create registers a user. The user_id comes from the identity provider.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadPayload(w, err)
		return
	}
	v := validation.Violations{}
	validation.RequiredPtr("user_id", req.UserID, v)
	validation.RequiredPtr("full_name", req.FullName, v)
	if !v.Empty() {
		writeValidation(w, v)
		return
	}
	userID := strings.TrimSpace(*req.UserID)

	st := h.store.WithContext(r.Context())
	if _, err := st.FindUser(userID); err == nil {
		httpx.JSONError(w, http.StatusBadRequest, msgUserExists, nil)
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		writeStoreError(w, r, h.log, err, msgUserNotFound)
		return
	}

	u, err := st.CreateUser(userID, *req.FullName)
	if err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, store.ErrDuplicate) {
			httpx.JSONError(w, http.StatusBadRequest, msgUserExists, nil)
			return
		}
		writeStoreError(w, r, h.log, err, msgUserNotFound)
		return
	}
	h.metrics.Mutation("user", "create")
	httpx.JSON(w, http.StatusCreated, u)
}

// Get returns the user with their listings and bookmarks.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.store.WithContext(r.Context()).FindUserWithRelations(chi.URLParam(r, "user_id"))
	if err != nil {
		writeStoreError(w, r, h.log, err, msgUserNotFound)
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}

// FullName returns the user's display name as a bare JSON string.
func (h *UserHandler) FullName(w http.ResponseWriter, r *http.Request) {
	u, err := h.store.WithContext(r.Context()).FindUser(chi.URLParam(r, "user_id"))
	if err != nil {
		writeStoreError(w, r, h.log, err, msgUserNotFound)
		return
	}
	httpx.JSON(w, http.StatusOK, u.FullName)
}
