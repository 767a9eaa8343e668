package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/diewo77/listings-api/httpx"
	"github.com/diewo77/listings-api/internal/events"
	"github.com/diewo77/listings-api/internal/store"
	"github.com/diewo77/listings-api/validation"
	"go.uber.org/zap"
)

const (
	msgUserNotFound    = "User not found"
	msgListingNotFound = "Listing not found"
	msgInternal        = "Internal Server Error"
)

// writeStoreError answers 404 with notFound for store.ErrNotFound and 500 for
// anything else. The underlying error is logged, never sent to the client.
func writeStoreError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error, notFound string) {
	if errors.Is(err, store.ErrNotFound) {
		httpx.JSONError(w, http.StatusNotFound, notFound, nil)
		return
	}
	log.Error("store operation failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	httpx.JSONError(w, http.StatusInternalServerError, msgInternal, nil)
}

func writeValidation(w http.ResponseWriter, v validation.Violations) {
	httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", v)
}

func writeBadPayload(w http.ResponseWriter, err error) {
	httpx.JSONError(w, http.StatusUnprocessableEntity, err.Error(), nil)
}

// parseID parses an integer id from a path or query value. ok is false only
// when raw is not an integer. Integers no row can carry (zero, negative or
// beyond int64) come back as id 0, which callers answer as not found.
func parseID(raw string) (id uint, ok bool) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return 0, true
	}
	if err != nil {
		return 0, false
	}
	if n <= 0 {
		return 0, true
	}
	return uint(n), true
}

// queryInt reads a non-negative integer query parameter, falling back to def
// when it is absent.
func queryInt(r *http.Request, key string, def int, v validation.Violations) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		v[key] = "must_be_integer"
		return def
	}
	validation.NonNegative(key, n, v)
	return n
}

// paginate returns items[skip:skip+limit], clamped to the slice bounds.
func paginate[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return []T{}
	}
	end := skip + limit
	if end > len(items) || end < skip {
		end = len(items)
	}
	return items[skip:end]
}

// publish announces a committed change. Failures are logged only: the write
// already succeeded and the client gets its answer regardless.
func publish(ctx context.Context, pub events.Publisher, log *zap.Logger, subject string, data any) {
	if err := pub.Publish(ctx, subject, data); err != nil {
		log.Warn("event publish failed", zap.String("subject", subject), zap.Error(err))
	}
}
