package handlers

import (
	"net/http"

	"github.com/diewo77/listings-api/httpx"
	"github.com/diewo77/listings-api/internal/events"
	"github.com/diewo77/listings-api/internal/media"
	"go.uber.org/zap"
)

// maxImageSize caps an uploaded listing image.
const maxImageSize = 10 << 20

// UploadImage stores the multipart "image" file in object storage and points
// the listing's image_uri at it.
func (h *ListingHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.images == nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "Image storage not configured", nil)
		return
	}
	id, ok := h.listingID(w, r)
	if !ok {
		return
	}
	st := h.store.WithContext(r.Context())
	l, err := st.FindListing(id)
	if err != nil {
		writeStoreError(w, r, h.log, err, msgListingNotFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize+1<<20)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "invalid multipart form", nil)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", map[string]string{"image": "required"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if _, ok := media.ExtensionFor(contentType); !ok {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", map[string]string{"image": "unsupported_type"})
		return
	}
	if header.Size > maxImageSize {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", map[string]string{"image": "too_large"})
		return
	}

	uri, err := h.images.PutListingImage(r.Context(), id, header.Filename, file, header.Size, contentType)
	if err != nil {
		h.log.Error("image upload failed", zap.Uint("listing_id", id), zap.Error(err))
		httpx.JSONError(w, http.StatusBadGateway, "Image upload failed", nil)
		return
	}

	if l.HasImage() {
		// the old object stays in the bucket
		h.log.Info("listing image replaced",
			zap.Uint("listing_id", id),
			zap.String("previous", *l.ImageURI),
			zap.String("current", uri))
	}
	fields := l.ListingFields
	fields.ImageURI = &uri
	l, err = st.UpdateListing(id, fields)
	if err != nil {
		writeStoreError(w, r, h.log, err, msgListingNotFound)
		return
	}
	h.metrics.Mutation("listing", "image")
	publish(r.Context(), h.events, h.log, events.SubjectListingUpdated, l)
	httpx.JSON(w, http.StatusOK, l)
}
