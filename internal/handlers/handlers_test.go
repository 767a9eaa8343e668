package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diewo77/listings-api/internal/db"
	"github.com/diewo77/listings-api/internal/media"
	"github.com/diewo77/listings-api/internal/metrics"
	"github.com/diewo77/listings-api/internal/models"
	"github.com/diewo77/listings-api/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	router  http.Handler
	db      *gorm.DB
	store   *store.Store
	events  *eventRecorder
	metrics *metrics.Metrics
	images  *fakeImages
}

type fakeImages struct {
	calls []string
	err   error
}

func (f *fakeImages) PutListingImage(_ context.Context, listingID uint, filename string, r io.Reader, _ int64, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	ext, _ := media.ExtensionFor(contentType)
	uri := "http://cdn.test/" + media.ObjectName(listingID, ext)
	f.calls = append(f.calls, filename)
	return uri, nil
}

// setupTestDB opens a private in-memory SQLite database named after the test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := "file:" + name + "?mode=memory&cache=shared&_foreign_keys=1"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

// newTestEnv mounts every handler the way the server does. A nil images
// store disables the upload route.
func newTestEnv(t *testing.T, withImages bool) *testEnv {
	t.Helper()
	gdb := setupTestDB(t)
	st := store.New(gdb, zap.NewNop())
	env := &testEnv{db: gdb, store: st, events: &eventRecorder{}, metrics: metrics.New()}

	var images media.ImageStore
	if withImages {
		env.images = &fakeImages{}
		images = env.images
	}

	log := zap.NewNop()
	r := chi.NewRouter()
	r.Route("/users", NewUserHandler(st, env.metrics, log).Register)
	r.Route("/listings", NewListingHandler(st, env.events, images, env.metrics, log).Register)
	r.Route("/saved", NewSavedHandler(st, env.events, env.metrics, log).Register)
	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = strings.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, target, rdr)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func detail(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, rr)["detail"].(string)
}

func (e *testEnv) createUser(t *testing.T, id, name string) {
	t.Helper()
	_, err := e.store.CreateUser(id, name)
	require.NoError(t, err)
}

func listingBody(userID string) map[string]any {
	return map[string]any{
		"title":             "Sunny flat",
		"price":             "250000",
		"address":           "1 Main St",
		"description":       "Two rooms near the park",
		"image_uri":         nil,
		"user_id":           userID,
		"user_full_name":    "ignored",
		"area":              "7420",
		"bedrooms":          "4",
		"bathrooms":         "2",
		"stories":           "3",
		"mainroad":          "yes",
		"guestroom":         "no",
		"furnishing_status": "furnished",
		"basement":          "no",
		"hot_water_heating": "no",
		"air_conditioning":  "yes",
		"parking":           2,
		"preferred_area":    "yes",
	}
}

func (e *testEnv) createListing(t *testing.T, userID, title string) models.Listing {
	t.Helper()
	body := listingBody(userID)
	body["title"] = title
	rr := e.do(t, http.MethodPost, "/listings/", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[models.Listing](t, rr)
}

// count returns the number of rows of model in the test database.
func (e *testEnv) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}
