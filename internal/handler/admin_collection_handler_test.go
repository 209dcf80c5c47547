package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/avantaimpex/console-backend/internal/domain"
	"github.com/avantaimpex/console-backend/internal/service"
	"github.com/avantaimpex/console-backend/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adminFixture struct {
	e          *echo.Echo
	handler    *AdminCollectionHandler[domain.Product]
	manager    *service.Manager[domain.Product]
	collection *testutil.MockCollection[domain.Product]
}

func newAdminFixture(items ...domain.Product) *adminFixture {
	collection := testutil.NewMockCollection(items...)
	manager := service.NewManager[domain.Product]("product", collection, testutil.NewMockUploader(), service.NewNotifier(time.Minute))
	return &adminFixture{
		e:          echo.New(),
		handler:    NewAdminCollectionHandler(manager, zerolog.Nop()),
		manager:    manager,
		collection: collection,
	}
}

func (f *adminFixture) request(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func seedProducts() []domain.Product {
	return []domain.Product{
		{ID: "p1", Name: "Basmati Rice", Category: "grains"},
		{ID: "p2", Name: "Black Pepper", Category: "spices"},
	}
}

func registerAdmin(f *adminFixture) {
	f.handler.Register(f.e.Group("/products"))
}

func TestAdminListLoadsCollection(t *testing.T) {
	f := newAdminFixture(seedProducts()...)
	registerAdmin(f)

	rec := f.request(http.MethodGet, "/products", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []domain.Product `json:"items"`
		State string           `json:"state"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Items, 2)
	assert.Equal(t, "idle", body.State)
}

func TestAdminListUpstreamDown(t *testing.T) {
	f := newAdminFixture()
	f.collection.ListErr = domain.NewRemoteError(domain.FailureNetwork, "", nil)
	registerAdmin(f)

	rec := f.request(http.MethodGet, "/products", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAdminDraftLifecycle(t *testing.T) {
	f := newAdminFixture(seedProducts()...)
	f.collection.CreateFn = func(payload domain.Payload) (domain.Product, error) {
		return domain.Product{ID: "p3", Name: payload["name"].(string)}, nil
	}
	registerAdmin(f)

	// Create drafts require no prior load; edit drafts do
	require.Equal(t, http.StatusOK, f.request(http.MethodGet, "/products", "").Code)

	rec := f.request(http.MethodPost, "/products/draft", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	// A second draft is refused while the first is open
	rec = f.request(http.MethodPost, "/products/p1/draft", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Fields accumulate on the draft
	rec = f.request(http.MethodPatch, "/products/draft", `{"name":"Turmeric","category":"spices"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.request(http.MethodPost, "/products/draft/submit", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var created domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "p3", created.ID)

	// The draft is gone after a successful submit
	rec = f.request(http.MethodGet, "/products/draft", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminDiscardQueryReplacesDraft(t *testing.T) {
	f := newAdminFixture(seedProducts()...)
	registerAdmin(f)
	require.Equal(t, http.StatusOK, f.request(http.MethodGet, "/products", "").Code)

	require.Equal(t, http.StatusCreated, f.request(http.MethodPost, "/products/draft", "").Code)
	require.Equal(t, http.StatusOK, f.request(http.MethodPatch, "/products/draft", `{"name":"half-typed"}`).Code)

	// Without discard the switch is refused, with it the old draft is dropped
	assert.Equal(t, http.StatusConflict, f.request(http.MethodPost, "/products/p1/draft", "").Code)
	rec := f.request(http.MethodPost, "/products/p1/draft?discard=true", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var body draftResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "p1", body.ItemID)
	assert.False(t, body.IsCreate)
}

func TestAdminCancelDraft(t *testing.T) {
	f := newAdminFixture(seedProducts()...)
	registerAdmin(f)

	assert.Equal(t, http.StatusNotFound, f.request(http.MethodDelete, "/products/draft", "").Code)

	require.Equal(t, http.StatusCreated, f.request(http.MethodPost, "/products/draft", "").Code)
	assert.Equal(t, http.StatusNoContent, f.request(http.MethodDelete, "/products/draft", "").Code)
	assert.Equal(t, http.StatusNotFound, f.request(http.MethodGet, "/products/draft", "").Code)
}

func TestAdminSubmitFailureKeepsDraft(t *testing.T) {
	f := newAdminFixture(seedProducts()...)
	f.collection.CreateErr = domain.NewRemoteError(domain.FailureServer, "backend down", nil)
	registerAdmin(f)

	require.Equal(t, http.StatusCreated, f.request(http.MethodPost, "/products/draft", "").Code)
	require.Equal(t, http.StatusOK, f.request(http.MethodPatch, "/products/draft", `{"name":"Turmeric"}`).Code)

	rec := f.request(http.MethodPost, "/products/draft/submit", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	// The draft survives with the typed content intact
	rec = f.request(http.MethodGet, "/products/draft", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body draftResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Turmeric", body.Changes["name"])
	assert.Equal(t, "editing", body.State)
}

func TestAdminDeleteRequiresConfirmation(t *testing.T) {
	f := newAdminFixture(seedProducts()...)
	registerAdmin(f)
	require.Equal(t, http.StatusOK, f.request(http.MethodGet, "/products", "").Code)

	// Without confirmation nothing is deleted
	rec := f.request(http.MethodDelete, "/products/p1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, f.collection.RemoveCalls)

	rec = f.request(http.MethodDelete, "/products/p1?confirm=true", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "p1", f.collection.LastRemoveID)
}

func TestAdminEditDraftUnknownItem(t *testing.T) {
	f := newAdminFixture(seedProducts()...)
	registerAdmin(f)
	require.Equal(t, http.StatusOK, f.request(http.MethodGet, "/products", "").Code)

	rec := f.request(http.MethodPost, "/products/missing/draft", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
