package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
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

type siteFixture struct {
	e        *echo.Echo
	products *testutil.MockCollection[domain.Product]
	reviews  *testutil.MockCollection[domain.Review]
}

func newSiteFixture() *siteFixture {
	products := testutil.NewMockCollection(
		domain.Product{ID: "p1", Name: "Basmati Rice", Featured: true},
		domain.Product{ID: "p2", Name: "Black Pepper"},
	)
	posts := testutil.NewMockCollection(
		domain.BlogPost{ID: "b1", Title: "Monsoon harvest outlook"},
	)
	reviews := testutil.NewMockCollection(
		domain.Review{ID: "r1", Author: "An importer", Status: domain.ReviewApproved},
		domain.Review{ID: "r2", Author: "A stranger", Status: domain.ReviewPending},
		domain.Review{ID: "r3", Author: "A partner", Status: domain.ReviewRejected},
	)

	uploader := testutil.NewMockUploader()
	notifier := service.NewNotifier(time.Minute)
	productManager := service.NewManager[domain.Product]("product", products, uploader, notifier)
	postManager := service.NewManager[domain.BlogPost]("post", posts, uploader, notifier)
	reviewManager := service.NewManager[domain.Review]("review", reviews, uploader, notifier)
	site := service.NewSiteService(productManager, postManager, reviewManager)

	e := echo.New()
	NewSiteHandler(site, productManager, postManager, zerolog.Nop()).Register(e.Group(""))
	return &siteFixture{e: e, products: products, reviews: reviews}
}

func (f *siteFixture) get(target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func TestSiteHome(t *testing.T) {
	f := newSiteFixture()

	rec := f.get("/site/home")
	require.Equal(t, http.StatusOK, rec.Code)

	var view service.HomeView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.FeaturedProducts, 1)
	assert.Equal(t, "p1", view.FeaturedProducts[0].ID)
	assert.Len(t, view.RecentPosts, 1)
	// Only the approved review is visible
	require.Len(t, view.Reviews, 1)
	assert.Equal(t, "r1", view.Reviews[0].ID)
}

func TestSiteProductDetail(t *testing.T) {
	f := newSiteFixture()

	rec := f.get("/products/p2")
	require.Equal(t, http.StatusOK, rec.Code)

	var product domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
	assert.Equal(t, "Black Pepper", product.Name)

	assert.Equal(t, http.StatusNotFound, f.get("/products/missing").Code)
}

func TestSiteReviewsFilteredAndLimited(t *testing.T) {
	f := newSiteFixture()

	rec := f.get("/reviews")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []domain.Review `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, domain.ReviewApproved, body.Items[0].Status)

	assert.Equal(t, http.StatusBadRequest, f.get("/reviews?limit=abc").Code)
}

func TestSiteProductsUpstreamDown(t *testing.T) {
	f := newSiteFixture()
	f.products.ListErr = domain.NewRemoteError(domain.FailureNetwork, "", nil)

	assert.Equal(t, http.StatusServiceUnavailable, f.get("/products").Code)

	// The home page degrades to an empty section instead of failing
	rec := f.get("/site/home")
	require.Equal(t, http.StatusOK, rec.Code)
	var view service.HomeView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Empty(t, view.FeaturedProducts)
	assert.Len(t, view.Reviews, 1)
}
