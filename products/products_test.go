package products

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agroverse/catalog"
	"agroverse/errx"
	"agroverse/models"
	"agroverse/remote/remotetest"
)

func seeded(t *testing.T) (*Market, *remotetest.Server) {
	backend := remotetest.New(t)
	backend.Products = []models.Product{
		{ID: "p1", Name: "Tomato", Category: "Vegetables", Price: 20, Seller: "Ravi", SellerID: "ravi", Phone: "98765"},
		{ID: "p2", Name: "Mango", Category: "Fruits", Price: 80, Seller: "Asha", SellerID: "user1"},
		{ID: "p3", Name: "Cherry Tomato", Category: "Vegetables", Price: 40, Seller: "Asha", SellerID: "user1"},
	}
	backend.Owners["p1"] = "ravi"
	backend.Owners["p2"] = "user1"
	backend.Owners["p3"] = "user1"
	return New(backend.Client(t)), backend
}

func TestBrowseGroupsMatches(t *testing.T) {
	m, _ := seeded(t)

	sections, err := m.Browse(context.Background(), catalog.Query{Category: catalog.All})
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "Fruits", sections[0].Title)
	assert.Equal(t, "Vegetables", sections[1].Title)
	assert.Len(t, sections[1].Items, 2)

	sections, err = m.Browse(context.Background(), catalog.Query{Text: "cherry"})
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "p3", sections[0].Items[0].ID)
}

func TestBrowseServerFailure(t *testing.T) {
	m, backend := seeded(t)
	backend.Fail["GET /api/products"] = http.StatusInternalServerError

	_, err := m.Browse(context.Background(), catalog.Query{})
	assert.True(t, errors.Is(err, errx.ErrTransport))
}

func TestAddListingNormalises(t *testing.T) {
	m, backend := seeded(t)

	p, err := m.AddListing(context.Background(), ListingForm{
		Name: "Marigold", Category: "flower", Price: "12.5", Seller: "Asha", Email: "asha@farm.in",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Flowers", p.Category)
	assert.Equal(t, "user1", p.SellerID)
	assert.Equal(t, catalog.CategoryImage("Flowers"), p.ImageURL)
	assert.Equal(t, models.Price(12.5), p.Price)

	backend.Lock()
	defer backend.Unlock()
	assert.Len(t, backend.Products, 4)
}

func TestAddListingTrimsCategory(t *testing.T) {
	m, _ := seeded(t)

	p, err := m.AddListing(context.Background(), ListingForm{
		Name: "Okra seeds", Category: " seeds ", Price: "40", Seller: "Asha",
	})
	require.NoError(t, err)
	assert.Equal(t, "Seeds", p.Category)
}

func TestAddListingValidatesLocally(t *testing.T) {
	m, backend := seeded(t)
	cases := []struct {
		form ListingForm
		msg  string
	}{
		{ListingForm{Name: "x", Category: "Seeds", Price: "10"}, FieldsMessage},
		{ListingForm{Name: "x", Category: "Seeds", Price: "free", Seller: "s"}, PriceMessage},
		{ListingForm{Name: "x", Category: "Seeds", Price: "0", Seller: "s"}, PriceMessage},
	}
	for _, tc := range cases {
		_, err := m.AddListing(context.Background(), tc.form)
		require.Error(t, err)
		assert.Equal(t, tc.msg, errx.Message(err))
	}
	assert.Zero(t, backend.Count("POST /api/products"))
}

func TestRequestProduct(t *testing.T) {
	m, backend := seeded(t)
	tomato := models.Product{ID: "p1", Name: "Tomato"}

	for _, bad := range []string{"-1", "0", "", "many"} {
		_, err := m.RequestProduct(context.Background(), tomato, bad)
		assert.True(t, errors.Is(err, errx.ErrValidation), bad)
		assert.Equal(t, QuantityMessage, errx.Message(err))
	}
	assert.Zero(t, backend.Count("POST /api/product-requests"))

	req, err := m.RequestProduct(context.Background(), tomato, "5")
	require.NoError(t, err)
	assert.Equal(t, 5, req.Quantity)
	assert.Equal(t, "user1", req.UserID)
	assert.True(t, req.Status.Pending())
	assert.Equal(t, "Your request for 5 units of Tomato has been sent to the seller.", RequestSentMessage(tomato, 5))
}

func TestApproveShowsOnNextDashboard(t *testing.T) {
	m, backend := seeded(t)
	backend.ProductRequests = []models.ProductRequest{
		{ID: "r1", ProductID: "p2", UserID: "ravi", Quantity: 3, Status: models.StatusPending},
		{ID: "r2", ProductID: "p1", UserID: "user1", Quantity: 1, Status: models.StatusPending},
	}

	dash, err := m.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Len(t, dash.Listings, 2)
	require.Len(t, dash.Requests, 1)
	assert.True(t, dash.Requests[0].Status.Pending())

	dash, err = m.Approve(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, dash.Requests, 1)
	assert.False(t, dash.Requests[0].Status.Pending())
	assert.Equal(t, models.StatusApproved, dash.Requests[0].Status)
}

func TestApproveUnknownRequest(t *testing.T) {
	m, _ := seeded(t)
	_, err := m.Approve(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, "Request not found", errx.Message(err))
}

func TestFind(t *testing.T) {
	m, _ := seeded(t)
	p, err := m.Find(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, "Mango", p.Name)

	_, err = m.Find(context.Background(), "zz")
	assert.Error(t, err)
}

func TestContactSeller(t *testing.T) {
	assert.Equal(t, "tel:98765", ContactSeller(models.Product{Phone: "98765"}).URI)
	assert.Equal(t, "Seller: Asha\nNo contact info available.", ContactSeller(models.Product{Seller: "Asha"}).Fallback)
}
