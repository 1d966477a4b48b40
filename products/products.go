// Package products is the AgriKart B2B marketplace: farm listings, bulk
// purchase requests and the seller dashboard.
package products

import (
	"context"
	"fmt"
	"strings"

	"agroverse/catalog"
	"agroverse/errx"
	"agroverse/logx"
	"agroverse/models"
	"agroverse/remote"
	"agroverse/utils"
)

const (
	FetchFailedMessage     = "Could not fetch products."
	AddFailedMessage       = "Could not add product."
	RequestFailedMessage   = "Could not send product request."
	DashboardFailedMessage = "Could not fetch dashboard data."
	ApproveFailedMessage   = "Could not approve request."
	FieldsMessage          = "Please fill all fields"
	QuantityMessage        = "Please enter a valid quantity."
	PriceMessage           = "Please enter a valid price."
	ApprovedMessage        = "Product request approved."
)

type Market struct {
	client *remote.Client
}

func New(client *remote.Client) *Market {
	return &Market{client: client}
}

// Browse fetches every listing and returns the matches grouped by category.
func (m *Market) Browse(ctx context.Context, q catalog.Query) ([]catalog.Section[models.Product], error) {
	all, err := m.client.Products(ctx, "")
	if err != nil {
		return nil, errx.Network(err, FetchFailedMessage)
	}
	matched := catalog.Filter(all, q, catalog.ListingKeys[models.Product]())
	return catalog.Group(matched, models.Product.Group), nil
}

// ListingForm is the raw "add product" form.
type ListingForm struct {
	Name     string
	Category string
	Price    string
	Seller   string
	Phone    string
	Email    string
}

// AddListing validates the form, normalises its category and posts it under
// the current seller id.
func (m *Market) AddListing(ctx context.Context, form ListingForm) (models.Product, error) {
	if utils.Blank(form.Name, form.Category, form.Price, form.Seller) {
		return models.Product{}, errx.Invalid(FieldsMessage)
	}
	price, err := models.ParsePrice(form.Price)
	if err != nil || price <= 0 {
		return models.Product{}, errx.Invalid(PriceMessage)
	}
	category := catalog.NormalizeCategory(strings.TrimSpace(form.Category))
	p := models.Product{
		Name:     form.Name,
		Category: category,
		Price:    price,
		Seller:   form.Seller,
		SellerID: m.client.Session().UserID(),
		Phone:    form.Phone,
		Email:    form.Email,
		ImageURL: catalog.CategoryImage(category),
	}
	if err := utils.Validate(p, FieldsMessage); err != nil {
		return models.Product{}, err
	}
	created, err := m.client.CreateProduct(ctx, p)
	if err != nil {
		return models.Product{}, errx.Network(err, AddFailedMessage)
	}
	logx.Info().Str("product", created.ID).Str("category", category).Msg("product listed")
	return created, nil
}

// RequestProduct asks the seller for quantity units. quantity is the raw
// form text and is checked before anything is sent.
func (m *Market) RequestProduct(ctx context.Context, product models.Product, quantity string) (models.ProductRequest, error) {
	if product.ID == "" {
		return models.ProductRequest{}, errx.Invalid(QuantityMessage)
	}
	n, err := utils.ParsePositiveInt(quantity, QuantityMessage)
	if err != nil {
		return models.ProductRequest{}, err
	}
	req, err := m.client.RequestProduct(ctx, models.NewProductRequest{
		ProductID: product.ID,
		UserID:    m.client.Session().UserID(),
		Quantity:  n,
	})
	if err != nil {
		return models.ProductRequest{}, errx.Network(err, RequestFailedMessage)
	}
	if req.Quantity == 0 {
		req.Quantity = n
	}
	return req, nil
}

// RequestSentMessage confirms a product request to the buyer.
func RequestSentMessage(product models.Product, quantity int) string {
	return fmt.Sprintf("Your request for %d units of %s has been sent to the seller.", quantity, product.Name)
}

type Dashboard = models.Dashboard[models.Product, models.ProductRequest]

// Dashboard returns the current seller's listings and the requests on them.
func (m *Market) Dashboard(ctx context.Context) (Dashboard, error) {
	seller := m.client.Session().UserID()
	listings, err := m.client.Products(ctx, seller)
	if err != nil {
		return Dashboard{}, errx.Network(err, DashboardFailedMessage)
	}
	requests, err := m.client.ProductRequests(ctx, seller)
	if err != nil {
		return Dashboard{}, errx.Network(err, DashboardFailedMessage)
	}
	return Dashboard{Listings: listings, Requests: requests}, nil
}

// Approve approves a request and returns the refreshed dashboard.
func (m *Market) Approve(ctx context.Context, requestID string) (Dashboard, error) {
	if err := m.client.ApproveProduct(ctx, requestID); err != nil {
		return Dashboard{}, errx.Network(err, ApproveFailedMessage)
	}
	return m.Dashboard(ctx)
}

// Find looks a listing up by id in the full catalogue.
func (m *Market) Find(ctx context.Context, id string) (models.Product, error) {
	all, err := m.client.Products(ctx, "")
	if err != nil {
		return models.Product{}, errx.Network(err, FetchFailedMessage)
	}
	for _, p := range all {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, errx.Invalid(fmt.Sprintf("No product with id %q.", id))
}

func ContactSeller(p models.Product) utils.Contact {
	return utils.ContactURI("Seller", p.Seller, p.Phone, p.Email)
}
