package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"agroverse/models"
	"agroverse/utils"
)

// Resource is a collection path on the backend.
type Resource string

const (
	LoginResource           Resource = "/api/auth/login"
	RegisterResource        Resource = "/api/auth/register"
	EquipmentResource       Resource = "/api/equipment"
	ProductsResource        Resource = "/api/products"
	StoreProductsResource   Resource = "/api/productsb2c"
	RentRequestsResource    Resource = "/api/rent-requests"
	ProductRequestsResource Resource = "/api/product-requests"
	OrdersResource          Resource = "/api/orders"
	UploadResource          Resource = "/api/upload"
)

// FetchList GETs a collection. A JSON null body yields an empty slice.
func FetchList[T any](ctx context.Context, c *Client, res Resource, query url.Values) ([]T, error) {
	var out []T
	if err := c.do(ctx, call{method: http.MethodGet, path: string(res), query: query}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// CreateRecord POSTs a new record. When the backend echoes the record its
// fields are merged over payload, so a server-assigned id comes back.
func CreateRecord[T any](ctx context.Context, c *Client, res Resource, payload T) (T, error) {
	cl, err := jsonCall(http.MethodPost, res, payload)
	if err != nil {
		return payload, err
	}
	created := payload
	if err := c.do(ctx, cl, &created); err != nil {
		return payload, err
	}
	return created, nil
}

// CreateRequest POSTs a request payload P and decodes the stored request R.
func CreateRequest[P any, R any](ctx context.Context, c *Client, res Resource, payload P) (R, error) {
	var out R
	cl, err := jsonCall(http.MethodPost, res, payload)
	if err != nil {
		return out, err
	}
	err = c.do(ctx, cl, &out)
	return out, err
}

// ApproveRequest POSTs to {res}/{id}/approve.
func ApproveRequest(ctx context.Context, c *Client, res Resource, id string) error {
	if id == "" {
		return fmt.Errorf("approve %s: empty id", res)
	}
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   string(res) + "/" + url.PathEscape(id) + "/approve",
	}, nil)
}

// GetJSON GETs an arbitrary path below the base URL, sending the bearer
// token when the session has one.
func GetJSON(ctx context.Context, c *Client, path string, query url.Values, out any) error {
	return c.do(ctx, call{method: http.MethodGet, path: path, query: query, bearerIfAny: true}, out)
}

func byOwner(key, id string) url.Values {
	if id == "" {
		return nil
	}
	return url.Values{key: {id}}
}

func (c *Client) Login(ctx context.Context, creds models.Credentials) (models.AuthResponse, error) {
	return c.authCall(ctx, LoginResource, creds)
}

func (c *Client) Register(ctx context.Context, reg models.Registration) (models.AuthResponse, error) {
	return c.authCall(ctx, RegisterResource, reg)
}

func (c *Client) authCall(ctx context.Context, res Resource, payload any) (models.AuthResponse, error) {
	var out models.AuthResponse
	cl, err := jsonCall(http.MethodPost, res, payload)
	if err != nil {
		return out, err
	}
	cl.public = true
	err = c.do(ctx, cl, &out)
	return out, err
}

// Equipment lists rentable equipment, optionally only ownerID's.
func (c *Client) Equipment(ctx context.Context, ownerID string) ([]models.Equipment, error) {
	return FetchList[models.Equipment](ctx, c, EquipmentResource, byOwner("ownerId", ownerID))
}

func (c *Client) CreateEquipment(ctx context.Context, e models.Equipment) (models.Equipment, error) {
	return CreateRecord(ctx, c, EquipmentResource, e)
}

// Products lists B2B listings, optionally only sellerID's.
func (c *Client) Products(ctx context.Context, sellerID string) ([]models.Product, error) {
	return FetchList[models.Product](ctx, c, ProductsResource, byOwner("sellerId", sellerID))
}

func (c *Client) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	return CreateRecord(ctx, c, ProductsResource, p)
}

func (c *Client) StoreProducts(ctx context.Context) ([]models.StoreProduct, error) {
	return FetchList[models.StoreProduct](ctx, c, StoreProductsResource, nil)
}

func (c *Client) RentRequests(ctx context.Context, ownerID string) ([]models.RentRequest, error) {
	return FetchList[models.RentRequest](ctx, c, RentRequestsResource, byOwner("ownerId", ownerID))
}

func (c *Client) RequestRent(ctx context.Context, r models.NewRentRequest) (models.RentRequest, error) {
	return CreateRequest[models.NewRentRequest, models.RentRequest](ctx, c, RentRequestsResource, r)
}

func (c *Client) ApproveRent(ctx context.Context, id string) error {
	return ApproveRequest(ctx, c, RentRequestsResource, id)
}

func (c *Client) ProductRequests(ctx context.Context, sellerID string) ([]models.ProductRequest, error) {
	return FetchList[models.ProductRequest](ctx, c, ProductRequestsResource, byOwner("sellerId", sellerID))
}

func (c *Client) RequestProduct(ctx context.Context, r models.NewProductRequest) (models.ProductRequest, error) {
	return CreateRequest[models.NewProductRequest, models.ProductRequest](ctx, c, ProductRequestsResource, r)
}

func (c *Client) ApproveProduct(ctx context.Context, id string) error {
	return ApproveRequest(ctx, c, ProductRequestsResource, id)
}

const (
	ordersLoginMessage   = "Please login to view your orders."
	checkoutLoginMessage = "Please login to place an order."
)

// Orders is the authenticated order history.
func (c *Client) Orders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	err := c.do(ctx, call{
		method:     http.MethodGet,
		path:       string(OrdersResource),
		authorized: true,
		loginMsg:   ordersLoginMessage,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Order{}
	}
	return out, nil
}

// PlaceOrder submits a checkout. It needs a token.
func (c *Client) PlaceOrder(ctx context.Context, o models.Order) (models.Order, error) {
	cl, err := jsonCall(http.MethodPost, OrdersResource, o)
	if err != nil {
		return o, err
	}
	cl.authorized = true
	cl.loginMsg = checkoutLoginMessage
	placed := o
	if err := c.do(ctx, cl, &placed); err != nil {
		return o, err
	}
	return placed, nil
}

type UploadResult struct {
	URL      string `json:"url"`
	ImageURL string `json:"imageUrl"`
}

// Link is whichever field the backend filled.
func (u UploadResult) Link() string {
	if u.URL != "" {
		return u.URL
	}
	return u.ImageURL
}

// Upload sends one image as multipart field "image" and returns its URL.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", utils.SanitizeFilename(filename))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}
	var out UploadResult
	err = c.do(ctx, call{
		method:      http.MethodPost,
		path:        string(UploadResource),
		body:        buf.Bytes(),
		contentType: mw.FormDataContentType(),
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Link(), nil
}
