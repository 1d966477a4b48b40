// Package store is AgroMart, the retail storefront with an in-memory cart.
package store

import (
	"context"
	"fmt"
	"sync"

	"agroverse/cart"
	"agroverse/catalog"
	"agroverse/errx"
	"agroverse/logx"
	"agroverse/models"
	"agroverse/remote"
)

const (
	FetchFailedMessage    = "Could not fetch products."
	CheckoutFailedMessage = "Error placing order. Please check your connection."
	OrderPlacedMessage    = "Order placed successfully!"
)

// Shop holds the fetched catalogue and the cart for one shopping session.
// The cart lives only in memory and is cleared after a successful checkout.
type Shop struct {
	client *remote.Client

	mu        sync.Mutex
	catalogue []models.StoreProduct
	lines     []models.CartLine
}

func New(client *remote.Client) *Shop {
	return &Shop{client: client}
}

// Load replaces the catalogue with a fresh fetch. The cart is kept.
func (s *Shop) Load(ctx context.Context) error {
	items, err := s.client.StoreProducts(ctx)
	if err != nil {
		return errx.Network(err, FetchFailedMessage)
	}
	s.mu.Lock()
	s.catalogue = items
	s.mu.Unlock()
	return nil
}

func (s *Shop) Products() []models.StoreProduct {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.StoreProduct(nil), s.catalogue...)
}

// Search filters the loaded catalogue; nothing is fetched.
func (s *Shop) Search(q catalog.Query) []models.StoreProduct {
	return catalog.Filter(s.Products(), q, catalog.ListingKeys[models.StoreProduct]())
}

func (s *Shop) Categories() []string {
	return catalog.StoreCategories
}

func (s *Shop) Details(id string) (models.StoreProduct, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.catalogue {
		if p.ID == id {
			return p, true
		}
	}
	return models.StoreProduct{}, false
}

// Add puts one unit of the product with the given id in the cart.
func (s *Shop) Add(id string) ([]models.CartLine, error) {
	p, ok := s.Details(id)
	if !ok {
		return nil, errx.Invalid(fmt.Sprintf("No product with id %q.", id))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = cart.AddToCart(s.lines, p)
	return append([]models.CartLine(nil), s.lines...), nil
}

func (s *Shop) Cart() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CartLine(nil), s.lines...)
}

func (s *Shop) Total() float64 {
	return cart.Total(s.Cart())
}

func (s *Shop) Count() int {
	return cart.Count(s.Cart())
}

func (s *Shop) ClearCart() {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()
}

// Checkout validates the delivery details, requires a logged-in session and
// posts the order. The cart is cleared only when the order is accepted.
func (s *Shop) Checkout(ctx context.Context, details cart.Checkout) (models.Order, error) {
	lines := s.Cart()
	order, err := cart.BuildOrder(lines, details)
	if err != nil {
		return models.Order{}, err
	}
	placed, err := s.client.PlaceOrder(ctx, order)
	if err != nil {
		return models.Order{}, errx.Network(err, CheckoutFailedMessage)
	}
	s.ClearCart()
	logx.Info().Str("order", placed.ID.String()).Float64("total", placed.Total).Int("lines", len(lines)).Msg("order placed")
	return placed, nil
}
