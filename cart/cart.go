package cart

import (
	"strings"

	"agroverse/errx"
	"agroverse/models"
)

// Sellable is anything that can be put in a cart.
type Sellable interface {
	Key() string
	Label() string
	UnitPrice() models.Price
}

// AddToCart increments the quantity if the item is already in the cart, or
// appends a new line with quantity 1. The returned slice is a fresh copy;
// cart itself is never modified.
func AddToCart(cart []models.CartLine, item Sellable) []models.CartLine {
	out := make([]models.CartLine, len(cart), len(cart)+1)
	copy(out, cart)
	for i := range out {
		if out[i].ItemID == item.Key() {
			out[i].Quantity++
			return out
		}
	}
	return append(out, models.CartLine{
		ItemID:    item.Key(),
		Name:      item.Label(),
		UnitPrice: item.UnitPrice(),
		Quantity:  1,
	})
}

func Total(cart []models.CartLine) float64 {
	var total float64
	for _, l := range cart {
		total += l.Subtotal()
	}
	return total
}

// Count is the number of units across all lines.
func Count(cart []models.CartLine) int {
	n := 0
	for _, l := range cart {
		n += l.Quantity
	}
	return n
}

const (
	MissingDetailsMessage = "Please enter address and contact details."
	OnlineSoonMessage     = "Online payment is coming soon. Please choose Cash on Delivery."
	EmptyCartMessage      = "Your cart is empty."
)

// Checkout holds the delivery details collected at checkout.
type Checkout struct {
	Address     string
	Contact     string
	PaymentMode models.PaymentMode
}

func (c Checkout) Validate() error {
	if strings.TrimSpace(c.Address) == "" || strings.TrimSpace(c.Contact) == "" {
		return errx.Invalid(MissingDetailsMessage)
	}
	switch c.PaymentMode {
	case "", models.PaymentCOD:
		return nil
	case models.PaymentOnline:
		return errx.Invalid(OnlineSoonMessage)
	default:
		return errx.Invalid("Unknown payment mode " + string(c.PaymentMode) + ".")
	}
}

// BuildOrder turns a cart and checkout details into the order payload.
func BuildOrder(cart []models.CartLine, c Checkout) (models.Order, error) {
	if len(cart) == 0 {
		return models.Order{}, errx.Invalid(EmptyCartMessage)
	}
	if err := c.Validate(); err != nil {
		return models.Order{}, err
	}
	mode := c.PaymentMode
	if mode == "" {
		mode = models.PaymentCOD
	}
	items := make([]models.CartLine, len(cart))
	copy(items, cart)
	return models.Order{
		Items:       items,
		Total:       Total(cart),
		Address:     strings.TrimSpace(c.Address),
		Contact:     strings.TrimSpace(c.Contact),
		PaymentMode: mode,
	}, nil
}
