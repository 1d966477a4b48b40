package models

import "time"

type PaymentMode string

const (
	PaymentCOD    PaymentMode = "COD"
	PaymentOnline PaymentMode = "ONLINE"
)

// CartLine is one line of a cart; line subtotal is UnitPrice * Quantity.
type CartLine struct {
	ItemID    string `json:"id"`
	Name      string `json:"name"`
	UnitPrice Price  `json:"price"`
	Quantity  int    `json:"quantity"`
}

func (l CartLine) Subtotal() float64 {
	return l.UnitPrice.Float() * float64(l.Quantity)
}

// Order is both the checkout payload and the shape returned by the
// order history endpoint.
type Order struct {
	ID          ID          `json:"id,omitempty"`
	Items       []CartLine  `json:"items"`
	Total       float64     `json:"total"`
	Address     string      `json:"address" validate:"required"`
	Contact     string      `json:"contact" validate:"required"`
	PaymentMode PaymentMode `json:"paymentMode" validate:"oneof=COD ONLINE"`
	Status      string      `json:"status,omitempty"`
	CreatedAt   *time.Time  `json:"createdAt,omitempty"`
	User        *OrderUser  `json:"user,omitempty"`
}

type OrderUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
