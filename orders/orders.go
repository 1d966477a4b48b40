// Package orders is the order history screen and its printable receipts.
package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agroverse/errx"
	"agroverse/models"
	"agroverse/remote"
)

const (
	FetchFailedMessage = "Could not fetch orders."
	EmptyMessage       = "No orders yet."
)

type History struct {
	client *remote.Client
}

func New(client *remote.Client) *History {
	return &History{client: client}
}

// List fetches the logged-in user's orders.
func (h *History) List(ctx context.Context) ([]models.Order, error) {
	orders, err := h.client.Orders(ctx)
	if err != nil {
		return nil, errx.Network(err, FetchFailedMessage)
	}
	return orders, nil
}

func formatAmount(v float64) string {
	return models.Price(v).String()
}

// Summary renders an order the way the history screen shows it.
func Summary(o models.Order) string {
	var b strings.Builder
	if o.CreatedAt != nil {
		fmt.Fprintln(&b, o.CreatedAt.Local().Format(time.DateTime))
	}
	if o.User != nil {
		fmt.Fprintf(&b, "Ordered by: %s (%s)\n", o.User.Name, o.User.Email)
	}
	fmt.Fprintf(&b, "Address: %s\n", o.Address)
	fmt.Fprintf(&b, "Contact: %s\n", o.Contact)
	fmt.Fprintf(&b, "Payment: %s\n", o.PaymentMode)
	fmt.Fprintf(&b, "Status: %s\n", o.Status)
	fmt.Fprintf(&b, "Total: ₹%s\n", formatAmount(o.Total))
	b.WriteString("Items:\n")
	for _, l := range o.Items {
		fmt.Fprintf(&b, "  - %s x %d @ ₹%s\n", l.Name, l.Quantity, l.UnitPrice)
	}
	return b.String()
}
