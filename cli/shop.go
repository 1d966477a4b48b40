package cli

import (
	"context"
	"fmt"
	"strings"

	"agroverse/cart"
	"agroverse/catalog"
	"agroverse/errx"
	"agroverse/models"
	"agroverse/orders"
	"agroverse/store"
)

const shopHelp = `commands:
  list                 show every product
  search TEXT          filter by name or category
  category [NAME]      list categories, or filter by one (All clears)
  show ID              product details
  add ID               add one unit to the cart
  cart                 show the cart
  checkout             place a cash-on-delivery order
  quit`

func (a *App) shop(ctx context.Context, args []string) error {
	if err := parse(a.flags("store", ""), args); err != nil {
		return err
	}
	s := store.New(a.api)
	if err := s.Load(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "AgroMart: %d products. Type help for commands.\n", len(s.Products()))

	q := catalog.Query{Category: catalog.All}
	for {
		line, ok := a.prompt("agromart> ")
		if !ok {
			fmt.Fprintln(a.out)
			return nil
		}
		verb, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch verb {
		case "":
		case "help":
			fmt.Fprintln(a.out, shopHelp)
		case "list":
			q = catalog.Query{Category: catalog.All}
			a.printShelf(s.Search(q))
		case "search":
			q.Text = arg
			a.printShelf(s.Search(q))
		case "category":
			if arg == "" {
				fmt.Fprintln(a.out, strings.Join(s.Categories(), ", "))
				continue
			}
			q.Category = arg
			a.printShelf(s.Search(q))
		case "show":
			p, found := s.Details(arg)
			if !found {
				fmt.Fprintf(a.errOut, "No product with id %q.\n", arg)
				continue
			}
			a.printDetails(p)
		case "add":
			lines, err := s.Add(arg)
			if err != nil {
				fmt.Fprintln(a.errOut, errx.Message(err))
				continue
			}
			fmt.Fprintf(a.out, "Added to cart. %d items, total ₹%s\n", cart.Count(lines), models.Price(cart.Total(lines)))
		case "cart":
			a.printCart(s.Cart())
		case "checkout":
			if err := a.checkout(ctx, s); err != nil {
				fmt.Fprintln(a.errOut, errx.Message(err))
			}
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(a.errOut, "unknown command %q; type help\n", verb)
		}
	}
}

func (a *App) printShelf(items []models.StoreProduct) {
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No products found.")
		return
	}
	for _, sec := range catalog.Group(items, models.StoreProduct.Group) {
		fmt.Fprintf(a.out, "== %s ==\n", sec.Title)
		tw := table(a.out)
		for _, p := range sec.Items {
			fmt.Fprintf(tw, "%s\t%s\t₹%s\n", p.ID, p.Title(), p.Price)
		}
		tw.Flush()
	}
}

func (a *App) printDetails(p models.StoreProduct) {
	fmt.Fprintln(a.out, p.Title())
	fmt.Fprintf(a.out, "Category: %s\n", p.Category)
	fmt.Fprintf(a.out, "Price: ₹%s\n", p.Price)
	if p.Stock > 0 {
		fmt.Fprintf(a.out, "In stock: %d\n", p.Stock)
	}
	if p.Description != "" {
		fmt.Fprintln(a.out, p.Description)
	}
	if p.ImageURL != "" {
		fmt.Fprintln(a.out, p.ImageURL)
	}
}

func (a *App) printCart(lines []models.CartLine) {
	if len(lines) == 0 {
		fmt.Fprintln(a.out, cart.EmptyCartMessage)
		return
	}
	tw := table(a.out)
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\tx%d\t₹%s\n", l.Name, l.Quantity, models.Price(l.Subtotal()))
	}
	tw.Flush()
	fmt.Fprintf(a.out, "Total: ₹%s\n", models.Price(cart.Total(lines)))
}

func (a *App) checkout(ctx context.Context, s *store.Shop) error {
	if s.Count() == 0 {
		return errx.Invalid(cart.EmptyCartMessage)
	}
	address, _ := a.prompt("Address: ")
	contact, _ := a.prompt("Contact: ")
	mode, _ := a.prompt("Payment mode [COD]: ")
	if mode == "" {
		mode = string(models.PaymentCOD)
	}
	order, err := s.Checkout(ctx, cart.Checkout{
		Address:     address,
		Contact:     contact,
		PaymentMode: models.PaymentMode(strings.ToUpper(mode)),
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, store.OrderPlacedMessage)
	if order.ID != "" {
		fmt.Fprintf(a.out, "Order id: %s\n", order.ID)
	}
	return nil
}

func (a *App) orders(ctx context.Context, args []string) error {
	fs := a.flags("orders", "[-receipts DIR]")
	dir := fs.String("receipts", "", "write a PDF receipt per order into DIR")
	if err := parse(fs, args); err != nil {
		return err
	}
	list, err := orders.New(a.api).List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, orders.EmptyMessage)
		return nil
	}
	for i, o := range list {
		if i > 0 {
			fmt.Fprintln(a.out)
		}
		fmt.Fprint(a.out, orders.Summary(o))
	}
	if *dir == "" {
		return nil
	}
	paths, err := orders.WriteReceipts(*dir, list)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\nWrote %d receipts to %s\n", len(paths), *dir)
	return nil
}
