package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"agroverse/catalog"
	"agroverse/models"
	"agroverse/products"
	"agroverse/rentals"
	"agroverse/utils"
)

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func status(s models.RequestStatus) string {
	if s.Pending() {
		return string(models.StatusPending)
	}
	return string(s)
}

func (a *App) printContact(c utils.Contact) {
	if c.URI != "" {
		fmt.Fprintln(a.out, c.URI)
		return
	}
	fmt.Fprintln(a.out, c.Fallback)
}

func (a *App) parseQuery(name string, args []string) (catalog.Query, error) {
	fs := a.flags(name, "[-q TEXT] [-category CATEGORY]")
	var q catalog.Query
	fs.StringVar(&q.Text, "q", "", "search text")
	fs.StringVar(&q.Category, "category", catalog.All, "category filter")
	return q, parse(fs, args)
}

func (a *App) products(ctx context.Context, args []string) error {
	m := products.New(a.api)
	run, rest, err := subcommand("products", args, map[string]func(context.Context, []string) error{
		"list": func(ctx context.Context, args []string) error {
			q, err := a.parseQuery("products list", args)
			if err != nil {
				return err
			}
			sections, err := m.Browse(ctx, q)
			if err != nil {
				return err
			}
			if len(sections) == 0 {
				fmt.Fprintln(a.out, "No products found.")
				return nil
			}
			for _, s := range sections {
				fmt.Fprintf(a.out, "== %s ==\n", s.Title)
				tw := table(a.out)
				for _, p := range s.Items {
					fmt.Fprintf(tw, "%s\t%s\t₹%s\t%s\n", p.ID, p.Name, p.Price, p.Seller)
				}
				tw.Flush()
			}
			return nil
		},
		"add": func(ctx context.Context, args []string) error {
			fs := a.flags("products add", "-name NAME -category CATEGORY -price PRICE -seller SELLER [-phone PHONE] [-email EMAIL]")
			var form products.ListingForm
			fs.StringVar(&form.Name, "name", "", "product name")
			fs.StringVar(&form.Category, "category", "", "category")
			fs.StringVar(&form.Price, "price", "", "price")
			fs.StringVar(&form.Seller, "seller", "", "seller name")
			fs.StringVar(&form.Phone, "phone", "", "seller phone")
			fs.StringVar(&form.Email, "email", "", "seller email")
			if err := parse(fs, args); err != nil {
				return err
			}
			p, err := m.AddListing(ctx, form)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Product %q listed under %s (id %s).\n", p.Name, p.Category, p.ID)
			return nil
		},
		"request": func(ctx context.Context, args []string) error {
			fs := a.flags("products request", "-id PRODUCT_ID -quantity N")
			id := fs.String("id", "", "product id")
			qty := fs.String("quantity", "", "units wanted")
			if err := parse(fs, args); err != nil {
				return err
			}
			p, err := m.Find(ctx, *id)
			if err != nil {
				return err
			}
			req, err := m.RequestProduct(ctx, p, *qty)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, products.RequestSentMessage(p, req.Quantity))
			return nil
		},
		"dashboard": func(ctx context.Context, _ []string) error {
			d, err := m.Dashboard(ctx)
			if err != nil {
				return err
			}
			a.printProductDashboard(d)
			return nil
		},
		"approve": func(ctx context.Context, args []string) error {
			fs := a.flags("products approve", "-id REQUEST_ID")
			id := fs.String("id", "", "request id")
			if err := parse(fs, args); err != nil {
				return err
			}
			d, err := m.Approve(ctx, *id)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, products.ApprovedMessage)
			a.printProductDashboard(d)
			return nil
		},
		"contact": func(ctx context.Context, args []string) error {
			fs := a.flags("products contact", "-id PRODUCT_ID")
			id := fs.String("id", "", "product id")
			if err := parse(fs, args); err != nil {
				return err
			}
			p, err := m.Find(ctx, *id)
			if err != nil {
				return err
			}
			a.printContact(products.ContactSeller(p))
			return nil
		},
	})
	if err != nil {
		return err
	}
	return run(ctx, rest)
}

func (a *App) printProductDashboard(d products.Dashboard) {
	fmt.Fprintln(a.out, "My listings:")
	tw := table(a.out)
	for _, p := range d.Listings {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t₹%s\n", p.ID, p.Name, p.Category, p.Price)
	}
	tw.Flush()
	fmt.Fprintln(a.out, "Requests:")
	tw = table(a.out)
	for _, r := range d.Requests {
		name := r.ProductName
		if name == "" {
			name = r.ProductID
		}
		fmt.Fprintf(tw, "  %s\t%s\tx%d\t%s\t%s\n", r.ID, name, r.Quantity, r.RequestedBy, status(r.Status))
	}
	tw.Flush()
}

func (a *App) equipment(ctx context.Context, args []string) error {
	s := rentals.New(a.api)
	run, rest, err := subcommand("equipment", args, map[string]func(context.Context, []string) error{
		"list": func(ctx context.Context, args []string) error {
			q, err := a.parseQuery("equipment list", args)
			if err != nil {
				return err
			}
			sections, err := s.Browse(ctx, q)
			if err != nil {
				return err
			}
			if len(sections) == 0 {
				fmt.Fprintln(a.out, "No equipment found.")
				return nil
			}
			for _, sec := range sections {
				fmt.Fprintf(a.out, "== %s ==\n", sec.Title)
				tw := table(a.out)
				for _, e := range sec.Items {
					fmt.Fprintf(tw, "%s\t%s\t₹%s/day\t%s\n", e.ID, e.Name, e.Price, e.Description)
				}
				tw.Flush()
			}
			return nil
		},
		"add": func(ctx context.Context, args []string) error {
			fs := a.flags("equipment add", "-name NAME -category CATEGORY -price PRICE -description TEXT [-phone PHONE] [-email EMAIL] [-image FILE]")
			var form rentals.ListingForm
			fs.StringVar(&form.Name, "name", "", "equipment name")
			fs.StringVar(&form.Category, "category", "", "category")
			fs.StringVar(&form.Price, "price", "", "price per day")
			fs.StringVar(&form.Description, "description", "", "description")
			fs.StringVar(&form.Phone, "phone", "", "owner phone")
			fs.StringVar(&form.Email, "email", "", "owner email")
			image := fs.String("image", "", "photo to upload")
			if err := parse(fs, args); err != nil {
				return err
			}
			if *image != "" {
				f, err := os.Open(*image)
				if err != nil {
					return fmt.Errorf("open image: %w", err)
				}
				defer f.Close()
				form.Image = f
				form.ImageName = filepath.Base(*image)
			}
			e, err := s.ListEquipment(ctx, form)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, rentals.ListedMessage(e))
			return nil
		},
		"book": func(ctx context.Context, args []string) error {
			fs := a.flags("equipment book", "-id EQUIPMENT_ID -days N")
			id := fs.String("id", "", "equipment id")
			days := fs.String("days", "", "rental days")
			if err := parse(fs, args); err != nil {
				return err
			}
			e, err := s.Find(ctx, *id)
			if err != nil {
				return err
			}
			req, err := s.Book(ctx, e, *days)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, rentals.BookedMessage(req.Days))
			return nil
		},
		"dashboard": func(ctx context.Context, _ []string) error {
			d, err := s.Dashboard(ctx)
			if err != nil {
				return err
			}
			a.printRentalDashboard(d)
			return nil
		},
		"approve": func(ctx context.Context, args []string) error {
			fs := a.flags("equipment approve", "-id REQUEST_ID")
			id := fs.String("id", "", "request id")
			if err := parse(fs, args); err != nil {
				return err
			}
			d, err := s.Approve(ctx, *id)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, rentals.ApprovedMessage)
			a.printRentalDashboard(d)
			return nil
		},
		"contact": func(ctx context.Context, args []string) error {
			fs := a.flags("equipment contact", "-id EQUIPMENT_ID")
			id := fs.String("id", "", "equipment id")
			if err := parse(fs, args); err != nil {
				return err
			}
			e, err := s.Find(ctx, *id)
			if err != nil {
				return err
			}
			a.printContact(rentals.ContactOwner(e))
			return nil
		},
	})
	if err != nil {
		return err
	}
	return run(ctx, rest)
}

func (a *App) printRentalDashboard(d rentals.Dashboard) {
	fmt.Fprintln(a.out, "My equipment:")
	tw := table(a.out)
	for _, e := range d.Listings {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t₹%s/day\n", e.ID, e.Name, e.Category, e.Price)
	}
	tw.Flush()
	fmt.Fprintln(a.out, "Rent requests:")
	tw = table(a.out)
	for _, r := range d.Requests {
		name := r.EquipmentName
		if name == "" {
			name = r.EquipmentID
		}
		fmt.Fprintf(tw, "  %s\t%s\t%d days\t%s\t%s\n", r.ID, name, r.Days, r.RequestedBy, status(r.Status))
	}
	tw.Flush()
}
