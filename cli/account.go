package cli

import (
	"context"
	"fmt"

	"agroverse/auth"
	"agroverse/errx"
	"agroverse/models"
)

func (a *App) login(ctx context.Context, args []string) error {
	fs := a.flags("login", "-email EMAIL [-password PASSWORD]")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password; prompted for when omitted")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *email != "" && *password == "" {
		*password, _ = a.prompt("Password: ")
	}
	creds := models.Credentials{Email: *email, Password: *password}
	if err := auth.Login(ctx, a.api, a.session, creds); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged in successfully!")
	return nil
}

func (a *App) register(ctx context.Context, args []string) error {
	fs := a.flags("register", "-email EMAIL -name NAME [-password PASSWORD] [-contact PHONE] [-address ADDRESS]")
	reg := models.Registration{}
	fs.StringVar(&reg.Email, "email", "", "account email")
	fs.StringVar(&reg.Name, "name", "", "display name")
	fs.StringVar(&reg.Password, "password", "", "password; prompted for when omitted")
	fs.StringVar(&reg.ContactNo, "contact", "", "contact number")
	fs.StringVar(&reg.Address, "address", "", "postal address")
	if err := parse(fs, args); err != nil {
		return err
	}
	if reg.Email != "" && reg.Password == "" {
		reg.Password, _ = a.prompt("Password: ")
	}
	msg, err := auth.Register(ctx, a.api, a.session, reg)
	if err != nil {
		return err
	}
	if msg != "" {
		fmt.Fprintln(a.out, msg)
	}
	fmt.Fprintln(a.out, "Registered successfully!")
	return nil
}

func (a *App) logout(_ context.Context, _ []string) error {
	if err := a.session.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) whoami(_ context.Context, _ []string) error {
	if !a.session.Authenticated() {
		return errx.NotAuthenticated("Not logged in.")
	}
	name := a.session.Username()
	if name == "" {
		name = "(unknown)"
	}
	fmt.Fprintf(a.out, "%s (id %s)\n", name, a.session.UserID())
	return nil
}
