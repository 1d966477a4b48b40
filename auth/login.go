package auth

import (
	"context"
	"errors"
	"strings"

	"agroverse/errx"
	"agroverse/models"
)

// Authenticator is the backend half of login and registration.
type Authenticator interface {
	Login(ctx context.Context, creds models.Credentials) (models.AuthResponse, error)
	Register(ctx context.Context, reg models.Registration) (models.AuthResponse, error)
}

const (
	LoginFieldsMessage    = "Please enter email and password."
	RegisterFieldsMessage = "Please fill in all fields"
)

// Login validates creds locally, calls the backend and begins the session
// only when a token comes back.
func Login(ctx context.Context, backend Authenticator, s *Session, creds models.Credentials) error {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return errx.Invalid(LoginFieldsMessage)
	}
	resp, err := backend.Login(ctx, creds)
	if err != nil {
		return err
	}
	return begin(s, resp)
}

// Register creates an account. Backends that log the user in on signup
// return a token, which begins the session.
func Register(ctx context.Context, backend Authenticator, s *Session, reg models.Registration) (string, error) {
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Name = strings.TrimSpace(reg.Name)
	if reg.Email == "" || reg.Password == "" || reg.Name == "" {
		return "", errx.Invalid(RegisterFieldsMessage)
	}
	resp, err := backend.Register(ctx, reg)
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return resp.Message, nil
	}
	return resp.Message, begin(s, resp)
}

func begin(s *Session, resp models.AuthResponse) error {
	if resp.Token == "" {
		msg := resp.Error
		if msg == "" {
			msg = "Login failed: no token received."
		}
		return errx.Transport(0, msg, errors.New("missing token"))
	}
	return s.Begin(resp.Token)
}
