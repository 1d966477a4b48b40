package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"

	"agroverse/auth"
	"agroverse/globals"
	"agroverse/utils"
)

// Claims are the backend's access token claims.
type Claims = auth.Claims

var errTokenFormat = errors.New("invalid token format")

func bearer(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.New("missing token")
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", errTokenFormat
	}
	return token, nil
}

// ValidateJWT checks the signature against globals.JwtSecret.
func ValidateJWT(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return globals.JwtSecret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func withUser(r *http.Request, claims *Claims) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), globals.UserIDKey, claims.UserID))
}

// Authenticate rejects requests without a valid bearer token. With no
// secret configured the guard is open and behaves like OptionalAuth.
func Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if len(globals.JwtSecret) == 0 {
			OptionalAuth(next)(w, r, ps)
			return
		}
		token, err := bearer(r)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
			return
		}
		claims, err := ValidateJWT(token)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next(w, withUser(r, claims), ps)
	}
}

// OptionalAuth records the user when a valid token is present and proceeds
// regardless.
func OptionalAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if len(globals.JwtSecret) > 0 {
			if token, err := bearer(r); err == nil {
				if claims, err := ValidateJWT(token); err == nil {
					r = withUser(r, claims)
				}
			}
		}
		next(w, r, ps)
	}
}
