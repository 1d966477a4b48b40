package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// Contact is how to reach a seller or owner. URI is empty when no channel
// is known and Fallback carries the message to show instead.
type Contact struct {
	URI      string
	Fallback string
}

// ContactURI prefers the phone, then the email. role labels the fallback,
// e.g. "Owner" or "Seller".
func ContactURI(role, name, phone, email string) Contact {
	if p := strings.TrimSpace(phone); p != "" {
		return Contact{URI: "tel:" + strings.ReplaceAll(p, " ", "")}
	}
	if e := strings.TrimSpace(email); e != "" {
		return Contact{URI: (&url.URL{Scheme: "mailto", Opaque: e}).String()}
	}
	if name == "" {
		name = "Unknown"
	}
	return Contact{Fallback: fmt.Sprintf("%s: %s\nNo contact info available.", role, name)}
}
