package utils

import (
	"net/http"

	"agroverse/globals"
)

func GetUserIDFromRequest(r *http.Request) string {
	requestingUserID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok {
		return ""
	}
	return requestingUserID
}

func GetRequestID(r *http.Request) string {
	if id, ok := r.Context().Value(globals.RequestIDKey).(string); ok {
		return id
	}
	return ""
}
