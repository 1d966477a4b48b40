package utils

import (
	"encoding/json"
	"net/http"

	"agroverse/errx"
)

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]string{"error": msg})
}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// RespondWithAppError maps err onto its status and safe message.
func RespondWithAppError(w http.ResponseWriter, err error) {
	code := errx.StatusOf(err)
	if code == 0 {
		code = http.StatusInternalServerError
	}
	RespondWithError(w, code, errx.Message(err))
}

type M map[string]interface{}
