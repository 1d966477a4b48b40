package utils

import (
	"path/filepath"
	"regexp"

	"github.com/google/uuid"
)

func GetUUID() string {
	return uuid.New().String()
}

var unsafeName = regexp.MustCompile(`[^\w.\-]`)

// SanitizeFilename keeps the base name and replaces anything unusual with _.
func SanitizeFilename(name string) string {
	clean := unsafeName.ReplaceAllString(filepath.Base(name), "_")
	if clean == "" || clean == "." || clean == ".." {
		return "file"
	}
	return clean
}
