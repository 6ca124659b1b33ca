package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return uuid.NewString()
}

func GenerateSessionID() string {
	return uuid.NewString()
}

// GenerateFileName builds a collision free object name for an uploaded
// patient document, keeping the original extension.
func GenerateFileName(prefix, owner, originalName string) string {
	timestamp := time.Now().Format("20060102_150405.000000000")
	extension := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%s_%s_%s%s", prefix, owner, timestamp, extension)
}
