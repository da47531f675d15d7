package utils

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// GenerateID returns a new opaque unique identifier.
func GenerateID() string {
	return uuid.NewString()
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatSize renders a byte count as a human-readable string, e.g. "1.50 KB".
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}

	exp := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if exp >= len(sizeUnits) {
		exp = len(sizeUnits) - 1
	}

	size := float64(bytes) / math.Pow(1024, float64(exp))

	return fmt.Sprintf("%.2f %s", size, sizeUnits[exp])
}
