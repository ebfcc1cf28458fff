package utils

import "github.com/google/uuid"

// NewID returns a fresh opaque connection identifier.
func NewID() string {
	return uuid.NewString()
}
