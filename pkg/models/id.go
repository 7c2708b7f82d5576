package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewID returns a fresh storage identifier.
func NewID() string {
	return uuid.New().String()
}

// ParseID validates an identifier received from outside the service and
// returns it in canonical form.
func ParseID(raw string) (string, error) {
	u, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, raw)
	}
	return u.String(), nil
}
