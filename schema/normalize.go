package schema

import (
	"strings"
	"unicode"
)

// NormalizeServerName validates a server name. Names are kept verbatim but may
// not be empty, padded, or contain control characters.
func NormalizeServerName(name string) (ServerName, error) {
	if name == "" || strings.TrimSpace(name) != name {
		return "", ErrInvalidServer
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return "", ErrInvalidServer
		}
	}
	return ServerName(name), nil
}

// ValidateDB ensures a database index is non-negative.
func ValidateDB(db int) error {
	if db < 0 {
		return ErrInvalidRequest
	}
	return nil
}
