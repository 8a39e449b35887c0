package auth

import (
	"errors"
	"fmt"
	"strings"
)

const bearerPrefix = "Bearer "

var ErrMalformedHeader = errors.New("missing or malformed authorization header")

// HeaderValue looks a header up ignoring case; API Gateway may pass it lowercased.
func HeaderValue(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(authHeader string) (string, error) {
	const op = "auth.BearerToken"

	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", fmt.Errorf("%s: %w", op, ErrMalformedHeader)
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
	if token == "" || strings.Contains(token, " ") {
		return "", fmt.Errorf("%s: %w", op, ErrMalformedHeader)
	}

	return token, nil
}
