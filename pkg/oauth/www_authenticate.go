// Package oauth holds the narrow slice of OAuth 2.0 challenge parsing that the
// aggregating proxy needs: recognizing a 401 from a downstream server as an
// authentication challenge rather than a generic connection failure. It does not
// implement any authorization-code or token-refresh flow.
package oauth

import (
	"fmt"
	"regexp"
	"strings"
)

// AuthChallenge is the parsed content of a WWW-Authenticate header.
type AuthChallenge struct {
	Scheme           string
	Realm            string
	Scope            string
	Error            string
	ErrorDescription string
}

var authParamPattern = regexp.MustCompile(`(\w+)="([^"]*)"`)

// ParseWWWAuthenticate parses a WWW-Authenticate header value, e.g.
// `Bearer realm="https://auth.example.com", scope="openid profile"`.
func ParseWWWAuthenticate(header string) (*AuthChallenge, error) {
	if header == "" {
		return nil, fmt.Errorf("empty WWW-Authenticate header")
	}

	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	challenge := &AuthChallenge{Scheme: parts[0]}

	if len(parts) > 1 {
		for _, match := range authParamPattern.FindAllStringSubmatch(parts[1], -1) {
			key, value := strings.ToLower(match[1]), match[2]
			switch key {
			case "realm":
				challenge.Realm = value
			case "scope":
				challenge.Scope = value
			case "error":
				challenge.Error = value
			case "error_description":
				challenge.ErrorDescription = value
			}
		}
	}

	return challenge, nil
}

// ParseWWWAuthenticateFromError attempts to extract an auth challenge from an
// error message when the HTTP response itself is not available. Returns nil if
// the error does not look like a 401.
func ParseWWWAuthenticateFromError(err error) *AuthChallenge {
	if err == nil {
		return nil
	}

	errStr := err.Error()
	if !Is401Error(errStr) {
		return nil
	}

	if idx := strings.Index(errStr, "Bearer"); idx >= 0 {
		remaining := errStr[idx:]
		if endIdx := strings.IndexAny(remaining, "\n\r"); endIdx > 0 {
			remaining = remaining[:endIdx]
		}
		if challenge, parseErr := ParseWWWAuthenticate(remaining); parseErr == nil {
			return challenge
		}
	}

	return &AuthChallenge{Scheme: "Bearer"}
}

// Is401Error reports whether an error message indicates a 401 Unauthorized response.
func Is401Error(errStr string) bool {
	return strings.Contains(errStr, "401") || strings.Contains(strings.ToLower(errStr), "unauthorized")
}
