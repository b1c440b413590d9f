package shared

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpired reports whether a stored bearer token has passed its exp claim.
//
// The signature is NOT verified; the server is the authority and rejects bad
// tokens anyway. This only lets the client drop a session that is already
// known to be stale instead of restoring it and failing on the first request.
// Tokens without an exp claim, or that are not JWTs at all, are treated as
// still usable.
func TokenExpired(token string, now time.Time) bool {
	if token == "" {
		return true
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Before(now)
}

// BearerHeader formats a token for the Authorization header.
func BearerHeader(token string) string {
	return fmt.Sprintf("Bearer %s", token)
}
