package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT claim set accepted on write requests. Any OIDC-style
// issuer works as long as it signs with RS256/ES256 and sets sub.
type Claims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email,omitempty"`
	Name                 string `json:"name,omitempty"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *Claims) GetUserID() string {
	return c.Subject
}
