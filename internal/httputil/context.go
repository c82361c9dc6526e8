package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const (
	userKey contextKey = "user"
)

// User is the authenticated caller of a request.
type User struct {
	ID    string
	Email string
}

// WithUser adds the authenticated user to the request context
func WithUser(r *http.Request, user User) *http.Request {
	ctx := context.WithValue(r.Context(), userKey, user)
	return r.WithContext(ctx)
}

// GetUser retrieves the authenticated user, if any
func GetUser(r *http.Request) (User, bool) {
	user, ok := r.Context().Value(userKey).(User)
	return user, ok
}

// GetUserID retrieves the user ID from context, returns empty string if not found
func GetUserID(r *http.Request) string {
	user, _ := GetUser(r)
	return user.ID
}
