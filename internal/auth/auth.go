package auth

import "context"

// User represents an authenticated account. Role assignments live in the
// rbac package; this type carries identity only.
type User struct {
	ID    string
	Email string
	Name  string
}

// SessionLookup is the interface for resolving session tokens to users.
type SessionLookup interface {
	LookupSession(ctx context.Context, token string) (*User, error)
}
