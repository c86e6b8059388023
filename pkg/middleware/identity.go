package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const identityKey contextKey = "callerIdentity"

// RoleAdmin marks privileged callers: their uploads are private and
// they see private catalog entries.
const RoleAdmin = "admin"

// Identity is the caller identity established by the portal's auth
// gateway upstream of this service.
type Identity struct {
	UserID uuid.UUID
	Role   string
}

// Privileged reports whether the caller holds the admin role.
func (i Identity) Privileged() bool {
	return i.Role == RoleAdmin
}

// GetIdentity retrieves the caller identity from context.
// Returns false if not present.
func GetIdentity(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// SetIdentity stores the caller identity in context. Exposed for tests.
func SetIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// CallerIdentity extracts the authenticated caller from the trusted
// gateway headers (X-User-ID, X-User-Role) and rejects requests that
// carry none. Verifying those headers is the gateway's job, not ours.
func CallerIdentity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := uuid.Parse(r.Header.Get("X-User-ID"))
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":   "unauthorized",
					"message": "missing or invalid caller identity",
				})
				return
			}

			id := Identity{
				UserID: userID,
				Role:   r.Header.Get("X-User-Role"),
			}
			next.ServeHTTP(w, r.WithContext(SetIdentity(r.Context(), id)))
		})
	}
}
