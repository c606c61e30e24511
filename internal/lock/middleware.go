package lock

import (
	"context"
	"net/http"
	"time"

	"github.com/vetdesign/checkout-api/internal/common"
)

// SessionGuard serialises mutating requests per session so concurrent tabs
// cannot interleave load-mutate-save cycles and lose writes.
type SessionGuard struct {
	Locker Locker
	TTL    time.Duration
}

// Middleware implements the http.Handler middleware interface. Requests
// without a session pass through; the handler rejects those itself.
func (g SessionGuard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid, ok := common.SessionID(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		err := g.Locker.WithLock(r.Context(), SessionKey(sid), g.TTL, func(ctx context.Context) error {
			next.ServeHTTP(w, r.WithContext(ctx))
			return nil
		})
		if err != nil {
			common.JSONError(w, http.StatusServiceUnavailable, "BUSY", "could not serialise request", nil)
		}
	})
}
