package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vetdesign/checkout-api/internal/common"
)

// DefaultCookieName is used when no cookie name is configured.
const DefaultCookieName = "sid"

// Middleware assigns every visitor a stable session identifier via cookie.
// Cart and checkout state is keyed by it, which is what lets persisted state
// survive process restarts on both ends.
type Middleware struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

func (m Middleware) cookieName() string {
	if strings.TrimSpace(m.CookieName) == "" {
		return DefaultCookieName
	}
	return m.CookieName
}

func (m Middleware) ttl() time.Duration {
	if m.TTL <= 0 {
		return 180 * 24 * time.Hour
	}
	return m.TTL
}

// Ensure reads the session cookie, issuing a fresh identifier when missing,
// and stores the id on the request context.
func (m Middleware) Ensure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(m.cookieName()); err == nil {
			id = strings.TrimSpace(c.Value)
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     m.cookieName(),
				Value:    id,
				Path:     "/",
				MaxAge:   int(m.ttl() / time.Second),
				HttpOnly: true,
				Secure:   m.Secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(common.WithSessionID(r.Context(), id)))
	})
}
