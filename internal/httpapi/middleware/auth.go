package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// Keys are the API keys accepted by the settings API. Public keys may read
// settings and run ad-hoc checks; admin keys may also change settings.
type Keys struct {
	Public []string
	Admin  []string
}

type role int

const (
	roleNone role = iota
	rolePublic
	roleAdmin
)

func (k Keys) roleOf(key string) role {
	switch {
	case key == "":
		return roleNone
	case matchAny(key, k.Admin):
		return roleAdmin
	case matchAny(key, k.Public):
		return rolePublic
	}
	return roleNone
}

func matchAny(given string, set []string) bool {
	found := false
	for _, k := range set {
		if subtle.ConstantTimeCompare([]byte(k), []byte(given)) == 1 {
			found = true
		}
	}
	return found
}

// apiKey reads "Authorization: Bearer <key>" or X-API-Key.
func apiKey(r *http.Request) string {
	if h := r.Header.Get("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return strings.TrimSpace(r.Header.Get("X-API-Key"))
}

// RequireAny allows requests that present either a public or admin key.
// With no keys configured at all, every request passes (local dev).
func RequireAny(keys Keys) func(http.Handler) http.Handler {
	return require(keys, rolePublic, len(keys.Public)+len(keys.Admin) > 0)
}

// RequireAdmin only permits admin keys. A missing key is 401, a key
// without admin rights is 403. The gate is on as soon as any key is
// configured, so a public-only setup rejects every write. With no keys at
// all, every request passes (local dev).
func RequireAdmin(keys Keys) func(http.Handler) http.Handler {
	return require(keys, roleAdmin, len(keys.Public)+len(keys.Admin) > 0)
}

func require(keys Keys, min role, enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := apiKey(r)
			got := keys.roleOf(key)
			switch {
			case got >= min:
				next.ServeHTTP(w, r)
			case key != "" && got != roleNone:
				deny(w, http.StatusForbidden, "forbidden")
			default:
				deny(w, http.StatusUnauthorized, "unauthorized")
			}
		})
	}
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
