package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireAdminAndAny(t *testing.T) {
	keys := Keys{
		Public: []string{"pub_key"},
		Admin:  []string{"adm_key"},
	}
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	cases := []struct {
		name      string
		header    string
		value     string
		wantAdmin int
		wantAny   int
	}{
		{"admin key", "X-API-Key", "adm_key", http.StatusOK, http.StatusOK},
		{"admin bearer", "Authorization", "Bearer adm_key", http.StatusOK, http.StatusOK},
		{"public key", "X-API-Key", "pub_key", http.StatusForbidden, http.StatusOK},
		{"public bearer lowercase", "Authorization", "bearer pub_key", http.StatusForbidden, http.StatusOK},
		{"unknown key", "X-API-Key", "nope", http.StatusUnauthorized, http.StatusUnauthorized},
		{"missing key", "", "", http.StatusUnauthorized, http.StatusUnauthorized},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
			if c.header != "" {
				req.Header.Set(c.header, c.value)
			}

			rec := httptest.NewRecorder()
			RequireAdmin(keys)(okHandler).ServeHTTP(rec, req)
			if rec.Code != c.wantAdmin {
				t.Fatalf("RequireAdmin: want %d, got %d", c.wantAdmin, rec.Code)
			}

			rec = httptest.NewRecorder()
			RequireAny(keys)(okHandler).ServeHTTP(rec, req)
			if rec.Code != c.wantAny {
				t.Fatalf("RequireAny: want %d, got %d", c.wantAny, rec.Code)
			}
		})
	}
}

func TestAuth_NoKeysConfiguredPassesThrough(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	for _, mw := range []func(http.Handler) http.Handler{RequireAdmin(Keys{}), RequireAny(Keys{})} {
		rec := httptest.NewRecorder()
		mw(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("want pass-through, got %d", rec.Code)
		}
	}
}

func TestRequireAdmin_PublicOnlyKeysStillGateWrites(t *testing.T) {
	keys := Keys{Public: []string{"pub"}}
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	cases := []struct {
		key  string
		want int
	}{
		{"", http.StatusUnauthorized},
		{"pub", http.StatusForbidden},
		{"guess", http.StatusUnauthorized},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPut, "/api/settings", nil)
		if c.key != "" {
			req.Header.Set("X-API-Key", c.key)
		}
		rec := httptest.NewRecorder()
		RequireAdmin(keys)(okHandler).ServeHTTP(rec, req)
		if rec.Code != c.want {
			t.Fatalf("key %q: want %d, got %d", c.key, c.want, rec.Code)
		}
	}
}
