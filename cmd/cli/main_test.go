package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seen struct {
	method, path, key string
	body              map[string]string
}

func fakeAPI(t *testing.T, status int, got *seen) *httptest.Server {
	t.Helper()
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method, got.path, got.key = r.Method, r.URL.EscapedPath(), r.Header.Get("X-API-Key")
		if r.ContentLength > 0 {
			_ = json.NewDecoder(r.Body).Decode(&got.body)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(s.Close)
	return s
}

func TestRun_Commands(t *testing.T) {
	cases := []struct {
		args       []string
		method     string
		path       string
		wantFields map[string]string
	}{
		{[]string{"show"}, http.MethodGet, "/api/settings", nil},
		{[]string{"set", "service_url", "https://doc.example.com"}, http.MethodPatch, "/api/settings/service_url", map[string]string{"value": "https://doc.example.com"}},
		{[]string{"check"}, http.MethodPost, "/api/settings/check", nil},
		{[]string{"try", "doc.example.com", "tok"}, http.MethodPost, "/api/check", map[string]string{"service_url": "doc.example.com", "access_token": "tok"}},
		{[]string{"diagnose"}, http.MethodGet, "/api/settings/diagnose", nil},
	}
	for _, c := range cases {
		t.Run(c.args[0], func(t *testing.T) {
			var got seen
			s := fakeAPI(t, http.StatusOK, &got)
			var out bytes.Buffer

			args := append([]string{"-api", s.URL + "/", "-key", "adm_test"}, c.args...)
			require.NoError(t, run(args, &out))

			assert.Equal(t, c.method, got.method)
			assert.Equal(t, c.path, got.path)
			assert.Equal(t, "adm_test", got.key)
			if c.wantFields != nil {
				assert.Equal(t, c.wantFields, got.body)
			}
			assert.Contains(t, out.String(), `"ok": true`)
		})
	}
}

func TestRun_Errors(t *testing.T) {
	var got seen
	s := fakeAPI(t, http.StatusBadGateway, &got)
	var out bytes.Buffer

	err := run([]string{"-api", s.URL, "check"}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")

	assert.Error(t, run([]string{"-api", s.URL}, &out))
	assert.Error(t, run([]string{"-api", s.URL, "set", "service_url"}, &out))
	assert.Contains(t, out.String(), "usage:")
}
