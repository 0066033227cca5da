package probe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newChecker(t *testing.T, timeout time.Duration) *TokenChecker {
	t.Helper()
	chk, err := NewTokenChecker(Options{Timeout: timeout})
	if err != nil {
		t.Fatalf("NewTokenChecker: %v", err)
	}
	return chk
}

func jsonServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(s.Close)
	return s
}

func TestTokenChecker_StatusTrue(t *testing.T) {
	var gotPath, gotToken string
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.URL.Query().Get("token")
		w.Write([]byte(`{"status": true, "data": "ok"}`))
	}))
	defer s.Close()

	out, err := newChecker(t, 2*time.Second).Check(context.Background(), s.URL+"/", "secret-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Succeeded {
		t.Fatalf("want success, got %+v", out)
	}
	if gotPath != "/api/check_token/" || gotToken != "secret-token" {
		t.Fatalf("request path/token wrong: %q %q", gotPath, gotToken)
	}
	if out.HTTPStatus != 200 || out.ID == "" || out.CheckedAt.IsZero() {
		t.Fatalf("result metadata missing: %+v", out)
	}
	if strings.Contains(out.Endpoint, "secret-token") {
		t.Fatalf("endpoint leaks token: %q", out.Endpoint)
	}
	if out.Response["data"] != "ok" {
		t.Fatalf("raw response not kept: %+v", out.Response)
	}
}

func TestTokenChecker_StatusFalseIsNotAnError(t *testing.T) {
	s := jsonServer(t, 200, `{"status": false, "data": "token invalid"}`)

	out, err := newChecker(t, 2*time.Second).Check(context.Background(), s.URL, "bad")
	if err != nil {
		t.Fatalf("want nil error for negative result, got %v", err)
	}
	if out.Succeeded {
		t.Fatalf("want succeeded=false, got %+v", out)
	}
}

func TestTokenChecker_Truthiness(t *testing.T) {
	cases := []struct {
		body string
		want bool
	}{
		{`{"status": 1}`, true},
		{`{"status": 0}`, false},
		{`{"status": "yes"}`, true},
		{`{"status": ""}`, false},
		{`{"status": null}`, false},
		{`{"status": {}}`, true},
		{`{"status": []}`, true},
		{`{"data": "no status"}`, false},
	}
	chk := newChecker(t, 2*time.Second)
	for _, c := range cases {
		s := jsonServer(t, 200, c.body)
		out, err := chk.Check(context.Background(), s.URL, "tok")
		if err != nil {
			t.Fatalf("%s: unexpected error %v", c.body, err)
		}
		if out.Succeeded != c.want {
			t.Fatalf("%s: want succeeded=%v", c.body, c.want)
		}
	}
}

func TestTokenChecker_InvalidJSON(t *testing.T) {
	chk := newChecker(t, 2*time.Second)
	for _, body := range []string{`<html>oops</html>`, `{"status": tru`, `[true]`, `"status"`, ``} {
		s := jsonServer(t, 200, body)
		_, err := chk.Check(context.Background(), s.URL, "tok")
		if !errors.Is(err, ErrResponseParse) {
			t.Fatalf("%q: want ErrResponseParse, got %v", body, err)
		}
	}
}

func TestTokenChecker_Non2xxIsNetworkError(t *testing.T) {
	s := jsonServer(t, 500, `{"status": true}`)

	out, err := newChecker(t, 2*time.Second).Check(context.Background(), s.URL, "tok")
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("want ErrNetwork, got %v", err)
	}
	if out.Succeeded || out.HTTPStatus != 500 {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestTokenChecker_EmptyInputsMakeNoRequest(t *testing.T) {
	var hits int32
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`{"status": true}`))
	}))
	defer s.Close()

	chk := newChecker(t, 2*time.Second)
	for _, in := range [][2]string{{"", "tok"}, {s.URL, ""}, {"", ""}, {"   ", "tok"}} {
		_, err := chk.Check(context.Background(), in[0], in[1])
		if !errors.Is(err, ErrConfiguration) {
			t.Fatalf("%q: want ErrConfiguration, got %v", in, err)
		}
	}
	if n := atomic.LoadInt32(&hits); n != 0 {
		t.Fatalf("want zero requests, got %d", n)
	}
}

func TestTokenChecker_ConnectionRefused(t *testing.T) {
	s := httptest.NewServer(http.NotFoundHandler())
	addr := s.URL
	s.Close()

	_, err := newChecker(t, 2*time.Second).Check(context.Background(), addr, "secret-token")
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("want ErrNetwork, got %v", err)
	}
	if strings.Contains(err.Error(), "secret-token") {
		t.Fatalf("error leaks token: %v", err)
	}
}

func TestTokenChecker_Timeout(t *testing.T) {
	// Server sleeps longer than client timeout
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"status": true}`))
	}))
	defer s.Close()

	out, err := newChecker(t, 50*time.Millisecond).Check(context.Background(), s.URL, "tok")
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("want ErrNetwork due to timeout, got %v", err)
	}
	if out.HTTPStatus != 0 {
		t.Fatalf("want status 0 on transport error, got %d", out.HTTPStatus)
	}
}

func TestTokenChecker_ContextCanceled(t *testing.T) {
	s := jsonServer(t, 200, `{"status": true}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newChecker(t, 2*time.Second).Check(ctx, s.URL, "tok")
	if !errors.Is(err, ErrNetwork) || !errors.Is(err, context.Canceled) {
		t.Fatalf("want ErrNetwork wrapping context.Canceled, got %v", err)
	}
}
