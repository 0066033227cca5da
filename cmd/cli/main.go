package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const usage = `usage: docsync-cli [-api URL] [-key KEY] <command>

commands:
  show                      print the stored settings (token masked)
  set <field> <value>       change one setting
  check                     test the stored service URL and token
  try <service-url> <token> test a URL and token without saving them
  diagnose                  DNS diagnosis of the stored service host
`

func main() {
	_ = godotenv.Load()
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type client struct {
	base string
	key  string
	http *http.Client
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("docsync-cli", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { fmt.Fprint(out, usage) }
	api := fs.String("api", envOr("API_BASE", "http://localhost:8080"), "API base URL")
	key := fs.String("key", os.Getenv("API_KEY"), "API key sent as X-API-Key")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c := &client{
		base: strings.TrimRight(*api, "/"),
		key:  *key,
		http: &http.Client{Timeout: 30 * time.Second},
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errors.New("missing command")
	}
	switch cmd := rest[0]; {
	case cmd == "show" && len(rest) == 1:
		return c.call(out, http.MethodGet, "/api/settings", nil)
	case cmd == "set" && len(rest) == 3:
		return c.call(out, http.MethodPatch, "/api/settings/"+url.PathEscape(rest[1]), map[string]string{"value": rest[2]})
	case cmd == "check" && len(rest) == 1:
		return c.call(out, http.MethodPost, "/api/settings/check", nil)
	case cmd == "try" && len(rest) == 3:
		return c.call(out, http.MethodPost, "/api/check", map[string]string{"service_url": rest[1], "access_token": rest[2]})
	case cmd == "diagnose" && len(rest) == 1:
		return c.call(out, http.MethodGet, "/api/settings/diagnose", nil)
	default:
		fs.Usage()
		return fmt.Errorf("bad command: %s", strings.Join(rest, " "))
	}
}

func (c *client) call(out io.Writer, method, path string, body any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.key != "" {
		req.Header.Set("X-API-Key", c.key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("contacting API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	var pretty bytes.Buffer
	if json.Indent(&pretty, raw, "", "  ") == nil {
		raw = pretty.Bytes()
	}
	fmt.Fprintln(out, strings.TrimSpace(string(raw)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API returned status: %s", resp.Status)
	}
	return nil
}

func envOr(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}
