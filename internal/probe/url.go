package probe

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

const checkTokenPath = "/api/check_token/"

// NormalizeServiceURL turns user input into scheme://host[:port][/prefix]
// with no trailing slash. Input without a scheme is treated as https.
func NormalizeServiceURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("%w: service url is empty", ErrConfiguration)
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: invalid service url: %v", ErrConfiguration, err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrConfiguration, u.Scheme)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("%w: service url has no host", ErrConfiguration)
	}

	port := u.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}
	hostport := host
	if port != "" {
		hostport = net.JoinHostPort(host, port)
	} else if strings.Contains(host, ":") {
		hostport = "[" + host + "]" // bare IPv6
	}

	path := strings.TrimRight(u.EscapedPath(), "/")
	return scheme + "://" + hostport + path, nil
}

// CheckTokenURL builds the token check endpoint for serviceURL.
func CheckTokenURL(serviceURL, token string) (string, error) {
	base, err := NormalizeServiceURL(serviceURL)
	if err != nil {
		return "", err
	}
	q := url.Values{"token": {token}}
	return base + checkTokenPath + "?" + q.Encode(), nil
}

// redactedEndpoint is safe to log and return to clients.
func redactedEndpoint(base string) string {
	return base + checkTokenPath + "?token=REDACTED"
}
