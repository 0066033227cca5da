package probe

import (
	"context"
	"errors"

	"github.com/hamed0406/docsync/internal/domain"
)

// Checker performs a single connectivity check against a documentation service.
//
// Errors are classified with the sentinels below:
//   - ErrConfiguration: required input missing or unusable; nothing was sent.
//   - ErrNetwork: transport, DNS or TLS failure, or a non-2xx status.
//   - ErrResponseParse: the body was not a JSON object.
//
// A JSON body with a falsy "status" is a negative result, not an error.
type Checker interface {
	Check(ctx context.Context, serviceURL, token string) (domain.ConnectivityResult, error)
}

var (
	ErrConfiguration = errors.New("configuration error")
	ErrNetwork       = errors.New("network error")
	ErrResponseParse = errors.New("response parse error")
)

// Kind returns a short label for the class of err, or "" if unclassified.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrResponseParse):
		return "response_parse"
	default:
		return ""
	}
}
