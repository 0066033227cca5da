package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hamed0406/docsync/internal/domain"
)

const (
	DefaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

type Options struct {
	Timeout time.Duration
	TLS     ClientTLS
	Logger  *zap.Logger
}

// TokenChecker calls the service's check_token endpoint. It is safe for
// concurrent use; every Check is independent.
type TokenChecker struct {
	Client *http.Client
	log    *zap.Logger
}

func NewTokenChecker(opts Options) (*TokenChecker, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	hc := &http.Client{Timeout: timeout}

	tlsCfg, err := opts.TLS.Config()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.TLSClientConfig = tlsCfg
		hc.Transport = tr
	}

	return &TokenChecker{Client: hc, log: log}, nil
}

func (c *TokenChecker) Check(ctx context.Context, serviceURL, token string) (domain.ConnectivityResult, error) {
	res := domain.ConnectivityResult{
		ID:        uuid.NewString(),
		CheckedAt: time.Now().UTC(),
	}

	if strings.TrimSpace(serviceURL) == "" || token == "" {
		return res, fmt.Errorf("%w: service url and access token are required", ErrConfiguration)
	}
	base, err := NormalizeServiceURL(serviceURL)
	if err != nil {
		return res, err
	}
	res.Endpoint = redactedEndpoint(base)

	endpoint, err := CheckTokenURL(base, token)
	if err != nil {
		return res, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return res, fmt.Errorf("%w: build request: %v", ErrConfiguration, err)
	}
	req.Header.Set("Accept", "application/json")

	c.log.Info("check_started", zap.String("check_id", res.ID), zap.String("endpoint", res.Endpoint))

	start := time.Now()
	resp, err := c.Client.Do(req)
	res.LatencyMS = time.Since(start).Seconds() * 1000 // ms
	if err != nil {
		err = c.fail(res, fmt.Errorf("%w: %w", ErrNetwork, redactURLError(err, res.Endpoint)))
		return res, err
	}
	defer resp.Body.Close()
	res.HTTPStatus = resp.StatusCode

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return res, c.fail(res, fmt.Errorf("%w: read body: %w", ErrNetwork, err))
	}
	if resp.StatusCode/100 != 2 {
		return res, c.fail(res, fmt.Errorf("%w: unexpected status %s", ErrNetwork, resp.Status))
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return res, c.fail(res, fmt.Errorf("%w: %v", ErrResponseParse, err))
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return res, c.fail(res, fmt.Errorf("%w: expected a JSON object", ErrResponseParse))
	}

	res.Response = obj
	res.Succeeded = truthy(obj["status"])

	c.log.Info("check_finished",
		zap.String("check_id", res.ID),
		zap.Bool("succeeded", res.Succeeded),
		zap.Int("http_status", res.HTTPStatus),
		zap.Float64("latency_ms", res.LatencyMS),
	)
	return res, nil
}

func (c *TokenChecker) fail(res domain.ConnectivityResult, err error) error {
	c.log.Warn("check_failed",
		zap.String("check_id", res.ID),
		zap.String("endpoint", res.Endpoint),
		zap.String("kind", Kind(err)),
		zap.Int("http_status", res.HTTPStatus),
		zap.Error(err),
	)
	return err
}

// redactURLError keeps the token out of error text; *url.Error embeds the
// full request URL.
func redactURLError(err error, endpoint string) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = endpoint
	}
	return err
}

// truthy follows JSON truthiness: false, 0, "", null and missing are false.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	default:
		return true
	}
}
