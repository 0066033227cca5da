package probe

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// ClientTLS points at PEM files used for mutual TLS with the service.
// All paths are optional; CAPath alone only changes server verification.
type ClientTLS struct {
	CertPath string
	KeyPath  string
	CAPath   string
}

func (c ClientTLS) Enabled() bool {
	return c.CertPath != "" || c.KeyPath != "" || c.CAPath != ""
}

// Config loads the material into a tls.Config. It returns nil, nil when
// nothing is configured so the default transport is used.
func (c ClientTLS) Config() (*tls.Config, error) {
	if !c.Enabled() {
		return nil, nil
	}
	if (c.CertPath == "") != (c.KeyPath == "") {
		return nil, fmt.Errorf("%w: client certificate and key must be set together", ErrConfiguration)
	}

	cfg := &tls.Config{MinVersion: tls.VersionTLS12}

	if c.CertPath != "" {
		pair, err := tls.LoadX509KeyPair(c.CertPath, c.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("%w: load client certificate: %w", ErrConfiguration, err)
		}
		cfg.Certificates = []tls.Certificate{pair}
	}

	if c.CAPath != "" {
		pem, err := os.ReadFile(c.CAPath)
		if err != nil {
			return nil, fmt.Errorf("%w: read ca: %w", ErrConfiguration, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("%w: no certificates found in %s", ErrConfiguration, c.CAPath)
		}
		cfg.RootCAs = pool
	}
	return cfg, nil
}
