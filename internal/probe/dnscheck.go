package probe

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"time"
)

const (
	DNSResolves      = "RESOLVES"
	DNSNXDomain      = "NXDOMAIN"
	DNSNoARecord     = "NO_A_RECORD"
	DNSServfail      = "SERVFAIL_or_TIMEOUT"
	DNSInvalidName   = "INVALID_NAME"
	defaultDNSBudget = 3 * time.Second
)

// DNSStatus explains why a service host might be unreachable.
type DNSStatus struct {
	Host          string   `json:"host"`
	Class         string   `json:"class"`
	HasAOrAAAA    bool     `json:"has_a_or_aaaa"`
	IPs           []string `json:"ips,omitempty"`
	CNAME         string   `json:"cname,omitempty"`
	HasNS         bool     `json:"has_ns"`
	Nameservers   []string `json:"nameservers,omitempty"`
	ResolverError string   `json:"resolver_error,omitempty"`
}

// Resolver is the subset of *net.Resolver used for diagnosis.
type Resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
	LookupCNAME(ctx context.Context, host string) (string, error)
	LookupNS(ctx context.Context, name string) ([]*net.NS, error)
}

// DiagnoseHost classifies DNS for the host of serviceURL using the system
// resolver. It is an operator tool for after a network failure, not part
// of Check.
func DiagnoseHost(ctx context.Context, serviceURL string) DNSStatus {
	return DiagnoseHostWith(ctx, net.DefaultResolver, serviceURL)
}

func DiagnoseHostWith(ctx context.Context, r Resolver, serviceURL string) DNSStatus {
	base, err := NormalizeServiceURL(serviceURL)
	if err != nil {
		return DNSStatus{Host: strings.TrimSpace(serviceURL), Class: DNSInvalidName, ResolverError: err.Error()}
	}
	u, _ := url.Parse(base)
	host := u.Hostname()

	if ip := net.ParseIP(host); ip != nil {
		return DNSStatus{Host: host, Class: DNSResolves, HasAOrAAAA: true, IPs: []string{ip.String()}}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultDNSBudget)
	defer cancel()
	return diagnose(ctx, r, host)
}

func diagnose(ctx context.Context, r Resolver, host string) DNSStatus {
	st := DNSStatus{Host: host}

	ips, ipErr := r.LookupIP(ctx, "ip", host)
	for _, ip := range ips {
		st.IPs = append(st.IPs, ip.String())
	}
	st.HasAOrAAAA = len(st.IPs) > 0
	if ipErr != nil {
		st.ResolverError = ipErr.Error()
	}

	if cname, err := r.LookupCNAME(ctx, host); err == nil {
		if c := strings.TrimSuffix(cname, "."); !strings.EqualFold(c, host) {
			st.CNAME = c
		}
	}
	if ns, err := r.LookupNS(ctx, host); err == nil {
		for _, n := range ns {
			st.Nameservers = append(st.Nameservers, strings.TrimSuffix(n.Host, "."))
		}
		st.HasNS = len(st.Nameservers) > 0
	}

	st.Class = classify(st, ipErr)
	return st
}

// classify: addresses win; a zone with nameservers but no address is
// NO_A_RECORD; otherwise the resolver error decides.
func classify(st DNSStatus, ipErr error) string {
	if st.HasAOrAAAA {
		return DNSResolves
	}
	if st.HasNS {
		return DNSNoARecord
	}
	var de *net.DNSError
	if errors.As(ipErr, &de) && (de.IsTemporary || de.IsTimeout) {
		return DNSServfail
	}
	if errors.Is(ipErr, context.DeadlineExceeded) {
		return DNSServfail
	}
	return DNSNXDomain
}
