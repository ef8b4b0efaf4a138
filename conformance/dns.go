package conformance

import (
	"context"
	"net"
	"strings"
	"time"
)

// ResolvedAddresses is the outcome of resolving a query URL's host (§4.8
// step 3): the literal-IP fast path, or a full A/AAAA/CNAME lookup against
// the configured resolver.
type ResolvedAddresses struct {
	V4          []string
	V6          []string
	CNAME       string
	Resolver    string
	FromLiteral bool
}

// resolveHost implements §4.8 step 3. No example repo in the pack carries a
// DNS client library (no miekg/dns anywhere in _examples/), so this uses
// net.Resolver, pointed at the configured UDP resolver address via its Dial
// override — the standard idiomatic way to target a specific server without
// a third-party DNS library.
func resolveHost(ctx context.Context, host, dnsResolver string) (ResolvedAddresses, error) {
	host = strings.TrimPrefix(strings.TrimSuffix(host, "]"), "[")

	if ip := net.ParseIP(host); ip != nil {
		ra := ResolvedAddresses{FromLiteral: true}
		if ip.To4() != nil {
			ra.V4 = []string{ip.String()}
		} else {
			ra.V6 = []string{ip.String()}
		}
		return ra, nil
	}

	resolver := &net.Resolver{PreferGo: true}
	if dnsResolver != "" {
		resolver.Dial = func(ctx context.Context, network, address string) (net.Conn, error) {
			d := net.Dialer{Timeout: 5 * time.Second}
			return d.DialContext(ctx, "udp", net.JoinHostPort(dnsResolver, "53"))
		}
	}

	ra := ResolvedAddresses{Resolver: dnsResolver}

	addrs, err := resolver.LookupIPAddr(ctx, host)
	if err != nil {
		return ra, err
	}
	for _, a := range addrs {
		if a.IP.To4() != nil {
			ra.V4 = append(ra.V4, a.IP.String())
		} else {
			ra.V6 = append(ra.V6, a.IP.String())
		}
	}

	if cname, err := resolver.LookupCNAME(ctx, host); err == nil {
		ra.CNAME = cname
	}

	return ra, nil
}
