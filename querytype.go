// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package rdap

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a QueryType. QueryType is a Go
// rendering of the tagged union described in the data model: one struct,
// one discriminant, and only the fields relevant to Kind are populated.
type Kind int

const (
	KindIPv4Addr Kind = iota
	KindIPv6Addr
	KindIPv4Cidr
	KindIPv6Cidr
	KindAutNum
	KindDomain
	KindALabel
	KindEntity
	KindNameserver
	KindEntityNameSearch
	KindEntityHandleSearch
	KindDomainNameSearch
	KindDomainNsNameSearch
	KindDomainNsIpSearch
	KindNameserverNameSearch
	KindNameserverIpSearch
	KindHelp
	KindUrl
)

func (k Kind) String() string {
	switch k {
	case KindIPv4Addr:
		return "IPv4Addr"
	case KindIPv6Addr:
		return "IPv6Addr"
	case KindIPv4Cidr:
		return "IPv4Cidr"
	case KindIPv6Cidr:
		return "IPv6Cidr"
	case KindAutNum:
		return "AutNum"
	case KindDomain:
		return "Domain"
	case KindALabel:
		return "ALabel"
	case KindEntity:
		return "Entity"
	case KindNameserver:
		return "Nameserver"
	case KindEntityNameSearch:
		return "EntityNameSearch"
	case KindEntityHandleSearch:
		return "EntityHandleSearch"
	case KindDomainNameSearch:
		return "DomainNameSearch"
	case KindDomainNsNameSearch:
		return "DomainNsNameSearch"
	case KindDomainNsIpSearch:
		return "DomainNsIpSearch"
	case KindNameserverNameSearch:
		return "NameserverNameSearch"
	case KindNameserverIpSearch:
		return "NameserverIpSearch"
	case KindHelp:
		return "Help"
	case KindUrl:
		return "Url"
	default:
		return "Unknown"
	}
}

// QueryType is the classified, typed form of an RDAP query.
type QueryType struct {
	Kind Kind

	IP      net.IP      // IPv4Addr, IPv6Addr
	CIDR    *net.IPNet  // IPv4Cidr, IPv6Cidr (host bits cleared)
	AutNum  uint32      // AutNum
	Domain  DomainName  // Domain, ALabel, Nameserver
	Entity  string      // Entity, EntityNameSearch, EntityHandleSearch
	Search  string       // *Search variants carry their raw search pattern here
	URLText string      // Url
}

// Classify infers the QueryType of an arbitrary input string, applying the
// rules of §4.1 top-to-bottom; the first rule that matches wins.
func Classify(s string) (*QueryType, error) {
	trimmed := strings.TrimSpace(s)

	// Rule 1: explicit URL.
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return &QueryType{Kind: KindUrl, URLText: trimmed}, nil
	}

	// Rule 2: AS-number, with optional a|A|s|S prefix stripped.
	if autnum, ok := parseAutNum(trimmed); ok {
		return &QueryType{Kind: KindAutNum, AutNum: autnum}, nil
	}

	// Rule 3: bare IP address.
	if ip := net.ParseIP(trimmed); ip != nil {
		if ip4 := ip.To4(); ip4 != nil {
			return &QueryType{Kind: KindIPv4Addr, IP: ip4}, nil
		}
		return &QueryType{Kind: KindIPv6Addr, IP: ip}, nil
	}

	// Rule 4: CIDR, including short forms ("10/8").
	if strings.Contains(trimmed, "/") {
		if cidr, isV6, ok := parseCIDR(trimmed); ok {
			if isV6 {
				return &QueryType{Kind: KindIPv6Cidr, CIDR: cidr}, nil
			}
			return &QueryType{Kind: KindIPv4Cidr, CIDR: cidr}, nil
		}
	}

	// Rule 5: syntactically valid Unicode domain name.
	if dn, err := newDomainNameFromInput(trimmed); err == nil && dn.IsValidLDH() {
		if looksLikeNameserver(dn.Labels()) {
			return &QueryType{Kind: KindNameserver, Domain: dn}, nil
		}
		return &QueryType{Kind: KindDomain, Domain: dn}, nil
	}

	// Rule 6: entity handle (no whitespace, dot, comma, or double quote).
	if !strings.ContainsAny(trimmed, " \t\n.,\"") && trimmed != "" {
		return &QueryType{Kind: KindEntity, Entity: trimmed}, nil
	}

	// Rule 7: give up.
	return nil, &ClientError{Type: AmbiguousQueryType, Text: fmt.Sprintf("ambiguous query: %q", s)}
}

// parseAutNum strips a leading a|A|s|S run and parses the remainder as a
// uint32 AS number ("AS64512", "as 64512", "64512").
func parseAutNum(s string) (uint32, bool) {
	t := strings.TrimSpace(s)
	i := 0
	for i < len(t) {
		c := t[i]
		if c == 'a' || c == 'A' || c == 's' || c == 'S' {
			i++
			continue
		}
		break
	}
	rest := strings.TrimSpace(t[i:])
	if rest == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(rest, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

// parseCIDR parses s (possibly a short form like "10/8") as a CIDR,
// clearing host bits, and reports whether the result is IPv6.
func parseCIDR(s string) (*net.IPNet, bool, bool) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return nil, false, false
	}

	addrPart := parts[0]
	ip := net.ParseIP(addrPart)
	isV6 := strings.Contains(addrPart, ":")

	if ip == nil && !isV6 {
		// Short IPv4 form, e.g. "10" or "10.0".
		ip = expandShortIPv4(addrPart)
	}
	if ip == nil {
		return nil, false, false
	}

	bits, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, false, false
	}

	var maxBits int
	var ipBytes net.IP
	if isV6 {
		maxBits = 128
		ipBytes = ip.To16()
	} else {
		maxBits = 32
		ipBytes = ip.To4()
	}
	if ipBytes == nil || bits < 0 || bits > maxBits {
		return nil, false, false
	}

	mask := net.CIDRMask(bits, maxBits)
	network := ipBytes.Mask(mask)

	return &net.IPNet{IP: network, Mask: mask}, isV6, true
}

// expandShortIPv4 expands a partial dotted-quad like "10" or "10.0" into a
// full net.IP by zero-filling the missing octets, as registries conventionally
// write summarized CIDR blocks ("10/8" meaning "10.0.0.0/8").
func expandShortIPv4(s string) net.IP {
	octets := strings.Split(s, ".")
	if len(octets) == 0 || len(octets) > 4 {
		return nil
	}
	full := make([]string, 4)
	for i := 0; i < 4; i++ {
		if i < len(octets) {
			full[i] = octets[i]
		} else {
			full[i] = "0"
		}
	}
	return net.ParseIP(strings.Join(full, "."))
}

// NewALabelQuery builds an ALabel query from a domain name, preserving the
// original input form while validating it resolves to an ASCII label set.
func NewALabelQuery(s string) (*QueryType, error) {
	dn, err := newDomainNameFromInput(s)
	if err != nil {
		return nil, err
	}
	return &QueryType{Kind: KindALabel, Domain: dn}, nil
}

// NewDomainQuery builds a Domain query, validating LDH form.
func NewDomainQuery(s string) (*QueryType, error) {
	dn, err := newDomainNameFromInput(s)
	if err != nil {
		return nil, err
	}
	if !dn.IsValidLDH() {
		return nil, &ClientError{Type: InvalidQueryValue, Text: "not a valid domain name: " + s}
	}
	return &QueryType{Kind: KindDomain, Domain: dn}, nil
}

// NewNameserverQuery builds a Nameserver query, validating LDH form.
func NewNameserverQuery(s string) (*QueryType, error) {
	dn, err := newDomainNameFromInput(s)
	if err != nil {
		return nil, err
	}
	if !dn.IsValidLDH() {
		return nil, &ClientError{Type: InvalidQueryValue, Text: "not a valid nameserver name: " + s}
	}
	return &QueryType{Kind: KindNameserver, Domain: dn}, nil
}

// NewAutNumQuery builds an AutNum query.
func NewAutNumQuery(autnum uint32) *QueryType {
	return &QueryType{Kind: KindAutNum, AutNum: autnum}
}

// NewIPQuery builds an IPv4Addr or IPv6Addr query from ip.
func NewIPQuery(ip net.IP) (*QueryType, error) {
	if ip == nil {
		return nil, &ClientError{Type: InvalidQueryValue, Text: "nil IP"}
	}
	if ip4 := ip.To4(); ip4 != nil {
		return &QueryType{Kind: KindIPv4Addr, IP: ip4}, nil
	}
	return &QueryType{Kind: KindIPv6Addr, IP: ip}, nil
}

// NewCIDRQuery builds an IPv4Cidr or IPv6Cidr query from ipNet, clearing
// host bits (callers may pass a network with host bits already set).
func NewCIDRQuery(ipNet *net.IPNet) (*QueryType, error) {
	if ipNet == nil {
		return nil, &ClientError{Type: InvalidQueryValue, Text: "nil IPNet"}
	}
	ones, bits := ipNet.Mask.Size()
	network := ipNet.IP.Mask(ipNet.Mask)
	normalized := &net.IPNet{IP: network, Mask: net.CIDRMask(ones, bits)}
	if bits == 32 {
		return &QueryType{Kind: KindIPv4Cidr, CIDR: normalized}, nil
	}
	return &QueryType{Kind: KindIPv6Cidr, CIDR: normalized}, nil
}

// NewEntityQuery builds an Entity query for handle h.
func NewEntityQuery(h string) *QueryType {
	return &QueryType{Kind: KindEntity, Entity: h}
}

// NewHelpQuery builds a Help query.
func NewHelpQuery() *QueryType {
	return &QueryType{Kind: KindHelp}
}

// NewURLQuery builds a Url query; the base is ignored at URL-construction
// time since the query already carries a full URL.
func NewURLQuery(u string) *QueryType {
	return &QueryType{Kind: KindUrl, URLText: u}
}

// Search query constructors (§3, §4.1). Each wraps a raw search pattern;
// syntax validation of the pattern itself is left to the server.

func NewEntityNameSearchQuery(pattern string) *QueryType {
	return &QueryType{Kind: KindEntityNameSearch, Search: pattern}
}

func NewEntityHandleSearchQuery(pattern string) *QueryType {
	return &QueryType{Kind: KindEntityHandleSearch, Search: pattern}
}

func NewDomainNameSearchQuery(pattern string) *QueryType {
	return &QueryType{Kind: KindDomainNameSearch, Search: pattern}
}

func NewDomainNsNameSearchQuery(pattern string) *QueryType {
	return &QueryType{Kind: KindDomainNsNameSearch, Search: pattern}
}

func NewDomainNsIpSearchQuery(pattern string) *QueryType {
	return &QueryType{Kind: KindDomainNsIpSearch, Search: pattern}
}

func NewNameserverNameSearchQuery(pattern string) *QueryType {
	return &QueryType{Kind: KindNameserverNameSearch, Search: pattern}
}

func NewNameserverIpSearchQuery(pattern string) *QueryType {
	return &QueryType{Kind: KindNameserverIpSearch, Search: pattern}
}

// URL constructs the request URL for q against base, per the table in §4.1.
// base's trailing slash (if any) is stripped before joining.
func (q *QueryType) URL(base string) (string, error) {
	if q.Kind == KindUrl {
		return q.URLText, nil
	}

	b, err := url.Parse(strings.TrimSuffix(base, "/"))
	if err != nil {
		return "", &ClientError{Type: InvalidArg, Text: "invalid base URL: " + err.Error()}
	}

	switch q.Kind {
	case KindIPv4Addr, KindIPv6Addr:
		b.Path = joinPath(b.Path, "ip", escapeSegment(q.IP.String()))
	case KindIPv4Cidr, KindIPv6Cidr:
		ones, _ := q.CIDR.Mask.Size()
		b.Path = joinPath(b.Path, "ip", escapeSegment(q.CIDR.IP.String()), strconv.Itoa(ones))
	case KindAutNum:
		b.Path = joinPath(b.Path, "autnum", strconv.FormatUint(uint64(q.AutNum), 10))
	case KindDomain:
		b.Path = joinPath(b.Path, "domain", escapeSegment(q.Domain.LDH))
	case KindALabel:
		b.Path = joinPath(b.Path, "domain", escapeSegment(q.Domain.LDH))
	case KindEntity:
		b.Path = joinPath(b.Path, "entity", escapeSegment(q.Entity))
	case KindNameserver:
		b.Path = joinPath(b.Path, "nameserver", escapeSegment(q.Domain.LDH))
	case KindEntityNameSearch:
		b.Path = joinPath(b.Path, "entities")
		b.RawQuery = (url.Values{"fn": {q.Search}}).Encode()
	case KindEntityHandleSearch:
		b.Path = joinPath(b.Path, "entities")
		b.RawQuery = (url.Values{"handle": {q.Search}}).Encode()
	case KindDomainNameSearch:
		b.Path = joinPath(b.Path, "domains")
		b.RawQuery = (url.Values{"name": {q.Search}}).Encode()
	case KindDomainNsNameSearch:
		b.Path = joinPath(b.Path, "domains")
		b.RawQuery = (url.Values{"nsLdhName": {q.Search}}).Encode()
	case KindDomainNsIpSearch:
		b.Path = joinPath(b.Path, "domains")
		b.RawQuery = (url.Values{"nsIp": {q.Search}}).Encode()
	case KindNameserverNameSearch:
		b.Path = joinPath(b.Path, "nameserver")
		b.RawQuery = "name==" + url.QueryEscape(q.Search)
	case KindNameserverIpSearch:
		b.Path = joinPath(b.Path, "nameservers")
		b.RawQuery = (url.Values{"ip": {q.Search}}).Encode()
	case KindHelp:
		b.Path = joinPath(b.Path, "help")
	default:
		return "", &ClientError{Type: OtherError, Text: "unknown query kind"}
	}

	return b.String(), nil
}

func joinPath(base string, segments ...string) string {
	return base + "/" + strings.Join(segments, "/")
}

// escapeSegment percent-encodes a single path segment using the
// unreserved-character set (RFC 3986 §2.3: ALPHA / DIGIT / "-" / "." / "_" / "~").
func escapeSegment(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if shouldEscape(c) {
			fmt.Fprintf(&b, "%%%02X", c)
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func shouldEscape(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return false
	case c >= 'A' && c <= 'Z':
		return false
	case c >= '0' && c <= '9':
		return false
	case c == '-' || c == '.' || c == '_' || c == '~':
		return false
	}
	return true
}
