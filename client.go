// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package rdap

import (
	"context"
	"fmt"
	"io/ioutil"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rdapkit/rdap/bootstrap"
)

// BootstrapMode selects how the orchestrator resolves a query's base URL
// (§4.7 Base URL resolution).
type BootstrapMode int

const (
	// BootstrapRfc9224 resolves the base URL from the IANA bootstrap
	// registry matching the query's kind.
	BootstrapRfc9224 BootstrapMode = iota

	// BootstrapHint resolves via the object-tag registry using an explicit
	// tag, bypassing the kind-based registry selection.
	BootstrapHint

	// BootstrapURL bypasses bootstrapping entirely; Url is used as-is.
	BootstrapURL
)

// BootstrapConfig controls base URL resolution for one query.
type BootstrapConfig struct {
	Mode BootstrapMode

	// Tag is the object-tag used when Mode is BootstrapHint.
	Tag string

	// Url is the explicit base URL used when Mode is BootstrapURL.
	Url string

	// INRBackup, if set, is used for IP/ASN queries when the bootstrap
	// registry yields no base URL (e.g. a fallback to ARIN).
	INRBackup string

	// IANABaseURL is used for bare-TLD domain queries when TLDLookupIANA
	// is set. Defaults to https://rdap.iana.org.
	IANABaseURL string

	// TLDLookupIANA enables the bare-TLD fast path to IANABaseURL.
	TLDLookupIANA bool
}

// DefaultBootstrapConfig returns the normal RFC 9224 resolution behavior.
func DefaultBootstrapConfig() BootstrapConfig {
	return BootstrapConfig{
		Mode:          BootstrapRfc9224,
		IANABaseURL:   "https://rdap.iana.org",
		TLDLookupIANA: true,
	}
}

// LinkParams controls referral chasing (§4.7).
type LinkParams struct {
	// Targets lists the link "rel" values the orchestrator follows.
	Targets []string

	// OnlyShowTarget suppresses emitting the depth-1 response; only the
	// chased target (or nothing, if chasing fails) is returned.
	OnlyShowTarget bool

	MinDepth int
	MaxDepth int
}

// DefaultLinkParams returns the default referral-chasing parameters for a
// query of the given kind: deeper chasing for domains, a single hop for
// everything else.
func DefaultLinkParams(k Kind) LinkParams {
	switch k {
	case KindDomain, KindALabel:
		return LinkParams{Targets: []string{"related"}, MinDepth: 1, MaxDepth: 3}
	default:
		return LinkParams{Targets: []string{"related"}, MinDepth: 1, MaxDepth: 1}
	}
}

// Transaction records one HTTP request/response pair of an orchestrated
// query, including referral hops.
type Transaction struct {
	Depth      int
	RequestURL string
	StatusCode int
	Response   *RdapResponse
	Err        error
}

// Result is the outcome of Client.Query: the accepted response (the final
// hop, unless OnlyShowTarget suppressed it) plus the full transaction log.
type Result struct {
	Response     *RdapResponse
	Transactions []Transaction
}

// Client implements the RDAP query orchestrator (C8): base URL resolution,
// referral chasing, and the HTTP 429 retry contract of the external
// transport collaborator (C3).
type Client struct {
	HTTP      *http.Client
	Bootstrap *bootstrap.Client

	// AllowPlainHTTP permits http:// base URLs. HTTPS is otherwise required.
	AllowPlainHTTP bool

	// Retry policy for HTTP 429 responses.
	MaxRetries   int
	DefRetrySecs int
	MaxRetrySecs int

	// UserAgent is sent on every request, if non-empty.
	UserAgent string

	// Verbose receives progress messages, if non-nil.
	Verbose func(text string)
}

// NewClient creates a Client with the default HTTP client, in-memory
// bootstrap cache, and retry policy.
func NewClient() *Client {
	return &Client{
		HTTP:         &http.Client{},
		Bootstrap:    bootstrap.NewClient(),
		MaxRetries:   3,
		DefRetrySecs: 5,
		MaxRetrySecs: 60,
	}
}

func (c *Client) verbosef(format string, args ...interface{}) {
	if c.Verbose != nil {
		c.Verbose(fmt.Sprintf(format, args...))
	}
}

// Query runs q end-to-end using the default bootstrap config and the
// kind-appropriate default LinkParams.
func (c *Client) Query(ctx context.Context, q *QueryType) (*Result, error) {
	return c.QueryWithOptions(ctx, q, DefaultBootstrapConfig(), DefaultLinkParams(q.Kind))
}

// QueryWithOptions runs q end-to-end (§4.7): it resolves the base URL,
// issues the request, and chases referral links up to lp.MaxDepth.
func (c *Client) QueryWithOptions(ctx context.Context, q *QueryType, bc BootstrapConfig, lp LinkParams) (*Result, error) {
	if c.HTTP == nil {
		c.HTTP = &http.Client{}
	}
	if c.Bootstrap == nil {
		c.Bootstrap = bootstrap.NewClient()
	}

	baseURL, err := c.resolveBaseURL(q, bc)
	if err != nil {
		return nil, err
	}

	requestURL, err := q.URL(baseURL)
	if err != nil {
		return nil, &ClientError{Type: InvalidQueryValue, Text: err.Error()}
	}

	if err := c.checkTransportPolicy(requestURL); err != nil {
		return nil, err
	}

	result := &Result{}

	depth := 1
	currentURL := requestURL

	for {
		c.verbosef("rdap: depth %d: GET %s", depth, currentURL)

		data, statusCode, err := c.fetchWithRetry(ctx, currentURL)

		txn := Transaction{Depth: depth, RequestURL: currentURL, StatusCode: statusCode}

		if err != nil {
			txn.Err = err
			result.Transactions = append(result.Transactions, txn)

			if depth == 1 {
				return result, &ClientError{Type: NoRegistryFound, Text: err.Error()}
			}
			return result, err
		}

		resp, perr := ParseResponse(data)
		if perr != nil {
			txn.Err = perr
			result.Transactions = append(result.Transactions, txn)
			return result, perr
		}

		txn.Response = resp
		result.Transactions = append(result.Transactions, txn)

		if !(lp.OnlyShowTarget && depth == 1) {
			result.Response = resp
		}

		nextURL, ok := findTargetLink(resp.Links(), lp.Targets)
		if ok && depth < lp.MaxDepth {
			currentURL = nextURL
			depth++
			continue
		}

		if depth < lp.MinDepth {
			return result, ErrLinkTargetNotFound
		}

		return result, nil
	}
}

// findTargetLink returns the href of the first link whose rel is in
// targets.
func findTargetLink(links []Link, targets []string) (string, bool) {
	for _, l := range links {
		for _, t := range targets {
			if l.Rel == t && l.Href != "" {
				return l.Href, true
			}
		}
	}
	return "", false
}

// checkTransportPolicy enforces the HTTPS-preferred contract of C3: plain
// HTTP base URLs require an explicit opt-in.
func (c *Client) checkTransportPolicy(requestURL string) error {
	u, err := url.Parse(requestURL)
	if err != nil {
		return &ClientError{Type: InvalidQueryValue, Text: "malformed request URL: " + err.Error()}
	}
	if u.Scheme == "http" && !c.AllowPlainHTTP {
		return &ClientError{Type: InvalidArg, Text: "plain HTTP is disabled; set Client.AllowPlainHTTP to allow it"}
	}
	return nil
}

// fetchWithRetry issues one GET, honoring the HTTP 429 Retry-After contract
// of §4.7: retry up to MaxRetries times, waiting Retry-After (capped at
// MaxRetrySecs) or DefRetrySecs if the header is absent or malformed.
func (c *Client) fetchWithRetry(ctx context.Context, requestURL string) ([]byte, int, error) {
	for attempt := 0; ; attempt++ {
		data, statusCode, retryAfter, err := c.fetch(ctx, requestURL)
		if err != nil {
			return nil, statusCode, err
		}

		if statusCode != http.StatusTooManyRequests {
			if statusCode >= 400 {
				return nil, statusCode, fmt.Errorf("rdap: server returned HTTP %d", statusCode)
			}
			return data, statusCode, nil
		}

		if attempt >= c.MaxRetries {
			return nil, statusCode, fmt.Errorf("rdap: server returned HTTP 429 after %d retries", attempt)
		}

		wait := c.DefRetrySecs
		if secs, perr := strconv.Atoi(strings.TrimSpace(retryAfter)); perr == nil && secs >= 0 {
			wait = secs
			if c.MaxRetrySecs > 0 && wait > c.MaxRetrySecs {
				wait = c.MaxRetrySecs
			}
		}
		select {
		case <-ctx.Done():
			return nil, statusCode, ctx.Err()
		case <-time.After(time.Duration(wait) * time.Second):
		}
	}
}

func (c *Client) fetch(ctx context.Context, requestURL string) ([]byte, int, string, error) {
	req, err := http.NewRequest("GET", requestURL, nil)
	if err != nil {
		return nil, 0, "", err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Accept", "application/rdap+json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, 0, "", err
	}
	defer resp.Body.Close()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, "", err
	}

	return data, resp.StatusCode, resp.Header.Get("Retry-After"), nil
}

// ResolveBaseURL exports the orchestrator's base-URL resolution (§4.7) for
// callers that need a concrete request URL without running a full query,
// such as the conformance tester's CLI entry point.
func (c *Client) ResolveBaseURL(q *QueryType, bc BootstrapConfig) (string, error) {
	return c.resolveBaseURL(q, bc)
}

// resolveBaseURL implements §4.7 Base URL resolution.
func (c *Client) resolveBaseURL(q *QueryType, bc BootstrapConfig) (string, error) {
	if bc.Mode == BootstrapURL && bc.Url != "" {
		return strings.TrimRight(bc.Url, "/"), nil
	}

	if q.Kind == KindUrl {
		return "", nil
	}

	if q.Kind == KindHelp {
		return "", &ClientError{Type: InvalidArg, Text: "help queries require an explicit server URL (BootstrapConfig.Url)"}
	}

	if bc.TLDLookupIANA && (q.Kind == KindDomain || q.Kind == KindALabel) && isBareTLD(q.Domain.LDH) {
		base := bc.IANABaseURL
		if base == "" {
			base = "https://rdap.iana.org"
		}
		return strings.TrimRight(base, "/"), nil
	}

	if bc.Mode == BootstrapHint {
		result, err := c.Bootstrap.Lookup(bootstrap.ServiceProvider, bc.Tag)
		if err != nil {
			return "", &ClientError{Type: BootstrapRegistryFetchFailed, Text: err.Error()}
		}
		if len(result.URLs) == 0 {
			return "", &ClientError{Type: BootstrapUnavailable, Text: fmt.Sprintf("no RDAP service found for tag %q", bc.Tag)}
		}
		return strings.TrimRight(result.URLs[0].String(), "/"), nil
	}

	regType, input, ok := bootstrapInputFor(q)
	if !ok {
		return "", &ClientError{Type: BootstrapUnavailable, Text: fmt.Sprintf("query type %s cannot be bootstrapped; specify BootstrapConfig.Url", q.Kind)}
	}

	result, err := c.Bootstrap.Lookup(regType, input)
	if err != nil {
		return "", &ClientError{Type: BootstrapRegistryFetchFailed, Text: err.Error()}
	}

	if len(result.URLs) == 0 {
		if bc.INRBackup != "" && (regType == bootstrap.ASN || regType == bootstrap.IPv4 || regType == bootstrap.IPv6) {
			return strings.TrimRight(bc.INRBackup, "/"), nil
		}
		return "", &ClientError{Type: BootstrapUnavailable, Text: fmt.Sprintf("no RDAP service found for %q", input)}
	}

	return strings.TrimRight(result.URLs[0].String(), "/"), nil
}

// bootstrapInputFor maps a QueryType to the bootstrap registry and lookup
// key that resolves it, per the registry-selection table of §4.2/§4.7.
func bootstrapInputFor(q *QueryType) (bootstrap.RegistryType, string, bool) {
	switch q.Kind {
	case KindDomain, KindALabel:
		return bootstrap.DNS, q.Domain.LDH, true
	case KindDomainNameSearch, KindDomainNsNameSearch, KindDomainNsIpSearch:
		return bootstrap.DNS, q.Search, true
	case KindNameserver:
		return bootstrap.DNS, q.Domain.LDH, true
	case KindNameserverNameSearch, KindNameserverIpSearch:
		return bootstrap.DNS, q.Search, true
	case KindIPv4Addr:
		return bootstrap.IPv4, q.IP.String(), true
	case KindIPv6Addr:
		return bootstrap.IPv6, q.IP.String(), true
	case KindIPv4Cidr:
		return bootstrap.IPv4, q.CIDR.String(), true
	case KindIPv6Cidr:
		return bootstrap.IPv6, q.CIDR.String(), true
	case KindAutNum:
		return bootstrap.ASN, "AS" + strconv.FormatUint(uint64(q.AutNum), 10), true
	case KindEntity, KindEntityNameSearch, KindEntityHandleSearch:
		return bootstrap.ServiceProvider, q.Entity, true
	default:
		return 0, "", false
	}
}

// isBareTLD reports whether name has exactly one label (no dots), the
// shape of a top-level-domain-only query.
func isBareTLD(name string) bool {
	name = strings.TrimSuffix(name, ".")
	return name != "" && !strings.Contains(name, ".")
}

// QueryDomain is a convenience wrapper around Query for domain lookups,
// with a 30s timeout and typed result access.
func (c *Client) QueryDomain(domain string) (*Domain, error) {
	q, err := NewDomainQuery(domain)
	if err != nil {
		return nil, err
	}

	resp, err := c.doQuickQuery(q)
	if err != nil {
		return nil, err
	}

	if resp.Kind != RespDomain {
		return nil, &ClientError{Type: WrongResponseType, Text: "the server didn't return an RDAP domain response"}
	}
	return resp.Domain, nil
}

// QueryAutnum is a convenience wrapper around Query for ASN lookups.
func (c *Client) QueryAutnum(autnum uint32) (*AutNum, error) {
	q := NewAutNumQuery(autnum)

	resp, err := c.doQuickQuery(q)
	if err != nil {
		return nil, err
	}

	if resp.Kind != RespAutNum {
		return nil, &ClientError{Type: WrongResponseType, Text: "the server didn't return an RDAP autnum response"}
	}
	return resp.AutNum, nil
}

// QueryIP is a convenience wrapper around Query for IPv4/IPv6 lookups.
func (c *Client) QueryIP(ip string) (*Network, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return nil, &ClientError{Type: InvalidQueryValue, Text: fmt.Sprintf("invalid IP address %q", ip)}
	}

	q, err := NewIPQuery(parsed)
	if err != nil {
		return nil, err
	}

	resp, err := c.doQuickQuery(q)
	if err != nil {
		return nil, err
	}

	if resp.Kind != RespNetwork {
		return nil, &ClientError{Type: WrongResponseType, Text: "the server didn't return an RDAP network response"}
	}
	return resp.Network, nil
}

func (c *Client) doQuickQuery(q *QueryType) (*RdapResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := c.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return result.Response, nil
}
