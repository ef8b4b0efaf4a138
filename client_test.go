// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package rdap

import (
	"context"
	"testing"

	"github.com/rdapkit/rdap/test"
)

const clientTestDNSBootstrap = `{
  "version": "1.0",
  "services": [[["example"], ["https://rdap.example-registry.test/"]]]
}`

const clientTestDomainResponse = `{
  "objectClassName": "domain",
  "handle": "EXAMPLE-DOM",
  "ldhName": "foo.example"
}`

func TestQueryWithOptionsResolvesViaBootstrap(t *testing.T) {
	test.Start()
	defer test.Finish()

	test.Responder("https://data.iana.org/rdap/dns.json", 200, clientTestDNSBootstrap)
	test.Responder("https://rdap.example-registry.test/domain/foo.example", 200, clientTestDomainResponse)

	c := NewClient()

	q, err := NewDomainQuery("foo.example")
	if err != nil {
		t.Fatal(err)
	}

	result, err := c.Query(context.Background(), q)
	if err != nil {
		t.Fatalf("Query() error: %s", err)
	}

	if result.Response == nil || result.Response.Kind != RespDomain {
		t.Fatalf("expected a domain response, got %#v", result.Response)
	}

	if result.Response.Domain.Handle != "EXAMPLE-DOM" {
		t.Errorf("unexpected handle: %s", result.Response.Domain.Handle)
	}

	if len(result.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(result.Transactions))
	}
}

func TestQueryWithOptionsExplicitURL(t *testing.T) {
	test.Start()
	defer test.Finish()

	test.Responder("https://rdap.example-registry.test/domain/foo.example", 200, clientTestDomainResponse)

	c := NewClient()

	q, err := NewDomainQuery("foo.example")
	if err != nil {
		t.Fatal(err)
	}

	bc := BootstrapConfig{Mode: BootstrapURL, Url: "https://rdap.example-registry.test"}

	result, err := c.QueryWithOptions(context.Background(), q, bc, DefaultLinkParams(q.Kind))
	if err != nil {
		t.Fatalf("QueryWithOptions() error: %s", err)
	}

	if result.Response == nil || result.Response.Kind != RespDomain {
		t.Fatalf("expected a domain response, got %#v", result.Response)
	}
}

func TestQueryChasesReferral(t *testing.T) {
	test.Start()
	defer test.Finish()

	const firstHop = `{
	  "objectClassName": "domain",
	  "handle": "FIRST-HOP",
	  "ldhName": "foo.example",
	  "links": [{"rel": "related", "href": "https://rdap.registry.test/domain/foo.example"}]
	}`

	const secondHop = `{
	  "objectClassName": "domain",
	  "handle": "SECOND-HOP",
	  "ldhName": "foo.example"
	}`

	test.Responder("https://rdap.example-registry.test/domain/foo.example", 200, firstHop)
	test.Responder("https://rdap.registry.test/domain/foo.example", 200, secondHop)

	c := NewClient()

	q, err := NewDomainQuery("foo.example")
	if err != nil {
		t.Fatal(err)
	}

	bc := BootstrapConfig{Mode: BootstrapURL, Url: "https://rdap.example-registry.test"}
	lp := LinkParams{Targets: []string{"related"}, MinDepth: 1, MaxDepth: 2}

	result, err := c.QueryWithOptions(context.Background(), q, bc, lp)
	if err != nil {
		t.Fatalf("QueryWithOptions() error: %s", err)
	}

	if result.Response.Domain.Handle != "SECOND-HOP" {
		t.Errorf("expected the referral target's handle, got %s", result.Response.Domain.Handle)
	}

	if len(result.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(result.Transactions))
	}
}

func TestQueryWithOptionsNoRegistryFound(t *testing.T) {
	test.Start()
	defer test.Finish()

	test.Responder("https://data.iana.org/rdap/dns.json", 200, `{"version":"1.0","services":[]}`)

	c := NewClient()

	q, err := NewDomainQuery("foo.example")
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Query(context.Background(), q)
	if err == nil {
		t.Fatal("expected an error when no bootstrap service matches")
	}

	cerr, ok := err.(*ClientError)
	if !ok {
		t.Fatalf("expected a *ClientError, got %T: %s", err, err)
	}

	if cerr.Type != BootstrapUnavailable {
		t.Errorf("expected BootstrapUnavailable, got %s", cerr.Type)
	}
}

func TestQueryWithOptionsPlainHTTPRejected(t *testing.T) {
	test.Start()
	defer test.Finish()

	c := NewClient()

	q, err := NewDomainQuery("foo.example")
	if err != nil {
		t.Fatal(err)
	}

	bc := BootstrapConfig{Mode: BootstrapURL, Url: "http://rdap.example-registry.test"}

	_, err = c.QueryWithOptions(context.Background(), q, bc, DefaultLinkParams(q.Kind))
	if err == nil {
		t.Fatal("expected an error for a plain HTTP base URL")
	}
}

func TestResolveBaseURLBareTLD(t *testing.T) {
	c := NewClient()

	q, err := NewDomainQuery("com")
	if err != nil {
		t.Fatal(err)
	}

	base, err := c.resolveBaseURL(q, DefaultBootstrapConfig())
	if err != nil {
		t.Fatal(err)
	}

	if base != "https://rdap.iana.org" {
		t.Errorf("expected the IANA base URL for a bare TLD, got %s", base)
	}
}

func TestQueryIP(t *testing.T) {
	test.Start()
	defer test.Finish()

	test.Responder("https://data.iana.org/rdap/ipv4.json", 200, `{
	  "version": "1.0",
	  "services": [[["192.0.2.0/24"], ["https://rdap.example-registry.test/"]]]
	}`)

	const networkResponse = `{
	  "objectClassName": "ip network",
	  "handle": "NET-EXAMPLE",
	  "startAddress": "192.0.2.0",
	  "endAddress": "192.0.2.255"
	}`

	test.Responder("https://rdap.example-registry.test/ip/192.0.2.1", 200, networkResponse)

	c := NewClient()

	network, err := c.QueryIP("192.0.2.1")
	if err != nil {
		t.Fatalf("QueryIP() error: %s", err)
	}

	if network.Handle != "NET-EXAMPLE" {
		t.Errorf("unexpected handle: %s", network.Handle)
	}
}

func TestDomainQueryURLStripsLeadingDot(t *testing.T) {
	q, err := NewDomainQuery(".example.com")
	if err != nil {
		t.Fatal(err)
	}

	u, err := q.URL("https://rdap.example-registry.test")
	if err != nil {
		t.Fatal(err)
	}

	const want = "https://rdap.example-registry.test/domain/example.com"
	if u != want {
		t.Errorf("expected leading dot stripped from URL, got %s, want %s", u, want)
	}
}
