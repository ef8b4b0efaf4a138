// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package bootstrap

import (
	"testing"

	"github.com/rdapkit/rdap/test"
)

const clientTestDNSDoc = `{
  "version": "1.0",
  "publication": "2024-01-01T00:00:00Z",
  "description": "test",
  "services": [
    [["br"], ["https://rdap.registro.br/"]]
  ]
}`

func TestDownload(t *testing.T) {
	test.Start()
	defer test.Finish()

	test.Responder("https://data.iana.org/rdap/dns.json", 200, clientTestDNSDoc)

	c := NewClient()

	err := c.Download(DNS)
	if err != nil {
		t.Fatalf("Download() error: %s", err)
	}

	if c.ASN() != nil || c.DNS() == nil || c.IPv4() != nil || c.IPv6() != nil {
		t.Fatalf("Download() populated the wrong registries")
	}
}

const clientTestASNDoc = `{
  "version": "1.0",
  "services": [[["1768-1768"], ["https://rdap.apnic.net/"]]]
}`

const clientTestIPv4Doc = `{
  "version": "1.0",
  "services": [[["41.0.0.0/8"], ["https://rdap.afrinic.net/rdap/", "http://rdap.afrinic.net/rdap/"]]]
}`

const clientTestIPv6Doc = `{
  "version": "1.0",
  "services": [[["2001:1400::/23"], ["https://rdap.db.ripe.net/"]]]
}`

const clientTestServiceProviderDoc = `{
  "version": "1.0",
  "services": [[["VRSN"], ["https://rdap.verisignlabs.com/rdap/v1"]]]
}`

func TestLookups(t *testing.T) {
	test.Start()
	defer test.Finish()

	test.Responder("https://data.iana.org/rdap/asn.json", 200, clientTestASNDoc)
	test.Responder("https://data.iana.org/rdap/dns.json", 200, clientTestDNSDoc)
	test.Responder("https://data.iana.org/rdap/ipv4.json", 200, clientTestIPv4Doc)
	test.Responder("https://data.iana.org/rdap/ipv6.json", 200, clientTestIPv6Doc)
	test.Responder("https://www.openrdap.org/rdap/service_provider.json", 200, clientTestServiceProviderDoc)

	tests := []struct {
		Registry RegistryType
		Input    string
		Success  bool
		URLs     []string
	}{
		{
			ASN,
			"as1768",
			true,
			[]string{"https://rdap.apnic.net/"},
		},
		{
			DNS,
			"example.br",
			true,
			[]string{"https://rdap.registro.br/"},
		},
		{
			IPv4,
			"41.0.0.0",
			true,
			[]string{
				"https://rdap.afrinic.net/rdap/",
				"http://rdap.afrinic.net/rdap/",
			},
		},
		{
			IPv6,
			"2001:1400::",
			true,
			[]string{
				"https://rdap.db.ripe.net/",
			},
		},
		{
			ServiceProvider,
			"12345-VRSN",
			true,
			[]string{"https://rdap.verisignlabs.com/rdap/v1"},
		},
	}

	c := NewClient()

	for _, tc := range tests {
		r, err := c.Lookup(tc.Registry, tc.Input)

		if tc.Success != (err == nil) {
			t.Errorf("Lookup %s: expected success=%v, got opposite, err=%v", tc.Input, tc.Success, err)
			continue
		}

		if r == nil {
			t.Errorf("Lookup %s: unexpected nil result", tc.Input)
			continue
		}

		for i, url := range tc.URLs {
			if r.URLs[i].String() != url {
				t.Errorf("Lookup %s, URL #%d, expected %s, got %s", tc.Input, i, url, r.URLs[i])
				continue
			}
		}
	}
}

func TestLookupWithDownloadError(t *testing.T) {
	test.Start()
	defer test.Finish()

	test.Responder("https://data.iana.org/rdap/dns.json", 500, "server error")

	c := NewClient()

	_, err := c.Lookup(DNS, "example.br")
	if err == nil {
		t.Errorf("unexpected success")
	}
}
