// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package bootstrap

import "testing"

const dnsRegistryNestedDoc = `{
  "version": "1.0",
  "publication": "2024-01-01T00:00:00Z",
  "description": "test",
  "services": [
    [["com"], ["https://example.com", "http://example.com"]],
    [["sub.example.com"], ["https://example.com/sub", "http://example.com/sub"]],
    [[""], ["https://example.root", "http://example.root"]]
  ]
}`

func TestDNSRegistryLookupsNested(t *testing.T) {
	d, err := NewDNSRegistry([]byte(dnsRegistryNestedDoc))
	if err != nil {
		t.Fatal(err)
	}

	tests := []registryTest{
		{
			"",
			false,
			"",
			[]string{"https://example.root", "http://example.root"},
		},
		{
			"example.com",
			false,
			"com",
			[]string{"https://example.com", "http://example.com"},
		},
		{
			"sub.example.com",
			false,
			"sub.example.com",
			[]string{"https://example.com/sub", "http://example.com/sub"},
		},
		{
			"sub.sub.example.com",
			false,
			"sub.example.com",
			[]string{"https://example.com/sub", "http://example.com/sub"},
		},
		{
			"example.xyz",
			false,
			"",
			[]string{"https://example.root", "http://example.root"},
		},
	}

	runRegistryTests(t, tests, d)
}

const dnsRegistryDoc = `{
  "version": "1.0",
  "publication": "2024-01-01T00:00:00Z",
  "description": "test",
  "services": [
    [["br"], ["https://rdap.registro.br/"]]
  ]
}`

func TestDNSRegistryLookups(t *testing.T) {
	d, err := NewDNSRegistry([]byte(dnsRegistryDoc))
	if err != nil {
		t.Fatal(err)
	}

	tests := []registryTest{
		{
			"",
			false,
			"",
			[]string{},
		},
		{
			"www.EXAMPLE.BR",
			false,
			"br",
			[]string{"https://rdap.registro.br/"},
		},
		{
			"example.xyz",
			false,
			"",
			[]string{},
		},
	}

	runRegistryTests(t, tests, d)
}
