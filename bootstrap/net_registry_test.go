// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package bootstrap

import "testing"

const ipv4RegistryDoc = `{
  "version": "1.0",
  "publication": "2024-01-01T00:00:00Z",
  "description": "test",
  "services": [
    [["41.0.0.0/8"], ["https://rdap.afrinic.net/rdap/", "http://rdap.afrinic.net/rdap/"]]
  ]
}`

func TestNetRegistryLookupsIPv4(t *testing.T) {
	n, err := NewNetRegistry([]byte(ipv4RegistryDoc), 4)
	if err != nil {
		t.Fatal(err)
	}

	tests := []registryTest{
		{
			"255.0.0.0",
			false,
			"",
			[]string{},
		},
		{
			"41.0.0.0",
			false,
			"41.0.0.0/8",
			[]string{
				"https://rdap.afrinic.net/rdap/",
				"http://rdap.afrinic.net/rdap/",
			},
		},
		{
			"41.255.255.255",
			false,
			"41.0.0.0/8",
			[]string{
				"https://rdap.afrinic.net/rdap/",
				"http://rdap.afrinic.net/rdap/",
			},
		},
		{
			"41.",
			true,
			"",
			[]string{},
		},
	}

	runRegistryTests(t, tests, n)
}

const ipv6RegistryDoc = `{
  "version": "1.0",
  "publication": "2024-01-01T00:00:00Z",
  "description": "test",
  "services": [
    [["2001:1400::/23"], ["https://rdap.db.ripe.net/"]]
  ]
}`

func TestNetRegistryLookupsIPv6(t *testing.T) {
	n, err := NewNetRegistry([]byte(ipv6RegistryDoc), 6)
	if err != nil {
		t.Fatal(err)
	}

	tests := []registryTest{
		{
			"4000::",
			false,
			"",
			[]string{},
		},
		{
			"2001:1400::",
			false,
			"2001:1400::/23",
			[]string{
				"https://rdap.db.ripe.net/",
			},
		},
		{
			"2001:1400::5/128",
			false,
			"2001:1400::/23",
			[]string{
				"https://rdap.db.ripe.net/",
			},
		},
		{
			"2001:1400::/23",
			false,
			"2001:1400::/23",
			[]string{
				"https://rdap.db.ripe.net/",
			},
		},
		{
			"2001/129",
			true,
			"",
			[]string{},
		},
	}

	runRegistryTests(t, tests, n)
}
