// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package bootstrap

import "testing"

type registryTest struct {
	Query string

	Error bool

	Entry string
	URLs  []string
}

func runRegistryTests(t *testing.T, tests []registryTest, reg Registry) {
	for _, tc := range tests {
		r, err := reg.Lookup(tc.Query)

		if tc.Error && err == nil {
			t.Errorf("Query: %s, expected error, didn't get one", tc.Query)
			continue
		} else if !tc.Error && err != nil {
			t.Errorf("Query: %s, unexpected error: %s", tc.Query, err)
			continue
		}

		if tc.Error {
			continue
		}

		if r == nil {
			t.Errorf("Query: %s, unexpected nil Result", tc.Query)
			continue
		}

		if r.Entry != tc.Entry {
			t.Errorf("Query: %s, expected Entry %s, got %s", tc.Query, tc.Entry, r.Entry)
			continue
		}

		if len(r.URLs) != len(tc.URLs) {
			t.Errorf("Query: %s, expected %d urls, got %d", tc.Query, len(tc.URLs), len(r.URLs))
			continue
		}

		for i, url := range tc.URLs {
			if r.URLs[i].String() != url {
				t.Errorf("Query %s, URL #%d, expected %s, got %s", tc.Query, i, url, r.URLs[i])
				continue
			}
		}
	}
}
