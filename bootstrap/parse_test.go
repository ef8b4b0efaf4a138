// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package bootstrap

import "testing"

func TestParseValid(t *testing.T) {
	doc := `{
	  "version": "1.0",
	  "publication": "2024-01-01T00:00:00Z",
	  "description": "test",
	  "services": [
	    [["com"], ["https://example.com"]],
	    [["net"], ["https://example.net"]],
	    [["org"], ["https://example.org"]]
	  ]
	}`

	r, err := parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}

	if len(r.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d: %v", len(r.Entries), r)
	}
}

func TestParseEmpty(t *testing.T) {
	_, err := parse([]byte(``))
	if err == nil {
		t.Fatal("unexpected success parsing empty document")
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := parse([]byte(`{not valid json`))
	if err == nil {
		t.Fatal("unexpected success parsing document with a syntax error")
	}
}

func TestParseBadServices(t *testing.T) {
	doc := `{
	  "version": "1.0",
	  "services": [
	    [["com"]]
	  ]
	}`

	_, err := parse([]byte(doc))
	if err == nil {
		t.Fatal("unexpected success parsing document with a bad services array")
	}
}

func TestParseIgnoresUnparsableURL(t *testing.T) {
	doc := `{
	  "version": "1.0",
	  "services": [
	    [["com"], ["https://example.com", "://not a url"]],
	    [["net"], ["https://example.net"]],
	    [["org"], ["https://example.org"]]
	  ]
	}`

	r, err := parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}

	if len(r.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d: %v", len(r.Entries), r)
	}

	if len(r.Entries["com"]) != 1 {
		t.Fatalf("expected the bad URL to be dropped, got %v", r.Entries["com"])
	}
}
