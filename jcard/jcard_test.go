// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package jcard

import (
	"reflect"
	"testing"
)

func TestJCardErrors(t *testing.T) {
	documents := []string{
		`not json`,
		`42`,
		`["notvcard", []]`,
		`["vcard", "not an array"]`,
		`["vcard", [["tel"]]]`,
		`["vcard", [[1, {}, "text", "x"]]]`,
		`["vcard", [["tel", {}, 1, "x"]]]`,
		`["vcard", [["tel", "bad params", "text", "x"]]]`,
		`["vcard", [["tel", {"type": [1]}, "text", "x"]]]`,
		`["vcard", [["deep", {}, "text", [[[["too deep"]]]]]]]`,
	}

	for _, doc := range documents {
		j, err := NewJCard([]byte(doc))
		if j != nil || err == nil {
			t.Errorf("jCard with error unexpectedly parsed %s -> %v %v", doc, j, err)
		}
	}
}

const exampleDoc = `["vcard", [
  ["version", {}, "text", "4.0"],
  ["n", {}, "text", ["Perreault", "Simon", "", "", ["ing. jr", "M.Sc."]]],
  ["tel", {"type": ["work", "voice"], "pref": "1"}, "uri", "tel:+1-418-656-9254;ext=102"]
]]`

func TestJCardExample(t *testing.T) {
	j, err := NewJCard([]byte(exampleDoc))
	if j == nil || err != nil {
		t.Fatalf("jCard parse failed %v %s", j, err)
	}

	if len(j.Properties) != 3 {
		t.Errorf("got %d properties, expected 3", len(j.Properties))
	}

	expectedVersion := &Property{
		Name:       "version",
		Parameters: make(map[string][]string),
		Type:       "text",
		Value:      "4.0",
	}

	if !reflect.DeepEqual(j.Get("version")[0], expectedVersion) {
		t.Errorf("version field incorrect: %+v", j.Get("version")[0])
	}

	expectedFlatN := []string{
		"Perreault",
		"Simon",
		"",
		"",
		"ing. jr",
		"M.Sc.",
	}

	if !reflect.DeepEqual(j.Get("n")[0].Values(), expectedFlatN) {
		t.Errorf("n flat value incorrect: %v", j.Get("n")[0].Values())
	}

	expectedTel0 := &Property{
		Name:       "tel",
		Parameters: map[string][]string{"type": {"work", "voice"}, "pref": {"1"}},
		Type:       "uri",
		Value:      "tel:+1-418-656-9254;ext=102",
	}

	if !reflect.DeepEqual(j.Get("tel")[0], expectedTel0) {
		t.Errorf("tel[0] field incorrect: %+v", j.Get("tel")[0])
	}
}

func TestJCardMixedDatatypes(t *testing.T) {
	doc := `["vcard", [
	  ["mixed", {}, "text", ["abc", true, 42, null, ["def", false, 43]]]
	]]`

	j, err := NewJCard([]byte(doc))
	if j == nil || err != nil {
		t.Fatalf("jCard parse failed %v %s", j, err)
	}

	expectedFlatMixed := []string{
		"abc",
		"true",
		"4.2e+01",
		"",
		"def",
		"false",
		"4.3e+01",
	}

	flattened := j.Get("mixed")[0].Values()
	if !reflect.DeepEqual(flattened, expectedFlatMixed) {
		t.Errorf("mixed flat value incorrect %v", flattened)
	}
}

func TestJCardRoundTrip(t *testing.T) {
	j, err := NewJCard([]byte(exampleDoc))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	data, err := j.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	j2, err := NewJCard(data)
	if err != nil {
		t.Fatalf("re-parse failed: %v", err)
	}

	if len(j2.Properties) != len(j.Properties) {
		t.Fatalf("round trip lost properties: got %d want %d", len(j2.Properties), len(j.Properties))
	}
}
