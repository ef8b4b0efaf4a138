package redact

import (
	"encoding/json"
	"testing"

	"github.com/rdapkit/rdap"
	"github.com/rdapkit/rdap/contact"
)

func TestEvaluateEmptyValue(t *testing.T) {
	raw := json.RawMessage(`{
	  "objectClassName": "domain",
	  "handle": "EXAMPLE-DOM",
	  "entities": [{"objectClassName": "entity", "roles": ["registrant"], "handle": "ABC"}]
	}`)

	directives := []Directive{
		{PrePath: "$.entities[0].handle", Method: "emptyValue"},
	}

	evals, out, err := Evaluate(raw, directives)
	if err != nil {
		t.Fatal(err)
	}

	if len(evals) != 1 || evals[0].Kind != KindEmptyValue {
		t.Fatalf("expected KindEmptyValue, got %#v", evals)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatal(err)
	}
	entities := doc["entities"].([]interface{})
	entity := entities[0].(map[string]interface{})
	if entity["handle"] != "*ABC*" {
		t.Fatalf("expected rewritten handle, got %v", entity["handle"])
	}
}

func TestEvaluateRemoval(t *testing.T) {
	raw := json.RawMessage(`{"objectClassName": "domain", "handle": "EXAMPLE-DOM"}`)

	directives := []Directive{
		{PrePath: "$.nonexistent", Method: "removal"},
	}

	evals, _, err := Evaluate(raw, directives)
	if err != nil {
		t.Fatal(err)
	}

	if evals[0].Kind != KindRemoval {
		t.Fatalf("expected KindRemoval, got %v", evals[0].Kind)
	}
}

func TestEvaluatePredicateFilter(t *testing.T) {
	raw := json.RawMessage(`{
	  "entities": [
	    {"roles": ["registrant"], "handle": "REG-1"},
	    {"roles": ["technical"], "handle": "TECH-1"}
	  ]
	}`)

	matches := evalPath(mustUnmarshal(raw), parsePath(`$.entities[?(@.roles[0]=='technical')].handle`))
	if len(matches) != 1 || matches[0].Value != "TECH-1" {
		t.Fatalf("expected to match the technical entity's handle, got %#v", matches)
	}
}

func mustUnmarshal(raw json.RawMessage) interface{} {
	var v interface{}
	_ = json.Unmarshal(raw, &v)
	return v
}

func TestApplySimpleRedactionRegistrantName(t *testing.T) {
	domain := &rdap.Domain{
		ObjectCommon: rdap.ObjectCommon{
			Handle: "EXAMPLE-DOM",
			Entities: []rdap.Entity{
				{
					ObjectCommon: rdap.ObjectCommon{Handle: "REG-1"},
					Roles:        []string{"registrant"},
					VCardArray:   json.RawMessage(`["vcard", [["version", {}, "text", "4.0"], ["fn", {}, "text", "Jane Doe"]]]`),
				},
			},
		},
	}

	if !ApplySimpleRedaction(domain, "Registrant Name") {
		t.Fatal("expected the redaction to apply")
	}

	c, _, err := contactFromEntity(&domain.Entities[0])
	if err != nil {
		t.Fatal(err)
	}
	if c.FullName != sentinelName {
		t.Fatalf("expected the full name to be redacted, got %q", c.FullName)
	}

	if len(domain.Entities[0].Remarks) != 1 || domain.Entities[0].Remarks[0].Title != sentinelName {
		t.Fatalf("expected a remark recording the sentinel, got %#v", domain.Entities[0].Remarks)
	}

	// Applying twice must not duplicate the remark.
	ApplySimpleRedaction(domain, "Registrant Name")
	if len(domain.Entities[0].Remarks) != 1 {
		t.Fatalf("expected the remark not to be duplicated, got %d", len(domain.Entities[0].Remarks))
	}
}

func TestRedactPhoneExtSubstitutesExtensionOnly(t *testing.T) {
	c := contact.Contact{Phones: []contact.Phone{{Number: "+1.5551234567;ext=123", Features: []string{"voice"}}}}

	redactPhoneExt(&c, sentinelPhoneExt)

	want := "+1.5551234567;ext=" + sentinelPhoneExt
	if c.Phones[0].Number != want {
		t.Fatalf("expected %q, got %q", want, c.Phones[0].Number)
	}
}

func TestRedactPhoneExtAppendsWhenNoExtensionPresent(t *testing.T) {
	c := contact.Contact{Phones: []contact.Phone{{Number: "+1.5551234567", Features: []string{"voice"}}}}

	redactPhoneExt(&c, sentinelPhoneExt)

	want := "+1.5551234567 " + sentinelPhoneExt
	if c.Phones[0].Number != want {
		t.Fatalf("expected %q, got %q", want, c.Phones[0].Number)
	}
}

func TestRedactPhoneExtAppendIsIdempotent(t *testing.T) {
	c := contact.Contact{Phones: []contact.Phone{{Number: "+1.5551234567", Features: []string{"voice"}}}}

	redactPhoneExt(&c, sentinelPhoneExt)
	redactPhoneExt(&c, sentinelPhoneExt)

	want := "+1.5551234567 " + sentinelPhoneExt
	if c.Phones[0].Number != want {
		t.Fatalf("expected a single sentinel suffix after two applications, got %q", c.Phones[0].Number)
	}
}
