package contact

import (
	"encoding/json"
	"testing"
)

const exampleVCard = `["vcard", [
  ["version", {}, "text", "4.0"],
  ["fn", {}, "text", "Joe Appleseed"],
  ["n", {}, "text", ["Appleseed", "Joe", "", "", ""]],
  ["org", {}, "text", "Example Corp"],
  ["adr", {"cc": "US"}, "text", ["", "", "123 Example Dr.", "Dulles", "VA", "20166-6503", "US"]],
  ["tel", {"type": ["work", "voice"]}, "uri", "tel:+1-703-555-0123"],
  ["email", {"type": ["work"]}, "text", "joe@example.com"]
]]`

func TestFromVCard(t *testing.T) {
	c, err := FromVCard(json.RawMessage(exampleVCard))
	if err != nil {
		t.Fatalf("FromVCard failed: %v", err)
	}

	if c.FullName != "Joe Appleseed" {
		t.Errorf("FullName = %q", c.FullName)
	}

	if c.NameParts == nil || c.NameParts.Given != "Joe" {
		t.Fatalf("NameParts.Given incorrect: %+v", c.NameParts)
	}

	if len(c.NameParts.Surnames) != 1 || c.NameParts.Surnames[0] != "Appleseed" {
		t.Errorf("Surnames incorrect: %v", c.NameParts.Surnames)
	}

	if len(c.OrganizationNames) != 1 || c.OrganizationNames[0] != "Example Corp" {
		t.Errorf("OrganizationNames incorrect: %v", c.OrganizationNames)
	}

	if len(c.PostalAddresses) != 1 {
		t.Fatalf("expected 1 postal address, got %d", len(c.PostalAddresses))
	}
	addr := c.PostalAddresses[0]
	if addr.Locality != "Dulles" || addr.Region != "VA" || addr.Country != "US" || addr.CountryCode != "US" {
		t.Errorf("address incorrect: %+v", addr)
	}

	if len(c.Phones) != 1 || c.Phones[0].Number != "tel:+1-703-555-0123" {
		t.Errorf("phones incorrect: %+v", c.Phones)
	}
	if len(c.Phones[0].Features) != 1 || c.Phones[0].Features[0] != "voice" {
		t.Errorf("phone features incorrect: %v", c.Phones[0].Features)
	}

	if len(c.Emails) != 1 || c.Emails[0].Address != "joe@example.com" {
		t.Errorf("emails incorrect: %+v", c.Emails)
	}
}

func TestToVCardRoundTrip(t *testing.T) {
	c := Contact{
		FullName: "Jane Doe",
		NameParts: &NameParts{
			Given:    "Jane",
			Surnames: []string{"Doe"},
		},
		OrganizationNames: []string{"Acme Inc."},
		Emails:            []Email{{Address: "jane@example.com", Contexts: []string{"work"}}},
		Phones:            []Phone{{Number: "tel:+1-555-0100", Features: []string{"voice"}}},
	}

	raw, err := ToVCard(c)
	if err != nil {
		t.Fatalf("ToVCard failed: %v", err)
	}

	c2, err := FromVCard(raw)
	if err != nil {
		t.Fatalf("FromVCard of generated document failed: %v", err)
	}

	if c2.FullName != c.FullName {
		t.Errorf("FullName round trip: got %q want %q", c2.FullName, c.FullName)
	}
	if c2.NameParts == nil || c2.NameParts.Given != "Jane" {
		t.Errorf("NameParts round trip failed: %+v", c2.NameParts)
	}
	if len(c2.Emails) != 1 || c2.Emails[0].Address != "jane@example.com" {
		t.Errorf("Emails round trip failed: %+v", c2.Emails)
	}
}

func TestJSContactRoundTrip(t *testing.T) {
	c := Contact{
		FullName: "Joe Appleseed",
		NameParts: &NameParts{
			Given:    "Joe",
			Surnames: []string{"Appleseed"},
		},
		OrganizationNames: []string{"Example Corp"},
		Emails:            []Email{{Address: "joe@example.com", Contexts: []string{"work"}}},
		PostalAddresses: []PostalAddress{{
			Locality:    "Dulles",
			Region:      "VA",
			Country:     "US",
			CountryCode: "US",
		}},
	}

	card := ToJSContact(c)
	if card.FullName != c.FullName {
		t.Errorf("FullName incorrect: %q", card.FullName)
	}

	back := FromJSContact(card)

	if back.FullName != c.FullName {
		t.Errorf("round trip FullName: got %q want %q", back.FullName, c.FullName)
	}
	if back.NameParts == nil || back.NameParts.Given != "Joe" || len(back.NameParts.Surnames) != 1 {
		t.Errorf("round trip NameParts: %+v", back.NameParts)
	}
	if len(back.OrganizationNames) != 1 || back.OrganizationNames[0] != "Example Corp" {
		t.Errorf("round trip org names: %v", back.OrganizationNames)
	}
	if len(back.PostalAddresses) != 1 || back.PostalAddresses[0].Locality != "Dulles" {
		t.Errorf("round trip address: %+v", back.PostalAddresses)
	}
}

func TestFromJSContactNil(t *testing.T) {
	c := FromJSContact(nil)
	if c.FullName != "" || c.NameParts != nil {
		t.Errorf("FromJSContact(nil) should return zero value, got %+v", c)
	}
}

func TestContactClone(t *testing.T) {
	c := Contact{
		FullName:          "Joe",
		NameParts:         &NameParts{Given: "Joe", Surnames: []string{"Appleseed"}},
		OrganizationNames: []string{"Example Corp"},
		Localizations: map[string]Contact{
			"fr": {FullName: "Joe (fr)"},
		},
	}

	clone := c.Clone()
	clone.NameParts.Given = "Changed"
	clone.OrganizationNames[0] = "Changed Corp"
	clone.Localizations["fr"] = Contact{FullName: "Changed"}

	if c.NameParts.Given != "Joe" {
		t.Errorf("Clone mutated original NameParts: %q", c.NameParts.Given)
	}
	if c.OrganizationNames[0] != "Example Corp" {
		t.Errorf("Clone mutated original OrganizationNames: %q", c.OrganizationNames[0])
	}
	if c.Localizations["fr"].FullName != "Joe (fr)" {
		t.Errorf("Clone mutated original Localizations: %+v", c.Localizations["fr"])
	}
}
