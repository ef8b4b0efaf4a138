package extensions

import "testing"

func TestLookupKnown(t *testing.T) {
	e := Lookup("rdap_level_0")
	if e != RdapLevel0 {
		t.Fatalf("expected RdapLevel0, got %v", e)
	}
	if e.String() != "rdap_level_0" {
		t.Fatalf("round-trip mismatch: %s", e.String())
	}
}

func TestLookupUnknown(t *testing.T) {
	e := Lookup("some_future_extension")
	if e != Unknown {
		t.Fatalf("expected Unknown, got %v", e)
	}
	if IsKnown("some_future_extension") {
		t.Fatal("expected IsKnown to be false")
	}
}

func TestGroupSatisfied(t *testing.T) {
	conformance := []string{"rdap_level_0", "icann_rdap_response_profile_1", "icann_rdap_technical_implementation_guide_0"}

	if !GroupGtld.Satisfied(conformance) {
		t.Fatal("expected gtld group to be satisfied")
	}

	if GroupNro.Satisfied(conformance) {
		t.Fatal("expected nro group to be unsatisfied")
	}
}

func TestGroupLookup(t *testing.T) {
	g, ok := LookupGroup("nro_asn")
	if !ok {
		t.Fatal("expected to find group nro_asn")
	}
	if len(g.Expand()) != 1 {
		t.Fatalf("expected 1 alternative-set, got %d", len(g.Expand()))
	}
}
