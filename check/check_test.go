package check

import (
	"testing"

	"github.com/rdapkit/rdap"
)

func TestLinkMissingRel(t *testing.T) {
	tree := LinkChecks(rdap.Link{Href: "https://example.com", Value: "https://example.com"}, Params{ParentType: ParentDomain, Root: ParentDomain})

	found := false
	for _, item := range tree.Items {
		if item.Code == "linkMissingRelProperty" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected linkMissingRelProperty")
	}
}

func TestLinkSelfWithoutType(t *testing.T) {
	tree := LinkChecks(rdap.Link{Href: "https://example.com", Value: "https://example.com", Rel: "self"}, Params{})

	if len(tree.Items) != 1 || tree.Items[0].Code != "selfLinkHasNoType" {
		t.Fatalf("expected selfLinkHasNoType, got %#v", tree.Items)
	}
}

func TestDomainChecksBadLDH(t *testing.T) {
	d := &rdap.Domain{
		ObjectCommon: rdap.ObjectCommon{
			Handle: "EXAMPLE-DOM",
			Links:  []rdap.Link{{Rel: "self", Type: "application/rdap+json", Href: "https://example.com/domain/foo%20bar", Value: "https://example.com/domain/foo%20bar"}},
		},
		LDHName: "foo bar.com",
	}

	tree := DomainChecks(d, DefaultParams())

	items := All(tree)
	var codes []string
	for _, i := range items {
		codes = append(codes, i.Code)
	}

	hasInvalid := false
	for _, c := range codes {
		if c == "ldhNameInvalid" {
			hasInvalid = true
		}
	}
	if !hasInvalid {
		t.Fatalf("expected ldhNameInvalid among %v", codes)
	}
}

func TestDomainChecksNoSelfLink(t *testing.T) {
	d := &rdap.Domain{
		ObjectCommon: rdap.ObjectCommon{Handle: "EXAMPLE-DOM"},
		LDHName:      "foo.example",
	}

	tree := DomainChecks(d, DefaultParams())

	if !AnyOf(tree, Std95Error) {
		t.Fatal("expected a Std95Error for the missing self link")
	}
}

func TestDomainChecksDocumentationName(t *testing.T) {
	d := &rdap.Domain{
		ObjectCommon: rdap.ObjectCommon{
			Links: []rdap.Link{{Rel: "self", Type: "application/rdap+json", Href: "https://example.com", Value: "https://example.com"}},
		},
		LDHName: "foo.example.com",
	}

	tree := DomainChecks(d, DefaultParams())

	found := false
	for _, i := range All(tree) {
		if i.Code == "ldhNameIsDocumentationName" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected ldhNameIsDocumentationName")
	}
}

func TestSecureDNSLeniency(t *testing.T) {
	sd := &rdap.SecureDNS{
		DelegationSigned: &rdap.Boolish{Value: true, WasString: true},
	}

	tree := SecureDNSChecks(sd, Params{})

	found := false
	for _, i := range tree.Items {
		if i.Code == "delegationSignedIsString" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected delegationSignedIsString")
	}
}

func TestFilterRetainsOnlyRequestedClasses(t *testing.T) {
	tree := Tree{
		StructName: "root",
		Items: []Item{
			{Class: Informational, Code: "a"},
			{Class: Std95Error, Code: "b"},
		},
		SubTrees: []Tree{
			{StructName: "child", Items: []Item{{Class: Std95Warning, Code: "c"}}},
		},
	}

	filtered := Filter(tree, Std95Error)

	if len(filtered.Items) != 1 || filtered.Items[0].Code != "b" {
		t.Fatalf("unexpected filtered items: %#v", filtered.Items)
	}
	if len(filtered.SubTrees) != 0 {
		t.Fatalf("expected the child subtree to be dropped, got %#v", filtered.SubTrees)
	}
}

func TestRdapConformanceChecksFlagsUnknown(t *testing.T) {
	trees := RdapConformanceChecks([]string{"rdap_level_0", "some_unknown_extension"}, Params{})

	if len(trees) != 1 {
		t.Fatalf("expected 1 flagged extension, got %d", len(trees))
	}
}

func TestRdapConformanceChecksAllowUnregistered(t *testing.T) {
	trees := RdapConformanceChecks([]string{"some_unknown_extension"}, Params{AllowUnregisteredExtensions: true})

	if len(trees) != 0 {
		t.Fatalf("expected no flagged extensions, got %d", len(trees))
	}
}
