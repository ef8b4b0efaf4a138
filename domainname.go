// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package rdap

import (
	"strings"

	"golang.org/x/net/idna"
)

// DomainName is a validated DNS name carrying both its ASCII (LDH) and
// Unicode (U-label) projections. The two projections are IDNA-consistent
// whenever both are populated; see the check engine's
// LdhNameDoesNotMatchUnicode item for what happens when a server disagrees.
type DomainName struct {
	// LDH is the "letters, digits, hyphen" ASCII form, e.g. "xn--mnchen-3ya.de".
	LDH string

	// Unicode is the U-label form, e.g. "münchen.de". Empty if the name
	// has no non-ASCII labels and no source Unicode form was supplied.
	Unicode string
}

var idnaProfile = idna.New(
	idna.MapForLookup(),
	idna.Transitional(false),
	idna.StrictDomainName(false),
)

// newDomainNameFromInput builds a DomainName from an arbitrary input string,
// which may be already-ASCII (LDH) or Unicode. It populates whichever
// projections can be computed; validation failures are returned as errors
// rather than silently dropping a projection.
func newDomainNameFromInput(s string) (DomainName, error) {
	s = strings.TrimSuffix(s, ".")
	s = strings.TrimPrefix(s, ".")
	if s == "" {
		return DomainName{}, &ClientError{Type: InvalidQueryValue, Text: "empty domain name"}
	}

	ascii, err := idnaProfile.ToASCII(s)
	if err != nil {
		return DomainName{}, &ClientError{Type: InvalidQueryValue, Text: "invalid domain name: " + err.Error()}
	}

	dn := DomainName{LDH: strings.ToLower(ascii)}

	if isASCII(s) {
		// Input was already ASCII; Unicode projection is only interesting
		// if the name actually contains Punycode labels.
		if u, err := idnaProfile.ToUnicode(ascii); err == nil && u != ascii {
			dn.Unicode = u
		}
	} else {
		dn.Unicode = s
	}

	return dn, nil
}

// isASCII reports whether s contains only ASCII code points.
func isASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return false
		}
	}
	return true
}

// IsIDNAConsistent reports whether the LDH and Unicode projections agree
// (per the idna Lookup profile), when both are present. An absent Unicode
// projection is trivially consistent.
func (d DomainName) IsIDNAConsistent() bool {
	if d.Unicode == "" {
		return true
	}

	ascii, err := idnaProfile.ToASCII(d.Unicode)
	if err != nil {
		return false
	}

	return strings.EqualFold(ascii, d.LDH)
}

// Labels returns the ASCII (LDH) labels of the domain name, leftmost first.
func (d DomainName) Labels() []string {
	if d.LDH == "" {
		return nil
	}
	return strings.Split(d.LDH, ".")
}

// isValidLDHLabel reports whether label follows RFC 1035/5890 LDH rules:
// 1-63 characters, alphanumeric and hyphen only, no leading/trailing hyphen.
func isValidLDHLabel(label string) bool {
	if len(label) == 0 || len(label) > 63 {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return false
		}
	}
	return true
}

// IsValidLDH reports whether the domain's LDH projection is a syntactically
// valid LDH name: every label passes isValidLDHLabel.
func (d DomainName) IsValidLDH() bool {
	labels := d.Labels()
	if len(labels) == 0 {
		return false
	}
	for _, l := range labels {
		if !isValidLDHLabel(l) {
			return false
		}
	}
	return true
}

// looksLikeNameserver applies the §4.1 rule 5 heuristic: the leftmost label
// begins (case-insensitive) with "ns" and the name has at least 3 labels.
func looksLikeNameserver(labels []string) bool {
	if len(labels) < 3 {
		return false
	}
	first := strings.ToLower(labels[0])
	return strings.HasPrefix(first, "ns")
}

// documentationSuffixes are DNS names reserved by RFC 2606/6761 for use in
// documentation; the check engine flags domains that are or end in one of
// these (§4.5 Domain checks).
var documentationSuffixes = []string{
	"example",
	"example.com",
	"example.net",
	"example.org",
}

// IsDocumentationName reports whether d is, or ends in, a documentation
// reserved suffix.
func (d DomainName) IsDocumentationName() bool {
	name := strings.ToLower(strings.TrimSuffix(d.LDH, "."))
	for _, suffix := range documentationSuffixes {
		if name == suffix || strings.HasSuffix(name, "."+suffix) {
			return true
		}
	}
	return false
}
