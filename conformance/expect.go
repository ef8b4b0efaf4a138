package conformance

import (
	"strings"

	"github.com/rdapkit/rdap/extensions"
)

// expectation is one resolved "a|b" alternative-set: satisfied if the
// response's rdapConformance contains at least one member.
type expectation struct {
	source      string // the original expectExtensions/expectGroups entry, for the failure message
	alternatives []string
}

// expandExpectations resolves expectExtensions ("a", or "a|b" meaning "a or
// b") and expectGroups (predefined Gtld/Nro/NroAsn bundles) into concrete
// expectation alternative-sets, per spec.md §4.8's "Expected-extensions
// contract".
func expandExpectations(expectExtensions, expectGroups []string) []expectation {
	var out []expectation

	for _, e := range expectExtensions {
		out = append(out, expectation{
			source:       e,
			alternatives: strings.Split(e, "|"),
		})
	}

	for _, name := range expectGroups {
		g, ok := extensions.LookupGroup(name)
		if !ok {
			continue
		}
		for _, alt := range g.Expand() {
			out = append(out, expectation{
				source:       name + ":" + strings.Join(alt, "|"),
				alternatives: alt,
			})
		}
	}

	return out
}

// verifyExpectations checks each expectation against the response's
// rdapConformance, returning the source text of each unmet expectation.
func verifyExpectations(conformance []string, expectations []expectation) []string {
	present := make(map[string]bool, len(conformance))
	for _, c := range conformance {
		present[c] = true
	}

	var failures []string
	for _, exp := range expectations {
		matched := false
		for _, alt := range exp.alternatives {
			if present[alt] {
				matched = true
				break
			}
		}
		if !matched {
			failures = append(failures, exp.source)
		}
	}
	return failures
}
