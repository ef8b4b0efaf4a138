// Package extensions recognizes the closed set of IANA-registered RDAP
// extension identifiers (rdapConformance strings) and bundles them into
// named groups for conformance testing (C10).
package extensions

// Extension identifies one IANA-registered rdapConformance string.
type Extension int

const (
	// Unknown marks a string not in the closed set below. The original
	// string is preserved verbatim by callers; Unknown is a routing value,
	// never serialized.
	Unknown Extension = iota

	RdapLevel0
	Cidr0
	Redacted
	RedactedExplicit
	Fred
	Subsetting
	Sorting
	Paging
	SearchResultsTruncated
	ReverseSearch
	NroRdapProfile0
	NroRdapProfile1
	NroRdapProfileAsnFlat0
	NroRdapProfileAsnHierarchical0
	IcannRdapResponseProfile0
	IcannRdapResponseProfile1
	IcannRdapTechnicalImplementationGuide0
	IcannRdapTechnicalImplementationGuide1
	ArtRecord
	RegType
)

var names = map[string]Extension{
	"rdap_level_0":                               RdapLevel0,
	"cidr0":                                       Cidr0,
	"redacted":                                    Redacted,
	"redacted_explicit":                           RedactedExplicit,
	"fred":                                        Fred,
	"subsetting":                                  Subsetting,
	"sorting":                                     Sorting,
	"paging":                                      Paging,
	"search_results_truncated":                    SearchResultsTruncated,
	"reverse_search":                              ReverseSearch,
	"nro_rdap_profile_0":                          NroRdapProfile0,
	"nro_rdap_profile_1":                          NroRdapProfile1,
	"nro_rdap_profile_asn_flat_0":                 NroRdapProfileAsnFlat0,
	"nro_rdap_profile_asn_hierarchical_0":         NroRdapProfileAsnHierarchical0,
	"icann_rdap_response_profile_0":               IcannRdapResponseProfile0,
	"icann_rdap_response_profile_1":               IcannRdapResponseProfile1,
	"icann_rdap_technical_implementation_guide_0": IcannRdapTechnicalImplementationGuide0,
	"icann_rdap_technical_implementation_guide_1": IcannRdapTechnicalImplementationGuide1,
	"artRecord":                                   ArtRecord,
	"regType":                                     RegType,
}

var strValues map[Extension]string

func init() {
	strValues = make(map[Extension]string, len(names))
	for s, e := range names {
		strValues[e] = s
	}
}

// Lookup maps a wire string to its known Extension, or Unknown if the
// string is not in the closed set.
func Lookup(s string) Extension {
	if e, ok := names[s]; ok {
		return e
	}
	return Unknown
}

// String returns the wire form of e, or "" for Unknown.
func (e Extension) String() string {
	return strValues[e]
}

// IsKnown reports whether s is one of the IANA-registered identifiers this
// package recognizes.
func IsKnown(s string) bool {
	_, ok := names[s]
	return ok
}

// Group is a named, predefined bundle of extension identifier strings.
// Some entries in a group are themselves alternatives ("a|b" in the wire
// form means "a or b"); Members expresses this as a slice of slices, where
// satisfying any one string within an inner slice satisfies that entry.
type Group struct {
	Name    string
	Members [][]string
}

// Predefined extension groups referenced by the conformance tester's
// expectGroups option.
var (
	GroupGtld = Group{
		Name: "gtld",
		Members: [][]string{
			{"icann_rdap_response_profile_0", "icann_rdap_response_profile_1"},
			{"icann_rdap_technical_implementation_guide_0", "icann_rdap_technical_implementation_guide_1"},
		},
	}

	GroupNro = Group{
		Name: "nro",
		Members: [][]string{
			{"nro_rdap_profile_0", "nro_rdap_profile_1"},
		},
	}

	GroupNroAsn = Group{
		Name: "nro_asn",
		Members: [][]string{
			{"nro_rdap_profile_asn_flat_0", "nro_rdap_profile_asn_hierarchical_0"},
		},
	}
)

var groupsByName = map[string]Group{
	GroupGtld.Name:   GroupGtld,
	GroupNro.Name:    GroupNro,
	GroupNroAsn.Name: GroupNroAsn,
}

// LookupGroup returns the predefined group named name, if any.
func LookupGroup(name string) (Group, bool) {
	g, ok := groupsByName[name]
	return g, ok
}

// Expand flattens a group into its alternative-sets, the form the
// conformance tester checks one-of against an observed rdapConformance list.
func (g Group) Expand() [][]string {
	return g.Members
}

// Satisfied reports whether conformance (the response's rdapConformance
// list) contains at least one string from each alternative-set in the
// group.
func (g Group) Satisfied(conformance []string) bool {
	present := make(map[string]bool, len(conformance))
	for _, c := range conformance {
		present[c] = true
	}

	for _, alternatives := range g.Members {
		matched := false
		for _, alt := range alternatives {
			if present[alt] {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}
