package check

import (
	"strings"

	"golang.org/x/net/idna"

	"github.com/rdapkit/rdap"
)

var domainCheckProfile = idna.New(
	idna.ValidateLabels(true),
	idna.VerifyDNSLength(true),
	idna.StrictDomainName(false),
)

var documentationReservedNames = []string{
	"example", "example.com", "example.net", "example.org",
}

func isDocumentationReserved(name string) bool {
	name = strings.TrimSuffix(strings.ToLower(name), ".")
	for _, r := range documentationReservedNames {
		if name == r || strings.HasSuffix(name, "."+r) {
			return true
		}
	}
	return false
}

func isLDH(s string) bool {
	s = strings.TrimSuffix(s, ".")
	for _, r := range s {
		if !(r == '-' || r == '.' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	_, err := domainCheckProfile.ToASCII(s)
	return err == nil
}

func isUnicodeDomainName(s string) bool {
	s = strings.TrimSuffix(s, ".")
	_, err := domainCheckProfile.ToUnicode(s)
	return err == nil
}

// DomainChecks evaluates a Domain object: ldhName/unicodeName validity and
// agreement, documentation-reserved names, variant entries, secureDNS, and
// the common object fields.
func DomainChecks(d *rdap.Domain, params Params) Tree {
	isRoot := isRootCall(params)
	params.ParentType = ParentDomain
	if params.Root == ParentNone {
		params.Root = ParentDomain
	}

	items := rdapConformancePlacementCheck(d.Common.RdapConformance, isRoot)

	if d.LDHName != "" {
		if !isLDH(d.LDHName) {
			items = append(items, newItem(Std95Error, "ldhNameInvalid", "ldhName is not a valid LDH domain name"))
		} else if isDocumentationReserved(d.LDHName) {
			items = append(items, newItem(SpecificationNote, "ldhNameIsDocumentationName", "ldhName is a documentation-reserved name"))
		}

		if d.UnicodeName != "" {
			expected, err := domainCheckProfile.ToASCII(strings.TrimSuffix(d.UnicodeName, "."))
			if err == nil && !strings.EqualFold(expected, strings.TrimSuffix(d.LDHName, ".")) {
				items = append(items, newItem(Std95Error, "ldhNameDoesNotMatchUnicode", "ldhName does not match the ASCII form of unicodeName"))
			}
		}
	}

	if d.UnicodeName != "" {
		if !isUnicodeDomainName(d.UnicodeName) {
			items = append(items, newItem(Std95Error, "unicodeNameInvalid", "unicodeName is not a valid Unicode domain name"))
		} else if isDocumentationReserved(d.UnicodeName) {
			items = append(items, newItem(SpecificationNote, "unicodeNameIsDocumentationName", "unicodeName is a documentation-reserved name"))
		}
	}

	t := Tree{StructName: "Domain", Index: -1, Items: items}

	if len(d.Variants) > 0 {
		emptyCount := 0
		for _, v := range d.Variants {
			if len(v.Relation) == 0 && v.IdnTable == "" && len(v.VariantNames) == 0 {
				emptyCount++
			}
		}
		if emptyCount > 0 {
			t.SubTrees = append(t.SubTrees, leaf("Variants", -1, newItem(Std95Warning, "variantEntriesAreEmpty", "one or more variant entries are entirely empty")))
		}
	}

	if d.SecureDNS != nil {
		t.SubTrees = append(t.SubTrees, SecureDNSChecks(d.SecureDNS, params))
	}

	t.SubTrees = append(t.SubTrees, ObjectCommonChecks(d.ObjectCommon, params)...)

	if isRoot {
		t.SubTrees = append(t.SubTrees, RdapConformanceChecks(d.Common.RdapConformance, params)...)
	}

	if params.DoSubchecks {
		for i := range d.Nameservers {
			t.SubTrees = append(t.SubTrees, NameserverChecks(&d.Nameservers[i], params))
		}
		for i := range d.Entities {
			t.SubTrees = append(t.SubTrees, EntityChecks(&d.Entities[i], params))
		}
	}

	return t
}
