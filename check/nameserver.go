package check

import "github.com/rdapkit/rdap"

// NameserverChecks evaluates a Nameserver object.
func NameserverChecks(n *rdap.Nameserver, params Params) Tree {
	isRoot := isRootCall(params)
	params.ParentType = ParentNameserver
	if params.Root == ParentNone {
		params.Root = ParentNameserver
	}

	items := rdapConformancePlacementCheck(n.Common.RdapConformance, isRoot)
	if n.LDHName != "" && !isLDH(n.LDHName) {
		items = append(items, newItem(Std95Error, "ldhNameInvalid", "ldhName is not a valid LDH domain name"))
	}
	if n.UnicodeName != "" && !isUnicodeDomainName(n.UnicodeName) {
		items = append(items, newItem(Std95Error, "unicodeNameInvalid", "unicodeName is not a valid Unicode domain name"))
	}

	t := Tree{StructName: "Nameserver", Index: -1, Items: items}
	t.SubTrees = append(t.SubTrees, ObjectCommonChecks(n.ObjectCommon, params)...)

	if isRoot {
		t.SubTrees = append(t.SubTrees, RdapConformanceChecks(n.Common.RdapConformance, params)...)
	}

	return t
}
