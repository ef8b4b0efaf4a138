package check

import (
	"net"

	"github.com/rdapkit/rdap"
)

// NetworkChecks evaluates a Network object, including the CIDR0 extension's
// cidr0_cidrs member when present.
func NetworkChecks(n *rdap.Network, params Params) Tree {
	isRoot := isRootCall(params)
	params.ParentType = ParentNetwork
	if params.Root == ParentNone {
		params.Root = ParentNetwork
	}

	items := rdapConformancePlacementCheck(n.Common.RdapConformance, isRoot)

	if n.StartAddress != "" && net.ParseIP(n.StartAddress) == nil {
		items = append(items, newItem(Std95Error, "startAddressInvalid", "startAddress is not a valid IP address"))
	}
	if n.EndAddress != "" && net.ParseIP(n.EndAddress) == nil {
		items = append(items, newItem(Std95Error, "endAddressInvalid", "endAddress is not a valid IP address"))
	}

	t := Tree{StructName: "Network", Index: -1, Items: items}

	for _, c := range n.Cidr0Cidrs {
		var cItems []Item
		if c.V4Prefix == "" && c.V6Prefix == "" {
			cItems = append(cItems, newItem(Cidr0Error, "cidr0MissingPrefix", "cidr0 entry has neither v4prefix nor v6prefix"))
		}
		if c.V4Prefix != "" && net.ParseIP(c.V4Prefix) == nil {
			cItems = append(cItems, newItem(Cidr0Error, "cidr0V4PrefixInvalid", "cidr0 v4prefix is not a valid IP address"))
		}
		if c.V6Prefix != "" && net.ParseIP(c.V6Prefix) == nil {
			cItems = append(cItems, newItem(Cidr0Error, "cidr0V6PrefixInvalid", "cidr0 v6prefix is not a valid IP address"))
		}
		if len(cItems) > 0 {
			t.SubTrees = append(t.SubTrees, leaf("Cidr0Cidr", -1, cItems...))
		}
	}

	t.SubTrees = append(t.SubTrees, ObjectCommonChecks(n.ObjectCommon, params)...)

	if isRoot {
		t.SubTrees = append(t.SubTrees, RdapConformanceChecks(n.Common.RdapConformance, params)...)
	}

	if params.DoSubchecks {
		for i := range n.Entities {
			t.SubTrees = append(t.SubTrees, EntityChecks(&n.Entities[i], params))
		}
	}

	return t
}
