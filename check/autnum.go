package check

import "github.com/rdapkit/rdap"

// AutNumChecks evaluates an AutNum object.
func AutNumChecks(a *rdap.AutNum, params Params) Tree {
	isRoot := isRootCall(params)
	params.ParentType = ParentAutNum
	if params.Root == ParentNone {
		params.Root = ParentAutNum
	}

	items := rdapConformancePlacementCheck(a.Common.RdapConformance, isRoot)
	if a.StartAutnum != nil && a.EndAutnum != nil {
		start, okS := a.StartAutnum.AsUint32()
		end, okE := a.EndAutnum.AsUint32()
		if okS && okE && start > end {
			items = append(items, newItem(Std95Error, "autnumStartGreaterThanEnd", "startAutnum is greater than endAutnum"))
		}
	}

	t := Tree{StructName: "Autnum", Index: -1, Items: items}
	t.SubTrees = append(t.SubTrees, ObjectCommonChecks(a.ObjectCommon, params)...)

	if isRoot {
		t.SubTrees = append(t.SubTrees, RdapConformanceChecks(a.Common.RdapConformance, params)...)
	}

	if params.DoSubchecks {
		for i := range a.Entities {
			t.SubTrees = append(t.SubTrees, EntityChecks(&a.Entities[i], params))
		}
	}

	return t
}
