package check

import "github.com/rdapkit/rdap"

// EntityChecks evaluates an Entity object.
func EntityChecks(e *rdap.Entity, params Params) Tree {
	isRoot := isRootCall(params)
	params.ParentType = ParentEntity
	if params.Root == ParentNone {
		params.Root = ParentEntity
	}

	items := rdapConformancePlacementCheck(e.Common.RdapConformance, isRoot)
	if len(e.Roles) == 0 {
		items = append(items, newItem(SpecificationNote, "entityHasNoRoles", "entity has no roles"))
	}

	t := Tree{StructName: "Entity", Index: -1, Items: items}
	t.SubTrees = append(t.SubTrees, ObjectCommonChecks(e.ObjectCommon, params)...)

	if isRoot {
		t.SubTrees = append(t.SubTrees, RdapConformanceChecks(e.Common.RdapConformance, params)...)
	}

	if params.DoSubchecks {
		for i := range e.Entities {
			t.SubTrees = append(t.SubTrees, EntityChecks(&e.Entities[i], params))
		}
	}

	return t
}
