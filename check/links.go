package check

import "github.com/rdapkit/rdap"

// relatedAndSelfLinkParents lists the object classes for which a missing or
// malformed "self"/"related" link is a check-worthy condition.
func relatedAndSelfLinkParents(p ParentType) bool {
	switch p {
	case ParentDomain, ParentEntity, ParentAutNum, ParentNetwork:
		return true
	default:
		return false
	}
}

// LinkChecks evaluates one RDAP link object.
func LinkChecks(l rdap.Link, params Params) Tree {
	var items []Item

	if l.Value == "" {
		items = append(items, newItem(Std95Warning, "linkMissingValueProperty", "link is missing the value property"))
	}

	switch {
	case l.Rel == "":
		items = append(items, newItem(Std95Error, "linkMissingRelProperty", "link is missing the rel property"))
	case l.Rel == "related":
		if l.Type == "" {
			items = append(items, newItem(Std95Warning, "relatedLinkHasNoType", "related link has no type property"))
		} else if l.Type != rdapMediaType && relatedAndSelfLinkParents(params.ParentType) {
			items = append(items, newItem(Std95Warning, "relatedLinkIsNotRdap", "related link's type is not application/rdap+json"))
		}
	case l.Rel == "self":
		if l.Type == "" {
			items = append(items, newItem(Std95Warning, "selfLinkHasNoType", "self link has no type property"))
		} else if l.Type != rdapMediaType {
			items = append(items, newItem(Std95Warning, "selfLinkIsNotRdap", "self link's type is not application/rdap+json"))
		}
	}

	return leaf("Link", -1, items...)
}

// LinksChecks evaluates a links array, one subtree per entry.
func LinksChecks(links []rdap.Link, params Params) Tree {
	t := Tree{StructName: "Links"}
	if !ObjectHasSelfLink(links) && (relatedAndSelfLinkParents(params.ParentType) || params.Root == ParentNameserver) {
		t.Items = append(t.Items, newItem(Std95Error, "objectClassHasNoSelfLink", "object has no self link"))
	}
	if params.DoSubchecks {
		for _, l := range links {
			t.SubTrees = append(t.SubTrees, LinkChecks(l, params))
		}
	}
	return t
}

// ObjectHasSelfLink reports whether links contains a rel="self" entry.
func ObjectHasSelfLink(links []rdap.Link) bool {
	for _, l := range links {
		if l.Rel == "self" {
			return true
		}
	}
	return false
}
