package check

import "github.com/rdapkit/rdap"

// ObjectCommonChecks evaluates the fields shared by every RDAP object class:
// links, handle, status, and events.
func ObjectCommonChecks(o rdap.ObjectCommon, params Params) []Tree {
	var subTrees []Tree

	if len(o.Links) > 0 {
		subTrees = append(subTrees, LinksChecks(o.Links, params))
	} else if params.Root != ParentNameserver && params.ParentType != ParentNameserver {
		subTrees = append(subTrees, leaf("Links", -1, newItem(Std95Error, "objectClassHasNoSelfLink", "object has no self link")))
	}

	for _, r := range o.Remarks {
		subTrees = append(subTrees, NoticeOrRemarkChecks(r, "Remark", params))
	}

	for _, e := range o.Events {
		if !isRFC3339(e.Date) {
			subTrees = append(subTrees, leaf("Event", -1, newItem(Std95Error, "eventDateIsNotRfc3339", "event date is not a valid RFC 3339 timestamp")))
		}
	}

	if isBlank(o.Handle) && o.Handle != "" {
		subTrees = append(subTrees, leaf("Handle", -1, newItem(Std95Error, "handleIsEmpty", "handle is empty or whitespace")))
	}

	for _, s := range o.Status {
		if isBlank(s) {
			subTrees = append(subTrees, leaf("Status", -1, newItem(Std95Error, "statusIsEmpty", "a status entry is empty or whitespace")))
			break
		}
	}

	return subTrees
}

// NoticeOrRemarkChecks evaluates one notice or remark object.
func NoticeOrRemarkChecks(n rdap.NoticeOrRemark, structName string, params Params) Tree {
	var items []Item
	if len(n.Description.Values) == 0 {
		items = append(items, newItem(Std95Error, "noticeOrRemarkMissingDescription", structName+" is missing a description"))
	}

	t := Tree{StructName: structName, Items: items}
	if params.DoSubchecks {
		for _, l := range n.Links {
			t.SubTrees = append(t.SubTrees, LinkChecks(l, params))
		}
	}
	return t
}
