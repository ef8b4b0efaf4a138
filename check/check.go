// Package check implements a tree-walking check engine (C6) that inspects a
// parsed RDAP response for structural and semantic violations of RFC 9083
// and its companion profiles.
//
// The engine never errors and never mutates its input: it emits a CheckTree
// mirroring the shape of the response, with CheckItems attached at the node
// where each issue was found. Callers filter the tree down to the classes
// they care about.
package check

import (
	"strings"
	"time"
)

// Class classifies a CheckItem, governing how callers route it to exit
// codes and filters.
type Class int

const (
	// Informational is purely diagnostic.
	Informational Class = iota

	// SpecificationNote is a point worth surfacing but not a violation.
	SpecificationNote

	// Std95Warning is a soft RFC 9083 issue.
	Std95Warning

	// Std95Error is a hard RFC 9083 issue.
	Std95Error

	// Cidr0Error is a CIDR0 extension violation.
	Cidr0Error

	// GtldProfileError is an ICANN gTLD-profile violation.
	GtldProfileError
)

func (c Class) String() string {
	switch c {
	case Informational:
		return "Informational"
	case SpecificationNote:
		return "SpecificationNote"
	case Std95Warning:
		return "Std95Warning"
	case Std95Error:
		return "Std95Error"
	case Cidr0Error:
		return "Cidr0Error"
	case GtldProfileError:
		return "GtldProfileError"
	default:
		return "Unknown"
	}
}

// Item is a single check finding.
type Item struct {
	Class Class
	Code  string
	Text  string
}

// Tree is one node of a check result, mirroring the shape of the RDAP
// structure it was produced from.
type Tree struct {
	StructName string
	Index      int // index within a collection, or -1 if not applicable
	Items      []Item
	SubTrees   []Tree
}

// ParentType names the RDAP object class a Links/NoticeOrRemark/Event node
// is attached to, used to decide whether a missing self/related link is an
// error (first-class objects must have one; embedded objects needn't).
type ParentType int

const (
	ParentNone ParentType = iota
	ParentDomain
	ParentEntity
	ParentAutNum
	ParentNetwork
	ParentNameserver
)

// Params configures one getChecks pass.
type Params struct {
	DoSubchecks                 bool
	Root                        ParentType
	ParentType                  ParentType
	AllowUnregisteredExtensions bool
}

func leaf(name string, index int, items ...Item) Tree {
	return Tree{StructName: name, Index: index, Items: items}
}

// newItem builds an Item, mirroring the CheckItem:: constructor naming of
// the evaluator this engine is grounded on.
func newItem(class Class, code, text string) Item {
	return Item{Class: class, Code: code, Text: text}
}

const rdapMediaType = "application/rdap+json"

// Filter returns a new tree retaining only items whose Class is in classes,
// and only subtrees that (after filtering) still have content.
func Filter(t Tree, classes ...Class) Tree {
	allow := make(map[Class]bool, len(classes))
	for _, c := range classes {
		allow[c] = true
	}
	return filterTree(t, allow)
}

func filterTree(t Tree, allow map[Class]bool) Tree {
	out := Tree{StructName: t.StructName, Index: t.Index}

	for _, item := range t.Items {
		if allow[item.Class] {
			out.Items = append(out.Items, item)
		}
	}

	for _, sub := range t.SubTrees {
		filtered := filterTree(sub, allow)
		if len(filtered.Items) > 0 || len(filtered.SubTrees) > 0 {
			out.SubTrees = append(out.SubTrees, filtered)
		}
	}

	return out
}

// AnyOf reports whether t or any of its subtrees contains an item whose
// Class is in classes.
func AnyOf(t Tree, classes ...Class) bool {
	allow := make(map[Class]bool, len(classes))
	for _, c := range classes {
		allow[c] = true
	}
	return anyOf(t, allow)
}

func anyOf(t Tree, allow map[Class]bool) bool {
	for _, item := range t.Items {
		if allow[item.Class] {
			return true
		}
	}
	for _, sub := range t.SubTrees {
		if anyOf(sub, allow) {
			return true
		}
	}
	return false
}

// All flattens t and its subtrees into a single slice of items, in
// depth-first order.
func All(t Tree) []Item {
	var out []Item
	out = append(out, t.Items...)
	for _, sub := range t.SubTrees {
		out = append(out, All(sub)...)
	}
	return out
}

func isRFC3339(s string) bool {
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// isRootCall reports whether this invocation is evaluating the top-level
// object of a getChecks pass (params.Root not yet assigned).
func isRootCall(params Params) bool {
	return params.Root == ParentNone
}

// rdapConformancePlacementCheck flags a non-empty rdapConformance array on
// a non-root object; RFC 9083 reserves that member for the top-level
// response.
func rdapConformancePlacementCheck(conformance []string, isRoot bool) []Item {
	if !isRoot && len(conformance) > 0 {
		return []Item{newItem(Std95Error, "rdapConformanceOnNonRootObject", "rdapConformance is present on a non-root object")}
	}
	return nil
}

