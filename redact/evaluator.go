// Package redact implements the two redaction layers of RFC 9537 support
// (C7): Layer A evaluates a response's "redacted" directives against the
// response body and rewrites the matched fields; Layer B applies simple,
// named redaction transforms to an entity's contact information.
package redact

import (
	"encoding/json"
)

// ResultType classifies what evalPath found at a directive's path.
//
// StringNoValue, FoundUnknown, and FoundPathReturnedBadValue are part of
// the full classification set but are unreachable by construction here:
// they exist in the original implementation only as artifacts of its
// two-stage "JSONPath match to a path string, then re-resolve that string
// through a separate JSON Pointer lookup" design, where the second lookup
// can itself fail or return a non-value placeholder. evalPath instead
// walks the parsed document directly and only ever emits a Match for a
// value it actually found, so that failure mode cannot occur; the values
// are kept (rather than removed) so Evaluation.Results stays directly
// comparable to the full classification this package documents.
type ResultType int

const (
	Removed ResultType = iota
	EmptyString
	StringNoValue
	PartialString
	Array
	Object
	FoundNull
	FoundNothing
	FoundUnknown
	FoundPathReturnedBadValue
)

func (r ResultType) String() string {
	switch r {
	case Removed:
		return "Removed"
	case EmptyString:
		return "EmptyString"
	case StringNoValue:
		return "StringNoValue"
	case PartialString:
		return "PartialString"
	case Array:
		return "Array"
	case Object:
		return "Object"
	case FoundNull:
		return "FoundNull"
	case FoundNothing:
		return "FoundNothing"
	case FoundUnknown:
		return "FoundUnknown"
	default:
		return "FoundPathReturnedBadValue"
	}
}

func classify(v interface{}, found bool) ResultType {
	if !found {
		return Removed
	}
	switch x := v.(type) {
	case nil:
		return FoundNull
	case string:
		if x == "" {
			return EmptyString
		}
		return PartialString
	case []interface{}:
		return Array
	case map[string]interface{}:
		return Object
	case bool, float64:
		// Neither string, null, array, nor object: the original
		// implementation's fall-through case.
		return FoundNothing
	default:
		return FoundPathReturnedBadValue
	}
}

// Kind is the redaction kind determined by cross-referencing a directive's
// declared method against the observed ResultTypes at its matches.
type Kind int

const (
	KindUnknown Kind = iota
	KindRemoval
	KindEmptyValue
	KindPartialValue
	KindReplacementValue
)

func (k Kind) String() string {
	switch k {
	case KindRemoval:
		return "Removal"
	case KindEmptyValue:
		return "EmptyValue"
	case KindPartialValue:
		return "PartialValue"
	case KindReplacementValue:
		return "ReplacementValue"
	default:
		return "Unknown"
	}
}

func isStringVariant(r ResultType) bool {
	switch r {
	case EmptyString, StringNoValue, PartialString:
		return true
	default:
		return false
	}
}

// Directive is the subset of a redacted-array entry the evaluator needs.
// It is deliberately independent of the rdap package's Redacted type so
// this package has no import-cycle dependency on it.
type Directive struct {
	PrePath         string
	PostPath        string
	ReplacementPath string
	Method          string
}

func (d Directive) path() (string, bool) {
	if d.PrePath != "" {
		return d.PrePath, true
	}
	return d.PostPath, d.PostPath != ""
}

// Evaluation is the outcome of evaluating one directive against a response.
type Evaluation struct {
	Directive Directive
	Matches   []Match
	Results   []ResultType
	Kind      Kind
}

// Evaluate runs Layer A of RFC 9537 support: for each directive, it
// resolves the path, classifies the result, determines the redaction kind,
// and — for EmptyValue/PartialValue kinds — rewrites matched string values
// in place. It returns the evaluations and the (possibly rewritten) JSON.
func Evaluate(raw json.RawMessage, directives []Directive) ([]Evaluation, json.RawMessage, error) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, raw, err
	}

	var evaluations []Evaluation

	for _, d := range directives {
		path, hasPath := d.path()
		if !hasPath {
			evaluations = append(evaluations, Evaluation{Directive: d, Kind: KindUnknown})
			continue
		}

		matches := evalPath(doc, parsePath(path))

		var results []ResultType
		for _, m := range matches {
			results = append(results, classify(m.Value, true))
		}
		if len(matches) == 0 {
			results = []ResultType{Removed}
		}

		kind := determineKind(d, results)
		ev := Evaluation{Directive: d, Matches: matches, Results: results, Kind: kind}

		if kind == KindEmptyValue || kind == KindPartialValue {
			for _, m := range matches {
				rewriteAt(doc, m.Pointer, redactedString(m.Value))
			}
		}

		evaluations = append(evaluations, ev)
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return evaluations, raw, err
	}
	return evaluations, out, nil
}

func determineKind(d Directive, results []ResultType) Kind {
	all := func(want ResultType) bool {
		for _, r := range results {
			if r != want {
				return false
			}
		}
		return true
	}
	allStringVariant := func() bool {
		for _, r := range results {
			if !isStringVariant(r) {
				return false
			}
		}
		return true
	}

	switch d.Method {
	case "removal":
		if all(Removed) {
			return KindRemoval
		}
	case "emptyValue":
		if allStringVariant() {
			return KindEmptyValue
		}
	case "partialValue":
		if allStringVariant() {
			return KindPartialValue
		}
	case "replacementValue":
		if all(PartialString) {
			_, hasPath := d.path()
			if d.ReplacementPath != "" && hasPath {
				return KindReplacementValue
			}
			if hasPath {
				return KindPartialValue
			}
		}
	}
	return KindUnknown
}

func redactedString(v interface{}) string {
	s, ok := v.(string)
	if !ok || s == "" {
		return "*REDACTED*"
	}
	return "*" + s + "*"
}

// rewriteAt replaces the value found at pointer within doc, which must be
// the same map/slice tree evalPath was run against.
func rewriteAt(doc interface{}, pointer []interface{}, newValue interface{}) {
	if len(pointer) == 0 {
		return
	}

	cur := doc
	for i, tok := range pointer[:len(pointer)-1] {
		switch t := tok.(type) {
		case string:
			m, ok := cur.(map[string]interface{})
			if !ok {
				return
			}
			cur = m[t]
		case int:
			a, ok := cur.([]interface{})
			if !ok || t >= len(a) {
				return
			}
			cur = a[t]
		default:
			_ = i
			return
		}
	}

	last := pointer[len(pointer)-1]
	switch t := last.(type) {
	case string:
		if m, ok := cur.(map[string]interface{}); ok {
			if _, isStr := m[t].(string); isStr {
				m[t] = newValue
			}
		}
	case int:
		if a, ok := cur.([]interface{}); ok && t < len(a) {
			if _, isStr := a[t].(string); isStr {
				a[t] = newValue
			}
		}
	}
}
