package redact

import (
	"strconv"
	"strings"
)

// token is one parsed step of a JSONPath-lite expression.
type token struct {
	key       string // property access, including via ['key']
	index     int    // array index access
	isIndex   bool
	wildcard  bool
	predicate string // raw "@.field==literal" body of a [?(...)] filter
}

// parsePath tokenizes a small practical subset of JSONPath: "$", ".key",
// "['key']", "[N]", "[*]", and "[?(@.key==literal)]" single-equality
// filters. It covers the path shapes that appear in IANA's RFC 9537
// redacted-structures registry.
func parsePath(path string) []token {
	path = strings.TrimSpace(path)
	path = strings.TrimPrefix(path, "$")

	var tokens []token
	i := 0
	for i < len(path) {
		switch path[i] {
		case '.':
			i++
		case '[':
			end := matchingBracket(path, i)
			if end == -1 {
				return tokens
			}
			inner := path[i+1 : end]
			tokens = append(tokens, parseBracket(inner))
			i = end + 1
		default:
			j := i
			for j < len(path) && path[j] != '.' && path[j] != '[' {
				j++
			}
			tokens = append(tokens, token{key: path[i:j]})
			i = j
		}
	}
	return tokens
}

func matchingBracket(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func parseBracket(inner string) token {
	inner = strings.TrimSpace(inner)

	switch {
	case inner == "*":
		return token{wildcard: true}
	case strings.HasPrefix(inner, "?("):
		body := strings.TrimSuffix(strings.TrimPrefix(inner, "?("), ")")
		return token{predicate: strings.TrimSpace(body)}
	case strings.HasPrefix(inner, "'") || strings.HasPrefix(inner, "\""):
		return token{key: strings.Trim(inner, `'"`)}
	default:
		if n, err := strconv.Atoi(inner); err == nil {
			return token{index: n, isIndex: true}
		}
		return token{key: inner}
	}
}

// evalPath returns every (pointer, value) pair matching tokens against root.
// pointer is the JSON Pointer-style path (RFC 6901 tokens, unescaped) to
// each match.
func evalPath(root interface{}, tokens []token) []Match {
	matches := []Match{{Pointer: nil, Value: root}}

	for _, tk := range tokens {
		var next []Match
		for _, m := range matches {
			next = append(next, stepToken(m, tk)...)
		}
		matches = next
	}

	return matches
}

func stepToken(m Match, tk token) []Match {
	switch {
	case tk.predicate != "":
		return applyPredicate(m, tk.predicate)
	case tk.wildcard:
		return applyWildcard(m)
	case tk.isIndex:
		arr, ok := m.Value.([]interface{})
		if !ok || tk.index < 0 || tk.index >= len(arr) {
			return nil
		}
		return []Match{{Pointer: append(append([]interface{}{}, m.Pointer...), tk.index), Value: arr[tk.index]}}
	default:
		obj, ok := m.Value.(map[string]interface{})
		if !ok {
			return nil
		}
		v, ok := obj[tk.key]
		if !ok {
			return nil
		}
		return []Match{{Pointer: append(append([]interface{}{}, m.Pointer...), tk.key), Value: v}}
	}
}

func applyWildcard(m Match) []Match {
	switch v := m.Value.(type) {
	case []interface{}:
		out := make([]Match, 0, len(v))
		for i, item := range v {
			out = append(out, Match{Pointer: append(append([]interface{}{}, m.Pointer...), i), Value: item})
		}
		return out
	case map[string]interface{}:
		out := make([]Match, 0, len(v))
		for k, item := range v {
			out = append(out, Match{Pointer: append(append([]interface{}{}, m.Pointer...), k), Value: item})
		}
		return out
	default:
		return nil
	}
}

// applyPredicate filters an array by a single "@.path==literal" equality
// expression, or passes a single object through unchanged if it satisfies
// the expression.
func applyPredicate(m Match, predicate string) []Match {
	path, literal, ok := splitEquality(predicate)
	if !ok {
		return nil
	}

	test := func(candidate interface{}) bool {
		sub := evalPath(candidate, parsePath(strings.TrimPrefix(path, "@")))
		for _, s := range sub {
			if literalEquals(s.Value, literal) {
				return true
			}
		}
		return false
	}

	switch v := m.Value.(type) {
	case []interface{}:
		var out []Match
		for i, item := range v {
			if test(item) {
				out = append(out, Match{Pointer: append(append([]interface{}{}, m.Pointer...), i), Value: item})
			}
		}
		return out
	case map[string]interface{}:
		if test(v) {
			return []Match{m}
		}
		return nil
	default:
		return nil
	}
}

func splitEquality(expr string) (path, literal string, ok bool) {
	idx := strings.Index(expr, "==")
	if idx == -1 {
		return "", "", false
	}
	return strings.TrimSpace(expr[:idx]), strings.TrimSpace(expr[idx+2:]), true
}

func literalEquals(v interface{}, literal string) bool {
	if strings.HasPrefix(literal, "'") || strings.HasPrefix(literal, "\"") {
		s, ok := v.(string)
		return ok && s == strings.Trim(literal, `'"`)
	}
	if literal == "true" || literal == "false" {
		b, ok := v.(bool)
		return ok && strconv.FormatBool(b) == literal
	}
	if literal == "null" {
		return v == nil
	}
	if f, err := strconv.ParseFloat(literal, 64); err == nil {
		n, ok := v.(float64)
		return ok && n == f
	}
	return false
}

// Match is one JSONPath evaluation result: the concrete path to the value
// (as a sequence of string/int JSON Pointer tokens) and the value itself.
type Match struct {
	Pointer []interface{}
	Value   interface{}
}

// PointerString renders m.Pointer as an RFC 6901 JSON Pointer.
func (m Match) PointerString() string {
	var b strings.Builder
	for _, tok := range m.Pointer {
		b.WriteByte('/')
		switch t := tok.(type) {
		case string:
			b.WriteString(strings.NewReplacer("~", "~0", "/", "~1").Replace(t))
		case int:
			b.WriteString(strconv.Itoa(t))
		}
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}
