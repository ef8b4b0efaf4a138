package redact

import "github.com/rdapkit/rdap"

// DirectivesFromRedacted adapts a response's redacted array to the
// evaluator's independent Directive type.
func DirectivesFromRedacted(redacted []rdap.Redacted) []Directive {
	out := make([]Directive, 0, len(redacted))
	for _, r := range redacted {
		out = append(out, Directive{
			PrePath:         r.PrePath,
			PostPath:        r.PostPath,
			ReplacementPath: r.ReplacementPath,
			Method:          r.Method,
		})
	}
	return out
}

// EvaluateResponse runs Layer A against a parsed response's raw JSON using
// its own redacted array, a convenience wrapper around Evaluate.
func EvaluateResponse(resp *rdap.RdapResponse) ([]Evaluation, []byte, error) {
	redacted := redactedOf(resp)
	return Evaluate(resp.Raw, DirectivesFromRedacted(redacted))
}

func redactedOf(resp *rdap.RdapResponse) []rdap.Redacted {
	switch resp.Kind {
	case rdap.RespDomain:
		return resp.Domain.Redacted
	case rdap.RespEntity:
		return resp.Entity.Redacted
	case rdap.RespNameserver:
		return resp.Nameserver.Redacted
	case rdap.RespAutNum:
		return resp.AutNum.Redacted
	case rdap.RespNetwork:
		return resp.Network.Redacted
	default:
		return nil
	}
}
