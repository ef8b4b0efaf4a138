package conformance

import (
	"testing"

	"github.com/rdapkit/rdap"
	"github.com/rdapkit/rdap/check"
)

func TestSplitQueryURLDefaultsPort(t *testing.T) {
	host, port, scheme, err := splitQueryURL("https://rdap.example.com/domain/example.com")
	if err != nil {
		t.Fatal(err)
	}
	if host != "rdap.example.com" || port != 443 || scheme != "https" {
		t.Fatalf("got host=%q port=%d scheme=%q", host, port, scheme)
	}
}

func TestSplitQueryURLExplicitPort(t *testing.T) {
	host, port, _, err := splitQueryURL("http://rdap.example.com:8080/domain/example.com")
	if err != nil {
		t.Fatal(err)
	}
	if host != "rdap.example.com" || port != 8080 {
		t.Fatalf("got host=%q port=%d", host, port)
	}
}

func TestResolveHostLiteralIPv4(t *testing.T) {
	ra, err := resolveHost(nil, "192.0.2.1", "")
	if err != nil {
		t.Fatal(err)
	}
	if !ra.FromLiteral || len(ra.V4) != 1 || ra.V4[0] != "192.0.2.1" {
		t.Fatalf("got %#v", ra)
	}
}

func TestResolveHostLiteralIPv6(t *testing.T) {
	ra, err := resolveHost(nil, "2001:db8::1", "")
	if err != nil {
		t.Fatal(err)
	}
	if !ra.FromLiteral || len(ra.V6) != 1 {
		t.Fatalf("got %#v", ra)
	}
}

func TestExpandExpectationsPipeAlternatives(t *testing.T) {
	exps := expandExpectations([]string{"rdap_level_0|cidr0"}, nil)
	if len(exps) != 1 || len(exps[0].alternatives) != 2 {
		t.Fatalf("got %#v", exps)
	}
}

func TestExpandExpectationsGroup(t *testing.T) {
	exps := expandExpectations(nil, []string{"nro"})
	if len(exps) != 1 {
		t.Fatalf("expected one expectation from the nro group, got %#v", exps)
	}
}

func TestVerifyExpectationsFlagsUnmet(t *testing.T) {
	exps := expandExpectations([]string{"cidr0"}, nil)
	failures := verifyExpectations([]string{"rdap_level_0"}, exps)
	if len(failures) != 1 || failures[0] != "cidr0" {
		t.Fatalf("got %#v", failures)
	}
}

func TestVerifyExpectationsSatisfiedByAlternative(t *testing.T) {
	exps := expandExpectations([]string{"rdap_level_0|cidr0"}, nil)
	failures := verifyExpectations([]string{"cidr0"}, exps)
	if len(failures) != 0 {
		t.Fatalf("expected no failures, got %#v", failures)
	}
}

func TestReportExitCodeNoSuccess(t *testing.T) {
	r := &Report{Runs: []TestRun{{Err: errTest("connection refused")}}}
	if r.ExitCode() != 3 {
		t.Fatalf("expected exit code 3, got %d", r.ExitCode())
	}
}

func TestReportExitCodeErrors(t *testing.T) {
	resp := &rdap.RdapResponse{Kind: rdap.RespDomain, Domain: &rdap.Domain{}}
	r := &Report{Runs: []TestRun{{
		Response: resp,
		Checks:   check.Tree{Items: []check.Item{{Class: check.Std95Error, Code: "x", Text: "x"}}},
	}}}
	if r.ExitCode() != 1 {
		t.Fatalf("expected exit code 1, got %d", r.ExitCode())
	}
}

func TestReportExitCodeWarningsOnly(t *testing.T) {
	resp := &rdap.RdapResponse{Kind: rdap.RespDomain, Domain: &rdap.Domain{}}
	r := &Report{Runs: []TestRun{{
		Response: resp,
		Checks:   check.Tree{Items: []check.Item{{Class: check.Std95Warning, Code: "x", Text: "x"}}},
	}}}
	if r.ExitCode() != 2 {
		t.Fatalf("expected exit code 2, got %d", r.ExitCode())
	}
}

func TestReportExitCodeSuccess(t *testing.T) {
	resp := &rdap.RdapResponse{Kind: rdap.RespDomain, Domain: &rdap.Domain{}}
	r := &Report{Runs: []TestRun{{Response: resp}}}
	if r.ExitCode() != 0 {
		t.Fatalf("expected exit code 0, got %d", r.ExitCode())
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
