package check

import "github.com/rdapkit/rdap"

// GetChecks walks resp and returns the check tree for whichever object
// class variant it holds. params is used as given: its zero value has
// DoSubchecks false, so no subchecks run; use DefaultParams to start from
// the conventional defaults.
func GetChecks(resp *rdap.RdapResponse, params Params) Tree {
	switch resp.Kind {
	case rdap.RespDomain:
		return DomainChecks(resp.Domain, params)
	case rdap.RespEntity:
		return EntityChecks(resp.Entity, params)
	case rdap.RespNameserver:
		return NameserverChecks(resp.Nameserver, params)
	case rdap.RespAutNum:
		return AutNumChecks(resp.AutNum, params)
	case rdap.RespNetwork:
		return NetworkChecks(resp.Network, params)
	case rdap.RespDomainSearchResults:
		t := Tree{StructName: "DomainSearchResults"}
		for i := range resp.DomainSearchResults.Results {
			t.SubTrees = append(t.SubTrees, DomainChecks(&resp.DomainSearchResults.Results[i], params))
		}
		return t
	case rdap.RespNameserverSearchResults:
		t := Tree{StructName: "NameserverSearchResults"}
		for i := range resp.NameserverSearchResults.Results {
			t.SubTrees = append(t.SubTrees, NameserverChecks(&resp.NameserverSearchResults.Results[i], params))
		}
		return t
	case rdap.RespEntitySearchResults:
		t := Tree{StructName: "EntitySearchResults"}
		for i := range resp.EntitySearchResults.Results {
			t.SubTrees = append(t.SubTrees, EntityChecks(&resp.EntitySearchResults.Results[i], params))
		}
		return t
	case rdap.RespErrorResponse:
		var items []Item
		if len(resp.ErrorResponse.Description.Values) == 0 {
			items = append(items, newItem(Informational, "errorResponseHasNoDescription", "error response has no description"))
		}
		return leaf("ErrorResponse", -1, items...)
	case rdap.RespHelp:
		return Tree{StructName: "Help"}
	default:
		return leaf("Unknown", -1, newItem(Std95Error, "unrecognizedResponseShape", "the response did not match any known RDAP object class"))
	}
}

// DefaultParams returns the conventional defaults: subchecks enabled,
// unregistered extensions flagged.
func DefaultParams() Params {
	return Params{DoSubchecks: true}
}
