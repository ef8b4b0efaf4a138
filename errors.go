// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package rdap

import "errors"

// ClientError is returned for conditions specific to this client, as
// opposed to errors surfaced verbatim from the network or JSON layers.
type ClientError struct {
	Type ErrorType
	Text string
}

func (c *ClientError) Error() string {
	return c.Text
}

// ErrorType classifies a ClientError.
type ErrorType int

const (
	// OtherError is a catch-all for conditions not covered below.
	OtherError ErrorType = iota

	// InvalidQueryValue means the input string failed validation for the
	// query type requested explicitly (e.g. NewDomainQuery("not a domain")).
	InvalidQueryValue

	// AmbiguousQueryType means classify() could not determine a query type
	// for the input (rule 7 of the classifier, §4.1).
	AmbiguousQueryType

	// InvalidArg means a caller-supplied option was malformed.
	InvalidArg

	// BootstrapUnavailable means no bootstrap service matched the query.
	BootstrapUnavailable

	// BootstrapRegistryFetchFailed means the IANA registry file could not
	// be downloaded or parsed, and no usable stale copy was cached.
	BootstrapRegistryFetchFailed

	// NoRegistryFound means the first-hop request of an orchestrated query
	// failed at depth 1 (HTTP/transport error before any response was seen).
	NoRegistryFound

	// LinkTargetNotFound means referral chasing terminated before reaching
	// the caller's minDepth.
	LinkTargetNotFound

	// ProtocolError means the response body was not valid JSON, or was
	// valid JSON that did not resemble any known RDAP response shape.
	ProtocolError

	// WrongResponseType means the server's response object type did not
	// match what the caller's typed accessor (QueryDomain, QueryAutnum, …)
	// expected.
	WrongResponseType
)

func (e ErrorType) String() string {
	switch e {
	case InvalidQueryValue:
		return "InvalidQueryValue"
	case AmbiguousQueryType:
		return "AmbiguousQueryType"
	case InvalidArg:
		return "InvalidArg"
	case BootstrapUnavailable:
		return "BootstrapUnavailable"
	case BootstrapRegistryFetchFailed:
		return "BootstrapRegistryFetchFailed"
	case NoRegistryFound:
		return "NoRegistryFound"
	case LinkTargetNotFound:
		return "LinkTargetNotFound"
	case ProtocolError:
		return "ProtocolError"
	case WrongResponseType:
		return "WrongResponseType"
	default:
		return "OtherError"
	}
}

// Sentinel errors for use with errors.Is, matching the ErrorType taxonomy
// in cases where callers don't need the extra Text detail of ClientError.
var (
	ErrAmbiguous           = errors.New("rdap: ambiguous query type")
	ErrInvalidValue        = errors.New("rdap: invalid value for query type")
	ErrBootstrapUnavailable = errors.New("rdap: no bootstrap service matches query")
	ErrNoRegistryFound     = errors.New("rdap: could not reach a registry for this query")
	ErrLinkTargetNotFound  = errors.New("rdap: referral chase ended before reaching minDepth")
)
