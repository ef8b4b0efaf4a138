// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

// Package rdap implements a client toolkit for the Registration Data Access
// Protocol (RDAP).
//
// RDAP is a modern, JSON-over-HTTP replacement for the text-based WHOIS
// (port 43) protocol, providing registration data for domain names, IP
// address allocations, and autonomous system numbers.
//
// Classify determines the query type implied by user-supplied input (a
// domain name, IP address, CIDR block, AS number, entity handle, or raw
// URL):
//
//	qt, err := rdap.Classify("192.0.2.0/24")
//
// Client orchestrates a query end-to-end: resolving the correct RDAP server
// via the IANA bootstrap registries (package bootstrap), issuing the
// request, and following "related" referral links up to a configurable
// depth:
//
//	client := rdap.NewClient()
//	domain, err := client.QueryDomain("example.com")
//
// QueryWithOptions exposes the full set of bootstrap and referral-chasing
// controls for callers that need them:
//
//	qt, _ := rdap.Classify("example.com")
//	result, err := client.QueryWithOptions(ctx, qt, rdap.DefaultBootstrapConfig(), rdap.DefaultLinkParams(qt.Kind))
//
// ParseResponse decodes a raw RDAP JSON response into the tagged-union
// RdapResponse type, routing to the concrete object class (domain,
// entity, nameserver, autnum, network, search results, error, or help)
// based on the response's shape:
//
//	resp, err := rdap.ParseResponse(body)
//
// Subpackages cover the rest of the toolkit: bootstrap resolves IANA
// registry data with on-disk caching; contact converts between vCard/jCard
// and JSContact representations; check evaluates RDAP responses against
// structural and semantic rules; redact implements RFC 9537 redacted-field
// evaluation; extensions tracks known RDAP extension identifiers; and
// conformance queries a server at every address its host name resolves to,
// runs the check engine on each response, and aggregates the results into a
// report with an exit code.
package rdap
