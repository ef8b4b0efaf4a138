// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package rdap

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rdapkit/rdap/contact"
)

// Link models an RDAP link object (RFC 9083 §4.2). RFC-required fields are
// optional here to tolerate non-compliant servers; the check engine (package
// check) is where those violations are surfaced, not here.
type Link struct {
	Href     string           `json:"href,omitempty"`
	Value    string           `json:"value,omitempty"`
	Rel      string           `json:"rel,omitempty"`
	HrefLang *VectorStringish `json:"hreflang,omitempty"`
	Title    string           `json:"title,omitempty"`
	Media    string           `json:"media,omitempty"`
	Type     string           `json:"type,omitempty"`
}

// Event models an RDAP event object (RFC 9083 §4.5).
type Event struct {
	Action string `json:"eventAction,omitempty"`
	Actor  string `json:"eventActor,omitempty"`
	Date   string `json:"eventDate,omitempty"`
	Links  []Link `json:"links,omitempty"`
}

// NoticeOrRemark models an RDAP notice or remark object (RFC 9083 §4.3).
type NoticeOrRemark struct {
	Title       string          `json:"title,omitempty"`
	Type        string          `json:"type,omitempty"`
	Description VectorStringish `json:"description,omitempty"`
	Links       []Link          `json:"links,omitempty"`
}

// RedactedName is the name or reason sub-object of a Redacted item.
type RedactedName struct {
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
}

// Redacted models one entry of an RFC 9537 "redacted" array.
type Redacted struct {
	Name            RedactedName  `json:"name,omitempty"`
	Reason          *RedactedName `json:"reason,omitempty"`
	PrePath         string        `json:"prePath,omitempty"`
	PostPath        string        `json:"postPath,omitempty"`
	ReplacementPath string        `json:"replacementPath,omitempty"`
	PathLang        string        `json:"pathLang,omitempty"`
	Method          string        `json:"method,omitempty"`
}

// PublicId models an RDAP publicId object (RFC 9083 §4.8).
type PublicId struct {
	Type       string `json:"type,omitempty"`
	Identifier string `json:"identifier,omitempty"`
}

// Common holds the fields shared by every top-level RDAP response.
type Common struct {
	RdapConformance []string         `json:"rdapConformance,omitempty"`
	Notices         []NoticeOrRemark `json:"notices,omitempty"`
}

// ObjectCommon holds the fields shared by every RDAP object class (entity,
// domain, nameserver, autnum, network).
type ObjectCommon struct {
	ObjectClassName string           `json:"objectClassName,omitempty"`
	Handle          string           `json:"handle,omitempty"`
	Remarks         []NoticeOrRemark `json:"remarks,omitempty"`
	Links           []Link           `json:"links,omitempty"`
	Events          []Event          `json:"events,omitempty"`
	Status          []string         `json:"status,omitempty"`
	Port43          string           `json:"port43,omitempty"`
	Entities        []Entity         `json:"entities,omitempty"`
	Redacted        []Redacted       `json:"redacted,omitempty"`
	PublicIds       []PublicId       `json:"publicIds,omitempty"`
}

// SelfLink returns the rel="self" link, if any.
func (o *ObjectCommon) SelfLink() *Link {
	for i := range o.Links {
		if o.Links[i].Rel == "self" {
			return &o.Links[i]
		}
	}
	return nil
}

// SetSelfLink replaces (or adds) the rel="self" link.
func (o *ObjectCommon) SetSelfLink(href, linkType string) {
	for i := range o.Links {
		if o.Links[i].Rel == "self" {
			o.Links[i].Href = href
			o.Links[i].Type = linkType
			return
		}
	}
	o.Links = append(o.Links, Link{Href: href, Rel: "self", Type: linkType, Value: href})
}

// Entity models an RDAP entity object (RFC 9083 §5.1).
type Entity struct {
	Common
	ObjectCommon

	Roles         []string        `json:"roles,omitempty"`
	VCardArray    json.RawMessage `json:"vcardArray,omitempty"`
	JSContactCard *contact.Card   `json:"jscontactCard,omitempty"`
	Autnums       []AutNum        `json:"autnums,omitempty"`
	Networks      []Network       `json:"networks,omitempty"`
}

// VariantName is one member of a Variant's variantNames array.
type VariantName struct {
	LDHName     string `json:"ldhName,omitempty"`
	UnicodeName string `json:"unicodeName,omitempty"`
}

// Variant models an RDAP domain variant object (RFC 9083 §4.6).
type Variant struct {
	Relation     []string      `json:"relation,omitempty"`
	IdnTable     string        `json:"idnTable,omitempty"`
	VariantNames []VariantName `json:"variantNames,omitempty"`
}

// DSDatum models a DS record in secureDNS.dsData.
type DSDatum struct {
	KeyTag     *Numberish[uint32] `json:"keyTag,omitempty"`
	Algorithm  *Numberish[uint8]  `json:"algorithm,omitempty"`
	Digest     string             `json:"digest,omitempty"`
	DigestType *Numberish[uint8]  `json:"digestType,omitempty"`
}

// KeyDatum models a DNSKEY record in secureDNS.keyData.
type KeyDatum struct {
	Flags     *Numberish[uint16] `json:"flags,omitempty"`
	Protocol  *Numberish[uint8]  `json:"protocol,omitempty"`
	Algorithm *Numberish[uint8]  `json:"algorithm,omitempty"`
	PublicKey string             `json:"publicKey,omitempty"`
}

// SecureDNS models the secureDNS member of a Domain (RFC 9083 §4.7). The
// boolean/numeric fields use the leniency scalar types because deployed
// servers routinely send them as strings.
type SecureDNS struct {
	ZoneSigned       *Boolish          `json:"zoneSigned,omitempty"`
	DelegationSigned *Boolish          `json:"delegationSigned,omitempty"`
	MaxSigLife       *Numberish[int64] `json:"maxSigLife,omitempty"`
	DSData           []DSDatum         `json:"dsData,omitempty"`
	KeyData          []KeyDatum        `json:"keyData,omitempty"`
}

// NameserverIPAddresses models a nameserver's ipAddresses member.
type NameserverIPAddresses struct {
	V4 []string `json:"v4,omitempty"`
	V6 []string `json:"v6,omitempty"`
}

// Nameserver models an RDAP nameserver object (RFC 9083 §5.2).
type Nameserver struct {
	Common
	ObjectCommon

	LDHName     string                 `json:"ldhName,omitempty"`
	UnicodeName string                 `json:"unicodeName,omitempty"`
	IPAddresses *NameserverIPAddresses `json:"ipAddresses,omitempty"`
}

// Domain models an RDAP domain object (RFC 9083 §4).
type Domain struct {
	Common
	ObjectCommon

	LDHName     string       `json:"ldhName,omitempty"`
	UnicodeName string       `json:"unicodeName,omitempty"`
	Variants    []Variant    `json:"variants,omitempty"`
	SecureDNS   *SecureDNS   `json:"secureDNS,omitempty"`
	Nameservers []Nameserver `json:"nameservers,omitempty"`
	Network     *Network     `json:"network,omitempty"`
}

// Cidr0Cidr models one member of a Network's CIDR0 extension array.
type Cidr0Cidr struct {
	V4Prefix string `json:"v4prefix,omitempty"`
	V6Prefix string `json:"v6prefix,omitempty"`
	Length   int    `json:"length,omitempty"`
}

// Network models an RDAP ip network object (RFC 9083 §5.4), plus the
// cidr0_cidrs member of the CIDR0 extension (C10).
type Network struct {
	Common
	ObjectCommon

	StartAddress string      `json:"startAddress,omitempty"`
	EndAddress   string      `json:"endAddress,omitempty"`
	IPVersion    string      `json:"ipVersion,omitempty"`
	Name         string      `json:"name,omitempty"`
	Type         string      `json:"type,omitempty"`
	Country      string      `json:"country,omitempty"`
	ParentHandle string      `json:"parentHandle,omitempty"`
	Cidr0Cidrs   []Cidr0Cidr `json:"cidr0_cidrs,omitempty"`
}

// AutNum models an RDAP autnum object (RFC 9083 §5.3).
type AutNum struct {
	Common
	ObjectCommon

	StartAutnum *Numberish[uint32] `json:"startAutnum,omitempty"`
	EndAutnum   *Numberish[uint32] `json:"endAutnum,omitempty"`
	Name        string             `json:"name,omitempty"`
	Type        string             `json:"type,omitempty"`
	Country     string             `json:"country,omitempty"`
}

// Help models an RDAP help response (RFC 9083 §7).
type Help struct {
	Common
}

// ErrorResponse models an RDAP error response (RFC 9083 §6).
type ErrorResponse struct {
	Common

	ErrorCode   int             `json:"errorCode,omitempty"`
	Title       string          `json:"title,omitempty"`
	Description VectorStringish `json:"description,omitempty"`
}

// DomainSearchResults models a domain search response (RFC 9083 §8.1).
type DomainSearchResults struct {
	Common
	Results []Domain `json:"domainSearchResults,omitempty"`
}

// NameserverSearchResults models a nameserver search response (RFC 9083 §8.2).
type NameserverSearchResults struct {
	Common
	Results []Nameserver `json:"nameserverSearchResults,omitempty"`
}

// EntitySearchResults models an entity search response (RFC 9083 §8.3).
type EntitySearchResults struct {
	Common
	Results []Entity `json:"entitySearchResults,omitempty"`
}

// ResponseKind identifies the variant held by an RdapResponse.
type ResponseKind int

const (
	RespUnknown ResponseKind = iota
	RespEntity
	RespDomain
	RespNameserver
	RespAutNum
	RespNetwork
	RespDomainSearchResults
	RespNameserverSearchResults
	RespEntitySearchResults
	RespErrorResponse
	RespHelp
)

// RdapResponse is the tagged union over every top-level RDAP JSON shape
// (§3 Data Model). Exactly one of the typed fields is populated, selected
// by Kind. Raw preserves the original bytes for round-trip use by layers
// that need to forward the untouched document (e.g. the redaction engine
// before its first rewrite).
type RdapResponse struct {
	Kind ResponseKind

	Entity                  *Entity
	Domain                  *Domain
	Nameserver              *Nameserver
	AutNum                  *AutNum
	Network                 *Network
	DomainSearchResults     *DomainSearchResults
	NameserverSearchResults *NameserverSearchResults
	EntitySearchResults     *EntitySearchResults
	ErrorResponse           *ErrorResponse
	Help                    *Help

	Raw json.RawMessage
}

// sniff is the minimal shape probed to route JSON to the right Go type,
// without committing to a full decode until the kind is known.
type sniff struct {
	ObjectClassName         string          `json:"objectClassName"`
	ErrorCode               int             `json:"errorCode"`
	DomainSearchResults     json.RawMessage `json:"domainSearchResults"`
	NameserverSearchResults json.RawMessage `json:"nameserverSearchResults"`
	EntitySearchResults     json.RawMessage `json:"entitySearchResults"`
	Notices                 json.RawMessage `json:"notices"`
}

// ParseResponse decodes a top-level RDAP JSON document into its tagged
// union form. Unknown shapes produce a ProtocolError rather than a panic,
// matching the error taxonomy in §7.
func ParseResponse(data []byte) (*RdapResponse, error) {
	var s sniff
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, &ClientError{Type: ProtocolError, Text: "malformed JSON: " + err.Error()}
	}

	r := &RdapResponse{Raw: append(json.RawMessage(nil), data...)}

	switch {
	case s.ErrorCode != 0:
		var e ErrorResponse
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, protocolErr(err)
		}
		r.Kind = RespErrorResponse
		r.ErrorResponse = &e

	case s.ObjectClassName == "entity":
		var e Entity
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, protocolErr(err)
		}
		r.Kind = RespEntity
		r.Entity = &e

	case s.ObjectClassName == "domain":
		var d Domain
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, protocolErr(err)
		}
		r.Kind = RespDomain
		r.Domain = &d

	case s.ObjectClassName == "nameserver":
		var n Nameserver
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, protocolErr(err)
		}
		r.Kind = RespNameserver
		r.Nameserver = &n

	case s.ObjectClassName == "autnum":
		var a AutNum
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, protocolErr(err)
		}
		r.Kind = RespAutNum
		r.AutNum = &a

	case s.ObjectClassName == "ip network":
		var n Network
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, protocolErr(err)
		}
		r.Kind = RespNetwork
		r.Network = &n

	case s.DomainSearchResults != nil:
		var d DomainSearchResults
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, protocolErr(err)
		}
		r.Kind = RespDomainSearchResults
		r.DomainSearchResults = &d

	case s.NameserverSearchResults != nil:
		var n NameserverSearchResults
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, protocolErr(err)
		}
		r.Kind = RespNameserverSearchResults
		r.NameserverSearchResults = &n

	case s.EntitySearchResults != nil:
		var e EntitySearchResults
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, protocolErr(err)
		}
		r.Kind = RespEntitySearchResults
		r.EntitySearchResults = &e

	case s.Notices != nil && s.ObjectClassName == "" && looksLikeHelp(data):
		var h Help
		if err := json.Unmarshal(data, &h); err != nil {
			return nil, protocolErr(err)
		}
		r.Kind = RespHelp
		r.Help = &h

	default:
		return nil, &ClientError{Type: ProtocolError, Text: "response did not match any known RDAP shape"}
	}

	return r, nil
}

// looksLikeHelp reports whether data's only meaningful top-level members
// are rdapConformance/notices, the defining shape of a help response.
func looksLikeHelp(data []byte) bool {
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(data, &generic); err != nil {
		return false
	}
	for k := range generic {
		switch k {
		case "rdapConformance", "notices", "lang":
		default:
			return false
		}
	}
	return true
}

func protocolErr(err error) error {
	return &ClientError{Type: ProtocolError, Text: "malformed RDAP response: " + err.Error()}
}

// MarshalJSON re-serializes the selected variant. Round-trip fidelity for
// unknown/extension fields is bounded by encoding/json's own struct
// (un)marshaling: fields not modeled above are not preserved by this path.
// Callers that need byte-exact round-trip of unrecognized members should
// use Raw directly.
func (r *RdapResponse) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case RespEntity:
		return json.Marshal(r.Entity)
	case RespDomain:
		return json.Marshal(r.Domain)
	case RespNameserver:
		return json.Marshal(r.Nameserver)
	case RespAutNum:
		return json.Marshal(r.AutNum)
	case RespNetwork:
		return json.Marshal(r.Network)
	case RespDomainSearchResults:
		return json.Marshal(r.DomainSearchResults)
	case RespNameserverSearchResults:
		return json.Marshal(r.NameserverSearchResults)
	case RespEntitySearchResults:
		return json.Marshal(r.EntitySearchResults)
	case RespErrorResponse:
		return json.Marshal(r.ErrorResponse)
	case RespHelp:
		return json.Marshal(r.Help)
	default:
		return nil, fmt.Errorf("rdap: RdapResponse has no populated variant")
	}
}

// Links returns the links of whichever object-class variant is populated,
// or nil for search results, errors, and help responses (none carry a
// top-level ObjectCommon). Used by the orchestrator's referral chasing.
func (r *RdapResponse) Links() []Link {
	switch r.Kind {
	case RespEntity:
		return r.Entity.Links
	case RespDomain:
		return r.Domain.Links
	case RespNameserver:
		return r.Nameserver.Links
	case RespAutNum:
		return r.AutNum.Links
	case RespNetwork:
		return r.Network.Links
	default:
		return nil
	}
}

// RdapConformance returns the rdapConformance array of whichever variant is
// populated, or nil for a response shape that carries none. Used by the
// conformance tester to verify expectExtensions/expectGroups.
func (r *RdapResponse) RdapConformance() []string {
	switch r.Kind {
	case RespEntity:
		return r.Entity.RdapConformance
	case RespDomain:
		return r.Domain.RdapConformance
	case RespNameserver:
		return r.Nameserver.RdapConformance
	case RespAutNum:
		return r.AutNum.RdapConformance
	case RespNetwork:
		return r.Network.RdapConformance
	case RespDomainSearchResults:
		return r.DomainSearchResults.RdapConformance
	case RespNameserverSearchResults:
		return r.NameserverSearchResults.RdapConformance
	case RespEntitySearchResults:
		return r.EntitySearchResults.RdapConformance
	case RespErrorResponse:
		return r.ErrorResponse.RdapConformance
	case RespHelp:
		return r.Help.RdapConformance
	default:
		return nil
	}
}

// jsonEqual reports whether two raw JSON documents are structurally
// identical once compacted, used by round-trip tests that don't care about
// incidental whitespace differences.
func jsonEqual(a, b []byte) bool {
	var ca, cb bytes.Buffer
	if err := json.Compact(&ca, a); err != nil {
		return false
	}
	if err := json.Compact(&cb, b); err != nil {
		return false
	}
	return bytes.Equal(ca.Bytes(), cb.Bytes())
}
