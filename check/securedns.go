package check

import "github.com/rdapkit/rdap"

// SecureDNSChecks evaluates the secureDNS member of a Domain: leniency-type
// wire forms, and IANA value ranges for DS/DNSKEY data.
func SecureDNSChecks(s *rdap.SecureDNS, params Params) Tree {
	var items []Item

	if s.ZoneSigned != nil && s.ZoneSigned.WasString {
		items = append(items, newItem(Std95Warning, "zoneSignedIsString", "zoneSigned was sent as a string, not a boolean"))
	}
	if s.DelegationSigned != nil && s.DelegationSigned.WasString {
		items = append(items, newItem(Std95Warning, "delegationSignedIsString", "delegationSigned was sent as a string, not a boolean"))
	}
	if s.MaxSigLife != nil && s.MaxSigLife.WasString {
		items = append(items, newItem(Std95Warning, "maxSigLifeIsString", "maxSigLife was sent as a string, not a number"))
	}

	t := Tree{StructName: "SecureDns", Items: items}

	for _, ds := range s.DSData {
		var dsItems []Item
		if alg, ok := ds.Algorithm.AsUint8(); ok && !isValidDNSSECAlgorithm(alg) {
			dsItems = append(dsItems, newItem(Std95Warning, "dsDataAlgorithmOutOfRange", "DS algorithm is outside the IANA-registered range"))
		}
		if dt, ok := ds.DigestType.AsUint8(); ok && !isValidDigestType(dt) {
			dsItems = append(dsItems, newItem(Std95Warning, "dsDataDigestTypeOutOfRange", "DS digestType is outside the IANA-registered range"))
		}
		if len(dsItems) > 0 {
			t.SubTrees = append(t.SubTrees, leaf("DsDatum", -1, dsItems...))
		}
	}

	for _, k := range s.KeyData {
		var kItems []Item
		if flags, ok := k.Flags.AsUint16(); ok && !isValidDNSKEYFlags(flags) {
			kItems = append(kItems, newItem(Std95Warning, "keyDataFlagsOutOfRange", "DNSKEY flags is outside the IANA-registered range"))
		}
		if proto, ok := k.Protocol.AsUint8(); ok && proto != 3 {
			kItems = append(kItems, newItem(Std95Warning, "keyDataProtocolInvalid", "DNSKEY protocol must be 3"))
		}
		if alg, ok := k.Algorithm.AsUint8(); ok && !isValidDNSSECAlgorithm(alg) {
			kItems = append(kItems, newItem(Std95Warning, "keyDataAlgorithmOutOfRange", "DNSKEY algorithm is outside the IANA-registered range"))
		}
		if len(kItems) > 0 {
			t.SubTrees = append(t.SubTrees, leaf("KeyDatum", -1, kItems...))
		}
	}

	return t
}

// isValidDNSSECAlgorithm reports whether alg falls in the allocated range
// of the IANA DNSSEC Algorithm Numbers registry. 0 is reserved.
func isValidDNSSECAlgorithm(alg uint8) bool {
	return alg >= 1 && alg <= 16
}

func isValidDigestType(dt uint8) bool {
	return dt >= 1 && dt <= 4
}

func isValidDNSKEYFlags(flags uint16) bool {
	switch flags {
	case 0, 256, 257:
		return true
	default:
		return false
	}
}
