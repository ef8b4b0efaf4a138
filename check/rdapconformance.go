package check

import (
	"fmt"

	"github.com/rdapkit/rdap/extensions"
)

// RdapConformanceChecks evaluates the rdapConformance array of a top-level
// response: every extension identifier must be in the IANA-known closed
// set, unless the caller opted out via AllowUnregisteredExtensions.
func RdapConformanceChecks(conformance []string, params Params) []Tree {
	if params.AllowUnregisteredExtensions {
		return nil
	}

	var subTrees []Tree
	for _, id := range conformance {
		if !extensions.IsKnown(id) {
			subTrees = append(subTrees, leaf("RdapConformance", -1,
				newItem(SpecificationNote, "unknownExtensionIdentifier", fmt.Sprintf("%q is not a recognized RDAP extension identifier", id))))
		}
	}
	return subTrees
}
