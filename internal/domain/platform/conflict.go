package platform

import "strings"

// conflictSignatures maps each resource kind to the "already exists" message
// fragments the platform is known to return when a creation collides with an
// existing resource of the same name. Matching is case-insensitive substring.
//
// Webhook subscriptions have no entry: the platform has no duplicate-name
// path for them, so every user error during webhook creation is fatal.
var conflictSignatures = map[ResourceKind][]string{
	ResourceKindFulfillmentService: {
		"name has already been taken",
	},
	ResourceKindCarrierService: {
		"already configured",
	},
}

// IsConflict reports whether any of the platform's validation messages carry
// the kind's "already exists" signature.
func IsConflict(kind ResourceKind, messages []string) bool {
	signatures, ok := conflictSignatures[kind]
	if !ok {
		return false
	}
	for _, msg := range messages {
		lowered := strings.ToLower(msg)
		for _, sig := range signatures {
			if strings.Contains(lowered, sig) {
				return true
			}
		}
	}
	return false
}
