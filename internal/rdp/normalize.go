package rdp

import "strings"

// Metadata key prefixes. Some upload paths cannot write dashes in storage
// metadata keys, so producers use the escaping prefix `x_rdp_'; it is
// rewritten to the canonical `x-rdp-' before any lookup.
const (
	escapingPrefix  = "x_rdp_"
	canonicalPrefix = "x-rdp-"
)

// Normalized metadata keys the payload builder looks up.
const (
	KeyTenantID      = "x-rdp-tenantid"
	KeyClientID      = "x-rdp-clientid"
	KeyUserID        = "x-rdp-userid"
	KeyUserRoles     = "x-rdp-userroles"
	KeyOwnershipData = "x-rdp-ownershipdata"
	KeyTaskID        = "x-rdp-taskid"
	KeyObjectID      = "binarystreamobjectid"
	KeyOriginalName  = "originalfilename"

	// keyTaskIDLegacy is what historic producers wrote instead of KeyTaskID.
	keyTaskIDLegacy = "task_id_metadata_property"
)

// NormalizeKey canonicalizes a metadata key: the key is lowercased, then a
// leading escaping prefix is rewritten to the canonical prefix. Only the
// prefix is rewritten and only once, so the function is idempotent:
// NormalizeKey(NormalizeKey(k)) == NormalizeKey(k) for any k.
func NormalizeKey(key string) string {
	key = strings.ToLower(key)
	if strings.HasPrefix(key, escapingPrefix) {
		key = canonicalPrefix + key[len(escapingPrefix):]
	}
	return key
}

// NormalizeMetadata returns a copy of metadata with every key normalized by
// NormalizeKey. Values are kept verbatim. The input map is left untouched.
func NormalizeMetadata(metadata map[string]string) map[string]string {
	normalized := make(map[string]string, len(metadata))
	for key, value := range metadata {
		normalized[NormalizeKey(key)] = value
	}
	return normalized
}
