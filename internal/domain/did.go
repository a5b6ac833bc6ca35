package domain

import (
	"strings"
)

// DID represents a Decentralized Identifier (W3C standard)
// Marketplace profiles are published with Elastos DIDs, e.g. "did:elastos:iXyz..."
type DID string

// String returns the string representation of the DID
func (d DID) String() string {
	return string(d)
}

// Method returns the DID method, e.g. "elastos"
func (d DID) Method() string {
	parts := strings.SplitN(string(d), ":", 3)
	if len(parts) != 3 {
		return ""
	}
	return parts[1]
}

// Valid checks the did:<method>:<id> shape
func (d DID) Valid() bool {
	parts := strings.SplitN(string(d), ":", 3)
	return len(parts) == 3 && parts[0] == "did" && parts[1] != "" && parts[2] != ""
}
