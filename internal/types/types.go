package types

import (
	"math/big"
)

// StringPtr converts a string to a pointer to a string
func StringPtr(s string) *string {
	return &s
}

// Int64Ptr converts an int64 to a pointer to an int64
func Int64Ptr(i int64) *int64 {
	return &i
}

// BoolPtr converts a bool to a pointer to a bool
func BoolPtr(b bool) *bool {
	return &b
}

// SafeString returns a safe string from a pointer to a string
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// BigString renders a contract integer as a decimal string, "0" when absent
func BigString(n *big.Int) string {
	if n == nil {
		return "0"
	}
	return n.String()
}

// BigStringPtr renders a contract integer as a pointer to a decimal string
func BigStringPtr(n *big.Int) *string {
	return StringPtr(BigString(n))
}

// BigInt64 narrows a contract integer holding a timestamp or a counter, 0 when absent
func BigInt64(n *big.Int) int64 {
	if n == nil || !n.IsInt64() {
		return 0
	}
	return n.Int64()
}
