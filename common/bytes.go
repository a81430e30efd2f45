package common

import "github.com/nspcc-dev/neo-go/pkg/interop/util"

// BytesEqual compares two byte slices.
func BytesEqual(a []byte, b []byte) bool {
	return util.Equals(string(a), string(b))
}
