package tests

import (
	"math/rand"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/util"
)

func randomBytes(n int) []byte {
	a := make([]byte, n)
	rand.Read(a) //nolint:staticcheck // SA1019: rand.Read has been deprecated since Go 1.20
	return a
}

func randomHash(t *testing.T) util.Uint160 {
	h, err := util.Uint160DecodeBytesBE(randomBytes(util.Uint160Size))
	if err != nil {
		t.Fatal(err)
	}
	return h
}
