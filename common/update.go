package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
)

// Update checks owner witness and updates contract source code and manifest
// via native management contract. Current version is appended to data.
func Update(owner interop.Hash160, nefFile, manifest []byte, data any) {
	CheckOwnerWitness(owner)

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, AppendVersion(data))
}
