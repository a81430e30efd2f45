// Package reentrant is a royalty recipient calling claimThirdParty of the
// Claims contract again from onNEP17Payment while anything is left to
// collect.
package reentrant

import (
	"github.com/nspcc-dev/claims-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	claimsKey  = 'c'
	enteredKey = 'e'
)

// nolint:unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		return
	}
	storage.Put(storage.GetContext(), claimsKey, data.(interop.Hash160))
}

// Harvest collects third party royalties credited to this contract.
func Harvest() {
	contract.Call(claimsHash(), "claimThirdParty", contract.All, runtime.GetExecutingScriptHash())
}

// OnNEP17Payment re-enters claimThirdParty once per invocation when a payout
// comes from the Claims contract and it still reports something to collect.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	ctx := storage.GetContext()
	claims := claimsHash()
	if !common.BytesEqual(from, claims) || storage.Get(ctx, enteredKey) != nil {
		return
	}

	self := runtime.GetExecutingScriptHash()
	native := contract.Call(claims, "viewThirdPartyNativeClaim", contract.ReadOnly, self).(int)
	tokens := contract.Call(claims, "viewThirdPartyTokenClaims", contract.ReadOnly, self).([]any)
	if native == 0 && len(tokens) == 0 {
		return
	}

	storage.Put(ctx, enteredKey, true)
	contract.Call(claims, "claimThirdParty", contract.All, self)
	storage.Delete(ctx, enteredKey)
}

func claimsHash() interop.Hash160 {
	return storage.Get(storage.GetReadOnlyContext(), claimsKey).(interop.Hash160)
}
