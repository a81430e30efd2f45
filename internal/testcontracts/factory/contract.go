// Package factory is a treasury contract providing tax parameters for
// third party royalty deposits of the Claims contract.
package factory

import (
	"github.com/nspcc-dev/claims-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	ownerKey    = 'o'
	treasuryKey = 't'
	taxKey      = 'x'
)

// nolint:unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		return
	}

	args := data.(struct {
		owner    interop.Hash160
		treasury interop.Hash160
		tax      int
	})

	ctx := storage.GetContext()
	storage.Put(ctx, ownerKey, args.owner)
	storage.Put(ctx, treasuryKey, args.treasury)
	storage.Put(ctx, taxKey, args.tax)
}

// GetTreasuryAddress returns the address receiving taxes.
func GetTreasuryAddress() interop.Hash160 {
	return storage.Get(storage.GetReadOnlyContext(), treasuryKey).(interop.Hash160)
}

// GetTax returns the tax rate in basis points.
func GetTax() int {
	return common.GetInt(storage.GetReadOnlyContext(), taxKey)
}

// SetTreasuryAddress updates the treasury address. It can be invoked only by
// the contract owner.
func SetTreasuryAddress(addr interop.Hash160) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(storage.Get(ctx, ownerKey).(interop.Hash160))
	storage.Put(ctx, treasuryKey, addr)
}

// SetTax updates the tax rate. It can be invoked only by the contract owner.
// Rate is not validated here, consumers check it.
func SetTax(rate int) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(storage.Get(ctx, ownerKey).(interop.Hash160))
	storage.Put(ctx, taxKey, rate)
}
