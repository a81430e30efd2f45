package claims

import (
	"github.com/nspcc-dev/claims-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Role registry errors.
const (
	ErrAddressPrivileged      = "address is already privileged"
	ErrAddressNotPrivileged   = "address is not privileged"
	ErrMaxPrivilegedAddresses = "exceeded maximum number of privileged addresses"
	ErrOwnerNotPrivileged     = "owner cannot be added to privileged addresses"
	ErrAddressDepositor       = "address is already a depositor"
	ErrAddressNotDepositor    = "address is not a depositor"
	ErrOwnerNotDepositor      = "owner cannot be added to depositor addresses"
	ErrAddressThirdParty      = "address is already an authorized third party"
	ErrAddressNotThirdParty   = "address is not an authorized third party"
	ErrOwnerNotThirdParty     = "owner cannot be added to authorized third parties"
)

const (
	privilegedPrefix = 'P'
	depositorPrefix  = 'D'
	thirdPartyPrefix = 'T'
)

// AddPrivilegedAddress adds an address to the list of privileged addresses.
// It can be invoked only by the contract owner. The owner itself can't be
// added, the list can't exceed MaxPrivilegedAddresses entries.
//
// Produces PrivilegedAddressAdded notification.
func AddPrivilegedAddress(addr interop.Hash160) {
	ctx := storage.GetContext()
	owner := checkOwner(ctx)
	checkAddress(addr)

	key := append([]byte{privilegedPrefix}, addr...)
	if storage.Get(ctx, key) != nil {
		panic(ErrAddressPrivileged)
	}
	if common.KeyCount(ctx, []byte{privilegedPrefix}) >= MaxPrivilegedAddresses {
		panic(ErrMaxPrivilegedAddresses)
	}
	if common.BytesEqual(addr, owner) {
		panic(ErrOwnerNotPrivileged)
	}

	storage.Put(ctx, key, true)
	runtime.Notify("PrivilegedAddressAdded", addr)
}

// RemovePrivilegedAddress removes an address from the list of privileged
// addresses. It can be invoked only by the contract owner.
//
// Produces PrivilegedAddressRemoved notification.
func RemovePrivilegedAddress(addr interop.Hash160) {
	ctx := storage.GetContext()
	checkOwner(ctx)

	key := append([]byte{privilegedPrefix}, addr...)
	if storage.Get(ctx, key) == nil {
		panic(ErrAddressNotPrivileged)
	}

	storage.Delete(ctx, key)
	runtime.Notify("PrivilegedAddressRemoved", addr)
}

// AddDepositorAddress adds an address to the list of depositors allowed to
// fund claims. It can be invoked only by the contract owner.
//
// Produces DepositorAddressAdded notification.
func AddDepositorAddress(addr interop.Hash160) {
	ctx := storage.GetContext()
	owner := checkOwner(ctx)
	checkAddress(addr)

	key := append([]byte{depositorPrefix}, addr...)
	if storage.Get(ctx, key) != nil {
		panic(ErrAddressDepositor)
	}
	if common.BytesEqual(addr, owner) {
		panic(ErrOwnerNotDepositor)
	}

	storage.Put(ctx, key, true)
	runtime.Notify("DepositorAddressAdded", addr)
}

// RemoveDepositorAddress removes an address from the list of depositors.
// It can be invoked only by the contract owner.
//
// Produces DepositorAddressRemoved notification.
func RemoveDepositorAddress(addr interop.Hash160) {
	ctx := storage.GetContext()
	checkOwner(ctx)

	key := append([]byte{depositorPrefix}, addr...)
	if storage.Get(ctx, key) == nil {
		panic(ErrAddressNotDepositor)
	}

	storage.Delete(ctx, key)
	runtime.Notify("DepositorAddressRemoved", addr)
}

// AuthorizeThirdParty allows an address to deposit third party royalties.
// It can be invoked only by the contract owner.
//
// Produces ThirdPartyAuthorized notification.
func AuthorizeThirdParty(addr interop.Hash160) {
	ctx := storage.GetContext()
	owner := checkOwner(ctx)
	checkAddress(addr)

	key := append([]byte{thirdPartyPrefix}, addr...)
	if storage.Get(ctx, key) != nil {
		panic(ErrAddressThirdParty)
	}
	if common.BytesEqual(addr, owner) {
		panic(ErrOwnerNotThirdParty)
	}

	storage.Put(ctx, key, true)
	runtime.Notify("ThirdPartyAuthorized", addr)
}

// UnauthorizeThirdParty revokes third party deposit rights. It can be
// invoked only by the contract owner.
//
// Produces ThirdPartyUnauthorized notification.
func UnauthorizeThirdParty(addr interop.Hash160) {
	ctx := storage.GetContext()
	checkOwner(ctx)

	key := append([]byte{thirdPartyPrefix}, addr...)
	if storage.Get(ctx, key) == nil {
		panic(ErrAddressNotThirdParty)
	}

	storage.Delete(ctx, key)
	runtime.Notify("ThirdPartyUnauthorized", addr)
}

// IsPrivileged returns true if addr is the owner or a privileged address.
func IsPrivileged(addr interop.Hash160) bool {
	return isPrivileged(storage.GetReadOnlyContext(), addr)
}

// HasDepositRights returns true if addr is the owner, a privileged address
// or a depositor.
func HasDepositRights(addr interop.Hash160) bool {
	return hasDepositRights(storage.GetReadOnlyContext(), addr)
}

// IsAuthorizedThirdParty returns true if addr is the owner or an authorized
// third party.
func IsAuthorizedThirdParty(addr interop.Hash160) bool {
	return isAuthorizedThirdParty(storage.GetReadOnlyContext(), addr)
}

// PrivilegedAddresses returns the list of privileged addresses.
func PrivilegedAddresses() []interop.Hash160 {
	return common.KeyList(storage.GetReadOnlyContext(), []byte{privilegedPrefix})
}

// DepositorAddresses returns the list of depositors.
func DepositorAddresses() []interop.Hash160 {
	return common.KeyList(storage.GetReadOnlyContext(), []byte{depositorPrefix})
}

// AuthorizedThirdParties returns the list of authorized third parties.
func AuthorizedThirdParties() []interop.Hash160 {
	return common.KeyList(storage.GetReadOnlyContext(), []byte{thirdPartyPrefix})
}

func isPrivileged(ctx storage.Context, addr interop.Hash160) bool {
	if common.BytesEqual(addr, getOwner(ctx)) {
		return true
	}
	return storage.Get(ctx, append([]byte{privilegedPrefix}, addr...)) != nil
}

func hasDepositRights(ctx storage.Context, addr interop.Hash160) bool {
	if isPrivileged(ctx, addr) {
		return true
	}
	return storage.Get(ctx, append([]byte{depositorPrefix}, addr...)) != nil
}

func isAuthorizedThirdParty(ctx storage.Context, addr interop.Hash160) bool {
	if common.BytesEqual(addr, getOwner(ctx)) {
		return true
	}
	return storage.Get(ctx, append([]byte{thirdPartyPrefix}, addr...)) != nil
}
