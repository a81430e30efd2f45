package claims

import (
	"github.com/nspcc-dev/claims-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type (
	// ClaimItem is a single line of bulk claim operations.
	ClaimItem struct {
		Address  interop.Hash160
		Category int
		Amount   int
	}

	// DatedClaim is an amount reserved under some category along with the
	// time of its last modification (milliseconds).
	DatedClaim struct {
		Amount int
		Date   int
	}

	// TokenClaim is a third party balance in some NEP-17 token.
	TokenClaim struct {
		Token  interop.Hash160
		Amount int
	}

	// FactoryData contains treasury parameters provided by the factory
	// contract.
	FactoryData struct {
		TreasuryAddress interop.Hash160
		TaxRate         int
	}

	// ClaimsData is a combined snapshot of all balances of an address.
	ClaimsData struct {
		Claims           []DatedClaim
		ThirdPartyNative int
		ThirdPartyTokens []TokenClaim
		TreasuryAddress  interop.Hash160
		TaxRate          int
	}
)

const (
	// MaxClaimsPerOperation limits the number of items in bulk operations.
	MaxClaimsPerOperation = 200
	// MaxPrivilegedAddresses limits the number of privileged addresses.
	MaxPrivilegedAddresses = 2
	// TaxRateDenominator is the tax rate scale: rates are in basis points.
	TaxRateDenominator = 10_000

	// PaymentAddClaim is the first element of NEP-17 payment data
	// reserving a single claim: [PaymentAddClaim, address, category].
	PaymentAddClaim = "addClaim"
	// PaymentAddClaims is the first element of NEP-17 payment data
	// reserving claims in bulk: [PaymentAddClaims, [[address, category, amount], ...]].
	PaymentAddClaims = "addClaims"
	// PaymentAddThirdPartyClaim is the first element of NEP-17 payment data
	// of third party royalty deposits: [PaymentAddThirdPartyClaim, address].
	PaymentAddThirdPartyClaim = "addThirdPartyClaim"
)

// Authorization errors.
const (
	ErrNotAuthorized = "address not authorized to use this operation"
)

// Configuration errors.
const (
	ErrTokenNotSet   = "claims token is not set"
	ErrTokenSet      = "claims token is already set"
	ErrFactoryNotSet = "factory address is not set"
)

// Validation errors.
const (
	ErrTokenIncorrect        = "can only add designated token"
	ErrNonZeroValue          = "operation must have non-zero value"
	ErrMoreThanClaim         = "cannot remove more than current claim"
	ErrMaxClaimsPerOperation = "exceeded maximum number of claims per operation"
	ErrClaimEqualPayment     = "claims added must equal payment amount"
	ErrInvalidCategory       = "invalid claim category"
	ErrInvalidAddress        = "invalid address"
	ErrInvalidTaxRate        = "invalid tax rate"
	ErrInvalidToken          = "payment token is not a contract"
	ErrFungibleOnly          = "only fungible tokens are accepted"
	ErrUnknownPayment        = "unknown payment operation"
)

// State errors.
const (
	ErrPaused             = "contract is paused"
	ErrAlreadyPaused      = "contract is already paused"
	ErrAlreadyUnpaused    = "contract is already unpaused"
	ErrNoThirdPartyClaims = "no third party claims to collect"
)

const (
	ownerKey      = 'o'
	claimTokenKey = 't'
	pausedKey     = 's'
	factoryKey    = 'f'
)

// nolint:unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		owner interop.Hash160
	})

	checkAddress(args.owner)

	storage.Put(ctx, ownerKey, args.owner)
	storage.Put(ctx, pausedKey, true)

	runtime.Log("claims contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the contract owner.
func Update(nefFile, manifest []byte, data any) {
	ctx := storage.GetReadOnlyContext()
	common.Update(getOwner(ctx), nefFile, manifest, data)
	runtime.Log("claims contract updated")
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// Owner returns the owner of the contract.
func Owner() interop.Hash160 {
	return getOwner(storage.GetReadOnlyContext())
}

// SetClaimToken sets NEP-17 token accepted for claims. It can be invoked
// only by the contract owner and only once.
func SetClaimToken(token interop.Hash160) {
	ctx := storage.GetContext()
	checkOwner(ctx)

	if storage.Get(ctx, claimTokenKey) != nil {
		panic(ErrTokenSet)
	}
	checkAddress(token)

	storage.Put(ctx, claimTokenKey, token)
}

// ClaimToken returns NEP-17 token accepted for claims or nil if it is not
// set yet.
func ClaimToken() interop.Hash160 {
	val := storage.Get(storage.GetReadOnlyContext(), claimTokenKey)
	if val == nil {
		return nil
	}
	return val.(interop.Hash160)
}

// SetFactoryAddress sets the factory contract providing treasury address
// and tax rate for third party deposits. It can be invoked only by the
// contract owner.
func SetFactoryAddress(addr interop.Hash160) {
	ctx := storage.GetContext()
	checkOwner(ctx)
	checkAddress(addr)

	storage.Put(ctx, factoryKey, addr)
}

// FactoryAddress returns the factory contract address or nil if it is not
// set yet.
func FactoryAddress() interop.Hash160 {
	val := storage.Get(storage.GetReadOnlyContext(), factoryKey)
	if val == nil {
		return nil
	}
	return val.(interop.Hash160)
}

// Pause stops claim harvesting. It can be invoked by the owner or any
// privileged address which must be passed as caller.
//
// Produces HarvestPaused notification.
func Pause(caller interop.Hash160) {
	ctx := storage.GetContext()
	if isPaused(ctx) {
		panic(ErrAlreadyPaused)
	}

	common.CheckWitness(caller)
	if !isPrivileged(ctx, caller) {
		panic(ErrNotAuthorized)
	}

	storage.Put(ctx, pausedKey, true)
	runtime.Notify("HarvestPaused", caller)
}

// Unpause resumes claim harvesting. It can be invoked only by the contract
// owner.
//
// Produces HarvestUnpaused notification.
func Unpause() {
	ctx := storage.GetContext()
	checkOwner(ctx)

	if !isPaused(ctx) {
		panic(ErrAlreadyUnpaused)
	}

	storage.Put(ctx, pausedKey, false)
	runtime.Notify("HarvestUnpaused")
}

// IsPaused returns true if claim harvesting is paused.
func IsPaused() bool {
	return isPaused(storage.GetReadOnlyContext())
}

// OnNEP17Payment accepts claim funding and third party royalty deposits.
// Payment data must be an array with one of PaymentAddClaim,
// PaymentAddClaims or PaymentAddThirdPartyClaim as the first element.
// GAS emitted to the contract for its NEO holdings is accepted without
// data.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	token := runtime.GetCallingScriptHash()

	if data == nil {
		if len(from) == 0 && common.BytesEqual(token, interop.Hash160(gas.Hash)) {
			return
		}
		panic(ErrUnknownPayment)
	}

	ctx := storage.GetContext()
	args := data.([]any)
	if len(args) != 2 && len(args) != 3 {
		panic(ErrUnknownPayment)
	}

	switch args[0].(string) {
	case PaymentAddClaim:
		if len(args) != 3 {
			panic(ErrUnknownPayment)
		}
		addClaim(ctx, from, token, amount, args[1].(interop.Hash160), args[2].(int))
	case PaymentAddClaims:
		addClaims(ctx, from, token, amount, args[1].([]ClaimItem))
	case PaymentAddThirdPartyClaim:
		addThirdPartyClaim(ctx, from, token, amount, args[1].(interop.Hash160))
	default:
		panic(ErrUnknownPayment)
	}
}

// OnNEP11Payment rejects every non-fungible token transfer.
func OnNEP11Payment(from interop.Hash160, amount int, tokenID []byte, data any) {
	panic(ErrFungibleOnly)
}

func getOwner(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, ownerKey).(interop.Hash160)
}

// checkOwner panics if the transaction is not witnessed by the owner.
func checkOwner(ctx storage.Context) interop.Hash160 {
	owner := getOwner(ctx)
	common.CheckOwnerWitness(owner)
	return owner
}

func isPaused(ctx storage.Context) bool {
	return storage.Get(ctx, pausedKey).(bool)
}

func getClaimToken(ctx storage.Context) interop.Hash160 {
	val := storage.Get(ctx, claimTokenKey)
	if val == nil {
		panic(ErrTokenNotSet)
	}
	return val.(interop.Hash160)
}

func checkAddress(addr interop.Hash160) {
	if len(addr) != interop.Hash160Len {
		panic(ErrInvalidAddress)
	}
}

func checkAmount(amount int) {
	if amount <= 0 {
		panic(ErrNonZeroValue)
	}
}
