package claims

import (
	"github.com/nspcc-dev/claims-contract/claims/category"
	"github.com/nspcc-dev/claims-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	claimPrefix     = 'c'
	claimDatePrefix = 'd'
)

// RemoveClaim decreases the claim of the address under the category by
// amount and returns removed funds to the owner. It can be invoked only by
// the contract owner.
//
// Produces ClaimRemoved notification.
func RemoveClaim(addr interop.Hash160, cat int, amount int) {
	ctx := storage.GetContext()
	owner := checkOwner(ctx)
	token := getClaimToken(ctx)

	removeClaim(ctx, addr, cat, amount, runtime.GetTime())

	common.Transfer(token, owner, amount)
}

// RemoveClaims is a bulk version of RemoveClaim. Removed funds are returned
// to the owner with a single transfer. Either every item is applied or
// none of them.
//
// Produces ClaimRemoved notification for every item.
func RemoveClaims(items []ClaimItem) {
	ctx := storage.GetContext()
	owner := checkOwner(ctx)
	token := getClaimToken(ctx)
	checkBulkSize(len(items))

	var (
		now   = runtime.GetTime()
		total int
	)

	for i := range items {
		item := items[i]
		removeClaim(ctx, item.Address, item.Category, item.Amount, now)
		total += item.Amount
	}

	if total > 0 {
		common.Transfer(token, owner, total)
	}
}

// Claim transfers claims of the account to it. If cat is nil, claims of
// every category are collected, otherwise only claim of the given category
// is. Harvesting is not available while the contract is paused.
//
// Produces ClaimCollected notification for every collected category and
// AllClaimsCollected notification when cat is nil.
func Claim(account interop.Hash160, cat any) {
	ctx := storage.GetContext()
	if isPaused(ctx) {
		panic(ErrPaused)
	}
	token := getClaimToken(ctx)
	common.CheckWitness(account)

	var total int

	if cat != nil {
		c := cat.(int)
		checkCategory(c)

		total = getClaim(ctx, account, c)
		checkAmount(total)

		storage.Put(ctx, claimKey(claimPrefix, account, c), 0)
		runtime.Notify("ClaimCollected", account, c, total)
	} else {
		for c := 0; c < category.Count; c++ {
			amount := getClaim(ctx, account, c)
			if amount > 0 {
				total += amount
				storage.Put(ctx, claimKey(claimPrefix, account, c), 0)
				runtime.Notify("ClaimCollected", account, c, amount)
			}
		}
		checkAmount(total)
		runtime.Notify("AllClaimsCollected", account, total)
	}

	common.Transfer(token, account, total)
}

// addClaim processes PaymentAddClaim payment of operator.
func addClaim(ctx storage.Context, operator, token interop.Hash160, amount int, addr interop.Hash160, cat int) {
	checkPaymentToken(ctx, token)
	checkAmount(amount)
	checkDepositRights(ctx, operator)
	checkAddress(addr)
	checkCategory(cat)

	putClaim(ctx, operator, addr, cat, amount, runtime.GetTime())
}

// addClaims processes PaymentAddClaims payment of operator. Sum of item
// amounts must be equal to the paid amount.
func addClaims(ctx storage.Context, operator, token interop.Hash160, amount int, items []ClaimItem) {
	checkBulkSize(len(items))
	checkPaymentToken(ctx, token)
	checkAmount(amount)
	checkDepositRights(ctx, operator)

	var sum int
	for i := range items {
		item := items[i]
		checkAmount(item.Amount)
		checkAddress(item.Address)
		checkCategory(item.Category)
		sum += item.Amount
	}
	if sum != amount {
		panic(ErrClaimEqualPayment)
	}

	now := runtime.GetTime()
	for i := range items {
		item := items[i]
		putClaim(ctx, operator, item.Address, item.Category, item.Amount, now)
	}
}

func putClaim(ctx storage.Context, operator, addr interop.Hash160, cat, amount, now int) {
	current := getClaim(ctx, addr, cat)

	storage.Put(ctx, claimKey(claimPrefix, addr, cat), current+amount)
	storage.Put(ctx, claimKey(claimDatePrefix, addr, cat), now)

	runtime.Notify("ClaimAdded", operator, addr, cat, amount)
}

func removeClaim(ctx storage.Context, addr interop.Hash160, cat, amount, now int) {
	checkCategory(cat)
	checkAmount(amount)

	current := getClaim(ctx, addr, cat)
	if current < amount {
		panic(ErrMoreThanClaim)
	}

	storage.Put(ctx, claimKey(claimPrefix, addr, cat), current-amount)
	storage.Put(ctx, claimKey(claimDatePrefix, addr, cat), now)

	runtime.Notify("ClaimRemoved", addr, cat, amount)
}

func getClaim(ctx storage.Context, addr interop.Hash160, cat int) int {
	return common.GetInt(ctx, claimKey(claimPrefix, addr, cat))
}

func getClaimDate(ctx storage.Context, addr interop.Hash160, cat int) int {
	return common.GetInt(ctx, claimKey(claimDatePrefix, addr, cat))
}

// claimKey returns storage key of (address, category) pair: prefix byte,
// category byte and the address.
func claimKey(prefix byte, addr interop.Hash160, cat int) []byte {
	return append([]byte{prefix, byte(cat)}, addr...)
}

func checkPaymentToken(ctx storage.Context, token interop.Hash160) {
	if !common.BytesEqual(token, getClaimToken(ctx)) {
		panic(ErrTokenIncorrect)
	}
}

func checkDepositRights(ctx storage.Context, operator interop.Hash160) {
	if !hasDepositRights(ctx, operator) {
		panic(ErrNotAuthorized)
	}
}

func checkCategory(cat int) {
	if !category.IsValid(cat) {
		panic(ErrInvalidCategory)
	}
}

func checkBulkSize(n int) {
	if n > MaxClaimsPerOperation {
		panic(ErrMaxClaimsPerOperation)
	}
}
