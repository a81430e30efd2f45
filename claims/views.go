package claims

import (
	"github.com/nspcc-dev/claims-contract/claims/category"
	"github.com/nspcc-dev/claims-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// ViewClaim returns the claim of the address under the category.
func ViewClaim(addr interop.Hash160, cat int) int {
	checkCategory(cat)
	return getClaim(storage.GetReadOnlyContext(), addr, cat)
}

// ViewClaimModifyDate returns the last modification time (milliseconds) of
// the claim of the address under the category or 0 if it was never
// modified.
func ViewClaimModifyDate(addr interop.Hash160, cat int) int {
	checkCategory(cat)
	return getClaimDate(storage.GetReadOnlyContext(), addr, cat)
}

// ViewClaims returns the sum of claims of the address in all categories.
func ViewClaims(addr interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()

	var total int
	for c := 0; c < category.Count; c++ {
		total += getClaim(ctx, addr, c)
	}
	return total
}

// ViewClaimsWithDate returns claims of the address with modification dates,
// one per category in category order.
func ViewClaimsWithDate(addr interop.Hash160) []DatedClaim {
	return getClaimsWithDate(storage.GetReadOnlyContext(), addr)
}

// ViewThirdPartyNativeClaim returns third party GAS royalties of the address.
func ViewThirdPartyNativeClaim(addr interop.Hash160) int {
	return getThirdPartyNative(storage.GetReadOnlyContext(), addr)
}

// ViewThirdPartyTokenClaims returns third party token royalties of the
// address.
func ViewThirdPartyTokenClaims(addr interop.Hash160) []TokenClaim {
	return getTokenClaims(storage.GetReadOnlyContext(), addr)
}

// IterateThirdPartyTokenClaims returns an iterator over TokenClaim
// structures of the address.
func IterateThirdPartyTokenClaims(addr interop.Hash160) iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, append([]byte{tokenClaimPrefix}, addr...), storage.ValuesOnly|storage.DeserializeValues)
}

// ViewThirdPartyClaimModifyDate returns the last deposit time (milliseconds)
// of third party royalties of the address in the token. GAS hash is used
// for native deposits.
func ViewThirdPartyClaimModifyDate(addr, token interop.Hash160) int {
	return common.GetInt(storage.GetReadOnlyContext(), thirdPartyDateKey(addr, token))
}

// ViewFactoryData returns treasury address and tax rate fetched from the
// factory contract.
func ViewFactoryData() FactoryData {
	return getFactoryData(getFactory(storage.GetReadOnlyContext()))
}

// ViewClaimsData returns a combined snapshot of the address balances. Treasury
// parameters are fetched from the factory contract, they are empty if the
// factory is not set.
func ViewClaimsData(addr interop.Hash160) ClaimsData {
	ctx := storage.GetReadOnlyContext()

	res := ClaimsData{
		Claims:           getClaimsWithDate(ctx, addr),
		ThirdPartyNative: getThirdPartyNative(ctx, addr),
		ThirdPartyTokens: getTokenClaims(ctx, addr),
	}

	if factory := storage.Get(ctx, factoryKey); factory != nil {
		data := getFactoryData(factory.(interop.Hash160))
		res.TreasuryAddress = data.TreasuryAddress
		res.TaxRate = data.TaxRate
	}

	return res
}

func getClaimsWithDate(ctx storage.Context, addr interop.Hash160) []DatedClaim {
	res := []DatedClaim{}
	for c := 0; c < category.Count; c++ {
		res = append(res, DatedClaim{
			Amount: getClaim(ctx, addr, c),
			Date:   getClaimDate(ctx, addr, c),
		})
	}
	return res
}
