package claims

import (
	"github.com/nspcc-dev/claims-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	nativeClaimPrefix    = 'n'
	tokenClaimPrefix     = 'k'
	thirdPartyDatePrefix = 'm'
)

// ClaimThirdParty transfers third party royalties of the account to it:
// GAS balance first, then every token balance. All balances are cleared
// before the first transfer, so a recipient re-entering from onNEP17Payment
// finds nothing to collect. Fails if there is nothing to collect.
//
// Produces ThirdPartyClaimCollected notification for every transfer.
func ClaimThirdParty(account interop.Hash160) {
	ctx := storage.GetContext()
	common.CheckWitness(account)

	nativeKey := append([]byte{nativeClaimPrefix}, account...)
	native := common.GetInt(ctx, nativeKey)
	if native > 0 {
		storage.Put(ctx, nativeKey, 0)
	}

	collected := native > 0
	tokens := getTokenClaims(ctx, account)
	for i := range tokens {
		storage.Delete(ctx, tokenClaimKey(account, tokens[i].Token))
		if tokens[i].Amount > 0 {
			collected = true
		}
	}

	if !collected {
		panic(ErrNoThirdPartyClaims)
	}

	if native > 0 {
		common.Transfer(interop.Hash160(gas.Hash), account, native)
		runtime.Notify("ThirdPartyClaimCollected", account, interop.Hash160(gas.Hash), native)
	}
	for i := range tokens {
		tc := tokens[i]
		if tc.Amount > 0 {
			common.Transfer(tc.Token, account, tc.Amount)
			runtime.Notify("ThirdPartyClaimCollected", account, tc.Token, tc.Amount)
		}
	}
}

// addThirdPartyClaim processes PaymentAddThirdPartyClaim payment of
// operator. Tax is forwarded to the treasury, the rest is credited to addr.
func addThirdPartyClaim(ctx storage.Context, operator, token interop.Hash160, amount int, addr interop.Hash160) {
	if !isAuthorizedThirdParty(ctx, operator) {
		panic(ErrNotAuthorized)
	}
	factory := getFactory(ctx)
	checkAmount(amount)
	checkAddress(addr)

	isNative := common.BytesEqual(token, interop.Hash160(gas.Hash))
	if !isNative && management.GetContract(token) == nil {
		panic(ErrInvalidToken)
	}

	data := getFactoryData(factory)
	tax := amount * data.TaxRate / TaxRateDenominator
	if tax > 0 {
		common.Transfer(token, data.TreasuryAddress, tax)
	}
	net := amount - tax

	if isNative {
		key := append([]byte{nativeClaimPrefix}, addr...)
		storage.Put(ctx, key, common.GetInt(ctx, key)+net)
	} else {
		key := tokenClaimKey(addr, token)
		tc := TokenClaim{Token: token}
		if val := storage.Get(ctx, key); val != nil {
			tc = std.Deserialize(val.([]byte)).(TokenClaim)
		}
		tc.Amount += net
		common.SetSerialized(ctx, key, tc)
	}
	storage.Put(ctx, thirdPartyDateKey(addr, token), runtime.GetTime())

	runtime.Notify("ThirdPartyClaimAdded", addr, token, net)
}

func getFactory(ctx storage.Context) interop.Hash160 {
	val := storage.Get(ctx, factoryKey)
	if val == nil {
		panic(ErrFactoryNotSet)
	}
	return val.(interop.Hash160)
}

// getFactoryData fetches treasury parameters from the factory contract.
func getFactoryData(factory interop.Hash160) FactoryData {
	treasury := contract.Call(factory, "getTreasuryAddress", contract.ReadOnly).(interop.Hash160)
	rate := contract.Call(factory, "getTax", contract.ReadOnly).(int)
	if rate < 0 || rate > TaxRateDenominator {
		panic(ErrInvalidTaxRate)
	}
	return FactoryData{
		TreasuryAddress: treasury,
		TaxRate:         rate,
	}
}

func getTokenClaims(ctx storage.Context, addr interop.Hash160) []TokenClaim {
	res := []TokenClaim{}
	it := storage.Find(ctx, append([]byte{tokenClaimPrefix}, addr...), storage.ValuesOnly|storage.DeserializeValues)
	for iterator.Next(it) {
		res = append(res, iterator.Value(it).(TokenClaim))
	}
	return res
}

func getThirdPartyNative(ctx storage.Context, addr interop.Hash160) int {
	return common.GetInt(ctx, append([]byte{nativeClaimPrefix}, addr...))
}

func tokenClaimKey(addr, token interop.Hash160) []byte {
	return append(append([]byte{tokenClaimPrefix}, addr...), token...)
}

// thirdPartyDateKey returns modification date key of (address, token) pair,
// GAS deposits use GAS hash as a token.
func thirdPartyDateKey(addr, token interop.Hash160) []byte {
	return append(append([]byte{thirdPartyDatePrefix}, addr...), token...)
}
