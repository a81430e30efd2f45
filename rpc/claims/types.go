package claims

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Claim is a claim amount of some category with the time of its last
// modification in milliseconds.
type Claim struct {
	Amount *big.Int
	Date   *big.Int
}

// TokenClaim is a third party royalty balance in some NEP-17 token.
type TokenClaim struct {
	Token  util.Uint160
	Amount *big.Int
}

// FactoryData contains treasury parameters of third party deposits.
type FactoryData struct {
	TreasuryAddress util.Uint160
	TaxRate         *big.Int
}

// ClaimsData is a combined snapshot of all balances of an address.
// TreasuryAddress is zero if factory contract is not configured.
type ClaimsData struct {
	Claims           []*Claim
	ThirdPartyNative *big.Int
	ThirdPartyTokens []*TokenClaim
	TreasuryAddress  util.Uint160
	TaxRate          *big.Int
}

// structFields returns fields of a structure-like stack item checking their
// number.
func structFields(item stackitem.Item, n int) ([]stackitem.Item, error) {
	if item == nil {
		return nil, errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not an array")
	}
	if len(arr) != n {
		return nil, errors.New("wrong number of structure elements")
	}
	return arr, nil
}

func itemToUint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	return util.Uint160DecodeBytesBE(b)
}

// itemToOptionalUint160 decodes a hash which can be missing, Null and empty
// byte string are returned as zero hash.
func itemToOptionalUint160(item stackitem.Item) (util.Uint160, error) {
	if _, ok := item.(stackitem.Null); ok {
		return util.Uint160{}, nil
	}
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	if len(b) == 0 {
		return util.Uint160{}, nil
	}
	return util.Uint160DecodeBytesBE(b)
}

// FromStackItem retrieves fields of Claim from the given [stackitem.Item]
// or returns an error if it's not possible to do to so.
func (res *Claim) FromStackItem(item stackitem.Item) error {
	arr, err := structFields(item, 2)
	if err != nil {
		return err
	}

	res.Amount, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	res.Date, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field Date: %w", err)
	}

	return nil
}

// FromStackItem retrieves fields of TokenClaim from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *TokenClaim) FromStackItem(item stackitem.Item) error {
	arr, err := structFields(item, 2)
	if err != nil {
		return err
	}

	res.Token, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Token: %w", err)
	}

	res.Amount, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// FromStackItem retrieves fields of FactoryData from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *FactoryData) FromStackItem(item stackitem.Item) error {
	arr, err := structFields(item, 2)
	if err != nil {
		return err
	}

	res.TreasuryAddress, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field TreasuryAddress: %w", err)
	}

	res.TaxRate, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field TaxRate: %w", err)
	}

	return nil
}

// FromStackItem retrieves fields of ClaimsData from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *ClaimsData) FromStackItem(item stackitem.Item) error {
	arr, err := structFields(item, 5)
	if err != nil {
		return err
	}

	res.Claims, err = itemToClaims(arr[0], nil)
	if err != nil {
		return fmt.Errorf("field Claims: %w", err)
	}

	res.ThirdPartyNative, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field ThirdPartyNative: %w", err)
	}

	res.ThirdPartyTokens, err = itemToTokenClaims(arr[2], nil)
	if err != nil {
		return fmt.Errorf("field ThirdPartyTokens: %w", err)
	}

	res.TreasuryAddress, err = itemToOptionalUint160(arr[3])
	if err != nil {
		return fmt.Errorf("field TreasuryAddress: %w", err)
	}

	res.TaxRate, err = arr[4].TryInteger()
	if err != nil {
		return fmt.Errorf("field TaxRate: %w", err)
	}

	return nil
}

func itemToClaims(item stackitem.Item, err error) ([]*Claim, error) {
	if err != nil {
		return nil, err
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not an array")
	}
	res := make([]*Claim, len(arr))
	for i := range arr {
		res[i] = new(Claim)
		if err := res[i].FromStackItem(arr[i]); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return res, nil
}

func itemToTokenClaims(item stackitem.Item, err error) ([]*TokenClaim, error) {
	if err != nil {
		return nil, err
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not an array")
	}
	res := make([]*TokenClaim, len(arr))
	for i := range arr {
		res[i] = new(TokenClaim)
		if err := res[i].FromStackItem(arr[i]); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return res, nil
}

func itemToFactoryData(item stackitem.Item, err error) (*FactoryData, error) {
	if err != nil {
		return nil, err
	}
	var res = new(FactoryData)
	err = res.FromStackItem(item)
	return res, err
}

func itemToClaimsData(item stackitem.Item, err error) (*ClaimsData, error) {
	if err != nil {
		return nil, err
	}
	var res = new(ClaimsData)
	err = res.FromStackItem(item)
	return res, err
}
