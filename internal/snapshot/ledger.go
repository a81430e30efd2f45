package snapshot

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/nspcc-dev/claims-contract/claims/category"
	"github.com/nspcc-dev/claims-contract/rpc/claims"
	"github.com/nspcc-dev/neo-go/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Storage layout of the claims contract.
const (
	ownerKey      = 'o'
	claimTokenKey = 't'
	pausedKey     = 's'
	factoryKey    = 'f'

	privilegedPrefix = 'P'
	depositorPrefix  = 'D'
	thirdPartyPrefix = 'T'

	claimPrefix     = 'c'
	claimDatePrefix = 'd'

	nativeClaimPrefix    = 'n'
	tokenClaimPrefix     = 'k'
	thirdPartyDatePrefix = 'm'
)

// ErrUnknownKey is returned by Ledger.Apply for storage items not belonging
// to the known layout.
var ErrUnknownKey = errors.New("unknown storage key")

// TokenBalance is a third party balance in some token with the time of the
// last deposit in milliseconds. Native balances are keyed by GAS hash.
type TokenBalance struct {
	Amount *big.Int
	Date   *big.Int
}

// Account groups all balances of a single address.
type Account struct {
	Claims           [category.Count]claims.Claim
	ThirdPartyNative *big.Int
	ThirdPartyTokens map[util.Uint160]*TokenBalance
}

// Ledger is an offline view of the claims contract storage.
type Ledger struct {
	Owner      util.Uint160
	ClaimToken util.Uint160
	Factory    util.Uint160
	Paused     bool

	Privileged   []util.Uint160
	Depositors   []util.Uint160
	ThirdParties []util.Uint160

	Accounts map[util.Uint160]*Account
}

// NewLedger returns empty Ledger ready to accept storage items.
func NewLedger() *Ledger {
	return &Ledger{
		Accounts: make(map[util.Uint160]*Account),
	}
}

func newAccount() *Account {
	a := &Account{
		ThirdPartyNative: new(big.Int),
		ThirdPartyTokens: make(map[util.Uint160]*TokenBalance),
	}
	for i := range a.Claims {
		a.Claims[i] = claims.Claim{Amount: new(big.Int), Date: new(big.Int)}
	}
	return a
}

func (l *Ledger) account(addr util.Uint160) *Account {
	a, ok := l.Accounts[addr]
	if !ok {
		a = newAccount()
		l.Accounts[addr] = a
	}
	return a
}

func (a *Account) token(h util.Uint160) *TokenBalance {
	t, ok := a.ThirdPartyTokens[h]
	if !ok {
		t = &TokenBalance{Amount: new(big.Int), Date: new(big.Int)}
		a.ThirdPartyTokens[h] = t
	}
	return t
}

// Apply decodes a single storage item of the claims contract into the
// ledger. Its signature allows passing it directly as a storage iteration
// callback.
func (l *Ledger) Apply(key, value []byte) error {
	if len(key) == 0 {
		return fmt.Errorf("%w: empty", ErrUnknownKey)
	}

	var err error

	switch key[0] {
	case ownerKey, claimTokenKey, factoryKey:
		if len(key) != 1 {
			break
		}
		var h util.Uint160
		h, err = util.Uint160DecodeBytesBE(value)
		switch key[0] {
		case ownerKey:
			l.Owner = h
		case claimTokenKey:
			l.ClaimToken = h
		default:
			l.Factory = h
		}
		return wrapItemError(key, err)
	case pausedKey:
		if len(key) != 1 {
			break
		}
		l.Paused = bigint.FromBytes(value).Sign() != 0
		return nil
	case privilegedPrefix, depositorPrefix, thirdPartyPrefix:
		var h util.Uint160
		h, err = util.Uint160DecodeBytesBE(key[1:])
		if err != nil {
			return wrapItemError(key, err)
		}
		switch key[0] {
		case privilegedPrefix:
			l.Privileged = append(l.Privileged, h)
		case depositorPrefix:
			l.Depositors = append(l.Depositors, h)
		default:
			l.ThirdParties = append(l.ThirdParties, h)
		}
		return nil
	case claimPrefix, claimDatePrefix:
		if len(key) != 2+util.Uint160Size {
			break
		}
		if !category.IsValid(int(key[1])) {
			return wrapItemError(key, fmt.Errorf("invalid category %d", key[1]))
		}
		var h util.Uint160
		h, err = util.Uint160DecodeBytesBE(key[2:])
		if err != nil {
			return wrapItemError(key, err)
		}
		c := &l.account(h).Claims[key[1]]
		if key[0] == claimPrefix {
			c.Amount = bigint.FromBytes(value)
		} else {
			c.Date = bigint.FromBytes(value)
		}
		return nil
	case nativeClaimPrefix:
		var h util.Uint160
		h, err = util.Uint160DecodeBytesBE(key[1:])
		if err != nil {
			return wrapItemError(key, err)
		}
		l.account(h).ThirdPartyNative = bigint.FromBytes(value)
		return nil
	case tokenClaimPrefix, thirdPartyDatePrefix:
		if len(key) != 1+2*util.Uint160Size {
			break
		}
		var addr, token util.Uint160
		addr, _ = util.Uint160DecodeBytesBE(key[1 : 1+util.Uint160Size])
		token, _ = util.Uint160DecodeBytesBE(key[1+util.Uint160Size:])
		if key[0] == thirdPartyDatePrefix {
			l.account(addr).token(token).Date = bigint.FromBytes(value)
			return nil
		}

		var tc claims.TokenClaim
		item, err := stackitem.Deserialize(value)
		if err == nil {
			err = tc.FromStackItem(item)
		}
		if err == nil && !tc.Token.Equals(token) {
			err = fmt.Errorf("token mismatch: %s in key, %s in value", token.StringLE(), tc.Token.StringLE())
		}
		if err != nil {
			return wrapItemError(key, err)
		}
		l.account(addr).token(token).Amount = tc.Amount
		return nil
	}

	return fmt.Errorf("%w: %x", ErrUnknownKey, key)
}

func wrapItemError(key []byte, err error) error {
	if err != nil {
		return fmt.Errorf("storage item %x: %w", key, err)
	}
	return nil
}

// Addresses returns all addresses having any balance record sorted in
// little-endian string order.
func (l *Ledger) Addresses() []util.Uint160 {
	res := make([]util.Uint160, 0, len(l.Accounts))
	for h := range l.Accounts {
		res = append(res, h)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].StringLE() < res[j].StringLE()
	})
	return res
}

// Outstanding returns totals of unclaimed balances per category. Their sum
// must not exceed the claim token balance of the contract.
func (l *Ledger) Outstanding() [category.Count]*big.Int {
	var res [category.Count]*big.Int
	for i := range res {
		res[i] = new(big.Int)
	}
	for _, a := range l.Accounts {
		for i := range a.Claims {
			res[i].Add(res[i], a.Claims[i].Amount)
		}
	}
	return res
}

// ThirdPartyTotals returns totals of third party balances per token, native
// balances are reported under the given GAS hash.
func (l *Ledger) ThirdPartyTotals(gas util.Uint160) map[util.Uint160]*big.Int {
	res := make(map[util.Uint160]*big.Int)
	add := func(h util.Uint160, v *big.Int) {
		if v == nil || v.Sign() == 0 {
			return
		}
		t, ok := res[h]
		if !ok {
			t = new(big.Int)
			res[h] = t
		}
		t.Add(t, v)
	}
	for _, a := range l.Accounts {
		add(gas, a.ThirdPartyNative)
		for h, t := range a.ThirdPartyTokens {
			add(h, t.Amount)
		}
	}
	return res
}
