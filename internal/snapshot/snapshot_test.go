package snapshot

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/claims-contract/claims/category"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

var (
	owner    = util.Uint160{1}
	token    = util.Uint160{2}
	factory  = util.Uint160{3}
	acc      = util.Uint160{4}
	nep17    = util.Uint160{5}
	gasToken = util.Uint160{6}
)

func intValue(v int64) []byte {
	return bigint.ToBytes(big.NewInt(v))
}

func claimKey(prefix byte, addr util.Uint160, c category.Category) []byte {
	return append([]byte{prefix, byte(c)}, addr.BytesBE()...)
}

func pairKey(prefix byte, addr, token util.Uint160) []byte {
	return append(append([]byte{prefix}, addr.BytesBE()...), token.BytesBE()...)
}

func tokenClaimValue(t *testing.T, token util.Uint160, amount int64) []byte {
	b, err := stackitem.Serialize(stackitem.NewStruct([]stackitem.Item{
		stackitem.NewByteArray(token.BytesBE()),
		stackitem.Make(amount),
	}))
	require.NoError(t, err)
	return b
}

func testStorage(t *testing.T) [][2][]byte {
	return [][2][]byte{
		{{ownerKey}, owner.BytesBE()},
		{{claimTokenKey}, token.BytesBE()},
		{{factoryKey}, factory.BytesBE()},
		{{pausedKey}, {1}},
		{append([]byte{privilegedPrefix}, owner.BytesBE()...), {1}},
		{append([]byte{depositorPrefix}, owner.BytesBE()...), {1}},
		{append([]byte{thirdPartyPrefix}, acc.BytesBE()...), {1}},
		{claimKey(claimPrefix, acc, category.Royalty), intValue(500)},
		{claimKey(claimDatePrefix, acc, category.Royalty), intValue(1700000000000)},
		{claimKey(claimPrefix, owner, category.Reward), intValue(7)},
		{append([]byte{nativeClaimPrefix}, acc.BytesBE()...), intValue(900)},
		{pairKey(tokenClaimPrefix, acc, nep17), tokenClaimValue(t, nep17, 1350)},
		{pairKey(thirdPartyDatePrefix, acc, nep17), intValue(42)},
	}
}

func testContract() state.Contract {
	var st state.Contract
	st.Manifest = *manifest.DefaultManifest("Claims")
	return st
}

func TestSnapshot(t *testing.T) {
	dir := t.TempDir()
	id := ID{Label: "test-net", Block: 100}

	c, err := NewCreator(dir, id)
	require.NoError(t, err)

	require.Error(t, c.Flush())

	st := testContract()
	st.ID = 7
	st.Hash = util.Uint160{9}
	c.SetContract("claims", st)

	for _, item := range testStorage(t) {
		require.NoError(t, c.Write(item[0], item[1]))
	}
	require.NoError(t, c.Flush())
	c.Close()

	_, err = NewCreator(dir, id)
	require.ErrorIs(t, err, os.ErrExist)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0600))

	ids, err := List(dir)
	require.NoError(t, err)
	require.Equal(t, []ID{id}, ids)

	r, err := Open(dir, id)
	require.NoError(t, err)

	name, res := r.Contract()
	require.Equal(t, "claims", name)
	require.Equal(t, st.Hash, res.Hash)
	require.EqualValues(t, 7, res.ID)

	var n int
	require.NoError(t, r.IterateStorage(func(key, value []byte) error {
		require.Equal(t, testStorage(t)[n][0], key)
		n++
		return nil
	}))
	require.Equal(t, len(testStorage(t)), n)

	_, err = Open(dir, ID{Label: "main", Block: 1})
	require.Error(t, err)
}

func TestList(t *testing.T) {
	ids, err := List(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	require.Empty(t, ids)

	dir := t.TempDir()
	for _, id := range []ID{{"b", 2}, {"a", 10}, {"a", 3}} {
		c, err := NewCreator(dir, id)
		require.NoError(t, err)
		c.SetContract("claims", testContract())
		require.NoError(t, c.Flush())
		c.Close()
	}

	ids, err = List(dir)
	require.NoError(t, err)
	require.Equal(t, []ID{{"a", 3}, {"a", 10}, {"b", 2}}, ids)
}

func TestLedger(t *testing.T) {
	l := NewLedger()
	for _, item := range testStorage(t) {
		require.NoError(t, l.Apply(item[0], item[1]))
	}

	require.Equal(t, owner, l.Owner)
	require.Equal(t, token, l.ClaimToken)
	require.Equal(t, factory, l.Factory)
	require.True(t, l.Paused)
	require.Equal(t, []util.Uint160{owner}, l.Privileged)
	require.Equal(t, []util.Uint160{owner}, l.Depositors)
	require.Equal(t, []util.Uint160{acc}, l.ThirdParties)

	a := l.Accounts[acc]
	require.NotNil(t, a)
	require.Equal(t, big.NewInt(500), a.Claims[category.Royalty].Amount)
	require.Equal(t, big.NewInt(1700000000000), a.Claims[category.Royalty].Date)
	require.Zero(t, a.Claims[category.Airdrop].Amount.Sign())
	require.Equal(t, big.NewInt(900), a.ThirdPartyNative)
	require.Equal(t, big.NewInt(1350), a.ThirdPartyTokens[nep17].Amount)
	require.Equal(t, big.NewInt(42), a.ThirdPartyTokens[nep17].Date)

	require.Len(t, l.Addresses(), 2)

	out := l.Outstanding()
	require.Equal(t, big.NewInt(7), out[category.Reward])
	require.Equal(t, big.NewInt(500), out[category.Royalty])
	require.Zero(t, out[category.Allocation].Sign())

	totals := l.ThirdPartyTotals(gasToken)
	require.Equal(t, map[util.Uint160]*big.Int{
		gasToken: big.NewInt(900),
		nep17:    big.NewInt(1350),
	}, totals)

	require.NoError(t, l.Apply([]byte{pausedKey}, []byte{}))
	require.False(t, l.Paused)
}

func TestLedger_Errors(t *testing.T) {
	l := NewLedger()

	require.ErrorIs(t, l.Apply(nil, nil), ErrUnknownKey)
	require.ErrorIs(t, l.Apply([]byte{'x'}, nil), ErrUnknownKey)
	require.ErrorIs(t, l.Apply([]byte{ownerKey, 1}, nil), ErrUnknownKey)
	require.Error(t, l.Apply([]byte{ownerKey}, []byte{1, 2, 3}))
	require.Error(t, l.Apply(claimKey(claimPrefix, acc, category.Category(category.Count)), intValue(1)))
	require.Error(t, l.Apply(pairKey(tokenClaimPrefix, acc, nep17), []byte{0xff}))
	require.Error(t, l.Apply(pairKey(tokenClaimPrefix, acc, nep17), tokenClaimValue(t, gasToken, 1)))
}
