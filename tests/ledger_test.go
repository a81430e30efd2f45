package tests

import (
	"math/big"
	"testing"

	"github.com/nspcc-dev/claims-contract/claims"
	"github.com/nspcc-dev/claims-contract/claims/category"
	"github.com/nspcc-dev/claims-contract/internal/snapshot"
	rpcclaims "github.com/nspcc-dev/claims-contract/rpc/claims"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func TestClaims_StorageLedger(t *testing.T) {
	env, tp, factory, _ := newThirdPartyEnv(t)
	inv := env.ownerInvoker()
	owner := env.owner.ScriptHash()
	u := env.e.NewAccount(t).ScriptHash()

	inv.Invoke(t, stackitem.Null{}, "setClaimToken", env.neo)

	env.pay(t, env.owner, env.neo, 42, rpcclaims.AddClaimData(u, category.Airdrop)...)
	data, err := rpcclaims.AddClaimsData([]rpcclaims.ClaimItem{
		{Address: u, Category: category.Royalty, Amount: big.NewInt(8)},
		{Address: owner, Category: category.Reward, Amount: big.NewInt(2)},
	})
	require.NoError(t, err)
	env.pay(t, env.owner, env.neo, 10, data...)
	env.pay(t, tp, env.gas, 100, rpcclaims.AddThirdPartyClaimData(u)...)
	env.pay(t, tp, env.neo, 20, rpcclaims.AddThirdPartyClaimData(u)...)

	st := env.e.Chain.GetContractState(env.hash)
	require.NotNil(t, st)

	l := snapshot.NewLedger()
	var applyErr error
	env.e.Chain.SeekStorage(st.ID, nil, func(k, v []byte) bool {
		applyErr = l.Apply(k, v)
		return applyErr == nil
	})
	require.NoError(t, applyErr)

	require.Equal(t, owner, l.Owner)
	require.Equal(t, env.neo, l.ClaimToken)
	require.Equal(t, factory, l.Factory)
	require.True(t, l.Paused)
	require.Equal(t, []util.Uint160{tp.ScriptHash()}, l.ThirdParties)
	require.Empty(t, l.Privileged)

	acc := l.Accounts[u]
	require.NotNil(t, acc)
	require.Zero(t, acc.Claims[category.Airdrop].Amount.Cmp(big.NewInt(42)))
	require.Zero(t, acc.Claims[category.Royalty].Amount.Cmp(big.NewInt(8)))
	require.Positive(t, acc.Claims[category.Royalty].Date.Sign())
	require.Zero(t, acc.Claims[category.Reward].Date.Sign())
	require.Zero(t, acc.ThirdPartyNative.Cmp(big.NewInt(90)))
	require.Zero(t, acc.ThirdPartyTokens[env.neo].Amount.Cmp(big.NewInt(18)))
	require.Zero(t, l.Accounts[owner].Claims[category.Reward].Amount.Cmp(big.NewInt(2)))

	out := l.Outstanding()
	total := new(big.Int)
	for i := range out {
		total.Add(total, out[i])
	}
	require.Zero(t, total.Cmp(big.NewInt(52)))

	stack, err := inv.TestInvoke(t, "viewClaimsData", u)
	require.NoError(t, err)

	var cd rpcclaims.ClaimsData
	require.NoError(t, cd.FromStackItem(stack.Pop().Item()))
	require.Len(t, cd.Claims, category.Count)
	for i := range cd.Claims {
		require.Zero(t, cd.Claims[i].Amount.Cmp(acc.Claims[i].Amount), "category %d", i)
		require.Zero(t, cd.Claims[i].Date.Cmp(acc.Claims[i].Date), "category %d", i)
	}
	require.Zero(t, cd.ThirdPartyNative.Cmp(acc.ThirdPartyNative))
	require.EqualValues(t, claims.TaxRateDenominator/10, cd.TaxRate.Int64())
}
