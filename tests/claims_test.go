package tests

import (
	"encoding/json"
	"path"
	"testing"

	"github.com/nspcc-dev/claims-contract/claims"
	"github.com/nspcc-dev/claims-contract/claims/category"
	"github.com/nspcc-dev/claims-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const claimsPath = "../claims"

type claimsEnv struct {
	e     *neotest.Executor
	owner neotest.Signer
	hash  util.Uint160
	neo   util.Uint160
	gas   util.Uint160
}

// newClaimsEnv deploys Claims contract owned by a fresh account holding
// some NEO. NEO is not divisible which keeps expected balances exact, so it
// is used as a claim token.
func newClaimsEnv(t *testing.T) *claimsEnv {
	e := newExecutor(t)
	owner := e.NewAccount(t)

	c := neotest.CompileFile(t, e.CommitteeHash, claimsPath, path.Join(claimsPath, "config.yml"))
	e.DeployContract(t, c, []any{owner.ScriptHash()})

	env := &claimsEnv{
		e:     e,
		owner: owner,
		hash:  c.Hash,
		neo:   e.NativeHash(t, nativenames.Neo),
		gas:   e.NativeHash(t, nativenames.Gas),
	}
	env.fundNEO(t, owner.ScriptHash(), 10_000_000)

	return env
}

// newActiveClaimsEnv returns environment with NEO claim token and harvesting
// enabled.
func newActiveClaimsEnv(t *testing.T) *claimsEnv {
	env := newClaimsEnv(t)

	inv := env.ownerInvoker()
	inv.Invoke(t, stackitem.Null{}, "setClaimToken", env.neo)
	inv.Invoke(t, stackitem.Null{}, "unpause")

	return env
}

func (c *claimsEnv) ownerInvoker() *neotest.ContractInvoker {
	return c.e.NewInvoker(c.hash, c.owner)
}

func (c *claimsEnv) invoker(s neotest.Signer) *neotest.ContractInvoker {
	return c.e.NewInvoker(c.hash, s)
}

func (c *claimsEnv) fundNEO(t *testing.T, to util.Uint160, amount int64) {
	c.e.ValidatorInvoker(c.neo).Invoke(t, true, "transfer",
		c.e.Validator.ScriptHash(), to, amount, nil)
}

// pay transfers amount of token from the signer to Claims contract with
// the given payment data.
func (c *claimsEnv) pay(t *testing.T, from neotest.Signer, token util.Uint160, amount int64, data ...any) util.Uint256 {
	return c.e.NewInvoker(token, from).Invoke(t, true, "transfer",
		from.ScriptHash(), c.hash, amount, data)
}

func (c *claimsEnv) payFail(t *testing.T, msg string, from neotest.Signer, token util.Uint160, amount int64, data ...any) {
	c.e.NewInvoker(token, from).InvokeFail(t, msg, "transfer",
		from.ScriptHash(), c.hash, amount, data)
}

func (c *claimsEnv) checkNEOBalance(t *testing.T, acc util.Uint160, expected int64) {
	c.e.CommitteeInvoker(c.neo).Invoke(t, expected, "balanceOf", acc)
}

func (c *claimsEnv) checkClaim(t *testing.T, acc util.Uint160, cat category.Category, expected int64) {
	c.e.CommitteeInvoker(c.hash).Invoke(t, expected, "viewClaim", acc, int64(cat))
}

func claimItem(acc util.Uint160, cat category.Category, amount int64) []any {
	return []any{acc, int64(cat), amount}
}

func TestClaims_Deploy(t *testing.T) {
	env := newClaimsEnv(t)
	inv := env.e.CommitteeInvoker(env.hash)

	inv.Invoke(t, hashItem(env.owner.ScriptHash()), "owner")
	inv.Invoke(t, true, "isPaused")
	inv.Invoke(t, stackitem.Null{}, "claimToken")
	inv.Invoke(t, stackitem.Null{}, "factoryAddress")
	inv.Invoke(t, common.Version, "version")

	t.Run("invalid owner", func(t *testing.T) {
		e := newExecutor(t)
		c := neotest.CompileFile(t, e.CommitteeHash, claimsPath, path.Join(claimsPath, "config.yml"))
		e.DeployContractCheckFAULT(t, c, []any{randomBytes(10)}, claims.ErrInvalidAddress)
	})
}

func TestClaims_SetClaimToken(t *testing.T) {
	env := newClaimsEnv(t)
	inv := env.ownerInvoker()

	env.invoker(env.e.NewAccount(t)).InvokeFail(t, common.ErrOwnerWitnessFailed, "setClaimToken", env.neo)
	inv.InvokeFail(t, claims.ErrInvalidAddress, "setClaimToken", randomBytes(10))

	inv.Invoke(t, stackitem.Null{}, "setClaimToken", env.neo)
	inv.Invoke(t, hashItem(env.neo), "claimToken")

	inv.InvokeFail(t, claims.ErrTokenSet, "setClaimToken", env.gas)
}

func TestClaims_Pause(t *testing.T) {
	env := newClaimsEnv(t)
	inv := env.ownerInvoker()
	owner := env.owner.ScriptHash()

	priv := env.e.NewAccount(t)
	stranger := env.e.NewAccount(t)
	inv.Invoke(t, stackitem.Null{}, "addPrivilegedAddress", priv.ScriptHash())

	inv.InvokeFail(t, claims.ErrAlreadyPaused, "pause", owner)

	env.invoker(priv).InvokeFail(t, common.ErrOwnerWitnessFailed, "unpause")
	h := inv.Invoke(t, stackitem.Null{}, "unpause")
	require.Equal(t, []stackitem.Item{eventItem()},
		contractEvents(env.e.GetTxExecResult(t, h), env.hash, "HarvestUnpaused"))
	inv.Invoke(t, false, "isPaused")
	inv.InvokeFail(t, claims.ErrAlreadyUnpaused, "unpause")

	t.Run("not privileged", func(t *testing.T) {
		env.invoker(stranger).InvokeFail(t, claims.ErrNotAuthorized, "pause", stranger.ScriptHash())
	})
	t.Run("no witness", func(t *testing.T) {
		env.invoker(stranger).InvokeFail(t, common.ErrWitnessFailed, "pause", priv.ScriptHash())
	})

	h = env.invoker(priv).Invoke(t, stackitem.Null{}, "pause", priv.ScriptHash())
	require.Equal(t, []stackitem.Item{eventItem(priv.ScriptHash())},
		contractEvents(env.e.GetTxExecResult(t, h), env.hash, "HarvestPaused"))
	inv.Invoke(t, true, "isPaused")

	inv.Invoke(t, stackitem.Null{}, "unpause")
	inv.Invoke(t, stackitem.Null{}, "pause", owner)
	inv.Invoke(t, true, "isPaused")
}

func TestClaims_AddClaim(t *testing.T) {
	env := newClaimsEnv(t)
	inv := env.ownerInvoker()
	user := env.e.NewAccount(t).ScriptHash()

	env.payFail(t, claims.ErrTokenNotSet, env.owner, env.neo, 10, claims.PaymentAddClaim, user, int64(category.Reward))

	inv.Invoke(t, stackitem.Null{}, "setClaimToken", env.neo)

	t.Run("wrong token", func(t *testing.T) {
		env.payFail(t, claims.ErrTokenIncorrect, env.owner, env.gas, 10, claims.PaymentAddClaim, user, int64(category.Reward))
	})
	t.Run("zero amount", func(t *testing.T) {
		env.payFail(t, claims.ErrNonZeroValue, env.owner, env.neo, 0, claims.PaymentAddClaim, user, int64(category.Reward))
	})
	t.Run("invalid category", func(t *testing.T) {
		env.payFail(t, claims.ErrInvalidCategory, env.owner, env.neo, 10, claims.PaymentAddClaim, user, int64(category.Count))
		env.payFail(t, claims.ErrInvalidCategory, env.owner, env.neo, 10, claims.PaymentAddClaim, user, int64(-1))
	})
	t.Run("invalid address", func(t *testing.T) {
		env.payFail(t, claims.ErrInvalidAddress, env.owner, env.neo, 10, claims.PaymentAddClaim, randomBytes(10), int64(category.Reward))
	})
	t.Run("not a depositor", func(t *testing.T) {
		stranger := env.e.NewAccount(t)
		env.fundNEO(t, stranger.ScriptHash(), 100)
		env.payFail(t, claims.ErrNotAuthorized, stranger, env.neo, 10, claims.PaymentAddClaim, user, int64(category.Reward))
	})
	t.Run("unknown operation", func(t *testing.T) {
		env.payFail(t, claims.ErrUnknownPayment, env.owner, env.neo, 10, "unknown", user)
		env.payFail(t, claims.ErrUnknownPayment, env.owner, env.neo, 10, claims.PaymentAddClaim, user)
		env.e.NewInvoker(env.neo, env.owner).InvokeFail(t, claims.ErrUnknownPayment, "transfer",
			env.owner.ScriptHash(), env.hash, int64(10), nil)
	})

	h := env.pay(t, env.owner, env.neo, 1000, claims.PaymentAddClaim, user, int64(category.Airdrop))
	ts := int64(env.e.TopBlock(t).Timestamp)
	aer := env.e.GetTxExecResult(t, h)
	require.Equal(t, []stackitem.Item{eventItem(env.owner.ScriptHash(), user, int64(category.Airdrop), 1000)},
		contractEvents(aer, env.hash, "ClaimAdded"))

	env.checkClaim(t, user, category.Airdrop, 1000)
	env.checkNEOBalance(t, env.hash, 1000)
	inv.Invoke(t, ts, "viewClaimModifyDate", user, int64(category.Airdrop))

	env.pay(t, env.owner, env.neo, 500, claims.PaymentAddClaim, user, int64(category.Airdrop))
	env.checkClaim(t, user, category.Airdrop, 1500)
	env.checkClaim(t, user, category.Reward, 0)
	inv.Invoke(t, 1500, "viewClaims", user)
}

func TestClaims_Depositors(t *testing.T) {
	env := newClaimsEnv(t)
	inv := env.ownerInvoker()
	inv.Invoke(t, stackitem.Null{}, "setClaimToken", env.neo)

	user := env.e.NewAccount(t).ScriptHash()
	priv := env.e.NewAccount(t)
	depositor := env.e.NewAccount(t)
	env.fundNEO(t, priv.ScriptHash(), 100)
	env.fundNEO(t, depositor.ScriptHash(), 100)

	inv.Invoke(t, stackitem.Null{}, "addPrivilegedAddress", priv.ScriptHash())
	inv.Invoke(t, stackitem.Null{}, "addDepositorAddress", depositor.ScriptHash())

	h := env.pay(t, priv, env.neo, 10, claims.PaymentAddClaim, user, int64(category.Reward))
	require.Equal(t, []stackitem.Item{eventItem(priv.ScriptHash(), user, int64(category.Reward), 10)},
		contractEvents(env.e.GetTxExecResult(t, h), env.hash, "ClaimAdded"))

	env.pay(t, depositor, env.neo, 20, claims.PaymentAddClaim, user, int64(category.Reward))
	env.checkClaim(t, user, category.Reward, 30)

	inv.Invoke(t, stackitem.Null{}, "removeDepositorAddress", depositor.ScriptHash())
	env.payFail(t, claims.ErrNotAuthorized, depositor, env.neo, 20, claims.PaymentAddClaim, user, int64(category.Reward))
}

func TestClaims_AddClaims(t *testing.T) {
	env := newClaimsEnv(t)
	inv := env.ownerInvoker()
	inv.Invoke(t, stackitem.Null{}, "setClaimToken", env.neo)

	u1 := env.e.NewAccount(t).ScriptHash()
	u2 := env.e.NewAccount(t).ScriptHash()

	items := []any{
		claimItem(u1, category.Reward, 100),
		claimItem(u1, category.Royalty, 200),
		claimItem(u2, category.Allocation, 300),
	}

	t.Run("sum mismatch", func(t *testing.T) {
		env.payFail(t, claims.ErrClaimEqualPayment, env.owner, env.neo, 599, claims.PaymentAddClaims, items)
		env.payFail(t, claims.ErrClaimEqualPayment, env.owner, env.neo, 601, claims.PaymentAddClaims, items)
	})
	t.Run("zero item", func(t *testing.T) {
		bad := []any{claimItem(u1, category.Reward, 100), claimItem(u2, category.Reward, 0)}
		env.payFail(t, claims.ErrNonZeroValue, env.owner, env.neo, 100, claims.PaymentAddClaims, bad)
	})
	t.Run("invalid category", func(t *testing.T) {
		bad := []any{claimItem(u1, category.Reward, 100), claimItem(u2, category.Category(category.Count), 1)}
		env.payFail(t, claims.ErrInvalidCategory, env.owner, env.neo, 101, claims.PaymentAddClaims, bad)
	})
	t.Run("too many items", func(t *testing.T) {
		bulk := make([]any, claims.MaxClaimsPerOperation+1)
		for i := range bulk {
			bulk[i] = claimItem(u1, category.Reward, 1)
		}
		env.payFail(t, claims.ErrMaxClaimsPerOperation, env.owner, env.neo, int64(len(bulk)), claims.PaymentAddClaims, bulk)
	})

	env.checkClaim(t, u1, category.Reward, 0)
	env.checkClaim(t, u2, category.Reward, 0)
	env.checkNEOBalance(t, env.hash, 0)

	h := env.pay(t, env.owner, env.neo, 600, claims.PaymentAddClaims, items)
	require.Equal(t, []stackitem.Item{
		eventItem(env.owner.ScriptHash(), u1, int64(category.Reward), 100),
		eventItem(env.owner.ScriptHash(), u1, int64(category.Royalty), 200),
		eventItem(env.owner.ScriptHash(), u2, int64(category.Allocation), 300),
	}, contractEvents(env.e.GetTxExecResult(t, h), env.hash, "ClaimAdded"))

	env.checkClaim(t, u1, category.Reward, 100)
	env.checkClaim(t, u1, category.Royalty, 200)
	env.checkClaim(t, u2, category.Allocation, 300)
	inv.Invoke(t, 300, "viewClaims", u1)

	t.Run("max items", func(t *testing.T) {
		bulk := make([]any, claims.MaxClaimsPerOperation)
		for i := range bulk {
			bulk[i] = claimItem(u2, category.Airdrop, 1)
		}
		env.pay(t, env.owner, env.neo, int64(len(bulk)), claims.PaymentAddClaims, bulk)
		env.checkClaim(t, u2, category.Airdrop, claims.MaxClaimsPerOperation)
	})
}

func TestClaims_RemoveClaim(t *testing.T) {
	env := newClaimsEnv(t)
	inv := env.ownerInvoker()
	user := env.e.NewAccount(t)
	u := user.ScriptHash()

	inv.InvokeFail(t, claims.ErrTokenNotSet, "removeClaim", u, int64(category.Reward), 1)
	inv.Invoke(t, stackitem.Null{}, "setClaimToken", env.neo)

	env.pay(t, env.owner, env.neo, 100, claims.PaymentAddClaim, u, int64(category.Reward))

	env.invoker(user).InvokeFail(t, common.ErrOwnerWitnessFailed, "removeClaim", u, int64(category.Reward), 1)
	inv.InvokeFail(t, claims.ErrMoreThanClaim, "removeClaim", u, int64(category.Reward), 101)
	inv.InvokeFail(t, claims.ErrMoreThanClaim, "removeClaim", u, int64(category.Airdrop), 1)
	inv.InvokeFail(t, claims.ErrNonZeroValue, "removeClaim", u, int64(category.Reward), 0)
	inv.InvokeFail(t, claims.ErrInvalidCategory, "removeClaim", u, int64(category.Count), 1)
	env.checkClaim(t, u, category.Reward, 100)

	ownerBalance := int64(10_000_000 - 100)
	env.checkNEOBalance(t, env.owner.ScriptHash(), ownerBalance)

	h := inv.Invoke(t, stackitem.Null{}, "removeClaim", u, int64(category.Reward), 40)
	require.Equal(t, []stackitem.Item{eventItem(u, int64(category.Reward), 40)},
		contractEvents(env.e.GetTxExecResult(t, h), env.hash, "ClaimRemoved"))
	inv.Invoke(t, int64(env.e.TopBlock(t).Timestamp), "viewClaimModifyDate", u, int64(category.Reward))

	env.checkClaim(t, u, category.Reward, 60)
	env.checkNEOBalance(t, env.owner.ScriptHash(), ownerBalance+40)
	env.checkNEOBalance(t, env.hash, 60)
}

func TestClaims_RemoveClaims(t *testing.T) {
	env := newClaimsEnv(t)
	inv := env.ownerInvoker()
	inv.Invoke(t, stackitem.Null{}, "setClaimToken", env.neo)

	u1 := env.e.NewAccount(t).ScriptHash()
	u2 := env.e.NewAccount(t).ScriptHash()
	env.pay(t, env.owner, env.neo, 300, claims.PaymentAddClaims, []any{
		claimItem(u1, category.Reward, 100),
		claimItem(u2, category.Airdrop, 200),
	})

	t.Run("partial failure", func(t *testing.T) {
		inv.InvokeFail(t, claims.ErrMoreThanClaim, "removeClaims", []any{
			claimItem(u1, category.Reward, 50),
			claimItem(u2, category.Airdrop, 201),
		})
		env.checkClaim(t, u1, category.Reward, 100)
		env.checkClaim(t, u2, category.Airdrop, 200)
	})
	t.Run("too many items", func(t *testing.T) {
		bulk := make([]any, claims.MaxClaimsPerOperation+1)
		for i := range bulk {
			bulk[i] = claimItem(u1, category.Reward, 0)
		}
		inv.InvokeFail(t, claims.ErrMaxClaimsPerOperation, "removeClaims", bulk)
	})
	t.Run("not owner", func(t *testing.T) {
		env.invoker(env.e.NewAccount(t)).InvokeFail(t, common.ErrOwnerWitnessFailed, "removeClaims", []any{
			claimItem(u1, category.Reward, 50),
		})
	})

	before := int64(10_000_000 - 300)
	h := inv.Invoke(t, stackitem.Null{}, "removeClaims", []any{
		claimItem(u1, category.Reward, 50),
		claimItem(u2, category.Airdrop, 200),
	})
	require.Equal(t, []stackitem.Item{
		eventItem(u1, int64(category.Reward), 50),
		eventItem(u2, int64(category.Airdrop), 200),
	}, contractEvents(env.e.GetTxExecResult(t, h), env.hash, "ClaimRemoved"))

	env.checkClaim(t, u1, category.Reward, 50)
	env.checkClaim(t, u2, category.Airdrop, 0)
	env.checkNEOBalance(t, env.owner.ScriptHash(), before+250)
}

func TestClaims_Harvest(t *testing.T) {
	env := newClaimsEnv(t)
	inv := env.ownerInvoker()
	inv.Invoke(t, stackitem.Null{}, "setClaimToken", env.neo)

	user := env.e.NewAccount(t)
	u := user.ScriptHash()
	uInv := env.invoker(user)

	env.pay(t, env.owner, env.neo, 60, claims.PaymentAddClaims, []any{
		claimItem(u, category.Reward, 10),
		claimItem(u, category.Airdrop, 20),
		claimItem(u, category.Royalty, 30),
	})

	uInv.InvokeFail(t, claims.ErrPaused, "claim", u, nil)
	inv.Invoke(t, stackitem.Null{}, "unpause")

	t.Run("no witness", func(t *testing.T) {
		env.invoker(env.e.NewAccount(t)).InvokeFail(t, common.ErrWitnessFailed, "claim", u, nil)
	})
	t.Run("empty category", func(t *testing.T) {
		uInv.InvokeFail(t, claims.ErrNonZeroValue, "claim", u, int64(category.Allocation))
	})
	t.Run("invalid category", func(t *testing.T) {
		uInv.InvokeFail(t, claims.ErrInvalidCategory, "claim", u, int64(category.Count))
	})

	h := uInv.Invoke(t, stackitem.Null{}, "claim", u, int64(category.Airdrop))
	require.Equal(t, []stackitem.Item{eventItem(u, int64(category.Airdrop), 20)},
		contractEvents(env.e.GetTxExecResult(t, h), env.hash, "ClaimCollected"))
	env.checkClaim(t, u, category.Airdrop, 0)
	env.checkClaim(t, u, category.Reward, 10)
	env.checkClaim(t, u, category.Royalty, 30)
	env.checkNEOBalance(t, u, 20)

	h = uInv.Invoke(t, stackitem.Null{}, "claim", u, nil)
	aer := env.e.GetTxExecResult(t, h)
	require.Equal(t, []stackitem.Item{
		eventItem(u, int64(category.Reward), 10),
		eventItem(u, int64(category.Royalty), 30),
	}, contractEvents(aer, env.hash, "ClaimCollected"))
	require.Equal(t, []stackitem.Item{eventItem(u, 40)},
		contractEvents(aer, env.hash, "AllClaimsCollected"))

	inv.Invoke(t, 0, "viewClaims", u)
	env.checkNEOBalance(t, u, 60)
	env.checkNEOBalance(t, env.hash, 0)

	uInv.InvokeFail(t, claims.ErrNonZeroValue, "claim", u, nil)
}

func TestClaims_Scenario(t *testing.T) {
	env := newActiveClaimsEnv(t)
	inv := env.ownerInvoker()
	user := env.e.NewAccount(t)
	u := user.ScriptHash()

	env.pay(t, env.owner, env.neo, 1_000_000, claims.PaymentAddClaim, u, int64(category.Airdrop))
	inv.Invoke(t, 1_000_000, "viewClaims", u)

	inv.Invoke(t, stackitem.Null{}, "removeClaim", u, int64(category.Airdrop), 500_000)
	inv.Invoke(t, 500_000, "viewClaims", u)

	env.invoker(user).Invoke(t, stackitem.Null{}, "claim", u, int64(category.Airdrop))
	inv.Invoke(t, 0, "viewClaims", u)
	env.checkNEOBalance(t, u, 500_000)
}

func TestClaims_ViewClaimsWithDate(t *testing.T) {
	env := newActiveClaimsEnv(t)
	inv := env.ownerInvoker()
	u := env.e.NewAccount(t).ScriptHash()

	env.pay(t, env.owner, env.neo, 7, claims.PaymentAddClaim, u, int64(category.Allocation))
	ts := int64(env.e.TopBlock(t).Timestamp)

	expected := make([]stackitem.Item, category.Count)
	for i := range expected {
		expected[i] = stackitem.NewStruct([]stackitem.Item{
			stackitem.Make(0), stackitem.Make(0),
		})
	}
	expected[category.Allocation] = stackitem.NewStruct([]stackitem.Item{
		stackitem.Make(7), stackitem.Make(ts),
	})

	inv.Invoke(t, stackitem.NewArray(expected), "viewClaimsWithDate", u)
}

func TestClaims_RejectPayments(t *testing.T) {
	env := newActiveClaimsEnv(t)
	inv := env.ownerInvoker()

	inv.InvokeFail(t, claims.ErrFungibleOnly, "onNEP11Payment",
		env.owner.ScriptHash(), 1, randomBytes(8), nil)
}

func TestClaims_Update(t *testing.T) {
	env := newClaimsEnv(t)
	c := neotest.CompileFile(t, env.e.CommitteeHash, claimsPath, path.Join(claimsPath, "config.yml"))

	nef, err := c.NEF.Bytes()
	require.NoError(t, err)
	manifest, err := json.Marshal(c.Manifest)
	require.NoError(t, err)

	env.invoker(env.e.NewAccount(t)).InvokeFail(t, common.ErrOwnerWitnessFailed, "update",
		nef, manifest, nil)
	env.ownerInvoker().InvokeFail(t, common.ErrAlreadyUpdated, "update",
		nef, manifest, nil)
}
