package tests

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

// contractEvents returns notifications with the given name produced by the
// contract.
func contractEvents(aer *state.AppExecResult, contract util.Uint160, name string) []stackitem.Item {
	var res []stackitem.Item
	for _, ev := range aer.Events {
		if ev.ScriptHash.Equals(contract) && ev.Name == name {
			res = append(res, ev.Item)
		}
	}
	return res
}

func eventItem(items ...any) stackitem.Item {
	arr := make([]stackitem.Item, len(items))
	for i := range items {
		arr[i] = stackitem.Make(items[i])
	}
	return stackitem.NewArray(arr)
}

// hashItem is a stack representation of a hash read from the storage and
// returned by a contract method.
func hashItem(h util.Uint160) stackitem.Item {
	return stackitem.NewBuffer(h.BytesBE())
}
