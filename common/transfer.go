package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// ErrTransferFailed is thrown by Transfer when token contract declines
// the transfer.
const ErrTransferFailed = "failed to transfer funds, aborting"

// Transfer sends amount of NEP-17 token from the executing contract to
// the recipient. It panics with ErrTransferFailed message if the token
// contract returns false.
func Transfer(token, to interop.Hash160, amount int) {
	self := runtime.GetExecutingScriptHash()

	ok := contract.Call(token, "transfer", contract.All, self, to, amount, nil).(bool)
	if !ok {
		panic(ErrTransferFailed)
	}
}
