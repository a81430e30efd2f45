package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nspcc-dev/claims-contract/rpc/claims"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var eventsCmd = &cobra.Command{
	Use:   "events <txhash>",
	Short: "Decode claims contract notifications of the transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		txHash, err := util.Uint256DecodeStringLE(strings.TrimPrefix(args[0], "0x"))
		if err != nil {
			return fmt.Errorf("invalid transaction hash: %w", err)
		}

		r, err := dial(context.Background())
		if err != nil {
			return err
		}
		defer r.close()

		log, err := r.rpc.GetApplicationLog(txHash, nil)
		if err != nil {
			return fmt.Errorf("get application log: %w", err)
		}

		for _, ex := range log.Executions {
			if ex.VMState.HasFlag(vmstate.Fault) {
				r.log.Warn("execution faulted", zap.String("exception", ex.FaultException))
			}
		}

		return writeEvents(cmd.OutOrStdout(), log, r.hash)
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}

// eventDecoder is implemented by all event types of the claims binding.
type eventDecoder interface {
	FromStackItem(*stackitem.Array) error
}

func newEvent(name string) (eventDecoder, bool) {
	switch name {
	case claims.ClaimAddedEventName:
		return new(claims.ClaimAddedEvent), true
	case claims.ClaimRemovedEventName, claims.ClaimCollectedEventName:
		return new(claims.ClaimEvent), true
	case claims.AllClaimsCollectedEventName:
		return new(claims.AllClaimsCollectedEvent), true
	case claims.ThirdPartyClaimAddedEventName, claims.ThirdPartyClaimCollectedEventName:
		return new(claims.ThirdPartyClaimEvent), true
	case claims.HarvestPausedEventName:
		return &claims.PauseEvent{Paused: true}, true
	case claims.HarvestUnpausedEventName:
		return new(claims.PauseEvent), true
	case claims.PrivilegedAddressAddedEventName, claims.PrivilegedAddressRemovedEventName,
		claims.DepositorAddressAddedEventName, claims.DepositorAddressRemovedEventName,
		claims.ThirdPartyAuthorizedEventName, claims.ThirdPartyUnauthorizedEventName:
		return &claims.RoleEvent{Name: name}, true
	}
	return nil, false
}

// writeEvents prints notifications of the contract in emission order.
// Notifications of other contracts are skipped.
func writeEvents(w io.Writer, log *result.ApplicationLog, contract util.Uint160) error {
	var n int
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if !e.ScriptHash.Equals(contract) {
				continue
			}
			ev, ok := newEvent(e.Name)
			if !ok {
				continue
			}
			if err := ev.FromStackItem(e.Item); err != nil {
				return fmt.Errorf("decode %s event (execution #%d, event #%d): %w", e.Name, i, j, err)
			}
			fmt.Fprintf(w, "%-26s %s\n", e.Name, formatEvent(ev))
			n++
		}
	}
	if n == 0 {
		_, err := fmt.Fprintln(w, "no claims contract notifications")
		return err
	}
	return nil
}

func formatEvent(ev eventDecoder) string {
	addr := address.Uint160ToString
	switch e := ev.(type) {
	case *claims.ClaimAddedEvent:
		return fmt.Sprintf("operator=%s address=%s category=%s amount=%s",
			addr(e.Operator), addr(e.Address), categoryString(e.Category), e.Amount)
	case *claims.ClaimEvent:
		return fmt.Sprintf("address=%s category=%s amount=%s",
			addr(e.Address), categoryString(e.Category), e.Amount)
	case *claims.AllClaimsCollectedEvent:
		return fmt.Sprintf("address=%s amount=%s", addr(e.Address), e.Amount)
	case *claims.ThirdPartyClaimEvent:
		return fmt.Sprintf("address=%s token=%s amount=%s",
			addr(e.Address), formatHash(e.Token), e.Amount)
	case *claims.RoleEvent:
		return "address=" + addr(e.Address)
	case *claims.PauseEvent:
		if e.Paused {
			return "caller=" + addr(e.Caller)
		}
		return ""
	}
	return ""
}
