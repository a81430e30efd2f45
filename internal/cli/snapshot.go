package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/nspcc-dev/claims-contract/claims/category"
	"github.com/nspcc-dev/claims-contract/internal/snapshot"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/gas"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	snapshotDir   string
	snapshotLabel string
	snapshotBlock uint32
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save and audit claims contract storage",
}

var snapshotPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Save contract state and storage at the latest block",
	Long: `Save contract state and storage at the latest block with state root
into '<dir>/<label>-<block>-contract.json' and '<dir>/<label>-<block>-storage.csv'.

Example:
  claims snapshot pull --label testnet --dir ./snapshots`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if snapshotLabel == "" {
			return fmt.Errorf("missing snapshot label")
		}

		r, err := dial(context.Background())
		if err != nil {
			return err
		}
		defer r.close()

		if err := os.MkdirAll(snapshotDir, 0700); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}

		id, n, err := pullSnapshot(r, snapshotDir, snapshotLabel)
		if err != nil {
			return err
		}

		r.log.Info("snapshot saved",
			zap.String("dir", snapshotDir),
			zap.Stringer("id", id),
			zap.Int("items", n))
		return nil
	},
}

var snapshotAuditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Summarize ledger balances from snapshot or live storage",
	Long: `Decode contract storage and summarize outstanding balances. Snapshot
is read when --label is set (latest block unless --block is given), live
storage of the configured contract is traversed otherwise.

Example:
  claims snapshot audit --label testnet --dir ./snapshots
  claims snapshot audit --rpc http://localhost:30333 --contract 0x...`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var (
			l   *snapshot.Ledger
			err error
		)
		if snapshotLabel != "" {
			l, err = readSnapshotLedger(snapshotDir, snapshotLabel, snapshotBlock)
		} else {
			l, err = readLiveLedger()
		}
		if err != nil {
			return err
		}

		return writeAudit(cmd.OutOrStdout(), l, gas.Hash)
	},
}

func init() {
	for _, c := range []*cobra.Command{snapshotPullCmd, snapshotAuditCmd} {
		c.Flags().StringVar(&snapshotDir, "dir", "snapshots", "snapshot directory")
		c.Flags().StringVar(&snapshotLabel, "label", "", "label of the blockchain environment (e.g. 'testnet')")
	}
	snapshotAuditCmd.Flags().Uint32Var(&snapshotBlock, "block", 0, "snapshot block, latest if zero")

	snapshotCmd.AddCommand(snapshotPullCmd, snapshotAuditCmd)
	rootCmd.AddCommand(snapshotCmd)
}

// latestStateHeight returns the newest block having state root known to
// the node.
func latestStateHeight(r *remote) (uint32, error) {
	sh, err := r.rpc.GetStateHeight()
	if err != nil {
		return 0, fmt.Errorf("get state height: %w", err)
	}
	return stateHeight(sh)
}

// stateHeight prefers validated state root over the local one.
func stateHeight(sh *result.StateHeight) (uint32, error) {
	switch {
	case sh.Validated > 0:
		return sh.Validated, nil
	case sh.Local > 0:
		return sh.Local, nil
	default:
		return 0, errors.New("node has no state roots beyond genesis")
	}
}

func pullSnapshot(r *remote, dir, label string) (snapshot.ID, int, error) {
	height, err := latestStateHeight(r)
	if err != nil {
		return snapshot.ID{}, 0, err
	}
	id := snapshot.ID{Label: label, Block: height}

	st, err := r.rpc.GetContractStateByHash(r.hash)
	if err != nil {
		return id, 0, fmt.Errorf("get contract state '%s': %w", r.hash.StringLE(), err)
	}

	c, err := snapshot.NewCreator(dir, id)
	if err != nil {
		return id, 0, fmt.Errorf("init snapshot creator: %w", err)
	}
	defer c.Close()

	c.SetContract(st.Manifest.Name, *st)

	var n int
	err = r.iterateContractStorage(height, func(key, value []byte) error {
		n++
		return c.Write(key, value)
	})
	if err != nil {
		return id, 0, fmt.Errorf("iterate contract storage: %w", err)
	}

	if err = c.Flush(); err != nil {
		return id, 0, fmt.Errorf("flush snapshot: %w", err)
	}

	return id, n, nil
}

func readSnapshotLedger(dir, label string, block uint32) (*snapshot.Ledger, error) {
	ids, err := snapshot.List(dir)
	if err != nil {
		return nil, err
	}

	var (
		id    snapshot.ID
		found bool
	)
	for i := range ids {
		if ids[i].Label != label {
			continue
		}
		if block == 0 || ids[i].Block == block {
			// List is sorted by block, the last match is the latest
			id, found = ids[i], true
		}
	}
	if !found {
		return nil, fmt.Errorf("snapshot '%s' (block %d) not found in '%s'", label, block, dir)
	}

	s, err := snapshot.Open(dir, id)
	if err != nil {
		return nil, err
	}
	return s.Ledger()
}

func readLiveLedger() (*snapshot.Ledger, error) {
	r, err := dial(context.Background())
	if err != nil {
		return nil, err
	}
	defer r.close()

	height, err := latestStateHeight(r)
	if err != nil {
		return nil, err
	}

	l := snapshot.NewLedger()
	if err = r.iterateContractStorage(height, l.Apply); err != nil {
		return nil, fmt.Errorf("decode contract storage: %w", err)
	}
	return l, nil
}

func writeAudit(w io.Writer, l *snapshot.Ledger, gasHash util.Uint160) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Owner:\t%s\n", address.Uint160ToString(l.Owner))
	if l.ClaimToken.Equals(util.Uint160{}) {
		fmt.Fprintf(tw, "Claim token:\tnot set\n")
	} else {
		fmt.Fprintf(tw, "Claim token:\t%s\n", formatHash(l.ClaimToken))
	}
	fmt.Fprintf(tw, "Harvest:\t%s\n", map[bool]string{true: "paused", false: "active"}[l.Paused])
	fmt.Fprintf(tw, "Roles:\t%d privileged, %d depositors, %d third parties\n",
		len(l.Privileged), len(l.Depositors), len(l.ThirdParties))
	fmt.Fprintf(tw, "Accounts:\t%d\n\n", len(l.Accounts))

	fmt.Fprintf(tw, "CATEGORY\tOUTSTANDING\n")
	total := new(big.Int)
	for i, v := range l.Outstanding() {
		fmt.Fprintf(tw, "%s\t%s\n", categoryString(category.Category(i)), v)
		total.Add(total, v)
	}
	fmt.Fprintf(tw, "total\t%s\n", total)

	totals := l.ThirdPartyTotals(gasHash)
	if len(totals) > 0 {
		tokens := make([]util.Uint160, 0, len(totals))
		for h := range totals {
			tokens = append(tokens, h)
		}
		sort.Slice(tokens, func(i, j int) bool { return tokens[i].Less(tokens[j]) })

		fmt.Fprintf(tw, "\nTHIRD PARTY TOKEN\tOUTSTANDING\n")
		for _, h := range tokens {
			name := formatHash(h)
			if h.Equals(gasHash) {
				name = "GAS"
			}
			fmt.Fprintf(tw, "%s\t%s\n", name, totals[h])
		}
	}

	return tw.Flush()
}
