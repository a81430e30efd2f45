package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"text/tabwriter"

	"github.com/nspcc-dev/claims-contract/rpc/claims"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show contract settings and role registries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := dial(context.Background())
		if err != nil {
			return err
		}
		defer r.close()

		st, err := fetchStatus(r.reader, r.log)
		if err != nil {
			return err
		}
		st.Hash = r.hash

		return writeStatus(cmd.OutOrStdout(), st)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type statusReader interface {
	Version() (*big.Int, error)
	Owner() (util.Uint160, error)
	ClaimToken() (util.Uint160, error)
	FactoryAddress() (util.Uint160, error)
	ViewFactoryData() (*claims.FactoryData, error)
	IsPaused() (bool, error)
	PrivilegedAddresses() ([]util.Uint160, error)
	DepositorAddresses() ([]util.Uint160, error)
	AuthorizedThirdParties() ([]util.Uint160, error)
}

type statusInfo struct {
	Hash        util.Uint160
	Version     *big.Int
	Owner       util.Uint160
	ClaimToken  *util.Uint160
	Factory     *util.Uint160
	FactoryData *claims.FactoryData
	Paused      bool

	Privileged   []util.Uint160
	Depositors   []util.Uint160
	ThirdParties []util.Uint160
}

func fetchStatus(r statusReader, log *zap.Logger) (*statusInfo, error) {
	var (
		st  statusInfo
		err error
	)

	if st.Version, err = r.Version(); err != nil {
		return nil, fmt.Errorf("get version: %w", err)
	}
	if st.Owner, err = r.Owner(); err != nil {
		return nil, fmt.Errorf("get owner: %w", err)
	}
	if st.ClaimToken, err = optional(r.ClaimToken()); err != nil {
		return nil, fmt.Errorf("get claim token: %w", err)
	}
	if st.Factory, err = optional(r.FactoryAddress()); err != nil {
		return nil, fmt.Errorf("get factory address: %w", err)
	}
	if st.Factory != nil {
		st.FactoryData, err = r.ViewFactoryData()
		if err != nil {
			// misconfigured factory breaks third party deposits only
			log.Warn("can't read factory data",
				zap.Stringer("factory", st.Factory),
				zap.Error(err))
		}
	}
	if st.Paused, err = r.IsPaused(); err != nil {
		return nil, fmt.Errorf("get pause state: %w", err)
	}
	if st.Privileged, err = r.PrivilegedAddresses(); err != nil {
		return nil, fmt.Errorf("get privileged addresses: %w", err)
	}
	if st.Depositors, err = r.DepositorAddresses(); err != nil {
		return nil, fmt.Errorf("get depositor addresses: %w", err)
	}
	if st.ThirdParties, err = r.AuthorizedThirdParties(); err != nil {
		return nil, fmt.Errorf("get third parties: %w", err)
	}

	return &st, nil
}

func optional(h util.Uint160, err error) (*util.Uint160, error) {
	if errors.Is(err, claims.ErrNotSet) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func writeStatus(w io.Writer, st *statusInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Contract:\t%s\n", formatHash(st.Hash))
	fmt.Fprintf(tw, "Version:\t%s\n", formatVersion(st.Version))
	fmt.Fprintf(tw, "Owner:\t%s\n", address.Uint160ToString(st.Owner))
	fmt.Fprintf(tw, "Claim token:\t%s\n", formatOptionalHash(st.ClaimToken))
	fmt.Fprintf(tw, "Factory:\t%s\n", formatOptionalHash(st.Factory))
	if st.FactoryData != nil {
		fmt.Fprintf(tw, "Treasury:\t%s\n", address.Uint160ToString(st.FactoryData.TreasuryAddress))
		fmt.Fprintf(tw, "Tax rate:\t%s\n", formatTaxRate(st.FactoryData.TaxRate))
	}
	fmt.Fprintf(tw, "Harvest:\t%s\n", map[bool]string{true: "paused", false: "active"}[st.Paused])

	for _, group := range []struct {
		name  string
		addrs []util.Uint160
	}{
		{"Privileged", st.Privileged},
		{"Depositors", st.Depositors},
		{"Third parties", st.ThirdParties},
	} {
		fmt.Fprintf(tw, "%s:\t%d\n", group.name, len(group.addrs))
		for _, a := range group.addrs {
			fmt.Fprintf(tw, "\t%s\n", address.Uint160ToString(a))
		}
	}

	return tw.Flush()
}

func formatHash(h util.Uint160) string {
	return "0x" + h.StringLE()
}

func formatOptionalHash(h *util.Uint160) string {
	if h == nil {
		return "not set"
	}
	return formatHash(*h)
}

// formatVersion splits major*1_000_000 + minor*1_000 + patch number.
func formatVersion(v *big.Int) string {
	if v == nil || !v.IsInt64() || v.Sign() < 0 {
		return fmt.Sprint(v)
	}
	n := v.Int64()
	return fmt.Sprintf("%d.%d.%d", n/1_000_000, n/1_000%1_000, n%1_000)
}

// formatTaxRate prints rate in basis points as percents.
func formatTaxRate(rate *big.Int) string {
	if rate == nil {
		return "0%"
	}
	r := new(big.Rat).SetFrac(rate, big.NewInt(100))
	return r.FloatString(2) + "%"
}
