package cli

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"text/tabwriter"
	"time"

	"github.com/nspcc-dev/claims-contract/claims/category"
	"github.com/nspcc-dev/claims-contract/rpc/claims"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var viewCategory string

var viewCmd = &cobra.Command{
	Use:   "view <address>",
	Short: "Show balances reserved for the address",
	Long: `Show claims of every category with modification dates, third party
royalties and treasury parameters applied to third party deposits.

Example:
  claims view NbrUYaZgyhSkNoRo9ugRyEMdUZxrhkNaWB
  claims view NbrUYaZgyhSkNoRo9ugRyEMdUZxrhkNaWB --category royalty`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := parseHash(args[0])
		if err != nil {
			return err
		}

		r, err := dial(context.Background())
		if err != nil {
			return err
		}
		defer r.close()

		if viewCategory != "" {
			c, err := parseCategory(viewCategory)
			if err != nil {
				return err
			}
			return viewSingleClaim(cmd.OutOrStdout(), r.reader, addr, c)
		}

		data, err := r.reader.ViewClaimsData(addr)
		if err != nil {
			return fmt.Errorf("get claims data: %w", err)
		}
		r.log.Debug("claims data received",
			zap.String("address", address.Uint160ToString(addr)),
			zap.Int("tokens", len(data.ThirdPartyTokens)))

		return writeClaimsData(cmd.OutOrStdout(), addr, data)
	},
}

func init() {
	viewCmd.Flags().StringVar(&viewCategory, "category", "", "show single category only")
	rootCmd.AddCommand(viewCmd)
}

type claimReader interface {
	ViewClaim(util.Uint160, category.Category) (*big.Int, error)
	ViewClaimModifyDate(util.Uint160, category.Category) (*big.Int, error)
}

func viewSingleClaim(w io.Writer, r claimReader, addr util.Uint160, c category.Category) error {
	amount, err := r.ViewClaim(addr, c)
	if err != nil {
		return fmt.Errorf("get claim: %w", err)
	}
	date, err := r.ViewClaimModifyDate(addr, c)
	if err != nil {
		return fmt.Errorf("get claim date: %w", err)
	}

	_, err = fmt.Fprintf(w, "%s\t%s\t%s\n", categoryString(c), amount, formatDate(date))
	return err
}

func writeClaimsData(w io.Writer, addr util.Uint160, data *claims.ClaimsData) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Address:\t%s\n\n", address.Uint160ToString(addr))
	fmt.Fprintf(tw, "CATEGORY\tAMOUNT\tMODIFIED\n")

	total := new(big.Int)
	for i, c := range data.Claims {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", categoryString(category.Category(i)), c.Amount, formatDate(c.Date))
		total.Add(total, c.Amount)
	}
	fmt.Fprintf(tw, "total\t%s\t\n\n", total)

	fmt.Fprintf(tw, "THIRD PARTY\tAMOUNT\t\n")
	fmt.Fprintf(tw, "GAS\t%s\t\n", data.ThirdPartyNative)
	for _, t := range data.ThirdPartyTokens {
		fmt.Fprintf(tw, "%s\t%s\t\n", formatHash(t.Token), t.Amount)
	}

	if data.TreasuryAddress.Equals(util.Uint160{}) {
		fmt.Fprintf(tw, "\nFactory:\tnot set\n")
	} else {
		fmt.Fprintf(tw, "\nTreasury:\t%s\n", address.Uint160ToString(data.TreasuryAddress))
		fmt.Fprintf(tw, "Tax rate:\t%s\n", formatTaxRate(data.TaxRate))
	}

	return tw.Flush()
}

// formatDate prints milliseconds timestamp, zero means never modified.
func formatDate(ms *big.Int) string {
	if ms == nil || ms.Sign() == 0 {
		return "-"
	}
	if !ms.IsInt64() {
		return ms.String()
	}
	return time.UnixMilli(ms.Int64()).UTC().Format(time.RFC3339)
}
