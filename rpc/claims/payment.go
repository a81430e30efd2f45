package claims

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/claims-contract/claims/category"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// MaxClaimsPerOperation limits the number of items in bulk operations.
const MaxClaimsPerOperation = 200

// Payment operation names, first element of NEP-17 transfer data.
const (
	paymentAddClaim           = "addClaim"
	paymentAddClaims          = "addClaims"
	paymentAddThirdPartyClaim = "addThirdPartyClaim"
)

// ErrTooManyItems is returned for bulk operations exceeding
// MaxClaimsPerOperation items.
var ErrTooManyItems = errors.New("too many claim items")

// ClaimItem is a single line of bulk claim operations.
type ClaimItem struct {
	Address  util.Uint160
	Category category.Category
	Amount   *big.Int
}

// AddClaimData returns NEP-17 transfer data reserving the transferred amount
// for the address under the category. Transfer must be made in the claim
// token by an account with deposit rights.
func AddClaimData(addr util.Uint160, cat category.Category) []any {
	return []any{paymentAddClaim, addr, int64(cat)}
}

// AddClaimsData returns NEP-17 transfer data reserving claims in bulk. The
// transferred amount must be equal to the sum of item amounts.
func AddClaimsData(items []ClaimItem) ([]any, error) {
	if len(items) > MaxClaimsPerOperation {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyItems, len(items), MaxClaimsPerOperation)
	}
	return []any{paymentAddClaims, claimItemsToParams(items)}, nil
}

// AddThirdPartyClaimData returns NEP-17 transfer data depositing third party
// royalties for the address.
func AddThirdPartyClaimData(addr util.Uint160) []any {
	return []any{paymentAddThirdPartyClaim, addr}
}

// SumClaimItems returns the total amount of items.
func SumClaimItems(items []ClaimItem) *big.Int {
	sum := new(big.Int)
	for i := range items {
		sum.Add(sum, items[i].Amount)
	}
	return sum
}

func claimItemsToParams(items []ClaimItem) []any {
	res := make([]any, len(items))
	for i := range items {
		res[i] = []any{items[i].Address, int64(items[i].Category), items[i].Amount}
	}
	return res
}
