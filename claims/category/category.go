// Package category contains claim categories of the Claims contract.
package category

// Category is an enumeration of claim kinds. Categories are stored and
// passed to the contract as integers.
type Category int

// Claim categories in their stable order. Harvesting all categories walks
// them in this order.
const (
	Reward Category = iota
	Airdrop
	Allocation
	Royalty

	// Count is the number of known categories.
	Count = int(Royalty) + 1
)

// IsValid checks whether c is one of the known categories.
func IsValid(c int) bool {
	return c >= 0 && c < Count
}
