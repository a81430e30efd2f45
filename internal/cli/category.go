package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nspcc-dev/claims-contract/claims/category"
)

var categoryNames = [category.Count]string{
	category.Reward:     "reward",
	category.Airdrop:    "airdrop",
	category.Allocation: "allocation",
	category.Royalty:    "royalty",
}

func categoryString(c category.Category) string {
	if !category.IsValid(int(c)) {
		return "category(" + strconv.Itoa(int(c)) + ")"
	}
	return categoryNames[c]
}

// parseCategory accepts case-insensitive category name or its number.
func parseCategory(s string) (category.Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i := range categoryNames {
		if categoryNames[i] == s {
			return category.Category(i), nil
		}
	}

	n, err := strconv.Atoi(s)
	if err != nil || !category.IsValid(n) {
		return 0, fmt.Errorf("unknown category '%s', expected one of %s", s, strings.Join(categoryNames[:], ", "))
	}
	return category.Category(n), nil
}
