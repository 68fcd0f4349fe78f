package settlement

import (
	"strings"

	"github.com/MrJamesThe3rd/fundly/internal/money"
)

// parseAmount reads an amount written with the given decimal mark.
// Examples: "1,234.56" with decimalPoint, "1.234,56" with decimalComma.
func parseAmount(s string, mark decimalMark) (money.Money, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimSuffix(clean, " EUR")

	if mark == decimalComma {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	return money.Parse(clean)
}
