package vyapar

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CURRENCY DISPLAY
// =============================================================================

// FormatINR renders an amount as a whole-rupee string with Indian digit
// grouping, e.g. 1234567 -> "₹12,34,567". Display rounds to whole currency
// units; the stored decimal keeps full precision, so reports reconcile.
func FormatINR(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	neg := rounded.IsNegative()
	digits := rounded.Abs().String()

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("₹")
	b.WriteString(groupIndian(digits))
	return b.String()
}

// groupIndian inserts commas in the Indian system: the last three digits form
// one group, every two digits before that form another.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(append(groups, tail), ",")
}
