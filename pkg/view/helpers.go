package view

import (
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
)

var strict = bluemonday.StrictPolicy()

// Money formats d as dollars with two decimals, e.g. "$12.50".
func Money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// PlainText strips any markup from upstream text. Templates escape the
// result again on output.
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// CategoryLabel shows a slug with dashes as spaces.
func CategoryLabel(slug string) string {
	return strings.ReplaceAll(slug, "-", " ")
}

// Rating renders one decimal, or "—" when absent.
func Rating(r *float64) string {
	if r == nil || *r == 0 {
		return "—"
	}
	return strconv.FormatFloat(*r, 'f', 1, 64)
}

// DiscountBadge renders "-N%" rounded, or "" when there is no discount.
func DiscountBadge(pct *float64) string {
	if pct == nil || *pct <= 0 {
		return ""
	}
	return "-" + strconv.Itoa(int(math.Round(*pct))) + "%"
}
