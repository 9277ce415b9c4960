/*
report.go - Time-windowed aggregation over the ledgers

PURPOSE:
  Pure, stateless functions that fold the invoice and purchase ledgers into
  dashboard figures: total sales, total purchase cost, cost of goods sold,
  and gross profit.

WINDOW SEMANTICS:
  Ranges are evaluated against "now" at call time, in local time:
    Today     record at/after the start of the current calendar day
    ThisWeek  record at/after the most recent Sunday (week starts Sunday)
    ThisMonth record at/after the 1st of the current month
    ThisYear  record at/after January 1
    AllTime   no filtering
  The boundary instant itself is included (>=).

PROFIT:
  GrossProfit = TotalSales - CostOfGoodsSold, where COGS uses the costs
  snapshotted on invoice items at sale time. TotalPurchaseCost is a separate
  figure (restocking spend in the window), never subtracted for profit.
*/
package vyapar

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TIME RANGES
// =============================================================================

// TimeRange selects a dashboard window.
type TimeRange string

const (
	RangeToday     TimeRange = "today"
	RangeThisWeek  TimeRange = "week"
	RangeThisMonth TimeRange = "month"
	RangeThisYear  TimeRange = "year"
	RangeAllTime   TimeRange = "all"
)

// ParseTimeRange maps a query-string value to a TimeRange, defaulting to
// AllTime for anything unrecognized.
func ParseTimeRange(s string) TimeRange {
	switch TimeRange(s) {
	case RangeToday, RangeThisWeek, RangeThisMonth, RangeThisYear:
		return TimeRange(s)
	default:
		return RangeAllTime
	}
}

// RangeStart returns the inclusive window start for r evaluated at now, and
// whether a bound applies at all (false for AllTime).
func RangeStart(r TimeRange, now time.Time) (time.Time, bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch r {
	case RangeToday:
		return today, true
	case RangeThisWeek:
		// Week begins on the most recent Sunday at/before today.
		return today.AddDate(0, 0, -int(today.Weekday())), true
	case RangeThisMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), true
	case RangeThisYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), true
	default:
		return time.Time{}, false
	}
}

// InRange reports whether a record created at t falls inside the window.
func InRange(t time.Time, r TimeRange, now time.Time) bool {
	start, bounded := RangeStart(r, now)
	if !bounded {
		return true
	}
	return !t.Before(start)
}

// FilterInvoices returns the invoices inside the window.
func FilterInvoices(invoices []Invoice, r TimeRange, now time.Time) []Invoice {
	var out []Invoice
	for _, inv := range invoices {
		if InRange(inv.CreatedAt, r, now) {
			out = append(out, inv)
		}
	}
	return out
}

// FilterPurchases returns the purchases inside the window.
func FilterPurchases(purchases []Purchase, r TimeRange, now time.Time) []Purchase {
	var out []Purchase
	for _, pur := range purchases {
		if InRange(pur.CreatedAt, r, now) {
			out = append(out, pur)
		}
	}
	return out
}

// =============================================================================
// AGGREGATION
// =============================================================================

// Summary holds the dashboard figures for one window.
type Summary struct {
	TotalSales        decimal.Decimal
	TotalPurchaseCost decimal.Decimal
	CostOfGoodsSold   decimal.Decimal
	GrossProfit       decimal.Decimal
}

// Aggregate folds already-filtered ledgers into a Summary. Pure: identical
// inputs always produce identical results.
func Aggregate(invoices []Invoice, purchases []Purchase) Summary {
	s := Summary{
		TotalSales:        decimal.Zero,
		TotalPurchaseCost: decimal.Zero,
		CostOfGoodsSold:   decimal.Zero,
	}
	for _, inv := range invoices {
		s.TotalSales = s.TotalSales.Add(inv.Total)
		s.CostOfGoodsSold = s.CostOfGoodsSold.Add(inv.CostOfGoods())
	}
	for _, pur := range purchases {
		s.TotalPurchaseCost = s.TotalPurchaseCost.Add(pur.TotalCost)
	}
	s.GrossProfit = s.TotalSales.Sub(s.CostOfGoodsSold)
	return s
}

// RecentInvoices returns the n most recent invoices by sequence number,
// newest first, ignoring any date window. Used for the quick-glance table.
func RecentInvoices(invoices []Invoice, n int) []Invoice {
	out := make([]Invoice, len(invoices))
	copy(out, invoices)
	sort.Slice(out, func(i, j int) bool { return out[i].Seq > out[j].Seq })
	if len(out) > n {
		out = out[:n]
	}
	return out
}
