// Package stats computes dashboard aggregates over expense records. All
// functions are pure and take the reference time explicitly. Money sums use
// decimal arithmetic so repeated additions do not drift.
package stats

import (
	"time"

	"github.com/shopspring/decimal"

	"finspeak/internal/models"
)

var (
	seven   = decimal.NewFromInt(7)
	hundred = decimal.NewFromInt(100)
)

// currentMonthWindow returns the start of the calendar month and the end of
// "today" for the given reference time.
func currentMonthWindow(now time.Time) (start, end time.Time) {
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), now.Location())
	return start, end
}

// MonthTotal sums the amounts of all expenses dated within the current
// calendar month, inclusive of now.
func MonthTotal(expenses []models.Expense, now time.Time) decimal.Decimal {
	start, end := currentMonthWindow(now)

	total := decimal.Zero
	for _, e := range expenses {
		if !e.Date.Before(start) && !e.Date.After(end) {
			total = total.Add(decimal.NewFromFloat(e.Amount))
		}
	}
	return total
}

// CategoryBreakdown returns current-month totals per category. Categories
// with no spending are omitted.
func CategoryBreakdown(expenses []models.Expense, now time.Time) map[models.Category]decimal.Decimal {
	start, end := currentMonthWindow(now)

	breakdown := make(map[models.Category]decimal.Decimal)
	for _, e := range expenses {
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		breakdown[e.Category] = breakdown[e.Category].Add(decimal.NewFromFloat(e.Amount))
	}
	return breakdown
}

// WeeklyAverage returns the total spent in the 7 days before now divided by
// 7, independent of how many distinct days actually had transactions.
func WeeklyAverage(expenses []models.Expense, now time.Time) decimal.Decimal {
	return windowAverage(expenses, now.AddDate(0, 0, -7), now)
}

// PreviousWeeklyAverage returns the same figure for the week before that
// (8 to 14 days back).
func PreviousWeeklyAverage(expenses []models.Expense, now time.Time) decimal.Decimal {
	return windowAverage(expenses, now.AddDate(0, 0, -14), now.AddDate(0, 0, -7))
}

func windowAverage(expenses []models.Expense, after, until time.Time) decimal.Decimal {
	total := decimal.Zero
	count := 0
	for _, e := range expenses {
		if e.Date.After(after) && !e.Date.After(until) {
			total = total.Add(decimal.NewFromFloat(e.Amount))
			count++
		}
	}
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(seven)
}

// WeeklyChange returns the percent change between the current and previous
// weekly averages. When the previous week is zero the change is 100 if the
// current week has any spending, otherwise 0.
func WeeklyChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.IsPositive() {
			return hundred
		}
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred)
}

// SavingsRate returns (income − monthTotal) / income × 100. The second
// return value is false when income is zero or unset, in which case the rate
// is undefined and must not be displayed.
func SavingsRate(income float64, monthTotal decimal.Decimal) (decimal.Decimal, bool) {
	if income <= 0 {
		return decimal.Zero, false
	}
	inc := decimal.NewFromFloat(income)
	return inc.Sub(monthTotal).Div(inc).Mul(hundred), true
}
