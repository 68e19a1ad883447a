// Package ledger folds a customer's invoices and payments into a statement
// with a running balance.
package ledger

import (
	"sort"
	"time"

	"github.com/sangkips/dairy-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Entry is one debit (invoice) or credit (payment) on a customer account
type Entry struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Kind        enum.EntryKind  `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
	Description string          `json:"description,omitempty"`
}

// Signed returns the entry's effect on the balance
func (e Entry) Signed() decimal.Decimal {
	if e.Kind == enum.EntryKindPayment {
		return e.Amount.Neg()
	}
	return e.Amount
}

// Line is an entry annotated with the balance after applying it
type Line struct {
	Entry
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// Totals summarises a statement
type Totals struct {
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	TotalInvoiced  decimal.Decimal `json:"total_invoiced"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	EntryCount     int             `json:"entry_count"`
}

// Statement holds its lines most recent first
type Statement struct {
	Lines  []Line `json:"lines"`
	Totals Totals `json:"totals"`
}

// Chronological returns the lines oldest first
func (s Statement) Chronological() []Line {
	out := make([]Line, len(s.Lines))
	for i, l := range s.Lines {
		out[len(s.Lines)-1-i] = l
	}
	return out
}

// BuildStatement orders entries by calendar date, folds them oldest to newest
// from openingBalance and returns the lines most recent first.
//
// Entries on the same date are ordered invoices first, then by CreatedAt,
// then by ID, so the result does not depend on the order of the input.
// The input slice is not modified.
func BuildStatement(openingBalance decimal.Decimal, entries []Entry) Statement {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	SortEntries(sorted)

	totals := Totals{
		OpeningBalance: openingBalance,
		TotalInvoiced:  decimal.Zero,
		TotalPaid:      decimal.Zero,
		EntryCount:     len(sorted),
	}

	lines := make([]Line, len(sorted))
	balance := openingBalance
	for i, e := range sorted {
		balance = balance.Add(e.Signed())
		if e.Kind == enum.EntryKindPayment {
			totals.TotalPaid = totals.TotalPaid.Add(e.Amount)
		} else {
			totals.TotalInvoiced = totals.TotalInvoiced.Add(e.Amount)
		}
		// fill from the back so the result reads most recent first
		lines[len(sorted)-1-i] = Line{Entry: e, RunningBalance: balance}
	}
	totals.ClosingBalance = openingBalance.Add(totals.TotalInvoiced).Sub(totals.TotalPaid)

	return Statement{Lines: lines, Totals: totals}
}

// Balance returns the closing balance without building lines
func Balance(openingBalance decimal.Decimal, entries []Entry) decimal.Decimal {
	balance := openingBalance
	for _, e := range entries {
		balance = balance.Add(e.Signed())
	}
	return balance
}

// SplitAt partitions entries into those dated before day and the rest.
// Used to carry earlier activity into a windowed statement's opening balance.
func SplitAt(entries []Entry, day time.Time) (before, from []Entry) {
	cut := dayKey(day)
	for _, e := range entries {
		if dayKey(e.Date) < cut {
			before = append(before, e)
		} else {
			from = append(from, e)
		}
	}
	return before, from
}

// SortEntries sorts in place into statement order
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return less(entries[i], entries[j])
	})
}

func less(a, b Entry) bool {
	if da, db := dayKey(a.Date), dayKey(b.Date); da != db {
		return da < db
	}
	if a.Kind != b.Kind {
		return a.Kind == enum.EntryKindInvoice
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// dayKey reduces t to its calendar date in UTC, the zone date columns are
// stored in, as yyyymmdd
func dayKey(t time.Time) int {
	y, m, d := t.UTC().Date()
	return y*10000 + int(m)*100 + d
}
