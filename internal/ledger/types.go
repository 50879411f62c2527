// Package ledger holds the domain model: the four-level chart of accounts,
// chart plans, journal books, and double-entry journal entries.
package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// GeneralPlanID is the reserved default plan, seeded at install time.
const GeneralPlanID = 0

// Plan is a named, independent instance of the account taxonomy.
type Plan struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AccountType is the coarsest taxonomy level. Code format T.0.0.000.
type AccountType struct {
	ID     int64  `json:"id"`
	PlanID int64  `json:"plan_id"`
	Name   string `json:"name"`
	Code   string `json:"code"`
}

// AccountCategory sits under a type. Code format T.C.0.000.
type AccountCategory struct {
	ID     int64  `json:"id"`
	TypeID int64  `json:"type_id"`
	Name   string `json:"name"`
	Code   string `json:"code"`
}

// AccountGroup sits under a category. Code format T.C.G.000.
type AccountGroup struct {
	ID         int64  `json:"id"`
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
	Code       string `json:"code"`
}

// Account is a postable leaf. Code format T.C.G.NNN.
type Account struct {
	ID          int64  `json:"id"`
	GroupID     int64  `json:"group_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Code        string `json:"code"`
}

// BookOrigin records how a journal book came to exist.
type BookOrigin string

const (
	OriginCreated  BookOrigin = "created"
	OriginImported BookOrigin = "imported"
)

// Book is a journal ledger scoped to one company, month, year and plan.
// TotalDebit and TotalCredit are denormalized running sums maintained
// incrementally on every entry save.
type Book struct {
	ID          int64           `json:"id"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	Company     string          `json:"company"`
	Accountant  string          `json:"accountant"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	PlanID      int64           `json:"plan_id"`
	Origin      BookOrigin      `json:"origin"`
	ImportedAt  *time.Time      `json:"imported_at,omitempty"`
	ImportRef   string          `json:"import_ref,omitempty"`
}

// MonthName returns the English month name, or "Unknown" outside 1-12.
func MonthName(m int) string {
	if m < 1 || m > 12 {
		return "Unknown"
	}
	return time.Month(m).String()
}

// MonthName names the book's month.
func (b *Book) MonthName() string { return MonthName(b.Month) }

// Entry is one dated, balanced double-entry transaction. Sequence is
// 1-based, strictly increasing within a book, and never reused.
type Entry struct {
	ID       int64  `json:"id"`
	BookID   int64  `json:"book_id"`
	Date     string `json:"date"` // YYYY-MM-DD
	Sequence int    `json:"sequence"`
	Memo     string `json:"memo"`
	Lines    []Line `json:"lines"`
}

// Line is one debit-or-credit posting against an account.
type Line struct {
	ID        int64           `json:"id,omitempty"`
	EntryID   int64           `json:"entry_id,omitempty"`
	AccountID int64           `json:"account_id"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// Sums returns the entry's total debit and credit.
func (e *Entry) Sums() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// EntryDate synthesizes an entry date from the book's period and a
// user-supplied day-of-month. The day is clamped to [1, 31] without
// checking the actual month length; callers depend on that behavior.
func EntryDate(year, month, day int) string {
	if month < 1 {
		month = 1
	} else if month > 12 {
		month = 12
	}
	if day < 1 {
		day = 1
	} else if day > 31 {
		day = 31
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}
