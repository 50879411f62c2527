package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DraftState tracks an in-memory entry through editing. Drafts are never
// persisted; only validated drafts reach the store.
type DraftState string

const (
	StateDraft     DraftState = "draft"
	StateValidated DraftState = "validated"
	StateRejected  DraftState = "rejected"
	StateSaved     DraftState = "saved"
)

// Draft is a journal entry under construction. Lines stay mutable until
// Validate succeeds; a failed validation rejects the draft but leaves it
// editable.
type Draft struct {
	BookID  int64
	EntryID int64 // non-zero when editing an existing entry
	Day     int
	Memo    string
	Lines   []Line

	state  DraftState
	reason error
}

// NewDraft starts an empty draft for a book, dated at the given
// day-of-month within the book's period.
func NewDraft(bookID int64, day int) *Draft {
	return &Draft{BookID: bookID, Day: day, state: StateDraft}
}

// EditDraft starts a draft replacing an existing entry's lines.
func EditDraft(bookID, entryID int64, day int) *Draft {
	return &Draft{BookID: bookID, EntryID: entryID, Day: day, state: StateDraft}
}

// AddLine appends a line and returns the draft to the mutable state.
func (d *Draft) AddLine(accountID int64, debit, credit decimal.Decimal) {
	d.Lines = append(d.Lines, Line{AccountID: accountID, Debit: debit, Credit: credit})
	d.state = StateDraft
	d.reason = nil
}

// State reports the draft's current state.
func (d *Draft) State() DraftState { return d.state }

// Reason returns the rejection cause, if any.
func (d *Draft) Reason() error { return d.reason }

// MarkSaved records a successful persist. The store calls this after its
// transaction commits.
func (d *Draft) MarkSaved() { d.state = StateSaved }

// Validate moves the draft to validated, or to rejected with a typed
// reason. Rules: at least two lines with an account reference, each line
// with exactly one of debit/credit positive, and total debit equal to
// total credit at two decimal places.
func (d *Draft) Validate() error {
	if err := d.check(); err != nil {
		d.state = StateRejected
		d.reason = err
		return err
	}
	d.state = StateValidated
	d.reason = nil
	return nil
}

func (d *Draft) check() error {
	var used []Line
	for _, l := range d.Lines {
		if l.AccountID != 0 {
			used = append(used, l)
		}
	}
	if len(used) < 2 {
		return fmt.Errorf("%w: got %d", ErrInsufficientLines, len(used))
	}

	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for _, l := range used {
		hasDebit := l.Debit.IsPositive()
		hasCredit := l.Credit.IsPositive()
		if hasDebit == hasCredit {
			return fmt.Errorf("%w: account %d debit=%s credit=%s",
				ErrInvalidLine, l.AccountID, l.Debit.StringFixed(2), l.Credit.StringFixed(2))
		}
		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)
	}

	if !AmountsEqual(totalDebit, totalCredit) {
		return fmt.Errorf("%w: debit %s vs credit %s",
			ErrUnbalancedEntry, totalDebit.StringFixed(2), totalCredit.StringFixed(2))
	}
	return nil
}

// ValidatedLines returns only the lines carrying an account reference, in
// input order. A draft that Validate has not moved to validated yields
// ErrDraftNotValidated, so unchecked drafts never reach the store.
func (d *Draft) ValidatedLines() ([]Line, error) {
	if d.state != StateValidated {
		return nil, fmt.Errorf("%w: state %s", ErrDraftNotValidated, d.state)
	}
	var used []Line
	for _, l := range d.Lines {
		if l.AccountID != 0 {
			used = append(used, l)
		}
	}
	return used, nil
}

// AmountsEqual compares two amounts at the fixed two-decimal precision the
// ledger uses everywhere. Never compare raw binary floats.
func AmountsEqual(a, b decimal.Decimal) bool {
	return a.Round(2).Equal(b.Round(2))
}
