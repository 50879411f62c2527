package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/diarium/diarium/internal/ledger"
)

// SaveEntry commits a validated draft. New drafts take the next sequence
// number in the book; drafts carrying an entry ID replace that entry's
// lines in place, keeping its sequence. Book totals move with the entry
// either way, all inside one transaction.
func (s *Store) SaveEntry(ctx context.Context, draft *ledger.Draft) (*ledger.Entry, error) {
	lines, err := draft.ValidatedLines()
	if err != nil {
		return nil, err
	}

	var saved *ledger.Entry
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		book, err := getBookTx(ctx, tx, draft.BookID)
		if err != nil {
			return err
		}
		date := ledger.EntryDate(book.Year, book.Month, draft.Day)

		newDebit, newCredit := decimal.Zero, decimal.Zero
		for _, ln := range lines {
			newDebit = newDebit.Add(ln.Debit)
			newCredit = newCredit.Add(ln.Credit)
		}

		entry := &ledger.Entry{BookID: draft.BookID, Date: date, Memo: draft.Memo}

		if draft.EntryID == 0 {
			// last_sequence outlives deleted entries, so a freed
			// sequence number is never handed out again.
			err = tx.QueryRowContext(ctx,
				`SELECT last_sequence + 1 FROM journal_book WHERE id = ?`,
				draft.BookID).Scan(&entry.Sequence)
			if err != nil {
				return err
			}
			res, err := tx.ExecContext(ctx,
				`INSERT INTO journal_entry (book_id, date, sequence_number, memo) VALUES (?, ?, ?, ?)`,
				draft.BookID, date, entry.Sequence, draft.Memo)
			if err != nil {
				return fmt.Errorf("insert entry: %w", err)
			}
			entry.ID, _ = res.LastInsertId()

			if _, err := tx.ExecContext(ctx,
				`UPDATE journal_book SET last_sequence = ? WHERE id = ?`,
				entry.Sequence, draft.BookID); err != nil {
				return fmt.Errorf("advance sequence: %w", err)
			}
			if err := adjustBookTotals(ctx, tx, draft.BookID, newDebit, newCredit); err != nil {
				return err
			}
		} else {
			old, err := getEntryTx(ctx, tx, draft.EntryID)
			if err != nil {
				return err
			}
			if old.BookID != draft.BookID {
				return fmt.Errorf("%w: entry %d is not in book %d", ledger.ErrEntryNotFound, draft.EntryID, draft.BookID)
			}
			entry.ID = old.ID
			entry.Sequence = old.Sequence

			oldDebit, oldCredit := old.Sums()
			if _, err := tx.ExecContext(ctx,
				`UPDATE journal_entry SET date = ?, memo = ? WHERE id = ?`,
				date, draft.Memo, entry.ID); err != nil {
				return fmt.Errorf("update entry: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM journal_line WHERE entry_id = ?`, entry.ID); err != nil {
				return fmt.Errorf("clear lines: %w", err)
			}

			// Imported entries may carry unequal sides after unresolved
			// lines were skipped, so each total moves by its own delta.
			if err := adjustBookTotals(ctx, tx, draft.BookID,
				newDebit.Sub(oldDebit), newCredit.Sub(oldCredit)); err != nil {
				return err
			}
		}

		for _, ln := range lines {
			res, err := tx.ExecContext(ctx,
				`INSERT INTO journal_line (entry_id, account_id, debit, credit) VALUES (?, ?, ?, ?)`,
				entry.ID, ln.AccountID, ln.Debit.StringFixed(2), ln.Credit.StringFixed(2))
			if err != nil {
				return fmt.Errorf("insert line: %w", err)
			}
			lineID, _ := res.LastInsertId()
			entry.Lines = append(entry.Lines, ledger.Line{
				ID: lineID, EntryID: entry.ID, AccountID: ln.AccountID,
				Debit: ln.Debit, Credit: ln.Credit,
			})
		}

		draft.MarkSaved()
		saved = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// DeleteEntry removes an entry and its lines and backs its amounts out of
// the book totals. The freed sequence number is never reused.
func (s *Store) DeleteEntry(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		entry, err := getEntryTx(ctx, tx, id)
		if err != nil {
			return err
		}
		debit, credit := entry.Sums()

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM journal_line WHERE entry_id = ?`, id); err != nil {
			return fmt.Errorf("delete lines: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM journal_entry WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete entry: %w", err)
		}
		return adjustBookTotals(ctx, tx, entry.BookID, debit.Neg(), credit.Neg())
	})
}

func (s *Store) GetEntry(ctx context.Context, id int64) (*ledger.Entry, error) {
	var entry *ledger.Entry
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		entry, err = getEntryTx(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListEntries returns a book's entries in sequence order, lines included.
func (s *Store) ListEntries(ctx context.Context, bookID int64) ([]ledger.Entry, error) {
	rows, err := s.reader.QueryContext(ctx,
		`SELECT id, book_id, date, sequence_number, memo
		 FROM journal_entry WHERE book_id = ? ORDER BY sequence_number`, bookID)
	if err != nil {
		return nil, err
	}

	var entries []ledger.Entry
	for rows.Next() {
		var e ledger.Entry
		if err := rows.Scan(&e.ID, &e.BookID, &e.Date, &e.Sequence, &e.Memo); err != nil {
			rows.Close()
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range entries {
		lines, err := s.linesFor(ctx, entries[i].ID)
		if err != nil {
			return nil, err
		}
		entries[i].Lines = lines
	}
	return entries, nil
}

func (s *Store) linesFor(ctx context.Context, entryID int64) ([]ledger.Line, error) {
	rows, err := s.reader.QueryContext(ctx,
		`SELECT id, entry_id, account_id, debit, credit
		 FROM journal_line WHERE entry_id = ? ORDER BY id`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLines(rows)
}

func collectLines(rows *sql.Rows) ([]ledger.Line, error) {
	var out []ledger.Line
	for rows.Next() {
		var ln ledger.Line
		var debit, credit string
		if err := rows.Scan(&ln.ID, &ln.EntryID, &ln.AccountID, &debit, &credit); err != nil {
			return nil, err
		}
		var err error
		if ln.Debit, err = decimal.NewFromString(debit); err != nil {
			return nil, fmt.Errorf("line %d debit: %w", ln.ID, err)
		}
		if ln.Credit, err = decimal.NewFromString(credit); err != nil {
			return nil, fmt.Errorf("line %d credit: %w", ln.ID, err)
		}
		out = append(out, ln)
	}
	return out, rows.Err()
}

func getEntryTx(ctx context.Context, tx *sql.Tx, id int64) (*ledger.Entry, error) {
	var e ledger.Entry
	err := tx.QueryRowContext(ctx,
		`SELECT id, book_id, date, sequence_number, memo FROM journal_entry WHERE id = ?`,
		id).Scan(&e.ID, &e.BookID, &e.Date, &e.Sequence, &e.Memo)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan entry: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT id, entry_id, account_id, debit, credit
		 FROM journal_line WHERE entry_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	e.Lines, err = collectLines(rows)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func getBookTx(ctx context.Context, tx *sql.Tx, id int64) (*ledger.Book, error) {
	row := tx.QueryRowContext(ctx, bookQuery+` WHERE id = ?`, id)
	return scanBook(row)
}

func adjustBookTotals(ctx context.Context, tx *sql.Tx, bookID int64, debitDelta, creditDelta decimal.Decimal) error {
	book, err := getBookTx(ctx, tx, bookID)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE journal_book SET total_debit = ?, total_credit = ? WHERE id = ?`,
		book.TotalDebit.Add(debitDelta).StringFixed(2),
		book.TotalCredit.Add(creditDelta).StringFixed(2),
		bookID)
	if err != nil {
		return fmt.Errorf("update book totals: %w", err)
	}
	return nil
}

// ImportBook persists a parsed workbook: the book plus every entry and
// line, sequence numbers preserved, totals recomputed, one transaction.
func (s *Store) ImportBook(ctx context.Context, book *ledger.Book, entries []ledger.Entry) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		totalDebit := decimal.Zero
		totalCredit := decimal.Zero
		for i := range entries {
			d, c := entries[i].Sums()
			totalDebit = totalDebit.Add(d)
			totalCredit = totalCredit.Add(c)
		}
		book.Origin = ledger.OriginImported
		book.TotalDebit = totalDebit
		book.TotalCredit = totalCredit

		if err := insertBookTx(ctx, tx, book); err != nil {
			return err
		}

		maxSeq := 0
		for i := range entries {
			if entries[i].Sequence > maxSeq {
				maxSeq = entries[i].Sequence
			}
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE journal_book SET last_sequence = ? WHERE id = ?`,
			maxSeq, book.ID); err != nil {
			return fmt.Errorf("advance sequence: %w", err)
		}

		for i := range entries {
			e := &entries[i]
			res, err := tx.ExecContext(ctx,
				`INSERT INTO journal_entry (book_id, date, sequence_number, memo) VALUES (?, ?, ?, ?)`,
				book.ID, e.Date, e.Sequence, e.Memo)
			if err != nil {
				return fmt.Errorf("import entry %d: %w", e.Sequence, err)
			}
			e.ID, _ = res.LastInsertId()
			e.BookID = book.ID

			for j := range e.Lines {
				ln := &e.Lines[j]
				res, err := tx.ExecContext(ctx,
					`INSERT INTO journal_line (entry_id, account_id, debit, credit) VALUES (?, ?, ?, ?)`,
					e.ID, ln.AccountID, ln.Debit.StringFixed(2), ln.Credit.StringFixed(2))
				if err != nil {
					return fmt.Errorf("import line: %w", err)
				}
				ln.ID, _ = res.LastInsertId()
				ln.EntryID = e.ID
			}
		}
		return nil
	})
}
