package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/diarium/diarium/internal/ledger"
)

// CreateBook opens a journal book for a month. A book with the same
// month, year, company, accountant and plan already on file is a
// duplicate.
func (s *Store) CreateBook(ctx context.Context, month, year int, company, accountant string, planID int64) (*ledger.Book, error) {
	book := &ledger.Book{
		Month:      month,
		Year:       year,
		Company:    company,
		Accountant: accountant,
		PlanID:     planID,
		Origin:     ledger.OriginCreated,
	}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return insertBookTx(ctx, tx, book)
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}

// insertBookTx persists a book, stamping imported books with a UUID
// reference and import time. Fills book.ID.
func insertBookTx(ctx context.Context, tx *sql.Tx, book *ledger.Book) error {
	// Imported books skip duplicate detection; the import ref tells two
	// imports of the same period apart.
	if book.Origin != ledger.OriginImported {
		var dup int
		err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM journal_book
			WHERE month = ? AND year = ? AND company = ? AND accountant = ? AND plan_id = ?`,
			book.Month, book.Year, book.Company, book.Accountant, book.PlanID).Scan(&dup)
		if err != nil {
			return err
		}
		if dup > 0 {
			return fmt.Errorf("%w: %s %d for %q", ledger.ErrDuplicateBook,
				ledger.MonthName(book.Month), book.Year, book.Company)
		}
	}

	var importedAt any
	var importRef any
	if book.Origin == ledger.OriginImported {
		now := time.Now().UTC()
		book.ImportedAt = &now
		book.ImportRef = uuid.NewString()
		importedAt = now.Format(time.RFC3339)
		importRef = book.ImportRef
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO journal_book
			(month, year, company, accountant, total_debit, total_credit,
			 plan_id, origin, import_timestamp, import_ref)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.Month, book.Year, book.Company, book.Accountant,
		book.TotalDebit.StringFixed(2), book.TotalCredit.StringFixed(2),
		book.PlanID, string(book.Origin), importedAt, importRef)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	book.ID, _ = res.LastInsertId()
	return nil
}

func (s *Store) GetBook(ctx context.Context, id int64) (*ledger.Book, error) {
	row := s.reader.QueryRowContext(ctx, bookQuery+` WHERE id = ?`, id)
	return scanBook(row)
}

// ListBooks returns all books, newest period first.
func (s *Store) ListBooks(ctx context.Context) ([]ledger.Book, error) {
	rows, err := s.reader.QueryContext(ctx, bookQuery+` ORDER BY year DESC, month DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

const bookQuery = `
	SELECT id, month, year, company, accountant, total_debit, total_credit,
	       plan_id, origin, import_timestamp, import_ref
	FROM journal_book`

func scanBook(row rowScanner) (*ledger.Book, error) {
	var b ledger.Book
	var debit, credit, origin string
	var importedAt, importRef sql.NullString
	err := row.Scan(&b.ID, &b.Month, &b.Year, &b.Company, &b.Accountant,
		&debit, &credit, &b.PlanID, &origin, &importedAt, &importRef)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan book: %w", err)
	}

	if b.TotalDebit, err = decimal.NewFromString(debit); err != nil {
		return nil, fmt.Errorf("book %d total_debit: %w", b.ID, err)
	}
	if b.TotalCredit, err = decimal.NewFromString(credit); err != nil {
		return nil, fmt.Errorf("book %d total_credit: %w", b.ID, err)
	}
	b.Origin = ledger.BookOrigin(origin)
	if importedAt.Valid {
		t, err := time.Parse(time.RFC3339, importedAt.String)
		if err == nil {
			b.ImportedAt = &t
		}
	}
	b.ImportRef = importRef.String
	return &b, nil
}
