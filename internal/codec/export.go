// Package codec reads and writes the spreadsheet form of a journal book:
// a "Journal" sheet with the entries, a "Ledger" sheet with per-account
// T-accounts, and optionally a "Chart of Accounts" sheet. Import accepts
// only this exact layout.
package codec

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/diarium/diarium/internal/ledger"
	"github.com/diarium/diarium/internal/store"
)

const (
	sheetJournal = "Journal"
	sheetLedger  = "Ledger"
	sheetChart   = "Chart of Accounts"
)

var journalHeader = []string{"Date", "Code", "Description", "Debit", "Credit"}

// Codec exports books to xlsx and imports them back.
type Codec struct {
	store *store.Store
	log   zerolog.Logger
}

func New(st *store.Store, log zerolog.Logger) *Codec {
	return &Codec{store: st, log: log.With().Str("component", "codec").Logger()}
}

// Export writes a book as a workbook. withChart adds the plan's full
// taxonomy as a third sheet, which lets Import rebuild the chart on a
// machine that has never seen it.
func (c *Codec) Export(ctx context.Context, bookID int64, withChart bool, w io.Writer) error {
	book, err := c.store.GetBook(ctx, bookID)
	if err != nil {
		return err
	}
	entries, err := c.store.ListEntries(ctx, bookID)
	if err != nil {
		return err
	}
	accounts, err := c.store.ListPlanAccounts(ctx, book.PlanID)
	if err != nil {
		return err
	}
	byID := make(map[int64]ledger.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetJournal); err != nil {
		return err
	}
	if err := writeJournal(f, book, entries, byID); err != nil {
		return err
	}
	if err := writeLedger(f, entries, byID); err != nil {
		return err
	}
	if withChart {
		chart, err := c.store.ChartRows(ctx, book.PlanID)
		if err != nil {
			return err
		}
		if err := writeChart(f, chart); err != nil {
			return err
		}
	}

	c.log.Info().Int64("book", bookID).Int("entries", len(entries)).
		Bool("chart", withChart).Msg("exported book")
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeJournal(f *excelize.File, book *ledger.Book, entries []ledger.Entry, byID map[int64]ledger.Account) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	title := fmt.Sprintf("Journal: Company(%s) (Accountant: %s)", book.Company, book.Accountant)
	if err := f.MergeCell(sheetJournal, "A1", "E1"); err != nil {
		return err
	}
	setCell(f, sheetJournal, 1, 1, title)
	if err := f.SetCellStyle(sheetJournal, "A1", "E2", bold); err != nil {
		return err
	}
	for col, h := range journalHeader {
		setCell(f, sheetJournal, col+1, 2, h)
	}

	row := 3
	for _, e := range entries {
		setCell(f, sheetJournal, 1, row, e.Date)
		setCell(f, sheetJournal, 3, row, fmt.Sprintf("-------(%d)-------", e.Sequence))
		row++
		for _, ln := range e.Lines {
			acc := byID[ln.AccountID]
			setCell(f, sheetJournal, 2, row, acc.Code)
			setCell(f, sheetJournal, 3, row, acc.Name)
			if ln.Debit.IsPositive() {
				setCell(f, sheetJournal, 4, row, ln.Debit.StringFixed(2))
			}
			if ln.Credit.IsPositive() {
				setCell(f, sheetJournal, 5, row, ln.Credit.StringFixed(2))
			}
			row++
		}
		if e.Memo != "" {
			setCell(f, sheetJournal, 3, row, e.Memo)
			row++
		}
	}
	return nil
}

// writeLedger lays out one T-account block per account that appears in the
// book: a code+name header, a Debit|Credit sub-header, one row per posting
// keyed by entry sequence, and a totals row.
func writeLedger(f *excelize.File, entries []ledger.Entry, byID map[int64]ledger.Account) error {
	if _, err := f.NewSheet(sheetLedger); err != nil {
		return err
	}

	type posting struct {
		seq    int
		debit  decimal.Decimal
		credit decimal.Decimal
	}
	postings := map[int64][]posting{}
	var order []int64
	for _, e := range entries {
		for _, ln := range e.Lines {
			if _, seen := postings[ln.AccountID]; !seen {
				order = append(order, ln.AccountID)
			}
			postings[ln.AccountID] = append(postings[ln.AccountID],
				posting{seq: e.Sequence, debit: ln.Debit, credit: ln.Credit})
		}
	}

	row := 1
	for _, id := range order {
		acc := byID[id]
		setCell(f, sheetLedger, 1, row, fmt.Sprintf("%s %s", acc.Code, acc.Name))
		row++
		setCell(f, sheetLedger, 2, row, "Debit")
		setCell(f, sheetLedger, 3, row, "Credit")
		row++

		totalDebit := decimal.Zero
		totalCredit := decimal.Zero
		for _, p := range postings[id] {
			setCell(f, sheetLedger, 1, row, fmt.Sprintf("(%d)", p.seq))
			if p.debit.IsPositive() {
				setCell(f, sheetLedger, 2, row, p.debit.StringFixed(2))
			}
			if p.credit.IsPositive() {
				setCell(f, sheetLedger, 3, row, p.credit.StringFixed(2))
			}
			totalDebit = totalDebit.Add(p.debit)
			totalCredit = totalCredit.Add(p.credit)
			row++
		}
		setCell(f, sheetLedger, 1, row, "Totals")
		setCell(f, sheetLedger, 2, row, totalDebit.StringFixed(2))
		setCell(f, sheetLedger, 3, row, totalCredit.StringFixed(2))
		row += 2
	}
	return nil
}

var chartHeader = []string{
	"TypeCode", "TypeName", "CategoryCode", "CategoryName",
	"GroupCode", "GroupName", "AccountCode", "AccountName", "AccountDescription",
}

func writeChart(f *excelize.File, chart []store.ChartRow) error {
	if _, err := f.NewSheet(sheetChart); err != nil {
		return err
	}
	for col, h := range chartHeader {
		setCell(f, sheetChart, col+1, 1, h)
	}
	for i, r := range chart {
		row := i + 2
		for col, v := range []string{
			r.TypeCode, r.TypeName, r.CategoryCode, r.CategoryName,
			r.GroupCode, r.GroupName, r.AccountCode, r.AccountName, r.AccountDescription,
		} {
			setCell(f, sheetChart, col+1, row, v)
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v any) {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	// SetCellValue only errors on bad coordinates, which we construct.
	_ = f.SetCellValue(sheet, cell, v)
}
