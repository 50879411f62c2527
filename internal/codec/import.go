package codec

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/diarium/diarium/internal/ledger"
	"github.com/diarium/diarium/internal/store"
)

// headerScanRows bounds how far down we look for the Date header.
const headerScanRows = 10

var (
	titlePattern     = regexp.MustCompile(`Journal: Company\((.*)\) \(Accountant: (.*)\)`)
	separatorPattern = regexp.MustCompile(`\((\d+)\)`)
)

// Import reads a workbook previously produced by Export and persists it as
// a new book. Codes resolve against planID's catalog unless the workbook
// carries a Chart of Accounts sheet, in which case a fresh plan is built
// from that sheet first and codes resolve against it. Rows whose code
// cannot be resolved are skipped with a warning; a workbook without the
// expected Journal layout aborts before anything is written.
func (c *Codec) Import(ctx context.Context, r io.Reader, planID int64) (*ledger.Book, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ledger.ErrUnrecognizedLayout, err)
	}
	defer f.Close()

	if chart, err := readChart(f); err != nil {
		return nil, err
	} else if len(chart) > 0 {
		name := fmt.Sprintf("Imported %s", time.Now().UTC().Format("2006-01-02 15:04:05"))
		plan, err := c.store.ImportChart(ctx, name, chart)
		if err != nil {
			return nil, err
		}
		planID = plan.ID
		c.log.Info().Int64("plan", planID).Int("accounts", len(chart)).
			Msg("rebuilt chart of accounts from workbook")
	}

	index, err := c.store.AccountCodeIndex(ctx, planID)
	if err != nil {
		return nil, err
	}

	rows, err := journalRows(f)
	if err != nil {
		return nil, err
	}
	headerRow, err := findHeader(rows)
	if err != nil {
		return nil, err
	}

	book := &ledger.Book{PlanID: planID}
	if len(rows) > 0 {
		book.Company, book.Accountant = parseTitle(cellAt(rows[0], 0))
	}

	var entries []ledger.Entry
	var open *ledger.Entry
	for i := headerRow + 1; i < len(rows); i++ {
		date := strings.TrimSpace(cellAt(rows[i], 0))
		code := strings.TrimSpace(cellAt(rows[i], 1))
		desc := strings.TrimSpace(cellAt(rows[i], 2))
		debit := parseAmount(cellAt(rows[i], 3))
		credit := parseAmount(cellAt(rows[i], 4))

		switch {
		case date != "" && strings.Contains(desc, "---"):
			entries = append(entries, ledger.Entry{
				Date:     date,
				Sequence: parseSequence(desc, len(entries)+1),
			})
			open = &entries[len(entries)-1]

		case code != "" && (debit.IsPositive() || credit.IsPositive()):
			if open == nil {
				c.log.Warn().Int("row", i+1).Str("code", code).
					Msg("line before any entry separator, skipping")
				continue
			}
			acc, ok := index[code]
			if !ok {
				c.log.Warn().Int("row", i+1).Str("code", code).
					Msg("unresolvable account code, skipping line")
				continue
			}
			open.Lines = append(open.Lines, ledger.Line{
				AccountID: acc.ID, Debit: debit, Credit: credit,
			})

		case code == "" && !debit.IsPositive() && !credit.IsPositive() && desc != "":
			if open != nil {
				open.Memo = desc
			}
		}
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no journal entries found", ledger.ErrUnrecognizedLayout)
	}
	book.Year, book.Month = periodOf(entries[0].Date)

	if err := c.store.ImportBook(ctx, book, entries); err != nil {
		return nil, err
	}
	c.log.Info().Int64("book", book.ID).Str("ref", book.ImportRef).
		Int("entries", len(entries)).Msg("imported book")
	return book, nil
}

func journalRows(f *excelize.File) ([][]string, error) {
	sheet := sheetJournal
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ledger.ErrUnrecognizedLayout, err)
	}
	return rows, nil
}

// findHeader scans the first rows for the literal Date column header.
func findHeader(rows [][]string) (int, error) {
	limit := len(rows)
	if limit > headerScanRows {
		limit = headerScanRows
	}
	for i := 0; i < limit; i++ {
		if strings.TrimSpace(cellAt(rows[i], 0)) == "Date" {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: no Date header in first %d rows", ledger.ErrUnrecognizedLayout, headerScanRows)
}

func parseTitle(s string) (company, accountant string) {
	m := titlePattern.FindStringSubmatch(s)
	if m == nil {
		return "", ""
	}
	return m[1], m[2]
}

func parseSequence(separator string, fallback int) int {
	m := separatorPattern.FindStringSubmatch(separator)
	if m == nil {
		return fallback
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return fallback
	}
	return n
}

// parseAmount reads a cell as money. Blank or unparseable cells count as
// zero; thousands separators are tolerated.
func parseAmount(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// periodOf splits a YYYY-MM-DD string without calendar validation, since
// stored dates may carry clamped days like the 31st of a 30-day month.
func periodOf(date string) (year, month int) {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return 0, 0
	}
	year, _ = strconv.Atoi(parts[0])
	month, _ = strconv.Atoi(parts[1])
	return year, month
}

func readChart(f *excelize.File) ([]store.ChartRow, error) {
	if idx, _ := f.GetSheetIndex(sheetChart); idx < 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheetChart)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ledger.ErrUnrecognizedLayout, err)
	}
	var out []store.ChartRow
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if strings.TrimSpace(cellAt(row, 6)) == "" {
			continue
		}
		out = append(out, store.ChartRow{
			TypeCode:           cellAt(row, 0),
			TypeName:           cellAt(row, 1),
			CategoryCode:       cellAt(row, 2),
			CategoryName:       cellAt(row, 3),
			GroupCode:          cellAt(row, 4),
			GroupName:          cellAt(row, 5),
			AccountCode:        cellAt(row, 6),
			AccountName:        cellAt(row, 7),
			AccountDescription: cellAt(row, 8),
		})
	}
	return out, nil
}

func cellAt(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}
