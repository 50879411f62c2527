package codec

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/diarium/diarium/internal/ledger"
	"github.com/diarium/diarium/internal/store"
)

func newTestCodec(t *testing.T) (*Codec, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return New(st, zerolog.Nop()), st
}

func amt(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// seedBook creates a book with three balanced entries, the second carrying
// a memo and three lines.
func seedBook(t *testing.T, st *store.Store) *ledger.Book {
	t.Helper()
	ctx := context.Background()

	accounts, err := st.ListPlanAccounts(ctx, ledger.GeneralPlanID)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(accounts), 3)

	book, err := st.CreateBook(ctx, 5, 2025, "Acme Corp", "Jo Doe", ledger.GeneralPlanID)
	require.NoError(t, err)

	d := ledger.NewDraft(book.ID, 2)
	d.AddLine(accounts[0].ID, amt("100.00"), decimal.Zero)
	d.AddLine(accounts[1].ID, decimal.Zero, amt("100.00"))
	require.NoError(t, d.Validate())
	_, err = st.SaveEntry(ctx, d)
	require.NoError(t, err)

	d = ledger.NewDraft(book.ID, 10)
	d.Memo = "opening stock purchase"
	d.AddLine(accounts[0].ID, amt("30.00"), decimal.Zero)
	d.AddLine(accounts[2].ID, amt("20.00"), decimal.Zero)
	d.AddLine(accounts[1].ID, decimal.Zero, amt("50.00"))
	require.NoError(t, d.Validate())
	_, err = st.SaveEntry(ctx, d)
	require.NoError(t, err)

	d = ledger.NewDraft(book.ID, 28)
	d.AddLine(accounts[2].ID, amt("7.50"), decimal.Zero)
	d.AddLine(accounts[0].ID, decimal.Zero, amt("7.50"))
	require.NoError(t, d.Validate())
	_, err = st.SaveEntry(ctx, d)
	require.NoError(t, err)

	return book
}

func TestExportLayout(t *testing.T) {
	c, st := newTestCodec(t)
	ctx := context.Background()
	book := seedBook(t, st)

	var buf bytes.Buffer
	require.NoError(t, c.Export(ctx, book.ID, true, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Journal", "Ledger", "Chart of Accounts"}, f.GetSheetList())

	title, err := f.GetCellValue("Journal", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Journal: Company(Acme Corp) (Accountant: Jo Doe)", title)

	header, err := f.GetCellValue("Journal", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Date", header)

	sep, err := f.GetCellValue("Journal", "C3")
	require.NoError(t, err)
	assert.Equal(t, "-------(1)-------", sep)
	date, err := f.GetCellValue("Journal", "A3")
	require.NoError(t, err)
	assert.Equal(t, "2025-05-02", date)
}

func TestRoundTrip(t *testing.T) {
	c, st := newTestCodec(t)
	ctx := context.Background()
	book := seedBook(t, st)

	var buf bytes.Buffer
	require.NoError(t, c.Export(ctx, book.ID, false, &buf))

	imported, err := c.Import(ctx, &buf, ledger.GeneralPlanID)
	require.NoError(t, err)
	assert.Equal(t, ledger.OriginImported, imported.Origin)
	assert.NotEmpty(t, imported.ImportRef)
	assert.NotNil(t, imported.ImportedAt)
	assert.Equal(t, 2025, imported.Year)
	assert.Equal(t, 5, imported.Month)
	assert.Equal(t, "Acme Corp", imported.Company)
	assert.Equal(t, "Jo Doe", imported.Accountant)

	want, err := st.ListEntries(ctx, book.ID)
	require.NoError(t, err)
	got, err := st.ListEntries(ctx, imported.ID)
	require.NoError(t, err)
	require.Len(t, got, len(want))

	for i := range want {
		assert.Equal(t, want[i].Sequence, got[i].Sequence)
		assert.Equal(t, want[i].Date, got[i].Date)
		assert.Equal(t, want[i].Memo, got[i].Memo)
		assert.Len(t, got[i].Lines, len(want[i].Lines))

		wd, wc := want[i].Sums()
		gd, gc := got[i].Sums()
		assert.True(t, ledger.AmountsEqual(wd, gd), "entry %d debit", want[i].Sequence)
		assert.True(t, ledger.AmountsEqual(wc, gc), "entry %d credit", want[i].Sequence)
	}

	wantBook, err := st.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.True(t, ledger.AmountsEqual(wantBook.TotalDebit, imported.TotalDebit))
	assert.True(t, ledger.AmountsEqual(wantBook.TotalCredit, imported.TotalCredit))
}

func TestRoundTripWithChart(t *testing.T) {
	c, st := newTestCodec(t)
	ctx := context.Background()
	book := seedBook(t, st)

	var buf bytes.Buffer
	require.NoError(t, c.Export(ctx, book.ID, true, &buf))

	// A chart sheet builds a fresh plan, so the caller's plan hint is
	// ignored.
	imported, err := c.Import(ctx, &buf, 0)
	require.NoError(t, err)
	assert.NotEqual(t, int64(ledger.GeneralPlanID), imported.PlanID)

	srcAccounts, err := st.ListPlanAccounts(ctx, ledger.GeneralPlanID)
	require.NoError(t, err)
	dstAccounts, err := st.ListPlanAccounts(ctx, imported.PlanID)
	require.NoError(t, err)
	assert.Len(t, dstAccounts, len(srcAccounts))

	got, err := st.ListEntries(ctx, imported.ID)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	for _, e := range got {
		assert.NotEmpty(t, e.Lines)
	}
}

func TestImportUnrecognizedLayout(t *testing.T) {
	c, _ := newTestCodec(t)

	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "nothing to see"))
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	f.Close()

	_, err = c.Import(context.Background(), &buf, ledger.GeneralPlanID)
	assert.ErrorIs(t, err, ledger.ErrUnrecognizedLayout)

	_, err = c.Import(context.Background(), bytes.NewReader([]byte("not a workbook")), ledger.GeneralPlanID)
	assert.ErrorIs(t, err, ledger.ErrUnrecognizedLayout)
}

func TestImportSkipsUnresolvableCodes(t *testing.T) {
	c, st := newTestCodec(t)
	ctx := context.Background()
	book := seedBook(t, st)

	var buf bytes.Buffer
	require.NoError(t, c.Export(ctx, book.ID, false, &buf))

	// Resolve against an empty plan: every code misses, every line is
	// skipped, but the import itself still succeeds.
	empty, err := st.CreatePlan(ctx, "Empty")
	require.NoError(t, err)

	imported, err := c.Import(ctx, &buf, empty.ID)
	require.NoError(t, err)

	got, err := st.ListEntries(ctx, imported.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, e := range got {
		assert.Empty(t, e.Lines)
	}
	assert.True(t, imported.TotalDebit.IsZero())
}
