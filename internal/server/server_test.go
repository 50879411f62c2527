package server

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diarium/diarium/internal/client"
	"github.com/diarium/diarium/internal/ledger"
	"github.com/diarium/diarium/internal/store"
)

func newTestClient(t *testing.T) *client.Client {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	srv := New(st, ":0", zerolog.Nop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return client.New(ts.URL)
}

func TestPlanLifecycle(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	plan, err := c.CreatePlan(ctx, "Side Plan")
	require.NoError(t, err)
	assert.NotZero(t, plan.ID)

	_, err = c.CreatePlan(ctx, "Side Plan")
	assert.ErrorContains(t, err, "409")

	plans, err := c.ListPlans(ctx)
	require.NoError(t, err)
	assert.Len(t, plans, 2) // General + Side Plan

	res, err := c.ClonePlan(ctx, ledger.GeneralPlanID, plan.ID)
	require.NoError(t, err)
	assert.Positive(t, res.Copied)

	accounts, err := c.ListPlanAccounts(ctx, plan.ID)
	require.NoError(t, err)
	assert.Len(t, accounts, res.Copied)
}

func TestTaxonomyEndpoints(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	plan, err := c.CreatePlan(ctx, "API Plan")
	require.NoError(t, err)

	typ, err := c.CreateType(ctx, plan.ID, "Assets", "")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0.000", typ.Code)

	cat, err := c.CreateCategory(ctx, typ.ID, "Current", "")
	require.NoError(t, err)
	grp, err := c.CreateGroup(ctx, cat.ID, "Cash", "")
	require.NoError(t, err)
	acc, err := c.CreateAccount(ctx, grp.ID, "Petty Cash", "small expenses", "")
	require.NoError(t, err)
	assert.Equal(t, "1.1.1.001", acc.Code)

	// Renumber the type and watch the cascade through the API.
	updated, err := c.UpdateType(ctx, typ.ID, "Assets", "7.0.0.000")
	require.NoError(t, err)
	assert.Equal(t, "7.0.0.000", updated.Code)

	accounts, err := c.ListPlanAccounts(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "7.1.1.001", accounts[0].Code)

	// Guarded deletes surface as 422.
	err = c.DeleteType(ctx, typ.ID)
	assert.ErrorContains(t, err, "422")

	require.NoError(t, c.DeleteAccount(ctx, acc.ID))
	require.NoError(t, c.DeleteGroup(ctx, grp.ID))
	require.NoError(t, c.DeleteCategory(ctx, cat.ID))
	require.NoError(t, c.DeleteType(ctx, typ.ID))
}

func TestEntryEndpoints(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	accounts, err := c.ListPlanAccounts(ctx, ledger.GeneralPlanID)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(accounts), 2)

	book, err := c.CreateBook(ctx, 8, 2025, "Acme", "Jo", ledger.GeneralPlanID)
	require.NoError(t, err)

	entry, err := c.CreateEntry(ctx, book.ID, client.EntryRequest{
		Day:  14,
		Memo: "august rent",
		Lines: []client.EntryLine{
			{Code: accounts[0].Code, Debit: "850.00"},
			{Code: accounts[1].Code, Credit: "850.00"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Sequence)
	assert.Equal(t, "2025-08-14", entry.Date)

	// Unbalanced requests are rejected before anything persists.
	_, err = c.CreateEntry(ctx, book.ID, client.EntryRequest{
		Day: 15,
		Lines: []client.EntryLine{
			{Code: accounts[0].Code, Debit: "10.00"},
			{Code: accounts[1].Code, Credit: "9.00"},
		},
	})
	assert.ErrorContains(t, err, "400")

	got, err := c.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "850.00", got.TotalDebit.StringFixed(2))

	updated, err := c.UpdateEntry(ctx, entry.ID, client.EntryRequest{
		Day:  14,
		Memo: "august rent, adjusted",
		Lines: []client.EntryLine{
			{Code: accounts[0].Code, Debit: "900.00"},
			{Code: accounts[1].Code, Credit: "900.00"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entry.Sequence, updated.Sequence)

	got, err = c.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "900.00", got.TotalDebit.StringFixed(2))

	require.NoError(t, c.DeleteEntry(ctx, entry.ID))
	entries, err := c.ListEntries(ctx, book.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportImportEndpoints(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	accounts, err := c.ListPlanAccounts(ctx, ledger.GeneralPlanID)
	require.NoError(t, err)

	book, err := c.CreateBook(ctx, 9, 2025, "Acme", "Jo", ledger.GeneralPlanID)
	require.NoError(t, err)
	_, err = c.CreateEntry(ctx, book.ID, client.EntryRequest{
		Day: 3,
		Lines: []client.EntryLine{
			{Code: accounts[0].Code, Debit: "42.00"},
			{Code: accounts[1].Code, Credit: "42.00"},
		},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, c.ExportBook(ctx, book.ID, false, &buf))
	assert.NotZero(t, buf.Len())

	imported, err := c.ImportBook(ctx, ledger.GeneralPlanID, &buf)
	require.NoError(t, err)
	assert.Equal(t, ledger.OriginImported, imported.Origin)
	assert.NotEmpty(t, imported.ImportRef)

	entries, err := c.ListEntries(ctx, imported.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	debit, credit := entries[0].Sums()
	assert.Equal(t, "42.00", debit.StringFixed(2))
	assert.Equal(t, "42.00", credit.StringFixed(2))
}

func TestNotFoundMapping(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.GetBook(ctx, 9999)
	assert.ErrorContains(t, err, "404")
	_, err = c.GetEntry(ctx, 9999)
	assert.ErrorContains(t, err, "404")
}
