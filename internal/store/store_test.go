package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diarium/diarium/internal/ledger"
	"github.com/diarium/diarium/internal/taxonomy"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func amt(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSeedGeneralPlan(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	plan, err := st.GetPlan(ctx, ledger.GeneralPlanID)
	require.NoError(t, err)
	assert.Equal(t, "General", plan.Name)

	types, err := st.ListTypes(ctx, ledger.GeneralPlanID)
	require.NoError(t, err)
	assert.Len(t, types, 6)
	assert.Equal(t, "1.0.0.000", types[0].Code)

	accounts, err := st.ListPlanAccounts(ctx, ledger.GeneralPlanID)
	require.NoError(t, err)
	assert.NotEmpty(t, accounts)
}

// Every seeded node's code must share its parent's prefix at the parent's
// depth, all the way up the chain.
func TestSeedPrefixConsistency(t *testing.T) {
	st := newTestStore(t)
	rows, err := st.ChartRows(context.Background(), ledger.GeneralPlanID)
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	for _, r := range rows {
		tc, err := taxonomy.Parse(r.TypeCode)
		require.NoError(t, err)
		cc, err := taxonomy.Parse(r.CategoryCode)
		require.NoError(t, err)
		gc, err := taxonomy.Parse(r.GroupCode)
		require.NoError(t, err)
		ac, err := taxonomy.Parse(r.AccountCode)
		require.NoError(t, err)

		assert.True(t, taxonomy.SharesPrefix(tc, cc, taxonomy.LevelType), "category %s under type %s", r.CategoryCode, r.TypeCode)
		assert.True(t, taxonomy.SharesPrefix(cc, gc, taxonomy.LevelCategory), "group %s under category %s", r.GroupCode, r.CategoryCode)
		assert.True(t, taxonomy.SharesPrefix(gc, ac, taxonomy.LevelGroup), "account %s under group %s", r.AccountCode, r.GroupCode)
	}
}

func TestCreateTypeSuggestedCode(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	plan, err := st.CreatePlan(ctx, "Fresh")
	require.NoError(t, err)

	first, err := st.CreateType(ctx, plan.ID, "Assets", "")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0.000", first.Code)

	second, err := st.CreateType(ctx, plan.ID, "Liabilities", "")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0.000", second.Code)

	// Explicit codes are honored and gaps respected by the suggestion.
	_, err = st.CreateType(ctx, plan.ID, "Memo", "9.0.0.000")
	require.NoError(t, err)
	tenth, err := st.CreateType(ctx, plan.ID, "Next", "")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.000", tenth.Code)

	_, err = st.CreateType(ctx, plan.ID, "Clash", "1.0.0.000")
	assert.ErrorIs(t, err, ledger.ErrDuplicateName)

	_, err = st.CreateType(ctx, plan.ID, "Bad", "1.2.0.000")
	assert.ErrorIs(t, err, ledger.ErrMalformedCode)
}

func TestAccountCodeSequence(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	plan, err := st.CreatePlan(ctx, "Seq")
	require.NoError(t, err)
	typ, err := st.CreateType(ctx, plan.ID, "Assets", "")
	require.NoError(t, err)
	cat, err := st.CreateCategory(ctx, typ.ID, "Current Assets", "")
	require.NoError(t, err)
	assert.Equal(t, "1.1.0.000", cat.Code)
	grp, err := st.CreateGroup(ctx, cat.ID, "Cash", "")
	require.NoError(t, err)
	assert.Equal(t, "1.1.1.000", grp.Code)

	a1, err := st.CreateAccount(ctx, grp.ID, "Petty Cash", "", "")
	require.NoError(t, err)
	assert.Equal(t, "1.1.1.001", a1.Code)

	a2, err := st.CreateAccount(ctx, grp.ID, "Main Bank", "", "")
	require.NoError(t, err)
	assert.Equal(t, "1.1.1.002", a2.Code)
}

func TestPrefixMismatch(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	plan, err := st.CreatePlan(ctx, "Mismatch")
	require.NoError(t, err)
	typ, err := st.CreateType(ctx, plan.ID, "Assets", "1.0.0.000")
	require.NoError(t, err)

	_, err = st.CreateCategory(ctx, typ.ID, "Wrong", "2.1.0.000")
	assert.ErrorIs(t, err, ledger.ErrPrefixMismatch)

	cat, err := st.CreateCategory(ctx, typ.ID, "Right", "1.1.0.000")
	require.NoError(t, err)
	grp, err := st.CreateGroup(ctx, cat.ID, "Cash", "1.1.1.000")
	require.NoError(t, err)

	_, err = st.CreateAccount(ctx, grp.ID, "Stray", "", "1.1.2.001")
	assert.ErrorIs(t, err, ledger.ErrPrefixMismatch)
}

func TestRenumberTypeCascade(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	plan, err := st.CreatePlan(ctx, "Cascade")
	require.NoError(t, err)
	typ, err := st.CreateType(ctx, plan.ID, "Assets", "1.0.0.000")
	require.NoError(t, err)
	cat, err := st.CreateCategory(ctx, typ.ID, "Current", "1.1.0.000")
	require.NoError(t, err)
	grp, err := st.CreateGroup(ctx, cat.ID, "Cash", "1.1.1.000")
	require.NoError(t, err)
	_, err = st.CreateAccount(ctx, grp.ID, "Petty Cash", "", "1.1.1.001")
	require.NoError(t, err)
	_, err = st.CreateAccount(ctx, grp.ID, "Bank", "", "1.1.1.002")
	require.NoError(t, err)

	require.NoError(t, st.UpdateType(ctx, typ.ID, "Assets", "7.0.0.000"))

	rows, err := st.ChartRows(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "7.0.0.000", rows[0].TypeCode)
	assert.Equal(t, "7.1.0.000", rows[0].CategoryCode)
	assert.Equal(t, "7.1.1.000", rows[0].GroupCode)
	assert.Equal(t, "7.1.1.001", rows[0].AccountCode)
	assert.Equal(t, "7.1.1.002", rows[1].AccountCode)
}

func TestDeleteGuards(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	plan, err := st.CreatePlan(ctx, "Guards")
	require.NoError(t, err)
	typ, err := st.CreateType(ctx, plan.ID, "Assets", "")
	require.NoError(t, err)
	cat, err := st.CreateCategory(ctx, typ.ID, "Current", "")
	require.NoError(t, err)
	grp, err := st.CreateGroup(ctx, cat.ID, "Cash", "")
	require.NoError(t, err)

	assert.ErrorIs(t, st.DeleteType(ctx, typ.ID), ledger.ErrHasChildren)
	assert.ErrorIs(t, st.DeleteCategory(ctx, cat.ID), ledger.ErrHasChildren)

	require.NoError(t, st.DeleteGroup(ctx, grp.ID))
	require.NoError(t, st.DeleteCategory(ctx, cat.ID))
	require.NoError(t, st.DeleteType(ctx, typ.ID))

	assert.ErrorIs(t, st.DeleteType(ctx, typ.ID), ledger.ErrNodeNotFound)
}

func TestDeleteAccountInUse(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	accounts, err := st.ListPlanAccounts(ctx, ledger.GeneralPlanID)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(accounts), 2)

	book, err := st.CreateBook(ctx, 3, 2025, "Acme", "Jo", ledger.GeneralPlanID)
	require.NoError(t, err)

	d := ledger.NewDraft(book.ID, 10)
	d.AddLine(accounts[0].ID, amt("25.00"), decimal.Zero)
	d.AddLine(accounts[1].ID, decimal.Zero, amt("25.00"))
	require.NoError(t, d.Validate())
	_, err = st.SaveEntry(ctx, d)
	require.NoError(t, err)

	assert.ErrorIs(t, st.DeleteAccount(ctx, accounts[0].ID), ledger.ErrAccountInUse)
}

func TestClonePlan(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	src, err := st.ListPlanAccounts(ctx, ledger.GeneralPlanID)
	require.NoError(t, err)
	require.NotEmpty(t, src)

	dst, err := st.CreatePlan(ctx, "Copy of General")
	require.NoError(t, err)

	copied, err := st.ClonePlan(ctx, ledger.GeneralPlanID, dst.ID)
	require.NoError(t, err)
	assert.Equal(t, len(src), copied)

	cloned, err := st.ListPlanAccounts(ctx, dst.ID)
	require.NoError(t, err)
	require.Len(t, cloned, len(src))
	for i := range src {
		assert.Equal(t, src[i].Code, cloned[i].Code)
		assert.Equal(t, src[i].Name, cloned[i].Name)
		assert.NotEqual(t, src[i].ID, cloned[i].ID, "clone must mint fresh IDs")
	}

	// Cloning again into the same destination copies nothing new.
	copied, err = st.ClonePlan(ctx, ledger.GeneralPlanID, dst.ID)
	require.NoError(t, err)
	assert.Zero(t, copied)
}

func TestClonePlanMissingPlan(t *testing.T) {
	st := newTestStore(t)
	_, err := st.ClonePlan(context.Background(), ledger.GeneralPlanID, 999)
	assert.ErrorIs(t, err, ledger.ErrPlanNotFound)
}

func TestCreateBookDuplicate(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.CreateBook(ctx, 6, 2025, "Acme", "Jo", ledger.GeneralPlanID)
	require.NoError(t, err)

	_, err = st.CreateBook(ctx, 6, 2025, "Acme", "Jo", ledger.GeneralPlanID)
	assert.ErrorIs(t, err, ledger.ErrDuplicateBook)

	// Any differing field opens a distinct book.
	_, err = st.CreateBook(ctx, 7, 2025, "Acme", "Jo", ledger.GeneralPlanID)
	assert.NoError(t, err)
}

func TestSaveEntryTotalsAndSequence(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	accounts, err := st.ListPlanAccounts(ctx, ledger.GeneralPlanID)
	require.NoError(t, err)
	book, err := st.CreateBook(ctx, 2, 2025, "Acme", "Jo", ledger.GeneralPlanID)
	require.NoError(t, err)

	post := func(debit, credit string, day int) *ledger.Entry {
		d := ledger.NewDraft(book.ID, day)
		d.AddLine(accounts[0].ID, amt(debit), decimal.Zero)
		d.AddLine(accounts[1].ID, decimal.Zero, amt(credit))
		require.NoError(t, d.Validate())
		e, err := st.SaveEntry(ctx, d)
		require.NoError(t, err)
		return e
	}

	e1 := post("100.00", "100.00", 5)
	assert.Equal(t, 1, e1.Sequence)
	assert.Equal(t, "2025-02-05", e1.Date)

	e2 := post("40.00", "40.00", 10)
	assert.Equal(t, 2, e2.Sequence)

	got, err := st.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "140.00", got.TotalDebit.StringFixed(2))
	assert.Equal(t, "140.00", got.TotalCredit.StringFixed(2))

	// Editing an entry adjusts totals by the delta, not flatly.
	edit := ledger.EditDraft(book.ID, e1.ID, 5)
	edit.AddLine(accounts[0].ID, amt("150.00"), decimal.Zero)
	edit.AddLine(accounts[1].ID, decimal.Zero, amt("150.00"))
	require.NoError(t, edit.Validate())
	edited, err := st.SaveEntry(ctx, edit)
	require.NoError(t, err)
	assert.Equal(t, e1.Sequence, edited.Sequence, "editing keeps the sequence")

	got, err = st.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "190.00", got.TotalDebit.StringFixed(2))

	// Deleting backs the amounts out and retires the sequence number.
	require.NoError(t, st.DeleteEntry(ctx, e2.ID))
	got, err = st.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "150.00", got.TotalDebit.StringFixed(2))

	e3 := post("10.00", "10.00", 12)
	assert.Equal(t, 3, e3.Sequence, "freed sequence numbers are not reused")

	entries, err := st.ListEntries(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		debit, credit := e.Sums()
		assert.True(t, ledger.AmountsEqual(debit, credit))
	}
}

// Import tolerates entries with unequal sides (unresolved lines get
// skipped), so an edit must move each book total by its own delta.
func TestEditAdjustsCreditIndependently(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	accounts, err := st.ListPlanAccounts(ctx, ledger.GeneralPlanID)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(accounts), 2)

	book := &ledger.Book{Month: 9, Year: 2025, Company: "Acme", Accountant: "Jo", PlanID: ledger.GeneralPlanID}
	entries := []ledger.Entry{{
		Date: "2025-09-10", Sequence: 1,
		Lines: []ledger.Line{
			{AccountID: accounts[0].ID, Debit: amt("30.00"), Credit: decimal.Zero},
			{AccountID: accounts[1].ID, Debit: decimal.Zero, Credit: amt("50.00")},
		},
	}}
	require.NoError(t, st.ImportBook(ctx, book, entries))

	got, err := st.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "30.00", got.TotalDebit.StringFixed(2))
	assert.Equal(t, "50.00", got.TotalCredit.StringFixed(2))

	edit := ledger.EditDraft(book.ID, entries[0].ID, 10)
	edit.AddLine(accounts[0].ID, amt("100.00"), decimal.Zero)
	edit.AddLine(accounts[1].ID, decimal.Zero, amt("100.00"))
	require.NoError(t, edit.Validate())
	_, err = st.SaveEntry(ctx, edit)
	require.NoError(t, err)

	got, err = st.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", got.TotalDebit.StringFixed(2))
	assert.Equal(t, "100.00", got.TotalCredit.StringFixed(2))
}

// A source plan with no accounts of its own clones the legacy subtree,
// the accounts whose types were never assigned a plan.
func TestClonePlanLegacyFallback(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	exec := func(q string, args ...any) int64 {
		res, err := st.writer.ExecContext(ctx, q, args...)
		require.NoError(t, err)
		id, err := res.LastInsertId()
		require.NoError(t, err)
		return id
	}
	typeID := exec(`INSERT INTO account_type (plan_id, name, code) VALUES (NULL, 'Assets', '1.0.0.000')`)
	catID := exec(`INSERT INTO account_category (type_id, name, code) VALUES (?, 'Current', '1.1.0.000')`, typeID)
	grpID := exec(`INSERT INTO account_group (category_id, name, code) VALUES (?, 'Cash', '1.1.1.000')`, catID)
	exec(`INSERT INTO account (group_id, name, description, code) VALUES (?, 'Petty Cash', '', '1.1.1.001')`, grpID)
	exec(`INSERT INTO account (group_id, name, description, code) VALUES (?, 'Main Bank', '', '1.1.1.002')`, grpID)

	src, err := st.CreatePlan(ctx, "Empty Source")
	require.NoError(t, err)
	dst, err := st.CreatePlan(ctx, "Legacy Copy")
	require.NoError(t, err)

	copied, err := st.ClonePlan(ctx, src.ID, dst.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, copied)

	cloned, err := st.ListPlanAccounts(ctx, dst.ID)
	require.NoError(t, err)
	require.Len(t, cloned, 2)
	assert.Equal(t, "1.1.1.001", cloned[0].Code)
	assert.Equal(t, "1.1.1.002", cloned[1].Code)
}

func TestEntryDayClamp(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	accounts, err := st.ListPlanAccounts(ctx, ledger.GeneralPlanID)
	require.NoError(t, err)
	book, err := st.CreateBook(ctx, 4, 2025, "Acme", "Jo", ledger.GeneralPlanID)
	require.NoError(t, err)

	d := ledger.NewDraft(book.ID, 45)
	d.AddLine(accounts[0].ID, amt("5.00"), decimal.Zero)
	d.AddLine(accounts[1].ID, decimal.Zero, amt("5.00"))
	require.NoError(t, d.Validate())
	e, err := st.SaveEntry(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, "2025-04-31", e.Date, "day clamps to 31 even in a 30-day month")
}

func TestDuplicatePlanName(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.CreatePlan(ctx, "Twice")
	require.NoError(t, err)
	_, err = st.CreatePlan(ctx, "Twice")
	assert.ErrorIs(t, err, ledger.ErrDuplicateName)
}

func TestUpdateAccountReparent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	plan, err := st.CreatePlan(ctx, "Reparent")
	require.NoError(t, err)
	typ, err := st.CreateType(ctx, plan.ID, "Assets", "")
	require.NoError(t, err)
	cat, err := st.CreateCategory(ctx, typ.ID, "Current", "")
	require.NoError(t, err)
	g1, err := st.CreateGroup(ctx, cat.ID, "Cash", "")
	require.NoError(t, err)
	g2, err := st.CreateGroup(ctx, cat.ID, "Banks", "")
	require.NoError(t, err)

	acc, err := st.CreateAccount(ctx, g1.ID, "Petty Cash", "", "")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(acc.Code, "1.1.1."))

	err = st.UpdateAccount(ctx, acc.ID, "Petty Cash", "moved", "1.1.2.001", &g2.ID)
	require.NoError(t, err)

	moved, err := st.GetAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, g2.ID, moved.GroupID)
	assert.Equal(t, "1.1.2.001", moved.Code)
	assert.Equal(t, "moved", moved.Description)

	// A code that does not match the new group's prefix is rejected.
	err = st.UpdateAccount(ctx, acc.ID, "Petty Cash", "", "1.1.1.001", &g2.ID)
	assert.ErrorIs(t, err, ledger.ErrPrefixMismatch)
}
