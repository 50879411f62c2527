package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/diarium/diarium/internal/ledger"
)

func (s *Store) GetType(ctx context.Context, id int64) (*ledger.AccountType, error) {
	row := s.reader.QueryRowContext(ctx,
		`SELECT id, plan_id, name, code FROM account_type WHERE id = ?`, id)
	return scanType(row)
}

func (s *Store) GetCategory(ctx context.Context, id int64) (*ledger.AccountCategory, error) {
	row := s.reader.QueryRowContext(ctx,
		`SELECT id, type_id, name, code FROM account_category WHERE id = ?`, id)
	return scanCategory(row)
}

func (s *Store) GetGroup(ctx context.Context, id int64) (*ledger.AccountGroup, error) {
	row := s.reader.QueryRowContext(ctx,
		`SELECT id, category_id, name, code FROM account_group WHERE id = ?`, id)
	return scanGroup(row)
}

func (s *Store) GetAccount(ctx context.Context, id int64) (*ledger.Account, error) {
	row := s.reader.QueryRowContext(ctx,
		`SELECT id, group_id, name, description, code FROM account WHERE id = ?`, id)
	return scanAccount(row)
}

// ListTypes returns a plan's types ordered by code.
func (s *Store) ListTypes(ctx context.Context, planID int64) ([]ledger.AccountType, error) {
	rows, err := s.reader.QueryContext(ctx,
		`SELECT id, plan_id, name, code FROM account_type WHERE plan_id = ? ORDER BY code`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.AccountType
	for rows.Next() {
		var t ledger.AccountType
		var planID sql.NullInt64
		if err := rows.Scan(&t.ID, &planID, &t.Name, &t.Code); err != nil {
			return nil, err
		}
		t.PlanID = planID.Int64
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) ListCategories(ctx context.Context, typeID int64) ([]ledger.AccountCategory, error) {
	rows, err := s.reader.QueryContext(ctx,
		`SELECT id, type_id, name, code FROM account_category WHERE type_id = ? ORDER BY code`, typeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.AccountCategory
	for rows.Next() {
		var c ledger.AccountCategory
		if err := rows.Scan(&c.ID, &c.TypeID, &c.Name, &c.Code); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) ListGroups(ctx context.Context, categoryID int64) ([]ledger.AccountGroup, error) {
	rows, err := s.reader.QueryContext(ctx,
		`SELECT id, category_id, name, code FROM account_group WHERE category_id = ? ORDER BY code`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.AccountGroup
	for rows.Next() {
		var g ledger.AccountGroup
		if err := rows.Scan(&g.ID, &g.CategoryID, &g.Name, &g.Code); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) ListAccounts(ctx context.Context, groupID int64) ([]ledger.Account, error) {
	rows, err := s.reader.QueryContext(ctx,
		`SELECT id, group_id, name, description, code FROM account WHERE group_id = ? ORDER BY code`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAccounts(rows)
}

// ListPlanAccounts walks the plan's whole subtree and returns every
// postable account, ordered by code.
func (s *Store) ListPlanAccounts(ctx context.Context, planID int64) ([]ledger.Account, error) {
	rows, err := s.reader.QueryContext(ctx, planAccountsQuery, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAccounts(rows)
}

const planAccountsQuery = `
	SELECT a.id, a.group_id, a.name, a.description, a.code
	FROM account a
	JOIN account_group g ON g.id = a.group_id
	JOIN account_category c ON c.id = g.category_id
	JOIN account_type t ON t.id = c.type_id
	WHERE t.plan_id = ?
	ORDER BY a.code`

// legacyAccountsQuery picks up accounts whose types predate plan scoping.
const legacyAccountsQuery = `
	SELECT a.id, a.group_id, a.name, a.description, a.code
	FROM account a
	JOIN account_group g ON g.id = a.group_id
	JOIN account_category c ON c.id = g.category_id
	JOIN account_type t ON t.id = c.type_id
	WHERE t.plan_id IS NULL
	ORDER BY a.code`

// FindAccountByCode resolves a dotted code within a plan. Unknown codes
// return ErrNodeNotFound.
func (s *Store) FindAccountByCode(ctx context.Context, planID int64, code string) (*ledger.Account, error) {
	row := s.reader.QueryRowContext(ctx, `
		SELECT a.id, a.group_id, a.name, a.description, a.code
		FROM account a
		JOIN account_group g ON g.id = a.group_id
		JOIN account_category c ON c.id = g.category_id
		JOIN account_type t ON t.id = c.type_id
		WHERE t.plan_id = ? AND a.code = ?`, planID, code)
	return scanAccount(row)
}

// AccountCodeIndex returns a code-to-account map over a plan, the lookup
// table the importer and exporter both key on.
func (s *Store) AccountCodeIndex(ctx context.Context, planID int64) (map[string]ledger.Account, error) {
	accounts, err := s.ListPlanAccounts(ctx, planID)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]ledger.Account, len(accounts))
	for _, a := range accounts {
		idx[a.Code] = a
	}
	return idx, nil
}

func collectAccounts(rows *sql.Rows) ([]ledger.Account, error) {
	var out []ledger.Account
	for rows.Next() {
		var a ledger.Account
		if err := rows.Scan(&a.ID, &a.GroupID, &a.Name, &a.Description, &a.Code); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanType(row rowScanner) (*ledger.AccountType, error) {
	var t ledger.AccountType
	var planID sql.NullInt64
	err := row.Scan(&t.ID, &planID, &t.Name, &t.Code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrNodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan type: %w", err)
	}
	t.PlanID = planID.Int64
	return &t, nil
}

func scanCategory(row rowScanner) (*ledger.AccountCategory, error) {
	var c ledger.AccountCategory
	err := row.Scan(&c.ID, &c.TypeID, &c.Name, &c.Code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrNodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan category: %w", err)
	}
	return &c, nil
}

func scanGroup(row rowScanner) (*ledger.AccountGroup, error) {
	var g ledger.AccountGroup
	err := row.Scan(&g.ID, &g.CategoryID, &g.Name, &g.Code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrNodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan group: %w", err)
	}
	return &g, nil
}

func scanAccount(row rowScanner) (*ledger.Account, error) {
	var a ledger.Account
	err := row.Scan(&a.ID, &a.GroupID, &a.Name, &a.Description, &a.Code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrNodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return &a, nil
}

// Tx-scoped getters used by the write paths so reads see in-transaction
// state.

func getTypeTx(ctx context.Context, tx *sql.Tx, id int64) (*ledger.AccountType, error) {
	return scanType(tx.QueryRowContext(ctx,
		`SELECT id, plan_id, name, code FROM account_type WHERE id = ?`, id))
}

func getCategoryTx(ctx context.Context, tx *sql.Tx, id int64) (*ledger.AccountCategory, error) {
	return scanCategory(tx.QueryRowContext(ctx,
		`SELECT id, type_id, name, code FROM account_category WHERE id = ?`, id))
}

func getGroupTx(ctx context.Context, tx *sql.Tx, id int64) (*ledger.AccountGroup, error) {
	return scanGroup(tx.QueryRowContext(ctx,
		`SELECT id, category_id, name, code FROM account_group WHERE id = ?`, id))
}

func getAccountTx(ctx context.Context, tx *sql.Tx, id int64) (*ledger.Account, error) {
	return scanAccount(tx.QueryRowContext(ctx,
		`SELECT id, group_id, name, description, code FROM account WHERE id = ?`, id))
}
