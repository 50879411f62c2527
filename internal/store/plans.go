package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/diarium/diarium/internal/ledger"
)

// CreatePlan registers an empty chart plan. Plan names are unique.
func (s *Store) CreatePlan(ctx context.Context, name string) (*ledger.Plan, error) {
	var created *ledger.Plan
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO chart_plan (name) VALUES (?)`, name)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE") {
				return fmt.Errorf("%w: plan %q", ledger.ErrDuplicateName, name)
			}
			return fmt.Errorf("insert plan: %w", err)
		}
		id, _ := res.LastInsertId()
		created = &ledger.Plan{ID: id, Name: name}
		return nil
	})
	return created, err
}

func (s *Store) GetPlan(ctx context.Context, id int64) (*ledger.Plan, error) {
	var p ledger.Plan
	err := s.reader.QueryRowContext(ctx,
		`SELECT id, name FROM chart_plan WHERE id = ?`, id).Scan(&p.ID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan plan: %w", err)
	}
	return &p, nil
}

func (s *Store) ListPlans(ctx context.Context) ([]ledger.Plan, error) {
	rows, err := s.reader.QueryContext(ctx, `SELECT id, name FROM chart_plan ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Plan
	for rows.Next() {
		var p ledger.Plan
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ClonePlan copies the source plan's whole taxonomy into the destination
// plan and returns how many accounts were copied. Nodes the destination
// already has (matched by code) are reused rather than duplicated. A
// source plan with no accounts of its own falls back to copying accounts
// whose types predate plan scoping.
func (s *Store) ClonePlan(ctx context.Context, srcPlanID, dstPlanID int64) (int, error) {
	copied := 0
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		copied = 0
		if _, err := getPlanTx(ctx, tx, srcPlanID); err != nil {
			return err
		}
		if _, err := getPlanTx(ctx, tx, dstPlanID); err != nil {
			return err
		}

		accounts, err := cloneSourceAccounts(ctx, tx, srcPlanID)
		if err != nil {
			return err
		}
		if len(accounts) == 0 {
			return nil
		}

		// Parent chain per source account: group and category and type
		// codes, fetched by walking the foreign keys.
		for _, a := range accounts {
			chain, err := parentChain(ctx, tx, a.GroupID)
			if err != nil {
				return err
			}

			typeID, err := ensureNode(ctx, tx,
				`SELECT id FROM account_type WHERE plan_id = ? AND code = ?`,
				`INSERT INTO account_type (plan_id, name, code) VALUES (?, ?, ?)`,
				dstPlanID, chain.typeName, chain.typeCode)
			if err != nil {
				return err
			}
			catID, err := ensureNode(ctx, tx,
				`SELECT id FROM account_category WHERE type_id = ? AND code = ?`,
				`INSERT INTO account_category (type_id, name, code) VALUES (?, ?, ?)`,
				typeID, chain.categoryName, chain.categoryCode)
			if err != nil {
				return err
			}
			groupID, err := ensureNode(ctx, tx,
				`SELECT id FROM account_group WHERE category_id = ? AND code = ?`,
				`INSERT INTO account_group (category_id, name, code) VALUES (?, ?, ?)`,
				catID, chain.groupName, chain.groupCode)
			if err != nil {
				return err
			}

			var exists int
			err = tx.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM account WHERE group_id = ? AND code = ?`,
				groupID, a.Code).Scan(&exists)
			if err != nil {
				return err
			}
			if exists > 0 {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO account (group_id, name, description, code) VALUES (?, ?, ?, ?)`,
				groupID, a.Name, a.Description, a.Code); err != nil {
				return fmt.Errorf("clone account %s: %w", a.Code, err)
			}
			copied++
		}
		return nil
	})
	return copied, err
}

func cloneSourceAccounts(ctx context.Context, tx *sql.Tx, srcPlanID int64) ([]ledger.Account, error) {
	rows, err := tx.QueryContext(ctx, planAccountsQuery, srcPlanID)
	if err != nil {
		return nil, err
	}
	accounts, err := collectAccounts(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}
	if len(accounts) > 0 {
		return accounts, nil
	}

	rows, err = tx.QueryContext(ctx, legacyAccountsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAccounts(rows)
}

type nodeChain struct {
	groupName    string
	groupCode    string
	categoryName string
	categoryCode string
	typeName     string
	typeCode     string
}

func parentChain(ctx context.Context, tx *sql.Tx, groupID int64) (nodeChain, error) {
	var ch nodeChain
	err := tx.QueryRowContext(ctx, `
		SELECT g.name, g.code, c.name, c.code, t.name, t.code
		FROM account_group g
		JOIN account_category c ON c.id = g.category_id
		JOIN account_type t ON t.id = c.type_id
		WHERE g.id = ?`, groupID).Scan(
		&ch.groupName, &ch.groupCode, &ch.categoryName, &ch.categoryCode, &ch.typeName, &ch.typeCode)
	if err != nil {
		return ch, fmt.Errorf("resolve parent chain: %w", err)
	}
	return ch, nil
}

// ensureNode finds a taxonomy node by code under its parent or inserts it.
func ensureNode(ctx context.Context, tx *sql.Tx, selectQ, insertQ string, parentID int64, name, code string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, selectQ, parentID, code).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, insertQ, parentID, name, code)
	if err != nil {
		return 0, fmt.Errorf("clone node %s: %w", code, err)
	}
	return res.LastInsertId()
}

func getPlanTx(ctx context.Context, tx *sql.Tx, id int64) (*ledger.Plan, error) {
	var p ledger.Plan
	err := tx.QueryRowContext(ctx,
		`SELECT id, name FROM chart_plan WHERE id = ?`, id).Scan(&p.ID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
