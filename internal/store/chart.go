package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/diarium/diarium/internal/ledger"
)

// ChartRow is one flattened line of a plan's taxonomy: the full chain from
// type down to account. The spreadsheet codec reads and writes these.
type ChartRow struct {
	TypeCode           string
	TypeName           string
	CategoryCode       string
	CategoryName       string
	GroupCode          string
	GroupName          string
	AccountCode        string
	AccountName        string
	AccountDescription string
}

// ChartRows flattens a plan's taxonomy into one row per account, ordered
// by account code.
func (s *Store) ChartRows(ctx context.Context, planID int64) ([]ChartRow, error) {
	rows, err := s.reader.QueryContext(ctx, `
		SELECT t.code, t.name, c.code, c.name, g.code, g.name,
		       a.code, a.name, a.description
		FROM account a
		JOIN account_group g ON g.id = a.group_id
		JOIN account_category c ON c.id = g.category_id
		JOIN account_type t ON t.id = c.type_id
		WHERE t.plan_id = ?
		ORDER BY a.code`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ChartRow
	for rows.Next() {
		var r ChartRow
		if err := rows.Scan(&r.TypeCode, &r.TypeName, &r.CategoryCode, &r.CategoryName,
			&r.GroupCode, &r.GroupName, &r.AccountCode, &r.AccountName, &r.AccountDescription); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ImportChart creates a fresh plan and populates its whole taxonomy from
// flattened rows, all in one transaction.
func (s *Store) ImportChart(ctx context.Context, planName string, chart []ChartRow) (*ledger.Plan, error) {
	var plan *ledger.Plan
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO chart_plan (name) VALUES (?)`, planName)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE") {
				return fmt.Errorf("%w: plan %q", ledger.ErrDuplicateName, planName)
			}
			return fmt.Errorf("insert plan: %w", err)
		}
		planID, _ := res.LastInsertId()
		plan = &ledger.Plan{ID: planID, Name: planName}

		for _, row := range chart {
			typeID, err := ensureNode(ctx, tx,
				`SELECT id FROM account_type WHERE plan_id = ? AND code = ?`,
				`INSERT INTO account_type (plan_id, name, code) VALUES (?, ?, ?)`,
				planID, row.TypeName, row.TypeCode)
			if err != nil {
				return err
			}
			catID, err := ensureNode(ctx, tx,
				`SELECT id FROM account_category WHERE type_id = ? AND code = ?`,
				`INSERT INTO account_category (type_id, name, code) VALUES (?, ?, ?)`,
				typeID, row.CategoryName, row.CategoryCode)
			if err != nil {
				return err
			}
			groupID, err := ensureNode(ctx, tx,
				`SELECT id FROM account_group WHERE category_id = ? AND code = ?`,
				`INSERT INTO account_group (category_id, name, code) VALUES (?, ?, ?)`,
				catID, row.GroupName, row.GroupCode)
			if err != nil {
				return err
			}
			if _, err := ensureNode(ctx, tx,
				`SELECT id FROM account WHERE group_id = ? AND code = ?`,
				`INSERT INTO account (group_id, name, code) VALUES (?, ?, ?)`,
				groupID, row.AccountName, row.AccountCode); err != nil {
				return err
			}
			if row.AccountDescription != "" {
				if _, err := tx.ExecContext(ctx,
					`UPDATE account SET description = ? WHERE group_id = ? AND code = ?`,
					row.AccountDescription, groupID, row.AccountCode); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}
