package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/diarium/diarium/internal/ledger"
	"github.com/diarium/diarium/internal/taxonomy"
)

// CreateType adds an account type to a plan. An empty code is suggested as
// (max existing T segment in the plan)+1, formatted T.0.0.000.
func (s *Store) CreateType(ctx context.Context, planID int64, name, code string) (*ledger.AccountType, error) {
	var created *ledger.AccountType
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var c taxonomy.Code
		var err error
		if code == "" {
			c, err = nextTypeCode(ctx, tx, planID)
		} else {
			c, err = taxonomy.Parse(code)
		}
		if err != nil {
			return err
		}
		if c[1] != 0 || c[2] != 0 || c[3] != 0 {
			return fmt.Errorf("%w: type code %s must be T.0.0.000", ledger.ErrMalformedCode, c)
		}

		var clash int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM account_type WHERE plan_id = ? AND code = ?`,
			planID, c.String()).Scan(&clash)
		if err != nil {
			return err
		}
		if clash > 0 {
			return fmt.Errorf("%w: type code %s in plan %d", ledger.ErrDuplicateName, c, planID)
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO account_type (plan_id, name, code) VALUES (?, ?, ?)`,
			planID, name, c.String())
		if err != nil {
			return fmt.Errorf("insert type: %w", err)
		}
		id, _ := res.LastInsertId()
		created = &ledger.AccountType{ID: id, PlanID: planID, Name: name, Code: c.String()}
		return nil
	})
	return created, err
}

// CreateCategory adds a category under a type. The code's leading segment
// must match the parent type; an empty code is suggested as the next C
// under the type.
func (s *Store) CreateCategory(ctx context.Context, typeID int64, name, code string) (*ledger.AccountCategory, error) {
	var created *ledger.AccountCategory
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		parent, err := getTypeTx(ctx, tx, typeID)
		if err != nil {
			return err
		}
		parentCode, err := taxonomy.Parse(parent.Code)
		if err != nil {
			return err
		}

		var c taxonomy.Code
		if code == "" {
			c, err = nextChildCode(ctx, tx,
				`SELECT code FROM account_category WHERE type_id = ?`, typeID,
				parentCode, taxonomy.LevelCategory)
		} else {
			c, err = taxonomy.Parse(code)
		}
		if err != nil {
			return err
		}
		if c[2] != 0 || c[3] != 0 {
			return fmt.Errorf("%w: category code %s must be T.C.0.000", ledger.ErrMalformedCode, c)
		}
		if !taxonomy.SharesPrefix(parentCode, c, taxonomy.LevelType) {
			return fmt.Errorf("%w: %s under type %s", ledger.ErrPrefixMismatch, c, parent.Code)
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO account_category (type_id, name, code) VALUES (?, ?, ?)`,
			typeID, name, c.String())
		if err != nil {
			return fmt.Errorf("insert category: %w", err)
		}
		id, _ := res.LastInsertId()
		created = &ledger.AccountCategory{ID: id, TypeID: typeID, Name: name, Code: c.String()}
		return nil
	})
	return created, err
}

// CreateGroup adds a group under a category.
func (s *Store) CreateGroup(ctx context.Context, categoryID int64, name, code string) (*ledger.AccountGroup, error) {
	var created *ledger.AccountGroup
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		parent, err := getCategoryTx(ctx, tx, categoryID)
		if err != nil {
			return err
		}
		parentCode, err := taxonomy.Parse(parent.Code)
		if err != nil {
			return err
		}

		var c taxonomy.Code
		if code == "" {
			c, err = nextChildCode(ctx, tx,
				`SELECT code FROM account_group WHERE category_id = ?`, categoryID,
				parentCode, taxonomy.LevelGroup)
		} else {
			c, err = taxonomy.Parse(code)
		}
		if err != nil {
			return err
		}
		if c[3] != 0 {
			return fmt.Errorf("%w: group code %s must be T.C.G.000", ledger.ErrMalformedCode, c)
		}
		if !taxonomy.SharesPrefix(parentCode, c, taxonomy.LevelCategory) {
			return fmt.Errorf("%w: %s under category %s", ledger.ErrPrefixMismatch, c, parent.Code)
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO account_group (category_id, name, code) VALUES (?, ?, ?)`,
			categoryID, name, c.String())
		if err != nil {
			return fmt.Errorf("insert group: %w", err)
		}
		id, _ := res.LastInsertId()
		created = &ledger.AccountGroup{ID: id, CategoryID: categoryID, Name: name, Code: c.String()}
		return nil
	})
	return created, err
}

// CreateAccount adds a postable account under a group. An empty code takes
// the maximum existing account code under the group and increments its
// final segment; the first account in a group gets suffix 001.
func (s *Store) CreateAccount(ctx context.Context, groupID int64, name, description, code string) (*ledger.Account, error) {
	var created *ledger.Account
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		parent, err := getGroupTx(ctx, tx, groupID)
		if err != nil {
			return err
		}
		parentCode, err := taxonomy.Parse(parent.Code)
		if err != nil {
			return err
		}

		var c taxonomy.Code
		if code == "" {
			c, err = nextChildCode(ctx, tx,
				`SELECT code FROM account WHERE group_id = ?`, groupID,
				parentCode, taxonomy.LevelAccount)
		} else {
			c, err = taxonomy.Parse(code)
		}
		if err != nil {
			return err
		}
		if !taxonomy.SharesPrefix(parentCode, c, taxonomy.LevelGroup) {
			return fmt.Errorf("%w: %s under group %s", ledger.ErrPrefixMismatch, c, parent.Code)
		}

		var clash int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM account WHERE group_id = ? AND code = ?`,
			groupID, c.String()).Scan(&clash)
		if err != nil {
			return err
		}
		if clash > 0 {
			return fmt.Errorf("%w: account code %s", ledger.ErrDuplicateName, c)
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO account (group_id, name, description, code) VALUES (?, ?, ?, ?)`,
			groupID, name, description, c.String())
		if err != nil {
			return fmt.Errorf("insert account: %w", err)
		}
		id, _ := res.LastInsertId()
		created = &ledger.Account{ID: id, GroupID: groupID, Name: name, Description: description, Code: c.String()}
		return nil
	})
	return created, err
}

// nextTypeCode suggests (max T segment in plan)+1 as T.0.0.000.
func nextTypeCode(ctx context.Context, tx *sql.Tx, planID int64) (taxonomy.Code, error) {
	rows, err := tx.QueryContext(ctx, `SELECT code FROM account_type WHERE plan_id = ?`, planID)
	if err != nil {
		return taxonomy.Code{}, err
	}
	defer rows.Close()

	maxT := 0
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return taxonomy.Code{}, err
		}
		c, err := taxonomy.Parse(raw)
		if err != nil {
			continue
		}
		if c.Segment(1) > maxT {
			maxT = c.Segment(1)
		}
	}
	if err := rows.Err(); err != nil {
		return taxonomy.Code{}, err
	}
	return taxonomy.ForLevel(taxonomy.LevelType, maxT+1), nil
}

// nextChildCode suggests the next sibling code at the given level: the
// parent's prefix plus (max existing segment among siblings)+1.
func nextChildCode(ctx context.Context, tx *sql.Tx, query string, parentID int64, parentCode taxonomy.Code, level int) (taxonomy.Code, error) {
	rows, err := tx.QueryContext(ctx, query, parentID)
	if err != nil {
		return taxonomy.Code{}, err
	}
	defer rows.Close()

	maxSeg := 0
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return taxonomy.Code{}, err
		}
		c, err := taxonomy.Parse(raw)
		if err != nil {
			continue
		}
		if c.Segment(level) > maxSeg {
			maxSeg = c.Segment(level)
		}
	}
	if err := rows.Err(); err != nil {
		return taxonomy.Code{}, err
	}

	next := parentCode
	next[level-1] = maxSeg + 1
	return next, nil
}

// UpdateType renames and/or renumbers a type. A changed leading segment
// cascades top-down to every descendant category, group and account inside
// the same transaction.
func (s *Store) UpdateType(ctx context.Context, id int64, name, code string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		old, err := getTypeTx(ctx, tx, id)
		if err != nil {
			return err
		}
		newCode, err := taxonomy.Parse(code)
		if err != nil {
			return err
		}
		if newCode[1] != 0 || newCode[2] != 0 || newCode[3] != 0 {
			return fmt.Errorf("%w: type code %s must be T.0.0.000", ledger.ErrMalformedCode, newCode)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE account_type SET name = ?, code = ? WHERE id = ?`,
			name, newCode.String(), id); err != nil {
			return fmt.Errorf("update type: %w", err)
		}

		oldCode, err := taxonomy.Parse(old.Code)
		if err != nil {
			return err
		}
		if taxonomy.SharesPrefix(oldCode, newCode, taxonomy.LevelType) {
			return nil
		}
		return cascadeFromType(ctx, tx, id, newCode)
	})
}

// UpdateCategory renames/renumbers a category, optionally moving it under
// another type. Changed leading segments cascade to groups and accounts.
func (s *Store) UpdateCategory(ctx context.Context, id int64, name, code string, newTypeID *int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		old, err := getCategoryTx(ctx, tx, id)
		if err != nil {
			return err
		}
		newCode, err := taxonomy.Parse(code)
		if err != nil {
			return err
		}
		if newCode[2] != 0 || newCode[3] != 0 {
			return fmt.Errorf("%w: category code %s must be T.C.0.000", ledger.ErrMalformedCode, newCode)
		}

		typeID := old.TypeID
		if newTypeID != nil {
			typeID = *newTypeID
		}
		parent, err := getTypeTx(ctx, tx, typeID)
		if err != nil {
			return err
		}
		parentCode, err := taxonomy.Parse(parent.Code)
		if err != nil {
			return err
		}
		if !taxonomy.SharesPrefix(parentCode, newCode, taxonomy.LevelType) {
			return fmt.Errorf("%w: %s under type %s", ledger.ErrPrefixMismatch, newCode, parent.Code)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE account_category SET name = ?, code = ?, type_id = ? WHERE id = ?`,
			name, newCode.String(), typeID, id); err != nil {
			return fmt.Errorf("update category: %w", err)
		}

		oldCode, err := taxonomy.Parse(old.Code)
		if err != nil {
			return err
		}
		if taxonomy.SharesPrefix(oldCode, newCode, taxonomy.LevelCategory) {
			return nil
		}
		return cascadeFromCategory(ctx, tx, id, newCode)
	})
}

// UpdateGroup renames/renumbers a group, optionally moving it under
// another category. Changed leading segments cascade to accounts.
func (s *Store) UpdateGroup(ctx context.Context, id int64, name, code string, newCategoryID *int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		old, err := getGroupTx(ctx, tx, id)
		if err != nil {
			return err
		}
		newCode, err := taxonomy.Parse(code)
		if err != nil {
			return err
		}
		if newCode[3] != 0 {
			return fmt.Errorf("%w: group code %s must be T.C.G.000", ledger.ErrMalformedCode, newCode)
		}

		categoryID := old.CategoryID
		if newCategoryID != nil {
			categoryID = *newCategoryID
		}
		parent, err := getCategoryTx(ctx, tx, categoryID)
		if err != nil {
			return err
		}
		parentCode, err := taxonomy.Parse(parent.Code)
		if err != nil {
			return err
		}
		if !taxonomy.SharesPrefix(parentCode, newCode, taxonomy.LevelCategory) {
			return fmt.Errorf("%w: %s under category %s", ledger.ErrPrefixMismatch, newCode, parent.Code)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE account_group SET name = ?, code = ?, category_id = ? WHERE id = ?`,
			name, newCode.String(), categoryID, id); err != nil {
			return fmt.Errorf("update group: %w", err)
		}

		oldCode, err := taxonomy.Parse(old.Code)
		if err != nil {
			return err
		}
		if taxonomy.SharesPrefix(oldCode, newCode, taxonomy.LevelGroup) {
			return nil
		}
		return cascadeAccounts(ctx, tx,
			`SELECT id, code FROM account WHERE group_id = ?`, id, newCode, taxonomy.LevelGroup)
	})
}

// UpdateAccount renames/renumbers an account, optionally moving it under
// another group. Accounts have no descendants, so nothing cascades.
func (s *Store) UpdateAccount(ctx context.Context, id int64, name, description, code string, newGroupID *int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		old, err := getAccountTx(ctx, tx, id)
		if err != nil {
			return err
		}
		newCode, err := taxonomy.Parse(code)
		if err != nil {
			return err
		}

		groupID := old.GroupID
		if newGroupID != nil {
			groupID = *newGroupID
		}
		parent, err := getGroupTx(ctx, tx, groupID)
		if err != nil {
			return err
		}
		parentCode, err := taxonomy.Parse(parent.Code)
		if err != nil {
			return err
		}
		if !taxonomy.SharesPrefix(parentCode, newCode, taxonomy.LevelGroup) {
			return fmt.Errorf("%w: %s under group %s", ledger.ErrPrefixMismatch, newCode, parent.Code)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE account SET name = ?, description = ?, code = ?, group_id = ? WHERE id = ?`,
			name, description, newCode.String(), groupID, id)
		if err != nil {
			return fmt.Errorf("update account: %w", err)
		}
		return nil
	})
}

// cascadeFromType rewrites the depth-1 prefix of every descendant of a
// type, top-down: categories, then groups, then accounts.
func cascadeFromType(ctx context.Context, tx *sql.Tx, typeID int64, newCode taxonomy.Code) error {
	if err := rewriteCodes(ctx, tx,
		`SELECT id, code FROM account_category WHERE type_id = ?`,
		`UPDATE account_category SET code = ? WHERE id = ?`,
		typeID, newCode, taxonomy.LevelType); err != nil {
		return err
	}
	if err := rewriteCodes(ctx, tx,
		`SELECT g.id, g.code FROM account_group g
		 JOIN account_category c ON c.id = g.category_id
		 WHERE c.type_id = ?`,
		`UPDATE account_group SET code = ? WHERE id = ?`,
		typeID, newCode, taxonomy.LevelType); err != nil {
		return err
	}
	return rewriteCodes(ctx, tx,
		`SELECT a.id, a.code FROM account a
		 JOIN account_group g ON g.id = a.group_id
		 JOIN account_category c ON c.id = g.category_id
		 WHERE c.type_id = ?`,
		`UPDATE account SET code = ? WHERE id = ?`,
		typeID, newCode, taxonomy.LevelType)
}

// cascadeFromCategory rewrites the depth-2 prefix of a category's groups
// and accounts.
func cascadeFromCategory(ctx context.Context, tx *sql.Tx, categoryID int64, newCode taxonomy.Code) error {
	if err := rewriteCodes(ctx, tx,
		`SELECT id, code FROM account_group WHERE category_id = ?`,
		`UPDATE account_group SET code = ? WHERE id = ?`,
		categoryID, newCode, taxonomy.LevelCategory); err != nil {
		return err
	}
	return rewriteCodes(ctx, tx,
		`SELECT a.id, a.code FROM account a
		 JOIN account_group g ON g.id = a.group_id
		 WHERE g.category_id = ?`,
		`UPDATE account SET code = ? WHERE id = ?`,
		categoryID, newCode, taxonomy.LevelCategory)
}

func cascadeAccounts(ctx context.Context, tx *sql.Tx, query string, parentID int64, newCode taxonomy.Code, depth int) error {
	return rewriteCodes(ctx, tx, query,
		`UPDATE account SET code = ? WHERE id = ?`, parentID, newCode, depth)
}

// rewriteCodes applies a prefix rewrite to every row the select yields.
// Rows with unparseable codes are left untouched.
func rewriteCodes(ctx context.Context, tx *sql.Tx, selectQ, updateQ string, parentID int64, newPrefix taxonomy.Code, depth int) error {
	rows, err := tx.QueryContext(ctx, selectQ, parentID)
	if err != nil {
		return err
	}

	type rewrite struct {
		id   int64
		code string
	}
	var rewrites []rewrite
	for rows.Next() {
		var id int64
		var raw string
		if err := rows.Scan(&id, &raw); err != nil {
			rows.Close()
			return err
		}
		c, err := taxonomy.Parse(raw)
		if err != nil {
			continue
		}
		rewrites = append(rewrites, rewrite{id, c.WithPrefix(newPrefix, depth).String()})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, rw := range rewrites {
		if _, err := tx.ExecContext(ctx, updateQ, rw.code, rw.id); err != nil {
			return fmt.Errorf("cascade rewrite: %w", err)
		}
	}
	return nil
}

// DeleteType removes a type with no categories.
func (s *Store) DeleteType(ctx context.Context, id int64) error {
	return s.deleteGuarded(ctx,
		`SELECT COUNT(*) FROM account_category WHERE type_id = ?`,
		`DELETE FROM account_type WHERE id = ?`, id, "type has categories")
}

// DeleteCategory removes a category with no groups.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	return s.deleteGuarded(ctx,
		`SELECT COUNT(*) FROM account_group WHERE category_id = ?`,
		`DELETE FROM account_category WHERE id = ?`, id, "category has groups")
}

// DeleteGroup removes a group with no accounts.
func (s *Store) DeleteGroup(ctx context.Context, id int64) error {
	return s.deleteGuarded(ctx,
		`SELECT COUNT(*) FROM account WHERE group_id = ?`,
		`DELETE FROM account_group WHERE id = ?`, id, "group has accounts")
}

// DeleteAccount removes an account no journal line references.
func (s *Store) DeleteAccount(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM journal_line WHERE account_id = ?`, id).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: referenced by %d journal lines", ledger.ErrAccountInUse, n)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM account WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return ledger.ErrNodeNotFound
		}
		return nil
	})
}

func (s *Store) deleteGuarded(ctx context.Context, countQ, deleteQ string, id int64, what string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx, countQ, id).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: %s (%d)", ledger.ErrHasChildren, what, n)
		}
		res, err := tx.ExecContext(ctx, deleteQ, id)
		if err != nil {
			return fmt.Errorf("delete: %w", err)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return ledger.ErrNodeNotFound
		}
		return nil
	})
}
