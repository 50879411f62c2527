package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/diarium/diarium/internal/ledger"
	"github.com/diarium/diarium/internal/taxonomy"
)

func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var version int
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version < 1 {
		if err := migrateV1(ctx, tx); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return tx.Commit()
}

func migrateV1(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS chart_plan (
			id   INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,

		// plan_id is nullable: legacy rows without a plan assignment are
		// the target of the ClonePlan fallback.
		`CREATE TABLE IF NOT EXISTS account_type (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			plan_id INTEGER REFERENCES chart_plan(id),
			name    TEXT NOT NULL,
			code    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_account_type_plan ON account_type(plan_id)`,

		`CREATE TABLE IF NOT EXISTS account_category (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			type_id INTEGER NOT NULL REFERENCES account_type(id),
			name    TEXT NOT NULL,
			code    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_account_category_type ON account_category(type_id)`,

		`CREATE TABLE IF NOT EXISTS account_group (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			category_id INTEGER NOT NULL REFERENCES account_category(id),
			name        TEXT NOT NULL,
			code        TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_account_group_category ON account_group(category_id)`,

		`CREATE TABLE IF NOT EXISTS account (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			group_id    INTEGER NOT NULL REFERENCES account_group(id),
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			code        TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_account_group ON account(group_id)`,
		`CREATE INDEX IF NOT EXISTS idx_account_code ON account(code)`,

		`CREATE TABLE IF NOT EXISTS journal_book (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			month            INTEGER NOT NULL,
			year             INTEGER NOT NULL,
			company          TEXT NOT NULL,
			accountant       TEXT NOT NULL,
			total_debit      TEXT NOT NULL DEFAULT '0',
			total_credit     TEXT NOT NULL DEFAULT '0',
			plan_id          INTEGER NOT NULL DEFAULT 0,
			origin           TEXT NOT NULL DEFAULT 'created',
			import_timestamp TEXT,
			import_ref       TEXT,
			last_sequence    INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS journal_entry (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			book_id         INTEGER NOT NULL REFERENCES journal_book(id),
			date            TEXT NOT NULL,
			sequence_number INTEGER NOT NULL,
			memo            TEXT NOT NULL DEFAULT '',
			UNIQUE(book_id, sequence_number)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_entry_book ON journal_entry(book_id)`,

		`CREATE TABLE IF NOT EXISTS journal_line (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			entry_id   INTEGER NOT NULL REFERENCES journal_entry(id),
			account_id INTEGER NOT NULL REFERENCES account(id),
			debit      TEXT NOT NULL DEFAULT '0',
			credit     TEXT NOT NULL DEFAULT '0'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_line_entry ON journal_line(entry_id)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_line_account ON journal_line(account_id)`,

		`INSERT INTO schema_version (version) VALUES (1)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}

	return seedGeneralPlan(ctx, tx)
}

// seedGeneralPlan installs the reserved General plan (id 0) and its
// standard catalog. Parentage is resolved from the code prefixes of the
// seed data.
func seedGeneralPlan(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO chart_plan (id, name) VALUES (?, 'General')`, ledger.GeneralPlanID); err != nil {
		return fmt.Errorf("seed general plan: %w", err)
	}

	var n int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM account_type WHERE plan_id = ?`, ledger.GeneralPlanID).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	typeIDs := make(map[int]int64)
	for _, t := range ledger.SeedTypes {
		code, err := taxonomy.Parse(t.Code)
		if err != nil {
			return fmt.Errorf("seed type %s: %w", t.Code, err)
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO account_type (plan_id, name, code) VALUES (?, ?, ?)`,
			ledger.GeneralPlanID, t.Name, code.String())
		if err != nil {
			return fmt.Errorf("seed type %s: %w", t.Code, err)
		}
		id, _ := res.LastInsertId()
		typeIDs[code.Segment(1)] = id
	}

	catIDs := make(map[[2]int]int64)
	for _, c := range ledger.SeedCategories {
		code, err := taxonomy.Parse(c.Code)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.Code, err)
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO account_category (type_id, name, code) VALUES (?, ?, ?)`,
			typeIDs[code.Segment(1)], c.Name, code.String())
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.Code, err)
		}
		id, _ := res.LastInsertId()
		catIDs[[2]int{code.Segment(1), code.Segment(2)}] = id
	}

	groupIDs := make(map[[3]int]int64)
	for _, g := range ledger.SeedGroups {
		code, err := taxonomy.Parse(g.Code)
		if err != nil {
			return fmt.Errorf("seed group %s: %w", g.Code, err)
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO account_group (category_id, name, code) VALUES (?, ?, ?)`,
			catIDs[[2]int{code.Segment(1), code.Segment(2)}], g.Name, code.String())
		if err != nil {
			return fmt.Errorf("seed group %s: %w", g.Code, err)
		}
		id, _ := res.LastInsertId()
		groupIDs[[3]int{code.Segment(1), code.Segment(2), code.Segment(3)}] = id
	}

	for _, a := range ledger.SeedAccounts {
		code, err := taxonomy.Parse(a.Code)
		if err != nil {
			return fmt.Errorf("seed account %s: %w", a.Code, err)
		}
		gid := groupIDs[[3]int{code.Segment(1), code.Segment(2), code.Segment(3)}]
		if gid == 0 {
			return fmt.Errorf("seed account %s: no group for prefix", a.Code)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO account (group_id, name, description, code) VALUES (?, ?, ?, ?)`,
			gid, a.Name, a.Description, code.String()); err != nil {
			return fmt.Errorf("seed account %s: %w", a.Code, err)
		}
	}

	return nil
}
