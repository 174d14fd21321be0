package sqlite

import "database/sql"

func RunMigrations(db *sql.DB) error {
	stmts := []string{

		`CREATE TABLE IF NOT EXISTS payments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			debt_code INTEGER NOT NULL,
			payer_id TEXT NOT NULL,
			method TEXT NOT NULL,
			card_number TEXT,
			amount TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT,
			active INTEGER NOT NULL DEFAULT 1
		);`,

		`CREATE INDEX IF NOT EXISTS idx_payments_debt_code ON payments (debt_code, active);`,
		`CREATE INDEX IF NOT EXISTS idx_payments_payer_id ON payments (payer_id, active);`,
		`CREATE INDEX IF NOT EXISTS idx_payments_status ON payments (status, active);`,

		`CREATE TABLE IF NOT EXISTS outbox_events (
			id TEXT PRIMARY KEY,
			event_type TEXT NOT NULL,
			payload BLOB NOT NULL,
			published INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
