package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const sqliteFile = "workspace.db"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS allocations (
    deposit_key  TEXT PRIMARY KEY,
    mining_units INTEGER NOT NULL CHECK (mining_units > 0)
);
CREATE TABLE IF NOT EXISTS prices (
    resource TEXT PRIMARY KEY,
    price    REAL NOT NULL
);
`

// SQLiteStore keeps both snapshots in one SQLite file. Each save
// replaces the full snapshot in a single transaction, matching the
// file backend's snapshot-not-audit-log contract.
type SQLiteStore struct {
	sqlDB *sql.DB
	log   zerolog.Logger
}

func OpenSQLiteStore(dir string, log zerolog.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	path := filepath.Join(dir, sqliteFile)
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite store: %w", err)
	}
	if _, err := sqlDB.Exec(sqliteSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("bootstrap sqlite schema: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB, log: log}, nil
}

func (s *SQLiteStore) LoadAllocations() map[string]int {
	units := make(map[string]int)
	rows, err := s.sqlDB.Query(`SELECT deposit_key, mining_units FROM allocations`)
	if err != nil {
		s.log.Warn().Err(err).Msg("allocation query failed, starting empty")
		return units
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			s.log.Warn().Err(err).Msg("allocation row unreadable, skipping")
			continue
		}
		units[key] = count
	}
	if err := rows.Err(); err != nil {
		s.log.Warn().Err(err).Msg("allocation scan aborted")
	}
	return units
}

func (s *SQLiteStore) SaveAllocations(units map[string]int) error {
	return s.replaceSnapshot("allocations", func(tx *sql.Tx) error {
		for key, count := range units {
			if count <= 0 {
				continue
			}
			if _, err := tx.Exec(
				`INSERT INTO allocations (deposit_key, mining_units) VALUES (?, ?)`,
				key, count,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) LoadPrices() map[string]float64 {
	prices := make(map[string]float64)
	rows, err := s.sqlDB.Query(`SELECT resource, price FROM prices`)
	if err != nil {
		s.log.Warn().Err(err).Msg("price query failed, starting empty")
		return prices
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var price float64
		if err := rows.Scan(&name, &price); err != nil {
			s.log.Warn().Err(err).Msg("price row unreadable, skipping")
			continue
		}
		prices[name] = price
	}
	if err := rows.Err(); err != nil {
		s.log.Warn().Err(err).Msg("price scan aborted")
	}
	return prices
}

func (s *SQLiteStore) SavePrices(prices map[string]float64) error {
	return s.replaceSnapshot("prices", func(tx *sql.Tx) error {
		for name, price := range prices {
			if _, err := tx.Exec(
				`INSERT INTO prices (resource, price) VALUES (?, ?)`,
				name, price,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *SQLiteStore) replaceSnapshot(table string, insert func(tx *sql.Tx) error) error {
	tx, err := s.sqlDB.Begin()
	if err != nil {
		return fmt.Errorf("begin %s snapshot: %w", table, err)
	}
	if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear %s snapshot: %w", table, err)
	}
	if err := insert(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("write %s snapshot: %w", table, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s snapshot: %w", table, err)
	}
	return nil
}
