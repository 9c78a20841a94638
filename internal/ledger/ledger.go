// Package ledger keeps a local SQLite record of every NFT this tool minted.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/google/uuid"
)

// ErrNotFound is returned by Get when no entry exists for a mint.
var ErrNotFound = errors.New("ledger entry not found")

// Entry is one minted and transferred NFT.
type Entry struct {
	ID            string
	Recipient     string
	Player        string
	Achievement   string
	Name          string
	Mint          string
	RecordAddress string
	MetadataURI   string
	Signature     string
	Network       string
	MintedAt      time.Time
}

// Store is a ledger backed by a SQLite database file.
type Store struct {
	db *sql.DB
}

const schema = `CREATE TABLE IF NOT EXISTS mints (
	id TEXT PRIMARY KEY,
	recipient TEXT NOT NULL,
	player TEXT,
	achievement TEXT,
	name TEXT NOT NULL,
	mint TEXT NOT NULL UNIQUE,
	record_address TEXT NOT NULL,
	metadata_uri TEXT,
	signature TEXT,
	network TEXT NOT NULL,
	minted_at TEXT NOT NULL
);`

// timeLayout has fixed width so minted_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const columns = `id, recipient, player, achievement, name, mint, record_address, metadata_uri, signature, network, minted_at`

// Open opens or creates the ledger at path, creating parent directories.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create ledger schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts e, assigning an ID and a MintedAt time when unset, and
// returns the stored entry.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.MintedAt.IsZero() {
		e.MintedAt = time.Now()
	}
	e.MintedAt = e.MintedAt.UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO mints (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Recipient, e.Player, e.Achievement, e.Name, e.Mint, e.RecordAddress,
		e.MetadataURI, e.Signature, e.Network, e.MintedAt.Format(timeLayout),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("record mint %s: %w", e.Mint, err)
	}
	return e, nil
}

// List returns up to limit entries, newest first. A limit of zero or less
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+columns+` FROM mints ORDER BY minted_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list mints: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list mints: %w", err)
	}
	return entries, nil
}

// Get returns the entry for mint, or ErrNotFound.
func (s *Store) Get(ctx context.Context, mint string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+columns+` FROM mints WHERE mint = ?`, mint)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var (
		e                                           Entry
		player, achievement, metadataURI, signature sql.NullString
		mintedAt                                    string
	)
	err := sc.Scan(&e.ID, &e.Recipient, &player, &achievement, &e.Name, &e.Mint, &e.RecordAddress,
		&metadataURI, &signature, &e.Network, &mintedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("scan mint: %w", err)
	}
	e.Player = player.String
	e.Achievement = achievement.String
	e.MetadataURI = metadataURI.String
	e.Signature = signature.String

	e.MintedAt, err = time.Parse(time.RFC3339Nano, mintedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parse minted_at %q: %w", mintedAt, err)
	}
	return e, nil
}
