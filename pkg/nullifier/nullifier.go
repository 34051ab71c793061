// Package nullifier implements the nullifier record: an 8-byte
// little-endian slot number, zero meaning "unspent", and a
// compare-and-insert store that enforces the Unknown -> Spent(slot)
// terminal state machine (spec.md §4.7/§9).
//
// The on-chain account-per-nullifier model spec.md §9 describes is the
// host ledger's job and out of scope here. This package provides the
// off-chain, durable counterpart a Guard-adjacent service would use: a
// Postgres-backed store, adapted from the teacher repository's
// pkg/database/client.go functional-options Client and
// proof_artifact_repository.go parameterized-SQL repository shape, plus a
// MemoryStore adapted from the teacher's main.go MemoryKV for tests and
// single-process deployments.
package nullifier

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"sync"

	_ "github.com/lib/pq"
)

// Size is the byte width of a nullifier.
const Size = 32

// ErrAlreadySpent is returned when a record for the nullifier already
// exists, whatever slot it was recorded at.
var ErrAlreadySpent = errors.New("nullifier already spent")

// EncodeSlot returns the 8-byte little-endian encoding of slot.
func EncodeSlot(slot uint64) [8]byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], slot)
	return b
}

// DecodeSlot parses an 8-byte little-endian slot.
func DecodeSlot(b [8]byte) uint64 {
	return binary.LittleEndian.Uint64(b[:])
}

// Store is a Postgres-backed nullifier record store.
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger overrides the default logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Open connects to a Postgres database using dataSourceName and returns a
// Store. Callers must call EnsureSchema once before first use and Close
// when done.
func Open(dataSourceName string, opts ...Option) (*Store, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("nullifier: opening database: %w", err)
	}
	s := &Store{db: db, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// EnsureSchema creates the nullifiers table if it does not already exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS nullifiers (
	nullifier BYTEA PRIMARY KEY,
	slot      BIGINT NOT NULL
)`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("nullifier: creating schema: %w", err)
	}
	return nil
}

// TrySpend attempts to record nullifier as spent at slot. It returns
// ErrAlreadySpent if a record already exists, implementing the
// Unknown -> Spent(slot) terminal state machine with compare-and-insert
// semantics: the insert either creates the record or fails, it never
// overwrites one.
func (s *Store) TrySpend(ctx context.Context, nullifier [Size]byte, slot uint64) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO nullifiers (nullifier, slot) VALUES ($1, $2) ON CONFLICT (nullifier) DO NOTHING`,
		nullifier[:], int64(slot))
	if err != nil {
		return fmt.Errorf("nullifier: inserting record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("nullifier: checking insert result: %w", err)
	}
	if n == 0 {
		return ErrAlreadySpent
	}
	return nil
}

// SpentSlot returns the slot a nullifier was spent at, and whether it has
// been spent at all.
func (s *Store) SpentSlot(ctx context.Context, nullifier [Size]byte) (uint64, bool, error) {
	var slot int64
	err := s.db.QueryRowContext(ctx,
		`SELECT slot FROM nullifiers WHERE nullifier = $1`, nullifier[:]).Scan(&slot)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("nullifier: querying record: %w", err)
	}
	return uint64(slot), true, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// MemoryStore is an in-process nullifier store for tests and
// single-process deployments, adapted from the teacher's main.go MemoryKV.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[[Size]byte]uint64
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[[Size]byte]uint64)}
}

// TrySpend records nullifier as spent at slot, or returns ErrAlreadySpent.
func (m *MemoryStore) TrySpend(nullifier [Size]byte, slot uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[nullifier]; ok {
		return ErrAlreadySpent
	}
	m.records[nullifier] = slot
	return nil
}

// SpentSlot returns the slot a nullifier was spent at, and whether it has
// been spent at all.
func (m *MemoryStore) SpentSlot(nullifier [Size]byte) (uint64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	slot, ok := m.records[nullifier]
	return slot, ok
}
