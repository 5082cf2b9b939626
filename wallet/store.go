package wallet

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	dbm "github.com/cosmos/cosmos-db"
)

// SecretStore is a small key/value store for the wallet secret.
// Get returns ok=false when the key has never been written.
type SecretStore interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// DBStore persists secrets in a cosmos-db database.
type DBStore struct {
	mu sync.Mutex
	db dbm.DB
}

// NewDBStore wraps an already opened database.
func NewDBStore(db dbm.DB) *DBStore {
	return &DBStore{db: db}
}

// NewMemStore returns a store backed by an in-memory database.
func NewMemStore() *DBStore {
	return NewDBStore(dbm.NewMemDB())
}

// OpenLevelDBStore opens (or creates) a goleveldb database named name under dir.
func OpenLevelDBStore(name, dir string) (*DBStore, error) {
	if name == "" {
		name = "wallet"
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create wallet dir: %w", err)
	}
	db, err := dbm.NewDB(name, dbm.GoLevelDBBackend, filepath.Clean(dir))
	if err != nil {
		return nil, fmt.Errorf("open wallet db: %w", err)
	}
	return NewDBStore(db), nil
}

func (s *DBStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bz, err := s.db.Get([]byte(key))
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	if bz == nil {
		return "", false, nil
	}
	return string(bz), true, nil
}

func (s *DBStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.SetSync([]byte(key), []byte(value)); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying database.
func (s *DBStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
