package kv

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
)

// Badger stores values in an embedded Badger database.
type Badger struct {
	db *badger.DB
}

// OpenBadger opens or creates a Badger database in dir.
func OpenBadger(dir string) (*Badger, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, storeErr("badger", "open", "", err)
	}
	return &Badger{db: db}, nil
}

// Get implements Store.
func (s *Badger) Get(_ context.Context, key string) (string, bool, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storeErr("badger", "get", key, err)
	}
	return string(value), true, nil
}

// Set implements Store.
func (s *Badger) Set(_ context.Context, key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	return storeErr("badger", "set", key, err)
}

// Delete implements Store.
func (s *Badger) Delete(_ context.Context, key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	return storeErr("badger", "delete", key, err)
}

// Close implements Store.
func (s *Badger) Close() error {
	return s.db.Close()
}
