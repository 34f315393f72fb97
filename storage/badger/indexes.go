// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package badger implements storage.IndexStorage on BadgerDB.
package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/ticketrouter/storage"
)

const teamRecordPrefix = "teamrec"

// makeTeamKey generates the key for a team record.
func makeTeamKey(team string) []byte {
	return []byte(fmt.Sprintf("%s:%s", teamRecordPrefix, team))
}

// IndexStorage implements storage.IndexStorage for BadgerDB.
type IndexStorage struct {
	backend *Backend
}

var _ storage.IndexStorage = (*IndexStorage)(nil)

// NewIndexStorage opens a BadgerDB-backed index storage at path.
//
// Returns the storage.IndexStorage interface for consistency with the
// storage package's constructor pattern.
func NewIndexStorage(path string) (storage.IndexStorage, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return &IndexStorage{backend: backend}, nil
}

// NewMemoryIndexStorage opens an in-memory index storage, for tests.
func NewMemoryIndexStorage() (storage.IndexStorage, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}
	return &IndexStorage{backend: backend}, nil
}

// SaveTeam writes a team record in a single transaction.
func (s *IndexStorage) SaveTeam(ctx context.Context, record *storage.TeamRecord) error {
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeTeamKey(record.Team), storage.MarshalTeamRecord(record)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LoadTeam reads a team record. Returns storage.ErrNotFound when the team
// has never been saved.
func (s *IndexStorage) LoadTeam(ctx context.Context, team string) (*storage.TeamRecord, error) {
	if s.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var record *storage.TeamRecord
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeTeamKey(team))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			record, err = storage.UnmarshalTeamRecord(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Close closes the underlying database.
func (s *IndexStorage) Close() error {
	return s.backend.Close()
}
