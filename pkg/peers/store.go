/*
 * Copyright 2025 The StrataSTOR Authors and Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package peers

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stratastor/logger"
	"github.com/stratastor/warren/pkg/errors"
)

const keyPrefix = "peer/"

// Store is a badger-backed peer record store
type Store struct {
	db     *badger.DB
	logger logger.Logger
}

// NewStore opens (or creates) the peer database at path. An empty path
// selects an in-memory database, used by tests.
func NewStore(path string, l logger.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, errors.PeerStoreFailed).
			WithMetadata("path", path)
	}
	return &Store{db: db, logger: l}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Create(input PeerInput) (Peer, error) {
	now := time.Now().UTC()
	p := Peer{
		ID:                uuid.NewString(),
		Name:              input.Name,
		Description:       input.Description,
		SSHPort:           input.SSHPort,
		SSHRemoteHostname: input.SSHRemoteHostname,
		SSHRemoteUser:     input.SSHRemoteUser,
		SSHRemoteHostkey:  input.SSHRemoteHostkey,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if p.SSHPort == 0 {
		p.SSHPort = 22
	}

	if err := s.put(p); err != nil {
		return Peer{}, err
	}
	return p, nil
}

func (s *Store) Update(id string, input PeerInput) (Peer, error) {
	p, err := s.Get(id)
	if err != nil {
		return Peer{}, err
	}

	p.Name = input.Name
	p.Description = input.Description
	p.SSHRemoteHostname = input.SSHRemoteHostname
	p.SSHRemoteUser = input.SSHRemoteUser
	p.SSHRemoteHostkey = input.SSHRemoteHostkey
	if input.SSHPort != 0 {
		p.SSHPort = input.SSHPort
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.put(p); err != nil {
		return Peer{}, err
	}
	return p, nil
}

func (s *Store) Get(id string) (Peer, error) {
	var p Peer
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	if err == badger.ErrKeyNotFound {
		return Peer{}, errors.New(errors.PeerNotFound,
			fmt.Sprintf("peer %q not found", id))
	}
	if err != nil {
		return Peer{}, errors.Wrap(err, errors.PeerStoreFailed)
	}
	return p, nil
}

func (s *Store) List() ([]Peer, error) {
	var out []Peer
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var p Peer
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &p)
			})
			if err != nil {
				return err
			}
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.PeerStoreFailed)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) Delete(id string) error {
	// Get first so a missing record reports PeerNotFound rather than
	// silently succeeding
	if _, err := s.Get(id); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyPrefix + id))
	})
	if err != nil {
		return errors.Wrap(err, errors.PeerStoreFailed)
	}
	return nil
}

func (s *Store) put(p Peer) error {
	data, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, errors.PeerStoreFailed)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+p.ID), data)
	})
	if err != nil {
		return errors.Wrap(err, errors.PeerStoreFailed)
	}
	return nil
}
