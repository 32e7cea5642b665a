// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the ledger's keyed storage, with checkpoint/revert
// semantics and batched persistence.
package state

import (
	"fmt"

	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/kv"
	"github.com/emberfi/ember/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// State manages the ledger storage.
// All reads fall through uncommitted revisions down to the backing store;
// all writes stay in revisions until Commit.
type State struct {
	store kv.GetPutter
	sm    *stackedmap.StackedMap[ember.Bytes32, []byte]
}

// New creates a state object backed by the given store.
func New(store kv.GetPutter) *State {
	s := &State{store: store}
	s.sm = stackedmap.New(func(key ember.Bytes32) ([]byte, bool, error) {
		raw, err := store.Get(key.Bytes())
		if err != nil {
			if store.IsNotFound(err) {
				return nil, true, nil
			}
			return nil, false, &Error{err}
		}
		return raw, true, nil
	})
	// base revision holds all writes until Commit
	s.sm.Push()
	return s
}

// GetRawStorage returns the raw value for the given key.
// Missing keys yield a zero-length value, never an error.
func (s *State) GetRawStorage(key ember.Bytes32) ([]byte, error) {
	raw, _, err := s.sm.Get(key)
	return raw, err
}

// SetRawStorage sets the raw value for the given key.
// A zero-length value deletes the key on Commit.
func (s *State) SetRawStorage(key ember.Bytes32, raw []byte) {
	s.sm.Put(key, raw)
}

// DecodeStorage loads the raw value for the given key and calls dec to decode it.
func (s *State) DecodeStorage(key ember.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// EncodeStorage calls enc to encode a value and stores it under the given key.
func (s *State) EncodeStorage(key ember.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(key, raw)
	return nil
}

// NewCheckpoint makes a checkpoint of the current state.
// It returns the checkpoint to be passed to RevertTo.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo reverts the state to the given checkpoint.
func (s *State) RevertTo(checkpoint int) {
	s.sm.PopTo(checkpoint)
}

// Commit writes all buffered changes to the backing store in one batch and
// collapses the revision stack.
func (s *State) Commit() error {
	batch := s.store.NewBatch()

	var err error
	dirty := make(map[ember.Bytes32][]byte)
	s.sm.Journal(func(key ember.Bytes32, value []byte) bool {
		dirty[key] = value // last write wins
		return true
	})
	for key, value := range dirty {
		if len(value) == 0 {
			err = batch.Delete(key.Bytes())
		} else {
			err = batch.Put(key.Bytes(), value)
		}
		if err != nil {
			return &Error{err}
		}
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}

	s.sm.PopTo(0)
	s.sm.Push()
	return nil
}
