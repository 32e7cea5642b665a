// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slot

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/emberfi/ember/ember"
)

// Key is anything usable as a mapping key.
type Key interface {
	Bytes() []byte
}

// Mapping is a key/value storage abstraction, similar to a mapping state
// variable in a smart contract. Values are rlp-encoded.
type Mapping[K Key, V any] struct {
	context *Context
	basePos ember.Bytes32
}

// NewMapping declares a mapping rooted at the given position.
func NewMapping[K Key, V any](context *Context, pos ember.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) ember.Bytes32 {
	return ember.Keccak256(key.Bytes(), m.basePos.Bytes())
}

// Get returns the value stored under key. Missing entries decode to the
// zero value (pointer kinds are allocated).
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.position(key), func(raw []byte) error {
		if reflect.ValueOf(&value).Elem().Kind() == reflect.Ptr {
			value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
		}
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

// Set stores value under key.
func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.context.state.EncodeStorage(m.position(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Delete removes the entry under key.
func (m *Mapping[K, V]) Delete(key K) {
	m.context.state.SetRawStorage(m.position(key), nil)
}
