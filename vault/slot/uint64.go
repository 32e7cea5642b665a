// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slot

import (
	"math/big"

	"github.com/emberfi/ember/ember"
)

// Uint64 is a storage wrapper for a small counter or timestamp.
type Uint64 struct {
	context *Context
	pos     ember.Bytes32
}

// NewUint64 declares an uint64 slot at the given position.
func NewUint64(context *Context, pos ember.Bytes32) *Uint64 {
	return &Uint64{context: context, pos: pos}
}

// Get returns the stored value, zero if unset.
func (u *Uint64) Get() (uint64, error) {
	raw, err := u.context.state.GetRawStorage(u.pos)
	if err != nil {
		return 0, err
	}
	return new(big.Int).SetBytes(raw).Uint64(), nil
}

// Set stores the given value.
func (u *Uint64) Set(value uint64) {
	u.context.state.SetRawStorage(u.pos, new(big.Int).SetUint64(value).Bytes())
}
