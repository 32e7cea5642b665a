// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slot

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/emberfi/ember/ember"
)

// Uint256 is a storage wrapper for an unsigned big integer, similar to an
// uint256 state variable in a smart contract.
type Uint256 struct {
	context *Context
	pos     ember.Bytes32
}

// NewUint256 declares an uint256 slot at the given position.
func NewUint256(context *Context, pos ember.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: pos}
}

// Get returns the stored value, zero if unset.
func (u *Uint256) Get() (*big.Int, error) {
	raw, err := u.context.state.GetRawStorage(u.pos)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(raw), nil
}

// Set stores the given value.
func (u *Uint256) Set(value *big.Int) {
	u.context.state.SetRawStorage(u.pos, value.Bytes())
}

// Add increases the stored value by delta.
func (u *Uint256) Add(delta *big.Int) error {
	value, err := u.Get()
	if err != nil {
		return err
	}
	u.Set(value.Add(value, delta))
	return nil
}

// Sub decreases the stored value by delta.
// It fails without writing if the result would be negative.
func (u *Uint256) Sub(delta *big.Int) error {
	value, err := u.Get()
	if err != nil {
		return err
	}
	value.Sub(value, delta)
	if value.Sign() < 0 {
		return errors.Errorf("slot %v: subtraction underflow", u.pos)
	}
	u.Set(value)
	return nil
}
