// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slot

import "github.com/emberfi/ember/ember"

// Address is a storage wrapper for a single address.
type Address struct {
	context *Context
	pos     ember.Bytes32
}

// NewAddress declares an address slot at the given position.
func NewAddress(context *Context, pos ember.Bytes32) *Address {
	return &Address{context: context, pos: pos}
}

// Get returns the stored address, zero address if unset.
func (a *Address) Get() (ember.Address, error) {
	raw, err := a.context.state.GetRawStorage(a.pos)
	if err != nil {
		return ember.Address{}, err
	}
	return ember.BytesToAddress(raw), nil
}

// Set stores the given address.
func (a *Address) Set(addr ember.Address) {
	a.context.state.SetRawStorage(a.pos, addr.Bytes())
}
