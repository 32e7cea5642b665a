// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package slot provides typed accessors over the ledger's keyed storage,
// similar to declaring state variables in a smart contract.
package slot

import "github.com/emberfi/ember/state"

// Context carries the state handle shared by all slots of one ledger.
type Context struct {
	state *state.State
}

// NewContext creates a slot context over the given state.
func NewContext(state *state.State) *Context {
	return &Context{state: state}
}

// State returns the underlying state.
func (c *Context) State() *state.State {
	return c.state
}
