// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token defines the value-transfer collaborator the ledger moves,
// and a reference in-memory implementation of it.
package token

import (
	"math/big"

	"github.com/emberfi/ember/ember"
)

// Token is the fungible asset moved by the ledger.
//
// The ledger never assumes a transfer moved the exact requested amount; it
// verifies custody by balance difference, so misbehaving (fee-on-transfer)
// implementations are detected rather than trusted.
type Token interface {
	// BalanceOf returns the balance held by addr.
	BalanceOf(addr ember.Address) (*big.Int, error)
	// Transfer moves amount from one holder to another.
	Transfer(from, to ember.Address, amount *big.Int) error
}
