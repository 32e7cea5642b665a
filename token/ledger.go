// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"
	"sync"

	"github.com/pkg/errors"

	"github.com/emberfi/ember/ember"
)

// Ledger is an in-memory Token used by solo mode and tests.
type Ledger struct {
	mu       sync.Mutex
	balances map[ember.Address]*big.Int
	supply   *big.Int
}

var _ Token = (*Ledger)(nil)

// NewLedger creates an empty token ledger.
func NewLedger() *Ledger {
	return &Ledger{
		balances: make(map[ember.Address]*big.Int),
		supply:   new(big.Int),
	}
}

// TotalSupply returns the sum of all balances.
func (l *Ledger) TotalSupply() *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).Set(l.supply)
}

// BalanceOf returns the balance held by addr.
func (l *Ledger) BalanceOf(addr ember.Address) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if balance, ok := l.balances[addr]; ok {
		return new(big.Int).Set(balance), nil
	}
	return new(big.Int), nil
}

// Mint credits amount to addr out of nothing.
func (l *Ledger) Mint(addr ember.Address, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.add(addr, amount)
	l.supply.Add(l.supply, amount)
}

// Transfer moves amount from one holder to another.
func (l *Ledger) Transfer(from, to ember.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("negative amount")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	balance, ok := l.balances[from]
	if !ok || balance.Cmp(amount) < 0 {
		return errors.Errorf("insufficient balance of %v", from)
	}
	balance.Sub(balance, amount)
	l.add(to, amount)
	return nil
}

func (l *Ledger) add(addr ember.Address, amount *big.Int) {
	if balance, ok := l.balances[addr]; ok {
		balance.Add(balance, amount)
		return
	}
	l.balances[addr] = new(big.Int).Set(amount)
}
