// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accounts manages per-participant ledger records.
package accounts

import "math/big"

// Status of an account, derived from its pending fields.
type Status = uint8

const (
	StatusEmpty      = Status(iota) // no record
	StatusEligible                  // earning in the current epoch
	StatusActivating                // stake waiting for its activation epoch
	StatusExiting                   // withdrawal scheduled
)

// Account is one participant's ledger record.
//
// Balance carries principal plus every realized compounding; the account's
// share of matured epochs it has not been touched for is realized lazily by
// Settle. EligibleBalance is the portion the pool counts for the epoch the
// account last settled at.
type Account struct {
	Balance         *big.Int
	EligibleBalance *big.Int
	IndexSnapshot   *big.Int // global index as of SnapshotEpoch
	SnapshotEpoch   uint64   // last settled epoch

	ActivationAmount *big.Int // stake not yet eligible
	ActivationEpoch  uint64   // epoch at which it becomes eligible

	WithdrawalAmount *big.Int // scheduled withdrawal
	WithdrawalEpoch  uint64   // epoch at which it unlocks
}

// IsEmpty returns whether the record can be treated as nonexistent.
func (a *Account) IsEmpty() bool {
	return a.Balance.Sign() == 0 &&
		a.ActivationAmount.Sign() == 0 &&
		a.WithdrawalAmount.Sign() == 0
}

// Status derives the account's lifecycle state.
func (a *Account) Status() Status {
	switch {
	case a.WithdrawalAmount.Sign() > 0:
		return StatusExiting
	case a.ActivationAmount.Sign() > 0:
		return StatusActivating
	case a.Balance.Sign() > 0:
		return StatusEligible
	default:
		return StatusEmpty
	}
}

// Copy returns a deep copy of the account.
func (a *Account) Copy() *Account {
	return &Account{
		Balance:          new(big.Int).Set(a.Balance),
		EligibleBalance:  new(big.Int).Set(a.EligibleBalance),
		IndexSnapshot:    new(big.Int).Set(a.IndexSnapshot),
		SnapshotEpoch:    a.SnapshotEpoch,
		ActivationAmount: new(big.Int).Set(a.ActivationAmount),
		ActivationEpoch:  a.ActivationEpoch,
		WithdrawalAmount: new(big.Int).Set(a.WithdrawalAmount),
		WithdrawalEpoch:  a.WithdrawalEpoch,
	}
}

func (a *Account) normalize() {
	if a.Balance == nil {
		a.Balance = new(big.Int)
	}
	if a.EligibleBalance == nil {
		a.EligibleBalance = new(big.Int)
	}
	if a.IndexSnapshot == nil {
		a.IndexSnapshot = new(big.Int)
	}
	if a.ActivationAmount == nil {
		a.ActivationAmount = new(big.Int)
	}
	if a.WithdrawalAmount == nil {
		a.WithdrawalAmount = new(big.Int)
	}
}
