// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"math/big"

	"github.com/emberfi/ember/ember"
)

// IndexSource reads the matured reward index as of an epoch's start.
type IndexSource interface {
	IndexAt(epoch uint64) (*big.Int, error)
}

// Settlement is the outcome of bringing an account up to a settled epoch.
type Settlement struct {
	Gains     *big.Int // rewards realized into the balance
	Activated *big.Int // pending stake matured into the eligible balance
}

// Settle advances the account's view epoch by epoch up to settledEpoch,
// realizing the account's share of each matured epoch.
//
// Each epoch's gain is computed over the eligible balance the account held
// at that epoch's start and then compounds into the balance for the next
// one, mirroring how the pool folds matured rewards into the eligible total
// at every boundary. Because the walk depends only on the index history, two
// equal stakes realize identical rewards no matter how often either is
// touched in between.
func (a *Account) Settle(src IndexSource, settledEpoch uint64) (*Settlement, error) {
	result := &Settlement{Gains: new(big.Int), Activated: new(big.Int)}
	if settledEpoch < a.SnapshotEpoch {
		return result, nil
	}

	eligible := new(big.Int).Set(a.EligibleBalance)
	index := new(big.Int).Set(a.IndexSnapshot)

	for e := a.SnapshotEpoch; e < settledEpoch; e++ {
		if a.ActivationAmount.Sign() > 0 && a.ActivationEpoch <= e {
			eligible.Add(eligible, a.ActivationAmount)
			result.Activated.Add(result.Activated, a.ActivationAmount)
			a.ActivationAmount = new(big.Int)
		}

		next, err := src.IndexAt(e + 1)
		if err != nil {
			return nil, err
		}
		delta := new(big.Int).Sub(next, index)

		gain := delta.Mul(eligible, delta)
		gain.Div(gain, ember.IndexPrecision)
		result.Gains.Add(result.Gains, gain)
		eligible.Add(eligible, gain)

		index = next
	}

	// an activation maturing exactly at the settled epoch joins now and
	// starts earning this epoch
	if a.ActivationAmount.Sign() > 0 && a.ActivationEpoch <= settledEpoch {
		eligible.Add(eligible, a.ActivationAmount)
		result.Activated.Add(result.Activated, a.ActivationAmount)
		a.ActivationAmount = new(big.Int)
	}

	a.Balance = new(big.Int).Add(a.Balance, result.Gains)
	a.EligibleBalance = eligible
	a.IndexSnapshot = index
	a.SnapshotEpoch = settledEpoch
	return result, nil
}

// PreviewSettle computes the settlement for the account without mutating it.
func (a *Account) PreviewSettle(src IndexSource, settledEpoch uint64) (*Settlement, error) {
	return a.Copy().Settle(src, settledEpoch)
}
