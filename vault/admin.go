// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"

	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/events"
	"github.com/emberfi/ember/vault/reverts"
)

func (v *Vault) checkOwner(caller ember.Address) error {
	owner, err := v.settings.Owner()
	if err != nil {
		return err
	}
	if caller != owner {
		return reverts.ErrUnauthorized
	}
	return nil
}

// SetBurnBasisPoints updates the burn side of the inflow split. Owner only.
func (v *Vault) SetBurnBasisPoints(caller ember.Address, bps uint64) error {
	return v.run("setBurnBasisPoints", func(now uint64) error {
		if err := v.checkOwner(caller); err != nil {
			return err
		}
		if bps > ember.MaxBasisPoints {
			return reverts.ErrInvalidBasisPoints
		}
		if err := v.advance(now); err != nil {
			return err
		}
		v.settings.SetBurnBasisPoints(bps)
		logger.Info("burn basis points updated", "bps", bps)
		return nil
	})
}

// SetFeeRouter registers the automated fee source. Owner only.
func (v *Vault) SetFeeRouter(caller, router ember.Address) error {
	return v.run("setFeeRouter", func(now uint64) error {
		if err := v.checkOwner(caller); err != nil {
			return err
		}
		if err := v.advance(now); err != nil {
			return err
		}
		v.settings.SetFeeRouter(router)
		logger.Info("fee router updated", "router", router)
		return nil
	})
}

// SetDistributor grants or revokes the right to stake on behalf of others.
// Owner only.
func (v *Vault) SetDistributor(caller, distributor ember.Address, allowed bool) error {
	return v.run("setDistributor", func(now uint64) error {
		if err := v.checkOwner(caller); err != nil {
			return err
		}
		if err := v.advance(now); err != nil {
			return err
		}
		if err := v.settings.SetDistributor(distributor, allowed); err != nil {
			return err
		}
		logger.Info("distributor updated", "distributor", distributor, "allowed", allowed)
		return nil
	})
}

// TransferOwnership hands administrative control to a new owner. Owner only.
func (v *Vault) TransferOwnership(caller, newOwner ember.Address) error {
	return v.run("transferOwnership", func(now uint64) error {
		if err := v.checkOwner(caller); err != nil {
			return err
		}
		if newOwner.IsZero() {
			return reverts.New("new owner is the zero address")
		}
		if err := v.advance(now); err != nil {
			return err
		}
		v.settings.SetOwner(newOwner)
		logger.Info("ownership transferred", "owner", newOwner)
		return nil
	})
}

// Pause suspends staking and reward intake. Withdrawals stay available.
// Owner only.
func (v *Vault) Pause(caller ember.Address) error {
	return v.run("pause", func(now uint64) error {
		if err := v.checkOwner(caller); err != nil {
			return err
		}
		paused, err := v.settings.Paused()
		if err != nil {
			return err
		}
		if paused {
			return reverts.ErrPaused
		}
		if err := v.advance(now); err != nil {
			return err
		}
		v.settings.SetPaused(true)
		logger.Info("paused")
		return nil
	})
}

// Unpause resumes staking and reward intake. The very first unpause starts
// the epoch clock. Owner only.
func (v *Vault) Unpause(caller ember.Address) error {
	return v.run("unpause", func(now uint64) error {
		if err := v.checkOwner(caller); err != nil {
			return err
		}
		paused, err := v.settings.Paused()
		if err != nil {
			return err
		}
		if !paused {
			return reverts.ErrNotPaused
		}
		if err := v.advance(now); err != nil {
			return err
		}
		started, err := v.epochs.Init(now)
		if err != nil {
			return err
		}
		if started {
			v.recorder.Add(&events.EpochInitialized{StartTime: now})
			logger.Info("epoch clock started", "startTime", now)
		}
		v.settings.SetPaused(false)
		logger.Info("unpaused")
		return nil
	})
}

// RecoverStray sends tokens held by the vault beyond what the ledger
// accounts for (direct transfers, airdrops) to the given destination.
// Staked value and unallocated rewards are untouchable. Owner only.
func (v *Vault) RecoverStray(caller, to ember.Address) (*big.Int, error) {
	var stray *big.Int
	err := v.run("recoverStray", func(now uint64) error {
		if err := v.checkOwner(caller); err != nil {
			return err
		}
		if err := v.advance(now); err != nil {
			return err
		}

		held, err := v.token.BalanceOf(v.addr)
		if err != nil {
			return err
		}
		total, err := v.stats.TotalStaked()
		if err != nil {
			return err
		}
		unallocated, err := v.rewards.Unallocated()
		if err != nil {
			return err
		}

		stray = new(big.Int).Sub(held, total)
		stray.Sub(stray, unallocated)
		if stray.Sign() <= 0 {
			return reverts.ErrZeroAmount
		}
		if err := v.transferOut(to, stray); err != nil {
			return err
		}
		logger.Info("stray balance recovered", "to", to, "amount", stray)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stray, nil
}
