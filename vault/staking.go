// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"

	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/events"
	"github.com/emberfi/ember/vault/accounts"
	"github.com/emberfi/ember/vault/reverts"
)

// Stake deposits amount for the caller. The stake joins the eligible pool
// at the next epoch boundary and first earns in that epoch. Rejected while
// paused or while a withdrawal is scheduled.
func (v *Vault) Stake(staker ember.Address, amount *big.Int) error {
	return v.run("stake", func(now uint64) error {
		if amount == nil || amount.Sign() <= 0 {
			return reverts.ErrZeroAmount
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
		return v.stakeFor(staker, staker, amount, now)
	})
}

// StakeOnBehalfOf deposits the caller's funds to user's account. Restricted
// to whitelisted distributors; the activation delay applies unchanged.
func (v *Vault) StakeOnBehalfOf(caller, user ember.Address, amount *big.Int) error {
	return v.run("stakeOnBehalfOf", func(now uint64) error {
		if amount == nil || amount.Sign() <= 0 {
			return reverts.ErrZeroAmount
		}
		allowed, err := v.settings.IsDistributor(caller)
		if err != nil {
			return err
		}
		if !allowed {
			return reverts.ErrUnauthorized
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
		return v.stakeFor(caller, user, amount, now)
	})
}

// stakeFor runs the shared deposit path. All ledger effects land before the
// token is touched; the transfer-in with its exact-amount check goes last.
func (v *Vault) stakeFor(funder, staker ember.Address, amount *big.Int, now uint64) error {
	acc, err := v.accounts.Get(staker)
	if err != nil {
		return err
	}
	if acc.WithdrawalAmount.Sign() > 0 {
		return reverts.ErrPendingWithdrawalExists
	}
	fresh := acc.IsEmpty()

	current, err := v.epochs.Current(now)
	if err != nil {
		return err
	}
	if err := v.settle(staker, acc, current); err != nil {
		return err
	}

	// after settling, any remaining activation already targets the next
	// epoch, so the new increment merges with it
	acc.ActivationAmount = new(big.Int).Add(acc.ActivationAmount, amount)
	acc.ActivationEpoch = current + 1
	acc.Balance = new(big.Int).Add(acc.Balance, amount)

	if err := v.stats.ScheduleAddition(amount); err != nil {
		return err
	}
	if err := v.stats.AddStaked(amount); err != nil {
		return err
	}
	if fresh {
		if err := v.stats.IncAccounts(); err != nil {
			return err
		}
	}
	if err := v.accounts.Set(staker, acc); err != nil {
		return err
	}

	if err := v.transferIn(funder, amount); err != nil {
		return err
	}
	v.recorder.Add(&events.Staked{User: staker, Amount: amount})
	logger.Debug("staked", "user", staker, "amount", amount, "activates", current+1)
	return nil
}

// Unstake schedules the caller's full balance for withdrawal at the next
// epoch boundary. Everything earned up to now compounds first; the eligible
// portion leaves the pool at the boundary and a not-yet-matured activation
// is simply cancelled. Never blocked by pause.
func (v *Vault) Unstake(staker ember.Address) error {
	return v.run("unstake", func(now uint64) error {
		if err := v.advance(now); err != nil {
			return err
		}

		acc, err := v.accounts.Get(staker)
		if err != nil {
			return err
		}
		if acc.WithdrawalAmount.Sign() > 0 {
			return reverts.ErrPendingWithdrawalExists
		}
		if acc.IsEmpty() {
			return reverts.ErrNothingStaked
		}

		current, err := v.epochs.Current(now)
		if err != nil {
			return err
		}
		if err := v.settle(staker, acc, current); err != nil {
			return err
		}

		if acc.ActivationAmount.Sign() > 0 {
			if err := v.stats.CancelAddition(acc.ActivationAmount); err != nil {
				return err
			}
		}
		if acc.EligibleBalance.Sign() > 0 {
			if err := v.stats.ScheduleRemoval(acc.EligibleBalance); err != nil {
				return err
			}
		}

		acc.WithdrawalAmount = new(big.Int).Set(acc.Balance)
		acc.WithdrawalEpoch = current + 1
		acc.EligibleBalance = new(big.Int)
		acc.ActivationAmount = new(big.Int)
		if err := v.accounts.Set(staker, acc); err != nil {
			return err
		}

		v.recorder.Add(&events.UnstakeScheduled{User: staker, Amount: acc.WithdrawalAmount, UnlockEpoch: acc.WithdrawalEpoch})
		logger.Debug("unstake scheduled", "user", staker, "amount", acc.WithdrawalAmount, "unlocks", acc.WithdrawalEpoch)
		return nil
	})
}

// FinalizeUnstake pays out a scheduled withdrawal once its unlock epoch has
// been reached and erases the account. Never blocked by pause.
func (v *Vault) FinalizeUnstake(staker ember.Address) error {
	return v.run("finalizeUnstake", func(now uint64) error {
		if err := v.advance(now); err != nil {
			return err
		}

		acc, err := v.accounts.Get(staker)
		if err != nil {
			return err
		}
		if acc.WithdrawalAmount.Sign() == 0 {
			return reverts.ErrNoPendingWithdrawal
		}
		current, err := v.epochs.Current(now)
		if err != nil {
			return err
		}
		if current < acc.WithdrawalEpoch {
			return reverts.ErrWithdrawalLocked
		}

		amount := acc.WithdrawalAmount
		if err := v.accounts.Set(staker, &accounts.Account{}); err != nil {
			return err
		}
		if err := v.stats.SubStaked(amount); err != nil {
			return err
		}
		remaining, err := v.stats.DecAccounts()
		if err != nil {
			return err
		}
		if remaining == 0 {
			if err := v.sweepResidue(); err != nil {
				return err
			}
		}

		if err := v.transferOut(staker, amount); err != nil {
			return err
		}
		v.recorder.Add(&events.Unstaked{User: staker, Amount: amount})
		logger.Debug("unstaked", "user", staker, "amount", amount)
		return nil
	})
}

// sweepResidue runs when the last account record is erased. Settlement
// floors each holder's gain per epoch while the pool credits one floored
// total, so holders collectively realize slightly less than the pool
// counted; whatever staked or eligible value is still recorded at this
// point belongs to no one. It moves to the unallocated pool, keeping
// custody fully accounted and ready to be granted when stake returns.
func (v *Vault) sweepResidue() error {
	residue, err := v.stats.Drain()
	if err != nil {
		return err
	}
	v.rewards.DiscardEpoch()
	if residue.Sign() > 0 {
		if err := v.rewards.AddUnallocated(residue); err != nil {
			return err
		}
		logger.Info("rounding residue swept", "amount", residue)
	}
	return nil
}

// EmergencyExit schedules the caller's principal for withdrawal without
// realizing rewards: unrealized gains are forfeited to the unallocated pool
// in exchange for immediacy. Pool eligibility the account would have carried,
// including activation matured while untouched, is fully unwound so no ghost
// eligibility survives. Available while paused.
func (v *Vault) EmergencyExit(staker ember.Address) error {
	return v.run("emergencyExit", func(now uint64) error {
		if err := v.advance(now); err != nil {
			return err
		}

		acc, err := v.accounts.Get(staker)
		if err != nil {
			return err
		}
		if acc.WithdrawalAmount.Sign() > 0 {
			return reverts.ErrPendingWithdrawalExists
		}
		if acc.IsEmpty() {
			return reverts.ErrNothingStaked
		}

		current, err := v.epochs.Current(now)
		if err != nil {
			return err
		}

		// what the pool currently counts for this account: its eligible
		// units with every matured epoch compounded and any matured
		// activation joined. Settled on a copy; the stored record keeps
		// its unrealized state and the gains are forfeited.
		settled := acc.Copy()
		settlement, err := settled.Settle(v.rewards, current)
		if err != nil {
			return err
		}

		if settled.ActivationAmount.Sign() > 0 {
			if err := v.stats.CancelAddition(settled.ActivationAmount); err != nil {
				return err
			}
		}
		if settled.EligibleBalance.Sign() > 0 {
			if err := v.stats.ScheduleRemoval(settled.EligibleBalance); err != nil {
				return err
			}
		}
		if settlement.Gains.Sign() > 0 {
			if err := v.stats.SubStaked(settlement.Gains); err != nil {
				return err
			}
			if err := v.rewards.AddUnallocated(settlement.Gains); err != nil {
				return err
			}
		}

		acc.WithdrawalAmount = new(big.Int).Set(acc.Balance)
		acc.WithdrawalEpoch = current + 1
		acc.EligibleBalance = new(big.Int)
		acc.ActivationAmount = new(big.Int)
		// snapshot moves up so no later touch can re-realize the forfeit
		acc.IndexSnapshot = settled.IndexSnapshot
		acc.SnapshotEpoch = settled.SnapshotEpoch
		if err := v.accounts.Set(staker, acc); err != nil {
			return err
		}

		v.recorder.Add(&events.EmergencyExit{User: staker, Amount: acc.WithdrawalAmount})
		logger.Info("emergency exit", "user", staker, "amount", acc.WithdrawalAmount, "forfeited", settlement.Gains)
		return nil
	})
}

// Touch realizes addr's matured rewards and activations without moving any
// value. Callable by anyone, on anyone; integrators use it to get an exact
// on-ledger balance.
func (v *Vault) Touch(addr ember.Address) error {
	return v.run("touch", func(now uint64) error {
		if err := v.advance(now); err != nil {
			return err
		}

		acc, err := v.accounts.Get(addr)
		if err != nil {
			return err
		}
		if acc.IsEmpty() {
			return nil
		}

		current, err := v.epochs.Current(now)
		if err != nil {
			return err
		}
		if err := v.settle(addr, acc, current); err != nil {
			return err
		}
		return v.accounts.Set(addr, acc)
	})
}

// settle realizes the account's matured rewards and activations in place
// and records the compounding event.
func (v *Vault) settle(addr ember.Address, acc *accounts.Account, current uint64) error {
	settlement, err := acc.Settle(v.rewards, current)
	if err != nil {
		return err
	}
	if settlement.Gains.Sign() > 0 {
		v.recorder.Add(&events.RewardsCompounded{User: addr, Amount: settlement.Gains})
	}
	return nil
}
