// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"

	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/events"
	"github.com/emberfi/ember/vault/reverts"
	"github.com/emberfi/ember/vault/rewards"
)

// Distribute accepts a reward inflow from the owner (bootstrap mode) or the
// registered fee router (automated mode). The burn portion leaves custody
// for the burn address; the reward portion accrues to the current epoch's
// index and matures for holders at the next boundary.
//
// While nothing is eligible the reward portion is buffered as a genesis
// bonus or rejected, per configuration. Rejected while paused.
func (v *Vault) Distribute(caller ember.Address, amount *big.Int) error {
	return v.run("distribute", func(now uint64) error {
		if amount == nil || amount.Sign() <= 0 {
			return reverts.ErrZeroAmount
		}
		if err := v.checkFeeSource(caller); err != nil {
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

		bps, err := v.settings.BurnBasisPoints()
		if err != nil {
			return err
		}
		burn, reward := rewards.Split(amount, bps)

		eligible, err := v.stats.EligibleTotal()
		if err != nil {
			return err
		}
		if reward.Sign() == 0 {
			// full-burn split, nothing accrues
		} else if eligible.Sign() == 0 {
			if !v.config.BufferWhenIdle {
				return reverts.ErrNoEligibleStake
			}
			if err := v.rewards.AddUnallocated(reward); err != nil {
				return err
			}
			logger.Info("idle inflow buffered", "reward", reward)
		} else {
			credited, err := v.rewards.Accrue(reward, eligible)
			if err != nil {
				return err
			}
			// credited value is already in every eligible holder's
			// future balance
			if err := v.stats.AddStaked(credited); err != nil {
				return err
			}
		}

		if err := v.transferIn(caller, amount); err != nil {
			return err
		}
		if burn.Sign() > 0 {
			if err := v.transferOut(ember.BurnAddress, burn); err != nil {
				return err
			}
		}

		v.recorder.Add(&events.RewardsDistributed{Total: amount, Burned: burn, Rewarded: reward})
		logger.Debug("rewards distributed", "total", amount, "burned", burn, "rewarded", reward)
		return nil
	})
}

func (v *Vault) checkFeeSource(caller ember.Address) error {
	owner, err := v.settings.Owner()
	if err != nil {
		return err
	}
	if caller == owner {
		return nil
	}
	router, err := v.settings.FeeRouter()
	if err != nil {
		return err
	}
	if !router.IsZero() && caller == router {
		return nil
	}
	return reverts.ErrUnauthorized
}
