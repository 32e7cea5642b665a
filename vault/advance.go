// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"github.com/emberfi/ember/events"
)

// advance settles every epoch boundary the clock has passed since the last
// processed one. It runs at the top of every mutating entrypoint, so no
// operation can ever read a stale epoch. It is idempotent and must never
// reject the call: reconciliation anomalies clamp and raise AccountingError
// instead of reverting, because a bug must not brick withdrawals.
//
// Per boundary: the epoch's accrued reward index matures into the global
// index, the share earned by stake scheduled for removal is orphaned into
// the unallocated pool, and the eligible total is rolled forward with the
// matured rewards and the scheduled net change. If the eligible pool turns
// from empty to non-empty, buffered idle rewards are granted to the new
// epoch as a genesis bonus.
func (v *Vault) advance(now uint64) error {
	current, err := v.epochs.Current(now)
	if err != nil {
		return err
	}
	last, err := v.epochs.LastProcessed()
	if err != nil {
		return err
	}

	for e := last; e < current; e++ {
		if err := v.processBoundary(e + 1); err != nil {
			return err
		}
	}
	return nil
}

func (v *Vault) processBoundary(next uint64) error {
	eligibleBefore, err := v.stats.EligibleTotal()
	if err != nil {
		return err
	}
	_, removals, err := v.stats.Scheduled()
	if err != nil {
		return err
	}

	indexDelta, matured, orphaned, err := v.rewards.FoldEpoch(next, removals)
	if err != nil {
		return err
	}
	if orphaned.Sign() > 0 {
		// exiting stake earned this much in its last epoch but can no
		// longer realize it; the value stays in custody as unallocated
		if err := v.stats.SubStaked(orphaned); err != nil {
			return err
		}
	}

	newEligible, clamped, err := v.stats.ApplyScheduled(matured)
	if err != nil {
		return err
	}
	if clamped {
		metricAnomalies().Add(1)
		v.recorder.Add(&events.AccountingError{
			Context: "eligible-underflow",
			A:       removals,
			B:       eligibleBefore,
		})
		logger.Error("eligible total underflow clamped", "epoch", next, "removals", removals, "eligibleBefore", eligibleBefore)
	}

	if v.config.BufferWhenIdle && eligibleBefore.Sign() == 0 && newEligible.Sign() > 0 {
		credited, err := v.rewards.GrantGenesisBonus(newEligible)
		if err != nil {
			return err
		}
		if credited.Sign() > 0 {
			if err := v.stats.AddStaked(credited); err != nil {
				return err
			}
			logger.Info("genesis bonus granted", "epoch", next, "amount", credited)
		}
	}

	v.epochs.SetLastProcessed(next)
	metricEpochs().Add(1)
	v.recorder.Add(&events.EpochAdvanced{
		Epoch:            next,
		IndexDelta:       indexDelta,
		NewEligibleTotal: newEligible,
	})
	logger.Debug("epoch advanced", "epoch", next, "indexDelta", indexDelta, "eligible", newEligible)
	return nil
}
