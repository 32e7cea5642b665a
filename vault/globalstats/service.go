// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package globalstats manages the pool-wide staking totals.
package globalstats

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/vault/slot"
)

var (
	slotTotalStaked        = ember.BytesToBytes32([]byte("total-staked"))
	slotEligibleTotal      = ember.BytesToBytes32([]byte("eligible-total"))
	slotScheduledAdditions = ember.BytesToBytes32([]byte("scheduled-additions"))
	slotScheduledRemovals  = ember.BytesToBytes32([]byte("scheduled-removals"))
	slotAccountCount       = ember.BytesToBytes32([]byte("account-count"))
)

// Service tracks the pool totals: all staked value, the portion eligible to
// earn in the current epoch, and the net changes queued for the next
// boundary. Eligible stake only ever changes at epoch boundaries; the
// scheduled counters carry everything that happens in between.
type Service struct {
	totalStaked        *slot.Uint256
	eligibleTotal      *slot.Uint256
	scheduledAdditions *slot.Uint256
	scheduledRemovals  *slot.Uint256
	accountCount       *slot.Uint64
}

// New creates the service over the given slot context.
func New(sctx *slot.Context) *Service {
	return &Service{
		totalStaked:        slot.NewUint256(sctx, slotTotalStaked),
		eligibleTotal:      slot.NewUint256(sctx, slotEligibleTotal),
		scheduledAdditions: slot.NewUint256(sctx, slotScheduledAdditions),
		scheduledRemovals:  slot.NewUint256(sctx, slotScheduledRemovals),
		accountCount:       slot.NewUint64(sctx, slotAccountCount),
	}
}

// TotalStaked returns the sum of all account balances, realized or not.
func (s *Service) TotalStaked() (*big.Int, error) {
	return s.totalStaked.Get()
}

// AddStaked increases the total staked value.
func (s *Service) AddStaked(amount *big.Int) error {
	return s.totalStaked.Add(amount)
}

// SubStaked decreases the total staked value.
func (s *Service) SubStaked(amount *big.Int) error {
	return s.totalStaked.Sub(amount)
}

// AccountCount returns the number of live account records.
func (s *Service) AccountCount() (uint64, error) {
	return s.accountCount.Get()
}

// IncAccounts records a new account record.
func (s *Service) IncAccounts() error {
	count, err := s.accountCount.Get()
	if err != nil {
		return err
	}
	s.accountCount.Set(count + 1)
	return nil
}

// DecAccounts records an erased account record and returns how many remain.
func (s *Service) DecAccounts() (uint64, error) {
	count, err := s.accountCount.Get()
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, errors.New("globalstats: account count underflow")
	}
	count--
	s.accountCount.Set(count)
	return count, nil
}

// EligibleTotal returns the stake eligible to earn in the current epoch.
func (s *Service) EligibleTotal() (*big.Int, error) {
	return s.eligibleTotal.Get()
}

// Scheduled returns the pending additions and removals for the next boundary.
func (s *Service) Scheduled() (additions *big.Int, removals *big.Int, err error) {
	if additions, err = s.scheduledAdditions.Get(); err != nil {
		return nil, nil, err
	}
	removals, err = s.scheduledRemovals.Get()
	return additions, removals, err
}

// ScheduleAddition queues stake to join the eligible pool at the next boundary.
func (s *Service) ScheduleAddition(amount *big.Int) error {
	return s.scheduledAdditions.Add(amount)
}

// CancelAddition removes not-yet-matured stake from the addition queue.
func (s *Service) CancelAddition(amount *big.Int) error {
	return s.scheduledAdditions.Sub(amount)
}

// ScheduleRemoval queues eligible stake to leave the pool at the next boundary.
func (s *Service) ScheduleRemoval(amount *big.Int) error {
	return s.scheduledRemovals.Add(amount)
}

// ApplyScheduled settles one epoch boundary: matured rewards join the
// eligible pool, then the scheduled counters are folded in and zeroed.
// If removals exceed the running total the result clamps to zero; clamped
// reports it so the caller can raise an accounting anomaly. The boundary
// must never fail, so no path here returns a rule violation.
func (s *Service) ApplyScheduled(maturedRewards *big.Int) (newEligible *big.Int, clamped bool, err error) {
	eligible, err := s.eligibleTotal.Get()
	if err != nil {
		return nil, false, err
	}
	additions, removals, err := s.Scheduled()
	if err != nil {
		return nil, false, err
	}

	eligible.Add(eligible, maturedRewards)
	eligible.Add(eligible, additions)
	eligible.Sub(eligible, removals)
	if eligible.Sign() < 0 {
		eligible.SetInt64(0)
		clamped = true
	}

	s.eligibleTotal.Set(eligible)
	s.scheduledAdditions.Set(new(big.Int))
	s.scheduledRemovals.Set(new(big.Int))
	return eligible, clamped, nil
}

// Drain zeroes every pool counter and returns the total staked value that
// was still recorded. Per-account rounding during settlement realizes
// slightly less than the pool credits, so once the last account record is
// erased a residue of a few base units can remain; the caller sweeps it
// into the unallocated rewards so no value stays stranded in custody.
func (s *Service) Drain() (*big.Int, error) {
	residue, err := s.totalStaked.Get()
	if err != nil {
		return nil, err
	}
	zero := new(big.Int)
	s.totalStaked.Set(zero)
	s.eligibleTotal.Set(zero)
	s.scheduledAdditions.Set(zero)
	s.scheduledRemovals.Set(zero)
	return residue, nil
}
