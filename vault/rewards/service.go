// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rewards maintains the cumulative reward index.
//
// The index counts matured rewards per eligible unit, scaled by
// ember.IndexPrecision. Rewards accrued during an epoch collect in a
// per-epoch index and only fold into the global index at the boundary, so a
// distribution can never reach stake that joined in the same epoch.
package rewards

import (
	"encoding/binary"
	"math/big"

	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/vault/reverts"
	"github.com/emberfi/ember/vault/slot"
)

var (
	slotGlobalIndex  = ember.BytesToBytes32([]byte("global-reward-index"))
	slotEpochIndex   = ember.BytesToBytes32([]byte("epoch-reward-index"))
	slotEpochCredit  = ember.BytesToBytes32([]byte("epoch-credited-rewards"))
	slotUnallocated  = ember.BytesToBytes32([]byte("unallocated-rewards"))
	slotIndexHistory = ember.BytesToBytes32([]byte("index-at-epoch"))
)

// EpochKey addresses the index history mapping by epoch number.
type EpochKey uint64

// Bytes implements slot.Key.
func (k EpochKey) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(k))
	return b[:]
}

// Service owns the reward index state.
type Service struct {
	globalIndex *slot.Uint256
	epochIndex  *slot.Uint256
	epochCredit *slot.Uint256
	unallocated *slot.Uint256
	history     *slot.Mapping[EpochKey, *big.Int]
}

// New creates the service over the given slot context.
func New(sctx *slot.Context) *Service {
	return &Service{
		globalIndex: slot.NewUint256(sctx, slotGlobalIndex),
		epochIndex:  slot.NewUint256(sctx, slotEpochIndex),
		epochCredit: slot.NewUint256(sctx, slotEpochCredit),
		unallocated: slot.NewUint256(sctx, slotUnallocated),
		history:     slot.NewMapping[EpochKey, *big.Int](sctx, slotIndexHistory),
	}
}

// Split divides an inflow into its burn and reward portions.
// Integer floor math; the burn side never exceeds the true ratio.
func Split(amount *big.Int, burnBasisPoints uint64) (burn *big.Int, reward *big.Int) {
	burn = new(big.Int).Mul(amount, new(big.Int).SetUint64(burnBasisPoints))
	burn.Div(burn, new(big.Int).SetUint64(ember.MaxBasisPoints))
	reward = new(big.Int).Sub(amount, burn)
	return burn, reward
}

// GlobalIndex returns the matured cumulative index.
func (s *Service) GlobalIndex() (*big.Int, error) {
	return s.globalIndex.Get()
}

// EpochIndex returns the index accrued in the current epoch, not yet matured.
func (s *Service) EpochIndex() (*big.Int, error) {
	return s.epochIndex.Get()
}

// Unallocated returns rewards held by the ledger but owned by no account:
// rounding dust, forfeits from emergency exits, and inflows buffered while
// nothing was eligible.
func (s *Service) Unallocated() (*big.Int, error) {
	return s.unallocated.Get()
}

// AddUnallocated moves value into the unallocated pool.
func (s *Service) AddUnallocated(amount *big.Int) error {
	return s.unallocated.Add(amount)
}

// IndexAt returns the global index as of the start of the given epoch.
// Epochs before the ledger launched read as zero.
func (s *Service) IndexAt(epoch uint64) (*big.Int, error) {
	return s.history.Get(EpochKey(epoch))
}

// Accrue converts a reward inflow into an index delta over the eligible
// total. The credited portion (delta scaled back over the pool) is what
// holders will collectively realize; the remainder is dust and goes to the
// unallocated pool. Rejects ErrRewardTooSmall when the delta floors to zero,
// so no inflow can silently vanish into rounding.
func (s *Service) Accrue(reward *big.Int, eligibleTotal *big.Int) (credited *big.Int, err error) {
	delta := new(big.Int).Mul(reward, ember.IndexPrecision)
	delta.Div(delta, eligibleTotal)
	if delta.Sign() == 0 {
		return nil, reverts.ErrRewardTooSmall
	}

	credited = new(big.Int).Mul(delta, eligibleTotal)
	credited.Div(credited, ember.IndexPrecision)
	dust := new(big.Int).Sub(reward, credited)

	if err := s.epochIndex.Add(delta); err != nil {
		return nil, err
	}
	if err := s.epochCredit.Add(credited); err != nil {
		return nil, err
	}
	if err := s.unallocated.Add(dust); err != nil {
		return nil, err
	}
	return credited, nil
}

// GrantGenesisBonus converts buffered unallocated rewards into the current
// epoch's index once stake becomes eligible again. Returns the credited
// amount, zero when there is nothing to grant or the grant would floor away.
func (s *Service) GrantGenesisBonus(eligibleTotal *big.Int) (*big.Int, error) {
	if eligibleTotal.Sign() == 0 {
		return new(big.Int), nil
	}
	buffered, err := s.unallocated.Get()
	if err != nil {
		return nil, err
	}
	if buffered.Sign() == 0 {
		return new(big.Int), nil
	}

	delta := new(big.Int).Mul(buffered, ember.IndexPrecision)
	delta.Div(delta, eligibleTotal)
	if delta.Sign() == 0 {
		return new(big.Int), nil
	}
	credited := new(big.Int).Mul(delta, eligibleTotal)
	credited.Div(credited, ember.IndexPrecision)

	if err := s.epochIndex.Add(delta); err != nil {
		return nil, err
	}
	if err := s.epochCredit.Add(credited); err != nil {
		return nil, err
	}
	if err := s.unallocated.Sub(credited); err != nil {
		return nil, err
	}
	return credited, nil
}

// DiscardEpoch drops the current epoch's unmatured accumulators without
// folding them. Used when the last account record is erased: whatever was
// credited this epoch can no longer be realized by anyone, and the value
// itself travels with the staked residue the caller sweeps.
func (s *Service) DiscardEpoch() {
	zero := new(big.Int)
	s.epochIndex.Set(zero)
	s.epochCredit.Set(zero)
}

// FoldEpoch matures the current epoch's index into the global index at the
// boundary leading into nextEpoch.
//
// Stake scheduled for removal spent the whole closing epoch in the eligible
// pool but its owners can no longer realize the earnings; that orphaned
// share moves to the unallocated pool. The matured remainder is the value
// that joins holders' eligible balances.
func (s *Service) FoldEpoch(nextEpoch uint64, removals *big.Int) (indexDelta, matured, orphaned *big.Int, err error) {
	indexDelta, err = s.epochIndex.Get()
	if err != nil {
		return nil, nil, nil, err
	}
	credited, err := s.epochCredit.Get()
	if err != nil {
		return nil, nil, nil, err
	}

	orphaned = new(big.Int).Mul(indexDelta, removals)
	orphaned.Div(orphaned, ember.IndexPrecision)
	if orphaned.Cmp(credited) > 0 {
		orphaned.Set(credited)
	}
	matured = new(big.Int).Sub(credited, orphaned)

	if err := s.globalIndex.Add(indexDelta); err != nil {
		return nil, nil, nil, err
	}
	s.epochIndex.Set(new(big.Int))
	s.epochCredit.Set(new(big.Int))
	if err := s.unallocated.Add(orphaned); err != nil {
		return nil, nil, nil, err
	}

	global, err := s.globalIndex.Get()
	if err != nil {
		return nil, nil, nil, err
	}
	if err := s.history.Set(EpochKey(nextEpoch), global); err != nil {
		return nil, nil, nil, err
	}
	return indexDelta, matured, orphaned, nil
}
