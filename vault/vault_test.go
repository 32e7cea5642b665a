// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/events"
	"github.com/emberfi/ember/test/datagen"
	"github.com/emberfi/ember/token"
	"github.com/emberfi/ember/vault/accounts"
	"github.com/emberfi/ember/vault/reverts"
)

func TestInitialize(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)

	owner, err := env.vault.Owner()
	require.NoError(t, err)
	assert.Equal(t, env.owner, owner)

	bps, err := env.vault.BurnBasisPoints()
	require.NoError(t, err)
	assert.Equal(t, ember.InitialBurnBasisPoints, bps)

	// the first unpause started the epoch clock
	info, err := env.vault.EpochInfo()
	require.NoError(t, err)
	assert.NotZero(t, info.StartTime)
	assert.Equal(t, uint64(0), info.Current)

	assert.Error(t, env.vault.Initialize(env.owner))
}

func TestRoundTrip(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)
	funds := env.tokenBalance(env.alice)

	env.mustStake(env.alice, 1000)
	assert.Equal(t, big.NewInt(1000), env.balance(env.alice))
	assert.Equal(t, big.NewInt(1000), env.totals().TotalStaked)

	env.nextEpoch()
	require.NoError(t, env.vault.Unstake(env.alice))

	acc, err := env.vault.AccountOf(env.alice)
	require.NoError(t, err)
	assert.Equal(t, accounts.StatusExiting, acc.Status())
	assert.Equal(t, big.NewInt(1000), acc.WithdrawalAmount)

	env.nextEpoch()
	require.NoError(t, env.vault.FinalizeUnstake(env.alice))

	// exactly the stake came back, the account is gone
	assert.Equal(t, funds, env.tokenBalance(env.alice))
	acc, err = env.vault.AccountOf(env.alice)
	require.NoError(t, err)
	assert.Equal(t, accounts.StatusEmpty, acc.Status())
	assert.Equal(t, big.NewInt(0), env.totals().TotalStaked)
	assert.Equal(t, big.NewInt(0), env.totals().EligibleTotal)
}

func TestStakeValidation(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)

	assert.ErrorIs(t, env.vault.Stake(env.alice, big.NewInt(0)), reverts.ErrZeroAmount)
	assert.ErrorIs(t, env.vault.Stake(env.alice, nil), reverts.ErrZeroAmount)
	assert.ErrorIs(t, env.vault.Stake(env.alice, big.NewInt(-5)), reverts.ErrZeroAmount)

	env.mustStake(env.alice, 1000)
	env.nextEpoch()
	require.NoError(t, env.vault.Unstake(env.alice))

	// mid-withdrawal accounts must fully exit before staking again
	assert.ErrorIs(t, env.vault.Stake(env.alice, big.NewInt(100)), reverts.ErrPendingWithdrawalExists)
	assert.ErrorIs(t, env.vault.Unstake(env.alice), reverts.ErrPendingWithdrawalExists)
	assert.ErrorIs(t, env.vault.EmergencyExit(env.alice), reverts.ErrPendingWithdrawalExists)
}

func TestUnstakeValidation(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)

	assert.ErrorIs(t, env.vault.Unstake(env.alice), reverts.ErrNothingStaked)
	assert.ErrorIs(t, env.vault.EmergencyExit(env.alice), reverts.ErrNothingStaked)
	assert.ErrorIs(t, env.vault.FinalizeUnstake(env.alice), reverts.ErrNoPendingWithdrawal)

	env.mustStake(env.alice, 1000)
	require.NoError(t, env.vault.Unstake(env.alice))

	// unlock epoch not reached yet
	assert.ErrorIs(t, env.vault.FinalizeUnstake(env.alice), reverts.ErrWithdrawalLocked)

	env.nextEpoch()
	require.NoError(t, env.vault.FinalizeUnstake(env.alice))
}

func TestStakeMergesActivation(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)

	env.mustStake(env.alice, 300)
	env.mustStake(env.alice, 700)

	acc, err := env.vault.AccountOf(env.alice)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), acc.ActivationAmount)
	assert.Equal(t, uint64(1), acc.ActivationEpoch)
	assert.Equal(t, big.NewInt(1000), env.totals().ScheduledAdditions)

	env.nextEpoch()
	env.mustTouch(env.alice)

	acc, err = env.vault.AccountOf(env.alice)
	require.NoError(t, err)
	assert.Equal(t, accounts.StatusEligible, acc.Status())
	assert.Equal(t, big.NewInt(1000), acc.EligibleBalance)
	assert.Equal(t, big.NewInt(1000), env.totals().EligibleTotal)
	assert.Equal(t, big.NewInt(0), env.totals().ScheduledAdditions)
}

func TestPauseSemantics(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)

	env.mustStake(env.alice, 1000)
	env.mustStake(env.bob, 500)
	env.nextEpoch()

	require.NoError(t, env.vault.Pause(env.owner))
	assert.ErrorIs(t, env.vault.Pause(env.owner), reverts.ErrPaused)

	// staking and inflows blocked
	assert.ErrorIs(t, env.vault.Stake(env.alice, big.NewInt(1)), reverts.ErrPaused)
	assert.ErrorIs(t, env.vault.Distribute(env.owner, big.NewInt(100)), reverts.ErrPaused)

	// withdrawals never blocked
	require.NoError(t, env.vault.Unstake(env.alice))
	require.NoError(t, env.vault.EmergencyExit(env.bob))
	env.nextEpoch()
	require.NoError(t, env.vault.FinalizeUnstake(env.alice))
	require.NoError(t, env.vault.FinalizeUnstake(env.bob))

	require.NoError(t, env.vault.Unpause(env.owner))
	assert.ErrorIs(t, env.vault.Unpause(env.owner), reverts.ErrNotPaused)
	require.NoError(t, env.vault.Stake(env.alice, big.NewInt(1)))
}

func TestAuthorization(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)
	stranger := datagen.RandAddress()
	env.ledger.Mint(stranger, initialFunds)

	env.mustStake(env.alice, 1000)
	env.nextEpoch()

	assert.ErrorIs(t, env.vault.Distribute(stranger, big.NewInt(100)), reverts.ErrUnauthorized)
	assert.ErrorIs(t, env.vault.SetBurnBasisPoints(stranger, 100), reverts.ErrUnauthorized)
	assert.ErrorIs(t, env.vault.SetFeeRouter(stranger, stranger), reverts.ErrUnauthorized)
	assert.ErrorIs(t, env.vault.SetDistributor(stranger, stranger, true), reverts.ErrUnauthorized)
	assert.ErrorIs(t, env.vault.Pause(stranger), reverts.ErrUnauthorized)
	assert.ErrorIs(t, env.vault.TransferOwnership(stranger, stranger), reverts.ErrUnauthorized)
	_, err := env.vault.RecoverStray(stranger, stranger)
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)
	assert.ErrorIs(t, env.vault.StakeOnBehalfOf(stranger, env.alice, big.NewInt(10)), reverts.ErrUnauthorized)

	// fee router becomes a valid inflow source once registered
	require.NoError(t, env.vault.SetFeeRouter(env.owner, stranger))
	require.NoError(t, env.vault.Distribute(stranger, big.NewInt(100)))

	// distributor role unlocks staking on behalf
	require.NoError(t, env.vault.SetDistributor(env.owner, stranger, true))
	require.NoError(t, env.vault.StakeOnBehalfOf(stranger, env.bob, big.NewInt(10)))
	require.NoError(t, env.vault.SetDistributor(env.owner, stranger, false))
	assert.ErrorIs(t, env.vault.StakeOnBehalfOf(stranger, env.bob, big.NewInt(10)), reverts.ErrUnauthorized)
}

func TestStakeOnBehalfOf(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)
	require.NoError(t, env.vault.SetDistributor(env.owner, env.bob, true))

	bobFunds := env.tokenBalance(env.bob)
	require.NoError(t, env.vault.StakeOnBehalfOf(env.bob, env.alice, big.NewInt(500)))

	// the caller funds the stake, the user owns it
	assert.Equal(t, new(big.Int).Sub(bobFunds, big.NewInt(500)), env.tokenBalance(env.bob))
	assert.Equal(t, big.NewInt(500), env.balance(env.alice))

	acc, err := env.vault.AccountOf(env.alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), acc.ActivationEpoch)
}

func TestTransferOwnership(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)
	next := datagen.RandAddress()

	assert.Error(t, env.vault.TransferOwnership(env.owner, ember.Address{}))
	require.NoError(t, env.vault.TransferOwnership(env.owner, next))

	assert.ErrorIs(t, env.vault.Pause(env.owner), reverts.ErrUnauthorized)
	require.NoError(t, env.vault.Pause(next))
}

func TestBurnBasisPointsValidation(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)

	assert.ErrorIs(t, env.vault.SetBurnBasisPoints(env.owner, ember.MaxBasisPoints+1), reverts.ErrInvalidBasisPoints)
	require.NoError(t, env.vault.SetBurnBasisPoints(env.owner, ember.MaxBasisPoints))
	require.NoError(t, env.vault.SetBurnBasisPoints(env.owner, 0))
}

func TestFeeOnTransferRejected(t *testing.T) {
	env := newSkimmingEnv(t)

	err := env.vault.Stake(env.alice, big.NewInt(1000))
	assert.ErrorIs(t, err, reverts.ErrFeeOnTransfer)

	// the vault kept nothing: the skimmed arrival went back, only the
	// token's own fee is gone, and no ledger state was written
	assert.Equal(t, new(big.Int).Sub(initialFunds, big.NewInt(10)), env.tokenBalance(env.alice))
	assert.Equal(t, big.NewInt(0), env.totals().TotalStaked)
	acc, err := env.vault.AccountOf(env.alice)
	require.NoError(t, err)
	assert.True(t, acc.IsEmpty())
	assert.Empty(t, env.sink.names())
}

func TestReentrancyRejected(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)

	reentrant := &reentrantToken{Ledger: env.ledger, vault: env.vault, victim: env.alice}
	env.vault.token = reentrant

	err := env.vault.Stake(env.alice, big.NewInt(1000))
	require.NoError(t, err)
	assert.ErrorIs(t, reentrant.innerErr, reverts.ErrReentrancy)
}

func TestRecoverStray(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)
	dest := datagen.RandAddress()

	env.mustStake(env.alice, 1000)

	// direct token transfer bypassing the ledger
	require.NoError(t, env.ledger.Transfer(env.bob, env.vault.Address(), big.NewInt(77)))

	recovered, err := env.vault.RecoverStray(env.owner, dest)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(77), recovered)
	assert.Equal(t, big.NewInt(77), env.tokenBalance(dest))

	// staked value is untouchable
	_, err = env.vault.RecoverStray(env.owner, dest)
	assert.ErrorIs(t, err, reverts.ErrZeroAmount)
	assert.Equal(t, big.NewInt(1000), env.tokenBalance(env.vault.Address()))
}

func TestTouchOnEmptyAccount(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)
	require.NoError(t, env.vault.Touch(datagen.RandAddress()))
}

func TestEventStream(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)

	env.mustStake(env.alice, 1000)
	env.nextEpoch()
	env.mustDistribute(100)
	env.nextEpoch()
	env.mustTouch(env.alice)
	require.NoError(t, env.vault.Unstake(env.alice))
	env.nextEpoch()
	require.NoError(t, env.vault.FinalizeUnstake(env.alice))

	assert.Equal(t, []string{
		events.NameEpochInitialized,
		events.NameStaked,
		events.NameEpochAdvanced,
		events.NameRewardsDistributed,
		events.NameEpochAdvanced,
		events.NameRewardsCompounded,
		events.NameUnstakeScheduled,
		events.NameEpochAdvanced,
		events.NameUnstaked,
	}, env.sink.names())
}

// skimmingToken takes a cut of every transfer into the vault.
type skimmingToken struct {
	*token.Ledger
	vaultAddr ember.Address
	sink      ember.Address
}

func (s *skimmingToken) Transfer(from, to ember.Address, amount *big.Int) error {
	if to == s.vaultAddr && amount.Cmp(big.NewInt(10)) > 0 {
		fee := big.NewInt(10)
		if err := s.Ledger.Transfer(from, s.sink, fee); err != nil {
			return err
		}
		amount = new(big.Int).Sub(amount, fee)
	}
	return s.Ledger.Transfer(from, to, amount)
}

func newSkimmingEnv(t *testing.T) *testEnv {
	env := newTestEnv(t, DefaultConfig)
	env.vault.token = &skimmingToken{
		Ledger:    env.ledger,
		vaultAddr: env.vault.Address(),
		sink:      datagen.RandAddress(),
	}
	env.sink.posts = nil
	return env
}

// reentrantToken calls back into the vault mid-transfer.
type reentrantToken struct {
	*token.Ledger
	vault    *Vault
	victim   ember.Address
	innerErr error
	fired    bool
}

func (r *reentrantToken) Transfer(from, to ember.Address, amount *big.Int) error {
	if !r.fired {
		r.fired = true
		r.innerErr = r.vault.Unstake(r.victim)
	}
	return r.Ledger.Transfer(from, to, amount)
}
