// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vault implements the epoch-gated auto-compounding reward ledger.
//
// The vault accepts periodic token inflows, burns a configurable share and
// distributes the rest proportionally to stakers through a cumulative
// fixed-point reward index. Eligibility is epoch-gated: new stake starts
// earning at the next epoch boundary and withdrawals unlock at the next
// boundary, so no same-epoch action can capture a distribution.
package vault

import (
	"math/big"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"

	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/events"
	"github.com/emberfi/ember/log"
	"github.com/emberfi/ember/metrics"
	"github.com/emberfi/ember/state"
	"github.com/emberfi/ember/token"
	"github.com/emberfi/ember/vault/accounts"
	"github.com/emberfi/ember/vault/epoch"
	"github.com/emberfi/ember/vault/globalstats"
	"github.com/emberfi/ember/vault/reverts"
	"github.com/emberfi/ember/vault/rewards"
	"github.com/emberfi/ember/vault/settings"
	"github.com/emberfi/ember/vault/slot"
)

var logger = log.WithContext("pkg", "vault")

var (
	metricCalls     = metrics.LazyLoadCounterVec("vault_calls_total", []string{"op", "outcome"})
	metricEpochs    = metrics.LazyLoadCounter("vault_epochs_advanced_total")
	metricAnomalies = metrics.LazyLoadCounter("vault_accounting_anomalies_total")
)

// Config tunes ledger behavior fixed at construction.
type Config struct {
	// EpochDuration is the epoch length in seconds, ember.EpochDuration if zero.
	EpochDuration uint64

	// BufferWhenIdle selects the zero-eligible distribution policy: when true,
	// the reward portion of an inflow arriving while nothing is eligible is
	// buffered and granted to the first stake that becomes eligible; when
	// false such inflows are rejected.
	BufferWhenIdle bool
}

// DefaultConfig buffers idle inflows and uses the protocol epoch length.
var DefaultConfig = Config{BufferWhenIdle: true}

// Vault is the ledger facade. All mutating entrypoints are atomic: either
// the call commits with all invariants intact or the state is rolled back
// whole and nothing is observable.
//
// Methods are not safe for concurrent use; the host is expected to impose a
// total order over calls, as the API layer does.
type Vault struct {
	addr   ember.Address
	state  *state.State
	clock  clockwork.Clock
	token  token.Token
	config Config

	entered bool

	settings *settings.Service
	epochs   *epoch.Service
	stats    *globalstats.Service
	rewards  *rewards.Service
	accounts *accounts.Service

	recorder *events.Recorder
	sinks    []events.Sink
}

// New creates a vault holding custody at addr over the given state and token.
func New(addr ember.Address, st *state.State, clock clockwork.Clock, tok token.Token, config Config) *Vault {
	sctx := slot.NewContext(st)
	if config.EpochDuration == 0 {
		config.EpochDuration = ember.EpochDuration
	}
	return &Vault{
		addr:   addr,
		state:  st,
		clock:  clock,
		token:  tok,
		config: config,

		settings: settings.New(sctx),
		epochs:   epoch.New(sctx, config.EpochDuration),
		stats:    globalstats.New(sctx),
		rewards:  rewards.New(sctx),
		accounts: accounts.New(sctx),

		recorder: events.NewRecorder(),
	}
}

// Address returns the vault's custody address.
func (v *Vault) Address() ember.Address {
	return v.addr
}

// SubscribeSink registers a sink receiving the events of every committed call.
func (v *Vault) SubscribeSink(sink events.Sink) {
	v.sinks = append(v.sinks, sink)
}

// Initialize writes the deployment state: owner, initial burn ratio and the
// paused flag. The vault starts paused; the epoch clock starts on first
// unpause. It fails if the vault was already initialized.
func (v *Vault) Initialize(owner ember.Address) error {
	current, err := v.settings.Owner()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return errors.New("vault: already initialized")
	}
	v.settings.SetOwner(owner)
	v.settings.SetBurnBasisPoints(ember.InitialBurnBasisPoints)
	v.settings.SetPaused(true)
	if err := v.state.Commit(); err != nil {
		return err
	}
	logger.Info("vault initialized", "owner", owner, "burnBps", ember.InitialBurnBasisPoints)
	return nil
}

// run wraps one mutating entrypoint: reentrancy guard, checkpoint, all-or-
// nothing commit, and event flushing. Events reach sinks only on commit.
func (v *Vault) run(op string, fn func(now uint64) error) error {
	if v.entered {
		return reverts.ErrReentrancy
	}
	v.entered = true
	defer func() { v.entered = false }()

	now := uint64(v.clock.Now().Unix())
	checkpoint := v.state.NewCheckpoint()
	v.recorder.Reset()

	if err := fn(now); err != nil {
		v.state.RevertTo(checkpoint)
		v.recorder.Reset()
		if reverts.IsRevert(err) {
			metricCalls().AddWithLabel(1, map[string]string{"op": op, "outcome": "reverted"})
			logger.Debug("call reverted", "op", op, "reason", err)
		} else {
			metricCalls().AddWithLabel(1, map[string]string{"op": op, "outcome": "failed"})
			logger.Error("call failed", "op", op, "err", err)
		}
		return err
	}

	if err := v.state.Commit(); err != nil {
		return err
	}
	metricCalls().AddWithLabel(1, map[string]string{"op": op, "outcome": "committed"})
	v.flush(now)
	return nil
}

func (v *Vault) flush(now uint64) {
	if v.recorder.Len() == 0 {
		return
	}
	drained := v.recorder.Drain()
	for _, sink := range v.sinks {
		if err := sink.Post(now, drained); err != nil {
			logger.Warn("event sink failed", "err", err)
		}
	}
}

// transferIn pulls amount from the funder with exact-amount verification.
// A mismatch means the token skims transfers; whatever did arrive is sent
// back and the call rejects.
func (v *Vault) transferIn(from ember.Address, amount *big.Int) error {
	before, err := v.token.BalanceOf(v.addr)
	if err != nil {
		return errors.Wrap(err, "token balance")
	}
	if err := v.token.Transfer(from, v.addr, amount); err != nil {
		return errors.Wrap(err, "token transfer in")
	}
	after, err := v.token.BalanceOf(v.addr)
	if err != nil {
		return errors.Wrap(err, "token balance")
	}

	received := new(big.Int).Sub(after, before)
	if received.Cmp(amount) != 0 {
		if received.Sign() > 0 {
			if err := v.token.Transfer(v.addr, from, received); err != nil {
				return errors.Wrap(err, "token transfer back")
			}
		}
		return reverts.ErrFeeOnTransfer
	}
	return nil
}

func (v *Vault) transferOut(to ember.Address, amount *big.Int) error {
	return errors.Wrap(v.token.Transfer(v.addr, to, amount), "token transfer out")
}

//
// Getters - no state change
//

// Owner returns the administrative owner.
func (v *Vault) Owner() (ember.Address, error) {
	return v.settings.Owner()
}

// Paused reports whether staking and reward intake are suspended.
func (v *Vault) Paused() (bool, error) {
	return v.settings.Paused()
}

// BurnBasisPoints returns the burn side of the inflow split.
func (v *Vault) BurnBasisPoints() (uint64, error) {
	return v.settings.BurnBasisPoints()
}

// FeeRouter returns the registered automated fee source, zero if none.
func (v *Vault) FeeRouter() (ember.Address, error) {
	return v.settings.FeeRouter()
}

// IsDistributor reports whether addr may stake on behalf of others.
func (v *Vault) IsDistributor(addr ember.Address) (bool, error) {
	return v.settings.IsDistributor(addr)
}

// AccountOf returns the stored ledger record for addr, as of its last touch.
func (v *Vault) AccountOf(addr ember.Address) (*accounts.Account, error) {
	return v.accounts.Get(addr)
}

// BalanceOf returns addr's balance with all matured epochs realized,
// without mutating the account.
func (v *Vault) BalanceOf(addr ember.Address) (*big.Int, error) {
	acc, err := v.settledView(addr)
	if err != nil {
		return nil, err
	}
	return acc.Balance, nil
}

// Earned returns the rewards addr would realize if touched now.
func (v *Vault) Earned(addr ember.Address) (*big.Int, error) {
	acc, err := v.accounts.Get(addr)
	if err != nil {
		return nil, err
	}
	// views settle only through processed boundaries; the index beyond the
	// last one is not determined until some call folds it
	last, err := v.epochs.LastProcessed()
	if err != nil {
		return nil, err
	}
	settlement, err := acc.PreviewSettle(v.rewards, last)
	if err != nil {
		return nil, err
	}
	return settlement.Gains, nil
}

func (v *Vault) settledView(addr ember.Address) (*accounts.Account, error) {
	acc, err := v.accounts.Get(addr)
	if err != nil {
		return nil, err
	}
	last, err := v.epochs.LastProcessed()
	if err != nil {
		return nil, err
	}
	settled := acc.Copy()
	if _, err := settled.Settle(v.rewards, last); err != nil {
		return nil, err
	}
	return settled, nil
}

// Totals is the pool-wide accounting snapshot.
type Totals struct {
	TotalStaked        *big.Int
	EligibleTotal      *big.Int
	ScheduledAdditions *big.Int
	ScheduledRemovals  *big.Int
	Unallocated        *big.Int
	GlobalIndex        *big.Int
}

// Totals returns the pool-wide accounting snapshot.
func (v *Vault) Totals() (*Totals, error) {
	total, err := v.stats.TotalStaked()
	if err != nil {
		return nil, err
	}
	eligible, err := v.stats.EligibleTotal()
	if err != nil {
		return nil, err
	}
	additions, removals, err := v.stats.Scheduled()
	if err != nil {
		return nil, err
	}
	unallocated, err := v.rewards.Unallocated()
	if err != nil {
		return nil, err
	}
	index, err := v.rewards.GlobalIndex()
	if err != nil {
		return nil, err
	}
	return &Totals{
		TotalStaked:        total,
		EligibleTotal:      eligible,
		ScheduledAdditions: additions,
		ScheduledRemovals:  removals,
		Unallocated:        unallocated,
		GlobalIndex:        index,
	}, nil
}

// EpochInfo describes the epoch clock.
type EpochInfo struct {
	Current       uint64
	LastProcessed uint64
	StartTime     uint64
	Duration      uint64
}

// EpochInfo returns the state of the epoch clock.
func (v *Vault) EpochInfo() (*EpochInfo, error) {
	current, err := v.currentEpoch()
	if err != nil {
		return nil, err
	}
	last, err := v.epochs.LastProcessed()
	if err != nil {
		return nil, err
	}
	start, err := v.epochs.StartTime()
	if err != nil {
		return nil, err
	}
	return &EpochInfo{
		Current:       current,
		LastProcessed: last,
		StartTime:     start,
		Duration:      v.epochs.Duration(),
	}, nil
}

func (v *Vault) currentEpoch() (uint64, error) {
	return v.epochs.Current(uint64(v.clock.Now().Unix()))
}
