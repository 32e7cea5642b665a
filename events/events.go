// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package events defines the observable record of every ledger state change.
// Events are the ledger's only wire format: integrators reconstruct balances
// and schedules from the event stream alone.
package events

import (
	"math/big"

	"github.com/emberfi/ember/ember"
)

// Event names.
const (
	NameStaked             = "Staked"
	NameUnstakeScheduled   = "UnstakeScheduled"
	NameUnstaked           = "Unstaked"
	NameEmergencyExit      = "EmergencyExit"
	NameRewardsCompounded  = "RewardsCompounded"
	NameRewardsDistributed = "RewardsDistributed"
	NameEpochAdvanced      = "EpochAdvanced"
	NameEpochInitialized   = "EpochInitialized"
	NameAccountingError    = "AccountingError"
)

// Event is a single observable ledger occurrence.
type Event interface {
	Name() string
	// Related returns the account the event concerns, nil for pool-wide events.
	Related() *ember.Address
}

// Staked new stake accepted, eligible from the next epoch.
type Staked struct {
	User   ember.Address `json:"user"`
	Amount *big.Int      `json:"amount"`
}

func (e *Staked) Name() string            { return NameStaked }
func (e *Staked) Related() *ember.Address { return &e.User }

// UnstakeScheduled full balance queued for withdrawal.
type UnstakeScheduled struct {
	User        ember.Address `json:"user"`
	Amount      *big.Int      `json:"amount"`
	UnlockEpoch uint64        `json:"unlockEpoch"`
}

func (e *UnstakeScheduled) Name() string            { return NameUnstakeScheduled }
func (e *UnstakeScheduled) Related() *ember.Address { return &e.User }

// Unstaked withdrawal finalized, value left custody.
type Unstaked struct {
	User   ember.Address `json:"user"`
	Amount *big.Int      `json:"amount"`
}

func (e *Unstaked) Name() string            { return NameUnstaked }
func (e *Unstaked) Related() *ember.Address { return &e.User }

// EmergencyExit withdrawal queued without reward realization.
type EmergencyExit struct {
	User   ember.Address `json:"user"`
	Amount *big.Int      `json:"amount"`
}

func (e *EmergencyExit) Name() string            { return NameEmergencyExit }
func (e *EmergencyExit) Related() *ember.Address { return &e.User }

// RewardsCompounded matured rewards realized into a balance.
type RewardsCompounded struct {
	User   ember.Address `json:"user"`
	Amount *big.Int      `json:"amount"`
}

func (e *RewardsCompounded) Name() string            { return NameRewardsCompounded }
func (e *RewardsCompounded) Related() *ember.Address { return &e.User }

// RewardsDistributed inflow processed: burned plus rewarded equals total.
type RewardsDistributed struct {
	Total    *big.Int `json:"total"`
	Burned   *big.Int `json:"burned"`
	Rewarded *big.Int `json:"rewarded"`
}

func (e *RewardsDistributed) Name() string            { return NameRewardsDistributed }
func (e *RewardsDistributed) Related() *ember.Address { return nil }

// EpochAdvanced one epoch boundary processed.
type EpochAdvanced struct {
	Epoch            uint64   `json:"epoch"`
	IndexDelta       *big.Int `json:"indexDelta"`
	NewEligibleTotal *big.Int `json:"newEligibleTotal"`
}

func (e *EpochAdvanced) Name() string            { return NameEpochAdvanced }
func (e *EpochAdvanced) Related() *ember.Address { return nil }

// EpochInitialized the epoch clock started on first unpause.
type EpochInitialized struct {
	StartTime uint64 `json:"startTime"`
}

func (e *EpochInitialized) Name() string            { return NameEpochInitialized }
func (e *EpochInitialized) Related() *ember.Address { return nil }

// AccountingError a reconciliation anomaly was clamped instead of reverted.
// Operators are expected to monitor for these.
type AccountingError struct {
	Context string   `json:"context"`
	A       *big.Int `json:"a"`
	B       *big.Int `json:"b"`
}

func (e *AccountingError) Name() string            { return NameAccountingError }
func (e *AccountingError) Related() *ember.Address { return nil }
