// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vaultapi

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/vault"
	"github.com/emberfi/ember/vault/accounts"
)

// Account is the response shape of one ledger record.
type Account struct {
	Address          ember.Address         `json:"address"`
	Status           string                `json:"status"`
	Balance          *math.HexOrDecimal256 `json:"balance"`
	EligibleBalance  *math.HexOrDecimal256 `json:"eligibleBalance"`
	Earned           *math.HexOrDecimal256 `json:"earned"`
	ActivationAmount *math.HexOrDecimal256 `json:"activationAmount"`
	ActivationEpoch  uint64                `json:"activationEpoch"`
	WithdrawalAmount *math.HexOrDecimal256 `json:"withdrawalAmount"`
	WithdrawalEpoch  uint64                `json:"withdrawalEpoch"`
}

// Totals is the response shape of the pool-wide snapshot.
type Totals struct {
	TotalStaked        *math.HexOrDecimal256 `json:"totalStaked"`
	EligibleTotal      *math.HexOrDecimal256 `json:"eligibleTotal"`
	ScheduledAdditions *math.HexOrDecimal256 `json:"scheduledAdditions"`
	ScheduledRemovals  *math.HexOrDecimal256 `json:"scheduledRemovals"`
	Unallocated        *math.HexOrDecimal256 `json:"unallocated"`
	GlobalIndex        *math.HexOrDecimal256 `json:"globalIndex"`
}

// Epoch is the response shape of the epoch clock.
type Epoch struct {
	Current       uint64 `json:"current"`
	LastProcessed uint64 `json:"lastProcessed"`
	StartTime     uint64 `json:"startTime"`
	Duration      uint64 `json:"duration"`
}

// Config is the response shape of the ledger settings.
type Config struct {
	Owner           ember.Address `json:"owner"`
	Paused          bool          `json:"paused"`
	BurnBasisPoints uint64        `json:"burnBasisPoints"`
	FeeRouter       ember.Address `json:"feeRouter"`
}

// StakeRequest deposits funds for a staker.
type StakeRequest struct {
	Staker ember.Address         `json:"staker"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// StakeOnBehalfRequest deposits the caller's funds to another account.
type StakeOnBehalfRequest struct {
	Caller ember.Address         `json:"caller"`
	User   ember.Address         `json:"user"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// StakerRequest names the account an operation acts on.
type StakerRequest struct {
	Staker ember.Address `json:"staker"`
}

// DistributeRequest submits a reward inflow.
type DistributeRequest struct {
	Caller ember.Address         `json:"caller"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

func statusName(status accounts.Status) string {
	switch status {
	case accounts.StatusEligible:
		return "eligible"
	case accounts.StatusActivating:
		return "activating"
	case accounts.StatusExiting:
		return "exiting"
	default:
		return "empty"
	}
}

func amount(v *big.Int) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(v)
}

func convertTotals(t *vault.Totals) *Totals {
	return &Totals{
		TotalStaked:        amount(t.TotalStaked),
		EligibleTotal:      amount(t.EligibleTotal),
		ScheduledAdditions: amount(t.ScheduledAdditions),
		ScheduledRemovals:  amount(t.ScheduledRemovals),
		Unallocated:        amount(t.Unallocated),
		GlobalIndex:        amount(t.GlobalIndex),
	}
}
