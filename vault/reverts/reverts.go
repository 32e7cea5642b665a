// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts defines the rejections surfaced by ledger entrypoints.
// A revert is a rule violation by the caller; the call is rolled back whole
// and the ledger is left exactly as before. Anything that is not a revert is
// an internal failure.
package reverts

import "errors"

// ErrRevert is a named rejection of a ledger call.
type ErrRevert struct {
	message string
}

// New creates a rejection with the given message.
func New(message string) *ErrRevert {
	return &ErrRevert{message: message}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// IsRevert reports whether err is a rejection rather than an internal failure.
func IsRevert(err error) bool {
	if err == nil {
		return false
	}
	var re *ErrRevert
	return errors.As(err, &re)
}

// Rejections surfaced by the ledger, one per rule.
var (
	ErrZeroAmount              = New("amount must be greater than zero")
	ErrInvalidBasisPoints      = New("basis points exceed full scale")
	ErrPendingWithdrawalExists = New("withdrawal already scheduled")
	ErrNothingStaked           = New("nothing staked")
	ErrNoPendingWithdrawal     = New("no withdrawal scheduled")
	ErrWithdrawalLocked        = New("withdrawal epoch not reached")
	ErrRewardTooSmall          = New("reward too small to distribute")
	ErrNoEligibleStake         = New("no eligible stake to reward")
	ErrFeeOnTransfer           = New("fee on transfer tokens not supported")
	ErrPaused                  = New("ledger is paused")
	ErrNotPaused               = New("ledger is not paused")
	ErrUnauthorized            = New("caller not authorized")
	ErrReentrancy              = New("reentrant call")
)
