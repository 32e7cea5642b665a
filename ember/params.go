// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ember

import "math/big"

// Constants of the ledger protocol.
const (
	// EpochDuration length of one epoch in seconds. The epoch is the unit of
	// eligibility and scheduling granularity: new stake activates at the next
	// epoch boundary, withdrawals unlock at the next epoch boundary.
	EpochDuration uint64 = 7 * 24 * 3600

	// MaxBasisPoints full scale of the burn/reward split ratio.
	MaxBasisPoints uint64 = 10000
)

var (
	// IndexPrecision fixed-point scale of the cumulative reward index.
	IndexPrecision = big.NewInt(1e12)

	// BurnAddress the void destination of the burn portion of every inflow.
	// Nothing can move value out of it.
	BurnAddress = MustParseAddress("0x000000000000000000000000000000000000dead")
)

// Keys of ledger settings.
var (
	KeyOwner          = BytesToBytes32([]byte("owner"))
	KeyPaused         = BytesToBytes32([]byte("paused"))
	KeyBurnBasisPoint = BytesToBytes32([]byte("burn-basis-points"))
	KeyFeeRouter      = BytesToBytes32([]byte("fee-router"))

	InitialBurnBasisPoints = uint64(5000) // 50%
)
