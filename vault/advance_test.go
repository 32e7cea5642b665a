// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberfi/ember/events"
)

// A scheduled removal larger than the eligible pool is an internal
// accounting bug, not a user error. The boundary must clamp the pool to
// zero, flag the anomaly on the event stream, and keep serving calls so
// withdrawals are never bricked.
func TestEligibleUnderflowClampsAndReports(t *testing.T) {
	env := newTestEnv(t, DefaultConfig)

	env.mustStake(env.alice, 1000)
	env.nextEpoch()
	env.mustTouch(env.alice)

	// force a removal beyond the pool, as a broken scheduling path would
	require.NoError(t, env.vault.stats.ScheduleRemoval(big.NewInt(2000)))
	env.nextEpoch()
	env.mustTouch(env.owner)

	assert.Contains(t, env.sink.names(), events.NameAccountingError)
	var anomaly *events.AccountingError
	for _, post := range env.sink.posts {
		for _, ev := range post {
			if e, ok := ev.(*events.AccountingError); ok && anomaly == nil {
				anomaly = e
			}
		}
	}
	require.NotNil(t, anomaly)
	assert.Equal(t, "eligible-underflow", anomaly.Context)
	assert.Equal(t, big.NewInt(2000), anomaly.A)
	assert.Equal(t, big.NewInt(1000), anomaly.B)
	assert.Equal(t, big.NewInt(0), env.totals().EligibleTotal)

	// alice's record is untouched and her principal still comes out
	require.NoError(t, env.vault.Unstake(env.alice))
	env.nextEpoch()
	require.NoError(t, env.vault.FinalizeUnstake(env.alice))
	assert.Equal(t, initialFunds, env.tokenBalance(env.alice))
	assert.Equal(t, big.NewInt(0), env.totals().TotalStaked)
}
