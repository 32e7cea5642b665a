// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberfi/ember/lvldb"
	"github.com/emberfi/ember/state"
	"github.com/emberfi/ember/vault/globalstats"
	"github.com/emberfi/ember/vault/slot"
)

func newService(t *testing.T) *globalstats.Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return globalstats.New(slot.NewContext(state.New(db)))
}

func TestTotalStaked(t *testing.T) {
	svc := newService(t)

	require.NoError(t, svc.AddStaked(big.NewInt(1000)))
	require.NoError(t, svc.SubStaked(big.NewInt(400)))

	total, err := svc.TotalStaked()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(600), total)

	// the counter is unsigned, over-subtraction is an error
	assert.Error(t, svc.SubStaked(big.NewInt(601)))
}

func TestApplyScheduled(t *testing.T) {
	svc := newService(t)

	require.NoError(t, svc.ScheduleAddition(big.NewInt(1000)))
	require.NoError(t, svc.CancelAddition(big.NewInt(200)))

	eligible, clamped, err := svc.ApplyScheduled(big.NewInt(0))
	require.NoError(t, err)
	assert.False(t, clamped)
	assert.Equal(t, big.NewInt(800), eligible)

	// next boundary: matured rewards join, a removal leaves
	require.NoError(t, svc.ScheduleRemoval(big.NewInt(300)))
	eligible, clamped, err = svc.ApplyScheduled(big.NewInt(40))
	require.NoError(t, err)
	assert.False(t, clamped)
	assert.Equal(t, big.NewInt(540), eligible)

	// the counters were consumed
	additions, removals, err := svc.Scheduled()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(0), additions)
	assert.Equal(t, big.NewInt(0), removals)
}

func TestApplyScheduledClamps(t *testing.T) {
	svc := newService(t)

	require.NoError(t, svc.ScheduleAddition(big.NewInt(100)))
	_, _, err := svc.ApplyScheduled(big.NewInt(0))
	require.NoError(t, err)

	// removals beyond the running total clamp instead of failing
	require.NoError(t, svc.ScheduleRemoval(big.NewInt(150)))
	eligible, clamped, err := svc.ApplyScheduled(big.NewInt(0))
	require.NoError(t, err)
	assert.True(t, clamped)
	assert.Equal(t, big.NewInt(0), eligible)
}

func TestAccountCount(t *testing.T) {
	svc := newService(t)

	count, err := svc.AccountCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)

	require.NoError(t, svc.IncAccounts())
	require.NoError(t, svc.IncAccounts())

	remaining, err := svc.DecAccounts()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), remaining)
	remaining, err = svc.DecAccounts()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), remaining)

	_, err = svc.DecAccounts()
	assert.Error(t, err)
}

func TestDrain(t *testing.T) {
	svc := newService(t)

	require.NoError(t, svc.AddStaked(big.NewInt(7)))
	require.NoError(t, svc.ScheduleAddition(big.NewInt(3)))
	_, _, err := svc.ApplyScheduled(big.NewInt(0))
	require.NoError(t, err)
	require.NoError(t, svc.ScheduleRemoval(big.NewInt(5)))

	residue, err := svc.Drain()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(7), residue)

	total, err := svc.TotalStaked()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(0), total)
	eligible, err := svc.EligibleTotal()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(0), eligible)
	additions, removals, err := svc.Scheduled()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(0), additions)
	assert.Equal(t, big.NewInt(0), removals)
}
