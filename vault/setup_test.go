// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/events"
	"github.com/emberfi/ember/lvldb"
	"github.com/emberfi/ember/state"
	"github.com/emberfi/ember/test/datagen"
	"github.com/emberfi/ember/token"
)

// testEpochLen keeps test clocks cheap to advance.
const testEpochLen = 1000

var initialFunds = big.NewInt(1_000_000)

// memorySink collects flushed events for assertions.
type memorySink struct {
	posts [][]events.Event
}

func (s *memorySink) Post(_ uint64, evs []events.Event) error {
	s.posts = append(s.posts, evs)
	return nil
}

func (s *memorySink) names() []string {
	var all []string
	for _, post := range s.posts {
		for _, ev := range post {
			all = append(all, ev.Name())
		}
	}
	return all
}

func (s *memorySink) last() events.Event {
	if len(s.posts) == 0 {
		return nil
	}
	lastPost := s.posts[len(s.posts)-1]
	return lastPost[len(lastPost)-1]
}

type testEnv struct {
	t      *testing.T
	clock  *clockwork.FakeClock
	ledger *token.Ledger
	vault  *Vault
	sink   *memorySink

	owner ember.Address
	alice ember.Address
	bob   ember.Address
}

func newTestEnv(t *testing.T, config Config) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clock := clockwork.NewFakeClockAt(time.Unix(1_700_000_000, 0))
	ledger := token.NewLedger()
	env := &testEnv{
		t:      t,
		clock:  clock,
		ledger: ledger,
		sink:   &memorySink{},
		owner:  datagen.RandAddress(),
		alice:  datagen.RandAddress(),
		bob:    datagen.RandAddress(),
	}
	for _, addr := range []ember.Address{env.owner, env.alice, env.bob} {
		ledger.Mint(addr, initialFunds)
	}

	if config.EpochDuration == 0 {
		config.EpochDuration = testEpochLen
	}
	vaultAddr := datagen.RandAddress()
	env.vault = New(vaultAddr, state.New(db), clock, ledger, config)
	env.vault.SubscribeSink(env.sink)

	require.NoError(t, env.vault.Initialize(env.owner))
	require.NoError(t, env.vault.Unpause(env.owner))
	return env
}

// nextEpoch moves the clock past the next epoch boundary.
func (env *testEnv) nextEpoch() {
	env.clock.Advance(testEpochLen * time.Second)
}

func (env *testEnv) mustStake(addr ember.Address, amount int64) {
	require.NoError(env.t, env.vault.Stake(addr, big.NewInt(amount)))
}

func (env *testEnv) mustDistribute(amount int64) {
	require.NoError(env.t, env.vault.Distribute(env.owner, big.NewInt(amount)))
}

func (env *testEnv) mustTouch(addr ember.Address) {
	require.NoError(env.t, env.vault.Touch(addr))
}

func (env *testEnv) balance(addr ember.Address) *big.Int {
	balance, err := env.vault.BalanceOf(addr)
	require.NoError(env.t, err)
	return balance
}

func (env *testEnv) tokenBalance(addr ember.Address) *big.Int {
	balance, err := env.ledger.BalanceOf(addr)
	require.NoError(env.t, err)
	return balance
}

func (env *testEnv) totals() *Totals {
	totals, err := env.vault.Totals()
	require.NoError(env.t, err)
	return totals
}
