// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slot_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/lvldb"
	"github.com/emberfi/ember/state"
	"github.com/emberfi/ember/vault/slot"
)

func newContext(t *testing.T) *slot.Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return slot.NewContext(state.New(db))
}

func TestUint256(t *testing.T) {
	u := slot.NewUint256(newContext(t), ember.BytesToBytes32([]byte("u256")))

	value, err := u.Get()
	assert.NoError(t, err)
	assert.Equal(t, int64(0), value.Int64())

	assert.NoError(t, u.Add(big.NewInt(100)))
	assert.NoError(t, u.Sub(big.NewInt(40)))

	value, err = u.Get()
	assert.NoError(t, err)
	assert.Equal(t, int64(60), value.Int64())

	// underflow leaves the slot untouched
	assert.Error(t, u.Sub(big.NewInt(61)))
	value, _ = u.Get()
	assert.Equal(t, int64(60), value.Int64())
}

func TestUint64(t *testing.T) {
	u := slot.NewUint64(newContext(t), ember.BytesToBytes32([]byte("u64")))

	value, err := u.Get()
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), value)

	u.Set(42)
	value, err = u.Get()
	assert.NoError(t, err)
	assert.Equal(t, uint64(42), value)
}

func TestAddress(t *testing.T) {
	a := slot.NewAddress(newContext(t), ember.BytesToBytes32([]byte("addr")))

	addr, err := a.Get()
	assert.NoError(t, err)
	assert.True(t, addr.IsZero())

	want := ember.BytesToAddress([]byte("owner"))
	a.Set(want)
	addr, err = a.Get()
	assert.NoError(t, err)
	assert.Equal(t, want, addr)
}

type record struct {
	Amount *big.Int
	Epoch  uint64
}

func TestMapping(t *testing.T) {
	ctx := newContext(t)
	m := slot.NewMapping[ember.Address, *record](ctx, ember.BytesToBytes32([]byte("records")))

	key := ember.BytesToAddress([]byte("key"))

	// missing entries decode to an allocated zero value
	value, err := m.Get(key)
	assert.NoError(t, err)
	assert.NotNil(t, value)
	assert.Nil(t, value.Amount)

	assert.NoError(t, m.Set(key, &record{Amount: big.NewInt(7), Epoch: 3}))
	value, err = m.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), value.Amount.Int64())
	assert.Equal(t, uint64(3), value.Epoch)

	m.Delete(key)
	value, err = m.Get(key)
	assert.NoError(t, err)
	assert.Nil(t, value.Amount)
}
