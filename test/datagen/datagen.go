// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package datagen provides random value generators for tests.
package datagen

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand"

	"github.com/emberfi/ember/ember"
)

// RandBytes returns n random bytes.
func RandBytes(n int) []byte {
	b := make([]byte, n)
	rand.Read(b)
	return b
}

// RandAddress returns a random address.
func RandAddress() ember.Address {
	return ember.BytesToAddress(RandBytes(ember.AddressLength))
}

// RandBytes32 returns a random 32-byte value.
func RandBytes32() ember.Bytes32 {
	return ember.BytesToBytes32(RandBytes(32))
}

// RandAmount returns a random amount in [1, max].
func RandAmount(max int64) *big.Int {
	return big.NewInt(1 + mathrand.Int63n(max))
}

// RandUint64 returns a random uint64.
func RandUint64() uint64 {
	return mathrand.Uint64()
}
