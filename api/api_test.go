// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberfi/ember/api"
	"github.com/emberfi/ember/api/adminapi"
	"github.com/emberfi/ember/api/vaultapi"
	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/eventdb"
	"github.com/emberfi/ember/events"
	"github.com/emberfi/ember/lvldb"
	"github.com/emberfi/ember/state"
	"github.com/emberfi/ember/test/datagen"
	"github.com/emberfi/ember/token"
	"github.com/emberfi/ember/vault"
)

const epochLen = 1000

type testServer struct {
	t     *testing.T
	url   string
	clock *clockwork.FakeClock

	owner ember.Address
	alice ember.Address
}

func newTestServer(t *testing.T) *testServer {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	eventDB, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { eventDB.Close() })

	clock := clockwork.NewFakeClockAt(time.Unix(1_700_000_000, 0))
	ledger := token.NewLedger()

	ts := &testServer{
		t:     t,
		clock: clock,
		owner: datagen.RandAddress(),
		alice: datagen.RandAddress(),
	}
	ledger.Mint(ts.owner, big.NewInt(1_000_000))
	ledger.Mint(ts.alice, big.NewInt(1_000_000))

	v := vault.New(datagen.RandAddress(), state.New(db), clock, ledger, vault.Config{
		EpochDuration:  epochLen,
		BufferWhenIdle: true,
	})
	v.SubscribeSink(eventDB)
	require.NoError(t, v.Initialize(ts.owner))
	require.NoError(t, v.Unpause(ts.owner))

	srv := httptest.NewServer(api.New(v, eventDB, api.Options{AllowedOrigins: "*"}))
	t.Cleanup(srv.Close)
	ts.url = srv.URL
	return ts
}

func (ts *testServer) get(path string, out any) int {
	ts.t.Helper()
	res, err := http.Get(ts.url + path)
	require.NoError(ts.t, err)
	defer res.Body.Close()
	if out != nil && res.StatusCode == http.StatusOK {
		require.NoError(ts.t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func (ts *testServer) post(path string, body any) (int, string) {
	ts.t.Helper()
	encoded, err := json.Marshal(body)
	require.NoError(ts.t, err)
	res, err := http.Post(ts.url+path, "application/json", bytes.NewReader(encoded))
	require.NoError(ts.t, err)
	defer res.Body.Close()
	payload, err := io.ReadAll(res.Body)
	require.NoError(ts.t, err)
	return res.StatusCode, string(payload)
}

func hexAmount(v int64) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(big.NewInt(v))
}

func TestStakeAndQueryFlow(t *testing.T) {
	ts := newTestServer(t)

	code, _ := ts.post("/vault/stakes", &vaultapi.StakeRequest{
		Staker: ts.alice,
		Amount: hexAmount(1000),
	})
	require.Equal(t, http.StatusOK, code)

	var acc vaultapi.Account
	require.Equal(t, http.StatusOK, ts.get(fmt.Sprintf("/vault/accounts/%s", ts.alice), &acc))
	assert.Equal(t, "activating", acc.Status)
	assert.Equal(t, big.NewInt(1000), (*big.Int)(acc.Balance))
	assert.Equal(t, uint64(1), acc.ActivationEpoch)

	ts.clock.Advance(epochLen * time.Second)
	code, _ = ts.post("/vault/distributions", &vaultapi.DistributeRequest{
		Caller: ts.owner,
		Amount: hexAmount(100),
	})
	require.Equal(t, http.StatusOK, code)

	var totals vaultapi.Totals
	require.Equal(t, http.StatusOK, ts.get("/vault/totals", &totals))
	assert.Equal(t, big.NewInt(1050), (*big.Int)(totals.TotalStaked))
	assert.Equal(t, big.NewInt(1000), (*big.Int)(totals.EligibleTotal))

	var epoch vaultapi.Epoch
	require.Equal(t, http.StatusOK, ts.get("/vault/epoch", &epoch))
	assert.Equal(t, uint64(1), epoch.Current)
	assert.Equal(t, uint64(1), epoch.LastProcessed)
	assert.Equal(t, uint64(epochLen), epoch.Duration)
}

func TestRevertMapsToForbidden(t *testing.T) {
	ts := newTestServer(t)

	// nothing staked, the withdrawal rule rejects
	code, body := ts.post("/vault/unstakes", &vaultapi.StakerRequest{Staker: ts.alice})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Contains(t, body, "nothing staked")

	// malformed address is the client's problem, not a revert
	code, _ = ts.post("/vault/stakes", map[string]any{
		"staker": "not-an-address",
		"amount": "100",
	})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAdminEndpoints(t *testing.T) {
	ts := newTestServer(t)

	// a stranger may not pause
	code, _ := ts.post("/admin/pause", &adminapi.CallerRequest{Caller: ts.alice})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = ts.post("/admin/pause", &adminapi.CallerRequest{Caller: ts.owner})
	require.Equal(t, http.StatusOK, code)

	var config vaultapi.Config
	require.Equal(t, http.StatusOK, ts.get("/vault/config", &config))
	assert.True(t, config.Paused)

	code, _ = ts.post("/admin/unpause", &adminapi.CallerRequest{Caller: ts.owner})
	require.Equal(t, http.StatusOK, code)

	code, _ = ts.post("/admin/burn-basis-points", &adminapi.BurnBasisPointsRequest{
		Caller:          ts.owner,
		BurnBasisPoints: 2500,
	})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, http.StatusOK, ts.get("/vault/config", &config))
	assert.Equal(t, uint64(2500), config.BurnBasisPoints)
}

func TestEventsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	code, _ := ts.post("/vault/stakes", &vaultapi.StakeRequest{
		Staker: ts.alice,
		Amount: hexAmount(1000),
	})
	require.Equal(t, http.StatusOK, code)

	var records []*eventdb.Record
	require.Equal(t, http.StatusOK, ts.get("/events?name="+events.NameStaked, &records))
	require.Len(t, records, 1)
	assert.Equal(t, events.NameStaked, records[0].Name)
	require.NotNil(t, records[0].Account)
	assert.Equal(t, ts.alice, *records[0].Account)

	// account filter
	require.Equal(t, http.StatusOK, ts.get(fmt.Sprintf("/events?account=%s", ts.alice), &records))
	require.Len(t, records, 1)
}
