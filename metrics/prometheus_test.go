// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopByDefault(t *testing.T) {
	assert.IsType(t, noopMetrics{}, metrics)

	// meters created before initialization must be safe to use
	Counter("noop_count").Add(1)
	Gauge("noop_gauge").Set(100)
	assert.Nil(t, HTTPHandler())
}

func TestPrometheusMetrics(t *testing.T) {
	InitializePrometheusMetrics()
	require.IsType(t, &prometheusMetrics{}, metrics)

	Counter("vault_calls_total").Add(3)
	CounterVec("vault_ops_total", []string{"op"}).AddWithLabel(2, map[string]string{"op": "stake"})
	Gauge("vault_total_staked").Set(1000)
	GaugeVec("vault_scheduled", []string{"kind"}).SetWithLabel(5, map[string]string{"kind": "addition"})
	Histogram("api_request_duration_ms", BucketHTTPReqs).Observe(50)

	// same name yields the same meter
	assert.Equal(t, Counter("vault_calls_total"), Counter("vault_calls_total"))

	server := httptest.NewServer(HTTPHandler())
	defer server.Close()

	res, err := server.Client().Get(server.URL)
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	for _, name := range []string{
		"ember_metrics_vault_calls_total 3",
		`ember_metrics_vault_ops_total{op="stake"} 2`,
		"ember_metrics_vault_total_staked 1000",
		`ember_metrics_vault_scheduled{kind="addition"} 5`,
	} {
		assert.True(t, strings.Contains(string(body), name), "missing %s", name)
	}
}

func TestLazyLoad(t *testing.T) {
	calls := 0
	load := LazyLoad(func() CountMeter {
		calls++
		return Counter("lazy_count")
	})

	a := load()
	b := load()
	assert.Equal(t, 1, calls)
	assert.Equal(t, a, b)
}
