// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api assembles the HTTP surface of the ledger.
package api

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/emberfi/ember/api/adminapi"
	"github.com/emberfi/ember/api/eventsapi"
	"github.com/emberfi/ember/api/vaultapi"
	"github.com/emberfi/ember/eventdb"
	"github.com/emberfi/ember/log"
	"github.com/emberfi/ember/vault"
)

var logger = log.WithContext("pkg", "api")

// Options configures the HTTP surface.
type Options struct {
	AllowedOrigins  string
	EventsLimit     uint64
	EnableMetrics   bool
	EnableReqLogger bool
}

// New returns the assembled http handler.
//
// The vault runs calls one at a time; the router imposes that total order
// over concurrent requests.
func New(v *vault.Vault, eventDB *eventdb.EventDB, opts Options) http.Handler {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}
	if opts.EventsLimit == 0 {
		opts.EventsLimit = 1000
	}

	router := mux.NewRouter()
	router.Use(serializeHandler())

	vaultapi.New(v).Mount(router, "/vault")
	adminapi.New(v).Mount(router, "/admin")
	if eventDB != nil {
		eventsapi.New(eventDB, opts.EventsLimit).Mount(router, "/events")
	}

	if opts.EnableMetrics {
		router.Use(metricsHandler)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = requestLoggerHandler(handler)
	}
	return handler
}

func serializeHandler() mux.MiddlewareFunc {
	var mu sync.Mutex
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			defer mu.Unlock()
			h.ServeHTTP(w, r)
		})
	}
}
