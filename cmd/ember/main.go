// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/emberfi/ember/api"
	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/log"
	"github.com/emberfi/ember/metrics"
	"github.com/emberfi/ember/state"
	"github.com/emberfi/ember/vault"
)

var (
	version   string
	gitCommit string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	if gitCommit == "" {
		return version + "-dev"
	}
	return fmt.Sprintf("%s-%.8s", version, gitCommit)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Ember",
		Usage:     "Epoch-gated auto-compounding reward ledger",
		Copyright: "2026 The Ember developers",
		Flags: []cli.Flag{
			dataDirFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiEventsLimitFlag,
			enableAPILogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			verbosityFlag,
			epochLengthFlag,
			rejectIdleInflowsFlag,
			ownerFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	instanceDir := makeInstanceDir(ctx)

	mainDB := openMainDB(instanceDir)
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	eventDB := openEventDB(instanceDir)
	defer func() { logger.Info("closing event database..."); eventDB.Close() }()

	ledger, accounts := newDevLedger()
	owner := accounts[0]
	if hexAddr := ctx.String(ownerFlag.Name); hexAddr != "" {
		parsed, err := ember.ParseAddress(hexAddr)
		if err != nil {
			return fmt.Errorf("owner: %w", err)
		}
		owner = *parsed
	}

	v := vault.New(
		vaultAddress,
		state.New(mainDB),
		clockwork.NewRealClock(),
		ledger,
		vault.Config{
			EpochDuration:  ctx.Uint64(epochLengthFlag.Name),
			BufferWhenIdle: !ctx.Bool(rejectIdleInflowsFlag.Name),
		},
	)
	v.SubscribeSink(eventDB)

	current, err := v.Owner()
	if err != nil {
		return err
	}
	if current.IsZero() {
		if err := v.Initialize(owner); err != nil {
			return err
		}
	}

	printStartupInfo(ctx, owner, accounts)

	handler := api.New(v, eventDB, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EventsLimit:     ctx.Uint64(apiEventsLimitFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
	})

	srv := &http.Server{Addr: ctx.String(apiAddrFlag.Name), Handler: handler}
	srvErr := make(chan error, 1)
	go func() {
		logger.Info("API started", "addr", srv.Addr)
		srvErr <- srv.ListenAndServe()
	}()

	var metricsSrv *http.Server
	if ctx.Bool(enableMetricsFlag.Name) {
		metricsSrv = &http.Server{Addr: ctx.String(metricsAddrFlag.Name), Handler: metrics.HTTPHandler()}
		go func() {
			logger.Info("metrics started", "addr", metricsSrv.Addr)
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Warn("metrics server stopped", "err", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-srvErr:
		return err
	case sig := <-quit:
		logger.Info("shutting down...", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	return srv.Shutdown(shutdownCtx)
}
