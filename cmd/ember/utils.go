// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/crypto"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/eventdb"
	"github.com/emberfi/ember/log"
	"github.com/emberfi/ember/lvldb"
	"github.com/emberfi/ember/token"
)

// vaultAddress is the custody identity of the ledger in the token's books.
var vaultAddress = ember.BytesToAddress(crypto.Keccak256([]byte("ember-vault"))[12:])

// devAccountBalance is minted to each well-known dev account.
var devAccountBalance = new(big.Int).Mul(big.NewInt(1e9), big.NewInt(1e18))

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".org.emberfi.ember")
}

func initLogger(ctx *cli.Context) {
	verbosity := ctx.Int(verbosityFlag.Name)
	var level slog.Level
	switch {
	case verbosity <= 0:
		level = slog.LevelError + 4 // silent
	case verbosity == 1:
		level = slog.LevelError
	case verbosity == 2:
		level = slog.LevelWarn
	case verbosity == 3:
		level = slog.LevelInfo
	case verbosity == 4:
		level = slog.LevelDebug
	default:
		level = log.LevelTrace
	}
	log.SetDefault(log.NewTerminalHandler(os.Stderr, level))
}

func makeInstanceDir(ctx *cli.Context) string {
	dir := ctx.String(dataDirFlag.Name)
	if dir == "" {
		fatal("unable to infer default data dir, use -%s to specify one", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		fatal("create data dir [%v]: %v", dir, err)
	}
	return dir
}

func openMainDB(instanceDir string) *lvldb.LevelDB {
	db, err := lvldb.New(filepath.Join(instanceDir, "main.db"), lvldb.Options{})
	if err != nil {
		fatal("open main database [%v]: %v", instanceDir, err)
	}
	return db
}

func openEventDB(instanceDir string) *eventdb.EventDB {
	path := filepath.Join(instanceDir, "events.db")
	db, err := eventdb.New(path)
	if err != nil {
		fatal("open event database [%v]: %v", path, err)
	}
	return db
}

// newDevLedger creates the in-memory dev token with a set of funded accounts
// derived from well-known keys, the way a local test network funds its
// genesis accounts.
func newDevLedger() (*token.Ledger, []ember.Address) {
	ledger := token.NewLedger()
	accounts := make([]ember.Address, 0, 5)
	for i := 0; i < 5; i++ {
		seed := crypto.Keccak256([]byte(fmt.Sprintf("ember-dev-account-%d", i)))
		key, err := crypto.ToECDSA(seed)
		if err != nil {
			fatal("derive dev key: %v", err)
		}
		addr := ember.BytesToAddress(crypto.PubkeyToAddress(key.PublicKey).Bytes())
		ledger.Mint(addr, devAccountBalance)
		accounts = append(accounts, addr)
	}
	return ledger, accounts
}

func printStartupInfo(ctx *cli.Context, owner ember.Address, accounts []ember.Address) {
	fmt.Printf(`Starting %v
    Version     %v
    Data dir    %v
    API portal  http://%v
    Owner       %v
    Epoch       %vs
`,
		"Ember",
		fullVersion(),
		ctx.String(dataDirFlag.Name),
		ctx.String(apiAddrFlag.Name),
		owner,
		ctx.Uint64(epochLengthFlag.Name),
	)
	fmt.Println("    Dev accounts")
	for _, addr := range accounts {
		fmt.Printf("        %v  balance %v\n", addr, devAccountBalance)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
