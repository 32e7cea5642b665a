// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vaultapi exposes the ledger's views and entrypoints over HTTP.
package vaultapi

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/emberfi/ember/api/utils"
	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/vault"
	"github.com/emberfi/ember/vault/reverts"
)

type VaultAPI struct {
	vault *vault.Vault
}

func New(v *vault.Vault) *VaultAPI {
	return &VaultAPI{v}
}

// callErr maps a ledger error onto an http status: rule rejections are the
// caller's fault, everything else is ours.
func callErr(err error) error {
	if err == nil {
		return nil
	}
	if reverts.IsRevert(err) {
		return utils.Forbidden(err)
	}
	return err
}

func parseAmount(v *big.Int) (*big.Int, error) {
	if v == nil {
		return nil, errors.New("amount: missing")
	}
	return v, nil
}

func (va *VaultAPI) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := ember.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}

	acc, err := va.vault.AccountOf(*addr)
	if err != nil {
		return err
	}
	balance, err := va.vault.BalanceOf(*addr)
	if err != nil {
		return err
	}
	earned, err := va.vault.Earned(*addr)
	if err != nil {
		return err
	}

	return utils.WriteJSON(w, &Account{
		Address:          *addr,
		Status:           statusName(acc.Status()),
		Balance:          amount(balance),
		EligibleBalance:  amount(acc.EligibleBalance),
		Earned:           amount(earned),
		ActivationAmount: amount(acc.ActivationAmount),
		ActivationEpoch:  acc.ActivationEpoch,
		WithdrawalAmount: amount(acc.WithdrawalAmount),
		WithdrawalEpoch:  acc.WithdrawalEpoch,
	})
}

func (va *VaultAPI) handleGetTotals(w http.ResponseWriter, _ *http.Request) error {
	totals, err := va.vault.Totals()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertTotals(totals))
}

func (va *VaultAPI) handleGetEpoch(w http.ResponseWriter, _ *http.Request) error {
	info, err := va.vault.EpochInfo()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Epoch{
		Current:       info.Current,
		LastProcessed: info.LastProcessed,
		StartTime:     info.StartTime,
		Duration:      info.Duration,
	})
}

func (va *VaultAPI) handleGetConfig(w http.ResponseWriter, _ *http.Request) error {
	owner, err := va.vault.Owner()
	if err != nil {
		return err
	}
	paused, err := va.vault.Paused()
	if err != nil {
		return err
	}
	bps, err := va.vault.BurnBasisPoints()
	if err != nil {
		return err
	}
	router, err := va.vault.FeeRouter()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Config{
		Owner:           owner,
		Paused:          paused,
		BurnBasisPoints: bps,
		FeeRouter:       router,
	})
}

func (va *VaultAPI) handleStake(w http.ResponseWriter, req *http.Request) error {
	var body StakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amt, err := parseAmount((*big.Int)(body.Amount))
	if err != nil {
		return utils.BadRequest(err)
	}
	if err := va.vault.Stake(body.Staker, amt); err != nil {
		return callErr(err)
	}
	return utils.WriteJSON(w, utils.M{"staked": true})
}

func (va *VaultAPI) handleStakeOnBehalf(w http.ResponseWriter, req *http.Request) error {
	var body StakeOnBehalfRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amt, err := parseAmount((*big.Int)(body.Amount))
	if err != nil {
		return utils.BadRequest(err)
	}
	if err := va.vault.StakeOnBehalfOf(body.Caller, body.User, amt); err != nil {
		return callErr(err)
	}
	return utils.WriteJSON(w, utils.M{"staked": true})
}

func (va *VaultAPI) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	var body StakerRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := va.vault.Unstake(body.Staker); err != nil {
		return callErr(err)
	}
	return utils.WriteJSON(w, utils.M{"scheduled": true})
}

func (va *VaultAPI) handleFinalizeUnstake(w http.ResponseWriter, req *http.Request) error {
	var body StakerRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := va.vault.FinalizeUnstake(body.Staker); err != nil {
		return callErr(err)
	}
	return utils.WriteJSON(w, utils.M{"finalized": true})
}

func (va *VaultAPI) handleEmergencyExit(w http.ResponseWriter, req *http.Request) error {
	var body StakerRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := va.vault.EmergencyExit(body.Staker); err != nil {
		return callErr(err)
	}
	return utils.WriteJSON(w, utils.M{"scheduled": true})
}

func (va *VaultAPI) handleTouch(w http.ResponseWriter, req *http.Request) error {
	addr, err := ember.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	if err := va.vault.Touch(*addr); err != nil {
		return callErr(err)
	}
	return utils.WriteJSON(w, utils.M{"touched": true})
}

func (va *VaultAPI) handleDistribute(w http.ResponseWriter, req *http.Request) error {
	var body DistributeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amt, err := parseAmount((*big.Int)(body.Amount))
	if err != nil {
		return utils.BadRequest(err)
	}
	if err := va.vault.Distribute(body.Caller, amt); err != nil {
		return callErr(err)
	}
	return utils.WriteJSON(w, utils.M{"distributed": true})
}

func (va *VaultAPI) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/totals").
		Methods(http.MethodGet).
		HandlerFunc(utils.WrapHandlerFunc(va.handleGetTotals))
	sub.Path("/epoch").
		Methods(http.MethodGet).
		HandlerFunc(utils.WrapHandlerFunc(va.handleGetEpoch))
	sub.Path("/config").
		Methods(http.MethodGet).
		HandlerFunc(utils.WrapHandlerFunc(va.handleGetConfig))
	sub.Path("/accounts/{address}").
		Methods(http.MethodGet).
		HandlerFunc(utils.WrapHandlerFunc(va.handleGetAccount))
	sub.Path("/accounts/{address}/touch").
		Methods(http.MethodPost).
		HandlerFunc(utils.WrapHandlerFunc(va.handleTouch))
	sub.Path("/stakes").
		Methods(http.MethodPost).
		HandlerFunc(utils.WrapHandlerFunc(va.handleStake))
	sub.Path("/stakes/on-behalf").
		Methods(http.MethodPost).
		HandlerFunc(utils.WrapHandlerFunc(va.handleStakeOnBehalf))
	sub.Path("/unstakes").
		Methods(http.MethodPost).
		HandlerFunc(utils.WrapHandlerFunc(va.handleUnstake))
	sub.Path("/unstakes/finalize").
		Methods(http.MethodPost).
		HandlerFunc(utils.WrapHandlerFunc(va.handleFinalizeUnstake))
	sub.Path("/exits").
		Methods(http.MethodPost).
		HandlerFunc(utils.WrapHandlerFunc(va.handleEmergencyExit))
	sub.Path("/distributions").
		Methods(http.MethodPost).
		HandlerFunc(utils.WrapHandlerFunc(va.handleDistribute))
}
