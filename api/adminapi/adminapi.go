// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package adminapi exposes the owner-restricted setters over HTTP.
package adminapi

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/emberfi/ember/api/utils"
	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/vault"
	"github.com/emberfi/ember/vault/reverts"
)

type AdminAPI struct {
	vault *vault.Vault
}

func New(v *vault.Vault) *AdminAPI {
	return &AdminAPI{v}
}

func callErr(err error) error {
	if err == nil {
		return nil
	}
	if reverts.IsRevert(err) {
		return utils.Forbidden(err)
	}
	return err
}

// CallerRequest names the admin performing an operation.
type CallerRequest struct {
	Caller ember.Address `json:"caller"`
}

// BurnBasisPointsRequest updates the inflow split.
type BurnBasisPointsRequest struct {
	Caller          ember.Address `json:"caller"`
	BurnBasisPoints uint64        `json:"burnBasisPoints"`
}

// FeeRouterRequest registers the automated fee source.
type FeeRouterRequest struct {
	Caller ember.Address `json:"caller"`
	Router ember.Address `json:"router"`
}

// DistributorRequest grants or revokes the distributor role.
type DistributorRequest struct {
	Caller      ember.Address `json:"caller"`
	Distributor ember.Address `json:"distributor"`
	Allowed     bool          `json:"allowed"`
}

// OwnerRequest transfers ownership.
type OwnerRequest struct {
	Caller   ember.Address `json:"caller"`
	NewOwner ember.Address `json:"newOwner"`
}

// RecoverRequest sweeps stray tokens.
type RecoverRequest struct {
	Caller ember.Address `json:"caller"`
	To     ember.Address `json:"to"`
}

func (aa *AdminAPI) handlePause(w http.ResponseWriter, req *http.Request) error {
	var body CallerRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := aa.vault.Pause(body.Caller); err != nil {
		return callErr(err)
	}
	return utils.WriteJSON(w, utils.M{"paused": true})
}

func (aa *AdminAPI) handleUnpause(w http.ResponseWriter, req *http.Request) error {
	var body CallerRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := aa.vault.Unpause(body.Caller); err != nil {
		return callErr(err)
	}
	return utils.WriteJSON(w, utils.M{"paused": false})
}

func (aa *AdminAPI) handleSetBurnBasisPoints(w http.ResponseWriter, req *http.Request) error {
	var body BurnBasisPointsRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := aa.vault.SetBurnBasisPoints(body.Caller, body.BurnBasisPoints); err != nil {
		return callErr(err)
	}
	return utils.WriteJSON(w, utils.M{"burnBasisPoints": body.BurnBasisPoints})
}

func (aa *AdminAPI) handleSetFeeRouter(w http.ResponseWriter, req *http.Request) error {
	var body FeeRouterRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := aa.vault.SetFeeRouter(body.Caller, body.Router); err != nil {
		return callErr(err)
	}
	return utils.WriteJSON(w, utils.M{"feeRouter": body.Router})
}

func (aa *AdminAPI) handleSetDistributor(w http.ResponseWriter, req *http.Request) error {
	var body DistributorRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := aa.vault.SetDistributor(body.Caller, body.Distributor, body.Allowed); err != nil {
		return callErr(err)
	}
	return utils.WriteJSON(w, utils.M{"distributor": body.Distributor, "allowed": body.Allowed})
}

func (aa *AdminAPI) handleTransferOwnership(w http.ResponseWriter, req *http.Request) error {
	var body OwnerRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := aa.vault.TransferOwnership(body.Caller, body.NewOwner); err != nil {
		return callErr(err)
	}
	return utils.WriteJSON(w, utils.M{"owner": body.NewOwner})
}

func (aa *AdminAPI) handleRecoverStray(w http.ResponseWriter, req *http.Request) error {
	var body RecoverRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	recovered, err := aa.vault.RecoverStray(body.Caller, body.To)
	if err != nil {
		return callErr(err)
	}
	return utils.WriteJSON(w, utils.M{"recovered": (*math.HexOrDecimal256)(new(big.Int).Set(recovered))})
}

func (aa *AdminAPI) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/pause").
		Methods(http.MethodPost).
		HandlerFunc(utils.WrapHandlerFunc(aa.handlePause))
	sub.Path("/unpause").
		Methods(http.MethodPost).
		HandlerFunc(utils.WrapHandlerFunc(aa.handleUnpause))
	sub.Path("/burn-basis-points").
		Methods(http.MethodPost).
		HandlerFunc(utils.WrapHandlerFunc(aa.handleSetBurnBasisPoints))
	sub.Path("/fee-router").
		Methods(http.MethodPost).
		HandlerFunc(utils.WrapHandlerFunc(aa.handleSetFeeRouter))
	sub.Path("/distributors").
		Methods(http.MethodPost).
		HandlerFunc(utils.WrapHandlerFunc(aa.handleSetDistributor))
	sub.Path("/owner").
		Methods(http.MethodPost).
		HandlerFunc(utils.WrapHandlerFunc(aa.handleTransferOwnership))
	sub.Path("/recover").
		Methods(http.MethodPost).
		HandlerFunc(utils.WrapHandlerFunc(aa.handleRecoverStray))
}
