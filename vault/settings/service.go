// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package settings holds the ledger's administrative configuration: owner,
// pause switch, burn ratio and the authorized collaborator addresses.
package settings

import (
	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/vault/slot"
)

var slotDistributors = ember.BytesToBytes32([]byte("distributors"))

// Service owns the configuration slots.
type Service struct {
	owner        *slot.Address
	paused       *slot.Uint64
	burnBps      *slot.Uint64
	feeRouter    *slot.Address
	distributors *slot.Mapping[ember.Address, bool]
}

// New creates the service over the given slot context.
func New(sctx *slot.Context) *Service {
	return &Service{
		owner:        slot.NewAddress(sctx, ember.KeyOwner),
		paused:       slot.NewUint64(sctx, ember.KeyPaused),
		burnBps:      slot.NewUint64(sctx, ember.KeyBurnBasisPoint),
		feeRouter:    slot.NewAddress(sctx, ember.KeyFeeRouter),
		distributors: slot.NewMapping[ember.Address, bool](sctx, slotDistributors),
	}
}

// Owner returns the administrative owner.
func (s *Service) Owner() (ember.Address, error) {
	return s.owner.Get()
}

// SetOwner transfers ownership.
func (s *Service) SetOwner(addr ember.Address) {
	s.owner.Set(addr)
}

// Paused reports whether staking and reward intake are suspended.
func (s *Service) Paused() (bool, error) {
	paused, err := s.paused.Get()
	return paused != 0, err
}

// SetPaused flips the pause switch.
func (s *Service) SetPaused(paused bool) {
	if paused {
		s.paused.Set(1)
	} else {
		s.paused.Set(0)
	}
}

// BurnBasisPoints returns the burn side of the inflow split.
func (s *Service) BurnBasisPoints() (uint64, error) {
	return s.burnBps.Get()
}

// SetBurnBasisPoints updates the burn ratio.
func (s *Service) SetBurnBasisPoints(bps uint64) {
	s.burnBps.Set(bps)
}

// FeeRouter returns the registered automated fee source, zero if none.
func (s *Service) FeeRouter() (ember.Address, error) {
	return s.feeRouter.Get()
}

// SetFeeRouter registers the automated fee source.
func (s *Service) SetFeeRouter(addr ember.Address) {
	s.feeRouter.Set(addr)
}

// IsDistributor reports whether addr may stake on behalf of others.
func (s *Service) IsDistributor(addr ember.Address) (bool, error) {
	return s.distributors.Get(addr)
}

// SetDistributor grants or revokes the distributor role.
func (s *Service) SetDistributor(addr ember.Address, allowed bool) error {
	if !allowed {
		s.distributors.Delete(addr)
		return nil
	}
	return s.distributors.Set(addr, true)
}
