// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/vault/slot"
)

var slotAccounts = ember.BytesToBytes32([]byte("accounts"))

// Service is the repository of account records.
type Service struct {
	records *slot.Mapping[ember.Address, *Account]
}

// New creates the service over the given slot context.
func New(sctx *slot.Context) *Service {
	return &Service{
		records: slot.NewMapping[ember.Address, *Account](sctx, slotAccounts),
	}
}

// Get returns the account for addr, a zeroed record if none exists.
func (s *Service) Get(addr ember.Address) (*Account, error) {
	acc, err := s.records.Get(addr)
	if err != nil {
		return nil, err
	}
	acc.normalize()
	return acc, nil
}

// Set stores the account for addr. Empty records are deleted, which is how
// a full exit erases the participant from the ledger.
func (s *Service) Set(addr ember.Address, acc *Account) error {
	acc.normalize()
	if acc.IsEmpty() {
		s.records.Delete(addr)
		return nil
	}
	return s.records.Set(addr, acc)
}
