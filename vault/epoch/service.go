// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package epoch converts wall-clock time into discrete epoch numbers.
//
// The epoch clock starts lazily on first unpause and never needs an external
// keeper: whichever call arrives after a boundary settles everything the
// boundary owed.
package epoch

import (
	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/vault/slot"
)

var (
	slotStartTime     = ember.BytesToBytes32([]byte("epoch-start-time"))
	slotLastProcessed = ember.BytesToBytes32([]byte("last-processed-epoch"))
)

// Service owns the epoch clock state.
type Service struct {
	duration      uint64
	startTime     *slot.Uint64
	lastProcessed *slot.Uint64
}

// New creates the service over the given slot context.
// duration is the epoch length in seconds.
func New(sctx *slot.Context, duration uint64) *Service {
	if duration == 0 {
		duration = ember.EpochDuration
	}
	return &Service{
		duration:      duration,
		startTime:     slot.NewUint64(sctx, slotStartTime),
		lastProcessed: slot.NewUint64(sctx, slotLastProcessed),
	}
}

// Duration returns the epoch length in seconds.
func (s *Service) Duration() uint64 {
	return s.duration
}

// StartTime returns the epoch clock origin, zero before initialization.
func (s *Service) StartTime() (uint64, error) {
	return s.startTime.Get()
}

// Initialized reports whether the epoch clock has started.
func (s *Service) Initialized() (bool, error) {
	start, err := s.startTime.Get()
	return start != 0, err
}

// Init starts the epoch clock at the given time.
// It is a no-op if the clock already runs.
func (s *Service) Init(now uint64) (started bool, err error) {
	initialized, err := s.Initialized()
	if err != nil || initialized {
		return false, err
	}
	s.startTime.Set(now)
	return true, nil
}

// Current returns the epoch number at the given time.
// Epoch 0 lasts until the clock is initialized plus one duration.
func (s *Service) Current(now uint64) (uint64, error) {
	start, err := s.startTime.Get()
	if err != nil {
		return 0, err
	}
	if start == 0 || now < start {
		return 0, nil
	}
	return (now - start) / s.duration, nil
}

// LastProcessed returns the highest epoch whose boundary has been settled.
func (s *Service) LastProcessed() (uint64, error) {
	return s.lastProcessed.Get()
}

// SetLastProcessed records a settled boundary.
func (s *Service) SetLastProcessed(epoch uint64) {
	s.lastProcessed.Set(epoch)
}
