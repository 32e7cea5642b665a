// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

// Sink receives the events of one committed ledger call.
type Sink interface {
	Post(timestamp uint64, events []Event) error
}

// Recorder buffers events emitted during a single ledger call.
// The buffer is flushed to sinks only if the call commits; a rolled-back
// call leaves no observable trace.
type Recorder struct {
	events []Event
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Add appends an event to the buffer.
func (r *Recorder) Add(event Event) {
	r.events = append(r.events, event)
}

// Len returns the count of buffered events.
func (r *Recorder) Len() int {
	return len(r.events)
}

// Reset discards all buffered events.
func (r *Recorder) Reset() {
	r.events = r.events[:0]
}

// Drain returns the buffered events and resets the buffer.
func (r *Recorder) Drain() []Event {
	drained := make([]Event, len(r.events))
	copy(drained, r.events)
	r.Reset()
	return drained
}
