// Package testutil provides helpers shared by the traitx test suites.
package testutil

import (
	"fmt"
	"sync"

	"github.com/comalice/traitx"
)

// Recorder is an observer that stores every event it receives.
type Recorder struct {
	mu     sync.Mutex
	events []traitx.ChangeEvent
}

// Observe records ev. It satisfies traitx.ObserverFunc.
func (r *Recorder) Observe(ev traitx.ChangeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []traitx.ChangeEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]traitx.ChangeEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Reset drops the recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// Summary renders events as "name:old->new" ("name:=new" for defaults),
// which keeps assertions short.
func (r *Recorder) Summary() []string {
	events := r.Events()
	out := make([]string, len(events))
	for i, ev := range events {
		if ev.Kind == traitx.Default {
			out[i] = fmt.Sprintf("%s:=%v", ev.Name, ev.New)
			continue
		}
		out[i] = fmt.Sprintf("%s:%v->%v", ev.Name, ev.Old, ev.New)
	}
	return out
}
