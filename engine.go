// The MIT License
//
// Copyright (c) 2017-2018 by the author(s)
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
//
// Author(s):
//   - Andreas Oeldemann <andreas.oeldemann@tum.de>
//
// Description:
//
// Engine is the toplevel struct driving a full run: it owns the seeded
// RandomGenerator and AddressGenerator shared across every flow and the
// Flows fan-out, generalized from a run-wide driver struct that owned
// hardware-wide handles and per-interface slices that every replay/capture
// call fanned out across.

package flowsynth

// Engine owns the process-wide random sources and the set of Flows built
// from one run's profiles, in profile order.
type Engine struct {
	addrGen *AddressGenerator
	cfg     *PlannerConfig
	flows   Flows
}

// NewEngine seeds the shared RandomGenerator and constructs the run's
// AddressGenerator. It must be called once per run before any flow is
// planned.
func NewEngine(cfg *PlannerConfig, rngSeed, addrSeed uint32) (*Engine, error) {
	SeedGlobal(rngSeed)

	addrGen, err := NewAddressGenerator(addrSeed)
	if err != nil {
		return nil, err
	}

	return &Engine{addrGen: addrGen, cfg: cfg}, nil
}

// AddProfile constructs and plans a Flow for profile, appending it to the
// engine's flow list. A planning error (UnknownProtocol,
// ProtocolMismatch) is fatal to that flow, not the run: the caller
// decides whether to log and continue.
func (e *Engine) AddProfile(profile *FlowProfile) (*Flow, error) {
	flow := NewFlow(profile, e.cfg, e.addrGen)
	if err := flow.Plan(); err != nil {
		return nil, err
	}
	e.flows = append(e.flows, flow)
	return flow, nil
}

// Flows returns every successfully planned Flow, in the order profiles
// were added.
func (e *Engine) Flows() Flows {
	return e.flows
}

// Flows is a slice type holding every planned Flow in a run, using the
// same convenience-slice pattern as elsewhere in this codebase: fan-out
// operations (draining the next packet across every flow in timestamp
// order) out across one struct per flow.
type Flows []*Flow

// NextPacketFlow scans every flow for the one whose next undrained
// PacketPlan has the earliest timestamp, so a single-threaded driver can
// interleave multiple flows' output in nondecreasing global time order.
// Returns -1 if every flow is drained.
func (fs Flows) NextPacketFlow() int {
	earliest := -1
	var earliestTs int64
	for i, f := range fs {
		if f.cursor >= len(f.plans) {
			continue
		}
		ts := f.plans[f.cursor].Timestamp.UnixNano()
		if earliest == -1 || ts < earliestTs {
			earliest = i
			earliestTs = ts
		}
	}
	return earliest
}
