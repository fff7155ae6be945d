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
// Implements PacketPlan, the per-packet state carried across the planning
// phases before any bytes are built, and PacketPlans, a slice type with the
// convenience accessors the planning steps need (direction counting,
// timestamp sorting).

package flowsynth

import "time"

// Direction identifies which side of a flow a packet belongs to.
type Direction int

const (
	DirUnknown Direction = iota
	DirForward
	DirReverse
)

// String renders the direction for diagnostics and CSV output.
func (d Direction) String() string {
	switch d {
	case DirForward:
		return "forward"
	case DirReverse:
		return "reverse"
	default:
		return "unknown"
	}
}

// LayerParams is the marker interface implemented by every layer's
// per-packet parameter struct. Storing (layer index, params) pairs this
// way avoids heterogeneous dynamic dispatch on the packet-building hot
// path: the Packet Builder knows which concrete layer occupies each index
// and can type-assert directly.
type LayerParams interface {
	isLayerParams()
}

// PacketPlan is the per-packet state shared across planning phases.
type PacketPlan struct {
	Direction  Direction
	Timestamp  time.Time
	Size       int // L3-and-above byte count; the L2 header is separate
	IsFinished bool

	// Params holds one entry per layer in the owning Flow's LayerStack, in
	// stack order. A nil entry means the layer at that index has not yet
	// filled in its entry (most layers do so in PostPlanFlow, the ICMP
	// unreachable-style layers in PlanFlow).
	Params []LayerParams
}

// PacketPlans is a slice of PacketPlan, used while a Flow is mid-planning.
// It implements sort.Interface, ordering plans by Timestamp.
type PacketPlans []*PacketPlan

func (p PacketPlans) Len() int      { return len(p) }
func (p PacketPlans) Swap(i, j int) { p[i], p[j] = p[j], p[i] }
func (p PacketPlans) Less(i, j int) bool {
	return p[i].Timestamp.Before(p[j].Timestamp)
}

// CountDirection returns the number of plans currently assigned to dir.
func (p PacketPlans) CountDirection(dir Direction) int {
	n := 0
	for _, plan := range p {
		if plan.Direction == dir {
			n++
		}
	}
	return n
}

// Unfinished returns the subset of plans for the given direction that have
// not been structurally pinned by a layer's PlanFlow hook.
func (p PacketPlans) Unfinished(dir Direction) PacketPlans {
	var out PacketPlans
	for _, plan := range p {
		if plan.Direction == dir && !plan.IsFinished {
			out = append(out, plan)
		}
	}
	return out
}

// Finished returns the subset of plans for the given direction that a
// layer already pinned to a specific size during PlanFlow.
func (p PacketPlans) Finished(dir Direction) PacketPlans {
	var out PacketPlans
	for _, plan := range p {
		if plan.Direction == dir && plan.IsFinished {
			out = append(out, plan)
		}
	}
	return out
}

// PacketExtra accompanies the bytes the Packet Builder emits for each
// packet: the information that does not live inside the wire bytes
// themselves but that a sink (e.g. a PCAP writer) still needs.
type PacketExtra struct {
	Direction Direction
	Timestamp time.Time
}
