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
// This file defines the Layer interface and LayerStack, a slice type
// holding the ordered sequence of layers that make up one flow's packets.
// It implements convenience functions that fan planning and build hooks out
// across every layer in the stack, the same fan-out shape a slice-of-struct
// type would use to fan configuration calls out across one entry per
// network interface.

package flowsynth

import "github.com/google/gopacket"

// Layer is implemented by every protocol layer the stack can contain. Only
// PlanFlow and Build are mandatory; PostPlanFlow, PlanExtra and PostBuild
// are optional hooks that baseLayer supplies as no-ops so concrete layers
// only need to override what they actually use. Go has no notion of an
// optional interface method, so this embedding is the idiomatic stand-in.
type Layer interface {
	// PlanFlow runs first, in stack order, for every layer. It is the pass
	// in which a layer may mark PacketPlans as IsFinished with a specific
	// structural size (e.g. an ICMP unreachable message).
	PlanFlow(flow *Flow) error

	// PostPlanFlow runs after directions and sizes have been decided.
	PostPlanFlow(flow *Flow) error

	// PlanExtra is the last planning hook, run after PostPlanFlow has run
	// on every layer.
	PlanExtra(flow *Flow) error

	// Build emits this layer's bytes into the packet being assembled.
	Build(pkt *buildState, params LayerParams, plan *PacketPlan) error

	// PostBuild performs adjustments that require downstream layers to
	// have already written their bytes (checksums, fragmentation fixups).
	PostBuild(pkt *buildState, params LayerParams, plan *PacketPlan) error

	// index returns this layer's 0-based position in its owning Flow's
	// LayerStack, set once when the layer is appended.
	index() int
	setIndex(i int)
}

// baseLayer supplies the optional hooks as no-ops and carries the
// position and owning-Flow bookkeeping every concrete layer needs, via a
// back-reference convention (e.g. Generator{nt *NetworkTester, id int}):
// each layer holds a non-owning observer handle to the Flow that added it,
// valid for the Flow's lifetime, plus its 0-based stack position.
type baseLayer struct {
	pos  int
	flow *Flow
}

func (b *baseLayer) index() int     { return b.pos }
func (b *baseLayer) setIndex(i int) { b.pos = i }

// PlanFlow's default records the owning Flow and does nothing else.
// Layers that need to pin sizes or directions (the ICMP variants) override
// it and call this through explicitly.
func (b *baseLayer) PlanFlow(flow *Flow) error {
	b.flow = flow
	return nil
}

func (b *baseLayer) PostPlanFlow(flow *Flow) error { return nil }
func (b *baseLayer) PlanExtra(flow *Flow) error    { return nil }
func (b *baseLayer) PostBuild(pkt *buildState, params LayerParams, plan *PacketPlan) error {
	return nil
}

// LayerStack is the ordered collection of Layers that make up one flow's
// packets. It fans planning and build hooks out across every layer, in
// stack order, the same convenience-slice shape used elsewhere in this
// codebase to fan per-entry calls out across a slice of structs.
type LayerStack []Layer

// Add appends layer to the stack and records its 0-based position.
func (s *LayerStack) Add(layer Layer) {
	layer.setIndex(len(*s))
	*s = append(*s, layer)
}

// PlanFlow runs PlanFlow on every layer, in stack order.
func (s LayerStack) PlanFlow(flow *Flow) error {
	for _, layer := range s {
		if err := layer.PlanFlow(flow); err != nil {
			return err
		}
	}
	return nil
}

// PostPlanFlow runs PostPlanFlow on every layer, in stack order.
func (s LayerStack) PostPlanFlow(flow *Flow) error {
	for _, layer := range s {
		if err := layer.PostPlanFlow(flow); err != nil {
			return err
		}
	}
	return nil
}

// PlanExtra runs PlanExtra on every layer, in stack order, after
// PostPlanFlow has completed for the whole stack.
func (s LayerStack) PlanExtra(flow *Flow) error {
	for _, layer := range s {
		if err := layer.PlanExtra(flow); err != nil {
			return err
		}
	}
	return nil
}

// buildState accumulates the gopacket.SerializableLayer values each Layer's
// Build hook contributes, in stack order, so the Packet Builder can
// serialize them all at once via gopacket.SerializeLayers with FixLengths
// and ComputeChecksums enabled.
type buildState struct {
	layers  []gopacket.SerializableLayer
	payload []byte

	// networkLayer is set by the IPv4/IPv6 layer's Build hook so that the
	// following transport layer can call SetNetworkLayerForChecksum on
	// itself before serialization computes the checksum.
	networkLayer gopacket.NetworkLayer

	// l3Offset is the byte offset of the network-layer header within the
	// fully serialized packet, set by the IPv4/IPv6 layer's Build hook so
	// its PostBuild can find its own header again after the first
	// finalization pass.
	l3Offset int

	// serialized holds the packet bytes after the Packet Builder's first
	// finalization pass, before PostBuild hooks run. IPv4Layer/IPv6Layer
	// read it to perform fragmentation, which operates on final wire bytes
	// rather than on the still-mutable SerializableLayer list.
	serialized []byte

	// fragments, if non-empty after the PostBuild pass, replaces the
	// single serialized packet with this ordered sequence of wire frames.
	// Populated by IPv4Layer/IPv6Layer when a packet is fragmented.
	fragments [][]byte
}

func (b *buildState) push(l gopacket.SerializableLayer) {
	b.layers = append(b.layers, l)
}
