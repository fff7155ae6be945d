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
// PacketBuilder drains a Flow's plan list one PacketPlan at a time,
// walking the LayerStack's Build then PostBuild hooks with a checksum and
// length finalization pass between them.

package flowsynth

import "github.com/google/gopacket"

// Packet is one finished wire-format frame plus the out-of-band
// information a sink needs alongside it.
type Packet struct {
	Bytes []byte
	Extra PacketExtra
}

// PacketBuilder builds the wire bytes for a planned Flow, one PacketPlan
// at a time, in the order Flow.Plan assigned.
type PacketBuilder struct {
	flow *Flow
}

// NewPacketBuilder creates a PacketBuilder over flow, which must already
// have been planned.
func NewPacketBuilder(flow *Flow) *PacketBuilder {
	return &PacketBuilder{flow: flow}
}

var serializeOpts = gopacket.SerializeOptions{
	FixLengths:       true,
	ComputeChecksums: true,
}

// BuildNext drains the next PacketPlan and returns the Packets it turns
// into: ordinarily exactly one, or two when the plan's IPv4/IPv6 layer
// fragmented it during PostBuild. Returns ErrNoMorePackets once the
// flow's plan list is exhausted.
func (b *PacketBuilder) BuildNext() ([]Packet, error) {
	plan, err := b.flow.GenerateNextPacket()
	if err != nil {
		return nil, err
	}
	return b.build(plan)
}

func (b *PacketBuilder) build(plan *PacketPlan) ([]Packet, error) {
	stack := b.flow.Stack()
	pkt := &buildState{}

	for i, layer := range stack {
		if err := layer.Build(pkt, plan.Params[i], plan); err != nil {
			return nil, err
		}
	}

	buf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, serializeOpts, pkt.layers...); err != nil {
		return nil, err
	}
	pkt.serialized = append([]byte(nil), buf.Bytes()...)

	for i, layer := range stack {
		if err := layer.PostBuild(pkt, plan.Params[i], plan); err != nil {
			return nil, err
		}
	}

	extra := PacketExtra{Direction: plan.Direction, Timestamp: plan.Timestamp}

	// No PostBuild hook in this core rewrites pkt.layers; fragmentation
	// works directly on pkt.serialized and leaves its own checksums final,
	// so a second SerializeLayers pass would be a no-op and is skipped.
	if len(pkt.fragments) > 0 {
		out := make([]Packet, len(pkt.fragments))
		for i, frag := range pkt.fragments {
			out[i] = Packet{Bytes: padToMinFrame(frag), Extra: extra}
		}
		return out, nil
	}

	return []Packet{{Bytes: padToMinFrame(pkt.serialized), Extra: extra}}, nil
}

// padToMinFrame zero-pads b up to MinFrameLen, matching the minimum
// Ethernet frame length a real MAC would enforce.
func padToMinFrame(b []byte) []byte {
	if len(b) >= MinFrameLen {
		return b
	}
	out := make([]byte, MinFrameLen)
	copy(out, b)
	return out
}
