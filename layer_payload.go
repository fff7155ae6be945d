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
// Payload layer. Added to the stack only when L4 is TCP or UDP; ICMP and
// ICMPv6 layers append their own trailing bytes directly since no Payload
// layer follows them.

package flowsynth

import "github.com/google/gopacket"

// PayloadParams carries the payload bytes committed for one packet.
type PayloadParams struct {
	Bytes []byte
}

func (PayloadParams) isLayerParams() {}

// PayloadLayer fills out a TCP/UDP packet to its planned size. overhead is
// the combined byte count of every header already counted in
// PacketPlan.Size (the L3 header plus the L4 header); anything beyond that
// becomes payload.
type PayloadLayer struct {
	baseLayer
	overhead int
}

// NewPayloadLayer creates a PayloadLayer.
func NewPayloadLayer(overhead int) *PayloadLayer {
	return &PayloadLayer{overhead: overhead}
}

// PostPlanFlow draws the payload bytes once the packet's final size is
// known.
func (l *PayloadLayer) PostPlanFlow(flow *Flow) error {
	for _, p := range flow.plans {
		n := p.Size - l.overhead
		if n < 0 {
			n = 0
		}
		b := make([]byte, n)
		DefaultRand.FillBytes(b)
		p.Params[l.index()] = PayloadParams{Bytes: b}
	}
	return nil
}

// Build emits the payload bytes.
func (l *PayloadLayer) Build(pkt *buildState, params LayerParams, plan *PacketPlan) error {
	p := params.(PayloadParams)
	pkt.push(gopacket.Payload(p.Bytes))
	return nil
}
