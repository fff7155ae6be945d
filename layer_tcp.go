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
// TCP layer. A Payload layer always follows it in the stack.

package flowsynth

import "github.com/google/gopacket/layers"

// TCPParams carries the per-packet ports, swapped according to direction.
type TCPParams struct {
	SrcPort uint16
	DstPort uint16
	Seq     uint32
}

func (TCPParams) isLayerParams() {}

// TCPLayer builds TCP headers.
type TCPLayer struct {
	baseLayer
}

// NewTCPLayer creates a TCPLayer.
func NewTCPLayer() *TCPLayer {
	return &TCPLayer{}
}

// PostPlanFlow assigns ports (direction-swapped) and a sequence number
// equal to the packet's index in the flow.
func (l *TCPLayer) PostPlanFlow(flow *Flow) error {
	for i, p := range flow.plans {
		src, dst := flow.portA, flow.portB
		if p.Direction == DirReverse {
			src, dst = flow.portB, flow.portA
		}
		p.Params[l.index()] = TCPParams{
			SrcPort: src,
			DstPort: dst,
			Seq:     uint32(i),
		}
	}
	return nil
}

// Build emits the TCP header.
func (l *TCPLayer) Build(pkt *buildState, params LayerParams, plan *PacketPlan) error {
	p := params.(TCPParams)
	hdr := &layers.TCP{
		SrcPort: layers.TCPPort(p.SrcPort),
		DstPort: layers.TCPPort(p.DstPort),
		Seq:     p.Seq,
		Window:  8192,
		ACK:     true,
	}
	if err := hdr.SetNetworkLayerForChecksum(pkt.networkLayer); err != nil {
		return err
	}
	pkt.push(hdr)
	return nil
}
