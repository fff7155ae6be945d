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
// UDP layer. A Payload layer always follows it in the stack.

package flowsynth

import "github.com/google/gopacket/layers"

// UDPParams carries the per-packet ports, swapped according to direction.
type UDPParams struct {
	SrcPort uint16
	DstPort uint16
}

func (UDPParams) isLayerParams() {}

// UDPLayer builds UDP headers.
type UDPLayer struct {
	baseLayer
}

// NewUDPLayer creates a UDPLayer.
func NewUDPLayer() *UDPLayer {
	return &UDPLayer{}
}

// PostPlanFlow assigns ports, swapped according to direction.
func (l *UDPLayer) PostPlanFlow(flow *Flow) error {
	for _, p := range flow.plans {
		src, dst := flow.portA, flow.portB
		if p.Direction == DirReverse {
			src, dst = flow.portB, flow.portA
		}
		p.Params[l.index()] = UDPParams{SrcPort: src, DstPort: dst}
	}
	return nil
}

// Build emits the UDP header.
func (l *UDPLayer) Build(pkt *buildState, params LayerParams, plan *PacketPlan) error {
	p := params.(UDPParams)
	hdr := &layers.UDP{
		SrcPort: layers.UDPPort(p.SrcPort),
		DstPort: layers.UDPPort(p.DstPort),
	}
	if err := hdr.SetNetworkLayerForChecksum(pkt.networkLayer); err != nil {
		return err
	}
	pkt.push(hdr)
	return nil
}
