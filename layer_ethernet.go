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
// Ethernet layer. Always the first layer in a flow's stack.

package flowsynth

import (
	"net"

	"github.com/google/gopacket/layers"
)

// EthernetParams carries the per-packet MAC addresses, swapped according to
// direction.
type EthernetParams struct {
	SrcMAC net.HardwareAddr
	DstMAC net.HardwareAddr
}

func (EthernetParams) isLayerParams() {}

// EthernetLayer is the mandatory outermost layer. nextEtherType is fixed at
// construction time from whatever layer follows it in the stack (an
// encapsulation tag's ethertype, or the L3 family's).
type EthernetLayer struct {
	baseLayer
	nextEtherType layers.EthernetType
}

// NewEthernetLayer creates an EthernetLayer whose EtherType field will be
// nextEtherType.
func NewEthernetLayer(nextEtherType layers.EthernetType) *EthernetLayer {
	return &EthernetLayer{nextEtherType: nextEtherType}
}

// PostPlanFlow assigns source and destination MAC addresses once directions
// are known: the flow's two fixed endpoint addresses, in the order the
// packet's direction dictates.
func (l *EthernetLayer) PostPlanFlow(flow *Flow) error {
	for _, p := range flow.plans {
		src, dst := flow.macA, flow.macB
		if p.Direction == DirReverse {
			src, dst = flow.macB, flow.macA
		}
		p.Params[l.index()] = EthernetParams{
			SrcMAC: net.HardwareAddr(src[:]),
			DstMAC: net.HardwareAddr(dst[:]),
		}
	}
	return nil
}

// Build emits the Ethernet header.
func (l *EthernetLayer) Build(pkt *buildState, params LayerParams, plan *PacketPlan) error {
	p := params.(EthernetParams)
	pkt.push(&layers.Ethernet{
		SrcMAC:       p.SrcMAC,
		DstMAC:       p.DstMAC,
		EthernetType: l.nextEtherType,
	})
	return nil
}
