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
// VLAN (802.1Q) encapsulation layer. A flow's stack may contain more than
// one (QinQ double tagging), one per EncapsulationTag.VlanID entry.

package flowsynth

import "github.com/google/gopacket/layers"

// VlanParams is a marker; a VLAN tag's identifier never varies per packet.
type VlanParams struct{}

func (VlanParams) isLayerParams() {}

// VlanLayer emits one 802.1Q tag.
type VlanLayer struct {
	baseLayer
	id            uint16
	nextEtherType layers.EthernetType
}

// NewVlanLayer creates a VlanLayer tagging with id; nextEtherType is the
// EtherType of whatever layer follows (another VLAN tag, MPLS, or the L3
// family).
func NewVlanLayer(id uint16, nextEtherType layers.EthernetType) *VlanLayer {
	return &VlanLayer{id: id, nextEtherType: nextEtherType}
}

// PostPlanFlow fills in the (empty) per-packet params.
func (l *VlanLayer) PostPlanFlow(flow *Flow) error {
	for _, p := range flow.plans {
		p.Params[l.index()] = VlanParams{}
	}
	return nil
}

// Build emits the 802.1Q header.
func (l *VlanLayer) Build(pkt *buildState, params LayerParams, plan *PacketPlan) error {
	pkt.push(&layers.Dot1Q{
		VLANIdentifier: l.id,
		Type:           l.nextEtherType,
	})
	return nil
}
