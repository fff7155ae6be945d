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
// MPLS encapsulation layer. gopacket/layers decodes MPLS label stack
// entries but does not expose a serializable layer for them, so
// mplsLabelEntry implements gopacket.SerializableLayer directly against
// the RFC 3032 wire format.

package flowsynth

import (
	"encoding/binary"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// EtherTypeMPLSUnicast and EtherTypeMPLSMulticast are the two
// EtherType values used to introduce an MPLS label stack.
const (
	EtherTypeMPLSUnicast   layers.EthernetType = 0x8847
	EtherTypeMPLSMulticast layers.EthernetType = 0x8848
)

// mplsLabelEntry is one 4-byte MPLS label stack entry.
type mplsLabelEntry struct {
	label        uint32 // 20 bits
	trafficClass uint8  // 3 bits
	bottomOfStack bool
	ttl          uint8
}

func (m *mplsLabelEntry) LayerType() gopacket.LayerType {
	return layers.LayerTypeMPLS
}

// SerializeTo writes the label stack entry per RFC 3032 section 2.1: 20-bit
// label, 3-bit traffic class, 1-bit bottom-of-stack, 8-bit TTL.
func (m *mplsLabelEntry) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	bytes, err := b.PrependBytes(4)
	if err != nil {
		return err
	}
	v := (m.label & 0xFFFFF) << 12
	v |= uint32(m.trafficClass&0x7) << 9
	if m.bottomOfStack {
		v |= 1 << 8
	}
	v |= uint32(m.ttl)
	binary.BigEndian.PutUint32(bytes, v)
	return nil
}

// MplsParams is a marker; a label's value never varies per packet.
type MplsParams struct{}

func (MplsParams) isLayerParams() {}

// MplsLayer emits one MPLS label stack entry. A flow's stack may contain
// more than one (a stacked label path), identified at construction time by
// whether each is the last label pushed onto the stack.
type MplsLayer struct {
	baseLayer
	label         uint32
	bottomOfStack bool
}

// NewMplsLayer creates an MplsLayer pushing label. bottomOfStack must be
// true only for the last MPLS layer before the L3 header.
func NewMplsLayer(label uint32, bottomOfStack bool) *MplsLayer {
	return &MplsLayer{label: label, bottomOfStack: bottomOfStack}
}

// PostPlanFlow fills in the (empty) per-packet params.
func (l *MplsLayer) PostPlanFlow(flow *Flow) error {
	for _, p := range flow.plans {
		p.Params[l.index()] = MplsParams{}
	}
	return nil
}

// Build emits the MPLS label stack entry.
func (l *MplsLayer) Build(pkt *buildState, params LayerParams, plan *PacketPlan) error {
	pkt.push(&mplsLabelEntry{
		label:         l.label,
		trafficClass:  0,
		bottomOfStack: l.bottomOfStack,
		ttl:           255,
	})
	return nil
}
