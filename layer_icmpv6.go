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
// ICMPv6 layers, the v6 counterparts of layer_icmp.go. Unlike ICMPv4,
// ICMPv6's checksum covers a pseudo-header and needs
// SetNetworkLayerForChecksum; echo messages also carry a distinct
// ICMPv6Echo body layer.

package flowsynth

import (
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// ICMPv6Params carries one packet's ICMPv6 identifier/sequence and
// trailing bytes.
type ICMPv6Params struct {
	ID       uint16
	Seq      uint16
	Trailing []byte
}

func (ICMPv6Params) isLayerParams() {}

// ICMPv6EchoLayer builds ICMPv6 echo request messages sized by the
// Packet-Size Distributor. l3HdrLen is the IPv6 header length, since
// PacketPlan.Size counts the L3 header too.
type ICMPv6EchoLayer struct {
	baseLayer
	l3HdrLen int
}

// NewICMPv6EchoLayer creates an ICMPv6EchoLayer.
func NewICMPv6EchoLayer(l3HdrLen int) *ICMPv6EchoLayer {
	return &ICMPv6EchoLayer{l3HdrLen: l3HdrLen}
}

// PostPlanFlow assigns identifiers/sequence numbers and trailing bytes.
func (l *ICMPv6EchoLayer) PostPlanFlow(flow *Flow) error {
	for i, p := range flow.plans {
		// ICMPv6HdrLen covers both the 4-byte ICMPv6 layer and the 4-byte
		// ICMPv6Echo body (identifier and sequence number).
		n := p.Size - l.l3HdrLen - ICMPv6HdrLen
		if n < 0 {
			n = 0
		}
		trailing := make([]byte, n)
		DefaultRand.FillBytes(trailing)
		p.Params[l.index()] = ICMPv6Params{ID: 1, Seq: uint16(i), Trailing: trailing}
	}
	return nil
}

// Build emits the ICMPv6 echo request header, echo body and trailing
// bytes.
func (l *ICMPv6EchoLayer) Build(pkt *buildState, params LayerParams, plan *PacketPlan) error {
	p := params.(ICMPv6Params)
	hdr := &layers.ICMPv6{
		TypeCode: layers.CreateICMPv6TypeCode(layers.ICMPv6TypeEchoRequest, 0),
	}
	if err := hdr.SetNetworkLayerForChecksum(pkt.networkLayer); err != nil {
		return err
	}
	pkt.push(hdr)
	pkt.push(&layers.ICMPv6Echo{Identifier: p.ID, SeqNumber: p.Seq})
	pkt.push(gopacket.Payload(p.Trailing))
	return nil
}

// ICMPv6RandomLayer builds ICMPv6 destination-unreachable-style messages
// whose structural size is fixed and pinned during PlanFlow, independent
// of direction. l3HdrLen is the IPv6 header length, since
// icmpUnreachSizeIPv6 counts the L3 header too.
type ICMPv6RandomLayer struct {
	baseLayer
	l3HdrLen int
}

// NewICMPv6RandomLayer creates an ICMPv6RandomLayer.
func NewICMPv6RandomLayer(l3HdrLen int) *ICMPv6RandomLayer {
	return &ICMPv6RandomLayer{l3HdrLen: l3HdrLen}
}

// PlanFlow pins every packet's size to the unreachable message's structural
// size, which for ICMPv6 carries 4 additional reserved bytes ICMPv4 does
// not.
func (l *ICMPv6RandomLayer) PlanFlow(flow *Flow) error {
	l.baseLayer.PlanFlow(flow)

	size := icmpUnreachSizeIPv6()
	// Build emits the 4-byte ICMPv6 layer, then a 4-byte unused field
	// together with the trailing bytes, which make up the rest of size.
	trailingLen := size - l.l3HdrLen - ICMPv6HdrLen
	for _, p := range flow.plans {
		p.IsFinished = true
		p.Size = size

		trailing := make([]byte, trailingLen)
		DefaultRand.FillBytes(trailing)
		p.Params[l.index()] = ICMPv6Params{Trailing: trailing}
	}
	return nil
}

// Build emits the ICMPv6 destination-unreachable header, reserved field
// and trailing bytes.
func (l *ICMPv6RandomLayer) Build(pkt *buildState, params LayerParams, plan *PacketPlan) error {
	p := params.(ICMPv6Params)
	hdr := &layers.ICMPv6{
		TypeCode: layers.CreateICMPv6TypeCode(layers.ICMPv6TypeDestinationUnreachable,
			layers.ICMPv6CodePortUnreachable),
	}
	if err := hdr.SetNetworkLayerForChecksum(pkt.networkLayer); err != nil {
		return err
	}
	pkt.push(hdr)
	pkt.push(gopacket.Payload(append(make([]byte, ICMPv6UnreachReservedLen), p.Trailing...)))
	return nil
}
