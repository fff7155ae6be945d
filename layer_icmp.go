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
// ICMPv4 layers: IcmpEcho (regular echo request/reply traffic, sized by the
// distributor like any other L4) and IcmpRandom (unreachable-style
// messages with a fixed structural size, pinned during PlanFlow). Neither
// is followed by a Payload layer; each appends its own trailing bytes.

package flowsynth

import (
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// ICMPParams carries one packet's ICMP identifier/sequence and trailing
// bytes.
type ICMPParams struct {
	ID       uint16
	Seq      uint16
	Trailing []byte
}

func (ICMPParams) isLayerParams() {}

// ICMPEchoLayer builds ICMPv4 echo request messages sized by the
// Packet-Size Distributor like any other transport layer. l3HdrLen is the
// IPv4 header length, since PacketPlan.Size counts the L3 header too.
type ICMPEchoLayer struct {
	baseLayer
	l3HdrLen int
}

// NewICMPEchoLayer creates an ICMPEchoLayer.
func NewICMPEchoLayer(l3HdrLen int) *ICMPEchoLayer {
	return &ICMPEchoLayer{l3HdrLen: l3HdrLen}
}

// PostPlanFlow assigns identifiers/sequence numbers and the trailing bytes
// needed to reach the packet's planned size.
func (l *ICMPEchoLayer) PostPlanFlow(flow *Flow) error {
	for i, p := range flow.plans {
		n := p.Size - l.l3HdrLen - ICMPHdrLen
		if n < 0 {
			n = 0
		}
		trailing := make([]byte, n)
		DefaultRand.FillBytes(trailing)
		p.Params[l.index()] = ICMPParams{ID: 1, Seq: uint16(i), Trailing: trailing}
	}
	return nil
}

// Build emits the ICMPv4 echo request header and trailing bytes.
func (l *ICMPEchoLayer) Build(pkt *buildState, params LayerParams, plan *PacketPlan) error {
	p := params.(ICMPParams)
	hdr := &layers.ICMPv4{
		TypeCode: layers.CreateICMPv4TypeCode(layers.ICMPv4TypeEchoRequest, 0),
		Id:       p.ID,
		Seq:      p.Seq,
	}
	pkt.push(hdr)
	pkt.push(gopacket.Payload(p.Trailing))
	return nil
}

// ICMPRandomLayer builds ICMPv4 destination-unreachable-style messages
// whose structural size is fixed and pinned during PlanFlow, independent
// of direction. l3HdrLen is the IPv4 header length, since
// icmpUnreachSizeIPv4 counts the L3 header too.
type ICMPRandomLayer struct {
	baseLayer
	l3HdrLen int
}

// NewICMPRandomLayer creates an ICMPRandomLayer.
func NewICMPRandomLayer(l3HdrLen int) *ICMPRandomLayer {
	return &ICMPRandomLayer{l3HdrLen: l3HdrLen}
}

// PlanFlow pins every packet's size to the unreachable message's structural
// size and prepares its bytes.
func (l *ICMPRandomLayer) PlanFlow(flow *Flow) error {
	l.baseLayer.PlanFlow(flow)

	size := icmpUnreachSizeIPv4()
	trailingLen := size - l.l3HdrLen - ICMPHdrLen
	for _, p := range flow.plans {
		p.IsFinished = true
		p.Size = size

		trailing := make([]byte, trailingLen)
		DefaultRand.FillBytes(trailing)
		p.Params[l.index()] = ICMPParams{Trailing: trailing}
	}
	return nil
}

// Build emits the ICMPv4 destination-unreachable header and trailing
// bytes.
func (l *ICMPRandomLayer) Build(pkt *buildState, params LayerParams, plan *PacketPlan) error {
	p := params.(ICMPParams)
	hdr := &layers.ICMPv4{
		TypeCode: layers.CreateICMPv4TypeCode(layers.ICMPv4TypeDestinationUnreachable,
			layers.ICMPv4CodePort),
	}
	pkt.push(hdr)
	pkt.push(gopacket.Payload(p.Trailing))
	return nil
}
