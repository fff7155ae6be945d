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
// IPv6 layer, fragmentation following RFC 8200 section 4.5 (a Fragment extension
// header rather than IPv4's header fields).

package flowsynth

import (
	"net"

	"github.com/google/gopacket/layers"
)

// IPv6Params carries the per-packet addresses and the fragmentation
// decision, both settled once size and direction are known.
type IPv6Params struct {
	SrcIP    net.IP
	DstIP    net.IP
	Fragment bool
	FragID   uint32
}

func (IPv6Params) isLayerParams() {}

// IPv6Layer builds IPv6 headers. headerOffset is the byte offset at which
// the IPv6 header begins in the fully serialized packet.
type IPv6Layer struct {
	baseLayer
	nextProtocol layers.IPProtocol
	frag         FragmentationConfig
	headerOffset int
}

// NewIPv6Layer creates an IPv6Layer whose payload is nextProtocol.
func NewIPv6Layer(nextProtocol layers.IPProtocol, frag FragmentationConfig, headerOffset int) *IPv6Layer {
	return &IPv6Layer{nextProtocol: nextProtocol, frag: frag, headerOffset: headerOffset}
}

// PostPlanFlow assigns source/destination IPv6 addresses (direction-swapped)
// and decides, per packet, whether it will be fragmented.
func (l *IPv6Layer) PostPlanFlow(flow *Flow) error {
	for _, p := range flow.plans {
		src, dst := flow.ipA, flow.ipB
		if p.Direction == DirReverse {
			src, dst = flow.ipB, flow.ipA
		}

		fragment := false
		if l.frag.Probability > 0 && p.Size >= l.frag.MinSizeToFragment {
			fragment = DefaultRand.RandomDouble(0, 1) < l.frag.Probability
		}

		p.Params[l.index()] = IPv6Params{
			SrcIP:    src,
			DstIP:    dst,
			Fragment: fragment,
			FragID:   uint32(DefaultRand.RandomUInt(0, 0xFFFFFFFF)),
		}
	}
	return nil
}

// Build emits the IPv6 header and records this packet's network layer for
// the following transport layer's checksum.
func (l *IPv6Layer) Build(pkt *buildState, params LayerParams, plan *PacketPlan) error {
	p := params.(IPv6Params)

	hdr := &layers.IPv6{
		Version:    6,
		HopLimit:   64,
		NextHeader: l.nextProtocol,
		SrcIP:      p.SrcIP,
		DstIP:      p.DstIP,
	}
	pkt.push(hdr)
	pkt.networkLayer = hdr
	pkt.l3Offset = l.headerOffset
	return nil
}

// PostBuild performs the fragmentation fixup.
func (l *IPv6Layer) PostBuild(pkt *buildState, params LayerParams, plan *PacketPlan) error {
	p := params.(IPv6Params)
	if !p.Fragment {
		return nil
	}
	if frags := fragmentIPv6(pkt.serialized, pkt.l3Offset, p.FragID); frags != nil {
		pkt.fragments = frags
	}
	return nil
}
