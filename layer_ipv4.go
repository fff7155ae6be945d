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
// IPv4 layer, with the fragmentation probability + minimum-size threshold
// named in the component design.

package flowsynth

import (
	"net"

	"github.com/google/gopacket/layers"
)

// IPv4Params carries the per-packet addresses and the fragmentation
// decision, both settled once size and direction are known.
type IPv4Params struct {
	SrcIP    net.IP
	DstIP    net.IP
	Fragment bool
}

func (IPv4Params) isLayerParams() {}

// IPv4Layer builds IPv4 headers. headerOffset is the byte offset at which
// the IPv4 header begins in the fully serialized packet (Ethernet plus any
// encapsulation tags ahead of it), known statically from the stack layout.
type IPv4Layer struct {
	baseLayer
	nextProtocol layers.IPProtocol
	frag         FragmentationConfig
	headerOffset int
}

// NewIPv4Layer creates an IPv4Layer whose payload is nextProtocol.
func NewIPv4Layer(nextProtocol layers.IPProtocol, frag FragmentationConfig, headerOffset int) *IPv4Layer {
	return &IPv4Layer{nextProtocol: nextProtocol, frag: frag, headerOffset: headerOffset}
}

// PostPlanFlow assigns source/destination IPv4 addresses (direction-swapped)
// and decides, per packet, whether it will be fragmented.
func (l *IPv4Layer) PostPlanFlow(flow *Flow) error {
	for _, p := range flow.plans {
		src, dst := flow.ipA, flow.ipB
		if p.Direction == DirReverse {
			src, dst = flow.ipB, flow.ipA
		}

		fragment := false
		if l.frag.Probability > 0 && p.Size >= l.frag.MinSizeToFragment {
			fragment = DefaultRand.RandomDouble(0, 1) < l.frag.Probability
		}

		p.Params[l.index()] = IPv4Params{
			SrcIP:    src,
			DstIP:    dst,
			Fragment: fragment,
		}
	}
	return nil
}

// Build emits the IPv4 header and records this packet's network layer for
// the following transport layer's checksum.
func (l *IPv4Layer) Build(pkt *buildState, params LayerParams, plan *PacketPlan) error {
	p := params.(IPv4Params)

	flags := layers.IPv4DontFragment
	if p.Fragment {
		flags = 0
	}

	hdr := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Protocol: l.nextProtocol,
		Flags:    flags,
		SrcIP:    p.SrcIP,
		DstIP:    p.DstIP,
	}
	pkt.push(hdr)
	pkt.networkLayer = hdr
	pkt.l3Offset = l.headerOffset
	return nil
}

// PostBuild performs the fragmentation fixup: if this packet was chosen for
// fragmentation, it splits the finalized wire bytes into two IPv4
// fragments.
func (l *IPv4Layer) PostBuild(pkt *buildState, params LayerParams, plan *PacketPlan) error {
	p := params.(IPv4Params)
	if !p.Fragment {
		return nil
	}
	if frags := fragmentIPv4(pkt.serialized, pkt.l3Offset); frags != nil {
		pkt.fragments = frags
	}
	return nil
}
