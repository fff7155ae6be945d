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
// Flow is the core orchestrator: it owns one profile's LayerStack and
// PacketPlans and drives the planning pipeline, generalized from a
// "configure/start/wait hardware" run loop to "plan, then drain packets
// one at a time".

package flowsynth

import (
	"math/rand"
	"net"
	"sort"
	"time"

	"github.com/google/gopacket/layers"
)

// Flow owns the planning state for one FlowProfile: its LayerStack, its
// PacketPlans, and the endpoint identities every layer's PostPlanFlow
// consults to fill in direction-swapped addresses and ports.
type Flow struct {
	profile *FlowProfile
	cfg     *PlannerConfig
	addrGen *AddressGenerator

	stack LayerStack
	plans PacketPlans

	macA, macB net.HardwareAddr
	ipA, ipB   net.IP
	portA      uint16
	portB      uint16

	cursor int // index of the next plan GenerateNextPacket will drain
}

// NewFlow constructs a Flow from a profile, the planner configuration and
// the run's shared AddressGenerator. It does not plan; call Plan to run
// the planning pipeline before draining packets.
func NewFlow(profile *FlowProfile, cfg *PlannerConfig, addrGen *AddressGenerator) *Flow {
	return &Flow{profile: profile, cfg: cfg, addrGen: addrGen}
}

// Plan runs the full planning pipeline to completion. It must be called
// exactly once, before the first GenerateNextPacket call.
func (f *Flow) Plan() error {
	if err := f.profile.Validate(); err != nil {
		return err
	}

	f.assignIdentities()

	if err := f.buildStack(); err != nil {
		return err
	}

	total := f.profile.TotalPackets()
	f.plans = make(PacketPlans, total)
	for i := range f.plans {
		f.plans[i] = &PacketPlan{
			Direction: DirUnknown,
			Params:    make([]LayerParams, len(f.stack)),
		}
	}

	if err := f.stack.PlanFlow(f); err != nil {
		return err
	}

	f.assignDirections()
	f.assignSizes()

	if err := f.stack.PostPlanFlow(f); err != nil {
		return err
	}
	if err := f.stack.PlanExtra(f); err != nil {
		return err
	}

	f.assignTimestamps()

	f.cursor = 0
	return nil
}

// assignIdentities draws the pair of MAC/IP addresses and ports every
// layer's PostPlanFlow swaps between, honoring any profile-pinned address
// or port.
func (f *Flow) assignIdentities() {
	macA := f.addrGen.GenerateMac()
	macB := f.addrGen.GenerateMac()
	f.macA = net.HardwareAddr(macA[:])
	f.macB = net.HardwareAddr(macB[:])

	ranges := f.cfg.IPv4.Ranges
	if f.profile.L3 == L3IPv6 {
		ranges = f.cfg.IPv6.Ranges
	}

	if f.profile.L3 == L3IPv4 {
		a := f.addrGen.GenerateIPv4()
		b := f.addrGen.GenerateIPv4()
		f.ipA = applyRange(net.IP(a[:]), ranges)
		f.ipB = applyRange(net.IP(b[:]), ranges)
	} else {
		a := f.addrGen.GenerateIPv6()
		b := f.addrGen.GenerateIPv6()
		f.ipA = applyRange(net.IP(a[:]), ranges)
		f.ipB = applyRange(net.IP(b[:]), ranges)
	}

	if f.profile.SrcIP != nil {
		f.ipA = f.profile.SrcIP
	}
	if f.profile.DstIP != nil {
		f.ipB = f.profile.DstIP
	}

	f.portA = uint16(DefaultRand.RandomUInt(1024, 65535))
	f.portB = uint16(DefaultRand.RandomUInt(1024, 65535))
	if f.profile.SrcPort != 0 {
		f.portA = f.profile.SrcPort
	}
	if f.profile.DstPort != 0 {
		f.portB = f.profile.DstPort
	}
}

// buildStack assembles the LayerStack per the fixed order: Ethernet, then
// encapsulation, then L3, then L4 (plus Payload when applicable).
func (f *Flow) buildStack() error {
	var l3EtherType layers.EthernetType
	switch f.profile.L3 {
	case L3IPv4:
		l3EtherType = layers.EthernetTypeIPv4
	case L3IPv6:
		l3EtherType = layers.EthernetTypeIPv6
	default:
		return ErrUnknownProtocol
	}

	tags := f.cfg.chooseEncapsulation()
	if f.profile.VlanID != nil {
		tags = []EncapsulationTag{{VlanID: f.profile.VlanID}}
	} else if f.profile.MplsLabel != nil {
		tags = []EncapsulationTag{{MplsLabel: f.profile.MplsLabel}}
	}

	f.stack.Add(NewEthernetLayer(encapEtherType(tags, l3EtherType)))
	for i, tag := range tags {
		inner := l3EtherType
		if i < len(tags)-1 {
			inner = encapEtherType(tags[i+1:], l3EtherType)
		}
		switch {
		case tag.VlanID != nil:
			f.stack.Add(NewVlanLayer(*tag.VlanID, inner))
		case tag.MplsLabel != nil:
			bottom := i == len(tags)-1
			f.stack.Add(NewMplsLayer(*tag.MplsLabel, bottom))
		}
	}

	l3HeaderOffset := EthHdrLen + encapStackLen(tags)

	var l3HdrLen int
	switch f.profile.L3 {
	case L3IPv4:
		f.stack.Add(NewIPv4Layer(l4ProtocolNumber(f.profile.L4), f.cfg.IPv4.Fragmentation, l3HeaderOffset))
		l3HdrLen = IPv4HdrLen
	case L3IPv6:
		f.stack.Add(NewIPv6Layer(l4ProtocolNumber(f.profile.L4), f.cfg.IPv6.Fragmentation, l3HeaderOffset))
		l3HdrLen = IPv6HdrLen
	}

	switch f.profile.L4 {
	case L4TCP:
		f.stack.Add(NewTCPLayer())
		f.stack.Add(NewPayloadLayer(l3HdrLen + TCPHdrLen))
	case L4UDP:
		f.stack.Add(NewUDPLayer())
		f.stack.Add(NewPayloadLayer(l3HdrLen + UDPHdrLen))
	case L4ICMP:
		f.stack.Add(chooseICMPLayer(f.profile, l3HdrLen))
	case L4ICMPv6:
		f.stack.Add(chooseICMPv6Layer(f.profile, l3HdrLen))
	default:
		return ErrUnknownProtocol
	}

	return nil
}

// encapEtherType returns the EtherType the outermost encapsulation layer
// (or Ethernet itself, absent encapsulation) must carry to announce what
// follows: a VLAN tag, an MPLS label, or inner directly.
func encapEtherType(tags []EncapsulationTag, inner layers.EthernetType) layers.EthernetType {
	if len(tags) == 0 {
		return inner
	}
	if tags[0].MplsLabel != nil {
		return EtherTypeMPLSUnicast
	}
	return layers.EthernetTypeDot1Q
}

// encapStackLen sums the wire length of every encapsulation header so the
// L3 layer can compute its own byte offset within the serialized packet.
func encapStackLen(tags []EncapsulationTag) int {
	total := 0
	for _, tag := range tags {
		if tag.MplsLabel != nil {
			total += MplsHdrLen
		} else {
			total += VlanHdrLen
		}
	}
	return total
}

// l4ProtocolNumber maps an L4Protocol to the IP protocol number the L3
// layer's header must carry.
func l4ProtocolNumber(l4 L4Protocol) layers.IPProtocol {
	switch l4 {
	case L4TCP:
		return layers.IPProtocolTCP
	case L4UDP:
		return layers.IPProtocolUDP
	case L4ICMP:
		return layers.IPProtocolICMPv4
	case L4ICMPv6:
		return layers.IPProtocolICMPv6
	default:
		return 0
	}
}

// chooseICMPLayer applies the ICMP selection heuristic to decide between
// echo traffic and unreachable-style structurally-pinned traffic.
// l3HdrLen is the IPv4 header length, threaded through so the chosen layer
// can subtract it from PacketPlan.Size (which counts the L3 header too).
func chooseICMPLayer(p *FlowProfile, l3HdrLen int) Layer {
	if icmpHeuristicPicksRandom(p, icmpUnreachSizeIPv4()) {
		return NewICMPRandomLayer(l3HdrLen)
	}
	return NewICMPEchoLayer(l3HdrLen)
}

// chooseICMPv6Layer is the ICMPv6 counterpart of chooseICMPLayer.
func chooseICMPv6Layer(p *FlowProfile, l3HdrLen int) Layer {
	if icmpHeuristicPicksRandom(p, icmpUnreachSizeIPv6()) {
		return NewICMPv6RandomLayer(l3HdrLen)
	}
	return NewICMPv6EchoLayer(l3HdrLen)
}

// icmpHeuristicPicksRandom implements the heuristic deciding between the
// unreachable-style (structurally pinned) and echo ICMP variants: small
// or heavily asymmetric flows whose average bytes-per-packet is close to
// the unreachable message's fixed size are modeled as unreachable
// traffic; everything else is modeled as echo traffic.
func icmpHeuristicPicksRandom(p *FlowProfile, sUnreach int) bool {
	minPR := p.PacketsForward
	maxPR := p.PacketsReverse
	if maxPR < minPR {
		minPR, maxPR = maxPR, minPR
	}

	var ratioDiff float64
	if maxPR == 0 {
		ratioDiff = 1.0
	} else {
		ratioDiff = 1.0 - float64(minPR)/float64(maxPR)
	}

	totalPackets := p.PacketsForward + p.PacketsReverse
	if totalPackets == 0 {
		return true
	}
	bpp := float64(p.BytesForward+p.BytesReverse) / float64(totalPackets)
	threshold := 1.10 * float64(sUnreach)

	smallFlow := p.PacketsForward <= 3 || p.PacketsReverse <= 3
	if smallFlow && bpp <= threshold {
		return true
	}
	if ratioDiff > 0.2 && bpp <= threshold {
		return true
	}
	return false
}

// assignDirections implements step 4: tokens are shuffled with a freshly
// default-constructed PRNG, independent of DefaultRand, so the direction
// pattern does not change when the main seed changes. Preserved exactly
// as observed rather than unified onto the shared generator.
func (f *Flow) assignDirections() {
	availFwd := f.profile.PacketsForward - f.plans.CountDirection(DirForward)
	availRev := f.profile.PacketsReverse - f.plans.CountDirection(DirReverse)
	if availFwd < 0 {
		availFwd = 0
	}
	if availRev < 0 {
		availRev = 0
	}

	tokens := make([]Direction, 0, availFwd+availRev)
	for i := 0; i < availFwd; i++ {
		tokens = append(tokens, DirForward)
	}
	for i := 0; i < availRev; i++ {
		tokens = append(tokens, DirReverse)
	}

	shuffler := rand.New(rand.NewSource(1))
	shuffler.Shuffle(len(tokens), func(i, j int) {
		tokens[i], tokens[j] = tokens[j], tokens[i]
	})

	idx := 0
	for _, p := range f.plans {
		if p.Direction != DirUnknown {
			continue
		}
		if idx < len(tokens) {
			p.Direction = tokens[idx]
			idx++
		}
	}
}

// assignSizes implements step 5: one Distributor per direction, exact
// reservations for already-finished plans, then PlanRemaining, then
// GetValue for the rest.
func (f *Flow) assignSizes() {
	distFwd := NewDistributor(f.cfg.SizeIntervals, f.profile.PacketsForward, float64(f.profile.BytesForward))
	distRev := NewDistributor(f.cfg.SizeIntervals, f.profile.PacketsReverse, float64(f.profile.BytesReverse))

	for _, p := range f.plans {
		if !p.IsFinished {
			continue
		}
		if p.Direction == DirForward {
			distFwd.GetValueExact(float64(p.Size))
		} else {
			distRev.GetValueExact(float64(p.Size))
		}
	}

	distFwd.PlanRemaining()
	distRev.PlanRemaining()

	for _, p := range f.plans {
		if p.IsFinished {
			continue
		}
		var v float64
		if p.Direction == DirForward {
			v = distFwd.GetValue()
		} else {
			v = distRev.GetValue()
		}
		if int(v) > p.Size {
			p.Size = int(v)
		}
	}
}

// assignTimestamps implements step 8: P-2 uniformly drawn interior
// timestamps, Ts and Te at the ends, sorted into position.
func (f *Flow) assignTimestamps() {
	ts, te := f.profile.Start, f.profile.End
	n := len(f.plans)

	if n == 0 {
		return
	}
	if n <= 2 {
		for i, p := range f.plans {
			if i == 0 {
				p.Timestamp = ts
			} else {
				p.Timestamp = te
			}
		}
		return
	}

	stamps := make([]time.Time, n)
	stamps[0] = ts
	stamps[n-1] = te
	for i := 1; i < n-1; i++ {
		stamps[i] = drawTimestamp(ts, te)
	}

	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Before(stamps[j]) })
	for i, p := range f.plans {
		p.Timestamp = stamps[i]
	}
}

// drawTimestamp draws one uniform timestamp in [ts, te] honoring the
// boundary handling: the second is drawn uniformly over [ts.sec, te.sec];
// the microsecond range then depends on whether the drawn second landed
// on either boundary.
func drawTimestamp(ts, te time.Time) time.Time {
	secLo := ts.Unix()
	secHi := te.Unix()
	sec := int64(DefaultRand.RandomUInt(uint64(secLo), uint64(secHi)))

	usecLo, usecHi := int64(0), int64(999999)
	switch {
	case sec == secLo && sec == secHi:
		usecLo = int64(ts.Nanosecond() / 1000)
		usecHi = int64(te.Nanosecond() / 1000)
	case sec == secLo:
		usecLo = int64(ts.Nanosecond() / 1000)
	case sec == secHi:
		usecHi = int64(te.Nanosecond() / 1000)
	}
	if usecHi < usecLo {
		usecHi = usecLo
	}

	usec := int64(DefaultRand.RandomUInt(uint64(usecLo), uint64(usecHi)))
	return time.Unix(sec, usec*1000)
}

// GenerateNextPacket returns the next PacketPlan to build, advancing the
// drain cursor. It returns ErrNoMorePackets once every plan has been
// returned.
func (f *Flow) GenerateNextPacket() (*PacketPlan, error) {
	if f.cursor >= len(f.plans) {
		return nil, ErrNoMorePackets
	}
	p := f.plans[f.cursor]
	f.cursor++
	return p, nil
}

// Stack exposes the flow's LayerStack to the Packet Builder.
func (f *Flow) Stack() LayerStack { return f.stack }
