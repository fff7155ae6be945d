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
// FlowProfile is the read-only input to the Flow Planner: expected packet
// and byte counts per direction, a timestamp interval, and the protocol
// identifiers to build the layer stack from.

package flowsynth

import (
	"net"
	"time"
)

// L3Protocol identifies the network-layer protocol a profile requests.
type L3Protocol int

const (
	L3Unknown L3Protocol = iota
	L3IPv4
	L3IPv6
)

// L4Protocol identifies the transport/control-layer protocol a profile
// requests.
type L4Protocol int

const (
	L4Unknown L4Protocol = iota
	L4TCP
	L4UDP
	L4ICMP
	L4ICMPv6
)

// FlowProfile describes one flow's statistical target. It is produced by
// the (out-of-scope) profile loader and never mutated by the core.
type FlowProfile struct {
	ID string

	PacketsForward int
	PacketsReverse int
	BytesForward   int
	BytesReverse   int

	Start time.Time // microsecond resolution
	End   time.Time // Start <= End

	L3 L3Protocol
	L4 L4Protocol

	SrcIP   net.IP // optional
	DstIP   net.IP // optional
	SrcPort uint16 // optional, 0 means unset
	DstPort uint16 // optional, 0 means unset

	// VlanID and MplsLabel let a profile pin a specific encapsulation tag
	// instead of letting the encapsulation-selection heuristic draw
	// one. Both nil by default.
	VlanID    *uint16
	MplsLabel *uint32
}

// TotalPackets returns PacketsForward + PacketsReverse.
func (p *FlowProfile) TotalPackets() int {
	return p.PacketsForward + p.PacketsReverse
}

// Validate enforces the profile invariants required before planning
// begins: L4=ICMP implies L3=IPv4, L4=ICMPv6 implies L3=IPv6, and an
// explicit source IP (if present) matches the L3 family.
func (p *FlowProfile) Validate() error {
	switch p.L3 {
	case L3IPv4, L3IPv6:
	default:
		return ErrUnknownProtocol
	}
	switch p.L4 {
	case L4TCP, L4UDP, L4ICMP, L4ICMPv6:
	default:
		return ErrUnknownProtocol
	}

	if p.L4 == L4ICMP && p.L3 != L3IPv4 {
		return ErrProtocolMismatch
	}
	if p.L4 == L4ICMPv6 && p.L3 != L3IPv6 {
		return ErrProtocolMismatch
	}

	if p.SrcIP != nil {
		is4 := p.SrcIP.To4() != nil
		if (p.L3 == L3IPv4) != is4 {
			return ErrProtocolMismatch
		}
	}

	if !p.Start.Before(p.End) && !p.Start.Equal(p.End) {
		return ErrInvalidConfig
	}

	return nil
}
