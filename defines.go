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
// Global definitions: protocol header sizes and the constants the Flow
// Planner needs to reason about structural packet sizes before any bytes
// are actually serialized.

package flowsynth

// header sizes in bytes, as they appear on the wire
const (
	EthHdrLen    = 14
	VlanHdrLen   = 4
	MplsHdrLen   = 4
	IPv4HdrLen   = 20
	IPv6HdrLen   = 40
	TCPHdrLen    = 20
	UDPHdrLen    = 8
	ICMPHdrLen   = 8
	ICMPv6HdrLen = 8

	// reserved bytes ICMPv6 carries in unreachable-style messages that
	// ICMPv4 does not (RFC 4443 section 3.1 unused field)
	ICMPv6UnreachReservedLen = 4
)

// minimum Ethernet frame size the core ever produces, FCS excluded (the
// Packet Builder does not emit the trailing FCS, which a real MAC appends
// downstream)
const MinFrameLen = 60

// LehmerMultiplier and LehmerModulus are the constants of the Address
// Generator's multiplicative congruential recurrence (Park-Miller minimal
// standard generator): state <- (state * a) mod m.
const (
	LehmerMultiplier = 48271
	LehmerModulus    = 1<<31 - 1
	LehmerPeriod     = LehmerModulus - 1
)

// structural-size helpers used by the ICMP selection heuristic.

// icmpUnreachSizeIPv4 returns the structural size (L3+above, matching the
// PacketPlan.size convention) of an ICMPv4 unreachable-style message.
func icmpUnreachSizeIPv4() int {
	return ICMPHdrLen + IPv4HdrLen + UDPHdrLen
}

// icmpUnreachSizeIPv6 returns the structural size of an ICMPv6
// unreachable-style message, which carries 4 additional reserved bytes
// that ICMPv4 does not.
func icmpUnreachSizeIPv6() int {
	return ICMPv6HdrLen + ICMPv6UnreachReservedLen + IPv6HdrLen + UDPHdrLen
}
