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
// Error kinds raised by the core. None of them are retried internally;
// they propagate to the caller, which decides whether a failure is fatal
// to one flow or to the whole run.

package flowsynth

import "errors"

var (
	// ErrUnknownProtocol is returned when a profile names an L3 or L4
	// protocol the core does not implement. Fatal to the flow.
	ErrUnknownProtocol = errors.New("flowsynth: unknown protocol")

	// ErrProtocolMismatch is returned when L4=ICMP is paired with a non-IPv4
	// L3, or L4=ICMPv6 with a non-IPv6 L3. Fatal to the flow.
	ErrProtocolMismatch = errors.New("flowsynth: protocol mismatch")

	// ErrInvalidSeed is returned by NewAddressGenerator when the seed lies
	// outside [1, 2^31-2]. Fatal to the run.
	ErrInvalidSeed = errors.New("flowsynth: invalid address generator seed")

	// ErrInvalidConfig is returned for an unknown encapsulation variant or
	// a packet-size interval that cannot fit the L2 header. Fatal to the
	// run.
	ErrInvalidConfig = errors.New("flowsynth: invalid configuration")

	// ErrNoMorePackets is returned by GenerateNextPacket once a flow's plan
	// list has been fully drained. Calling it again is a programmer error.
	ErrNoMorePackets = errors.New("flowsynth: no more packets")
)
