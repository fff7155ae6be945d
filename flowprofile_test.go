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

package flowsynth

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFlowProfileValidateAcceptsWellFormedProfile(t *testing.T) {
	start := time.Unix(1, 0)
	p := &FlowProfile{
		L3:    L3IPv4,
		L4:    L4TCP,
		Start: start,
		End:   start.Add(time.Second),
	}
	assert.NoError(t, p.Validate())
}

func TestFlowProfileValidateRejectsUnknownProtocols(t *testing.T) {
	start := time.Unix(1, 0)
	p := &FlowProfile{L3: L3Unknown, L4: L4TCP, Start: start, End: start}
	assert.ErrorIs(t, p.Validate(), ErrUnknownProtocol)

	p2 := &FlowProfile{L3: L3IPv4, L4: L4Unknown, Start: start, End: start}
	assert.ErrorIs(t, p2.Validate(), ErrUnknownProtocol)
}

func TestFlowProfileValidateRejectsICMPOnIPv6(t *testing.T) {
	start := time.Unix(1, 0)
	p := &FlowProfile{L3: L3IPv6, L4: L4ICMP, Start: start, End: start}
	assert.ErrorIs(t, p.Validate(), ErrProtocolMismatch)
}

func TestFlowProfileValidateRejectsICMPv6OnIPv4(t *testing.T) {
	start := time.Unix(1, 0)
	p := &FlowProfile{L3: L3IPv4, L4: L4ICMPv6, Start: start, End: start}
	assert.ErrorIs(t, p.Validate(), ErrProtocolMismatch)
}

func TestFlowProfileValidateRejectsSrcIPFamilyMismatch(t *testing.T) {
	start := time.Unix(1, 0)
	p := &FlowProfile{
		L3:    L3IPv6,
		L4:    L4TCP,
		Start: start,
		End:   start,
		SrcIP: net.IPv4(1, 2, 3, 4),
	}
	assert.ErrorIs(t, p.Validate(), ErrProtocolMismatch)
}

func TestFlowProfileValidateRejectsEndBeforeStart(t *testing.T) {
	start := time.Unix(10, 0)
	p := &FlowProfile{
		L3:    L3IPv4,
		L4:    L4TCP,
		Start: start,
		End:   start.Add(-time.Second),
	}
	assert.ErrorIs(t, p.Validate(), ErrInvalidConfig)
}

func TestFlowProfileTotalPackets(t *testing.T) {
	p := &FlowProfile{PacketsForward: 3, PacketsReverse: 5}
	assert.Equal(t, 8, p.TotalPackets())
}
