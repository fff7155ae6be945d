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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *PlannerConfig {
	return &PlannerConfig{
		SizeIntervals: []IntervalInfo{
			{From: 64, To: 128, Prob: 0.5},
			{From: 128, To: 512, Prob: 0.3},
			{From: 512, To: 1400, Prob: 0.2},
		},
	}
}

func newTestFlow(t *testing.T, profile *FlowProfile) *Flow {
	t.Helper()
	SeedGlobal(1)
	addrGen, err := NewAddressGenerator(1)
	require.NoError(t, err)
	f := NewFlow(profile, testConfig(), addrGen)
	require.NoError(t, f.Plan())
	return f
}

func TestFlowUDPSingleTimestampAllForward(t *testing.T) {
	start := time.Unix(1000, 0)
	profile := &FlowProfile{
		ID:             "udp-fwd-only",
		PacketsForward: 4,
		PacketsReverse: 0,
		BytesForward:   2000,
		BytesReverse:   0,
		Start:          start,
		End:            start,
		L3:             L3IPv4,
		L4:             L4UDP,
	}
	f := newTestFlow(t, profile)

	require.Len(t, f.plans, 4)
	for _, p := range f.plans {
		assert.Equal(t, DirForward, p.Direction)
		assert.True(t, p.Timestamp.Equal(start))
	}
}

func TestFlowIPv6TCPTwoPackets(t *testing.T) {
	start := time.Unix(2000, 0)
	end := start.Add(5 * time.Second)
	profile := &FlowProfile{
		ID:             "v6-tcp",
		PacketsForward: 1,
		PacketsReverse: 1,
		BytesForward:   500,
		BytesReverse:   500,
		Start:          start,
		End:            end,
		L3:             L3IPv6,
		L4:             L4TCP,
	}
	f := newTestFlow(t, profile)

	require.Len(t, f.plans, 2)
	assert.True(t, f.plans[0].Timestamp.Equal(start))
	assert.True(t, f.plans[1].Timestamp.Equal(end))
	assert.Equal(t, 1, f.plans.CountDirection(DirForward))
	assert.Equal(t, 1, f.plans.CountDirection(DirReverse))
}

func TestFlowICMPHeuristicSelectsUnreachableForSmallAsymmetricFlow(t *testing.T) {
	start := time.Unix(3000, 0)
	profile := &FlowProfile{
		ID:             "icmp-small",
		PacketsForward: 1,
		PacketsReverse: 0,
		BytesForward:   36, // the IPv4 unreachable structural size
		BytesReverse:   0,
		Start:          start,
		End:            start,
		L3:             L3IPv4,
		L4:             L4ICMP,
	}
	f := newTestFlow(t, profile)

	require.Len(t, f.stack, 3) // Ethernet, IPv4, ICMP
	_, ok := f.stack[2].(*ICMPRandomLayer)
	assert.True(t, ok, "expected the heuristic to select the unreachable-style ICMP layer")
	assert.True(t, f.plans[0].IsFinished)
	assert.Equal(t, icmpUnreachSizeIPv4(), f.plans[0].Size)
}

func TestFlowICMPHeuristicSelectsEchoForLargeSymmetricFlow(t *testing.T) {
	start := time.Unix(3000, 0)
	end := start.Add(10 * time.Second)
	profile := &FlowProfile{
		ID:             "icmp-large",
		PacketsForward: 50,
		PacketsReverse: 50,
		BytesForward:   50000,
		BytesReverse:   50000,
		Start:          start,
		End:            end,
		L3:             L3IPv4,
		L4:             L4ICMP,
	}
	f := newTestFlow(t, profile)

	_, ok := f.stack[2].(*ICMPEchoLayer)
	assert.True(t, ok, "expected the heuristic to select the echo ICMP layer")
}

func TestFlowProtocolMismatchICMPv6OnIPv4(t *testing.T) {
	start := time.Unix(1, 0)
	profile := &FlowProfile{
		ID:             "mismatch",
		PacketsForward: 1,
		PacketsReverse: 0,
		BytesForward:   100,
		Start:          start,
		End:            start,
		L3:             L3IPv4,
		L4:             L4ICMPv6,
	}
	SeedGlobal(1)
	addrGen, err := NewAddressGenerator(1)
	require.NoError(t, err)
	f := NewFlow(profile, testConfig(), addrGen)
	err = f.Plan()
	assert.ErrorIs(t, err, ErrProtocolMismatch)
}

func TestFlowDirectionCountsMatchProfile(t *testing.T) {
	start := time.Unix(5000, 0)
	end := start.Add(60 * time.Second)
	profile := &FlowProfile{
		ID:             "counts",
		PacketsForward: 17,
		PacketsReverse: 23,
		BytesForward:   17000,
		BytesReverse:   23000,
		Start:          start,
		End:            end,
		L3:             L3IPv4,
		L4:             L4TCP,
	}
	f := newTestFlow(t, profile)

	assert.Equal(t, profile.PacketsForward, f.plans.CountDirection(DirForward))
	assert.Equal(t, profile.PacketsReverse, f.plans.CountDirection(DirReverse))
}

func TestFlowTimestampsMonotonicAndWithinBounds(t *testing.T) {
	start := time.Unix(10000, 0)
	end := start.Add(30 * time.Second)
	profile := &FlowProfile{
		ID:             "timestamps",
		PacketsForward: 10,
		PacketsReverse: 10,
		BytesForward:   10000,
		BytesReverse:   10000,
		Start:          start,
		End:            end,
		L3:             L3IPv4,
		L4:             L4UDP,
	}
	f := newTestFlow(t, profile)

	var prev time.Time
	for i, p := range f.plans {
		assert.False(t, p.Timestamp.Before(start))
		assert.False(t, p.Timestamp.After(end))
		if i > 0 {
			assert.False(t, p.Timestamp.Before(prev))
		}
		prev = p.Timestamp
	}
}

func TestFlowDeterministicGivenIdenticalSeeds(t *testing.T) {
	makeProfile := func() *FlowProfile {
		start := time.Unix(20000, 0)
		return &FlowProfile{
			ID:             "deterministic",
			PacketsForward: 12,
			PacketsReverse: 8,
			BytesForward:   9000,
			BytesReverse:   6000,
			Start:          start,
			End:            start.Add(15 * time.Second),
			L3:             L3IPv4,
			L4:             L4UDP,
		}
	}

	f1 := newTestFlow(t, makeProfile())
	f2 := newTestFlow(t, makeProfile())

	require.Equal(t, len(f1.plans), len(f2.plans))
	for i := range f1.plans {
		assert.Equal(t, f1.plans[i].Direction, f2.plans[i].Direction)
		assert.Equal(t, f1.plans[i].Size, f2.plans[i].Size)
		assert.True(t, f1.plans[i].Timestamp.Equal(f2.plans[i].Timestamp))
	}
}

func TestFlowGenerateNextPacketExhaustion(t *testing.T) {
	start := time.Unix(1, 0)
	profile := &FlowProfile{
		ID:             "drain",
		PacketsForward: 2,
		PacketsReverse: 0,
		BytesForward:   200,
		Start:          start,
		End:            start,
		L3:             L3IPv4,
		L4:             L4UDP,
	}
	f := newTestFlow(t, profile)

	_, err := f.GenerateNextPacket()
	require.NoError(t, err)
	_, err = f.GenerateNextPacket()
	require.NoError(t, err)
	_, err = f.GenerateNextPacket()
	assert.ErrorIs(t, err, ErrNoMorePackets)
}

func TestFlowEncapsulationVariantSelectedByConfiguredWeights(t *testing.T) {
	vlanID := uint16(100)
	cfg := testConfig()
	cfg.Encapsulation = []EncapsulationRule{
		{Prob: 1.0, Layers: []EncapsulationTag{{VlanID: &vlanID}}},
	}

	start := time.Unix(1, 0)
	profile := &FlowProfile{
		ID:             "encap",
		PacketsForward: 1,
		BytesForward:   200,
		Start:          start,
		End:            start,
		L3:             L3IPv4,
		L4:             L4UDP,
	}

	SeedGlobal(1)
	addrGen, err := NewAddressGenerator(1)
	require.NoError(t, err)
	f := NewFlow(profile, cfg, addrGen)
	require.NoError(t, f.Plan())

	require.Len(t, f.stack, 5) // Ethernet, VLAN, IPv4, UDP, Payload
	vlan, ok := f.stack[1].(*VlanLayer)
	require.True(t, ok)
	assert.Equal(t, vlanID, vlan.id)
}
