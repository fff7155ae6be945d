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

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildIPv4UDPPacket(t *testing.T, payloadLen int) []byte {
	t.Helper()
	eth := &layers.Ethernet{
		SrcMAC:       []byte{1, 2, 3, 4, 5, 6},
		DstMAC:       []byte{6, 5, 4, 3, 2, 1},
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    []byte{10, 0, 0, 1},
		DstIP:    []byte{10, 0, 0, 2},
	}
	udp := &layers.UDP{SrcPort: 1000, DstPort: 2000}
	require.NoError(t, udp.SetNetworkLayerForChecksum(ip))
	payload := gopacket.Payload(make([]byte, payloadLen))

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	require.NoError(t, gopacket.SerializeLayers(buf, opts, eth, ip, udp, payload))
	return append([]byte(nil), buf.Bytes()...)
}

func TestFragmentIPv4ProducesTwoValidFragments(t *testing.T) {
	full := buildIPv4UDPPacket(t, 200)
	frags := fragmentIPv4(full, EthHdrLen)
	require.Len(t, frags, 2)

	for i, frag := range frags {
		parsed := gopacket.NewPacket(frag, layers.LayerTypeEthernet, gopacket.Default)
		require.Nil(t, parsed.ErrorLayer())
		ipLayer := parsed.Layer(layers.LayerTypeIPv4)
		require.NotNil(t, ipLayer)
		ip := ipLayer.(*layers.IPv4)
		if i == 0 {
			assert.True(t, ip.Flags&layers.IPv4MoreFragments != 0)
			assert.Equal(t, uint16(0), ip.FragOffset)
		} else {
			assert.False(t, ip.Flags&layers.IPv4MoreFragments != 0)
			assert.Greater(t, ip.FragOffset, uint16(0))
		}
	}
}

func TestFragmentIPv4TooSmallReturnsNil(t *testing.T) {
	full := buildIPv4UDPPacket(t, 4)
	frags := fragmentIPv4(full, EthHdrLen)
	assert.Nil(t, frags)
}
