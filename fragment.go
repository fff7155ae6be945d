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
// Fragmentation operates on already-serialized wire bytes rather than on
// the mutable SerializableLayer list, since splitting a packet changes how
// many wire frames one PacketPlan turns into. Both helpers here produce
// exactly two fragments; a three-or-more-fragment split is not implemented
// (see DESIGN.md).

package flowsynth

import "encoding/binary"

// ipv4Checksum computes the RFC 791 Internet checksum over hdr (the
// checksum field, bytes 10-11, must be zero on entry).
func ipv4Checksum(hdr []byte) uint16 {
	var sum uint32
	for i := 0; i+1 < len(hdr); i += 2 {
		sum += uint32(hdr[i])<<8 | uint32(hdr[i+1])
	}
	if len(hdr)%2 == 1 {
		sum += uint32(hdr[len(hdr)-1]) << 8
	}
	for sum>>16 != 0 {
		sum = (sum & 0xFFFF) + (sum >> 16)
	}
	return ^uint16(sum)
}

// fragmentIPv4 splits the IPv4 packet in serialized (everything from byte 0,
// with the IPv4 header starting at l3Offset) into two RFC 791 fragments.
// Returns nil if the payload is too small to split usefully.
func fragmentIPv4(serialized []byte, l3Offset int) [][]byte {
	if l3Offset+IPv4HdrLen > len(serialized) {
		return nil
	}
	ihl := int(serialized[l3Offset]&0x0F) * 4
	if ihl < IPv4HdrLen || l3Offset+ihl > len(serialized) {
		return nil
	}
	payload := serialized[l3Offset+ihl:]
	if len(payload) < 16 {
		return nil
	}

	half := (len(payload) / 2) &^ 7
	if half == 0 || half >= len(payload) {
		return nil
	}

	prefix := serialized[:l3Offset]
	origHdr := serialized[l3Offset : l3Offset+ihl]

	buildFragment := func(body []byte, offset8 uint16, moreFragments bool) []byte {
		hdr := append([]byte(nil), origHdr...)
		binary.BigEndian.PutUint16(hdr[2:4], uint16(ihl+len(body)))
		flagsFrag := offset8 & 0x1FFF
		if moreFragments {
			flagsFrag |= 0x2000
		}
		binary.BigEndian.PutUint16(hdr[6:8], flagsFrag)
		hdr[10] = 0
		hdr[11] = 0
		chk := ipv4Checksum(hdr)
		binary.BigEndian.PutUint16(hdr[10:12], chk)

		out := make([]byte, 0, len(prefix)+len(hdr)+len(body))
		out = append(out, prefix...)
		out = append(out, hdr...)
		out = append(out, body...)
		return out
	}

	frag1 := buildFragment(payload[:half], 0, true)
	frag2 := buildFragment(payload[half:], uint16(half/8), false)
	return [][]byte{frag1, frag2}
}

// fragmentIPv6 splits the IPv6 packet in serialized into two RFC 8200
// two fragments, inserting an 8-byte Fragment extension header. Returns
// nil if the payload is too small to split usefully.
func fragmentIPv6(serialized []byte, l3Offset int, fragID uint32) [][]byte {
	if l3Offset+IPv6HdrLen > len(serialized) {
		return nil
	}
	payload := serialized[l3Offset+IPv6HdrLen:]
	if len(payload) < 16 {
		return nil
	}

	half := (len(payload) / 2) &^ 7
	if half == 0 || half >= len(payload) {
		return nil
	}

	prefix := serialized[:l3Offset]
	origHdr := append([]byte(nil), serialized[l3Offset:l3Offset+IPv6HdrLen]...)
	nextHeader := origHdr[6]
	origHdr[6] = 44 // Fragment header

	buildFragment := func(body []byte, offset8 uint16, moreFragments bool) []byte {
		hdr := append([]byte(nil), origHdr...)
		binary.BigEndian.PutUint16(hdr[4:6], uint16(8+len(body)))

		fragHdr := make([]byte, 8)
		fragHdr[0] = nextHeader
		fragHdr[1] = 0
		offsetFlags := (offset8 << 3) & 0xFFF8
		if moreFragments {
			offsetFlags |= 0x1
		}
		binary.BigEndian.PutUint16(fragHdr[2:4], offsetFlags)
		binary.BigEndian.PutUint32(fragHdr[4:8], fragID)

		out := make([]byte, 0, len(prefix)+len(hdr)+len(fragHdr)+len(body))
		out = append(out, prefix...)
		out = append(out, hdr...)
		out = append(out, fragHdr...)
		out = append(out, body...)
		return out
	}

	frag1 := buildFragment(payload[:half], 0, true)
	frag2 := buildFragment(payload[half:], uint16(half/8), false)
	return [][]byte{frag1, frag2}
}
