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
// Deterministic pseudorandom allocation of MAC/IPv4/IPv6 addresses. Kept
// isolated from the shared RandomGenerator (random.go) so that address
// streams stay reproducible even when unrelated call counts to the shared
// generator shift between runs.

package flowsynth

// AddressGenerator produces MAC, IPv4 and IPv6 addresses from a Lehmer
// (multiplicative congruential) stream: state <- (state * 48271) mod
// (2^31-1). Its period is 2^31-2; after exactly that many draws from
// state, seedState is advanced by one Lehmer step and state is reset to
// it, restarting the capacity counter.
type AddressGenerator struct {
	state      uint64
	seedState  uint64
	drawsSince uint64 // draws from state since the last reseed
}

// NewAddressGenerator creates an AddressGenerator from a seed in
// [1, 2^31-2]. Any other seed returns ErrInvalidSeed.
func NewAddressGenerator(seed uint32) (*AddressGenerator, error) {
	if seed < 1 || seed > LehmerPeriod {
		return nil, ErrInvalidSeed
	}
	s := uint64(seed)
	return &AddressGenerator{state: s, seedState: s}, nil
}

// next draws the next value from the Lehmer stream, handling the
// period-exhaustion reseed.
func (g *AddressGenerator) next() uint32 {
	if g.drawsSince == LehmerPeriod {
		g.seedState = (g.seedState * LehmerMultiplier) % LehmerModulus
		g.state = g.seedState
		g.drawsSince = 0
	}
	g.state = (g.state * LehmerMultiplier) % LehmerModulus
	g.drawsSince++
	return uint32(g.state)
}

// GenerateMac returns 6 random bytes suitable for use as a MAC address. It
// consumes 2 draws from the stream; the low 2 bytes of the second draw are
// discarded.
func (g *AddressGenerator) GenerateMac() [6]byte {
	var mac [6]byte
	v1 := g.next()
	v2 := g.next()
	mac[0] = byte(v1 >> 24)
	mac[1] = byte(v1 >> 16)
	mac[2] = byte(v1 >> 8)
	mac[3] = byte(v1)
	mac[4] = byte(v2 >> 24)
	mac[5] = byte(v2 >> 16)
	return mac
}

// GenerateIPv4 returns 4 random bytes suitable for use as an IPv4 address.
// It consumes 1 draw from the stream.
func (g *AddressGenerator) GenerateIPv4() [4]byte {
	v := g.next()
	return [4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

// GenerateIPv6 returns 16 random bytes suitable for use as an IPv6 address.
// It consumes 4 draws from the stream.
func (g *AddressGenerator) GenerateIPv6() [16]byte {
	var ip [16]byte
	for i := 0; i < 4; i++ {
		v := g.next()
		ip[i*4] = byte(v >> 24)
		ip[i*4+1] = byte(v >> 16)
		ip[i*4+2] = byte(v >> 8)
		ip[i*4+3] = byte(v)
	}
	return ip
}
