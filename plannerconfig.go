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
// PlannerConfig is the shape the Flow Planner consumes. It is declared here,
// inside the core package, so that the out-of-scope YAML config loader
// (package config) can depend on flowsynth without flowsynth depending back
// on it.

package flowsynth

import "net"

// EncapsulationTag is one tag in an encapsulation rule's layer list: either
// a VLAN tag or an MPLS label, never both.
type EncapsulationTag struct {
	VlanID    *uint16
	MplsLabel *uint32
}

// EncapsulationRule is one weighted entry of the encapsulation-selection
// distribution. Layers holds more than one tag to support stacked
// encapsulation (QinQ double VLAN tagging, stacked MPLS labels); a
// single-entry list behaves exactly like the plain Vlan/Mpls case.
type EncapsulationRule struct {
	Prob   float64
	Layers []EncapsulationTag
}

// FragmentationConfig controls whether an IPv4 or IPv6 layer fragments a
// packet whose size is at or above MinSizeToFragment.
type FragmentationConfig struct {
	Probability       float64
	MinSizeToFragment int
}

// FamilyConfig groups the options a single L3 family (IPv4 or IPv6) is
// configured with.
type FamilyConfig struct {
	Fragmentation FragmentationConfig

	// Ranges restricts addresses drawn by the AddressGenerator to the union
	// of these networks. An empty list leaves addresses unrestricted.
	Ranges []*net.IPNet
}

// PlannerConfig bundles every out-of-scope-config-originated knob the Flow
// Planner consults while building a flow's LayerStack.
type PlannerConfig struct {
	Encapsulation []EncapsulationRule
	IPv4          FamilyConfig
	IPv6          FamilyConfig

	// SizeIntervals parameterizes the Packet-Size Distributor shared by
	// both directions of every flow planned under this config.
	SizeIntervals []IntervalInfo
}

// totalEncapsulationProb sums the probability weights of every rule.
func (c *PlannerConfig) totalEncapsulationProb() float64 {
	total := 0.0
	for _, r := range c.Encapsulation {
		total += r.Prob
	}
	return total
}

// chooseEncapsulation draws a uniform real in [0, total) and returns the
// first rule whose cumulative probability covers the draw. An empty rule
// list means no encapsulation layers.
func (c *PlannerConfig) chooseEncapsulation() []EncapsulationTag {
	total := c.totalEncapsulationProb()
	if total <= 0 || len(c.Encapsulation) == 0 {
		return nil
	}
	draw := DefaultRand.RandomDouble(0, total)
	cum := 0.0
	for _, r := range c.Encapsulation {
		cum += r.Prob
		if draw < cum {
			return r.Layers
		}
	}
	return c.Encapsulation[len(c.Encapsulation)-1].Layers
}

// applyRange masks ip into one of ranges, chosen uniformly, by OR-ing the
// network prefix over the generator-drawn host bits. An empty ranges list
// returns ip unchanged.
func applyRange(ip net.IP, ranges []*net.IPNet) net.IP {
	if len(ranges) == 0 {
		return ip
	}
	n := ranges[DefaultRand.RandomUInt(0, uint64(len(ranges)-1))]
	out := make(net.IP, len(ip))
	copy(out, ip)
	for i := range out {
		if i < len(n.Mask) {
			out[i] = (out[i] &^ n.Mask[i]) | (n.IP[i] & n.Mask[i])
		}
	}
	return out
}
