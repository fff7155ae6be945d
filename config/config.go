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
// Loads the YAML configuration file describing encapsulation rules, IP
// ranges and fragmentation knobs, and turns it into a flowsynth.PlannerConfig.
// Declared in a separate package so the core never depends back on the
// format its configuration happens to be expressed in.

package config

import (
	"fmt"
	"net"
	"os"

	"github.com/aoeldemann/flowsynth"
	"gopkg.in/yaml.v3"
)

type encapTagYAML struct {
	VlanID    *uint16 `yaml:"vlan_id,omitempty"`
	MplsLabel *uint32 `yaml:"mpls_label,omitempty"`
}

type encapRuleYAML struct {
	Probability float64        `yaml:"probability"`
	Layers      []encapTagYAML `yaml:"layers"`
}

type fragmentationYAML struct {
	Probability       float64 `yaml:"probability"`
	MinSizeToFragment int     `yaml:"min_size_to_fragment"`
}

type familyYAML struct {
	Ranges        []string          `yaml:"ranges"`
	Fragmentation fragmentationYAML `yaml:"fragmentation"`
}

type intervalYAML struct {
	From float64 `yaml:"from"`
	To   float64 `yaml:"to"`
	Prob float64 `yaml:"prob"`
}

// document is the root shape of the YAML configuration file.
type document struct {
	Encapsulation []encapRuleYAML `yaml:"encapsulation"`
	IPv4          familyYAML      `yaml:"ipv4"`
	IPv6          familyYAML      `yaml:"ipv6"`
	SizeIntervals []intervalYAML  `yaml:"size_intervals"`
}

// Load reads and parses the configuration file at path into a
// flowsynth.PlannerConfig.
func Load(path string) (*flowsynth.PlannerConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg := &flowsynth.PlannerConfig{}

	for _, r := range doc.Encapsulation {
		rule := flowsynth.EncapsulationRule{Prob: r.Probability}
		for _, l := range r.Layers {
			if l.VlanID == nil && l.MplsLabel == nil {
				return nil, fmt.Errorf("%w: encapsulation layer has neither vlan_id nor mpls_label", flowsynth.ErrInvalidConfig)
			}
			rule.Layers = append(rule.Layers, flowsynth.EncapsulationTag{
				VlanID:    l.VlanID,
				MplsLabel: l.MplsLabel,
			})
		}
		cfg.Encapsulation = append(cfg.Encapsulation, rule)
	}

	ipv4Ranges, err := parseRanges(doc.IPv4.Ranges)
	if err != nil {
		return nil, err
	}
	ipv6Ranges, err := parseRanges(doc.IPv6.Ranges)
	if err != nil {
		return nil, err
	}

	cfg.IPv4 = flowsynth.FamilyConfig{
		Ranges: ipv4Ranges,
		Fragmentation: flowsynth.FragmentationConfig{
			Probability:       doc.IPv4.Fragmentation.Probability,
			MinSizeToFragment: doc.IPv4.Fragmentation.MinSizeToFragment,
		},
	}
	cfg.IPv6 = flowsynth.FamilyConfig{
		Ranges: ipv6Ranges,
		Fragmentation: flowsynth.FragmentationConfig{
			Probability:       doc.IPv6.Fragmentation.Probability,
			MinSizeToFragment: doc.IPv6.Fragmentation.MinSizeToFragment,
		},
	}

	for _, iv := range doc.SizeIntervals {
		if iv.From < flowsynth.EthHdrLen {
			return nil, fmt.Errorf("%w: size interval [%v, %v) starts below the Ethernet header size (%d bytes)",
				flowsynth.ErrInvalidConfig, iv.From, iv.To, flowsynth.EthHdrLen)
		}
		cfg.SizeIntervals = append(cfg.SizeIntervals, flowsynth.IntervalInfo{
			From: iv.From,
			To:   iv.To,
			Prob: iv.Prob,
		})
	}

	return cfg, nil
}

func parseRanges(raw []string) ([]*net.IPNet, error) {
	var out []*net.IPNet
	for _, s := range raw {
		_, n, err := net.ParseCIDR(s)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid CIDR %q: %v", flowsynth.ErrInvalidConfig, s, err)
		}
		out = append(out, n)
	}
	return out, nil
}
