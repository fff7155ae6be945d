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
// Loads the input flow table (CSV) and turns each row into a
// flowsynth.FlowProfile. No third-party CSV library appears anywhere in
// the retrieval pack, so this stays on encoding/csv (see DESIGN.md).

package profile

import (
	"encoding/csv"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/aoeldemann/flowsynth"
)

// columns, in the fixed order the CSV loader expects them.
const (
	colID = iota
	colPacketsForward
	colPacketsReverse
	colBytesForward
	colBytesReverse
	colStart
	colEnd
	colL3
	colL4
	colSrcIP
	colDstIP
	colSrcPort
	colDstPort
	colVlanID
	colMplsLabel
	numColumns
)

const timeLayout = "2006-01-02T15:04:05.000000"

// Load reads the flow table at path and returns one FlowProfile per data
// row. The first row is treated as a header and skipped.
func Load(path string) ([]*flowsynth.FlowProfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("profile: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = numColumns

	if _, err := r.Read(); err != nil { // header
		return nil, fmt.Errorf("profile: read header: %w", err)
	}

	var out []*flowsynth.FlowProfile
	lineNum := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("profile: line %d: %w", lineNum, err)
		}
		lineNum++

		p, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("profile: line %d: %w", lineNum, err)
		}
		out = append(out, p)
	}

	return out, nil
}

func parseRecord(r []string) (*flowsynth.FlowProfile, error) {
	pf, err := strconv.Atoi(r[colPacketsForward])
	if err != nil {
		return nil, err
	}
	pr, err := strconv.Atoi(r[colPacketsReverse])
	if err != nil {
		return nil, err
	}
	bf, err := strconv.Atoi(r[colBytesForward])
	if err != nil {
		return nil, err
	}
	br, err := strconv.Atoi(r[colBytesReverse])
	if err != nil {
		return nil, err
	}

	start, err := time.Parse(timeLayout, r[colStart])
	if err != nil {
		return nil, err
	}
	end, err := time.Parse(timeLayout, r[colEnd])
	if err != nil {
		return nil, err
	}

	l3, err := parseL3(r[colL3])
	if err != nil {
		return nil, err
	}
	l4, err := parseL4(r[colL4])
	if err != nil {
		return nil, err
	}

	p := &flowsynth.FlowProfile{
		ID:             r[colID],
		PacketsForward: pf,
		PacketsReverse: pr,
		BytesForward:   bf,
		BytesReverse:   br,
		Start:          start,
		End:            end,
		L3:             l3,
		L4:             l4,
	}

	if r[colSrcIP] != "" {
		p.SrcIP = net.ParseIP(r[colSrcIP])
	}
	if r[colDstIP] != "" {
		p.DstIP = net.ParseIP(r[colDstIP])
	}
	if r[colSrcPort] != "" {
		port, err := strconv.ParseUint(r[colSrcPort], 10, 16)
		if err != nil {
			return nil, err
		}
		p.SrcPort = uint16(port)
	}
	if r[colDstPort] != "" {
		port, err := strconv.ParseUint(r[colDstPort], 10, 16)
		if err != nil {
			return nil, err
		}
		p.DstPort = uint16(port)
	}
	if r[colVlanID] != "" {
		id, err := strconv.ParseUint(r[colVlanID], 10, 16)
		if err != nil {
			return nil, err
		}
		v := uint16(id)
		p.VlanID = &v
	}
	if r[colMplsLabel] != "" {
		label, err := strconv.ParseUint(r[colMplsLabel], 10, 32)
		if err != nil {
			return nil, err
		}
		v := uint32(label)
		p.MplsLabel = &v
	}

	return p, nil
}

func parseL3(s string) (flowsynth.L3Protocol, error) {
	switch s {
	case "ipv4":
		return flowsynth.L3IPv4, nil
	case "ipv6":
		return flowsynth.L3IPv6, nil
	default:
		return flowsynth.L3Unknown, fmt.Errorf("unknown l3 protocol %q", s)
	}
}

func parseL4(s string) (flowsynth.L4Protocol, error) {
	switch s {
	case "tcp":
		return flowsynth.L4TCP, nil
	case "udp":
		return flowsynth.L4UDP, nil
	case "icmp":
		return flowsynth.L4ICMP, nil
	case "icmpv6":
		return flowsynth.L4ICMPv6, nil
	default:
		return flowsynth.L4Unknown, fmt.Errorf("unknown l4 protocol %q", s)
	}
}
