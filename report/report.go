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
// Summary accumulates per-flow, per-direction packet and byte counts as a
// run emits packets, and writes them out as a CSV traffic-summary report
// alongside the generated capture.

package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/aoeldemann/flowsynth"
)

type counters struct {
	id                         string
	packetsForward, bytesForward int
	packetsReverse, bytesReverse int
}

// Summary accumulates traffic counters across every flow in a run.
type Summary struct {
	rows  []*counters
	byID  map[string]*counters
}

// NewSummary returns an empty Summary.
func NewSummary() *Summary {
	return &Summary{byID: make(map[string]*counters)}
}

// AddFlow registers profile.ID as a row, so the report lists flows that
// produced zero packets too.
func (s *Summary) AddFlow(profile *flowsynth.FlowProfile) {
	if _, ok := s.byID[profile.ID]; ok {
		return
	}
	c := &counters{id: profile.ID}
	s.byID[profile.ID] = c
	s.rows = append(s.rows, c)
}

// Record accounts for one built packet belonging to flow id.
func (s *Summary) Record(id string, extra flowsynth.PacketExtra, size int) {
	c, ok := s.byID[id]
	if !ok {
		c = &counters{id: id}
		s.byID[id] = c
		s.rows = append(s.rows, c)
	}
	switch extra.Direction {
	case flowsynth.DirForward:
		c.packetsForward++
		c.bytesForward += size
	case flowsynth.DirReverse:
		c.packetsReverse++
		c.bytesReverse += size
	}
}

// WriteCSV writes the accumulated summary to path, one row per flow.
func (s *Summary) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"id", "packets_forward", "bytes_forward", "packets_reverse", "bytes_reverse"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, c := range s.rows {
		row := []string{
			c.id,
			strconv.Itoa(c.packetsForward),
			strconv.Itoa(c.bytesForward),
			strconv.Itoa(c.packetsReverse),
			strconv.Itoa(c.bytesReverse),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
