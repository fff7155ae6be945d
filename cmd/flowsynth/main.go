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
// Command-line driver: loads a configuration file and a flow table, plans
// every flow through an Engine, drains packets into a PCAP file in global
// timestamp order, and, when --report is given, writes a CSV traffic
// summary alongside it.

package main

import (
	"fmt"
	"os"

	"github.com/aoeldemann/flowsynth"
	"github.com/aoeldemann/flowsynth/config"
	"github.com/aoeldemann/flowsynth/pcapsink"
	"github.com/aoeldemann/flowsynth/profile"
	"github.com/aoeldemann/flowsynth/report"
	"github.com/spf13/cobra"
)

var (
	flagConfig    string
	flagProfiles  string
	flagOutPcap   string
	flagOutReport string
	flagRNGSeed   uint32
	flagAddrSeed  uint32
	flagLogLevel  string
)

func main() {
	root := &cobra.Command{
		Use:   "flowsynth",
		Short: "Synthesize PCAP traffic traces from flow profiles",
		RunE:  run,
	}

	root.Flags().StringVar(&flagConfig, "config", "", "path to the YAML planner configuration (required)")
	root.Flags().StringVar(&flagProfiles, "profiles", "", "path to the CSV flow profile table (required)")
	root.Flags().StringVar(&flagOutPcap, "out", "out.pcap", "path to write the generated PCAP capture")
	root.Flags().StringVar(&flagOutReport, "report", "", "path to write a CSV traffic summary (optional)")
	root.Flags().Uint32Var(&flagRNGSeed, "seed", 1, "seed for the shared random generator")
	root.Flags().Uint32Var(&flagAddrSeed, "addr-seed", 1, "seed for the address generator (1..2^31-2)")
	root.Flags().StringVar(&flagLogLevel, "log-level", "info", "debug, info, warn or err")

	root.MarkFlagRequired("config")
	root.MarkFlagRequired("profiles")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if err := setLogLevel(flagLogLevel); err != nil {
		return err
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	profiles, err := profile.Load(flagProfiles)
	if err != nil {
		return err
	}

	engine, err := flowsynth.NewEngine(cfg, flagRNGSeed, flagAddrSeed)
	if err != nil {
		return err
	}

	summary := report.NewSummary()
	ids := make(map[*flowsynth.Flow]string)

	for _, p := range profiles {
		summary.AddFlow(p)

		flowsynth.Log(flowsynth.LogInfo, "planning flow %s", p.ID)
		f, err := engine.AddProfile(p)
		if err != nil {
			flowsynth.Log(flowsynth.LogWarn, "skipping flow %s: %v", p.ID, err)
			continue
		}
		ids[f] = p.ID
	}

	sink, err := pcapsink.Create(flagOutPcap)
	if err != nil {
		return err
	}
	defer sink.Close()

	flows := engine.Flows()
	builders := make(map[*flowsynth.Flow]*flowsynth.PacketBuilder, len(flows))
	for _, f := range flows {
		builders[f] = flowsynth.NewPacketBuilder(f)
	}

	for {
		idx := flows.NextPacketFlow()
		if idx == -1 {
			break
		}
		f := flows[idx]
		packets, err := builders[f].BuildNext()
		if err != nil {
			return fmt.Errorf("flowsynth: building packet for flow %s: %w", ids[f], err)
		}
		for _, pkt := range packets {
			if err := sink.Write(pkt); err != nil {
				return err
			}
			summary.Record(ids[f], pkt.Extra, len(pkt.Bytes))
		}
	}

	flowsynth.Log(flowsynth.LogInfo, "wrote %d packets (%d bytes) to %s", sink.Count(), sink.Bytes(), flagOutPcap)

	if flagOutReport != "" {
		if err := summary.WriteCSV(flagOutReport); err != nil {
			return err
		}
	}

	return nil
}

func setLogLevel(s string) error {
	switch s {
	case "debug":
		flowsynth.LogSetLevel(flowsynth.LogDebug)
	case "info":
		flowsynth.LogSetLevel(flowsynth.LogInfo)
	case "warn":
		flowsynth.LogSetLevel(flowsynth.LogWarn)
	case "err":
		flowsynth.LogSetLevel(flowsynth.LogErr)
	default:
		return fmt.Errorf("flowsynth: unknown log level %q", s)
	}
	return nil
}
