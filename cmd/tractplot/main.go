// Copyright (c) 2019, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command tractplot renders one block's worth of trm.Voice tract-shape
// telemetry to a PNG line chart: a debug visualizer for the diameter[]/
// noseDiameter[0] profile a host can build entirely from the published
// telemetry, without the core needing any rendering capability of its own.
package main

import (
	"flag"
	"log"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/vocalsynth/trombone/hostdsp"
	"github.com/vocalsynth/trombone/trm"
)

func main() {
	var (
		sampleRate = flag.Int("sample-rate", 44100, "sample rate used to run one warm-up block")
		n          = flag.Int("n", trm.DefaultN, "tract length in segments (30-60)")
		blockSize  = flag.Int("block", 512, "block size used to advance the tract once before plotting")
		out        = flag.String("out", "tract.png", "output PNG path")
	)
	flag.Parse()

	voice := trm.NewVoice(float64(*sampleRate), 1)
	p := trm.DefaultParams()
	p.N = *n
	voice.SetParams(p)

	aspIn := make([]float64, *blockSize)
	fricIn := make([]float64, *blockSize)
	block := make([]float64, *blockSize)
	voice.ProcessBlock(aspIn, fricIn, block)

	frame := voice.Telemetry()
	if frame == nil {
		log.Fatal("tractplot: no telemetry published")
	}
	telem := hostdsp.FromFrame(frame)

	pts := make(plotter.XYs, telem.Diameter.Len())
	for i, d := range telem.Float32Diameters() {
		pts[i].X = float64(i)
		pts[i].Y = float64(d)
	}

	chart := plot.New()
	chart.Title.Text = "vocal tract diameter profile"
	chart.X.Label.Text = "segment"
	chart.Y.Label.Text = "diameter (cm)"

	line, err := plotter.NewLine(pts)
	if err != nil {
		log.Fatal(err)
	}
	chart.Add(line)
	chart.Add(plotter.NewGrid())

	if err := chart.Save(6*vg.Inch, 4*vg.Inch, *out); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s (nose diameter = %.3f)", *out, telem.NoseDiameter)
}
