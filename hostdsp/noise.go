// Copyright (c) 2019, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hostdsp

import (
	"math"

	"github.com/goki/ki/kit"
)

// NoiseBand selects which of the two pre-filter bands a noise source is
// shaping. Registered with kit.Enums even though this demo-host package
// has no GUI of its own -- the registration is cheap self-description
// other hostdsp tooling (and a future GUI) can introspect.
type NoiseBand int

const (
	AspirationBand NoiseBand = iota
	FricativeBand
	noiseBandN
)

//go:generate stringer -type=NoiseBand

var KitNoiseBand = kit.Enums.AddEnum(noiseBandN, kit.NotBitFlag, nil)

// CenterFrequency and Q return the tuning for the band: 500Hz Q=0.5 for
// aspiration, 1000Hz Q=0.5 for fricative.
func (b NoiseBand) CenterFrequency() float64 {
	if b == FricativeBand {
		return 1000
	}
	return 500
}

func (b NoiseBand) Q() float64 { return 0.5 }

// WhiteNoise is a simple congruential white-noise generator using the same
// seed*377.0 recurrence as trm.NoiseSource, kept as a separate host-side
// type for the pre-filter noise path.
type WhiteNoise struct {
	seed float64
}

// NewWhiteNoise seeds a generator distinctly per stream so the aspiration and
// fricative sources used by one Voice don't correlate.
func NewWhiteNoise(seed uint64) *WhiteNoise {
	wn := &WhiteNoise{}
	if seed == 0 {
		wn.seed = 0.7892347
	} else {
		wn.seed = 0.7892347 + float64(seed%100003)/100003.0
	}
	return wn
}

// Sample returns the next sample in [-0.5, 0.5).
func (wn *WhiteNoise) Sample() float64 {
	product := wn.seed * 377.0
	wn.seed = product - math.Trunc(product)
	return wn.seed - 0.5
}

// FillBlock writes len(out) white-noise samples into out.
func (wn *WhiteNoise) FillBlock(out []float64) {
	for i := range out {
		out[i] = wn.Sample()
	}
}

// NoiseSource bundles a WhiteNoise generator with the Bandpass filter for
// its band: broadband white noise band-passed around Fc at Q=0.5.
type NoiseSource struct {
	Band   NoiseBand
	white  *WhiteNoise
	filter *Bandpass
}

// NewNoiseSource builds a pre-filtered noise source for the given band.
func NewNoiseSource(sampleRate float64, band NoiseBand, seed uint64) *NoiseSource {
	return &NoiseSource{
		Band:   band,
		white:  NewWhiteNoise(seed),
		filter: NewBandpass(sampleRate, band.CenterFrequency(), band.Q()),
	}
}

// ProcessBlock fills out with len(out) band-passed noise samples.
func (ns *NoiseSource) ProcessBlock(out []float64) {
	ns.white.FillBlock(out)
	ns.filter.FilterBlock(out, out)
}
