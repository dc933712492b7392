// Copyright (c) 2019, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hostdsp

import (
	"math/cmplx"

	"github.com/chewxy/math32"
	"github.com/emer/etable/etensor"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/vocalsynth/trombone/trm"
)

// Telemetry wraps a raw trm.TelemetryFrame in the etensor introspection
// container the rest of the demo tooling expects, for passing named
// numeric arrays across package boundaries.
type Telemetry struct {
	Diameter     *etensor.Float64
	NoseDiameter float64
}

// FromFrame converts a trm.TelemetryFrame snapshot. Returns nil if frame is
// nil (no block has run yet).
func FromFrame(frame *trm.TelemetryFrame) *Telemetry {
	if frame == nil {
		return nil
	}
	t := etensor.NewFloat64([]int{len(frame.Diameter)}, nil, []string{"segment"})
	copy(t.Values, frame.Diameter)
	return &Telemetry{Diameter: t, NoseDiameter: frame.NoseDiameter}
}

// Float32Diameters downsamples the diameter profile to float32 for the
// tractplot renderer, which only needs display precision; the core
// waveguide itself stays float64.
func (t *Telemetry) Float32Diameters() []float32 {
	out := make([]float32, t.Diameter.Len())
	for i, v := range t.Diameter.Values {
		// round to display precision rather than carrying float64 noise
		// into the plot.
		out[i] = math32.Round(float32(v)*1000) / 1000
	}
	return out
}

// SpectralCentroid computes the amplitude-weighted mean frequency of samples
// (a single FFT over the whole block, for a one-shot demo readout).
func SpectralCentroid(samples []float64, sampleRate float64) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}
	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, samples)

	var weighted, total float64
	for k, c := range coeffs {
		mag := cmplx.Abs(c)
		freq := float64(k) * sampleRate / float64(n)
		weighted += freq * mag
		total += mag
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}
