// Copyright (c) 2019, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hostdsp provides the host-side signal chain around trm.Voice: the
// two pre-filters required on the aspiration/fricative noise inputs, a
// plain white-noise source to drive them, WAV encoding and live playback, and
// a telemetry-to-plot bridge. None of it runs on trm's hot path; it is the
// "outside the box" wiring a demo or test harness needs.
package hostdsp

import "math"

// Bandpass is a two-pole bandpass filter. The coefficient derivation is
// general-purpose rather than tied to any one fixed band, so it serves both
// the aspiration and frication noise paths just by retuning.
type Bandpass struct {
	alpha, beta, gamma float64
	xn1, xn2           float64
	yn1, yn2           float64
}

// NewBandpass builds a Bandpass tuned to centerFreq with bandwidth
// centerFreq/q, at the given sample rate.
func NewBandpass(sampleRate, centerFreq, q float64) *Bandpass {
	bf := &Bandpass{}
	bf.Tune(sampleRate, centerFreq, q)
	return bf
}

// Tune retunes the filter in place, preserving its delay-line state.
func (bf *Bandpass) Tune(sampleRate, centerFreq, q float64) {
	bandwidth := centerFreq / q
	tanValue := math.Tan((math.Pi * bandwidth) / sampleRate)
	cosValue := math.Cos((2.0 * math.Pi * centerFreq) / sampleRate)
	bf.beta = (1.0 - tanValue) / (2.0 * (1.0 + tanValue))
	bf.gamma = (0.5 + bf.beta) * cosValue
	bf.alpha = (0.5 - bf.beta) / 2.0
}

// Reset zeroes the filter's delay line.
func (bf *Bandpass) Reset() {
	bf.xn1, bf.xn2, bf.yn1, bf.yn2 = 0, 0, 0, 0
}

// Filter advances the filter by one sample.
func (bf *Bandpass) Filter(input float64) float64 {
	output := 2.0 * ((bf.alpha * (input - bf.xn2)) + (bf.gamma * bf.yn1) - (bf.beta * bf.yn2))
	bf.xn2 = bf.xn1
	bf.xn1 = input
	bf.yn2 = bf.yn1
	bf.yn1 = output
	return output
}

// FilterBlock filters in into out (which may alias in) sample by sample.
func (bf *Bandpass) FilterBlock(in, out []float64) {
	for i, x := range in {
		out[i] = bf.Filter(x)
	}
}
