// Copyright (c) 2019, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Voice bundles one Glottis and one Tract and drives them in lockstep:
// Glottis runs first for sample j, and Tract consumes its outputs for
// that same sample. The top-level block loop reads controls once per
// block and then iterates samples, so that N independent Voices can run
// concurrently without sharing mutable state.

package trm

import "math"

// Voice is a single independent synthesizer instance. Nothing is shared
// between Voices except read-only configuration; each owns its own PRNG
// seed so concurrently running voices desynchronize.
type Voice struct {
	SampleRate float64
	Seed       uint64

	Glottis Glottis
	Tract   Tract

	Diagnostics Diagnostics

	pendingN  int
	hasN      bool
	telemetry TelemetrySlot

	voicedBuf    []float64
	aspirationBuf []float64
	noiseModBuf  []float64
}

// Diagnostics are hot-path-safe anomaly counters a host may poll; trm never
// logs from the audio thread.
type Diagnostics struct {
	ClampedParams uint64
	NaNSamples    uint64
}

// NewVoice constructs a Voice at the given sample rate, seeded distinctly
// (seed is typically the voice index) so wobble sources desynchronize across
// concurrently running voices.
func NewVoice(sampleRate float64, seed uint64) *Voice {
	if sampleRate <= 0 {
		panic("trm: NewVoice requires a positive sample rate")
	}
	v := &Voice{SampleRate: sampleRate, Seed: seed}
	v.Glottis.Init(sampleRate, seed)
	v.Tract.Init(sampleRate, DefaultN)
	return v
}

// SetN queues a tract-length change. A mid-block `n` change is deferred to
// the next block boundary; ProcessBlock IS that boundary, so the queued
// value is simply applied the next time ProcessBlock runs.
func (v *Voice) SetN(n int) {
	v.pendingN = clampN(n)
	v.hasN = true
}

// SetParams applies a full parameter set. Per-block parameters take effect
// for the next block; per-sample parameters are (in this implementation)
// applied at the same block granularity, since ProcessBlock is called once
// per host audio block and there is no sub-block parameter automation API
// here -- see DESIGN.md's open-question ledger. Out-of-range and NaN values
// are clamped to Ranges; only an out-of-range Frequency increments
// Diagnostics.ClampedParams.
func (v *Voice) SetParams(p Params) {
	if p.N != 0 && p.N != v.Tract.N {
		v.SetN(p.N)
	}

	g := &v.Glottis
	before := p.Frequency
	g.UIFrequency = Ranges.Frequency.Clamp(p.Frequency) * pitchbendScale(Ranges.Pitchbend.Clamp(p.Pitchbend))
	if Ranges.Frequency.Clamp(before) != before {
		v.Diagnostics.ClampedParams++
	}
	g.Intensity = Ranges.Intensity.Clamp(p.Intensity)
	tenseness := Ranges.Tenseness.Clamp(p.Tenseness) * Ranges.TensenessMult.Clamp(p.TensenessMult)
	g.UITenseness = clamp(tenseness, 0, 1)
	g.VibratoAmount = Ranges.VibratoAmount.Clamp(p.VibratoAmount)
	g.VibratoFrequency = Ranges.VibratoFrequency.Clamp(p.VibratoFrequency)

	t := &v.Tract
	t.VelumTarget = Ranges.VelumTarget.Clamp(p.VelumTarget)
	t.ConstrictionIndex = Ranges.ConstrictionIndex.Clamp(p.ConstrictionIndex)
	t.ConstrictionDiameter = Ranges.ConstrictionDiameter.Clamp(p.ConstrictionDiameter)
	frac := Ranges.TongueIndex.Clamp(p.TongueIndexFrac)
	lo := float64(t.bladeStart + 2)
	hi := float64(t.tipStart - 3)
	t.TongueIndex = lo + frac*(hi-lo)
	t.TongueDiameter = Ranges.TongueDiameter.Clamp(p.TongueDiameter)
	t.LipDiameter = Ranges.LipDiameter.Clamp(p.LipDiameter)
	t.MovementSpeed = Ranges.MovementSpeed.Clamp(p.MovementSpeed)
	t.FricativeStrength = Ranges.FricativeStrength.Clamp(p.FricativeStrength)
	t.TransientStrength = Ranges.TransientStrength.Clamp(p.TransientStrength)
}

func pitchbendScale(semitones float64) float64 {
	return math.Exp2(semitones / 12)
}

// isBadSample reports whether a tract output sample is non-finite; such
// samples are replaced with silence rather than propagated.
func isBadSample(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// ProcessBlock synthesizes len(out) samples into out, given one
// pre-band-passed aspiration-noise sample and one pre-band-passed
// fricative-noise sample per output sample. Applies any queued N change at
// this block boundary before processing.
func (v *Voice) ProcessBlock(aspirationNoiseIn, fricativeNoiseIn, out []float64) {
	n := len(out)
	if v.hasN {
		prev := v.Tract
		v.Tract.Init(v.SampleRate, v.pendingN)
		v.hasN = false
		// carry the host's control values over the re-Init, keeping the
		// tongue index at the same fraction of its valid range
		t := &v.Tract
		t.VelumTarget, t.ConstrictionIndex, t.ConstrictionDiameter = prev.VelumTarget, prev.ConstrictionIndex, prev.ConstrictionDiameter
		t.TongueDiameter, t.LipDiameter, t.MovementSpeed = prev.TongueDiameter, prev.LipDiameter, prev.MovementSpeed
		t.FricativeStrength, t.TransientStrength = prev.FricativeStrength, prev.TransientStrength
		prevLo, prevHi := float64(prev.bladeStart+2), float64(prev.tipStart-3)
		lo, hi := float64(t.bladeStart+2), float64(t.tipStart-3)
		t.TongueIndex = lo + (prev.TongueIndex-prevLo)/(prevHi-prevLo)*(hi-lo)
	}

	if cap(v.voicedBuf) < n {
		v.voicedBuf = make([]float64, n)
		v.aspirationBuf = make([]float64, n)
		v.noiseModBuf = make([]float64, n)
	}
	voiced := v.voicedBuf[:n]
	aspiration := v.aspirationBuf[:n]
	noiseMod := v.noiseModBuf[:n]

	aspIn := zeroFilled(aspirationNoiseIn, n)
	fricIn := zeroFilled(fricativeNoiseIn, n)

	v.Glottis.ProcessBlock(aspIn, voiced, aspiration, noiseMod)

	glottalIn := voiced // reuse: combine voiced + aspiration in place
	for j := 0; j < n; j++ {
		glottalIn[j] += aspiration[j]
	}

	blockTime := float64(n) / v.SampleRate
	v.Tract.ProcessBlock(glottalIn, fricIn, noiseMod, out, blockTime)

	for j := 0; j < n; j++ {
		if isBadSample(out[j]) {
			out[j] = 0
			v.Diagnostics.NaNSamples++
		}
	}

	v.telemetry.publish(v.Tract.diameter, v.Tract.noseDiameter[0])
}

// Telemetry returns the most recently published tract-shape snapshot, or nil
// if ProcessBlock has not yet run.
func (v *Voice) Telemetry() *TelemetryFrame {
	return v.telemetry.Load()
}

// zeroFilled returns in if it already has length n, otherwise a zero-padded
// copy -- a host that supplies fewer input samples than required gets
// silence for the rest of the block rather than a panic.
func zeroFilled(in []float64, n int) []float64 {
	if len(in) == n {
		return in
	}
	out := make([]float64, n)
	copy(out, in)
	return out
}
