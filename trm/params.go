// Copyright (c) 2019, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This file implements the control parameter interface: declared ranges
// with clamp-at-read semantics, and the lock-free parameter/telemetry
// mailboxes that carry values between the control thread and the audio
// thread without locking.

package trm

import (
	"math"
	"sync/atomic"
)

// Range describes a clamped parameter range: a minimum, maximum, and the
// default substituted for invalid input.
type Range struct {
	Min     float64
	Max     float64
	Default float64
}

// Clamp coerces v into the range, substituting Default for NaN.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return r.Default
	}
	return clamp(v, r.Min, r.Max)
}

// Ranges holds the declared range for every control parameter. Hosts may
// use these to validate UI input before writing a Params value;
// Voice.SetParams clamps again defensively.
var Ranges = struct {
	Frequency, Intensity, Tenseness, TensenessMult       Range
	VibratoAmount, VibratoFrequency, Pitchbend           Range
	N                                                    Range
	VelumTarget, ConstrictionIndex, ConstrictionDiameter Range
	TongueIndex, TongueDiameter, LipDiameter              Range
	MovementSpeed, FricativeStrength, TransientStrength   Range
}{
	Frequency:            Range{20, 2000, DefaultFrequency},
	Intensity:            Range{0, 1, DefaultIntensity},
	Tenseness:            Range{0, 1, DefaultTenseness},
	TensenessMult:        Range{0, 1, 1},
	VibratoAmount:        Range{0, 1, DefaultVibratoAmount},
	VibratoFrequency:     Range{0, 100, DefaultVibratoFrequency},
	Pitchbend:            Range{-24, 24, 0},
	N:                    Range{MinN, MaxN, DefaultN},
	VelumTarget:          Range{0, 0.4, 0.01},
	ConstrictionIndex:    Range{0, MaxN, 0},
	ConstrictionDiameter: Range{0, 5, 3},
	TongueIndex:          Range{0, 1, 0.5},
	TongueDiameter:       Range{2.05, 3.5, 2.43},
	LipDiameter:          Range{0, 1.5, 1.5},
	MovementSpeed:        Range{-1e9, 1e9, defaultMovementSpeed},
	FricativeStrength:    Range{0, 1, 1},
	TransientStrength:    Range{0, 1, 1},
}

// Params is the full set of per-voice control parameters a host writes.
// TongueIndexFrac arrives as a 0-1 fraction across the tongue's valid range
// and is mapped to a segment index by Voice.SetParams.
type Params struct {
	Frequency        float64
	Intensity        float64
	Tenseness        float64
	TensenessMult    float64
	VibratoAmount    float64
	VibratoFrequency float64
	Pitchbend        float64

	N int

	VelumTarget          float64
	ConstrictionIndex    float64
	ConstrictionDiameter float64
	TongueIndexFrac      float64
	TongueDiameter       float64
	LipDiameter          float64
	MovementSpeed        float64
	FricativeStrength    float64
	TransientStrength    float64
}

// DefaultParams returns a Params populated with every declared default.
func DefaultParams() Params {
	return Params{
		Frequency:            Ranges.Frequency.Default,
		Intensity:            Ranges.Intensity.Default,
		Tenseness:            Ranges.Tenseness.Default,
		TensenessMult:        Ranges.TensenessMult.Default,
		VibratoAmount:        Ranges.VibratoAmount.Default,
		VibratoFrequency:     Ranges.VibratoFrequency.Default,
		Pitchbend:            Ranges.Pitchbend.Default,
		N:                    int(Ranges.N.Default),
		VelumTarget:          Ranges.VelumTarget.Default,
		ConstrictionIndex:    Ranges.ConstrictionIndex.Default,
		ConstrictionDiameter: Ranges.ConstrictionDiameter.Default,
		TongueIndexFrac:      Ranges.TongueIndex.Default,
		TongueDiameter:       Ranges.TongueDiameter.Default,
		LipDiameter:          Ranges.LipDiameter.Default,
		MovementSpeed:        Ranges.MovementSpeed.Default,
		FricativeStrength:    Ranges.FricativeStrength.Default,
		TransientStrength:    Ranges.TransientStrength.Default,
	}
}

// ParamSlot is a lock-free single-producer/single-consumer mailbox: the
// control thread writes the latest Params (non-blocking), the audio thread
// reads at most once per block.
type ParamSlot struct {
	value atomic.Pointer[Params]
}

// Store publishes p as the latest parameters. Never blocks.
func (s *ParamSlot) Store(p Params) {
	cp := p
	s.value.Store(&cp)
}

// Load returns the most recently stored Params, or nil if none has been
// stored yet.
func (s *ParamSlot) Load() *Params {
	return s.value.Load()
}

// TelemetryFrame is the host-pollable snapshot of tract shape emitted once
// per block.
type TelemetryFrame struct {
	Diameter     []float64
	NoseDiameter float64
}

// TelemetrySlot is the audio-writes/host-reads mirror of ParamSlot. It
// cycles between two pre-allocated TelemetryFrame buffers so that publish
// never allocates once the buffers have grown to the tract's segment
// count; the audio thread is the only writer, so the cycling index needs
// no synchronization of its own.
type TelemetrySlot struct {
	frames [2]TelemetryFrame
	next   int
	value  atomic.Pointer[TelemetryFrame]
}

func (s *TelemetrySlot) publish(diameter []float64, noseDiameter float64) {
	f := &s.frames[s.next]
	s.next = 1 - s.next
	if cap(f.Diameter) < len(diameter) {
		f.Diameter = make([]float64, len(diameter))
	}
	f.Diameter = f.Diameter[:len(diameter)]
	copy(f.Diameter, diameter)
	f.NoseDiameter = noseDiameter
	s.value.Store(f)
}

// Load returns the most recent telemetry frame, or nil if none has been
// published yet.
func (s *TelemetrySlot) Load() *TelemetryFrame {
	return s.value.Load()
}

