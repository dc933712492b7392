// Copyright (c) 2019, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This file implements the shape controller, turbulence injection and
// transient trigger/decay: the per-block machinery that moves the tract's
// diameter profile toward its target shape and injects noise at a
// constriction, split fractionally across the two adjacent segments.

package trm

import "math"

// restDiameter holds the rest-of-tract profile computed once at Init; it is
// the starting point setTargetDiameters overlays tongue/constriction/lip
// shapes onto every block.
//
// Stored as a field on Tract rather than recomputed, since it never changes
// after Init (only N changes trigger a re-Init).

func (t *Tract) initRestProfile() {
	if t.restDiameter == nil {
		t.restDiameter = make([]float64, t.N)
	}
	copy(t.restDiameter, t.diameter)
}

func mapClamped(value, inMin, inMax, outMin, outMax float64) float64 {
	if inMax == inMin {
		return outMin
	}
	frac := (value - inMin) / (inMax - inMin)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return outMin + frac*(outMax-outMin)
}

// applyConstriction overlays a cosine-shrink constriction of the given
// diameter and width centered at a (possibly fractional) segment index onto
// t.targetDiameter; shared by the tongue-tip and lip constrictions.
func (t *Tract) applyConstriction(index, diameter, width float64) {
	dia := diameter - 0.3
	if dia < 0 {
		dia = 0
	}

	center := math.Round(index)
	frac := index - center
	lo := -int(math.Ceil(width)) - 1
	hi := int(width) + 1

	for offset := lo; offset <= hi; offset++ {
		k := int(center) + offset
		if k < 0 || k >= t.N {
			continue
		}
		relpos := math.Abs(float64(offset)-frac) - 0.5
		var shrink float64
		switch {
		case relpos <= 0:
			shrink = 0
		case relpos > width:
			shrink = 1
		default:
			shrink = 0.5 * (1 - math.Cos(math.Pi*relpos/width))
		}
		if dia < t.targetDiameter[k] {
			t.targetDiameter[k] = dia + (t.targetDiameter[k]-dia)*shrink
		}
	}
}

// setTargetDiameters recomputes targetDiameter[] from the rest profile,
// overlaying the tongue body, tongue-tip constriction and lip constriction
// in that order.
func (t *Tract) setTargetDiameters() {
	copy(t.targetDiameter, t.restDiameter)

	// 1. tongue body
	fixedTongueDiameter := 2 + (t.TongueDiameter-2)/1.5
	span := float64(t.tipStart - t.bladeStart)
	for i := t.bladeStart; i < t.lipStart; i++ {
		if i < 0 || i >= t.N {
			continue
		}
		tt := 1.1 * math.Pi * (t.TongueIndex - float64(i)) / span
		curve := (1.5 - fixedTongueDiameter + 1.7) * math.Cos(tt)
		switch i {
		case t.bladeStart - 2, t.lipStart - 1:
			curve *= 0.8
		case t.bladeStart, t.lipStart - 2:
			curve *= 0.94
		}
		t.targetDiameter[i] = 1.5 - curve
	}

	// 2. tongue-tip constriction
	if t.ConstrictionIndex > 0 && t.ConstrictionDiameter > -1.6 {
		if t.ConstrictionIndex > float64(t.noseStart) && t.ConstrictionDiameter < -0.8 {
			t.VelumTarget = 0.4
		}
		width := mapClamped(t.ConstrictionIndex, 25*float64(t.N)/44, float64(t.tipStart), 10, 5) * float64(t.N) / 44
		t.applyConstriction(t.ConstrictionIndex, t.ConstrictionDiameter, width)
	}

	// 3. lip constriction, always applied
	lipIndex := float64(t.N - 2)
	t.applyConstriction(lipIndex, t.LipDiameter, 5)
}

// reshapeTract eases diameter[] toward targetDiameter[] at position-dependent
// rates, detects closure->open transitions to trigger transients, and eases
// the velum opening toward VelumTarget. Runs once per block, after sample
// processing.
func (t *Tract) reshapeTract(blockTime float64) {
	t.setTargetDiameters()

	amount := t.MovementSpeed * blockTime
	instant := t.MovementSpeed < 0

	newLastObstruction := -1
	for i := 0; i < t.N; i++ {
		target := t.targetDiameter[i]
		if instant {
			t.diameter[i] = target
		} else {
			var slowReturn float64
			switch {
			case i < t.noseStart:
				slowReturn = 0.6
			case i >= t.tipStart:
				slowReturn = 1.0
			default:
				slowReturn = mapClamped(float64(i), float64(t.noseStart), float64(t.tipStart), 0.6, 1.0)
			}
			if target > t.diameter[i] {
				t.diameter[i] = math.Min(target, t.diameter[i]+slowReturn*amount)
			} else {
				t.diameter[i] = math.Max(target, t.diameter[i]-2*amount)
			}
		}
		if t.diameter[i] <= 0 {
			newLastObstruction = i
		}
	}

	if t.lastObstruction > -1 && newLastObstruction == -1 && t.noseA[0] < 0.05 && t.FricativeStrength > 0 {
		t.addTransient(t.lastObstruction)
	}
	t.lastObstruction = newLastObstruction

	if instant {
		t.noseDiameter[0] = t.VelumTarget
	} else if t.VelumTarget > t.noseDiameter[0] {
		t.noseDiameter[0] = math.Min(t.VelumTarget, t.noseDiameter[0]+amount*0.25)
	} else {
		t.noseDiameter[0] = math.Max(t.VelumTarget, t.noseDiameter[0]-amount*0.1)
	}
}

// addTurbulenceNoise injects band-limited turbulence at the constriction.
// Called once per runStep, before the glottal injection/scattering steps.
// noiseMod is the Glottis-exported turbulence modulator, applied exactly
// once here.
func (t *Tract) addTurbulenceNoise(turbulenceNoise, noiseMod float64) {
	index := t.ConstrictionIndex
	diameter := t.ConstrictionDiameter
	if index < 2 || index > float64(t.N) || diameter <= 0 {
		return
	}

	intensity := t.FricativeStrength * 2
	thinness := clamp(8*(0.7-diameter), 0, 1)
	openness := clamp(30*(diameter-0.3), 0, 1)

	noise := turbulenceNoise * noiseMod * thinness * openness * intensity

	i0 := int(math.Floor(index))
	frac := index - float64(i0)

	inject := func(pos int, weight float64) {
		if pos < 0 || pos >= t.N {
			return
		}
		half := noise * weight * 0.5
		t.R[pos] += half
		t.L[pos] += half
	}
	inject(i0+1, 1-frac)
	inject(i0+2, frac)
}
