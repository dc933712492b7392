// Copyright (c) 2019, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Tract implements the Kelly-Lochbaum one-dimensional digital waveguide: a
// general N-segment vocal tract, with a double-buffered scattering-junction
// update driven from explicit R/L travelling-wave arrays and a
// 2x-oversampled runStep.

package trm

import "math"

const (
	MinN = 30
	MaxN = 60
	// DefaultN is a 44-segment oropharynx length, a reasonable middle ground
	// between articulatory resolution and per-sample cost.
	DefaultN = 44

	glottalReflection = 0.75
	lipReflection      = -0.85
	fadeFactor         = 0.999
	defaultMovementSpeed = 15.0

	maxTransients = 16
)

// Transient models a plosive release click.
type Transient struct {
	active    bool
	position  int
	timeAlive float64
	lifeTime  float64
	strength  float64
	exponent  float64
}

// Tract is the per-voice vocal-tract waveguide state.
type Tract struct {
	SampleRate float64

	N int
	M int
	noseStart int
	bladeStart, tipStart, lipStart int

	diameter       []float64
	targetDiameter []float64
	restDiameter   []float64
	A              []float64

	R []float64
	L []float64
	junctionOutputR []float64
	junctionOutputL []float64

	reflection    []float64
	newReflection []float64

	reflectionLeft, reflectionRight, reflectionNose          float64
	newReflectionLeft, newReflectionRight, newReflectionNose float64

	noseR          []float64
	noseL          []float64
	noseDiameter   []float64
	noseA          []float64
	noseReflection []float64
	noseJunctionOutputR []float64
	noseJunctionOutputL []float64

	// live control, read per-sample within a block
	VelumTarget          float64
	ConstrictionIndex    float64
	ConstrictionDiameter float64
	TongueIndex          float64
	TongueDiameter       float64
	LipDiameter          float64
	FricativeStrength    float64
	TransientStrength    float64
	MovementSpeed        float64

	lastObstruction int

	transients [maxTransients]Transient

	lipOutput  float64
	noseOutput float64
}

// Init (re)allocates all arrays for a tract of length n (clamped to
// [MinN, MaxN]) and resets it to its rest configuration.
func (t *Tract) Init(sampleRate float64, n int) {
	n = clampN(n)
	m := 28 * n / 44
	*t = Tract{
		SampleRate:        sampleRate,
		N:                 n,
		M:                 m,
		noseStart:         n - m + 1,
		bladeStart:        10 * n / 44,
		tipStart:          32 * n / 44,
		lipStart:          39 * n / 44,
		VelumTarget:       0.01,
		ConstrictionDiameter: 3,
		TongueDiameter:    2.43,
		LipDiameter:       1.5,
		FricativeStrength: 1,
		TransientStrength: 1,
		MovementSpeed:     defaultMovementSpeed,
		lastObstruction:   -1,
	}
	t.TongueIndex = float64(t.bladeStart+2) + 0.5*float64((t.tipStart-3)-(t.bladeStart+2))

	t.diameter = make([]float64, n)
	t.targetDiameter = make([]float64, n)
	t.A = make([]float64, n)
	t.R = make([]float64, n)
	t.L = make([]float64, n)
	t.junctionOutputR = make([]float64, n+1)
	t.junctionOutputL = make([]float64, n+1)
	t.reflection = make([]float64, n+1)
	t.newReflection = make([]float64, n+1)

	t.noseR = make([]float64, m)
	t.noseL = make([]float64, m)
	t.noseDiameter = make([]float64, m)
	t.noseA = make([]float64, m)
	t.noseReflection = make([]float64, m+1)
	t.noseJunctionOutputR = make([]float64, m+1)
	t.noseJunctionOutputL = make([]float64, m+1)

	// seed the rest oral profile
	for i := 0; i < n; i++ {
		var d float64
		switch {
		case float64(i) < 7*float64(n)/44-0.5:
			d = 0.6
		case float64(i) < 12*float64(n)/44:
			d = 1.1
		default:
			d = 1.5
		}
		t.diameter[i] = d
		t.targetDiameter[i] = d
	}

	// seed the nasal profile
	for i := 0; i < m; i++ {
		d := 2 * float64(i) / float64(m)
		var nd float64
		if d < 1 {
			nd = 0.4 + 1.6*d
		} else {
			nd = 0.5 + 1.5*(2-d)
		}
		if nd > 1.9 {
			nd = 1.9
		}
		t.noseDiameter[i] = nd
	}
	t.noseDiameter[0] = t.VelumTarget
	t.initRestProfile()

	t.calculateAreas()
	t.calculateReflections()
	// make the newly-computed reflections the active ones too, so a block
	// processed immediately after Init doesn't interpolate from zero.
	copy(t.reflection, t.newReflection)
	t.reflectionLeft, t.reflectionRight, t.reflectionNose = t.newReflectionLeft, t.newReflectionRight, t.newReflectionNose
}

func clampN(n int) int {
	if n < MinN {
		return MinN
	}
	if n > MaxN {
		return MaxN
	}
	return n
}

func (t *Tract) calculateAreas() {
	for i := 0; i < t.N; i++ {
		t.A[i] = t.diameter[i] * t.diameter[i]
	}
	for i := 0; i < t.M; i++ {
		t.noseA[i] = t.noseDiameter[i] * t.noseDiameter[i]
	}
}

func reflectionCoef(aPrev, aNext float64) float64 {
	if aNext == 0 {
		return 0.999
	}
	return (aPrev - aNext) / (aPrev + aNext)
}

// calculateReflections recomputes newReflection[] from the current areas.
func (t *Tract) calculateReflections() {
	t.calculateAreas()

	for i := 1; i < t.N; i++ {
		t.newReflection[i] = reflectionCoef(t.A[i-1], t.A[i])
	}

	r0 := t.A[t.noseStart]
	r1 := t.A[t.noseStart+1]
	r2 := t.noseA[0]
	sum := r0 + r1 + r2
	if sum == 0 {
		t.newReflectionLeft, t.newReflectionRight, t.newReflectionNose = 0.999, 0.999, 0.999
	} else {
		t.newReflectionLeft = reflectionCoef(r0, r1+r2)
		t.newReflectionRight = reflectionCoef(r1, r0+r2)
		t.newReflectionNose = reflectionCoef(r2, r0+r1)
	}

	for i := 1; i < t.M; i++ {
		t.noseReflection[i] = reflectionCoef(t.noseA[i-1], t.noseA[i])
	}
}

// runStep advances the waveguide one (oversampled) half-step. glottalOutput
// is the Glottis voiced+aspiration sample; turbulenceNoise is the
// pre-band-passed fricative noise input sample; lambda is the sub-block
// interpolation fraction (j/B or (j+0.5)/B); noiseMod is the Glottis-exported
// turbulence modulator, applied exactly once per call, here.
func (t *Tract) runStep(glottalOutput, turbulenceNoise, lambda, noiseMod float64) float64 {
	t.processTransients()
	t.addTurbulenceNoise(turbulenceNoise, noiseMod)

	t.junctionOutputR[0] = t.L[0]*glottalReflection + glottalOutput
	t.junctionOutputL[t.N] = t.R[t.N-1] * lipReflection

	for i := 1; i < t.N; i++ {
		if i == t.noseStart {
			rL := t.reflectionLeft*(1-lambda) + t.newReflectionLeft*lambda
			rR := t.reflectionRight*(1-lambda) + t.newReflectionRight*lambda
			rN := t.reflectionNose*(1-lambda) + t.newReflectionNose*lambda

			t.junctionOutputL[i] = rL*t.R[i-1] + (1+rL)*(t.noseL[0]+t.L[i])
			t.junctionOutputR[i] = rR*t.L[i] + (1+rR)*(t.R[i-1]+t.noseL[0])
			t.noseJunctionOutputR[0] = rN*t.noseL[0] + (1+rN)*(t.L[i]+t.R[i-1])
			continue
		}
		r := t.reflection[i]*(1-lambda) + t.newReflection[i]*lambda
		w := r * (t.R[i-1] + t.L[i])
		t.junctionOutputR[i] = t.R[i-1] - w
		t.junctionOutputL[i] = t.L[i] + w
	}

	for i := 0; i < t.N; i++ {
		t.R[i] = t.junctionOutputR[i] * fadeFactor
		t.L[i] = t.junctionOutputL[i+1] * fadeFactor
	}
	t.lipOutput = t.R[t.N-1]

	t.noseJunctionOutputL[t.M] = t.noseR[t.M-1] * lipReflection
	for i := 1; i < t.M; i++ {
		r := t.noseReflection[i]
		w := r * (t.noseR[i-1] + t.noseL[i])
		t.noseJunctionOutputR[i] = t.noseR[i-1] - w
		t.noseJunctionOutputL[i] = t.noseL[i] + w
	}
	for i := 0; i < t.M; i++ {
		t.noseR[i] = t.noseJunctionOutputR[i] * fadeFactor
		t.noseL[i] = t.noseJunctionOutputL[i+1] * fadeFactor
	}
	t.noseOutput = t.noseR[t.M-1]

	return t.lipOutput + t.noseOutput
}

// processTransients decays each live transient and injects it into both
// travelling-wave arrays at its segment. The timeAlive increment of
// 1/(2*sampleRate) here, combined with runStep running twice per output
// sample, nets a per-sample aging of 1/sampleRate -- do not change one
// without the other.
func (t *Tract) processTransients() {
	for i := range t.transients {
		tr := &t.transients[i]
		if !tr.active {
			continue
		}
		amplitude := tr.strength * math.Pow(2, -tr.exponent*tr.timeAlive) / 2
		t.R[tr.position] += amplitude
		t.L[tr.position] += amplitude
		tr.timeAlive += 1 / (2 * t.SampleRate)
		if tr.timeAlive > tr.lifeTime {
			tr.active = false
		}
	}
}

func (t *Tract) addTransient(position int) {
	for i := range t.transients {
		if !t.transients[i].active {
			t.transients[i] = Transient{
				active:    true,
				position:  position,
				timeAlive: 0,
				lifeTime:  0.2,
				strength:  0.3 * t.TransientStrength,
				exponent:  200,
			}
			return
		}
	}
	// Fixed-capacity pool exhausted (should not happen given the 0.2s
	// lifetime bound on O(tens) of transients); drop silently.
}

// ProcessBlock runs the tract for len(glottalIn) output samples, each
// computed from two oversampled runStep calls, summed and scaled by 0.125
// for headroom.
func (t *Tract) ProcessBlock(glottalIn, fricativeNoiseIn, noiseModIn, out []float64, blockTime float64) {
	n := len(glottalIn)
	for j := 0; j < n; j++ {
		lambda1 := float64(j) / float64(n)
		lambda2 := (float64(j) + 0.5) / float64(n)

		o1 := t.runStep(glottalIn[j], fricativeNoiseIn[j], lambda1, noiseModIn[j])
		o2 := t.runStep(glottalIn[j], fricativeNoiseIn[j], lambda2, noiseModIn[j])

		sample := (o1 + o2) * 0.125
		if math.IsNaN(sample) || math.IsInf(sample, 0) {
			sample = 0
		}
		out[j] = sample
	}

	t.reshapeTract(blockTime)
	// The newReflection values computed by the previous block's
	// calculateReflections were this block's interpolation target; they
	// now become the baseline for the next block's interpolation, and a
	// fresh target is computed from the just-reshaped diameters.
	copy(t.reflection, t.newReflection)
	t.reflectionLeft, t.reflectionRight, t.reflectionNose = t.newReflectionLeft, t.newReflectionRight, t.newReflectionNose
	t.calculateReflections()
}
