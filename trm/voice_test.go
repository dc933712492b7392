package trm

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/dsp/fourier"
)

func renderVoice(t *testing.T, v *Voice, blocks, blockSize int, aspGen, fricGen func(j int) float64) []float64 {
	t.Helper()
	out := make([]float64, 0, blocks*blockSize)
	asp := make([]float64, blockSize)
	fric := make([]float64, blockSize)
	buf := make([]float64, blockSize)
	for b := 0; b < blocks; b++ {
		for j := range asp {
			asp[j] = aspGen(b*blockSize + j)
			fric[j] = fricGen(b*blockSize + j)
		}
		v.ProcessBlock(asp, fric, buf)
		out = append(out, buf...)
	}
	return out
}

func TestVoiceProcessBlockFiniteAndBounded(t *testing.T) {
	v := NewVoice(44100, 1)
	p := DefaultParams()
	p.Frequency = 120
	p.Tenseness = 0.6
	v.SetParams(p)

	samples := renderVoice(t, v, 50, 256, func(int) float64 { return 0 }, func(int) float64 { return 0 })
	for i, s := range samples {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			t.Fatalf("sample %d = %v", i, s)
		}
		if math.Abs(s) > 1.0 {
			t.Fatalf("sample %d = %v exceeds bound 1.0", i, s)
		}
	}
	if v.Diagnostics.NaNSamples != 0 {
		t.Errorf("NaNSamples = %d, want 0", v.Diagnostics.NaNSamples)
	}
}

// A sustained vowel's dominant spectral peak should track the configured
// glottal frequency within a semitone or so.
func TestVoiceOutputSpectralPeakTracksFrequency(t *testing.T) {
	sampleRate := 44100.0
	v := NewVoice(sampleRate, 1)
	p := DefaultParams()
	p.Frequency = 150
	p.Tenseness = 0.6
	v.SetParams(p)

	blockSize := 1024
	samples := renderVoice(t, v, 64, blockSize, func(int) float64 { return 0 }, func(int) float64 { return 0 })

	// analyze the final, settled second of audio only.
	tail := samples[len(samples)-int(sampleRate):]
	n := len(tail)
	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, tail)

	bestBin := 0
	bestMag := 0.0
	for k := 1; k < len(coeffs)/2; k++ {
		freq := float64(k) * sampleRate / float64(n)
		if freq < 50 || freq > 600 {
			continue
		}
		mag := math.Hypot(real(coeffs[k]), imag(coeffs[k]))
		if mag > bestMag {
			bestMag = mag
			bestBin = k
		}
	}
	peakFreq := float64(bestBin) * sampleRate / float64(n)
	if math.Abs(peakFreq-p.Frequency) > 15 {
		t.Errorf("dominant spectral peak = %.1fHz, want near %.1fHz", peakFreq, p.Frequency)
	}
}

func TestVoiceTelemetryPublishedAfterBlock(t *testing.T) {
	v := NewVoice(44100, 1)
	if v.Telemetry() != nil {
		t.Fatal("Telemetry() before any ProcessBlock should be nil")
	}
	asp := make([]float64, 128)
	fric := make([]float64, 128)
	out := make([]float64, 128)
	v.ProcessBlock(asp, fric, out)

	frame := v.Telemetry()
	if frame == nil {
		t.Fatal("Telemetry() after ProcessBlock = nil")
	}
	if len(frame.Diameter) != v.Tract.N {
		t.Errorf("telemetry diameter length = %d, want %d", len(frame.Diameter), v.Tract.N)
	}
}

func TestVoiceSetNDefersTractLengthChangeToNextBlock(t *testing.T) {
	v := NewVoice(44100, 1)
	originalN := v.Tract.N

	v.SetN(50)
	if v.Tract.N != originalN {
		t.Fatalf("Tract.N changed before a ProcessBlock call: got %d, want unchanged %d", v.Tract.N, originalN)
	}

	asp := make([]float64, 64)
	fric := make([]float64, 64)
	out := make([]float64, 64)
	v.ProcessBlock(asp, fric, out)

	if v.Tract.N != 50 {
		t.Errorf("Tract.N after ProcessBlock = %d, want 50", v.Tract.N)
	}
}

func TestVoiceZeroFillsShortInputBuffers(t *testing.T) {
	v := NewVoice(44100, 1)
	out := make([]float64, 64)
	// aspiration/fricative shorter than out: treated as zero-padded.
	v.ProcessBlock([]float64{0.1, 0.2}, nil, out)
	for i, s := range out {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			t.Fatalf("sample %d = %v with short input buffers", i, s)
		}
	}
}

// With intensity, fricative-strength and transient-strength all zero,
// output should settle below 1e-6 after one block.
func TestVoiceSilentUnderZeroIntensity(t *testing.T) {
	v := NewVoice(44100, 1)
	p := DefaultParams()
	p.Intensity = 0
	p.FricativeStrength = 0
	p.TransientStrength = 0
	v.SetParams(p)

	blockSize := 256
	asp := make([]float64, blockSize)
	fric := make([]float64, blockSize)
	out := make([]float64, blockSize)

	// first block: let any startup transient settle.
	v.ProcessBlock(asp, fric, out)
	v.ProcessBlock(asp, fric, out)

	for i, s := range out {
		if math.Abs(s) >= 1e-6 {
			t.Errorf("sample %d = %v, want < 1e-6 under zero intensity", i, s)
		}
	}
}

// Output should stay finite through many blocks of randomized (but
// in-range) control-parameter motion.
func TestVoiceNoNaNUnderRandomParameterMotion(t *testing.T) {
	v := NewVoice(44100, 1)
	blockSize := 256
	asp := make([]float64, blockSize)
	fric := make([]float64, blockSize)
	out := make([]float64, blockSize)

	var lcg uint64 = 12345
	nextUnit := func() float64 {
		lcg = lcg*6364136223846793005 + 1442695040888963407
		return float64(lcg>>40) / float64(1<<24)
	}

	blocks := int(10 * 44100 / blockSize)
	for b := 0; b < blocks; b++ {
		p := DefaultParams()
		p.Frequency = Ranges.Frequency.Min + nextUnit()*(Ranges.Frequency.Max-Ranges.Frequency.Min)
		p.Tenseness = nextUnit()
		p.ConstrictionIndex = nextUnit() * float64(v.Tract.N)
		p.ConstrictionDiameter = nextUnit() * 5
		p.TongueIndexFrac = nextUnit()
		p.TongueDiameter = Ranges.TongueDiameter.Min + nextUnit()*(Ranges.TongueDiameter.Max-Ranges.TongueDiameter.Min)
		v.SetParams(p)

		for j := range asp {
			asp[j] = nextUnit() - 0.5
			fric[j] = nextUnit() - 0.5
		}
		v.ProcessBlock(asp, fric, out)
		for i, s := range out {
			if math.IsNaN(s) || math.IsInf(s, 0) {
				t.Fatalf("block %d sample %d = %v", b, i, s)
			}
		}
	}
	if v.Diagnostics.NaNSamples != 0 {
		t.Errorf("NaNSamples = %d, want 0", v.Diagnostics.NaNSamples)
	}
}

// Two voices seeded distinctly should desynchronize their wobble.
func TestTwoVoicesWithDistinctSeedsDesynchronize(t *testing.T) {
	v1 := NewVoice(44100, 1)
	v2 := NewVoice(44100, 2)
	p := DefaultParams()
	p.Frequency = 140
	p.Tenseness = 0.6
	v1.SetParams(p)
	v2.SetParams(p)

	s1 := renderVoice(t, v1, 30, 256, func(int) float64 { return 0 }, func(int) float64 { return 0 })
	s2 := renderVoice(t, v2, 30, 256, func(int) float64 { return 0 }, func(int) float64 { return 0 })

	identical := true
	for i := range s1 {
		if math.Abs(s1[i]-s2[i]) > 1e-12 {
			identical = false
			break
		}
	}
	if identical {
		t.Error("two distinctly-seeded voices produced bit-identical output")
	}
}
