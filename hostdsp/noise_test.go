package hostdsp

import (
	"math"
	"testing"
)

func TestWhiteNoiseBounded(t *testing.T) {
	wn := NewWhiteNoise(1)
	for i := 0; i < 5000; i++ {
		v := wn.Sample()
		if v < -0.5 || v >= 0.5 {
			t.Fatalf("sample %d out of range: %v", i, v)
		}
	}
}

func TestNoiseBandCenterFrequencies(t *testing.T) {
	if got := AspirationBand.CenterFrequency(); got != 500 {
		t.Errorf("AspirationBand.CenterFrequency() = %v, want 500", got)
	}
	if got := FricativeBand.CenterFrequency(); got != 1000 {
		t.Errorf("FricativeBand.CenterFrequency() = %v, want 1000", got)
	}
}

func TestNoiseSourceProcessBlockFinite(t *testing.T) {
	ns := NewNoiseSource(44100, AspirationBand, 1)
	out := make([]float64, 2048)
	ns.ProcessBlock(out)
	for i, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("sample %d = %v", i, v)
		}
	}
}
