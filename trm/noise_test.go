package trm

import (
	"math"
	"testing"
)

func TestNoiseSourceBounded(t *testing.T) {
	var ns NoiseSource
	ns.Reset(1)
	for i := 0; i < 10000; i++ {
		v := ns.Sample()
		if v < -0.5 || v >= 0.5 {
			t.Fatalf("sample %d out of range: %v", i, v)
		}
	}
}

// The same voice seed should reproduce the same sequence.
func TestNoiseSourceDeterministicPerSeed(t *testing.T) {
	var a, b NoiseSource
	a.Reset(42)
	b.Reset(42)
	for i := 0; i < 1000; i++ {
		va, vb := a.Sample(), b.Sample()
		if va != vb {
			t.Fatalf("sample %d diverged: %v != %v", i, va, vb)
		}
	}
}

func TestNoiseSourceDesyncsAcrossSeeds(t *testing.T) {
	var a, b NoiseSource
	a.Reset(1)
	b.Reset(2)
	same := 0
	const n = 100
	for i := 0; i < n; i++ {
		if a.Sample() == b.Sample() {
			same++
		}
	}
	if same == n {
		t.Fatal("two distinct seeds produced identical sequences")
	}
}

func TestSimplexTableBoundedAndDeterministic(t *testing.T) {
	tbl := newSimplexTable(7)
	var maxAbs float64
	for i := 0; i < 2000; i++ {
		x := float64(i) * 0.037
		v := tbl.at(x)
		if math.Abs(v) > maxAbs {
			maxAbs = math.Abs(v)
		}
		if v2 := tbl.at(x); v2 != v {
			t.Fatalf("at(%v) not deterministic: %v != %v", x, v, v2)
		}
	}
	if maxAbs > 1.5 {
		t.Errorf("simplex table values exceed expected bound: max |v| = %v", maxAbs)
	}
}

func TestSimplexTableApproximatelyZeroMean(t *testing.T) {
	tbl := newSimplexTable(3)
	var sum float64
	const n = 5000
	for i := 0; i < n; i++ {
		sum += tbl.at(float64(i) * 0.091)
	}
	mean := sum / n
	if math.Abs(mean) > 0.2 {
		t.Errorf("mean = %v, want approximately 0", mean)
	}
}
