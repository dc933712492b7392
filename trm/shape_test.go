package trm

import (
	"math"
	"testing"
)

func TestMapClampedClampsOutOfRangeInput(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want float64
	}{
		{"below in range", -10, 0.6},
		{"at in-min", 0, 0.6},
		{"mid range", 5, 0.8},
		{"at in-max", 10, 1.0},
		{"above in range", 100, 1.0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := mapClamped(tc.v, 0, 10, 0.6, 1.0)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("mapClamped(%v,0,10,0.6,1.0) = %v, want %v", tc.v, got, tc.want)
			}
		})
	}
}

func TestApplyConstrictionNarrowsTowardCenter(t *testing.T) {
	tr := newTestTract(44100, DefaultN)
	for i := range tr.targetDiameter {
		tr.targetDiameter[i] = 3.0
	}
	center := 20.0
	tr.applyConstriction(center, 0.5, 5)

	if tr.targetDiameter[int(center)] >= 3.0 {
		t.Errorf("targetDiameter at center = %v, want narrower than rest diameter 3.0", tr.targetDiameter[int(center)])
	}
	if tr.targetDiameter[0] != 3.0 {
		t.Errorf("targetDiameter far from constriction was modified: %v", tr.targetDiameter[0])
	}
}

func TestSetTargetDiametersAppliesLipConstriction(t *testing.T) {
	tr := newTestTract(44100, DefaultN)
	tr.LipDiameter = 0.2
	tr.setTargetDiameters()

	lipIndex := tr.N - 2
	if tr.targetDiameter[lipIndex] >= tr.restDiameter[lipIndex] {
		t.Errorf("lip segment target diameter %v not narrowed from rest %v", tr.targetDiameter[lipIndex], tr.restDiameter[lipIndex])
	}
}

func TestReshapeTractTriggersTransientOnClosureRelease(t *testing.T) {
	tr := newTestTract(44100, DefaultN)
	tr.MovementSpeed = -1 // instant movement

	// force a closed segment first (constrictionDiameter must stay above
	// -1.6, or the constriction itself is skipped).
	tr.ConstrictionIndex = 40
	tr.ConstrictionDiameter = -1.0
	tr.FricativeStrength = 1
	tr.noseA[0] = 0 // velum fully closed so the transient gate passes
	tr.reshapeTract(0.01)
	if tr.lastObstruction < 0 {
		t.Fatal("expected an obstruction after closing constriction")
	}

	anyActiveBefore := false
	for _, tr := range tr.transients {
		if tr.active {
			anyActiveBefore = true
		}
	}
	if anyActiveBefore {
		t.Fatal("no transient should fire on the closing step itself")
	}

	// now release the closure.
	tr.ConstrictionDiameter = 3
	tr.reshapeTract(0.01)

	anyActive := false
	for _, tr := range tr.transients {
		if tr.active {
			anyActive = true
		}
	}
	if !anyActive {
		t.Error("expected a transient to fire on closure->open release")
	}
}

func TestAddTurbulenceNoiseRequiresOpenNarrowConstriction(t *testing.T) {
	tr := newTestTract(44100, DefaultN)
	tr.R = make([]float64, tr.N)
	tr.L = make([]float64, tr.N)

	// constriction fully closed: openness envelope should be ~0, no injection.
	tr.ConstrictionIndex = 30
	tr.ConstrictionDiameter = 0.1
	tr.FricativeStrength = 1
	tr.addTurbulenceNoise(1.0, 1.0)
	for i, v := range tr.R {
		if v != 0 {
			t.Fatalf("R[%d] = %v, want 0 for a closed constriction", i, v)
		}
	}

	// invalid index: no injection regardless of diameter.
	tr.ConstrictionIndex = 0
	tr.addTurbulenceNoise(1.0, 1.0)
	for i, v := range tr.R {
		if v != 0 {
			t.Fatalf("R[%d] = %v, want 0 for constrictionIndex < 2", i, v)
		}
	}
}
