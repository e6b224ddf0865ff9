package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/ionsim/internal/engine"
)

func testResult() *engine.Result {
	return &engine.Result{
		TimeMS:             []float64{0, 1, 2},
		VoltageMV:          []float64{-80, 40, 40},
		Probabilities:      [][]float64{{1, 0}, {0.7, 0.3}, {0.4, 0.6}},
		TotalConductanceNS: []float64{0, 0.36, 0.72},
		TotalCurrentPA:     []float64{0, -10, 30},
		InternalKMM:        []float64{140, 140, 140},
		ExternalKMM:        []float64{5, 5, 5},
		NernstPotentialMV:  []float64{-84.2, -84.2, -84.2},
		StateIndex:         map[string]int{"C": 0, "O": 1},
	}
}

func TestPeakCurrent(t *testing.T) {
	m := &PeakCurrent{}
	got := Collect(testResult(), []Metric{m})
	if got["peak_current_pA"] != 30 {
		t.Errorf("peak = %g, want 30", got["peak_current_pA"])
	}
}

func TestTransferredCharge(t *testing.T) {
	m := &TransferredCharge{}
	got := Collect(testResult(), []Metric{m})
	// trapezoid over (0,-10,30) at unit spacing: -5 + 10 = 5 pC
	if math.Abs(got["transferred_charge_pC"]-5) > 1e-12 {
		t.Errorf("charge = %g, want 5", got["transferred_charge_pC"])
	}
}

func TestMeanProbability(t *testing.T) {
	m := NewMeanProbability("O", 1)
	got := Collect(testResult(), []Metric{m})
	want := (0.0 + 0.3 + 0.6) / 3
	if math.Abs(got["mean_p_O"]-want) > 1e-12 {
		t.Errorf("mean open probability = %g, want %g", got["mean_p_O"], want)
	}
}

func TestProbabilityDrift(t *testing.T) {
	res := testResult()
	res.Probabilities[2] = []float64{0.4, 0.59}
	m := &ProbabilityDrift{}
	got := Collect(res, []Metric{m})
	if math.Abs(got["max_probability_drift"]-0.01) > 1e-12 {
		t.Errorf("drift = %g, want 0.01", got["max_probability_drift"])
	}
}

func TestCollect_ResetsBetweenRuns(t *testing.T) {
	m := &PeakCurrent{}
	ms := []Metric{m}
	Collect(testResult(), ms)
	got := Collect(testResult(), ms)
	if got["peak_current_pA"] != 30 {
		t.Errorf("second collection should match first, got %g", got["peak_current_pA"])
	}
}

func TestStandard(t *testing.T) {
	ms := Standard(map[string]int{"C": 0, "O": 1})
	got := Collect(testResult(), ms)
	for _, name := range []string{"peak_current_pA", "transferred_charge_pC", "max_probability_drift", "mean_p_C", "mean_p_O"} {
		if _, ok := got[name]; !ok {
			t.Errorf("missing metric %s in %v", name, got)
		}
	}
}
