package telemetry

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func series(prey, pred []int) []WindowStats {
	h := make([]WindowStats, len(prey))
	for i := range prey {
		h[i] = window(int64(i+1)*365, prey[i], pred[i], 0)
	}
	return h
}

// ---------- summary ----------

func TestSummarize(t *testing.T) {
	h := series([]int{10, 20, 30, 0}, []int{2, 2, 2, 2})
	s := Summarize(h)

	if s.Records != 4 || s.TotalYears != 4 {
		t.Errorf("records=%d years=%v", s.Records, s.TotalYears)
	}
	if s.Prey.Mean != 15 || s.Prey.Min != 0 || s.Prey.Max != 30 {
		t.Errorf("prey summary %+v", s.Prey)
	}
	if math.Abs(s.Prey.Std-math.Sqrt(125)) > 1e-9 {
		t.Errorf("prey std = %v, want sqrt(125)", s.Prey.Std)
	}
	if !s.Prey.Extinct || s.Prey.ExtinctYear != 4 {
		t.Errorf("prey extinction = %v at %v", s.Prey.Extinct, s.Prey.ExtinctYear)
	}
	if s.Predators.Extinct || s.Predators.Std != 0 {
		t.Errorf("predator summary %+v", s.Predators)
	}
}

// ---------- report ----------

func TestReport_Sections(t *testing.T) {
	h := series([]int{10, 80, 5, 90}, []int{4, 4, 5, 4})

	tests := []struct {
		focus   string
		want    []string
		notWant []string
	}{
		{"", []string{"Analysis Focus: OVERALL", "RABBITS", "PREDATORS", "PREDATOR-PREY DYNAMICS"}, nil},
		{FocusPrey, []string{"RABBITS", "r-selection pattern"}, []string{"PREDATORS (K"}},
		{FocusPredator, []string{"PREDATORS", "K-selection pattern"}, []string{"RABBITS"}},
		{FocusInteractions, []string{"Prey-to-Predator Ratio: 10.9:1", "HIGH INSTABILITY"}, []string{"RABBITS"}},
	}

	for _, tt := range tests {
		t.Run(tt.focus, func(t *testing.T) {
			out, err := Report(h, tt.focus)
			if err != nil {
				t.Fatalf("Report: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("missing %q in:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("unexpected %q in:\n%s", w, out)
				}
			}
		})
	}
}

func TestReport_StableAndExtinct(t *testing.T) {
	h := series([]int{50, 52, 51, 49}, []int{3, 2, 1, 0})
	out, err := Report(h, FocusOverall)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "STABLE SYSTEM") {
		t.Errorf("expected stable system:\n%s", out)
	}
	if !strings.Contains(out, "EXTINCTION EVENT at year 4.0") {
		t.Errorf("expected predator extinction:\n%s", out)
	}
	if !strings.Contains(out, "Remained viable throughout") {
		t.Errorf("expected viable prey:\n%s", out)
	}
}

func TestReport_Empty(t *testing.T) {
	out, err := Report(nil, FocusOverall)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No population history") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestReport_UnknownFocus(t *testing.T) {
	if _, err := Report(series([]int{1}, []int{1}), "weather"); err == nil {
		t.Error("expected error for unknown focus")
	}
}

// ---------- risk ----------

func TestClassifyRisk(t *testing.T) {
	tests := []struct {
		score float64
		want  RiskLevel
	}{
		{0, RiskMinimal},
		{0.5, RiskMinimal},
		{1, RiskLow},
		{3, RiskModerate},
		{5.5, RiskHigh},
		{7, RiskCritical},
		{10, RiskCritical},
	}
	for _, tt := range tests {
		if got := ClassifyRisk(tt.score); got != tt.want {
			t.Errorf("ClassifyRisk(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestAssessRisk_InsufficientHistory(t *testing.T) {
	_, err := AssessRisk(series([]int{10, 10}, []int{1, 1}), 0)
	if !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("expected ErrInsufficientHistory, got %v", err)
	}
}

func TestAssessRisk_StablePopulations(t *testing.T) {
	h := series([]int{100, 100, 100, 100}, []int{20, 20, 20, 20})
	r, err := AssessRisk(h, 0)
	if err != nil {
		t.Fatal(err)
	}
	if r.Records != 4 {
		t.Errorf("records = %d", r.Records)
	}
	if r.Prey.Score != 0 || r.Prey.Level != RiskMinimal {
		t.Errorf("prey risk %+v", r.Prey)
	}
	if r.Predators.Score != 0 || r.Predators.Level != RiskMinimal {
		t.Errorf("predator risk %+v", r.Predators)
	}
}

func TestAssessRisk_CollapsingPredators(t *testing.T) {
	// Prey swings wildly; predators crash to zero
	h := series([]int{10, 200, 5, 300, 2}, []int{20, 15, 8, 3, 0})
	r, err := AssessRisk(h, 0)
	if err != nil {
		t.Fatal(err)
	}

	// zero (3) + CV > 80 (3) + decline (2) + volatile food (1.5)
	if r.Predators.Score != 9.5 || r.Predators.Level != RiskCritical {
		t.Errorf("predator risk %+v", r.Predators)
	}
	if r.Predators.Min != 0 {
		t.Errorf("predator min = %v", r.Predators.Min)
	}
	if len(r.Predators.Factors) != 4 {
		t.Errorf("factors = %v", r.Predators.Factors)
	}
}

func TestAssessRisk_UsesLastWindow(t *testing.T) {
	// Early collapse falls outside a 3-record window
	h := series([]int{0, 0, 100, 100, 100}, []int{0, 0, 10, 10, 10})
	r, err := AssessRisk(h, 3)
	if err != nil {
		t.Fatal(err)
	}
	if r.Records != 3 || r.Prey.Min != 100 {
		t.Errorf("window not applied: %+v", r)
	}
}
