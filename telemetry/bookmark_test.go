package telemetry

import (
	"testing"
)

func window(day int64, rabbits, predators int, nourishment float64) WindowStats {
	return WindowStats{
		WindowEndDay:    day,
		Year:            float64(day) / DaysPerYear,
		Rabbits:         rabbits,
		Predators:       predators,
		NourishmentMean: nourishment,
	}
}

func hasBookmark(bms []Bookmark, typ BookmarkType) bool {
	for _, b := range bms {
		if b.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_PreyCrash(t *testing.T) {
	bd := NewBookmarkDetector(10)

	bd.Check(window(365, 100, 2, 60))
	bms := bd.Check(window(730, 50, 2, 60))
	if !hasBookmark(bms, BookmarkPreyCrash) {
		t.Fatalf("expected prey crash, got %+v", bms)
	}

	// Peak resets after a crash, so a further small drop does not fire
	bms = bd.Check(window(1095, 45, 2, 60))
	if hasBookmark(bms, BookmarkPreyCrash) {
		t.Error("crash fired again without a new peak")
	}
}

func TestBookmarkDetector_SmallPopulationsDoNotCrash(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(window(365, 12, 1, 60))
	// 50% drop but fewer than 10 rabbits lost
	if bms := bd.Check(window(730, 6, 1, 60)); hasBookmark(bms, BookmarkPreyCrash) {
		t.Error("crash fired on a small absolute drop")
	}
}

func TestBookmarkDetector_PredatorCollapse(t *testing.T) {
	bd := NewBookmarkDetector(10)
	if bms := bd.Check(window(365, 50, 0, 0)); hasBookmark(bms, BookmarkPredatorCollapse) {
		t.Error("collapse fired without a previous window")
	}

	bd.Check(window(730, 50, 3, 40))
	bms := bd.Check(window(1095, 55, 0, 0))
	if !hasBookmark(bms, BookmarkPredatorCollapse) {
		t.Fatalf("expected predator collapse, got %+v", bms)
	}
}

func TestBookmarkDetector_CommonsCollapse(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(window(365, 80, 2, 80))

	bms := bd.Check(window(730, 75, 6, 30))
	if !hasBookmark(bms, BookmarkCommonsCollapse) {
		t.Fatalf("expected commons collapse, got %+v", bms)
	}

	// Nourishment fall without more predators is not a commons collapse
	bd = NewBookmarkDetector(10)
	bd.Check(window(365, 80, 6, 80))
	if bms := bd.Check(window(730, 75, 6, 30)); hasBookmark(bms, BookmarkCommonsCollapse) {
		t.Error("commons collapse fired with a constant predator count")
	}
}

func TestBookmarkDetector_StableEcosystemFiresOnce(t *testing.T) {
	bd := NewBookmarkDetector(10)

	fired := 0
	for i := int64(1); i <= 12; i++ {
		bms := bd.Check(window(i*365, 100+int(i%2), 4, 60))
		if hasBookmark(bms, BookmarkStableEcosystem) {
			fired++
			if i != stableWindowsToTrigger {
				t.Errorf("stable fired at window %d, want %d", i, stableWindowsToTrigger)
			}
		}
	}
	if fired != 1 {
		t.Errorf("stable ecosystem fired %d times, want 1", fired)
	}
}

func TestBookmarkDetector_StableNeedsBothSpecies(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i := int64(1); i <= 8; i++ {
		if bms := bd.Check(window(i*365, 100, 0, 0)); hasBookmark(bms, BookmarkStableEcosystem) {
			t.Fatal("stable fired without predators")
		}
	}
}

func TestBookmarkDetector_RecentIsChronological(t *testing.T) {
	bd := NewBookmarkDetector(5)
	for i := int64(1); i <= 7; i++ {
		bd.Check(window(i, 1, 1, 1))
	}

	r := bd.recent(3)
	if len(r) != 3 {
		t.Fatalf("recent(3) returned %d", len(r))
	}
	for i, want := range []int64{5, 6, 7} {
		if r[i].WindowEndDay != want {
			t.Errorf("recent[%d] = day %d, want %d", i, r[i].WindowEndDay, want)
		}
	}
	if len(bd.recent(50)) != 5 {
		t.Error("recent should cap at history size")
	}
}
