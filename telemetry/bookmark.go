package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkPreyCrash        BookmarkType = "prey_crash"
	BookmarkPredatorCollapse BookmarkType = "predator_collapse"
	BookmarkCommonsCollapse  BookmarkType = "commons_collapse"
	BookmarkStableEcosystem  BookmarkType = "stable_ecosystem"
)

const (
	stableWindowsToTrigger    = 5
	stableCVLimit             = 0.2
	commonsNourishmentFallPct = 0.25
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Day         int64        `csv:"day"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"day", b.Day,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the population history.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentPreyPeak int // peak rabbit count since the last crash
	stableFired    bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < stableWindowsToTrigger {
		historySize = stableWindowsToTrigger // minimum for stable ecosystem detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if prev, ok := bd.last(); ok {
		if b := bd.checkPreyCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := checkPredatorCollapse(prev, stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := checkCommonsCollapse(prev, stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	if b := bd.checkStableEcosystem(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if stats.Rabbits > bd.recentPreyPeak {
		bd.recentPreyPeak = stats.Rabbits
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n of the latest windows, oldest first.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	size := bd.historyIdx
	if bd.historyFull {
		size = bd.historySize
	}
	if n > size {
		n = size
	}
	out := make([]WindowStats, n)
	for i := 0; i < n; i++ {
		idx := (bd.historyIdx - n + i + bd.historySize) % bd.historySize
		out[i] = bd.history[idx]
	}
	return out
}

func (bd *BookmarkDetector) last() (WindowStats, bool) {
	r := bd.recent(1)
	if len(r) == 0 {
		return WindowStats{}, false
	}
	return r[0], true
}

func (bd *BookmarkDetector) checkPreyCrash(stats WindowStats) *Bookmark {
	if bd.recentPreyPeak == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.Rabbits)/float64(bd.recentPreyPeak)
	if dropPercent > 0.30 && stats.Rabbits <= bd.recentPreyPeak-10 {
		// Reset peak after crash
		oldPeak := bd.recentPreyPeak
		bd.recentPreyPeak = stats.Rabbits

		return &Bookmark{
			Type:        BookmarkPreyCrash,
			Day:         stats.WindowEndDay,
			Description: fmt.Sprintf("Rabbits crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.Rabbits),
		}
	}

	return nil
}

func checkPredatorCollapse(prev, stats WindowStats) *Bookmark {
	if prev.Predators == 0 || stats.Predators != 0 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkPredatorCollapse,
		Day:         stats.WindowEndDay,
		Description: fmt.Sprintf("Predators died out (%d starved, %d wandered off, %d old age)", stats.PredatorStarved, stats.PredatorWandered, stats.PredatorOldAge),
	}
}

// checkCommonsCollapse fires when more predators are splitting a shrinking commons:
// predators rose while rabbits and mean nourishment both fell.
func checkCommonsCollapse(prev, stats WindowStats) *Bookmark {
	if stats.Predators <= prev.Predators || stats.Rabbits >= prev.Rabbits {
		return nil
	}
	if prev.NourishmentMean <= 0 {
		return nil
	}
	fall := 1.0 - stats.NourishmentMean/prev.NourishmentMean
	if fall <= commonsNourishmentFallPct {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkCommonsCollapse,
		Day:         stats.WindowEndDay,
		Description: fmt.Sprintf("Predators %d->%d while nourishment fell %.0f%% and rabbits %d->%d", prev.Predators, stats.Predators, fall*100, prev.Rabbits, stats.Rabbits),
	}
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	if bd.stableFired {
		return nil
	}

	window := bd.recent(stableWindowsToTrigger)
	if len(window) < stableWindowsToTrigger {
		return nil
	}

	prey := make([]float64, len(window))
	pred := make([]float64, len(window))
	for i, h := range window {
		// Need both populations present in every window
		if h.Rabbits == 0 || h.Predators == 0 {
			return nil
		}
		prey[i] = float64(h.Rabbits)
		pred[i] = float64(h.Predators)
	}

	if coefficientOfVariation(prey) >= stableCVLimit || coefficientOfVariation(pred) >= stableCVLimit {
		return nil
	}

	bd.stableFired = true
	return &Bookmark{
		Type:        BookmarkStableEcosystem,
		Day:         stats.WindowEndDay,
		Description: fmt.Sprintf("Stable ecosystem with %d rabbits, %d predators over %d windows", stats.Rabbits, stats.Predators, stableWindowsToTrigger),
	}
}
