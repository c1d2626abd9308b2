package game

import (
	"log/slog"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
// A window closes on the first tick that reaches its length, so a tick spanning
// several windows produces one record.
func (g *Game) flushTelemetry() {
	day := g.clock.Day()
	if !g.collector.ShouldFlush(day) {
		return
	}

	g.nourishBuf = g.registry.Nourishments(g.nourishBuf[:0])
	stats := g.collector.Flush(day, g.registry.Rabbits(), g.registry.Predators(), g.nourishBuf)
	perfStats := g.perfCollector.Stats()

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, day); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
	if err := g.historyDB.AppendWindow(stats); err != nil {
		slog.Error("failed to store window", "error", err)
	}

	// Check for bookmarks
	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if err := g.historyDB.AppendBookmark(bm); err != nil {
			slog.Error("failed to store bookmark", "error", err)
		}
	}
}
