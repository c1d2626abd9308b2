// Command report prints the ecological report and extinction-risk assessment
// for a recorded population history (telemetry.csv or a SQLite history db).
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/pthm-cable/commons/telemetry"
)

func main() {
	historyPath := flag.String("history", "", "telemetry.csv or SQLite history file")
	focus := flag.String("focus", telemetry.FocusOverall, "Report focus: overall, prey, predator, interactions")
	window := flag.Int("risk-window", telemetry.DefaultRiskWindow, "Recent records used for the risk assessment")
	flag.Parse()

	if *historyPath == "" {
		log.Fatal("--history is required")
	}

	history, err := telemetry.LoadHistory(*historyPath)
	if err != nil {
		log.Fatalf("failed to load history: %v", err)
	}

	report, err := telemetry.Report(history, *focus)
	if err != nil {
		log.Fatalf("failed to build report: %v", err)
	}
	fmt.Print(report)

	risk, err := telemetry.AssessRisk(history, *window)
	if errors.Is(err, telemetry.ErrInsufficientHistory) {
		fmt.Println("\nInsufficient data for extinction risk analysis. Need at least 3 records.")
		return
	}
	if err != nil {
		log.Fatalf("failed to assess risk: %v", err)
	}

	rule := strings.Repeat("=", 60)
	fmt.Printf("\n%s\nEXTINCTION RISK ASSESSMENT (last %d records)\n%s\n", rule, risk.Records, rule)
	printRisk("RABBITS", risk.Prey)
	printRisk("PREDATORS", risk.Predators)
	fmt.Println(rule)
}

func printRisk(name string, r telemetry.SpeciesRisk) {
	fmt.Printf("\n%s\n%s\n", name, strings.Repeat("-", 60))
	fmt.Printf("Extinction Risk Score: %.1f/10.0\n", r.Score)
	fmt.Printf("Risk Level: %s\n", strings.ToUpper(string(r.Level)))
	fmt.Printf("Minimum Population: %.0f\n", r.Min)
	fmt.Printf("Coefficient of Variation: %.1f%%\n", r.CV)
	for _, f := range r.Factors {
		fmt.Printf("  - %s\n", f)
	}
}
