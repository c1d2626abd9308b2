// Command forecast runs the Lotka-Volterra model and writes the series as CSV.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/commons/forecast"
)

func main() {
	p := forecast.DefaultParams()
	flag.Float64Var(&p.InitialPrey, "prey", p.InitialPrey, "Initial prey population")
	flag.Float64Var(&p.InitialPredators, "predators", p.InitialPredators, "Initial predator population")
	flag.Float64Var(&p.Years, "years", p.Years, "Forecast horizon in years")
	flag.Float64Var(&p.Alpha, "alpha", p.Alpha, "Prey growth rate")
	flag.Float64Var(&p.Beta, "beta", p.Beta, "Predation rate")
	flag.Float64Var(&p.Delta, "delta", p.Delta, "Predator efficiency")
	flag.Float64Var(&p.Gamma, "gamma", p.Gamma, "Predator death rate")
	out := flag.String("out", "", "CSV output path (empty = no CSV)")
	flag.Parse()

	res, err := forecast.Run(p)
	if err != nil {
		log.Fatalf("forecast failed: %v", err)
	}

	fmt.Print(res.Narrative())

	if *out == "" {
		return
	}
	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("failed to create output: %v", err)
	}
	defer f.Close()

	if err := gocsv.Marshal(res.Points, f); err != nil {
		log.Fatalf("failed to write series: %v", err)
	}
	fmt.Printf("Series saved to: %s\n", *out)
}
