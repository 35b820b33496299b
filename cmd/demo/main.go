package main

import (
	"flag"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"portfolio-metrics/internal/analysis"
	"portfolio-metrics/internal/logger"
	"portfolio-metrics/internal/metrics"
	"portfolio-metrics/internal/model"

	"github.com/shopspring/decimal"
)

// Demo:
// - Build three synthetic positions (USD, EUR, and a GBP position closed mid-range)
// - Generate random-walk prices and FX rates with a fixed seed
// - Run the engine and print the first few days for the basket
func main() {
	start := flag.String("start", "2024-01-01", "Start date")
	end := flag.String("end", "2024-03-31", "End date")
	currency := flag.String("currency", "USD", "Target currency")
	seed := flag.Int64("seed", 42, "Random seed for synthetic market data")
	n := flag.Int("n", 12, "Number of days to print")
	outCSV := flag.String("out", "", "Optional path to write the long-format CSV (e.g. results/metrics.csv)")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	target := strings.ToUpper(*currency)

	level := "warn"
	if *verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Level: level, Pretty: true})

	startDate, err := model.ParseDate(*start)
	if err != nil {
		panic(err)
	}
	endDate, err := model.ParseDate(*end)
	if err != nil {
		panic(err)
	}
	dates, err := model.NewDateRange(startDate, endDate)
	if err != nil {
		panic(err)
	}

	records := []model.PositionRecord{
		{ID: 1, OpenDate: *start, OpenPrice: decimal.NewFromInt(100), Quantity: decimal.NewFromInt(10), InstrumentID: 101, InstrumentCurrency: "USD", OpenTransactionType: "BUY"},
		{ID: 2, OpenDate: dates[len(dates)/4].Format(model.DateLayout), OpenPrice: decimal.NewFromInt(50), Quantity: decimal.NewFromInt(20), InstrumentID: 202, InstrumentCurrency: "EUR", OpenTransactionType: "BUY"},
		{
			ID: 3, OpenDate: *start, CloseDate: dates[len(dates)/2].Format(model.DateLayout),
			OpenPrice: decimal.NewFromInt(30), ClosePrice: decimal.NewNullDecimal(decimal.NewFromInt(33)),
			Quantity: decimal.NewFromInt(40), InstrumentID: 303, InstrumentCurrency: "GBP",
			OpenTransactionType: "BUY", CloseTransactionType: "SELL",
		},
	}
	positions, err := model.NewPositions(records)
	if err != nil {
		panic(err)
	}

	rng := rand.New(rand.NewSource(*seed))
	prices := model.PriceTable{}
	for _, p := range positions {
		open, _ := p.OpenPrice.Float64()
		prices[p.ID] = map[string][]model.PricePoint{p.InstrumentKey(): randomWalkPrices(rng, dates, open)}
	}
	fx := model.FxRateTable{}
	for from, rate := range map[string]float64{"EUR": 1.09, "GBP": 1.27, "USD": 1.0} {
		if from == target {
			continue
		}
		fx[model.PairKey(from, target)] = randomWalkRates(rng, dates, rate)
	}

	engine := metrics.New(log)
	result, err := engine.Run(model.Inputs{
		Positions:      positions,
		FxRates:        fx,
		Prices:         prices,
		StartDate:      startDate,
		EndDate:        endDate,
		TargetCurrency: target,
	})
	if err != nil {
		panic(err)
	}
	report := result.Report()

	fmt.Printf("Computed %d positions over %d days in %s\n\n", len(positions), len(dates), result.TargetCurrency)
	for i := 0; i < min(*n, len(report.Dates)); i++ {
		b := report.Basket
		fmt.Printf(
			"%s open=%.0f  value=%10.2f  rpp=%9.2f  rppp=%8.4f%%\n",
			report.Dates[i],
			b.IsOpen[i],
			b.Value[i],
			b.ReturnPerPeriod[i],
			b.ReturnPerPeriodPercentage[i]*100,
		)
	}

	if *outCSV != "" {
		if err := metrics.WriteReportCSV(*outCSV, report); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}

	fmt.Println()
	for _, s := range analysis.RankByTotalReturn(report) {
		fmt.Printf("position %d: days open=%d total return=%.2f compounded=%.4f\n", s.ID, s.DaysOpen, s.TotalReturn, s.CompoundedReturn)
	}
}

func randomWalkPrices(rng *rand.Rand, dates model.DateRange, start float64) []model.PricePoint {
	out := make([]model.PricePoint, 0, len(dates))
	price := start
	for _, d := range dates {
		// weekends have no quotes
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		price *= 1 + rng.NormFloat64()*0.01
		out = append(out, model.PricePoint{Date: model.FormatDate(d), Price: price})
	}
	return out
}

func randomWalkRates(rng *rand.Rand, dates model.DateRange, start float64) []model.FxRate {
	out := make([]model.FxRate, len(dates))
	rate := start
	for i, d := range dates {
		rate *= 1 + rng.NormFloat64()*0.002
		out[i] = model.FxRate{Date: model.FormatDate(d), Rate: rate}
	}
	return out
}
