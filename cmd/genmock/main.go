// Command genmock writes a deterministic mock NOAA sea level dataset covering
// every catalog category. The output is read back through the same parser the
// service uses, so a generated file always loads.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/Sea_Levels_NOAA.csv -months 360
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/couchcryptid/sea-level-chart/internal/adapter/csvsource"
	"github.com/couchcryptid/sea-level-chart/internal/domain"
)

// firstSample is the date of the first NOAA sample in the real export.
var firstSample = time.Date(1992, time.December, 17, 0, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the mock CSV")
	months := flag.Int("months", 360, "number of monthly samples per category")
	seed := flag.Uint64("seed", 1, "random seed for measurement noise")
	flag.Parse()

	if *out == "" || *months <= 0 {
		flag.Usage()
		return fmt.Errorf("missing required flags: -out, -months > 0")
	}

	records := generate(domain.DefaultCatalogNames, *months, *seed)
	if err := writeCSV(*out, records); err != nil {
		return fmt.Errorf("writing mock dataset: %w", err)
	}
	log.Printf("wrote %d records for %d categories: %s", len(records), len(domain.DefaultCatalogNames), *out)

	store, err := verify(*out)
	if err != nil {
		return fmt.Errorf("verifying %s: %w", *out, err)
	}
	printStats(store)
	return nil
}

// generate produces a rising trend per category with a seasonal cycle and noise.
// Categories are grouped like the real export: all samples of one measure,
// then the next.
func generate(categories []string, months int, seed uint64) []domain.Record {
	rng := rand.New(rand.NewPCG(seed, seed^0x5ea1e7e1))
	records := make([]domain.Record, 0, len(categories)*months)

	for c, category := range categories {
		slope := 0.2 + 0.15*float64(c%7)/6 // mm per month
		amplitude := 5 + float64(c%5)*2    // seasonal swing, mm
		offset := -25 + float64(c%3)*5     // level at the first sample
		for m := range months {
			date := firstSample.AddDate(0, m, 0)
			value := offset + slope*float64(m) +
				amplitude*math.Sin(2*math.Pi*float64(m)/12) +
				rng.NormFloat64()*3
			records = append(records, domain.Record{
				ID:       len(records) + 1,
				Category: category,
				Date:     date,
				RawDate:  "D" + domain.FormatDate(date),
				Value:    math.Round(value*100) / 100,
			})
		}
	}
	return records
}

func writeCSV(path string, records []domain.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{domain.ColumnID, domain.ColumnMeasure, domain.ColumnDate, domain.ColumnChangeMM}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.ID),
			r.Category,
			r.RawDate,
			strconv.FormatFloat(r.Value, 'f', 2, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func verify(path string) (*domain.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csvsource.ReadFrom(f)
	if err != nil {
		return nil, err
	}
	return domain.Load(rows)
}

func printStats(store *domain.Store) {
	fmt.Printf("\nRecords: %d\n", store.Len())
	fmt.Println("\nTrend by category (mm per sample):")
	for _, category := range store.Categories() {
		view := store.FilterByCategory(category)
		fit, ok := domain.Fit(view)
		if !ok {
			fmt.Printf("  %-24s %5d  -\n", category, len(view))
			continue
		}
		fmt.Printf("  %-24s %5d  %+.3f\n", category, len(view), fit.Slope)
	}
}
