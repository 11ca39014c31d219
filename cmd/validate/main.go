// Command validate checks a NOAA sea level export for the properties the chart
// relies on: it loads cleanly, covers the category catalog, uses one date
// encoding, keeps each category in chronological order and gives every
// category enough samples for a trend line.
//
// Usage:
//
//	go run ./cmd/validate -csv Sea_Levels_NOAA.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/couchcryptid/sea-level-chart/internal/adapter/csvsource"
	"github.com/couchcryptid/sea-level-chart/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "path to the sea level CSV export")
	strictCatalog := flag.Bool("strict-catalog", true, "fail when a catalog category has no records")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*csvPath, *strictCatalog))
}

func run(csvPath string, strictCatalog bool) int {
	fmt.Println("=== Sea Level Data Validation ===")
	fmt.Println()

	rows, err := csvsource.New(csvPath).ReadRows(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	store, err := domain.Load(rows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateCatalogCoverage(store, strictCatalog),
		validateDateEncoding(store),
		validateChronology(store),
		validateTrends(store),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d across %d categories\n", store.Len(), len(store.Categories()))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// validateCatalogCoverage checks that the dataset and the picker catalog agree.
func validateCatalogCoverage(store *domain.Store, strict bool) *phase {
	p := &phase{name: "Catalog coverage"}
	present := store.Categories()

	if strict {
		for _, name := range domain.DefaultCatalogNames {
			if !slices.Contains(present, name) {
				p.errorf("catalog category %q has no records", name)
			}
		}
	}
	for _, name := range present {
		if !slices.Contains(domain.DefaultCatalogNames, name) {
			p.errorf("category %q is not in the catalog and cannot be picked", name)
		}
	}
	if !slices.Contains(present, domain.DefaultCategory) {
		p.errorf("default category %q has no records", domain.DefaultCategory)
	}
	return p
}

// validateDateEncoding flags exports that mix "D"-prefixed and plain dates.
func validateDateEncoding(store *domain.Store) *phase {
	p := &phase{name: "Date encoding consistency"}

	var prefixed, plain int
	var firstPlain, firstPrefixed domain.Record
	for _, r := range store.Records() {
		if domain.HasDatePrefix(r.RawDate) {
			if prefixed == 0 {
				firstPrefixed = r
			}
			prefixed++
			continue
		}
		if plain == 0 {
			firstPlain = r
		}
		plain++
	}

	if prefixed > 0 && plain > 0 {
		p.errorf("mixed date encodings: %d prefixed (first ID %d %q), %d plain (first ID %d %q)",
			prefixed, firstPrefixed.ID, firstPrefixed.RawDate, plain, firstPlain.ID, firstPlain.RawDate)
	}
	return p
}

// validateChronology checks that each category's samples are in date order and
// that record IDs are unique. The chart plots by position, so out-of-order
// rows would silently distort the time axis.
func validateChronology(store *domain.Store) *phase {
	p := &phase{name: "Per-category chronology"}

	seen := make(map[int]struct{}, store.Len())
	for _, r := range store.Records() {
		if _, dup := seen[r.ID]; dup {
			p.errorf("duplicate ID %d", r.ID)
		}
		seen[r.ID] = struct{}{}
	}

	for _, category := range store.Categories() {
		view := store.FilterByCategory(category)
		for i := 1; i < len(view); i++ {
			if view[i].Date.Before(view[i-1].Date) {
				p.errorf("%s: ID %d (%s) precedes ID %d (%s)",
					category, view[i].ID, domain.FormatDate(view[i].Date),
					view[i-1].ID, domain.FormatDate(view[i-1].Date))
			}
		}
	}
	return p
}

// validateTrends fits every category and prints a summary table.
func validateTrends(store *domain.Store) *phase {
	p := &phase{name: "Trend summary"}

	fmt.Printf("  %-24s %7s %10s %10s %10s\n", "Category", "Points", "Slope", "First", "Last")
	for _, category := range store.Categories() {
		view := store.FilterByCategory(category)
		fit, ok := domain.Fit(view)
		if !ok {
			p.errorf("%s: %d record(s), need at least 2 for a trend line", category, len(view))
			continue
		}
		_, v0, _, v1 := fit.Endpoints()
		fmt.Printf("  %-24s %7d %+10.3f %10.2f %10.2f\n", category, len(view), fit.Slope, v0, v1)
	}
	return p
}
