package metadata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Listing is one row of the stock metadata file.
type Listing struct {
	CompanyName string
	Symbol      string
	Sector      string
}

// Universe is the read-only ticker-to-sector mapping loaded from a CSV file
// with at least the columns company_name, symbol and sector. Rows with a
// blank symbol or sector are skipped.
type Universe struct {
	listings []Listing
	bySector map[string][]string
	byName   map[string]string
}

// Load reads the metadata file at path.
func Load(path string) (*Universe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open metadata: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads CSV metadata from r.
func Parse(r io.Reader) (*Universe, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read metadata header: %w", err)
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"company_name", "symbol", "sector"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("metadata missing column %q", required)
		}
	}

	u := &Universe{
		bySector: make(map[string][]string),
		byName:   make(map[string]string),
	}
	seen := make(map[string]map[string]bool)

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read metadata row: %w", err)
		}
		l := Listing{
			CompanyName: field(rec, cols["company_name"]),
			Symbol:      field(rec, cols["symbol"]),
			Sector:      field(rec, cols["sector"]),
		}
		if l.Symbol == "" || l.Sector == "" {
			continue
		}
		u.listings = append(u.listings, l)
		if l.CompanyName != "" {
			u.byName[l.CompanyName] = l.Symbol
		}
		if seen[l.Sector] == nil {
			seen[l.Sector] = make(map[string]bool)
		}
		if !seen[l.Sector][l.Symbol] {
			seen[l.Sector][l.Symbol] = true
			u.bySector[l.Sector] = append(u.bySector[l.Sector], l.Symbol)
		}
	}
	return u, nil
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// Sectors returns all sector names, unordered.
func (u *Universe) Sectors() []string {
	out := make([]string, 0, len(u.bySector))
	for s := range u.bySector {
		out = append(out, s)
	}
	return out
}

// SymbolsFor returns the unique ticker symbols of a sector in file order.
func (u *Universe) SymbolsFor(sector string) []string {
	return u.bySector[sector]
}

// SymbolFor resolves a company name to its ticker symbol.
func (u *Universe) SymbolFor(companyName string) (string, bool) {
	sym, ok := u.byName[companyName]
	return sym, ok
}

// Listings returns all rows in file order.
func (u *Universe) Listings() []Listing {
	return u.listings
}
