package metadata

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"
)

const sampleCSV = `company_name,symbol,sector
Apple Inc,AAPL,Technology
Microsoft Corp,MSFT,Technology
Exxon Mobil,XOM,Energy
Ghost Corp,,Energy
Blank Sector,BLNK,
Apple Inc,AAPL,Technology
`

func TestParse(t *testing.T) {
	u, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	sectors := u.Sectors()
	sort.Strings(sectors)
	if !reflect.DeepEqual(sectors, []string{"Energy", "Technology"}) {
		t.Fatalf("sectors = %v", sectors)
	}

	// duplicate AAPL row collapses; the skipped rows never join a sector
	if got := u.SymbolsFor("Technology"); !reflect.DeepEqual(got, []string{"AAPL", "MSFT"}) {
		t.Fatalf("Technology symbols = %v", got)
	}
	if got := u.SymbolsFor("Energy"); !reflect.DeepEqual(got, []string{"XOM"}) {
		t.Fatalf("Energy symbols = %v", got)
	}
	if got := u.SymbolsFor("Nowhere"); len(got) != 0 {
		t.Fatalf("unknown sector symbols = %v", got)
	}
}

func TestParseHeaderCaseAndSpacing(t *testing.T) {
	const csvData = ` Company_Name , SYMBOL , Sector
Apple Inc,AAPL,Technology
`
	u, err := Parse(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := u.SymbolsFor("Technology"); !reflect.DeepEqual(got, []string{"AAPL"}) {
		t.Fatalf("symbols = %v", got)
	}
}

func TestParseMissingColumn(t *testing.T) {
	_, err := Parse(strings.NewReader("company_name,symbol\nApple Inc,AAPL\n"))
	if err == nil || !strings.Contains(err.Error(), "sector") {
		t.Fatalf("err = %v, want a missing-column error naming sector", err)
	}
}

func TestSymbolFor(t *testing.T) {
	u, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sym, ok := u.SymbolFor("Exxon Mobil")
	if !ok || sym != "XOM" {
		t.Fatalf("SymbolFor = %q ok=%v", sym, ok)
	}
	if _, ok := u.SymbolFor("Nobody Inc"); ok {
		t.Fatalf("unknown company must not resolve")
	}
}

func TestListingsKeepFileOrder(t *testing.T) {
	u, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ls := u.Listings()
	if len(ls) != 4 {
		t.Fatalf("listings = %d, want 4 usable rows", len(ls))
	}
	if ls[0].Symbol != "AAPL" || ls[2].Symbol != "XOM" {
		t.Fatalf("unexpected order: %v", ls)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	u, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(u.Sectors()) != 2 {
		t.Fatalf("sectors = %v", u.Sectors())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
