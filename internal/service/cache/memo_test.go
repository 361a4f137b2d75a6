package cache

import (
	"testing"
	"time"

	"SectorPulse/internal/domain/models"
	"SectorPulse/internal/services/analysis"
)

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache()
	c.Set("k", "v", 10*time.Millisecond)

	if v, ok := c.Get("k"); !ok || v != "v" {
		t.Fatalf("get before expiry = %v ok=%v", v, ok)
	}
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("entry should have expired")
	}
}

func TestTTLCacheZeroTTLNeverExpires(t *testing.T) {
	c := NewTTLCache()
	c.Set("k", 42, 0)
	time.Sleep(5 * time.Millisecond)
	if v, ok := c.Get("k"); !ok || v != 42 {
		t.Fatalf("get = %v ok=%v", v, ok)
	}
}

func TestTableMemoFingerprintTracksContent(t *testing.T) {
	memo := NewTableMemo(time.Hour)

	var a, b models.ReturnMatrix
	a.Set(2023, 0, 0.02)
	b.Set(2023, 0, 0.03)

	fa, fb := memo.Fingerprint(a), memo.Fingerprint(b)
	if fa == "" || fb == "" {
		t.Fatalf("empty fingerprints")
	}
	if fa == fb {
		t.Fatalf("different matrices must fingerprint differently")
	}

	var a2 models.ReturnMatrix
	a2.Set(2023, 0, 0.02)
	if memo.Fingerprint(a2) != fa {
		t.Fatalf("equal matrices must share a fingerprint")
	}
}

func TestTableMemoRoundTrip(t *testing.T) {
	memo := NewTableMemo(time.Hour)

	var m models.ReturnMatrix
	m.Set(2023, 0, 0.02)
	fp := memo.Fingerprint(m)

	if _, ok := memo.Get(fp); ok {
		t.Fatalf("unexpected hit before put")
	}
	want := analysis.FormatTable(m)
	memo.Put(fp, want)

	got, ok := memo.Get(fp)
	if !ok {
		t.Fatalf("expected a hit after put")
	}
	if len(got.Rows) != len(want.Rows) {
		t.Fatalf("rows = %d, want %d", len(got.Rows), len(want.Rows))
	}
}

func TestTableMemoIgnoresEmptyFingerprint(t *testing.T) {
	memo := NewTableMemo(time.Hour)
	memo.Put("", analysis.FormattedTable{})
	if _, ok := memo.Get(""); ok {
		t.Fatalf("empty fingerprint must never hit")
	}
}
