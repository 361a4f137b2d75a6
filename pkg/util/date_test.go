package util

import (
    "testing"
    "time"
)

func TestFormatAgeJustNow(t *testing.T) {
    if got := FormatAge(30 * time.Second); got != "just now" {
        t.Fatalf("unexpected caption %q", got)
    }
}

func TestFormatAgeMinutes(t *testing.T) {
    if got := FormatAge(63 * time.Second); got != "1 min ago" {
        t.Fatalf("unexpected caption %q", got)
    }
    if got := FormatAge(5 * time.Minute); got != "5 mins ago" {
        t.Fatalf("unexpected caption %q", got)
    }
}

func TestFormatAgeHoursAndDays(t *testing.T) {
    if got := FormatAge(90 * time.Minute); got != "1.5 h ago" {
        t.Fatalf("unexpected caption %q", got)
    }
    if got := FormatAge(36 * time.Hour); got != "1.5 d ago" {
        t.Fatalf("unexpected caption %q", got)
    }
}
