package models

import "time"

// PricePoint is one daily closing observation.
type PricePoint struct {
	Time  time.Time
	Close float64
}

// PriceSeries is a daily closing-price history, ascending by time.
type PriceSeries []PricePoint

// Empty reports whether the series has no observations.
func (s PriceSeries) Empty() bool { return len(s) == 0 }

// Last returns the most recent point. Callers must check Empty first.
func (s PriceSeries) Last() PricePoint { return s[len(s)-1] }
