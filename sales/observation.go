// Package sales keeps the café's daily sales history and its flat-file copy.
//
// The history is an ordered list of (day index, cups sold) observations in the
// order they were entered. Days are not required to be sorted or unique. Every
// change is written to disk before it becomes visible in memory.
package sales

import "github.com/teranos/barista/errors"

// Observation is one recorded day of sales
type Observation struct {
	DayIndex int `json:"day_index" yaml:"day_index"`
	CupsSold int `json:"cups_sold" yaml:"cups_sold"`
}

// Validate checks the type-level constraints: positive day, non-negative cups
func (o Observation) Validate() error {
	if o.DayIndex < 1 {
		return errors.NewInvalidArgumentError("day index must be positive, got %d", o.DayIndex)
	}
	if o.CupsSold < 0 {
		return errors.NewInvalidArgumentError("cups sold must be non-negative, got %d", o.CupsSold)
	}
	return nil
}

// DefaultSeed is written out on first run when no sales file exists
var DefaultSeed = []Observation{
	{DayIndex: 1, CupsSold: 20},
	{DayIndex: 2, CupsSold: 22},
	{DayIndex: 3, CupsSold: 25},
	{DayIndex: 4, CupsSold: 30},
	{DayIndex: 5, CupsSold: 35},
}

// Seed returns a fresh copy of DefaultSeed
func Seed() []Observation {
	out := make([]Observation, len(DefaultSeed))
	copy(out, DefaultSeed)
	return out
}
