// Package recommend matches a customer's taste and the outdoor temperature to the
// closest drink on the menu.
//
// The query is placed in the same attribute space as the menu (sweetness,
// bitterness, temperature class) and the nearest item under Euclidean distance
// wins. Hot weather asks for a cold drink and cool weather for a hot one.
package recommend

import (
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/teranos/barista/errors"
	"github.com/teranos/barista/logger"
	"github.com/teranos/barista/menu"
)

// HotThreshold is the outdoor temperature (°C) above which weather counts as hot.
// The comparison is strict: exactly 25 is not hot.
const HotThreshold = 25.0

// Taste is the customer's flavour preference
type Taste int

const (
	Sweet Taste = iota + 1
	Bitter
)

// String returns the lowercase label used in CLI output
func (t Taste) String() string {
	switch t {
	case Sweet:
		return "sweet"
	case Bitter:
		return "bitter"
	default:
		return "unknown"
	}
}

// ParseTaste maps user input to a Taste. The Vietnamese labels from the shop's
// order pad are accepted alongside the English ones.
func ParseTaste(s string) (Taste, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sweet", "ngot", "ngọt":
		return Sweet, nil
	case "bitter", "strong", "dang", "đắng":
		return Bitter, nil
	default:
		return 0, errors.WithHint(
			errors.NewInvalidArgumentError("unknown taste %q", s),
			"use sweet or bitter")
	}
}

// Query is a single recommendation request
type Query struct {
	OutdoorTemperature float64
	Taste              Taste
}

// Suggestion is the matched drink plus what the caller needs to explain it
type Suggestion struct {
	Item     menu.Item `json:"item"`
	Distance float64   `json:"distance"`
	Reason   string    `json:"reason"`
}

// IsHot reports whether the temperature is above HotThreshold
func IsHot(temperature float64) bool {
	return temperature > HotThreshold
}

// TargetClass is the drink temperature class wanted for the given weather
func TargetClass(temperature float64) menu.TemperatureClass {
	if IsHot(temperature) {
		return menu.Cold
	}
	return menu.Hot
}

// Reason explains a suggestion. It depends only on the temperature threshold.
func Reason(temperature float64) string {
	if IsHot(temperature) {
		return "hot outside, so a cold drink was chosen"
	}
	return "cool outside, so a hot drink was chosen"
}

// QueryVector builds the point in attribute space that a query asks for
func QueryVector(q Query) (menu.Vector, error) {
	if math.IsNaN(q.OutdoorTemperature) || math.IsInf(q.OutdoorTemperature, 0) {
		return menu.Vector{}, errors.NewInvalidArgumentError("temperature must be a finite number, got %v", q.OutdoorTemperature)
	}

	t := float64(TargetClass(q.OutdoorTemperature))
	switch q.Taste {
	case Sweet:
		return menu.Vector{10, 0, t}, nil
	case Bitter:
		return menu.Vector{0, 10, t}, nil
	default:
		return menu.Vector{}, errors.NewInvalidArgumentError("unknown taste %d", int(q.Taste))
	}
}

// Matcher is a k=1 nearest-neighbor index over a catalog.
// The catalog is immutable, so the index is built once and never refit.
type Matcher struct {
	items   []menu.Item
	vectors [][]float64
	logger  *zap.SugaredLogger
}

// NewMatcher indexes every item of the catalog
func NewMatcher(catalog *menu.Catalog, log *zap.SugaredLogger) *Matcher {
	if log == nil {
		log = logger.Logger
	}
	items := catalog.Items()
	vectors := make([][]float64, len(items))
	for i, item := range items {
		v := item.Vector()
		vectors[i] = v[:]
	}
	return &Matcher{items: items, vectors: vectors, logger: log}
}

// Suggest returns the menu item nearest to the query.
// Equal distances resolve to the item listed first in the catalog.
func (m *Matcher) Suggest(q Query) (Suggestion, error) {
	target, err := QueryVector(q)
	if err != nil {
		return Suggestion{}, err
	}

	best := -1
	bestDist := math.Inf(1)
	for i, v := range m.vectors {
		d := floats.Distance(target[:], v, 2)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return Suggestion{}, errors.NewNotFoundError("no menu items to match against")
	}

	m.logger.Debugw("Matched preference",
		logger.FieldTaste, q.Taste.String(),
		logger.FieldTemperature, q.OutdoorTemperature,
		logger.FieldItem, m.items[best].Name,
		logger.FieldDistance, bestDist)

	return Suggestion{
		Item:     m.items[best],
		Distance: bestDist,
		Reason:   Reason(q.OutdoorTemperature),
	}, nil
}

// Ranked returns every item ordered by distance to the query, nearest first.
// Ties keep catalog order.
func (m *Matcher) Ranked(q Query) ([]Suggestion, error) {
	target, err := QueryVector(q)
	if err != nil {
		return nil, err
	}

	reason := Reason(q.OutdoorTemperature)
	out := make([]Suggestion, len(m.items))
	for i, v := range m.vectors {
		out[i] = Suggestion{Item: m.items[i], Distance: floats.Distance(target[:], v, 2), Reason: reason}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Distance < out[j].Distance
	})
	return out, nil
}
