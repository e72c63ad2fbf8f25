// Package menu holds the fixed drink catalog and the attribute space drinks live in.
//
// Every item is encoded as a three-dimensional vector (sweetness, bitterness,
// temperature class). The catalog never changes at runtime, so lookups need no locking.
package menu

import (
	"strings"

	"github.com/teranos/barista/errors"
)

// TemperatureClass is how a drink is served, independent of the weather.
// The numeric value is the third coordinate of the attribute vector.
type TemperatureClass int

const (
	// Cold drinks (iced coffee, fruit tea, milk tea)
	Cold TemperatureClass = 0
	// Hot drinks (espresso, cappuccino, hot latte)
	Hot TemperatureClass = 1
)

// String returns the lowercase label used in CLI output
func (c TemperatureClass) String() string {
	switch c {
	case Cold:
		return "cold"
	case Hot:
		return "hot"
	default:
		return "unknown"
	}
}

// ParseTemperatureClass accepts "cold"/"hot" or the numeric encodings "0"/"1"
func ParseTemperatureClass(s string) (TemperatureClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cold", "0":
		return Cold, nil
	case "hot", "1":
		return Hot, nil
	default:
		return 0, errors.NewInvalidArgumentError("unknown temperature class %q", s)
	}
}

// Vector is a point in attribute space: sweetness, bitterness, temperature class
type Vector [3]float64

// Item is one drink on the menu. Name is the identity.
type Item struct {
	Name        string           `json:"name" yaml:"name"`
	Sweetness   int              `json:"sweetness" yaml:"sweetness"`
	Bitterness  int              `json:"bitterness" yaml:"bitterness"`
	Temperature TemperatureClass `json:"temperature_class" yaml:"temperature_class"`
}

// Vector returns the item's attribute vector
func (i Item) Vector() Vector {
	return Vector{float64(i.Sweetness), float64(i.Bitterness), float64(i.Temperature)}
}

// defaultItems is the house menu. Order matters: ties in nearest-neighbor
// search resolve to the earlier entry.
var defaultItems = []Item{
	{Name: "Espresso", Sweetness: 0, Bitterness: 9, Temperature: Hot},
	{Name: "Bac Xiu", Sweetness: 9, Bitterness: 2, Temperature: Cold},
	{Name: "Tra Dao", Sweetness: 7, Bitterness: 1, Temperature: Cold},
	{Name: "Capuchino", Sweetness: 5, Bitterness: 4, Temperature: Hot},
	{Name: "Americano", Sweetness: 0, Bitterness: 8, Temperature: Cold},
	{Name: "Latte Nong", Sweetness: 6, Bitterness: 2, Temperature: Hot},
	{Name: "Tra Sua", Sweetness: 10, Bitterness: 0, Temperature: Cold},
}

// Catalog is an ordered, read-only set of menu items
type Catalog struct {
	items []Item
	index map[string]int
}

// Default returns the house catalog of seven drinks
func Default() *Catalog {
	c, err := NewCatalog(defaultItems)
	if err != nil {
		panic(err) // the constant table is validated by tests
	}
	return c
}

// NewCatalog builds a catalog from items, keeping their order.
// Empty names, duplicate names and attributes outside [0,10] are rejected.
func NewCatalog(items []Item) (*Catalog, error) {
	if len(items) == 0 {
		return nil, errors.NewInvalidArgumentError("catalog needs at least one item")
	}

	c := &Catalog{
		items: make([]Item, len(items)),
		index: make(map[string]int, len(items)),
	}
	for i, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, errors.NewInvalidArgumentError("item %d has an empty name", i)
		}
		if _, dup := c.index[item.Name]; dup {
			return nil, errors.NewInvalidArgumentError("duplicate menu item %q", item.Name)
		}
		if item.Sweetness < 0 || item.Sweetness > 10 || item.Bitterness < 0 || item.Bitterness > 10 {
			return nil, errors.NewInvalidArgumentError("item %q: sweetness and bitterness must be within [0,10]", item.Name)
		}
		if item.Temperature != Cold && item.Temperature != Hot {
			return nil, errors.NewInvalidArgumentError("item %q: unknown temperature class %d", item.Name, int(item.Temperature))
		}
		c.items[i] = item
		c.index[item.Name] = i
	}
	return c, nil
}

// Items returns the catalog entries in their fixed order
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of items
func (c *Catalog) Len() int {
	return len(c.items)
}

// Lookup returns the item with the given name
func (c *Catalog) Lookup(name string) (Item, error) {
	i, ok := c.index[name]
	if !ok {
		return Item{}, errors.NewNotFoundError("menu item %q", name)
	}
	return c.items[i], nil
}

// AttributesOf returns the attribute vector of the named item
func (c *Catalog) AttributesOf(name string) (Vector, error) {
	item, err := c.Lookup(name)
	if err != nil {
		return Vector{}, err
	}
	return item.Vector(), nil
}
