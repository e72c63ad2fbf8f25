package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/barista/errors"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.Equal(t, 7, c.Len())

	names := make([]string, 0, c.Len())
	for _, item := range c.Items() {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{
		"Espresso", "Bac Xiu", "Tra Dao", "Capuchino", "Americano", "Latte Nong", "Tra Sua",
	}, names)
}

func TestAttributesOf(t *testing.T) {
	c := Default()

	tests := []struct {
		name string
		want Vector
	}{
		{"Espresso", Vector{0, 9, 1}},
		{"Bac Xiu", Vector{9, 2, 0}},
		{"Tra Dao", Vector{7, 1, 0}},
		{"Capuchino", Vector{5, 4, 1}},
		{"Americano", Vector{0, 8, 0}},
		{"Latte Nong", Vector{6, 2, 1}},
		{"Tra Sua", Vector{10, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.AttributesOf(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAttributesOf_UnknownName(t *testing.T) {
	_, err := Default().AttributesOf("Mocha")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
	assert.Contains(t, err.Error(), "Mocha")
}

func TestItemsReturnsCopy(t *testing.T) {
	c := Default()
	items := c.Items()
	items[0].Name = "Changed"

	got, err := c.Lookup("Espresso")
	require.NoError(t, err)
	assert.Equal(t, "Espresso", got.Name)
	assert.Equal(t, "Espresso", c.Items()[0].Name)
}

func TestNewCatalog_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
	}{
		{"empty", nil},
		{"blank name", []Item{{Name: " "}}},
		{"duplicate", []Item{{Name: "A"}, {Name: "A"}}},
		{"sweetness out of range", []Item{{Name: "A", Sweetness: 11}}},
		{"negative bitterness", []Item{{Name: "A", Bitterness: -1}}},
		{"bad temperature", []Item{{Name: "A", Temperature: 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.items)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidArgumentError(err))
		})
	}
}

func TestTemperatureClass(t *testing.T) {
	assert.Equal(t, "cold", Cold.String())
	assert.Equal(t, "hot", Hot.String())
	assert.Equal(t, "unknown", TemperatureClass(5).String())

	for in, want := range map[string]TemperatureClass{"cold": Cold, "HOT": Hot, "0": Cold, " 1 ": Hot} {
		got, err := ParseTemperatureClass(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTemperatureClass("lukewarm")
	assert.True(t, errors.IsInvalidArgumentError(err))
}
