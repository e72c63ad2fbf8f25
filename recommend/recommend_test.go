package recommend

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/barista/errors"
	"github.com/teranos/barista/menu"
)

func newTestMatcher(t *testing.T) *Matcher {
	t.Helper()
	return NewMatcher(menu.Default(), zaptest.NewLogger(t).Sugar())
}

func TestSuggest_HotAndSweetIsExactMatch(t *testing.T) {
	m := newTestMatcher(t)

	got, err := m.Suggest(Query{OutdoorTemperature: 30, Taste: Sweet})
	require.NoError(t, err)

	assert.Equal(t, "Tra Sua", got.Item.Name)
	assert.Equal(t, 0.0, got.Distance)
	assert.Equal(t, "hot outside, so a cold drink was chosen", got.Reason)
}

func TestSuggest_CoolAndBitter(t *testing.T) {
	m := newTestMatcher(t)

	// Query [0,10,1]: Espresso [0,9,1] is 1 away, Americano [0,8,0] is sqrt(5) away.
	got, err := m.Suggest(Query{OutdoorTemperature: 10, Taste: Bitter})
	require.NoError(t, err)

	assert.Equal(t, "Espresso", got.Item.Name)
	assert.InDelta(t, 1.0, got.Distance, 1e-12)
	assert.Equal(t, "cool outside, so a hot drink was chosen", got.Reason)

	ranked, err := m.Ranked(Query{OutdoorTemperature: 10, Taste: Bitter})
	require.NoError(t, err)
	require.Len(t, ranked, 7)
	assert.Equal(t, "Espresso", ranked[0].Item.Name)
	assert.Equal(t, "Americano", ranked[1].Item.Name)
	assert.InDelta(t, math.Sqrt(5), ranked[1].Distance, 1e-12)
	for _, other := range ranked[1:] {
		assert.Greater(t, other.Distance, got.Distance, other.Item.Name)
	}
}

func TestSuggest_ThresholdIsExclusive(t *testing.T) {
	m := newTestMatcher(t)

	atThreshold, err := m.Suggest(Query{OutdoorTemperature: 25, Taste: Bitter})
	require.NoError(t, err)
	justAbove, err := m.Suggest(Query{OutdoorTemperature: 25.5, Taste: Bitter})
	require.NoError(t, err)

	// 25 asks for a hot drink: Espresso matches its temperature coordinate exactly.
	assert.InDelta(t, 1.0, atThreshold.Distance, 1e-12)
	// Above 25 the query moves to the cold plane and Espresso is sqrt(2) away.
	assert.InDelta(t, math.Sqrt2, justAbove.Distance, 1e-12)

	assert.Equal(t, menu.Hot, TargetClass(25))
	assert.Equal(t, menu.Cold, TargetClass(25.01))
	assert.False(t, IsHot(HotThreshold))
}

func TestSuggest_TastePreferenceProperty(t *testing.T) {
	m := newTestMatcher(t)

	for temp := 10.0; temp <= 45; temp += 2.5 {
		sweet, err := m.Suggest(Query{OutdoorTemperature: temp, Taste: Sweet})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, sweet.Item.Sweetness, sweet.Item.Bitterness, "sweet at %.1f got %s", temp, sweet.Item.Name)

		bitter, err := m.Suggest(Query{OutdoorTemperature: temp, Taste: Bitter})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, bitter.Item.Bitterness, bitter.Item.Sweetness, "bitter at %.1f got %s", temp, bitter.Item.Name)
	}
}

func TestSuggest_MatchesBruteForceMinimum(t *testing.T) {
	m := newTestMatcher(t)
	items := menu.Default().Items()

	for _, taste := range []Taste{Sweet, Bitter} {
		for _, temp := range []float64{-5, 10, 25, 26, 40} {
			q := Query{OutdoorTemperature: temp, Taste: taste}
			got, err := m.Suggest(q)
			require.NoError(t, err)

			target, err := QueryVector(q)
			require.NoError(t, err)
			for _, item := range items {
				v := item.Vector()
				var sum float64
				for i := range v {
					sum += (v[i] - target[i]) * (v[i] - target[i])
				}
				assert.LessOrEqual(t, got.Distance, math.Sqrt(sum)+1e-12)
			}
		}
	}
}

func TestSuggest_TiesResolveToCatalogOrder(t *testing.T) {
	first := menu.Item{Name: "First", Sweetness: 9, Bitterness: 0, Temperature: menu.Cold}
	second := menu.Item{Name: "Second", Sweetness: 10, Bitterness: 1, Temperature: menu.Cold}

	for _, order := range [][]menu.Item{{first, second}, {second, first}} {
		catalog, err := menu.NewCatalog(order)
		require.NoError(t, err)
		m := NewMatcher(catalog, nil)

		got, err := m.Suggest(Query{OutdoorTemperature: 30, Taste: Sweet})
		require.NoError(t, err)
		assert.Equal(t, order[0].Name, got.Item.Name)
		assert.InDelta(t, 1.0, got.Distance, 1e-12)
	}
}

func TestSuggest_Deterministic(t *testing.T) {
	m := newTestMatcher(t)
	q := Query{OutdoorTemperature: 18, Taste: Sweet}

	a, err := m.Suggest(q)
	require.NoError(t, err)
	b, err := m.Suggest(q)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSuggest_InvalidInput(t *testing.T) {
	m := newTestMatcher(t)

	tests := []struct {
		name  string
		query Query
	}{
		{"unknown taste", Query{OutdoorTemperature: 20, Taste: Taste(9)}},
		{"zero taste", Query{OutdoorTemperature: 20}},
		{"NaN temperature", Query{OutdoorTemperature: math.NaN(), Taste: Sweet}},
		{"infinite temperature", Query{OutdoorTemperature: math.Inf(1), Taste: Bitter}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Suggest(tt.query)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidArgumentError(err))
		})
	}
}

func TestParseTaste(t *testing.T) {
	valid := map[string]Taste{
		"sweet":  Sweet,
		"SWEET":  Sweet,
		" ngot ": Sweet,
		"ngọt":   Sweet,
		"bitter": Bitter,
		"strong": Bitter,
		"đắng":   Bitter,
		"dang":   Bitter,
	}
	for in, want := range valid {
		got, err := ParseTaste(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTaste("sour")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgumentError(err))
	assert.Contains(t, errors.GetAllHints(err), "use sweet or bitter")
}

func TestReason(t *testing.T) {
	assert.Equal(t, "hot outside, so a cold drink was chosen", Reason(31))
	assert.Equal(t, "cool outside, so a hot drink was chosen", Reason(25))
	assert.Equal(t, "sweet", Sweet.String())
	assert.Equal(t, "bitter", Bitter.String())
}
