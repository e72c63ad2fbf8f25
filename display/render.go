// Package display renders barista results as pterm tables and charts, or as
// JSON when --json is set.
package display

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/teranos/barista/errors"
	"github.com/teranos/barista/menu"
	"github.com/teranos/barista/recommend"
	"github.com/teranos/barista/sales"
)

// SuggestionView is the JSON shape of a drink suggestion
type SuggestionView struct {
	Item               string  `json:"item"`
	Sweetness          int     `json:"sweetness"`
	Bitterness         int     `json:"bitterness"`
	Temperature        string  `json:"temperature"`
	Distance           float64 `json:"distance"`
	Reason             string  `json:"reason"`
	Taste              string  `json:"taste"`
	OutdoorTemperature float64 `json:"outdoor_temperature"`
}

// ForecastView is the JSON shape of a sales forecast
type ForecastView struct {
	DayIndex int                 `json:"day_index"`
	CupsSold int                 `json:"cups_sold"`
	History  []sales.Observation `json:"history,omitempty"`
}

// RecordedView is the JSON shape of an add_data result
type RecordedView struct {
	Recorded sales.Observation   `json:"recorded"`
	Recent   []sales.Observation `json:"recent"`
}

// NewSuggestionView flattens a suggestion for output
func NewSuggestionView(q recommend.Query, s recommend.Suggestion) SuggestionView {
	return SuggestionView{
		Item:               s.Item.Name,
		Sweetness:          s.Item.Sweetness,
		Bitterness:         s.Item.Bitterness,
		Temperature:        s.Item.Temperature.String(),
		Distance:           s.Distance,
		Reason:             s.Reason,
		Taste:              q.Taste.String(),
		OutdoorTemperature: q.OutdoorTemperature,
	}
}

// Printer writes results either as styled text or as JSON
type Printer struct {
	out  io.Writer
	json bool
}

// NewPrinter creates a Printer writing to out
func NewPrinter(out io.Writer, jsonOutput bool) *Printer {
	return &Printer{out: out, json: jsonOutput}
}

// JSON reports whether the printer emits JSON
func (p *Printer) JSON() bool {
	return p.json
}

// Suggestion prints the suggested drink and why it was picked
func (p *Printer) Suggestion(q recommend.Query, s recommend.Suggestion) error {
	view := NewSuggestionView(q, s)
	if p.json {
		return OutputJSON(p.out, view)
	}

	fmt.Fprint(p.out, pterm.Success.Sprintfln("Suggested drink: %s", pterm.Bold.Sprint(view.Item)))
	fmt.Fprint(p.out, pterm.Info.Sprintfln("%.1f°C and %s: %s", q.OutdoorTemperature, view.Taste, view.Reason))
	fmt.Fprintf(p.out, "  sweetness %d, bitterness %d, %s, distance %.3f\n",
		view.Sweetness, view.Bitterness, view.Temperature, view.Distance)
	return nil
}

// Ranked prints the menu ordered by distance to a preference
func (p *Printer) Ranked(q recommend.Query, ranked []recommend.Suggestion) error {
	if p.json {
		views := make([]SuggestionView, len(ranked))
		for i, s := range ranked {
			views[i] = NewSuggestionView(q, s)
		}
		return OutputJSON(p.out, views)
	}

	data := pterm.TableData{{"#", "Item", "Sweetness", "Bitterness", "Temperature", "Distance"}}
	for i, s := range ranked {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			s.Item.Name,
			strconv.Itoa(s.Item.Sweetness),
			strconv.Itoa(s.Item.Bitterness),
			s.Item.Temperature.String(),
			strconv.FormatFloat(s.Distance, 'f', 3, 64),
		})
	}
	return p.table(data)
}

// Forecast prints the predicted cups with the history as a bar chart
func (p *Printer) Forecast(day, cups int, history []sales.Observation) error {
	if p.json {
		return OutputJSON(p.out, ForecastView{DayIndex: day, CupsSold: cups, History: history})
	}

	fmt.Fprint(p.out, pterm.Success.Sprintfln("Day %d forecast: %d cups", day, cups))
	if len(history) == 0 {
		return nil
	}

	bars := make(pterm.Bars, 0, len(history)+1)
	for _, o := range history {
		bars = append(bars, pterm.Bar{Label: "day " + strconv.Itoa(o.DayIndex), Value: o.CupsSold})
	}
	bars = append(bars, pterm.Bar{
		Label: "day " + strconv.Itoa(day) + " (forecast)",
		Value: max(cups, 0),
		Style: pterm.NewStyle(pterm.FgYellow),
	})

	chart, err := pterm.DefaultBarChart.WithHorizontal().WithShowValue().WithBars(bars).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render sales chart")
	}
	fmt.Fprintln(p.out, chart)
	return nil
}

// History prints observations in entry order
func (p *Printer) History(observations []sales.Observation) error {
	if p.json {
		return OutputJSON(p.out, observations)
	}
	if len(observations) == 0 {
		fmt.Fprint(p.out, pterm.Info.Sprintln("No sales recorded"))
		return nil
	}
	return p.table(observationTable(observations))
}

// Recorded confirms an add_data and shows the latest rows
func (p *Printer) Recorded(o sales.Observation, recent []sales.Observation) error {
	if p.json {
		return OutputJSON(p.out, RecordedView{Recorded: o, Recent: recent})
	}

	fmt.Fprint(p.out, pterm.Success.Sprintfln("Recorded day %d: %d cups", o.DayIndex, o.CupsSold))
	return p.table(observationTable(recent))
}

// Menu prints the catalog
func (p *Printer) Menu(items []menu.Item) error {
	if p.json {
		return OutputJSON(p.out, items)
	}

	data := pterm.TableData{{"Item", "Sweetness", "Bitterness", "Temperature"}}
	for _, item := range items {
		data = append(data, []string{
			item.Name,
			strconv.Itoa(item.Sweetness),
			strconv.Itoa(item.Bitterness),
			item.Temperature.String(),
		})
	}
	return p.table(data)
}

// Value prints any value as JSON or with its default formatting
func (p *Printer) Value(v interface{}) error {
	if p.json {
		return OutputJSON(p.out, v)
	}
	_, err := fmt.Fprintln(p.out, v)
	return err
}

func (p *Printer) table(data pterm.TableData) error {
	rendered, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	_, err = fmt.Fprintln(p.out, rendered)
	return err
}

func observationTable(observations []sales.Observation) pterm.TableData {
	data := pterm.TableData{{sales.ColumnDayIndex, sales.ColumnCupsSold}}
	for _, o := range observations {
		data = append(data, []string{strconv.Itoa(o.DayIndex), strconv.Itoa(o.CupsSold)})
	}
	return data
}

// ErrorMessage formats err with its hints for the terminal
func ErrorMessage(err error) string {
	msg := pterm.Error.Sprintln(err.Error())
	for _, hint := range errors.GetAllHints(err) {
		msg += pterm.Info.Sprintln("hint: " + hint)
	}
	return msg
}
