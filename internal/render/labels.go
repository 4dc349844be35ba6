package render

import "strings"

// Label keys for texts that are not column headers.
const (
	LabelErrorNoData      = "error-no-data"
	LabelErrorDefault     = "error-default"
	LabelShowMorePlural   = "show-more-plural"
	LabelShowMoreSingular = "show-more-singular"
	LabelShowMap          = "show-map"
	LabelChartTitle       = "chart-title"
	LabelLastUpdate       = "last-update"
)

var defaultLabels = map[string]string{
	LabelErrorNoData:      "Error: No data received!",
	LabelErrorDefault:     "Error: An error occured!",
	LabelShowMorePlural:   "more elements to show.",
	LabelShowMoreSingular: "more element to show.",
	LabelShowMap:          "Show Map",
	LabelChartTitle:       "Position per gameday for: ",
	LabelLastUpdate:       "Last update:",
}

// Labels resolves display texts. Column headers are looked up by their
// English text ("Date", "Goals"), everything else by the Label* keys.
type Labels struct {
	overrides map[string]string
}

// NewLabels creates Labels with the given overrides. Empty overrides are ignored.
func NewLabels(overrides map[string]string) Labels {
	o := make(map[string]string, len(overrides))
	for k, v := range overrides {
		if strings.TrimSpace(v) != "" {
			o[k] = v
		}
	}
	return Labels{overrides: o}
}

// Text returns the display text for key.
func (l Labels) Text(key string) string {
	if v, ok := l.overrides[key]; ok {
		return v
	}
	if v, ok := defaultLabels[key]; ok {
		return v
	}
	return key
}

// Names maps upstream team names onto display names.
type Names interface {
	Display(team string) string
}

// Replacement is one display-name override.
type Replacement struct {
	Source  string
	Replace string
}

// Replacements applies overrides in order. A later override sees the result
// of earlier ones, so overrides can chain.
type Replacements []Replacement

// Display returns the display name of team.
func (rs Replacements) Display(team string) string {
	for _, r := range rs {
		if r.Source == team {
			team = r.Replace
		}
	}
	return team
}

type identity struct{}

func (identity) Display(team string) string { return team }

// NoReplacements displays team names unchanged.
var NoReplacements Names = identity{}
