// Package universe loads the symbol roster the scheduler walks each cycle,
// falling back to a small static list when no roster file is configured
// or it cannot be read. Modeled on the config package's YAML-with-fallback
// loading style.
package universe

import (
	"os"

	"github.com/guregu/null/v6"
	"gopkg.in/yaml.v3"

	"stockengine/internal/model"
)

// Entry is one symbol-universe row: a ticker plus optional static metadata
// carried into every Analysis produced for it.
type Entry struct {
	Symbol    model.Symbol `yaml:"symbol"`
	MarketCap null.Float   `yaml:"market_cap"`
	Sector    null.String  `yaml:"sector"`
}

type fileFormat struct {
	Symbols []struct {
		Symbol    string  `yaml:"symbol"`
		MarketCap float64 `yaml:"market_cap"`
		Sector    string  `yaml:"sector"`
	} `yaml:"symbols"`
}

// defaultUniverse is the small static fallback list used when no roster
// file is configured or available.
var defaultUniverse = []Entry{
	{Symbol: "AAPL"},
	{Symbol: "MSFT"},
	{Symbol: "GOOGL"},
	{Symbol: "AMZN"},
	{Symbol: "NVDA"},
	{Symbol: "META"},
	{Symbol: "TSLA"},
	{Symbol: "BRK.B"},
	{Symbol: "JPM"},
	{Symbol: "V"},
}

// Load reads a symbol roster from path. An empty path, a missing file, or
// a parse error all fall back to the static default list rather than
// failing startup.
func Load(path string) []Entry {
	if path == "" {
		return defaultUniverse
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return defaultUniverse
	}

	var ff fileFormat
	if err := yaml.Unmarshal(data, &ff); err != nil || len(ff.Symbols) == 0 {
		return defaultUniverse
	}

	entries := make([]Entry, 0, len(ff.Symbols))
	for _, s := range ff.Symbols {
		if s.Symbol == "" {
			continue
		}
		e := Entry{Symbol: model.Symbol(s.Symbol)}
		if s.MarketCap > 0 {
			e.MarketCap = null.FloatFrom(s.MarketCap)
		}
		if s.Sector != "" {
			e.Sector = null.StringFrom(s.Sector)
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return defaultUniverse
	}
	return entries
}
