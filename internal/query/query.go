// Package query implements the filter/sort/paginate layer that sits on
// top of a durability snapshot: it never talks to the store or cache
// directly, so it stays trivially testable against a plain []model.Analysis.
package query

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/guregu/null/v6"

	"stockengine/internal/model"
)

// CacheKey renders a canonicalized Filter into a stable string suitable for
// use as a query-cache key.
func CacheKey(f model.Filter) string {
	cf := f.Canonicalize()
	return fmt.Sprintf("price=%s|rsi=%s|mcap=%s|vol=%s|sectors=%s|oversold=%v|overbought=%v|sort=%s,%s|page=%d|size=%d",
		boundKey(cf.Price), boundKey(cf.RSI), boundKey(cf.MarketCap), boundKey(cf.Volume),
		strings.Join(cf.Sectors, ","), cf.OnlyOversold, cf.OnlyOverbought,
		cf.SortBy, cf.SortOrder, cf.Page, cf.PageSize)
}

func boundKey(b model.Bound) string {
	min, max := "nil", "nil"
	if b.Min != nil {
		min = fmt.Sprintf("%g", *b.Min)
	}
	if b.Max != nil {
		max = fmt.Sprintf("%g", *b.Max)
	}
	return min + ".." + max
}

// Apply canonicalizes f, runs every predicate against snapshot in the
// fixed order the system relies on for determinism, sorts, and paginates.
func Apply(snapshot []model.Analysis, f model.Filter) model.QueryResult {
	cf := f.Canonicalize()

	filtered := make([]model.Analysis, 0, len(snapshot))
	for _, a := range snapshot {
		if matches(a, cf) {
			filtered = append(filtered, a)
		}
	}

	sortAnalyses(filtered, cf.SortBy, cf.SortOrder)

	total := len(filtered)
	pageSize := cf.PageSize
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	}

	start := (cf.Page - 1) * pageSize
	var page []model.Analysis
	if start < total {
		end := start + pageSize
		if end > total {
			end = total
		}
		page = filtered[start:end]
	}

	return model.QueryResult{
		Stocks: page,
		Pagination: model.Pagination{
			Page:       cf.Page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}

// matches applies predicates in the fixed order: price bounds, volume
// bound, market-cap bounds, RSI bounds, sector membership, then the
// oversold/overbought toggles, which take precedence over the RSI bounds
// when set.
func matches(a model.Analysis, f model.Filter) bool {
	if !boundsFloat(a.Price, true, f.Price) {
		return false
	}
	if !boundsInt(a.Volume, f.Volume) {
		return false
	}
	if !boundsFloat(a.MarketCap.Float64, a.MarketCap.Valid, f.MarketCap) {
		return false
	}
	if !f.OnlyOversold && !f.OnlyOverbought {
		if !boundsFloat(a.RSI.Float64, a.RSI.Valid, f.RSI) {
			return false
		}
	}
	if !sectorMatches(a.Sector, f.Sectors) {
		return false
	}
	if f.OnlyOversold && !a.IsOversold {
		return false
	}
	if f.OnlyOverbought && !a.IsOverbought {
		return false
	}
	return true
}

func boundsFloat(v float64, valid bool, b model.Bound) bool {
	if b.Min == nil && b.Max == nil {
		return true
	}
	if !valid {
		return false
	}
	if b.Min != nil && v < *b.Min {
		return false
	}
	if b.Max != nil && v > *b.Max {
		return false
	}
	return true
}

func boundsInt(v null.Int, b model.Bound) bool {
	return boundsFloat(float64(v.Int64), v.Valid, b)
}

func sectorMatches(sector null.String, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	if !sector.Valid {
		return false
	}
	for _, s := range wanted {
		if s == sector.String {
			return true
		}
	}
	return false
}

func sortAnalyses(analyses []model.Analysis, key model.SortKey, order model.SortOrder) {
	less := func(i, j int) bool {
		a, b := analyses[i], analyses[j]
		va, vaOK := sortValue(a, key)
		vb, vbOK := sortValue(b, key)

		// Nulls sort last regardless of direction.
		if vaOK != vbOK {
			return vaOK
		}
		if vaOK && vbOK && va != vb {
			if order == model.SortAsc {
				return va < vb
			}
			return va > vb
		}
		return a.Symbol < b.Symbol
	}
	sort.SliceStable(analyses, less)
}

func sortValue(a model.Analysis, key model.SortKey) (float64, bool) {
	switch key {
	case model.SortPriceChangePct:
		return a.PriceChangePct.Float64, a.PriceChangePct.Valid
	case model.SortRSI:
		return a.RSI.Float64, a.RSI.Valid
	case model.SortPrice:
		return a.Price, true
	default:
		return a.MarketCap.Float64, a.MarketCap.Valid
	}
}
