package engine

import (
	"fmt"
	"sort"

	"ga-covid-server/models"
)

// SelectionGroup names a preset county selection.
type SelectionGroup string

const (
	GroupAll        SelectionGroup = "all"
	GroupTop10      SelectionGroup = "top_10"
	GroupUnassigned SelectionGroup = "unassigned"
	GroupFamily     SelectionGroup = "family"
	GroupCustom     SelectionGroup = "custom"
)

// SelectionGroups in display order.
var SelectionGroups = []models.Option{
	{Label: "All of Georgia", Value: string(GroupAll)},
	{Label: "Top 10 Counties", Value: string(GroupTop10)},
	{Label: "Unassigned", Value: string(GroupUnassigned)},
	{Label: "Family", Value: string(GroupFamily)},
	{Label: "Customize", Value: string(GroupCustom)},
}

// UnassignedLocations are the report's catch-all rows that are not real counties.
var UnassignedLocations = []string{"Unknown", "Non-Georgia Resident"}

// SelectionFor resolves a preset group to a location list. family is the configured
// list for GroupFamily. GroupCustom starts empty.
func SelectionFor(ds *Dataset, group SelectionGroup, family []string) ([]string, error) {
	switch group {
	case GroupAll:
		return []string{models.AllCounties}, nil
	case GroupTop10:
		return TopCounties(ds, 10), nil
	case GroupUnassigned:
		return append([]string(nil), UnassignedLocations...), nil
	case GroupFamily:
		return append([]string(nil), family...), nil
	case GroupCustom:
		return []string{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown selection group %q", ErrConfiguration, group)
	}
}

// TopCounties returns the n counties with the most cases on their latest day.
// Rows with FIPS 0 (unassigned buckets) are skipped; ties keep county order.
func TopCounties(ds *Dataset, n int) []string {
	latest := ds.LatestCountyRows()
	candidates := make([]models.CountyDailyRecord, 0, len(latest))
	for _, r := range latest {
		if r.FIPS != 0 {
			candidates = append(candidates, r)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].TotalCases > candidates[j].TotalCases
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	out := make([]string, len(candidates))
	for i, r := range candidates {
		out[i] = r.County
	}
	return out
}
