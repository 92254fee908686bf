package engine

import (
	"fmt"

	"ga-covid-server/models"
)

// DayRange is the half-open window (StartExclusive, EndInclusive] of ordinal days.
type DayRange struct {
	StartExclusive int `json:"start"`
	EndInclusive   int `json:"end"`
}

// Validate checks 0 <= StartExclusive < EndInclusive <= maxDay.
func (r DayRange) Validate(maxDay int) error {
	if r.StartExclusive < 0 || r.EndInclusive > maxDay || r.StartExclusive >= r.EndInclusive {
		return fmt.Errorf("%w: (%d, %d] with max day %d", ErrInvalidRange, r.StartExclusive, r.EndInclusive, maxDay)
	}
	return nil
}

// Clamp pulls EndInclusive down to maxDay and StartExclusive up to 0.
func (r DayRange) Clamp(maxDay int) DayRange {
	if r.EndInclusive > maxDay {
		r.EndInclusive = maxDay
	}
	if r.StartExclusive < 0 {
		r.StartExclusive = 0
	}
	return r
}

// Contains reports whether day falls inside the window.
func (r DayRange) Contains(day int) bool {
	return day > r.StartExclusive && day <= r.EndInclusive
}

// Covers reports whether other lies entirely inside r.
func (r DayRange) Covers(other DayRange) bool {
	return other.StartExclusive >= r.StartExclusive && other.EndInclusive <= r.EndInclusive
}

// Len is the number of days in the window.
func (r DayRange) Len() int {
	if r.EndInclusive <= r.StartExclusive {
		return 0
	}
	return r.EndInclusive - r.StartExclusive
}

// Scope selects which series is filtered: Statewide or Counties.
type Scope interface {
	isScope()
}

// Statewide selects the aggregate series ("All Counties").
type Statewide struct{}

// Counties selects explicit counties of the per-county series.
type Counties struct {
	Names []string
}

func (Statewide) isScope() {}
func (Counties) isScope()  {}

// ScopeFor maps a location selection to a scope. ["All Counties"] is statewide;
// mixing it with explicit counties is a configuration error.
func ScopeFor(locations []string) (Scope, error) {
	if len(locations) == 1 && locations[0] == models.AllCounties {
		return Statewide{}, nil
	}
	for _, l := range locations {
		if l == models.AllCounties {
			return nil, fmt.Errorf("%w: %q cannot be combined with explicit counties", ErrConfiguration, models.AllCounties)
		}
	}
	return Counties{Names: locations}, nil
}

// ResolveLocations checks a location selection against ds. Repeated names are dropped,
// keeping the first occurrence, so the result is the set of selected locations in
// request order. Unknown counties, an empty selection and "All Counties" mixed with
// counties are configuration errors.
func ResolveLocations(ds *Dataset, locations []string) ([]string, error) {
	if len(locations) == 0 {
		return nil, fmt.Errorf("%w: no locations selected", ErrConfiguration)
	}
	known := make(map[string]bool, len(ds.countyNames)+1)
	known[models.AllCounties] = true
	for _, name := range ds.countyNames {
		known[name] = true
	}

	seen := make(map[string]bool, len(locations))
	out := make([]string, 0, len(locations))
	for _, l := range locations {
		if seen[l] {
			continue
		}
		if !known[l] {
			return nil, fmt.Errorf("%w: unknown county %q", ErrConfiguration, l)
		}
		seen[l] = true
		out = append(out, l)
	}
	if _, err := ScopeFor(out); err != nil {
		return nil, err
	}
	return out, nil
}

func isStatewide(s Scope) bool {
	_, ok := s.(Statewide)
	return ok
}

// Projection selects the columns of a RowSet: AllColumns or SingleStatistic.
type Projection interface {
	isProjection()
}

type AllColumns struct{}

// SingleStatistic restricts rows to {statistic, county, day} plus the calendar date.
type SingleStatistic struct {
	Statistic models.Statistic
}

func (AllColumns) isProjection()      {}
func (SingleStatistic) isProjection() {}

type FilterRequest struct {
	Range      DayRange
	Scope      Scope
	Projection Projection
}
