package engine

import (
	"fmt"
	"sort"
	"time"

	"ga-covid-server/models"
)

// DateLayout is the calendar date format used in labels.
const DateLayout = "01/02/2006"

// Dataset is an immutable snapshot of the statewide and per-county series.
// Build it with NewDataset and share it by pointer; nothing mutates it afterwards.
type Dataset struct {
	statewide    []models.CountyDailyRecord
	counties     []models.CountyDailyRecord
	calendar     []time.Time // calendar[day-1]
	countyNames  []string
	demographics models.Demographics

	Version  string
	LoadedAt time.Time
}

// NewDataset validates the series and builds a snapshot. Both slices are copied.
// The statewide days must be 1..N without gaps; county rows must be day-ascending,
// contiguous per county, unique per (day, county) and within 1..N. Totals may not
// decrease, and every county with a FIPS code needs a positive population.
func NewDataset(statewide []models.DailyRecord, counties []models.CountyDailyRecord, demographics models.Demographics, version string, loadedAt time.Time) (*Dataset, error) {
	if len(statewide) == 0 {
		return nil, fmt.Errorf("%w: statewide series is empty", ErrInvalidDataset)
	}

	ds := &Dataset{
		statewide:    make([]models.CountyDailyRecord, len(statewide)),
		calendar:     make([]time.Time, len(statewide)),
		counties:     make([]models.CountyDailyRecord, len(counties)),
		demographics: demographics,
		Version:      version,
		LoadedAt:     loadedAt,
	}

	for i, r := range statewide {
		if r.Day != i+1 {
			return nil, fmt.Errorf("%w: statewide row %d has day %d, want %d", ErrInvalidDataset, i, r.Day, i+1)
		}
		if r.TotalCases < 0 || r.TotalDeaths < 0 {
			return nil, fmt.Errorf("%w: statewide day %d has negative totals", ErrInvalidDataset, r.Day)
		}
		if i > 0 && (r.TotalCases < statewide[i-1].TotalCases || r.TotalDeaths < statewide[i-1].TotalDeaths) {
			return nil, fmt.Errorf("%w: statewide totals decrease on day %d", ErrInvalidDataset, r.Day)
		}
		ds.statewide[i] = models.CountyDailyRecord{DailyRecord: r, County: models.AllCounties}
		ds.calendar[i] = r.Date
	}
	maxDay := len(statewide)

	last := map[string]models.CountyDailyRecord{}
	prevDay := 0
	for i, r := range counties {
		if r.Day < prevDay {
			return nil, fmt.Errorf("%w: county row %d (day %d) is out of day order", ErrInvalidDataset, i, r.Day)
		}
		if r.Day < 1 || r.Day > maxDay {
			return nil, fmt.Errorf("%w: county %q has day %d outside 1..%d", ErrInvalidDataset, r.County, r.Day, maxDay)
		}
		if r.County == "" || r.County == models.AllCounties {
			return nil, fmt.Errorf("%w: county row %d has invalid county %q", ErrInvalidDataset, i, r.County)
		}
		if r.TotalCases < 0 || r.TotalDeaths < 0 {
			return nil, fmt.Errorf("%w: county %q day %d has negative totals", ErrInvalidDataset, r.County, r.Day)
		}
		// FIPS 0 rows hold cases not assigned to a county and carry no population.
		if r.FIPS != 0 && r.Population <= 0 {
			return nil, fmt.Errorf("%w: county %q day %d has population %d", ErrInvalidDataset, r.County, r.Day, r.Population)
		}
		if prev, seen := last[r.County]; seen {
			if r.Day == prev.Day {
				return nil, fmt.Errorf("%w: duplicate row for county %q day %d", ErrInvalidDataset, r.County, r.Day)
			}
			if r.Day != prev.Day+1 {
				return nil, fmt.Errorf("%w: county %q jumps from day %d to %d", ErrInvalidDataset, r.County, prev.Day, r.Day)
			}
			if r.TotalCases < prev.TotalCases || r.TotalDeaths < prev.TotalDeaths {
				return nil, fmt.Errorf("%w: county %q totals decrease on day %d", ErrInvalidDataset, r.County, r.Day)
			}
		} else {
			ds.countyNames = append(ds.countyNames, r.County)
		}
		last[r.County] = r
		prevDay = r.Day
		ds.counties[i] = r
	}

	return ds, nil
}

// MaxDay is the last ordinal day of the statewide series.
func (d *Dataset) MaxDay() int {
	return len(d.statewide)
}

// DateOf returns the calendar date of an ordinal day, clamping to 1..MaxDay.
func (d *Dataset) DateOf(day int) time.Time {
	if day < 1 {
		day = 1
	}
	if day > len(d.calendar) {
		day = len(d.calendar)
	}
	return d.calendar[day-1]
}

// DateLabel formats DateOf(day) with DateLayout.
func (d *Dataset) DateLabel(day int) string {
	return d.DateOf(day).Format(DateLayout)
}

// CountyNames lists counties in order of first appearance.
func (d *Dataset) CountyNames() []string {
	out := make([]string, len(d.countyNames))
	copy(out, d.countyNames)
	return out
}

// Demographics returns the snapshot tables. Slices are shared; callers must not modify them.
func (d *Dataset) Demographics() models.Demographics {
	return d.demographics
}

// Statewide returns a copy of the statewide series.
func (d *Dataset) Statewide() []models.CountyDailyRecord {
	out := make([]models.CountyDailyRecord, len(d.statewide))
	copy(out, d.statewide)
	return out
}

// LatestCountyRows returns each county's row at its last day, in county order.
func (d *Dataset) LatestCountyRows() []models.CountyDailyRecord {
	latest := make(map[string]models.CountyDailyRecord, len(d.countyNames))
	for _, r := range d.counties {
		latest[r.County] = r
	}
	out := make([]models.CountyDailyRecord, 0, len(d.countyNames))
	for _, name := range d.countyNames {
		out = append(out, latest[name])
	}
	return out
}

// window returns the sub-slice of day-sorted rows inside r.
func window(rows []models.CountyDailyRecord, r DayRange) []models.CountyDailyRecord {
	lo := sort.Search(len(rows), func(i int) bool { return rows[i].Day > r.StartExclusive })
	hi := sort.Search(len(rows), func(i int) bool { return rows[i].Day > r.EndInclusive })
	return rows[lo:hi]
}
