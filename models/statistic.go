package models

import (
	"fmt"
	"strings"
)

// Statistic identifies one selectable column of the daily series.
type Statistic int

const (
	StatTotalCases Statistic = iota + 1
	StatTotalDeaths
	StatNewCases
	StatNewDeaths
	StatInfectionPer100k
	StatDeathsPer100k
	StatPctPopInfected
	StatFatalityRate
)

// StatisticClass tells how values of a statistic may be combined.
type StatisticClass int

const (
	// Summable values may be added across locations and periods.
	Summable StatisticClass = iota + 1
	// Rate values are per-capita or ratio figures and must be averaged.
	Rate
)

func (c StatisticClass) String() string {
	switch c {
	case Summable:
		return "summable"
	case Rate:
		return "rate"
	default:
		return "unknown"
	}
}

type statisticInfo struct {
	key   string
	label string
	class StatisticClass
}

var statistics = map[Statistic]statisticInfo{
	StatTotalCases:       {"total_cases", "Total Confirmed Cases", Summable},
	StatTotalDeaths:      {"total_deaths", "Total Confirmed Deaths", Summable},
	StatNewCases:         {"new_cases", "Daily Change in Cases", Summable},
	StatNewDeaths:        {"new_deaths", "Daily Change in Deaths", Summable},
	StatInfectionPer100k: {"infection_per_100k", "Infections per 100k Population", Rate},
	StatDeathsPer100k:    {"deaths_per_100k", "Deaths per 100k Population", Rate},
	StatPctPopInfected:   {"pct_pop_infected", "Percent of Population Infected", Rate},
	StatFatalityRate:     {"fatality_rate", "Fatality Rate", Rate},
}

// AllStatistics lists the statistics in display order.
var AllStatistics = []Statistic{
	StatTotalCases,
	StatTotalDeaths,
	StatNewCases,
	StatNewDeaths,
	StatInfectionPer100k,
	StatDeathsPer100k,
	StatPctPopInfected,
	StatFatalityRate,
}

// ParseStatistic resolves a statistic from its key, e.g. "total_cases".
func ParseStatistic(key string) (Statistic, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for s, info := range statistics {
		if info.key == key {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown statistic %q", key)
}

func (s Statistic) Valid() bool {
	_, ok := statistics[s]
	return ok
}

// Key is the stable identifier used in query strings and cache keys.
func (s Statistic) Key() string {
	if info, ok := statistics[s]; ok {
		return info.key
	}
	return fmt.Sprintf("statistic(%d)", int(s))
}

func (s Statistic) Label() string {
	if info, ok := statistics[s]; ok {
		return info.label
	}
	return s.Key()
}

func (s Statistic) Class() StatisticClass {
	return statistics[s].class
}

func (s Statistic) String() string {
	return s.Key()
}

// Value extracts the statistic from a record.
func (s Statistic) Value(r CountyDailyRecord) float64 {
	switch s {
	case StatTotalCases:
		return float64(r.TotalCases)
	case StatTotalDeaths:
		return float64(r.TotalDeaths)
	case StatNewCases:
		return float64(r.NewCaseDelta)
	case StatNewDeaths:
		return float64(r.NewDeathDelta)
	case StatInfectionPer100k:
		return r.InfectionPer100k
	case StatDeathsPer100k:
		return r.DeathsPer100k
	case StatPctPopInfected:
		return r.PctPopInfected
	case StatFatalityRate:
		return r.FatalityRate
	default:
		return 0
	}
}

// Project returns a copy of r holding only the statistic, day, date, county and FIPS.
func (s Statistic) Project(r CountyDailyRecord) CountyDailyRecord {
	out := CountyDailyRecord{
		DailyRecord: DailyRecord{Day: r.Day, Date: r.Date},
		County:      r.County,
		FIPS:        r.FIPS,
	}
	switch s {
	case StatTotalCases:
		out.TotalCases = r.TotalCases
	case StatTotalDeaths:
		out.TotalDeaths = r.TotalDeaths
	case StatNewCases:
		out.NewCaseDelta = r.NewCaseDelta
	case StatNewDeaths:
		out.NewDeathDelta = r.NewDeathDelta
	case StatInfectionPer100k:
		out.InfectionPer100k = r.InfectionPer100k
	case StatDeathsPer100k:
		out.DeathsPer100k = r.DeathsPer100k
	case StatPctPopInfected:
		out.PctPopInfected = r.PctPopInfected
	case StatFatalityRate:
		out.FatalityRate = r.FatalityRate
	}
	return out
}
