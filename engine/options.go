package engine

import (
	"math"

	"ga-covid-server/models"
)

// Options builds the control values of the dashboard from ds.
func Options(ds *Dataset) models.DashboardOptions {
	names := ds.CountyNames()
	counties := make([]models.Option, len(names))
	for i, n := range names {
		counties[i] = models.Option{Label: n, Value: n}
	}

	stats := make([]models.Option, len(models.AllStatistics))
	barStats := make([]models.Option, len(models.AllStatistics))
	for i, s := range models.AllStatistics {
		stats[i] = models.Option{Label: s.Label(), Value: s.Key()}
		barStats[i] = models.Option{Label: s.Label(), Value: s.Key(), Disabled: !BarAllowed(s)}
	}

	return models.DashboardOptions{
		Counties:       counties,
		StatewideOnly:  []models.Option{{Label: models.AllCounties, Value: models.AllCounties}},
		Statistics:     stats,
		BarStatistics:  barStats,
		SelectionGroup: SelectionGroups,
		Slider: models.SliderBounds{
			MinDay:  1,
			MaxDay:  ds.MaxDay(),
			MinDate: ds.DateLabel(1),
			MaxDate: ds.DateLabel(ds.MaxDay()),
		},
	}
}

// LatestCountyTable is one row per county at its latest day, with the per-100k columns
// truncated to whole numbers.
func LatestCountyTable(ds *Dataset) []models.CountyLatestRow {
	latest := ds.LatestCountyRows()
	out := make([]models.CountyLatestRow, 0, len(latest))
	for _, r := range latest {
		if r.Day != ds.MaxDay() {
			continue
		}
		out = append(out, models.CountyLatestRow{
			Date:              r.Date.Format(DateLayout),
			Day:               r.Day,
			County:            r.County,
			Cases:             r.TotalCases,
			DailyCaseChange:   r.NewCaseDelta,
			DailyDeathsChange: r.NewDeathDelta,
			Deaths:            r.TotalDeaths,
			CasesPer100kPop:   finiteInt(r.InfectionPer100k),
			DeathsPer100kPop:  finiteInt(r.DeathsPer100k),
			PctPopInfected:    finite(r.PctPopInfected),
			FatalityRate:      finite(r.FatalityRate),
			Population:        r.Population,
		})
	}
	return out
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func finiteInt(v float64) int64 {
	return int64(finite(v))
}
