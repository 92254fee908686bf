// Package enginetest builds small, fully consistent datasets for tests.
package enginetest

import (
	"time"

	"ga-covid-server/engine"
	"ga-covid-server/models"
)

// Day1 is the date of ordinal day 1 in the fixture.
var Day1 = time.Date(2020, time.March, 2, 0, 0, 0, 0, time.UTC)

// County is the fixture input for one county.
type County struct {
	Name       string
	FIPS       int
	Population int64
	Cases      []int64
	Deaths     []int64
}

// FixtureCounties are ten days of three locations. Fulton matches the worked example
// in the package docs: cases 10,12,15,15,20,22,25,30,30,35.
var FixtureCounties = []County{
	{
		Name: "Fulton", FIPS: 13121, Population: 1_000_000,
		Cases:  []int64{10, 12, 15, 15, 20, 22, 25, 30, 30, 35},
		Deaths: []int64{0, 0, 1, 1, 1, 2, 2, 3, 3, 4},
	},
	{
		Name: "Cobb", FIPS: 13067, Population: 500_000,
		Cases:  []int64{5, 6, 8, 9, 12, 13, 15, 18, 20, 21},
		Deaths: []int64{0, 0, 0, 1, 1, 1, 1, 2, 2, 2},
	},
	{
		Name: "Unknown", FIPS: 0, Population: 1,
		Cases:  []int64{0, 0, 1, 1, 1, 2, 2, 2, 3, 3},
		Deaths: []int64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	},
}

// StatePopulation is the statewide population used for per-capita figures.
const StatePopulation = 10_000_000

// Series builds the statewide and county series from counties. County rows are
// ordered by day, then by the order of counties.
func Series(counties []County) ([]models.DailyRecord, []models.CountyDailyRecord) {
	days := len(counties[0].Cases)
	statewide := make([]models.DailyRecord, days)
	var rows []models.CountyDailyRecord

	for d := 0; d < days; d++ {
		var cases, deaths int64
		for _, c := range counties {
			cases += c.Cases[d]
			deaths += c.Deaths[d]
		}
		statewide[d] = record(d, cases, deaths, StatePopulation)
		if d > 0 {
			statewide[d].NewCaseDelta = cases - statewide[d-1].TotalCases
			statewide[d].NewDeathDelta = deaths - statewide[d-1].TotalDeaths
		}

		for _, c := range counties {
			r := models.CountyDailyRecord{
				DailyRecord: record(d, c.Cases[d], c.Deaths[d], c.Population),
				County:      c.Name,
				FIPS:        c.FIPS,
			}
			if d > 0 {
				r.NewCaseDelta = c.Cases[d] - c.Cases[d-1]
				r.NewDeathDelta = c.Deaths[d] - c.Deaths[d-1]
			}
			if c.FIPS == 0 {
				r.InfectionPer100k, r.DeathsPer100k, r.PctPopInfected = 0, 0, 0
			}
			rows = append(rows, r)
		}
	}
	return statewide, rows
}

func record(d int, cases, deaths, population int64) models.DailyRecord {
	r := models.DailyRecord{
		Day:              d + 1,
		Date:             Day1.AddDate(0, 0, d),
		TotalCases:       cases,
		TotalDeaths:      deaths,
		NewCaseDelta:     cases,
		NewDeathDelta:    deaths,
		Population:       population,
		InfectionPer100k: float64(cases) / float64(population) * 100_000,
		DeathsPer100k:    float64(deaths) / float64(population) * 100_000,
		PctPopInfected:   float64(cases) / float64(population) * 100,
	}
	if cases > 0 {
		r.FatalityRate = float64(deaths) / float64(cases)
	}
	return r
}

// Dataset builds the fixture snapshot. It panics on invalid input.
func Dataset() *engine.Dataset {
	statewide, counties := Series(FixtureCounties)
	ds, err := engine.NewDataset(statewide, counties, Demographics(), "fixture", Day1.AddDate(0, 0, 10))
	if err != nil {
		panic(err)
	}
	return ds
}

// Demographics is a small report snapshot.
func Demographics() models.Demographics {
	return models.Demographics{
		Age: []models.AgeGroup{
			{Ages: "0-17", Total: 10, TotalDeaths: 0},
			{Ages: "18-59", Total: 40, TotalDeaths: 2},
			{Ages: "60+", Total: 9, TotalDeaths: 4},
		},
		Gender: []models.GenderRow{
			{Gender: "Female", TotalSurvived: 30, TotalDeaths: 2},
			{Gender: "Male", TotalSurvived: 25, TotalDeaths: 4},
		},
		Testing: []models.TestingRow{
			{LabType: "Commercial", Total: 100, Positive: 40},
			{LabType: "GPHL", Total: 50, Positive: 19},
		},
		Race: []models.RaceRow{
			{Race: "White", Count: 30},
			{Race: "African-American", Count: 25},
		},
		Summary: []models.SummaryRow{
			{Label: "Total", Value: 59},
			{Label: "Hospitalized", Value: 12},
			{Label: "Deaths", Value: 6},
		},
	}
}
