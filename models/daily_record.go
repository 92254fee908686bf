package models

import "time"

// AllCounties is the pseudo-location for the statewide series.
const AllCounties = "All Counties"

// DailyRecord is one day of the statewide series.
// Population and the per-capita fields are optional on the statewide series and zero when absent.
type DailyRecord struct {
	Day              int       `json:"day"`
	Date             time.Time `json:"date"`
	TotalCases       int64     `json:"total_cases"`
	TotalDeaths      int64     `json:"total_deaths"`
	NewCaseDelta     int64     `json:"new_case_delta"`
	NewDeathDelta    int64     `json:"new_death_delta"`
	FatalityRate     float64   `json:"fatality_rate"`
	Population       int64     `json:"population,omitempty"`
	InfectionPer100k float64   `json:"infection_per_100k"`
	DeathsPer100k    float64   `json:"deaths_per_100k"`
	PctPopInfected   float64   `json:"pct_pop_infected"`
}

// CountyDailyRecord is one (day, county) row of the per-county series.
type CountyDailyRecord struct {
	DailyRecord
	County string `json:"county"`
	FIPS   int    `json:"fips"`
}
