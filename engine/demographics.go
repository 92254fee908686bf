package engine

import (
	"math"

	"ga-covid-server/models"
)

// GenderTable recomputes PctDeaths as each gender's share of all deaths, rounded to
// three decimals.
func GenderTable(rows []models.GenderRow) []models.GenderRow {
	var deaths int64
	for _, r := range rows {
		deaths += r.TotalDeaths
	}
	out := make([]models.GenderRow, len(rows))
	for i, r := range rows {
		if deaths > 0 {
			r.PctDeaths = math.Round(float64(r.TotalDeaths)/float64(deaths)*1000) / 1000
		} else {
			r.PctDeaths = 0
		}
		out[i] = r
	}
	return out
}

// TestingTable fills Negative as Total - Positive.
func TestingTable(rows []models.TestingRow) []models.TestingRow {
	out := make([]models.TestingRow, len(rows))
	for i, r := range rows {
		r.Negative = r.Total - r.Positive
		out[i] = r
	}
	return out
}

// SeverityBreakdown splits the report summary (confirmed, hospitalized, deaths, in that
// order) into mild cases, hospitalized and deaths.
func SeverityBreakdown(summary []models.SummaryRow) []models.SummaryRow {
	if len(summary) < 3 {
		return nil
	}
	confirmed, hospitalized, deaths := summary[0].Value, summary[1].Value, summary[2].Value
	return []models.SummaryRow{
		{Label: "Mild Cases", Value: confirmed - (hospitalized + deaths)},
		{Label: "Hospitalized", Value: hospitalized},
		{Label: "Deaths", Value: deaths},
	}
}
