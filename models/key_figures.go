package models

// KeyFigures are the summary boxes shown above the main graph.
// The average rates are nil when they are undefined for the selection.
type KeyFigures struct {
	TotalCasesAtReference  int64    `json:"total_cases"`
	TotalDeathsAtReference int64    `json:"total_deaths"`
	CaseIncrease           int64    `json:"case_increase"`
	DeathIncrease          int64    `json:"death_increase"`
	AverageInfectionRate   *float64 `json:"average_infection_rate"`
	AverageFatalityRatePct *float64 `json:"average_fatality_rate_pct"`
	ReferenceDay           int      `json:"reference_day"`
	AsOfDate               string   `json:"as_of_date"`
	SinceDate              string   `json:"since_date"`
	SelectionSize          int      `json:"selection_size"`
}
