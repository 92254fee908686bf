package models

// AgeGroup is one row of the cases-by-age table.
type AgeGroup struct {
	Ages          string  `json:"Ages"`
	Total         int64   `json:"Total"`
	Pct           float64 `json:"Pct"`
	TotalInfected int64   `json:"TotalInfected"`
	PctInfected   float64 `json:"PctInfected"`
	TotalDeaths   int64   `json:"TotalDeaths"`
	PctDeaths     float64 `json:"PctDeaths"`
	Date          string  `json:"Date"`
}

type GenderRow struct {
	Gender        string  `json:"Gender"`
	TotalSurvived int64   `json:"TotalSurvived"`
	PctSurvived   float64 `json:"PctSurvived"`
	TotalDeaths   int64   `json:"TotalDeaths"`
	PctDeaths     float64 `json:"PctDeaths"`
	Date          string  `json:"Date"`
}

type TestingRow struct {
	LabType  string `json:"LabType"`
	Total    int64  `json:"Total"`
	Positive int64  `json:"Positive"`
	Negative int64  `json:"Negative"`
	Date     string `json:"Date"`
}

type RaceRow struct {
	Race  string `json:"Race"`
	Count int64  `json:"Race_Num"`
	Date  string `json:"Date"`
}

// SummaryRow is one slice of the case severity pie.
type SummaryRow struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// Demographics holds the single-report snapshot tables.
type Demographics struct {
	Age     []AgeGroup   `json:"age"`
	Gender  []GenderRow  `json:"gender"`
	Testing []TestingRow `json:"testing"`
	Race    []RaceRow    `json:"race"`
	// Summary is the raw report summary: confirmed cases, hospitalized, deaths.
	Summary []SummaryRow `json:"summary"`
}
