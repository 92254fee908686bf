package models

// Option is one entry of a select or radio control.
type Option struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Disabled bool   `json:"disabled,omitempty"`
}

// SliderBounds describes the day slider of the dashboard.
type SliderBounds struct {
	MinDay  int    `json:"min_day"`
	MaxDay  int    `json:"max_day"`
	MinDate string `json:"min_date"`
	MaxDate string `json:"max_date"`
}

type DashboardOptions struct {
	Counties       []Option     `json:"counties"`
	StatewideOnly  []Option     `json:"statewide_only"`
	Statistics     []Option     `json:"statistics"`
	BarStatistics  []Option     `json:"bar_statistics"`
	SelectionGroup []Option     `json:"selection_groups"`
	Slider         SliderBounds `json:"slider"`
}

// CountyLatestRow is one row of the latest-day county table.
type CountyLatestRow struct {
	Date              string  `json:"Date"`
	Day               int     `json:"Day"`
	County            string  `json:"County"`
	Cases             int64   `json:"Cases"`
	DailyCaseChange   int64   `json:"DailyCaseChange"`
	DailyDeathsChange int64   `json:"DailyDeathsChange"`
	Deaths            int64   `json:"Deaths"`
	CasesPer100kPop   int64   `json:"CasesPer100kPop"`
	DeathsPer100kPop  int64   `json:"DeathsPer100kPop"`
	PctPopInfected    float64 `json:"PctPopInfected"`
	FatalityRate      float64 `json:"Fatality_Rate"`
	Population        int64   `json:"Population"`
}
