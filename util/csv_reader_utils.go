package util

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"ga-covid-server/models"
)

// DisplayDateLayout is how snapshot dates are rendered in tables.
const DisplayDateLayout = "01/02/2006"

var dateLayouts = []string{"2006-01-02", "01/02/2006", "2006-01-02 15:04:05", "01/02/06"}

// csvTable is a string view over a gota dataframe, one slice per column.
type csvTable struct {
	names []string
	cols  map[string][]string
	nrow  int
}

// readCSVTable loads data into a dataframe keeping every column as a string,
// then checks that the required columns are present.
func readCSVTable(data []byte, required ...string) (*csvTable, error) {
	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", df.Err)
	}

	t := &csvTable{cols: map[string][]string{}, nrow: df.Nrow()}
	for _, name := range df.Names() {
		clean := strings.TrimSpace(name)
		t.names = append(t.names, clean)
		t.cols[clean] = df.Col(name).Records()
	}
	for _, name := range required {
		if _, ok := t.cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return t, nil
}

func (t *csvTable) has(col string) bool {
	_, ok := t.cols[col]
	return ok
}

func (t *csvTable) str(col string, i int) string {
	return strings.TrimSpace(t.cols[col][i])
}

// blank reports the empty, NaN and infinite markers pandas writes, which read as zero.
func blank(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "na", "<nil>", "inf", "-inf", "+inf":
		return true
	}
	return false
}

func (t *csvTable) float(col string, i int) (float64, error) {
	if !t.has(col) {
		return 0, nil
	}
	s := t.str(col, i)
	if blank(s) {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("row %d column %s: %w", i+1, col, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, nil
	}
	return v, nil
}

// int parses integer columns that may have been written as floats ("12.0").
func (t *csvTable) int(col string, i int) (int64, error) {
	if !t.has(col) {
		return 0, nil
	}
	s := t.str(col, i)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := t.float(col, i)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(f)), nil
}

func (t *csvTable) date(col string, i int) (time.Time, error) {
	s := t.str(col, i)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("row %d column %s: unrecognized date %q", i+1, col, s)
}

// displayDate renders the Date column of snapshot tables, keeping unparseable values as-is.
func (t *csvTable) displayDate(i int) string {
	if !t.has("Date") {
		return ""
	}
	if d, err := t.date("Date", i); err == nil {
		return d.Format(DisplayDateLayout)
	}
	return t.str("Date", i)
}

// rowErr accumulates the first parse error of a row.
type rowErr struct{ err error }

func (r *rowErr) int(t *csvTable, col string, i int) int64 {
	v, err := t.int(col, i)
	if err != nil && r.err == nil {
		r.err = err
	}
	return v
}

func (r *rowErr) float(t *csvTable, col string, i int) float64 {
	v, err := t.float(col, i)
	if err != nil && r.err == nil {
		r.err = err
	}
	return v
}

func (r *rowErr) date(t *csvTable, col string, i int) time.Time {
	v, err := t.date(col, i)
	if err != nil && r.err == nil {
		r.err = err
	}
	return v
}

func (r *rowErr) record(t *csvTable, i int) models.DailyRecord {
	return models.DailyRecord{
		Day:              int(r.int(t, "Day", i)),
		Date:             r.date(t, "Date", i),
		TotalCases:       r.int(t, "TotalCases", i),
		TotalDeaths:      r.int(t, "TotalDeaths", i),
		NewCaseDelta:     r.int(t, "nConfirmed_Change", i),
		NewDeathDelta:    r.int(t, "nDeaths_Change", i),
		FatalityRate:     r.float(t, "Fatality_Rate", i),
		Population:       r.int(t, "Population", i),
		InfectionPer100k: r.float(t, "Infection_per_100k", i),
		DeathsPer100k:    r.float(t, "Deaths_per_100k", i),
		PctPopInfected:   r.float(t, "PctPopInfected", i),
	}
}

// derive fills the columns a canonical file may omit: first-difference deltas, the
// fatality rate and, when the population is known, the per-capita figures.
func derive(t *csvTable, rec, prev *models.DailyRecord) {
	if !t.has("nConfirmed_Change") {
		rec.NewCaseDelta = rec.TotalCases
		if prev != nil {
			rec.NewCaseDelta = rec.TotalCases - prev.TotalCases
		}
	}
	if !t.has("nDeaths_Change") {
		rec.NewDeathDelta = rec.TotalDeaths
		if prev != nil {
			rec.NewDeathDelta = rec.TotalDeaths - prev.TotalDeaths
		}
	}
	if !t.has("Fatality_Rate") && rec.TotalCases > 0 {
		rec.FatalityRate = float64(rec.TotalDeaths) / float64(rec.TotalCases)
	}
	if rec.Population <= 0 {
		return
	}
	pop := float64(rec.Population)
	if !t.has("Infection_per_100k") {
		rec.InfectionPer100k = float64(rec.TotalCases) / pop * 100_000
	}
	if !t.has("Deaths_per_100k") {
		rec.DeathsPer100k = float64(rec.TotalDeaths) / pop * 100_000
	}
	if !t.has("PctPopInfected") {
		rec.PctPopInfected = float64(rec.TotalCases) / pop * 100
	}
}

// ParseStatewideCSV parses the statewide daily series (one row per day).
func ParseStatewideCSV(data []byte) ([]models.DailyRecord, error) {
	t, err := readCSVTable(data, "Day", "Date", "TotalCases", "TotalDeaths")
	if err != nil {
		return nil, fmt.Errorf("failed to read statewide series: %w", err)
	}
	out := make([]models.DailyRecord, 0, t.nrow)
	for i := 0; i < t.nrow; i++ {
		var re rowErr
		rec := re.record(t, i)
		if re.err != nil {
			return nil, fmt.Errorf("failed to read statewide series: %w", re.err)
		}
		var prev *models.DailyRecord
		if len(out) > 0 {
			prev = &out[len(out)-1]
		}
		derive(t, &rec, prev)
		out = append(out, rec)
	}
	return out, nil
}

// ParseCountyCSV parses the per-county daily series (one row per day and county).
func ParseCountyCSV(data []byte) ([]models.CountyDailyRecord, error) {
	t, err := readCSVTable(data, "Day", "Date", "County", "TotalCases", "TotalDeaths")
	if err != nil {
		return nil, fmt.Errorf("failed to read county series: %w", err)
	}
	out := make([]models.CountyDailyRecord, 0, t.nrow)
	last := map[string]models.DailyRecord{}
	for i := 0; i < t.nrow; i++ {
		var re rowErr
		rec := models.CountyDailyRecord{
			DailyRecord: re.record(t, i),
			County:      t.str("County", i),
			FIPS:        int(re.int(t, "fips", i)),
		}
		if re.err != nil {
			return nil, fmt.Errorf("failed to read county series: %w", re.err)
		}
		var prev *models.DailyRecord
		if p, ok := last[rec.County]; ok {
			prev = &p
		}
		derive(t, &rec.DailyRecord, prev)
		last[rec.County] = rec.DailyRecord
		out = append(out, rec)
	}
	return out, nil
}

// ParseAgeCSV parses the cases-by-age table; counts are rounded to integers.
func ParseAgeCSV(data []byte) ([]models.AgeGroup, error) {
	t, err := readCSVTable(data, "Ages")
	if err != nil {
		return nil, fmt.Errorf("failed to read age table: %w", err)
	}
	out := make([]models.AgeGroup, 0, t.nrow)
	for i := 0; i < t.nrow; i++ {
		var re rowErr
		row := models.AgeGroup{
			Ages:          t.str("Ages", i),
			Total:         re.int(t, "Ages_Total", i),
			Pct:           re.float(t, "Ages_Pct", i),
			TotalInfected: re.int(t, "Ages_Infected_Total", i),
			PctInfected:   re.float(t, "Ages_Inf_Pct", i),
			TotalDeaths:   re.int(t, "Ages_Death_Total", i),
			PctDeaths:     re.float(t, "Ages_Death_Pct", i),
			Date:          t.displayDate(i),
		}
		if re.err != nil {
			return nil, fmt.Errorf("failed to read age table: %w", re.err)
		}
		out = append(out, row)
	}
	return out, nil
}

// ParseGenderCSV parses the cases-by-gender table.
func ParseGenderCSV(data []byte) ([]models.GenderRow, error) {
	t, err := readCSVTable(data, "Gender")
	if err != nil {
		return nil, fmt.Errorf("failed to read gender table: %w", err)
	}
	out := make([]models.GenderRow, 0, t.nrow)
	for i := 0; i < t.nrow; i++ {
		var re rowErr
		row := models.GenderRow{
			Gender:        t.str("Gender", i),
			TotalSurvived: re.int(t, "Gender_Num", i),
			PctSurvived:   re.float(t, "Gender_Pct", i),
			TotalDeaths:   re.int(t, "nDeaths", i),
			Date:          t.displayDate(i),
		}
		if re.err != nil {
			return nil, fmt.Errorf("failed to read gender table: %w", re.err)
		}
		out = append(out, row)
	}
	return out, nil
}

// ParseTestingCSV parses the tests-by-lab table. Negative is left to the engine.
func ParseTestingCSV(data []byte) ([]models.TestingRow, error) {
	t, err := readCSVTable(data, "LabType", "TotalTests", "PositiveTests")
	if err != nil {
		return nil, fmt.Errorf("failed to read testing table: %w", err)
	}
	out := make([]models.TestingRow, 0, t.nrow)
	for i := 0; i < t.nrow; i++ {
		var re rowErr
		row := models.TestingRow{
			LabType:  t.str("LabType", i),
			Total:    re.int(t, "TotalTests", i),
			Positive: re.int(t, "PositiveTests", i),
			Date:     t.displayDate(i),
		}
		if re.err != nil {
			return nil, fmt.Errorf("failed to read testing table: %w", re.err)
		}
		out = append(out, row)
	}
	return out, nil
}

// ParseRaceCSV parses the cases-by-race table.
func ParseRaceCSV(data []byte) ([]models.RaceRow, error) {
	t, err := readCSVTable(data, "Race", "Race_Num")
	if err != nil {
		return nil, fmt.Errorf("failed to read race table: %w", err)
	}
	out := make([]models.RaceRow, 0, t.nrow)
	for i := 0; i < t.nrow; i++ {
		var re rowErr
		row := models.RaceRow{
			Race:  t.str("Race", i),
			Count: re.int(t, "Race_Num", i),
			Date:  t.displayDate(i),
		}
		if re.err != nil {
			return nil, fmt.Errorf("failed to read race table: %w", re.err)
		}
		out = append(out, row)
	}
	return out, nil
}

// ParseSummaryCSV parses the report summary. The first column is the label and the
// second the value; rows are confirmed cases, hospitalized and deaths.
func ParseSummaryCSV(data []byte) ([]models.SummaryRow, error) {
	t, err := readCSVTable(data)
	if err != nil {
		return nil, fmt.Errorf("failed to read summary table: %w", err)
	}
	if len(t.names) < 2 {
		return nil, fmt.Errorf("failed to read summary table: need a label and a value column, got %v", t.names)
	}
	label, value := t.names[0], t.names[1]
	out := make([]models.SummaryRow, 0, t.nrow)
	for i := 0; i < t.nrow; i++ {
		v, err := t.int(value, i)
		if err != nil {
			return nil, fmt.Errorf("failed to read summary table: %w", err)
		}
		out = append(out, models.SummaryRow{Label: t.str(label, i), Value: v})
	}
	return out, nil
}

// ReadCSVFile loads a CSV file from disk.
func ReadCSVFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	return data, nil
}
