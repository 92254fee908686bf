package enginetest

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"sync"

	"ga-covid-server/api/gadata"
	"ga-covid-server/models"
)

var seriesHeader = []string{"Date", "Day", "TotalCases", "TotalDeaths", "nConfirmed_Change", "nDeaths_Change",
	"Fatality_Rate", "Population", "Infection_per_100k", "Deaths_per_100k", "PctPopInfected"}

func seriesFields(r models.DailyRecord) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	i := func(v int64) string { return strconv.FormatInt(v, 10) }
	return []string{r.Date.Format("2006-01-02"), strconv.Itoa(r.Day), i(r.TotalCases), i(r.TotalDeaths),
		i(r.NewCaseDelta), i(r.NewDeathDelta), f(r.FatalityRate), i(r.Population),
		f(r.InfectionPer100k), f(r.DeathsPer100k), f(r.PctPopInfected)}
}

func writeCSV(rows [][]string) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.WriteAll(rows)
	return buf.Bytes()
}

// StatewideCSV renders the statewide series of counties in the canonical CSV layout.
func StatewideCSV(counties []County) []byte {
	statewide, _ := Series(counties)
	rows := [][]string{seriesHeader}
	for _, r := range statewide {
		rows = append(rows, seriesFields(r))
	}
	return writeCSV(rows)
}

// CountiesCSV renders the county series of counties in the canonical CSV layout.
func CountiesCSV(counties []County) []byte {
	_, countyRows := Series(counties)
	rows := [][]string{append([]string{"County", "fips"}, seriesHeader...)}
	for _, r := range countyRows {
		rows = append(rows, append([]string{r.County, strconv.Itoa(r.FIPS)}, seriesFields(r.DailyRecord)...))
	}
	return writeCSV(rows)
}

// TableCSVs renders Demographics() as the report's snapshot tables.
func TableCSVs() map[gadata.Table][]byte {
	demo := Demographics()
	const date = "2020-03-11"
	tables := map[gadata.Table][][]string{
		gadata.TableAge:     {{"Ages", "Ages_Total", "Ages_Death_Total", "Date"}},
		gadata.TableGender:  {{"Gender", "Gender_Num", "nDeaths", "Date"}},
		gadata.TableTesting: {{"LabType", "TotalTests", "PositiveTests", "Date"}},
		gadata.TableRace:    {{"Race", "Race_Num", "Date"}},
		gadata.TableSummary: {{"Category", "Count", "Date"}},
	}
	for _, a := range demo.Age {
		tables[gadata.TableAge] = append(tables[gadata.TableAge], []string{a.Ages, fmt.Sprint(a.Total), fmt.Sprint(a.TotalDeaths), date})
	}
	for _, g := range demo.Gender {
		tables[gadata.TableGender] = append(tables[gadata.TableGender], []string{g.Gender, fmt.Sprint(g.TotalSurvived), fmt.Sprint(g.TotalDeaths), date})
	}
	for _, l := range demo.Testing {
		tables[gadata.TableTesting] = append(tables[gadata.TableTesting], []string{l.LabType, fmt.Sprint(l.Total), fmt.Sprint(l.Positive), date})
	}
	for _, r := range demo.Race {
		tables[gadata.TableRace] = append(tables[gadata.TableRace], []string{r.Race, fmt.Sprint(r.Count), date})
	}
	for _, s := range demo.Summary {
		tables[gadata.TableSummary] = append(tables[gadata.TableSummary], []string{s.Label, fmt.Sprint(s.Value), date})
	}

	out := map[gadata.Table][]byte{}
	for name, rows := range tables {
		out[name] = writeCSV(rows)
	}
	return out
}

// Source is an in-memory gadata.DataSourceAPI. Fields may be replaced between loads;
// a non-nil Err fails every fetch.
type Source struct {
	mu        sync.Mutex
	Statewide []byte
	Counties  []byte
	Tables    map[gadata.Table][]byte
	Err       error
	Fetches   int
}

// NewSource serves the fixture counties and tables.
func NewSource() *Source {
	return &Source{
		Statewide: StatewideCSV(FixtureCounties),
		Counties:  CountiesCSV(FixtureCounties),
		Tables:    TableCSVs(),
	}
}

// Set replaces the served series.
func (s *Source) Set(statewide, counties []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Statewide, s.Counties = statewide, counties
}

// Fail makes every fetch return err; nil restores the source.
func (s *Source) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Err = err
}

func (s *Source) FetchStatewide(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fetches++
	return s.Statewide, s.Err
}

func (s *Source) FetchCounties(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Counties, s.Err
}

func (s *Source) FetchTable(_ context.Context, table gadata.Table) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	data, ok := s.Tables[table]
	if !ok {
		return nil, fmt.Errorf("no %s table", table)
	}
	return data, nil
}

// FetchCount returns how many loads hit the source.
func (s *Source) FetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Fetches
}
