package util

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statewideCSV = `Date,Day,TotalCases,TotalDeaths,nConfirmed_Change,nDeaths_Change,Fatality_Rate,Population,Infection_per_100k,Deaths_per_100k,PctPopInfected
2020-03-02,1,2,0,2,0,0.0,10617423,0.02,0.0,0.00002
2020-03-03,2,5,0,3,0,0.0,10617423,0.05,0.0,0.00005
2020-03-04,3,9,1,4,1,0.1111,10617423,0.08,0.01,0.00008
`

const countyCSV = `Date,Day,County,fips,TotalCases,TotalDeaths,nConfirmed_Change,nDeaths_Change,Fatality_Rate,Population,Infection_per_100k,Deaths_per_100k,PctPopInfected
03/02/2020,1,Fulton,13121.0,10,0,10,0,0.0,1063937,0.94,0.0,0.0009
03/02/2020,1,Unknown,,0,0,0,0,nan,,inf,inf,
03/03/2020,2,Fulton,13121.0,12.0,1,2,1,0.0833,1063937,1.13,0.09,0.0011
`

func TestParseStatewideCSV(t *testing.T) {
	rows, err := ParseStatewideCSV([]byte(statewideCSV))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 1, rows[0].Day)
	assert.Equal(t, time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC), rows[0].Date)
	assert.Equal(t, int64(9), rows[2].TotalCases)
	assert.Equal(t, int64(4), rows[2].NewCaseDelta)
	assert.Equal(t, int64(1), rows[2].NewDeathDelta)
	assert.InDelta(t, 0.1111, rows[2].FatalityRate, 1e-9)
	assert.Equal(t, int64(10617423), rows[2].Population)
	assert.InDelta(t, 0.08, rows[2].InfectionPer100k, 1e-9)
}

func TestParseStatewideCSV_DerivesMissingColumns(t *testing.T) {
	data := "Day,Date,TotalCases,TotalDeaths\n1,2020-03-02,2,0\n2,2020-03-03,6,1\n3,2020-03-04,6,2\n"

	rows, err := ParseStatewideCSV([]byte(data))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []int64{2, 4, 0}, []int64{rows[0].NewCaseDelta, rows[1].NewCaseDelta, rows[2].NewCaseDelta})
	assert.Equal(t, []int64{0, 1, 1}, []int64{rows[0].NewDeathDelta, rows[1].NewDeathDelta, rows[2].NewDeathDelta})
	assert.Equal(t, 0.0, rows[0].FatalityRate)
	assert.InDelta(t, 1.0/6, rows[1].FatalityRate, 1e-9)
	assert.Zero(t, rows[1].Population)
}

func TestParseCountyCSV_DerivesPerCapitaFromPopulation(t *testing.T) {
	data := "Day,Date,County,Population,TotalCases,TotalDeaths\n" +
		"1,2020-03-02,Fulton,1000000,10,0\n" +
		"1,2020-03-02,Unknown,,4,1\n" +
		"2,2020-03-03,Fulton,1000000,35,4\n"

	rows, err := ParseCountyCSV([]byte(data))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	fulton := rows[2]
	assert.InDelta(t, 3.5, fulton.InfectionPer100k, 1e-9)
	assert.InDelta(t, 0.4, fulton.DeathsPer100k, 1e-9)
	assert.InDelta(t, 0.0035, fulton.PctPopInfected, 1e-12)
	assert.Equal(t, int64(25), fulton.NewCaseDelta)

	unknown := rows[1]
	assert.Zero(t, unknown.Population)
	assert.Zero(t, unknown.InfectionPer100k)
	assert.Zero(t, unknown.DeathsPer100k)
	assert.Zero(t, unknown.PctPopInfected)
}

func TestParseStatewideCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing column", "Day,Date,TotalCases\n1,2020-03-02,2\n"},
		{"bad date", "Day,Date,TotalCases,TotalDeaths\n1,March 2,2,0\n"},
		{"bad number", "Day,Date,TotalCases,TotalDeaths\n1,2020-03-02,two,0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStatewideCSV([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestParseCountyCSV(t *testing.T) {
	rows, err := ParseCountyCSV([]byte(countyCSV))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	fulton := rows[0]
	assert.Equal(t, "Fulton", fulton.County)
	assert.Equal(t, 13121, fulton.FIPS)
	assert.Equal(t, time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC), fulton.Date)

	unknown := rows[1]
	assert.Equal(t, "Unknown", unknown.County)
	assert.Equal(t, 0, unknown.FIPS)
	assert.Zero(t, unknown.FatalityRate)
	assert.Zero(t, unknown.InfectionPer100k)
	assert.Zero(t, unknown.DeathsPer100k)
	assert.Zero(t, unknown.Population)

	assert.Equal(t, int64(12), rows[2].TotalCases)
	assert.Equal(t, int64(2), rows[2].NewCaseDelta)
}

func TestParseCountyCSV_DerivesDeltasPerCounty(t *testing.T) {
	data := `Day,Date,County,TotalCases,TotalDeaths
1,2020-03-02,Fulton,10,0
1,2020-03-02,Cobb,5,0
2,2020-03-03,Fulton,12,1
2,2020-03-03,Cobb,6,0
`
	rows, err := ParseCountyCSV([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, int64(2), rows[2].NewCaseDelta)
	assert.Equal(t, int64(1), rows[2].NewDeathDelta)
	assert.Equal(t, int64(1), rows[3].NewCaseDelta)
}

func TestParseDemographicTables(t *testing.T) {
	age, err := ParseAgeCSV([]byte(`Ages,Ages_Total,Ages_Pct,Ages_Infected_Total,Ages_Inf_Pct,Ages_Death_Total,Ages_Death_Pct,Date
0-17,120.4,0.04,118.6,0.04,0.0,0.0,2020-05-03
60+,900.0,0.3,700.0,0.25,200.2,0.8,2020-05-03
`))
	require.NoError(t, err)
	require.Len(t, age, 2)
	assert.Equal(t, "0-17", age[0].Ages)
	assert.Equal(t, int64(120), age[0].Total)
	assert.Equal(t, int64(119), age[0].TotalInfected)
	assert.Equal(t, int64(200), age[1].TotalDeaths)
	assert.Equal(t, "05/03/2020", age[1].Date)

	gender, err := ParseGenderCSV([]byte("Gender,Gender_Num,Gender_Pct,nDeaths,Date\nFemale,30,0.55,2,2020-05-03\nMale,25.0,0.45,4,2020-05-03\n"))
	require.NoError(t, err)
	require.Len(t, gender, 2)
	assert.Equal(t, int64(25), gender[1].TotalSurvived)
	assert.Equal(t, int64(4), gender[1].TotalDeaths)

	labs, err := ParseTestingCSV([]byte("LabType,TotalTests,PositiveTests,Date\nCommercial,100,40,2020-05-03\n"))
	require.NoError(t, err)
	require.Len(t, labs, 1)
	assert.Equal(t, int64(100), labs[0].Total)
	assert.Equal(t, int64(40), labs[0].Positive)
	assert.Zero(t, labs[0].Negative)

	race, err := ParseRaceCSV([]byte("Race,Race_Num,Date\nBlack,1200,2020-05-03\nWhite,900,2020-05-03\n"))
	require.NoError(t, err)
	require.Len(t, race, 2)
	assert.Equal(t, int64(1200), race[0].Count)

	summary, err := ParseSummaryCSV([]byte("Category,Count,Date\nTotal,59,2020-05-03\nHospitalized,12,2020-05-03\nDeaths,6,2020-05-03\n"))
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, "Hospitalized", summary[1].Label)
	assert.Equal(t, int64(6), summary[2].Value)
}

func TestParseDemographicTables_MissingColumns(t *testing.T) {
	_, err := ParseRaceCSV([]byte("Race,Date\nBlack,2020-05-03\n"))
	assert.Error(t, err)
	_, err = ParseTestingCSV([]byte("LabType,TotalTests\nGPHL,50\n"))
	assert.Error(t, err)
	_, err = ParseSummaryCSV([]byte("Only\n1\n"))
	assert.Error(t, err)
}

func TestReadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "georgia.csv")
	require.NoError(t, os.WriteFile(path, []byte(statewideCSV), 0o644))

	data, err := ReadCSVFile(path)
	require.NoError(t, err)
	assert.Equal(t, statewideCSV, string(data))

	_, err = ReadCSVFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
