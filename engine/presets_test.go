package engine_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ga-covid-server/engine"
	"ga-covid-server/engine/enginetest"
	"ga-covid-server/models"
)

func TestSelectionFor(t *testing.T) {
	ds := enginetest.Dataset()
	family := []string{"Fulton", "Cobb"}

	tests := []struct {
		group engine.SelectionGroup
		want  []string
	}{
		{engine.GroupAll, []string{models.AllCounties}},
		{engine.GroupTop10, []string{"Fulton", "Cobb"}},
		{engine.GroupUnassigned, []string{"Unknown", "Non-Georgia Resident"}},
		{engine.GroupFamily, family},
		{engine.GroupCustom, []string{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.group), func(t *testing.T) {
			got, err := engine.SelectionFor(ds, tt.group, family)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := engine.SelectionFor(ds, "nope", family)
	assert.ErrorIs(t, err, engine.ErrConfiguration)
}

func TestTopCounties_Limit(t *testing.T) {
	ds := enginetest.Dataset()
	assert.Equal(t, []string{"Fulton"}, engine.TopCounties(ds, 1))
}

func TestOptions(t *testing.T) {
	ds := enginetest.Dataset()
	opts := engine.Options(ds)

	assert.Len(t, opts.Counties, 3)
	assert.Equal(t, models.AllCounties, opts.StatewideOnly[0].Value)
	assert.Equal(t, models.SliderBounds{MinDay: 1, MaxDay: 10, MinDate: "03/02/2020", MaxDate: "03/11/2020"}, opts.Slider)

	require.Len(t, opts.BarStatistics, len(models.AllStatistics))
	for _, o := range opts.BarStatistics {
		stat, err := models.ParseStatistic(o.Value)
		require.NoError(t, err)
		assert.Equal(t, stat.Class() == models.Rate, o.Disabled, o.Value)
	}
}

func TestLatestCountyTable(t *testing.T) {
	rows := engine.LatestCountyTable(enginetest.Dataset())
	require.Len(t, rows, 3)

	assert.Equal(t, "Fulton", rows[0].County)
	assert.Equal(t, 10, rows[0].Day)
	assert.Equal(t, int64(35), rows[0].Cases)
	assert.Equal(t, int64(5), rows[0].DailyCaseChange)
	assert.Equal(t, int64(3), rows[0].CasesPer100kPop)
	assert.Equal(t, int64(1_000_000), rows[0].Population)
}

func TestDescribeSelection(t *testing.T) {
	ds := enginetest.Dataset()

	text := engine.DescribeSelection(ds, engine.Selection{
		Statistic:      models.StatTotalCases,
		Range:          engine.DayRange{StartExclusive: 5, EndInclusive: 50},
		Locations:      []string{"Fulton", "Cobb"},
		Representation: models.RepresentationLine,
	})
	assert.Contains(t, text, "Total Confirmed Cases")
	assert.Contains(t, text, "Dates: 03/07/2020 - 03/11/2020")
	assert.Contains(t, text, "Days: 6 - 10")
	assert.Contains(t, text, "Locations: [Fulton, Cobb]")

	text = engine.DescribeSelection(ds, engine.Selection{
		Statistic:      models.StatDeathsPer100k,
		Range:          engine.DayRange{StartExclusive: 0, EndInclusive: 10},
		Locations:      []string{models.AllCounties},
		Representation: models.RepresentationBar,
	})
	assert.True(t, strings.HasPrefix(text, "You have selected: Deaths per 100k Population which is only available as a line graph"))
}

func TestDemographicTables(t *testing.T) {
	demo := enginetest.Demographics()

	gender := engine.GenderTable(demo.Gender)
	assert.Equal(t, 0.333, gender[0].PctDeaths)
	assert.Equal(t, 0.667, gender[1].PctDeaths)

	labs := engine.TestingTable(demo.Testing)
	assert.Equal(t, int64(60), labs[0].Negative)
	assert.Equal(t, int64(31), labs[1].Negative)

	assert.Equal(t, []models.SummaryRow{
		{Label: "Mild Cases", Value: 41},
		{Label: "Hospitalized", Value: 12},
		{Label: "Deaths", Value: 6},
	}, engine.SeverityBreakdown(demo.Summary))
	assert.Nil(t, engine.SeverityBreakdown(demo.Summary[:2]))
}
