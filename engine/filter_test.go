package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ga-covid-server/engine"
	"ga-covid-server/engine/enginetest"
	"ga-covid-server/models"
)

func days(rows []models.CountyDailyRecord) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Day
	}
	return out
}

func TestFilter_CountyWindow(t *testing.T) {
	ds := enginetest.Dataset()

	rs, err := engine.Filter(ds, engine.FilterRequest{
		Range:      engine.DayRange{StartExclusive: 5, EndInclusive: 10},
		Scope:      engine.Counties{Names: []string{"Fulton"}},
		Projection: engine.AllColumns{},
	})
	require.NoError(t, err)

	rows := rs.Rows()
	assert.Equal(t, []int{6, 7, 8, 9, 10}, days(rows))
	for _, r := range rows {
		assert.Equal(t, "Fulton", r.County)
	}
	assert.Equal(t, int64(35), rows[4].TotalCases)
}

func TestFilter_StatewideRowCount(t *testing.T) {
	ds := enginetest.Dataset()

	for lo := 0; lo < ds.MaxDay(); lo++ {
		for hi := lo + 1; hi <= ds.MaxDay(); hi++ {
			rs, err := engine.Filter(ds, engine.FilterRequest{
				Range:      engine.DayRange{StartExclusive: lo, EndInclusive: hi},
				Scope:      engine.Statewide{},
				Projection: engine.AllColumns{},
			})
			require.NoError(t, err)
			require.Equal(t, hi-lo, rs.Len(), "window (%d, %d]", lo, hi)

			rows := rs.Rows()
			assert.Equal(t, lo+1, rows[0].Day)
			assert.Equal(t, hi, rows[len(rows)-1].Day)
		}
	}
}

func TestFilter_AllCountiesWholeSeries(t *testing.T) {
	ds := enginetest.Dataset()

	scope, err := engine.ScopeFor([]string{models.AllCounties})
	require.NoError(t, err)

	rs, err := engine.Filter(ds, engine.FilterRequest{
		Range:      engine.DayRange{StartExclusive: 0, EndInclusive: ds.MaxDay()},
		Scope:      scope,
		Projection: engine.AllColumns{},
	})
	require.NoError(t, err)
	assert.Equal(t, ds.Statewide(), rs.Rows())
}

func TestFilter_StableOrderWithinDay(t *testing.T) {
	ds := enginetest.Dataset()

	rs, err := engine.Filter(ds, engine.FilterRequest{
		Range:      engine.DayRange{StartExclusive: 8, EndInclusive: 10},
		Scope:      engine.Counties{Names: []string{"Cobb", "Fulton"}},
		Projection: engine.AllColumns{},
	})
	require.NoError(t, err)

	var got []string
	for _, r := range rs.Rows() {
		got = append(got, r.County)
	}
	// source order is Fulton before Cobb on every day
	assert.Equal(t, []string{"Fulton", "Cobb", "Fulton", "Cobb"}, got)
}

func TestFilter_EmptyCountySelection(t *testing.T) {
	ds := enginetest.Dataset()

	rs, err := engine.Filter(ds, engine.FilterRequest{
		Range:      engine.DayRange{StartExclusive: 0, EndInclusive: 10},
		Scope:      engine.Counties{},
		Projection: engine.AllColumns{},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, rs.Len())
}

func TestFilter_SingleStatisticProjection(t *testing.T) {
	ds := enginetest.Dataset()

	rs, err := engine.Filter(ds, engine.FilterRequest{
		Range:      engine.DayRange{StartExclusive: 0, EndInclusive: 3},
		Scope:      engine.Counties{Names: []string{"Cobb"}},
		Projection: engine.SingleStatistic{Statistic: models.StatTotalCases},
	})
	require.NoError(t, err)

	rows := rs.Rows()
	require.Len(t, rows, 3)
	for i, r := range rows {
		assert.Equal(t, "Cobb", r.County)
		assert.Equal(t, i+1, r.Day)
		assert.Zero(t, r.TotalDeaths)
		assert.Zero(t, r.InfectionPer100k)
		assert.False(t, r.Date.IsZero())
	}
	assert.Equal(t, []int64{5, 6, 8}, []int64{rows[0].TotalCases, rows[1].TotalCases, rows[2].TotalCases})
}

func TestFilter_InvalidRanges(t *testing.T) {
	ds := enginetest.Dataset()

	tests := []struct {
		name string
		rng  engine.DayRange
	}{
		{"empty window", engine.DayRange{StartExclusive: 5, EndInclusive: 5}},
		{"reversed", engine.DayRange{StartExclusive: 6, EndInclusive: 4}},
		{"negative start", engine.DayRange{StartExclusive: -1, EndInclusive: 4}},
		{"end past max day", engine.DayRange{StartExclusive: 0, EndInclusive: 11}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Filter(ds, engine.FilterRequest{Range: tt.rng, Scope: engine.Statewide{}, Projection: engine.AllColumns{}})
			assert.ErrorIs(t, err, engine.ErrInvalidRange)
		})
	}
}

func TestRefilter_Idempotent(t *testing.T) {
	ds := enginetest.Dataset()
	rng := engine.DayRange{StartExclusive: 2, EndInclusive: 7}
	scope := engine.Counties{Names: []string{"Fulton", "Cobb"}}
	stat := engine.SingleStatistic{Statistic: models.StatNewCases}

	combined, err := engine.Filter(ds, engine.FilterRequest{Range: rng, Scope: scope, Projection: stat})
	require.NoError(t, err)

	wide, err := engine.Filter(ds, engine.FilterRequest{Range: rng, Scope: scope, Projection: engine.AllColumns{}})
	require.NoError(t, err)
	narrowed, err := wide.Refilter(engine.FilterRequest{Range: rng, Scope: scope, Projection: stat})
	require.NoError(t, err)
	assert.Equal(t, combined.Rows(), narrowed.Rows())

	again, err := combined.Refilter(engine.FilterRequest{Range: rng, Scope: scope, Projection: stat})
	require.NoError(t, err)
	assert.Equal(t, combined.Rows(), again.Rows())
}

func TestRefilter_Errors(t *testing.T) {
	ds := enginetest.Dataset()
	rs, err := engine.Filter(ds, engine.FilterRequest{
		Range:      engine.DayRange{StartExclusive: 2, EndInclusive: 7},
		Scope:      engine.Statewide{},
		Projection: engine.SingleStatistic{Statistic: models.StatTotalCases},
	})
	require.NoError(t, err)

	_, err = rs.Refilter(engine.FilterRequest{
		Range: engine.DayRange{StartExclusive: 2, EndInclusive: 7}, Scope: engine.Statewide{},
		Projection: engine.SingleStatistic{Statistic: models.StatTotalDeaths},
	})
	assert.ErrorIs(t, err, engine.ErrStatisticNotProjected)

	_, err = rs.Refilter(engine.FilterRequest{
		Range: engine.DayRange{StartExclusive: 0, EndInclusive: 7}, Scope: engine.Statewide{},
		Projection: engine.SingleStatistic{Statistic: models.StatTotalCases},
	})
	assert.ErrorIs(t, err, engine.ErrInvalidRange)

	_, err = rs.Refilter(engine.FilterRequest{
		Range: engine.DayRange{StartExclusive: 2, EndInclusive: 7}, Scope: engine.Counties{Names: []string{"Fulton"}},
		Projection: engine.SingleStatistic{Statistic: models.StatTotalCases},
	})
	assert.ErrorIs(t, err, engine.ErrConfiguration)
}

func TestScopeFor(t *testing.T) {
	scope, err := engine.ScopeFor([]string{models.AllCounties})
	require.NoError(t, err)
	assert.Equal(t, engine.Statewide{}, scope)

	scope, err = engine.ScopeFor([]string{"Fulton", "Cobb"})
	require.NoError(t, err)
	assert.Equal(t, engine.Counties{Names: []string{"Fulton", "Cobb"}}, scope)

	_, err = engine.ScopeFor([]string{models.AllCounties, "Fulton"})
	assert.ErrorIs(t, err, engine.ErrConfiguration)
}

func TestResolveLocations(t *testing.T) {
	ds := enginetest.Dataset()

	tests := []struct {
		name      string
		locations []string
		want      []string
	}{
		{"statewide", []string{models.AllCounties}, []string{models.AllCounties}},
		{"counties in request order", []string{"Cobb", "Fulton"}, []string{"Cobb", "Fulton"}},
		{"repeats dropped", []string{"Fulton", "Cobb", "Fulton", "Cobb"}, []string{"Fulton", "Cobb"}},
		{"repeated statewide", []string{models.AllCounties, models.AllCounties}, []string{models.AllCounties}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.ResolveLocations(ds, tt.locations)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for name, locations := range map[string][]string{
		"empty":           nil,
		"unknown county":  {"Fulton", "Atlantis"},
		"mixed statewide": {models.AllCounties, "Fulton"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := engine.ResolveLocations(ds, locations)
			assert.ErrorIs(t, err, engine.ErrConfiguration)
		})
	}
}

func TestDayRange_Clamp(t *testing.T) {
	r := engine.DayRange{StartExclusive: -3, EndInclusive: 40}.Clamp(10)
	assert.Equal(t, engine.DayRange{StartExclusive: 0, EndInclusive: 10}, r)
	assert.NoError(t, r.Validate(10))
	assert.Equal(t, 10, r.Len())
}
