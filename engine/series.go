package engine

import (
	"fmt"

	"ga-covid-server/models"
)

// barDisallowed holds the statistics that cannot be stacked in a bar view.
var barDisallowed = map[models.Statistic]struct{}{
	models.StatInfectionPer100k: {},
	models.StatDeathsPer100k:    {},
	models.StatPctPopInfected:   {},
	models.StatFatalityRate:     {},
}

// BarAllowed reports whether s may be shown in the additive bar view.
func BarAllowed(s models.Statistic) bool {
	_, disallowed := barDisallowed[s]
	return !disallowed
}

type SeriesRequest struct {
	Locations      []string
	Statistic      models.Statistic
	Range          DayRange
	Representation models.Representation
}

// BuildSeries reshapes rs into one series per requested location, aligned on the days
// of req.Range. Series order follows req.Locations. A rate statistic requested as a bar
// view yields an empty set and ErrInvalidStatisticForRepresentation.
func BuildSeries(rs RowSet, req SeriesRequest) (models.SeriesSet, error) {
	if !req.Statistic.Valid() {
		return models.SeriesSet{}, fmt.Errorf("%w: unknown statistic %d", ErrConfiguration, int(req.Statistic))
	}
	switch req.Representation {
	case models.RepresentationLine:
	case models.RepresentationBar:
		if !BarAllowed(req.Statistic) {
			return models.SeriesSet{}, fmt.Errorf("%w: %s is a %s statistic", ErrInvalidStatisticForRepresentation,
				req.Statistic.Label(), req.Statistic.Class())
		}
	default:
		return models.SeriesSet{}, fmt.Errorf("%w: unknown representation %d", ErrConfiguration, int(req.Representation))
	}
	if rs.dataset == nil {
		return models.SeriesSet{}, fmt.Errorf("%w: row set was not produced by Filter", ErrConfiguration)
	}
	if len(req.Locations) == 0 {
		return models.SeriesSet{}, fmt.Errorf("%w: no locations selected", ErrConfiguration)
	}
	if err := rs.admits(SingleStatistic{Statistic: req.Statistic}); err != nil {
		return models.SeriesSet{}, err
	}
	if err := req.Range.Validate(rs.dataset.MaxDay()); err != nil {
		return models.SeriesSet{}, err
	}
	if !rs.rng.Covers(req.Range) {
		return models.SeriesSet{}, fmt.Errorf("%w: (%d, %d] is outside the filtered window (%d, %d]",
			ErrInvalidRange, req.Range.StartExclusive, req.Range.EndInclusive, rs.rng.StartExclusive, rs.rng.EndInclusive)
	}
	scope, err := ScopeFor(req.Locations)
	if err != nil {
		return models.SeriesSet{}, err
	}
	if isStatewide(scope) != isStatewide(rs.scope) {
		return models.SeriesSet{}, fmt.Errorf("%w: locations %v do not match the filtered scope", ErrConfiguration, req.Locations)
	}

	n := req.Range.Len()
	axis := models.AxisLabels{Days: make([]int, n), Dates: make([]string, n)}
	for i := 0; i < n; i++ {
		day := req.Range.StartExclusive + 1 + i
		axis.Days[i] = day
		axis.Dates[i] = rs.dataset.DateLabel(day)
	}

	byLocation := make(map[string][]int, len(req.Locations))
	out := make([]models.LocationSeries, len(req.Locations))
	for i, loc := range req.Locations {
		points := make([]models.SeriesPoint, n)
		for j := range points {
			points[j] = models.SeriesPoint{Day: axis.Days[j], Date: axis.Dates[j], Location: loc}
		}
		out[i] = models.LocationSeries{Location: loc, Points: points}
		byLocation[loc] = append(byLocation[loc], i)
	}

	for _, r := range window(rs.rows, req.Range) {
		idx := r.Day - req.Range.StartExclusive - 1
		v := req.Statistic.Value(r)
		for _, si := range byLocation[r.County] {
			out[si].Points[idx].Value = v
			out[si].Points[idx].Present = true
		}
	}

	return models.SeriesSet{
		Statistic:      req.Statistic.Key(),
		Label:          req.Statistic.Label(),
		Representation: req.Representation.String(),
		Axis:           axis,
		Series:         out,
	}, nil
}
