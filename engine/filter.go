package engine

import (
	"fmt"

	"ga-covid-server/models"
)

// RowSet is the result of Filter: a copy of the matching rows plus the request that
// produced it.
type RowSet struct {
	dataset    *Dataset
	rng        DayRange
	scope      Scope
	projection Projection
	rows       []models.CountyDailyRecord
}

// Filter selects the rows of ds in req.Range for req.Scope, projected per req.Projection.
// Rows keep source order (day ascending, stable within a day). An empty county list
// yields an empty RowSet.
func Filter(ds *Dataset, req FilterRequest) (RowSet, error) {
	if ds == nil {
		return RowSet{}, fmt.Errorf("%w: no dataset", ErrConfiguration)
	}
	if err := req.Range.Validate(ds.MaxDay()); err != nil {
		return RowSet{}, err
	}

	var source []models.CountyDailyRecord
	var keep func(models.CountyDailyRecord) bool

	switch s := req.Scope.(type) {
	case Statewide:
		source = ds.statewide
	case Counties:
		source = ds.counties
		keep = countyMatcher(s.Names)
	default:
		return RowSet{}, fmt.Errorf("%w: unsupported scope %T", ErrConfiguration, req.Scope)
	}

	project, err := projector(req.Projection)
	if err != nil {
		return RowSet{}, err
	}

	in := window(source, req.Range)
	rows := make([]models.CountyDailyRecord, 0, len(in))
	for _, r := range in {
		if keep != nil && !keep(r) {
			continue
		}
		rows = append(rows, project(r))
	}

	return RowSet{
		dataset:    ds,
		rng:        req.Range,
		scope:      req.Scope,
		projection: req.Projection,
		rows:       rows,
	}, nil
}

func projector(p Projection) (func(models.CountyDailyRecord) models.CountyDailyRecord, error) {
	switch p := p.(type) {
	case AllColumns:
		return func(r models.CountyDailyRecord) models.CountyDailyRecord { return r }, nil
	case SingleStatistic:
		if !p.Statistic.Valid() {
			return nil, fmt.Errorf("%w: unknown statistic %d", ErrConfiguration, int(p.Statistic))
		}
		return p.Statistic.Project, nil
	default:
		return nil, fmt.Errorf("%w: unsupported projection %T", ErrConfiguration, p)
	}
}

func countyMatcher(names []string) func(models.CountyDailyRecord) bool {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(r models.CountyDailyRecord) bool {
		_, ok := set[r.County]
		return ok
	}
}

// Refilter applies req to the rows of rs. The range must lie inside rs's range and a
// SingleStatistic projection of rs only admits the same statistic.
func (rs RowSet) Refilter(req FilterRequest) (RowSet, error) {
	if rs.dataset == nil {
		return RowSet{}, fmt.Errorf("%w: row set was not produced by Filter", ErrConfiguration)
	}
	if err := req.Range.Validate(rs.dataset.MaxDay()); err != nil {
		return RowSet{}, err
	}
	if !rs.rng.Covers(req.Range) {
		return RowSet{}, fmt.Errorf("%w: (%d, %d] is outside the filtered window (%d, %d]",
			ErrInvalidRange, req.Range.StartExclusive, req.Range.EndInclusive, rs.rng.StartExclusive, rs.rng.EndInclusive)
	}
	if err := rs.admits(req.Projection); err != nil {
		return RowSet{}, err
	}

	var keep func(models.CountyDailyRecord) bool
	switch s := req.Scope.(type) {
	case Statewide:
		if _, ok := rs.scope.(Statewide); !ok {
			return RowSet{}, fmt.Errorf("%w: statewide refilter of a county row set", ErrConfiguration)
		}
	case Counties:
		if _, ok := rs.scope.(Counties); !ok {
			return RowSet{}, fmt.Errorf("%w: county refilter of a statewide row set", ErrConfiguration)
		}
		keep = countyMatcher(s.Names)
	default:
		return RowSet{}, fmt.Errorf("%w: unsupported scope %T", ErrConfiguration, req.Scope)
	}

	project, err := projector(req.Projection)
	if err != nil {
		return RowSet{}, err
	}

	in := window(rs.rows, req.Range)
	rows := make([]models.CountyDailyRecord, 0, len(in))
	for _, r := range in {
		if keep != nil && !keep(r) {
			continue
		}
		rows = append(rows, project(r))
	}
	return RowSet{dataset: rs.dataset, rng: req.Range, scope: req.Scope, projection: req.Projection, rows: rows}, nil
}

// admits reports whether p can be served from rs's projection.
func (rs RowSet) admits(p Projection) error {
	have, ok := rs.projection.(SingleStatistic)
	if !ok {
		return nil
	}
	switch want := p.(type) {
	case SingleStatistic:
		if want.Statistic == have.Statistic {
			return nil
		}
		return fmt.Errorf("%w: %s requested from a %s projection", ErrStatisticNotProjected, want.Statistic, have.Statistic)
	default:
		return fmt.Errorf("%w: all columns requested from a %s projection", ErrStatisticNotProjected, have.Statistic)
	}
}

// Rows returns a copy of the filtered rows. Under a SingleStatistic projection every
// other numeric column is zero.
func (rs RowSet) Rows() []models.CountyDailyRecord {
	out := make([]models.CountyDailyRecord, len(rs.rows))
	copy(out, rs.rows)
	return out
}

func (rs RowSet) Len() int {
	return len(rs.rows)
}

func (rs RowSet) Range() DayRange {
	return rs.rng
}

func (rs RowSet) Scope() Scope {
	return rs.scope
}

func (rs RowSet) Projection() Projection {
	return rs.projection
}

// Dataset is the snapshot the rows were taken from.
func (rs RowSet) Dataset() *Dataset {
	return rs.dataset
}
