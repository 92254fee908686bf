package services

import (
	"fmt"
	"log"

	"ga-covid-server/dao/redis"
	"ga-covid-server/engine"
	"ga-covid-server/metrics"
	"ga-covid-server/models"
)

// DatasetProvider yields the currently published dataset.
type DatasetProvider interface {
	Current() (*engine.Dataset, error)
}

// WindowQuery is a day window and location selection as sent by the dashboard controls.
// End is clamped to the dataset's last day; Locations is reduced to a set of known
// locations before anything is computed.
type WindowQuery struct {
	Start     int
	End       int
	Locations []string
}

// SeriesQuery adds the statistic and the chart representation to a WindowQuery.
type SeriesQuery struct {
	WindowQuery
	Statistic      models.Statistic
	Representation models.Representation
}

// KeyFiguresResult carries the raw figures and their display text.
type KeyFiguresResult struct {
	Figures models.KeyFigures     `json:"figures"`
	Text    engine.KeyFiguresText `json:"text"`
	Version string                `json:"version"`
}

// SeriesResult carries a chart series and the selection confirmation text.
type SeriesResult struct {
	Series  models.SeriesSet `json:"series"`
	Message string           `json:"message"`
	Version string           `json:"version"`
}

// DashboardService answers dashboard queries against the published dataset,
// caching computed responses when a cache DAO is configured.
type DashboardService struct {
	datasets DatasetProvider
	cacheDao *redis.RedisDashboardDAO
	metrics  *metrics.Metrics
	family   []string
}

// NewDashboardService constructs a DashboardService. cacheDao may be nil.
func NewDashboardService(
	datasets DatasetProvider,
	cacheDao *redis.RedisDashboardDAO,
	m *metrics.Metrics,
	family []string,
) *DashboardService {
	return &DashboardService{
		datasets: datasets,
		cacheDao: cacheDao,
		metrics:  m,
		family:   family,
	}
}

func (q WindowQuery) rangeFor(ds *engine.Dataset) (engine.DayRange, error) {
	r := engine.DayRange{StartExclusive: q.Start, EndInclusive: q.End}
	if r.EndInclusive > ds.MaxDay() {
		r.EndInclusive = ds.MaxDay()
	}
	if err := r.Validate(ds.MaxDay()); err != nil {
		return engine.DayRange{}, err
	}
	return r, nil
}

// KeyFigures summarizes the selection with the window's last day as reference day.
func (s *DashboardService) KeyFigures(q WindowQuery) (*KeyFiguresResult, error) {
	ds, err := s.datasets.Current()
	if err != nil {
		return nil, err
	}
	rng, err := q.rangeFor(ds)
	if err != nil {
		return nil, err
	}
	locations, err := engine.ResolveLocations(ds, q.Locations)
	if err != nil {
		return nil, err
	}

	key := redis.KeyFiguresKey(ds.Version, rng.StartExclusive, rng.EndInclusive, locations)
	if kf := s.cachedKeyFigures(key); kf != nil {
		return &KeyFiguresResult{Figures: *kf, Text: engine.FormatKeyFigures(*kf), Version: ds.Version}, nil
	}

	scope, err := engine.ScopeFor(locations)
	if err != nil {
		return nil, err
	}
	rs, err := engine.Filter(ds, engine.FilterRequest{Range: rng, Scope: scope, Projection: engine.AllColumns{}})
	if err != nil {
		return nil, err
	}
	kf, err := engine.Summarize(rs, rng.EndInclusive, len(locations))
	if err != nil {
		return nil, err
	}

	s.storeKeyFigures(key, kf)
	return &KeyFiguresResult{Figures: kf, Text: engine.FormatKeyFigures(kf), Version: ds.Version}, nil
}

// Series builds the chart series of the selection. A rate statistic in the bar view
// yields an empty series, the explanatory message and ErrInvalidStatisticForRepresentation.
func (s *DashboardService) Series(q SeriesQuery) (*SeriesResult, error) {
	ds, err := s.datasets.Current()
	if err != nil {
		return nil, err
	}
	rng, err := q.rangeFor(ds)
	if err != nil {
		return nil, err
	}
	locations, err := engine.ResolveLocations(ds, q.Locations)
	if err != nil {
		return nil, err
	}

	msg := engine.DescribeSelection(ds, engine.Selection{
		Statistic:      q.Statistic,
		Range:          rng,
		Locations:      locations,
		Representation: q.Representation,
	})
	if q.Representation == models.RepresentationBar && !engine.BarAllowed(q.Statistic) {
		empty := models.SeriesSet{
			Statistic:      q.Statistic.Key(),
			Label:          q.Statistic.Label(),
			Representation: q.Representation.String(),
		}
		return &SeriesResult{Series: empty, Message: msg, Version: ds.Version},
			fmt.Errorf("%w: %s", engine.ErrInvalidStatisticForRepresentation, q.Statistic.Key())
	}

	key := redis.SeriesKey(ds.Version, q.Statistic.Key(), q.Representation.String(),
		rng.StartExclusive, rng.EndInclusive, locations)
	if set := s.cachedSeries(key); set != nil {
		return &SeriesResult{Series: *set, Message: msg, Version: ds.Version}, nil
	}

	scope, err := engine.ScopeFor(locations)
	if err != nil {
		return nil, err
	}
	rs, err := engine.Filter(ds, engine.FilterRequest{
		Range:      rng,
		Scope:      scope,
		Projection: engine.SingleStatistic{Statistic: q.Statistic},
	})
	if err != nil {
		return nil, err
	}
	set, err := engine.BuildSeries(rs, engine.SeriesRequest{
		Locations:      locations,
		Statistic:      q.Statistic,
		Range:          rng,
		Representation: q.Representation,
	})
	if err != nil {
		return nil, err
	}

	s.storeSeries(key, set)
	return &SeriesResult{Series: set, Message: msg, Version: ds.Version}, nil
}

// Options returns the control options of the dashboard.
func (s *DashboardService) Options() (*models.DashboardOptions, error) {
	ds, err := s.datasets.Current()
	if err != nil {
		return nil, err
	}
	opts := engine.Options(ds)
	return &opts, nil
}

// Selection resolves a preset selection group to its locations.
func (s *DashboardService) Selection(group string) ([]string, error) {
	ds, err := s.datasets.Current()
	if err != nil {
		return nil, err
	}
	return engine.SelectionFor(ds, engine.SelectionGroup(group), s.family)
}

// LatestCounties returns the per-county table at the last day.
func (s *DashboardService) LatestCounties() ([]models.CountyLatestRow, error) {
	ds, err := s.datasets.Current()
	if err != nil {
		return nil, err
	}
	return engine.LatestCountyTable(ds), nil
}

// Demographics returns the snapshot tables with the derived columns filled in and the
// summary split into mild cases, hospitalized and deaths.
func (s *DashboardService) Demographics() (*models.Demographics, error) {
	ds, err := s.datasets.Current()
	if err != nil {
		return nil, err
	}
	demo := ds.Demographics()
	return &models.Demographics{
		Age:     demo.Age,
		Gender:  engine.GenderTable(demo.Gender),
		Testing: engine.TestingTable(demo.Testing),
		Race:    demo.Race,
		Summary: engine.SeverityBreakdown(demo.Summary),
	}, nil
}

func (s *DashboardService) cachedKeyFigures(key string) *models.KeyFigures {
	if s.cacheDao == nil {
		return nil
	}
	kf, err := s.cacheDao.GetKeyFigures(key)
	s.countLookup(key, kf != nil, err)
	return kf
}

func (s *DashboardService) cachedSeries(key string) *models.SeriesSet {
	if s.cacheDao == nil {
		return nil
	}
	set, err := s.cacheDao.GetSeries(key)
	s.countLookup(key, set != nil, err)
	return set
}

func (s *DashboardService) countLookup(key string, hit bool, err error) {
	switch {
	case err != nil:
		log.Printf("[DashboardService] Cache lookup failed for %s: %v", key, err)
		s.metrics.CacheError()
	case hit:
		s.metrics.CacheHit()
	default:
		s.metrics.CacheMiss()
	}
}

func (s *DashboardService) storeKeyFigures(key string, kf models.KeyFigures) {
	if s.cacheDao == nil {
		return
	}
	if err := s.cacheDao.SetKeyFigures(key, kf); err != nil {
		log.Printf("[DashboardService] Failed to cache key figures: %v", err)
	}
}

func (s *DashboardService) storeSeries(key string, set models.SeriesSet) {
	if s.cacheDao == nil {
		return
	}
	if err := s.cacheDao.SetSeries(key, set); err != nil {
		log.Printf("[DashboardService] Failed to cache series: %v", err)
	}
}
