package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"ga-covid-server/api/gadata"
	"ga-covid-server/engine"
	"ga-covid-server/metrics"
	"ga-covid-server/models"
	"ga-covid-server/util"
)

// ErrDatasetNotReady is returned until the first dataset has been published.
var ErrDatasetNotReady = errors.New("dataset not ready")

// DatasetService loads the canonical CSVs into an immutable engine.Dataset and publishes it.
// Readers always see either no dataset or a fully validated one.
type DatasetService struct {
	source          gadata.DataSourceAPI
	clock           clockwork.Clock
	metrics         *metrics.Metrics
	trimToYesterday bool

	current atomic.Pointer[engine.Dataset]
}

// NewDatasetService constructs a DatasetService. With trimToYesterday set, rows dated
// after yesterday (per clock) are dropped on load, as the state report is incomplete
// for the current day.
func NewDatasetService(
	source gadata.DataSourceAPI,
	clock clockwork.Clock,
	m *metrics.Metrics,
	trimToYesterday bool,
) *DatasetService {
	return &DatasetService{
		source:          source,
		clock:           clock,
		metrics:         m,
		trimToYesterday: trimToYesterday,
	}
}

// Current returns the published dataset.
func (ds *DatasetService) Current() (*engine.Dataset, error) {
	d := ds.current.Load()
	if d == nil {
		return nil, ErrDatasetNotReady
	}
	return d, nil
}

// CheckReadiness reports whether a dataset has been published.
func (ds *DatasetService) CheckReadiness(_ context.Context) error {
	_, err := ds.Current()
	return err
}

// Load fetches, parses and validates a new dataset and publishes it. On error the
// previously published dataset stays in place.
func (ds *DatasetService) Load(ctx context.Context) (*engine.Dataset, error) {
	d, err := ds.build(ctx)
	if err != nil {
		ds.metrics.DatasetLoadFailed()
		return nil, err
	}
	ds.current.Store(d)
	ds.metrics.DatasetLoaded(d.MaxDay())
	log.Printf("[DatasetService] Published dataset version=%s max_day=%d counties=%d",
		d.Version, d.MaxDay(), len(d.CountyNames()))
	return d, nil
}

func (ds *DatasetService) build(ctx context.Context) (*engine.Dataset, error) {
	log.Println("[DatasetService] Loading dataset")

	statewideCSV, err := ds.source.FetchStatewide(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch statewide series: %w", err)
	}
	countiesCSV, err := ds.source.FetchCounties(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch county series: %w", err)
	}

	statewide, err := util.ParseStatewideCSV(statewideCSV)
	if err != nil {
		return nil, err
	}
	counties, err := util.ParseCountyCSV(countiesCSV)
	if err != nil {
		return nil, err
	}

	if ds.trimToYesterday {
		cutoff := ds.yesterday()
		statewide = trimStatewide(statewide, cutoff)
		counties = trimCounties(counties, cutoff)
		log.Printf("[DatasetService] Trimmed series to %s: %d statewide days, %d county rows",
			cutoff.Format(util.DisplayDateLayout), len(statewide), len(counties))
	}

	demographics := ds.loadDemographics(ctx)

	d, err := engine.NewDataset(statewide, counties, demographics, version(statewideCSV, countiesCSV), ds.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("build dataset: %w", err)
	}
	return d, nil
}

// loadDemographics reads the snapshot tables. They only feed secondary charts, so a
// missing or malformed table is logged and left empty.
func (ds *DatasetService) loadDemographics(ctx context.Context) models.Demographics {
	var demo models.Demographics
	for _, table := range gadata.Tables {
		data, err := ds.source.FetchTable(ctx, table)
		if err != nil {
			log.Printf("[DatasetService] Skipping %s table: %v", table, err)
			continue
		}
		switch table {
		case gadata.TableAge:
			demo.Age, err = util.ParseAgeCSV(data)
		case gadata.TableGender:
			demo.Gender, err = util.ParseGenderCSV(data)
		case gadata.TableTesting:
			demo.Testing, err = util.ParseTestingCSV(data)
		case gadata.TableRace:
			demo.Race, err = util.ParseRaceCSV(data)
		case gadata.TableSummary:
			demo.Summary, err = util.ParseSummaryCSV(data)
		}
		if err != nil {
			log.Printf("[DatasetService] Skipping %s table: %v", table, err)
		}
	}
	return demo
}

// yesterday is the calendar date before the clock's current date, at UTC midnight
// to match the parsed CSV dates.
func (ds *DatasetService) yesterday() time.Time {
	y, m, d := ds.clock.Now().AddDate(0, 0, -1).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func trimStatewide(rows []models.DailyRecord, cutoff time.Time) []models.DailyRecord {
	out := rows[:0]
	for _, r := range rows {
		if !r.Date.After(cutoff) {
			out = append(out, r)
		}
	}
	return out
}

func trimCounties(rows []models.CountyDailyRecord, cutoff time.Time) []models.CountyDailyRecord {
	out := rows[:0]
	for _, r := range rows {
		if !r.Date.After(cutoff) {
			out = append(out, r)
		}
	}
	return out
}

// version identifies a dataset by the content of its series files.
func version(files ...[]byte) string {
	h := sha256.New()
	for _, f := range files {
		h.Write(f)
	}
	return hex.EncodeToString(h.Sum(nil))[:12]
}
