package services

import (
	"context"
	"log"
	"time"

	"github.com/jonboulle/clockwork"

	"ga-covid-server/dao/redis"
)

// DatasetRefresherService periodically reloads the dataset and drops cache entries of
// superseded versions.
type DatasetRefresherService struct {
	datasets *DatasetService
	cacheDao *redis.RedisDashboardDAO
	clock    clockwork.Clock
}

// NewDatasetRefresherService constructs a new refresher. cacheDao may be nil when
// caching is disabled.
func NewDatasetRefresherService(
	datasets *DatasetService,
	cacheDao *redis.RedisDashboardDAO,
	clock clockwork.Clock,
) *DatasetRefresherService {
	return &DatasetRefresherService{
		datasets: datasets,
		cacheDao: cacheDao,
		clock:    clock,
	}
}

// StartPeriodicJob launches the background loop at the given interval until ctx is done.
// A non-positive interval disables refreshing.
func (dr *DatasetRefresherService) StartPeriodicJob(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		log.Println("[DatasetRefresherService] Refresh disabled.")
		return
	}
	go dr.startPeriodicJob(ctx, interval)
}

func (dr *DatasetRefresherService) startPeriodicJob(ctx context.Context, interval time.Duration) {
	ticker := dr.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[DatasetRefresherService] Stopping periodic refresher job.")
			return
		case <-ticker.Chan():
			log.Println("[DatasetRefresherService] Running periodic dataset refresher job.")
			if err := dr.Refresh(ctx); err != nil {
				log.Printf("[DatasetRefresherService] Refresh returned error, keeping previous dataset: %v", err)
			} else {
				log.Println("[DatasetRefresherService] Refresh completed successfully.")
			}
		}
	}
}

// Refresh reloads the dataset once and purges stale cache entries.
func (dr *DatasetRefresherService) Refresh(ctx context.Context) error {
	d, err := dr.datasets.Load(ctx)
	if err != nil {
		return err
	}
	if dr.cacheDao == nil {
		return nil
	}
	if _, err := dr.cacheDao.PurgeStale(d.Version); err != nil {
		log.Printf("[DatasetRefresherService] Failed to purge stale cache entries: %v", err)
	}
	return nil
}
