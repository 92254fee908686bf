package redis

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"ga-covid-server/db"
	"ga-covid-server/models"
)

const DASHBOARD_KEY_PREFIX_V1 = "dashboard_v1:"

// KEY_FIGURES_KEY_FORMAT is dataset version, start, end, locations.
const KEY_FIGURES_KEY_FORMAT_V1 = DASHBOARD_KEY_PREFIX_V1 + "%s:key_figures:%d:%d:%s"

// SERIES_KEY_FORMAT is dataset version, statistic, representation, start, end, locations.
const SERIES_KEY_FORMAT_V1 = DASHBOARD_KEY_PREFIX_V1 + "%s:series:%s:%s:%d:%d:%s"

// RedisDashboardDAO caches computed dashboard responses using Redis.
// Keys embed the dataset version, so a reload never serves stale figures.
type RedisDashboardDAO struct {
	client db.RedisClient
	ttl    time.Duration
}

// NewRedisDashboardDAO initializes a RedisDashboardDAO with the Redis client.
func NewRedisDashboardDAO(client db.RedisClient, ttl time.Duration) *RedisDashboardDAO {
	return &RedisDashboardDAO{client: client, ttl: ttl}
}

func locationsKey(locations []string) string {
	return strings.Join(locations, "|")
}

// KeyFiguresKey builds the cache key of a key-figures request.
func KeyFiguresKey(version string, start, end int, locations []string) string {
	return fmt.Sprintf(KEY_FIGURES_KEY_FORMAT_V1, version, start, end, locationsKey(locations))
}

// SeriesKey builds the cache key of a series request.
func SeriesKey(version, stat, representation string, start, end int, locations []string) string {
	return fmt.Sprintf(SERIES_KEY_FORMAT_V1, version, stat, representation, start, end, locationsKey(locations))
}

// SetKeyFigures caches key figures under key.
func (dao *RedisDashboardDAO) SetKeyFigures(key string, kf models.KeyFigures) error {
	return dao.set(key, kf)
}

// GetKeyFigures returns cached key figures, or nil on a cache miss.
func (dao *RedisDashboardDAO) GetKeyFigures(key string) (*models.KeyFigures, error) {
	var kf models.KeyFigures
	found, err := dao.get(key, &kf)
	if err != nil || !found {
		return nil, err
	}
	return &kf, nil
}

// SetSeries caches a series set under key.
func (dao *RedisDashboardDAO) SetSeries(key string, set models.SeriesSet) error {
	return dao.set(key, set)
}

// GetSeries returns a cached series set, or nil on a cache miss.
func (dao *RedisDashboardDAO) GetSeries(key string) (*models.SeriesSet, error) {
	var set models.SeriesSet
	found, err := dao.get(key, &set)
	if err != nil || !found {
		return nil, err
	}
	return &set, nil
}

func (dao *RedisDashboardDAO) set(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry %s: %w", key, err)
	}
	if err := dao.client.SetWithTTL(key, string(data), dao.ttl); err != nil {
		return fmt.Errorf("failed to set cache entry in redis: %w", err)
	}
	return nil
}

func (dao *RedisDashboardDAO) get(key string, v interface{}) (bool, error) {
	str, err := dao.client.Get(key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache entry from redis: %w", err)
	}
	if err := json.Unmarshal([]byte(str), v); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache entry %s: %w", key, err)
	}
	return true, nil
}

// PurgeStale deletes every cached entry that does not belong to the current dataset version.
func (dao *RedisDashboardDAO) PurgeStale(currentVersion string) (int, error) {
	keys, err := dao.client.Keys(DASHBOARD_KEY_PREFIX_V1 + "*")
	if err != nil {
		return 0, fmt.Errorf("failed to list dashboard keys: %w", err)
	}
	keep := DASHBOARD_KEY_PREFIX_V1 + currentVersion + ":"
	deleted := 0
	for _, k := range keys {
		if strings.HasPrefix(k, keep) {
			continue
		}
		if err := dao.client.Del(k); err != nil {
			return deleted, fmt.Errorf("failed to delete cache key %s: %w", k, err)
		}
		deleted++
	}
	if deleted > 0 {
		log.Printf("[RedisDashboardDAO] Purged %d stale cache entries", deleted)
	}
	return deleted, nil
}
