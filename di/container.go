package di

import (
	"context"
	"log"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ga-covid-server/api"
	"ga-covid-server/api/gadata"
	"ga-covid-server/config"
	"ga-covid-server/dao/redis"
	"ga-covid-server/db"
	"ga-covid-server/metrics"
	"ga-covid-server/server"
	"ga-covid-server/server/handlers"
	services "ga-covid-server/service"
)

// Container holds all application dependencies.
type Container struct {
	Config                  *config.Config
	Metrics                 *metrics.Metrics
	RedisClient             db.RedisClient
	RedisDashboardDao       *redis.RedisDashboardDAO
	DataSourceAPI           gadata.DataSourceAPI
	DatasetService          *services.DatasetService
	DatasetRefresherService *services.DatasetRefresherService
	DashboardService        *services.DashboardService
	DashboardHandler        *handlers.DashboardHandler
	ChartHandler            *handlers.ChartHandler
	MuxRouter               *mux.Router
	Router                  *server.Router
	DashboardHttpServer     *server.DashboardHttpServer
}

// NewContainer initializes and wires up all dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	log.Printf("initializing container - env: %s", cfg.Env)
	ctx := context.Background()
	clock := clockwork.NewRealClock()
	m := metrics.NewMetrics()

	// Cache is optional: without Redis every request is computed from the dataset.
	var redisClient db.RedisClient
	var dashboardDao *redis.RedisDashboardDAO
	if cfg.CacheEnabled {
		redisInternalClient := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		client, err := db.NewCacheRedisClient(ctx, redisInternalClient)
		if err != nil {
			log.Printf("Cache disabled: %v", err)
			redisInternalClient.Close()
		} else {
			redisClient = client
			dashboardDao = redis.NewRedisDashboardDAO(client, cfg.CacheTTL)
		}
	}

	var dataSource gadata.DataSourceAPI
	if cfg.DataSource == "remote" {
		log.Printf("Using remote data source %s", cfg.DataRemoteBaseURL)
		dataSource = gadata.NewGaDataApiClient(api.NewHTTPClient(cfg.DataRemoteBaseURL))
	} else {
		log.Printf("Using local data source %s", cfg.DataDir)
		dataSource = gadata.NewGaDataApiClientMock(cfg.DataDir)
	}

	datasetService := services.NewDatasetService(dataSource, clock, m, cfg.TrimToYesterday)
	refresherService := services.NewDatasetRefresherService(datasetService, dashboardDao, clock)
	dashboardService := services.NewDashboardService(datasetService, dashboardDao, m, cfg.FamilyCounties)

	dashboardHandler := handlers.NewDashboardHandler(dashboardService, datasetService)
	chartHandler := handlers.NewChartHandler(dashboardService)

	muxRouter := mux.NewRouter()
	router := server.NewRouter(dashboardHandler, chartHandler, promhttp.Handler(), m, muxRouter)
	httpServer := server.NewDashboardHttpServer(router, muxRouter, cfg.HTTPAddr, cfg.ShutdownTimeout)

	return &Container{
		Config:                  cfg,
		Metrics:                 m,
		RedisClient:             redisClient,
		RedisDashboardDao:       dashboardDao,
		DataSourceAPI:           dataSource,
		DatasetService:          datasetService,
		DatasetRefresherService: refresherService,
		DashboardService:        dashboardService,
		DashboardHandler:        dashboardHandler,
		ChartHandler:            chartHandler,
		MuxRouter:               muxRouter,
		Router:                  router,
		DashboardHttpServer:     httpServer,
	}, nil
}
