package main

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"contentpulse/internal/automation"
	"contentpulse/internal/handlers"
	"contentpulse/internal/insights"
	"contentpulse/internal/metrics"
	"contentpulse/internal/scheduler"
	"contentpulse/internal/store"
	"contentpulse/pkg/auth"
	"contentpulse/pkg/config"
	"contentpulse/pkg/database"
	"contentpulse/pkg/kafka"
	"contentpulse/pkg/logging"
	"contentpulse/pkg/monitoring"
	"contentpulse/pkg/redis"
	"contentpulse/pkg/server"
	"contentpulse/pkg/version"
)

func main() {
	// Setup logger
	logger := logging.NewLoggerWithService("herald")

	// Load environment variables
	config.LoadEnv(logger)

	logger.Info("Starting Herald (Content Automation & Engagement Analytics)")

	// PostgreSQL holds content documents; ClickHouse holds engagement samples
	dbURL := config.RequireEnv("DATABASE_URL")
	clickhouseHost := config.RequireEnv("CLICKHOUSE_HOST")
	clickhouseDB := config.RequireEnv("CLICKHOUSE_DB")
	clickhouseUser := config.RequireEnv("CLICKHOUSE_USER")
	clickhousePassword := config.RequireEnv("CLICKHOUSE_PASSWORD")
	serviceToken := config.RequireEnv("SERVICE_TOKEN")

	dbConfig := database.DefaultConfig()
	dbConfig.URL = dbURL
	contentDB := database.MustConnect(dbConfig, logger)
	defer func() { _ = contentDB.Close() }()

	chConfig := database.DefaultClickHouseConfig()
	chConfig.Addr = []string{clickhouseHost}
	chConfig.Database = clickhouseDB
	chConfig.Username = clickhouseUser
	chConfig.Password = clickhousePassword
	clickhouse := database.MustConnectClickHouse(chConfig, logger)
	defer func() { _ = clickhouse.Close() }()

	// Setup monitoring
	healthChecker := monitoring.NewHealthChecker("herald", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("herald", version.Version, version.GitCommit)

	healthChecker.AddCheck("postgres", monitoring.DatabaseHealthCheck(contentDB))
	healthChecker.AddCheck("clickhouse", monitoring.ClickHouseHealthCheck(clickhouse))
	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"DATABASE_URL":    dbURL,
		"CLICKHOUSE_HOST": clickhouseHost,
		"CLICKHOUSE_DB":   clickhouseDB,
		"SERVICE_TOKEN":   serviceToken,
	}))

	serviceMetrics := &metrics.Metrics{
		AutomationRuns: metricsCollector.NewCounter("automation_runs_total", "Automation passes executed", []string{"outcome"}),
		ItemsProcessed: metricsCollector.NewCounter("automation_items_total", "Content items handled by automation passes", []string{"status"}),
		RunDuration:    metricsCollector.NewHistogram("automation_run_duration_seconds", "Automation pass duration", []string{}, nil),
		InsightQueries: metricsCollector.NewCounter("insight_queries_total", "Insights aggregations served", []string{"status"}),
	}

	// Store adapters with explicit bindings
	contentStore := store.NewContentStore(contentDB, store.DefaultContentStoreConfig(), logger)
	engagementStore := store.NewEngagementStore(clickhouse, store.DefaultEngagementStoreConfig(), logger)

	// Delivery sink: Kafka when brokers are configured, simulated otherwise
	var sink automation.Sink
	if brokers := config.GetEnv("KAFKA_BROKERS", ""); brokers != "" {
		producer, err := kafka.NewProducer(strings.Split(brokers, ","), "herald", logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create Kafka producer")
		}
		defer func() { _ = producer.Close() }()
		healthChecker.AddCheck("kafka", monitoring.KafkaProducerHealthCheck(producer.GetClient()))

		topic := config.GetEnv("DELIVERY_TOPIC", "content_delivery")
		sink = automation.NewKafkaSink(producer, topic, logger)
		logger.WithField("topic", topic).Info("Using Kafka delivery sink")
	} else {
		sink = automation.NewNoopSink(logger)
		logger.Warn("KAFKA_BROKERS not set; deliveries will be simulated")
	}

	// Optional read-through cache for aggregated insights
	var insightsCache *insights.Cache
	if redisURL := config.GetEnv("REDIS_URL", ""); redisURL != "" {
		redisClient, err := redis.NewClientFromURL(context.Background(), redisURL)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer func() { _ = redisClient.Close() }()
		healthChecker.AddCheck("redis", monitoring.RedisHealthCheck(redisClient))

		ttl := time.Duration(config.GetEnvInt("INSIGHTS_CACHE_TTL_SECONDS", 60)) * time.Second
		insightsCache = insights.NewCache(redisClient, ttl, logger)
		logger.WithField("ttl", ttl).Info("Insights caching enabled")
	} else {
		logger.Info("REDIS_URL not set; insights are computed on every request")
	}

	processor := automation.NewProcessor(contentStore, sink, logger, serviceMetrics)

	// Periodic automation passes
	interval := time.Duration(config.GetEnvInt("AUTOMATION_INTERVAL_SECONDS", 60)) * time.Second
	taskScheduler := scheduler.NewScheduler(processor, interval, logger)
	taskScheduler.Start()
	defer taskScheduler.Stop()

	// Router with health/metrics plus the API surface
	router := server.SetupServiceRouter(logger, "herald", healthChecker, metricsCollector)

	automationHandler := handlers.NewAutomationHandler(processor, logger)
	insightsHandler := handlers.NewInsightsHandler(engagementStore, insightsCache, logger, serviceMetrics)
	contentHandler := handlers.NewContentHandler(contentStore, logger)

	// Dashboard reads require a JWT (or the service token) when a signing
	// secret is configured; without one the read surface stays open for
	// gateway-fronted deployments that authenticate upstream.
	readAuth := func(c *gin.Context) { c.Next() }
	if jwtSecret := config.GetEnv("JWT_SECRET", ""); jwtSecret != "" {
		readAuth = auth.JWTAuthMiddleware([]byte(jwtSecret), serviceToken)
	} else {
		logger.Warn("JWT_SECRET not set; insights endpoints are unauthenticated")
	}

	api := router.Group("/api")
	api.GET("/insights", readAuth, insightsHandler.Get)
	api.GET("/content/due", readAuth, contentHandler.ListDue)
	api.POST("/automation/run", auth.ServiceAuthMiddleware(serviceToken), automationHandler.Run)

	serverConfig := server.DefaultConfig("herald", "18040")
	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.WithError(err).Fatal("Server startup failed")
	}
}
