package di

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"CoinScreen/internal/domain/models"
	"CoinScreen/internal/domain/repository"
	"CoinScreen/internal/handler/api"
	mid "CoinScreen/internal/middleware"
	internalrepo "CoinScreen/internal/repository"
	"CoinScreen/internal/service/binance"
	"CoinScreen/internal/service/coingecko"
	"CoinScreen/internal/services/indicators"
	"CoinScreen/internal/services/screening"
	"CoinScreen/internal/usecase"
	pkgcache "CoinScreen/pkg/cache"
	pkgch "CoinScreen/pkg/clickhouse"
	"CoinScreen/pkg/config"
	pkgkafka "CoinScreen/pkg/kafka"
	applogger "CoinScreen/pkg/logger"
	"CoinScreen/pkg/metrics"
	"CoinScreen/pkg/queue"
	"CoinScreen/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	format := "json"
	if cfg.Environment == "development" {
		level = "debug"
		format = "console"
	}
	l, err := applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideClickHouseClient creates a ClickHouse client. Table schemas
// are owned by the stores and created in their Init.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvidePriceStore creates the ClickHouse tick and daily-close store.
func ProvidePriceStore(chClient *pkgch.Client, l *applogger.Logger) *internalrepo.CHPriceStore {
	store := internalrepo.NewCHPriceStore(chClient)
	store.SetLogger(l)
	return store
}

// ProvideResultStore creates the ClickHouse run archive.
func ProvideResultStore(chClient *pkgch.Client, l *applogger.Logger) *internalrepo.CHResultStore {
	store := internalrepo.NewCHResultStore(chClient)
	store.SetLogger(l)
	return store
}

// ProvideLeaderboardPublisher creates the Kafka leaderboard publisher.
func ProvideLeaderboardPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideMarketStream creates the Binance WebSocket stream.
func ProvideMarketStream(cfg *config.Config) repository.MarketStream {
	return binance.New(
		cfg.Binance.WebSocketURL,
		cfg.Binance.Symbols,
		cfg.Binance.ReconnectDelay,
		cfg.Binance.PingInterval,
	)
}

// ProvideTickProcessor creates the batching tick processor.
func ProvideTickProcessor(store *internalrepo.CHPriceStore, m repository.Metrics, cfg *config.Config) *usecase.TickProcessor {
	return usecase.NewTickProcessor(store, m, cfg.Storage.BatchSize, cfg.Storage.BatchTimeout)
}

// ProvidePriceCollector creates the live collector with the realtime
// pipeline between the stream and the store.
func ProvidePriceCollector(
	stream repository.MarketStream,
	processor *usecase.TickProcessor,
	m repository.Metrics,
) *usecase.PriceCollector {
	pipe := mid.NewRealtimePipeline(processor, m,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewPriceCollector(stream, processor, m, pipe)
}

// ProvideScoringConfig builds the scoring preset from config, falling
// back to the stock preset when unset.
func ProvideScoringConfig(cfg *config.Config) models.ScoringConfig {
	scoring := models.DefaultScoringConfig()
	if len(cfg.Screening.Buckets) > 0 {
		buckets := make([]models.RankBucket, len(cfg.Screening.Buckets))
		for i, b := range cfg.Screening.Buckets {
			buckets[i] = models.RankBucket{Max: b.Max, Score: b.Score}
		}
		scoring.Buckets = buckets
	}
	if cfg.Screening.Trend.FastWeight > 0 {
		scoring.TrendFastWeight = cfg.Screening.Trend.FastWeight
	}
	if cfg.Screening.Trend.MediumWeight > 0 {
		scoring.TrendMediumWeight = cfg.Screening.Trend.MediumWeight
	}
	if cfg.Screening.Trend.SlowWeight > 0 {
		scoring.TrendSlowWeight = cfg.Screening.Trend.SlowWeight
	}
	return scoring
}

// ProvideTrendPeriods builds the SMA tier periods from config.
func ProvideTrendPeriods(cfg *config.Config) indicators.Periods {
	p := indicators.DefaultPeriods()
	if cfg.Screening.Trend.FastPeriod > 0 {
		p.Fast = cfg.Screening.Trend.FastPeriod
	}
	if cfg.Screening.Trend.MediumPeriod > 0 {
		p.Medium = cfg.Screening.Trend.MediumPeriod
	}
	if cfg.Screening.Trend.SlowPeriod > 0 {
		p.Slow = cfg.Screening.Trend.SlowPeriod
	}
	return p
}

// ProvideEngine creates the screening engine.
func ProvideEngine(scoring models.ScoringConfig, cfg *config.Config) (*screening.Engine, error) {
	opts := []screening.Option{}
	if cfg.Screening.Workers > 0 {
		opts = append(opts, screening.WithWorkers(cfg.Screening.Workers))
	}
	engine, err := screening.NewEngine(scoring, opts...)
	if err != nil {
		return nil, fmt.Errorf("screening engine: %w", err)
	}
	return engine, nil
}

// ProvideCache creates the layered run cache, or nil when Redis is
// disabled.
func ProvideCache(cfg *config.Config) (*pkgcache.LayeredCache, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	host, port := splitAddr(cfg.Redis.Addr)
	redisCache, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(redisCache), nil
}

// ProvideCoinGecko creates the CoinGecko history client.
func ProvideCoinGecko(cfg *config.Config, l *applogger.Logger) *coingecko.Client {
	return coingecko.New(
		cfg.CoinGecko.BaseURL,
		cfg.CoinGecko.APIKey,
		cfg.CoinGecko.RequestsPerMinute,
		cfg.CoinGecko.Timeout,
		l,
	)
}

// ProvideScreeningRunner assembles the run orchestrator.
func ProvideScreeningRunner(
	prices *internalrepo.CHPriceStore,
	engine *screening.Engine,
	results *internalrepo.CHResultStore,
	pub repository.Publisher,
	cache *pkgcache.LayeredCache,
	m repository.Metrics,
	l *applogger.Logger,
	periods indicators.Periods,
	scoring models.ScoringConfig,
	cfg *config.Config,
) *usecase.ScreeningRunner {
	return usecase.NewScreeningRunner(
		prices, engine, results, pub, cache, m, l,
		periods, scoring, cfg.Screening.CacheTTL,
	)
}

// ProvideHistorySync creates the universe backfill job.
func ProvideHistorySync(
	gecko *coingecko.Client,
	store *internalrepo.CHPriceStore,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.HistorySync {
	return usecase.NewHistorySync(
		gecko, store, m, l,
		cfg.Screening.VsCurrency,
		cfg.CoinGecko.TopPages,
		cfg.CoinGecko.PerPage,
	)
}

// ProvideQueue creates the Redis-backed job queue with the screening
// and sync jobs registered, or nil when Redis is disabled.
func ProvideQueue(
	cfg *config.Config,
	cache *pkgcache.LayeredCache,
	runner *usecase.ScreeningRunner,
	sync *usecase.HistorySync,
	l *applogger.Logger,
) *queue.RedisQueue {
	if cache == nil {
		return nil
	}
	host, port := splitAddr(cfg.Redis.Addr)
	redisCache, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		l.Error("queue redis client failed", applogger.Error(err))
		return nil
	}
	q := queue.NewRedisQueue(l, &queue.QueueConfig{Workers: 2, RetryLimit: 3}, redisCache.Client(), queue.ModeProducerConsumer)
	q.RegisterJobs([]queue.Job{
		usecase.NewScreeningJob(runner),
		usecase.NewHistorySyncJob(sync),
	})
	return q
}

// ProvideScreeningHandler creates the HTTP API handler.
func ProvideScreeningHandler(l *applogger.Logger, runner *usecase.ScreeningRunner, q *queue.RedisQueue) *api.ScreeningHandler {
	h := api.NewScreeningHandler(l, runner)
	if q != nil {
		h.SetQueue(q)
	}
	return h
}

// ProvideApp creates the application server. Outside development, the
// logger's error aggregation is flushed to a Kafka topic next to the
// leaderboard events.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	producer *pkgkafka.Producer,
	collector *usecase.PriceCollector,
	priceStore *internalrepo.CHPriceStore,
	resultStore *internalrepo.CHResultStore,
	sync *usecase.HistorySync,
	handler *api.ScreeningHandler,
	q *queue.RedisQueue,
	chClient *pkgch.Client,
) *server.App {
	if cfg.Environment != "development" && cfg.Kafka.Topic != "" {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.Topic + ".logs",
			Publisher:      kafkaLogPublisher{producer: producer},
		})
	}
	app := server.New(cfg, l, collector, priceStore, resultStore, sync, handler, q, chClient)
	return app
}

// kafkaLogPublisher adapts the Kafka producer to the log collector's
// publisher interface.
type kafkaLogPublisher struct {
	producer *pkgkafka.Producer
}

func (k kafkaLogPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return k.producer.Publish(ctx, topic, nil, payload)
}

// splitAddr splits "host:port" with a localhost default.
func splitAddr(addr string) (string, int) {
	host, port := "localhost", 6379
	if addr == "" {
		return host, port
	}
	parts := strings.SplitN(addr, ":", 2)
	if parts[0] != "" {
		host = parts[0]
	}
	if len(parts) == 2 {
		if p, err := strconv.Atoi(parts[1]); err == nil {
			port = p
		}
	}
	return host, port
}
