package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nimasrn/chit-ledger/internal/config"
	"github.com/nimasrn/chit-ledger/internal/handlers"
	"github.com/nimasrn/chit-ledger/internal/lock"
	"github.com/nimasrn/chit-ledger/internal/queue"
	"github.com/nimasrn/chit-ledger/internal/repository"
	"github.com/nimasrn/chit-ledger/internal/services"
	xhttp "github.com/nimasrn/chit-ledger/pkg/http"
	"github.com/nimasrn/chit-ledger/pkg/logger"
	"github.com/nimasrn/chit-ledger/pkg/pg"
	"github.com/nimasrn/chit-ledger/pkg/prom"
	"github.com/nimasrn/chit-ledger/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}
	cfg := config.Get()
	logger.Info("starting chit ledger api", "version", version, "commit", commit, "date", date)

	db, err := openDB(cfg)
	if err != nil {
		logger.Error("failed opening database", "driver", cfg.DBDriver, "error", err)
		return
	}
	defer db.Close()

	checks := map[string]handlers.HealthCheck{"db": db.Ping}

	// Without redis the engine runs unlocked and events are not exported.
	var (
		locker services.GroupLocker
		events services.EventPublisher
	)
	if cfg.RedisAddr != "" {
		redisAdap, err := redis.NewRedisAdapter("default", cfg.RedisUniversalKeyPrefix, &redis.Options{
			Addrs:      []string{cfg.RedisAddr},
			ClientName: cfg.AppName,
			DB:         cfg.RedisDatabase,
			Username:   cfg.RedisUsername,
			Password:   cfg.RedisPassword,
		})
		if err != nil {
			logger.Error("failed connecting to redis", "error", err)
			return
		}
		defer redisAdap.Close()

		q, err := queue.NewQueue(redisAdap, queueConfig(cfg))
		if err != nil {
			logger.Error("failed creating event queue", "error", err)
			return
		}
		locker = lock.NewGroupLock(redisAdap, cfg.GroupLockTTL)
		events = queue.NewEventPublisher(q)
		checks["redis"] = redisAdap.Ping
	} else {
		logger.Warn("REDIS_ADDR is empty, group locking and event export are disabled")
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	if err := prom.Create(hostname, cfg.AppEnv, cfg.PromNamespace); err != nil {
		logger.Error("failed to create prometheus metrics", "error", err)
		return
	}
	go prom.ListenAndServer(cfg.PromListenAddr, cfg.PromURI)

	store := repository.NewStore(db)
	groupRepo := repository.NewGroupRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	auctionRepo := repository.NewAuctionRepository(db)
	dueRepo := repository.NewDueRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	reportRepo := repository.NewReportRepository(db)

	limits := services.DurationLimits{Min: cfg.GroupMinDuration, Max: cfg.GroupMaxDuration}
	groupService := services.NewGroupService(store, groupRepo, memberRepo, auctionRepo, events, locker, limits)
	auctionService := services.NewAuctionService(store, groupRepo, membershipRepo, auctionRepo, events, locker)
	membershipService := services.NewMembershipService(store, groupRepo, memberRepo, membershipRepo, ledgerRepo, reportRepo, events, locker)
	paymentService := services.NewPaymentService(store, groupRepo, dueRepo, events, locker)
	reportService := services.NewReportService(groupRepo, dueRepo, ledgerRepo, auctionRepo, reportRepo)

	opt := xhttp.DefaultServerOption
	opt.Name = cfg.AppName
	if cfg.HttpServerReadTimeout > 0 {
		opt.ReadTimeout = time.Duration(cfg.HttpServerReadTimeout) * time.Millisecond
	}
	if cfg.HttpServerWriteTimeout > 0 {
		opt.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeout) * time.Millisecond
	}
	opt.RequestTimeout = time.Duration(cfg.HttpRequestTimeout) * time.Millisecond

	s := xhttp.NewServer(opt)
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(opt.RequestTimeout))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)

	g := s.Router.Group("/api/v1")
	handlers.RegisterGroupRoutes(g, handlers.NewGroupHandler(groupService))
	handlers.RegisterAuctionRoutes(g, handlers.NewAuctionHandler(auctionService))
	handlers.RegisterMembershipRoutes(g, handlers.NewMembershipHandler(membershipService))
	handlers.RegisterPaymentRoutes(g, handlers.NewPaymentHandler(paymentService))
	handlers.RegisterReportRoutes(g, handlers.NewReportHandler(reportService))
	handlers.RegisterHealthRoutes(g, handlers.NewHealthHandler(checks))

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.ListenAndServe(cfg.HttpListenAddr); err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	<-c
	s.Shutdown()
}

func openDB(cfg *config.Config) (*pg.DB, error) {
	debug := cfg.AppEnv == "dev" && cfg.AppDebug

	if cfg.DBDriver == config.DriverSQLite {
		db, err := pg.CreateSQLite(cfg.SQLitePath, debug)
		if err != nil {
			return nil, err
		}
		// sqlite has no goose migrations; the schema comes from the entities.
		if err := repository.AutoMigrate(db.Write(context.Background())); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	readConf := pg.Config{
		User:     cfg.PostgresReadUser,
		Host:     cfg.PostgresReadHost,
		Port:     cfg.PostgresReadPort,
		Password: cfg.PostgresReadPassword,
		Database: cfg.PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     cfg.PostgresWriteUser,
		Host:     cfg.PostgresWriteHost,
		Port:     cfg.PostgresWritePort,
		Password: cfg.PostgresWritePassword,
		Database: cfg.PostgresWriteDatabase,
	}
	return pg.CreateReadWrite(readConf, writeConf, debug)
}

func queueConfig(cfg *config.Config) queue.QueueConfig {
	return queue.QueueConfig{
		Name:              cfg.QueueName,
		ConsumerGroup:     cfg.QueueConsumerGroup,
		ConsumerName:      cfg.QueueConsumerName,
		MaxRetries:        cfg.QueueMaxRetries,
		VisibilityTimeout: cfg.QueueVisibilityTimeout,
		PollInterval:      cfg.QueuePollInterval,
		BatchSize:         cfg.QueueBatchSize,
		MaxLen:            cfg.QueueMaxLen,
		EnableDLQ:         cfg.QueueEnableDLQ,
	}
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.HasPrefix(v, "--env=") {
			path := strings.TrimPrefix(v, "--env=")
			if _, err := os.Stat(path); err != nil {
				logger.Error("failed to open the passed env file", "path", path, "error", err)
				return ""
			}
			return path
		}
	}
	return ""
}
