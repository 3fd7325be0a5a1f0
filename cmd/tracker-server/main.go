// Package main provides the entry point for tracker-server, the reference
// backend of the Daily Expense Tracker.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/expense-tracker/internal/infra/buildinfo"
	"github.com/yndnr/expense-tracker/internal/infra/confloader"
	"github.com/yndnr/expense-tracker/internal/infra/shutdown"
	"github.com/yndnr/expense-tracker/internal/server/config"
	"github.com/yndnr/expense-tracker/internal/server/httpserver"
	"github.com/yndnr/expense-tracker/internal/server/service"
	"github.com/yndnr/expense-tracker/internal/storage"
	"github.com/yndnr/expense-tracker/internal/storage/memory"
	"github.com/yndnr/expense-tracker/internal/storage/mongo"
	"github.com/yndnr/expense-tracker/internal/telemetry/logger"
	"github.com/yndnr/expense-tracker/internal/telemetry/metric"
	"github.com/yndnr/expense-tracker/pkg/password"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
		showConfig  = flag.Bool("print-config", false, "Print the effective configuration with secrets masked and exit")
		genSecret   = flag.Bool("gen-secret", false, "Print a random JWT signing secret and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("tracker-server %s\n", buildinfo.String())
		return nil
	}

	if *genSecret {
		secret, err := password.GenerateSecret(32)
		if err != nil {
			return err
		}
		fmt.Println(secret)
		return nil
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}

	if *showConfig {
		return yaml.NewEncoder(os.Stdout).Encode(config.Sanitize(cfg))
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	build := buildinfo.Get()
	log.Info("starting tracker-server",
		"version", build.Version,
		"commit", build.Commit,
		"config", *configFile)

	ctx := context.Background()
	reg := metric.NewRegistry()

	repo, err := openRepository(ctx, cfg, log, reg)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	reg.MustRegister(metric.NewCollector(repo, repo.Name()))

	tokens := service.NewTokenIssuer([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	limiter := service.NewLoginLimiter(cfg.Auth.LoginRate, cfg.Auth.LoginBurst)
	accounts := service.NewAccountService(repo, tokens, limiter,
		service.WithMetrics(reg),
		service.WithLogger(log.With("component", "accounts")),
	)
	expenses := service.NewExpenseService(repo, reg, log.With("component", "expenses"))

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Accounts:           accounts,
		Expenses:           expenses,
		Repo:               repo,
		Metrics:            reg,
		Logger:             log,
		CORSAllowedOrigins: cfg.Server.CORS.AllowedOrigins,
		Version:            buildinfo.Version,
	})

	httpServer := httpserver.New(cfg.Server.HTTP.Addr, router, httpserver.Options{
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		TLSCertFile:  cfg.Server.HTTP.TLSCertFile,
		TLSKeyFile:   cfg.Server.HTTP.TLSKeyFile,
	})

	// Hooks run in reverse: HTTP first, storage last.
	sh := shutdown.NewHandler(cfg.Server.HTTP.ShutdownTimeout, log)
	sh.OnShutdown("storage", func(context.Context) error { return repo.Close() })

	sweepCtx, stopSweep := context.WithCancel(ctx)
	go limiter.Run(sweepCtx, service.DefaultSweepInterval)
	sh.OnShutdown("login-limiter", func(context.Context) error {
		stopSweep()
		return nil
	})

	if *configFile != "" {
		watcher, err := watchLogLevel(*configFile, log)
		if err != nil {
			log.Warn("config hot reload disabled", "error", err)
		} else {
			sh.OnShutdown("config-watcher", func(context.Context) error { return watcher.Stop() })
		}
	}

	sh.OnShutdown("http", httpServer.Shutdown)

	go func() {
		log.Info("HTTP server listening",
			"addr", httpServer.Addr(),
			"tls", httpServer.TLS(),
			"storage", repo.Name())
		if err := httpServer.ListenAndServe(); err != nil {
			sh.Trigger(fmt.Errorf("http server: %w", err))
		}
	}()

	if err := sh.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// openRepository opens the storage driver named by the configuration.
func openRepository(ctx context.Context, cfg *config.ServerConfig, log logger.Logger, reg *metric.Registry) (service.Repository, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		log.Warn("using in-memory storage; data is lost on exit")
		return memory.New(), nil

	case config.DriverMongo:
		ctx, cancel := context.WithTimeout(ctx, cfg.Server.HTTP.ShutdownTimeout)
		defer cancel()
		store, err := mongo.Open(ctx, cfg.Storage.MongoURI, cfg.Storage.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return store, nil

	default:
		engine, err := storage.NewBadgerEngine(storage.DefaultKVConfig(cfg.Storage.DataDir), log.With("component", "badger"))
		if err != nil {
			return nil, err
		}
		engine.RegisterMetrics(reg.Registerer())
		return storage.NewKVRepository(engine), nil
	}
}

// watchLogLevel re-applies the log level whenever the config file changes.
func watchLogLevel(path string, log logger.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(path); err != nil {
		_ = watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(changed string) {
		cfg, err := config.Load(changed)
		if err != nil {
			log.Warn("ignoring invalid configuration change", "path", changed, "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", cfg.Log.Level)
		}
	})
	watcher.StartAsync()
	return watcher, nil
}
