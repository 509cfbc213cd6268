package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"modulos/pricing/internal/api"
	"modulos/pricing/internal/infra"
	"modulos/pricing/internal/pricing"
	"modulos/pricing/internal/services"
	"modulos/pricing/internal/workers"
	"modulos/pricing/pkg/graceful"
)

func main() {
	// Load configuration (fails fast on missing required configs)
	config, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(config.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	svc, err := buildServices(config, logger)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully",
		zap.String("server_addr", config.Server.Addr),
		zap.String("server_port", config.Server.Port),
		zap.Bool("pricing_strict", config.Pricing.Strict),
		zap.Int("pricing_max_apps", config.Pricing.MaxApps),
		zap.String("pricing_surcharge_rate", config.Pricing.SurchargeRate.String()),
		zap.Int("tiers", svc.Quotes.Engine().Table().Len()),
	)

	router := api.Router(logger, config, svc)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", config.Server.Addr, config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      35 * time.Second, // slightly more than the router timeout
	}

	sweeper := workers.NewGuardSweeper(svc.Guard, time.Duration(config.Auth.SweepSeconds)*time.Second, logger)
	go func() {
		if err := sweeper.Start(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Login guard sweeper stopped", zap.Error(err))
		}
	}()

	// Start server in goroutine
	go func() {
		logger.Info("Starting API server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	shutdown := graceful.NewShutdownHandler(logger, 30*time.Second)
	shutdown.Register(server)
	shutdown.Register(graceful.ShutdownFunc(sweeper.Stop))
	shutdown.WaitForShutdown()

	logger.Info("Server exited")
}

// buildServices wires the pricing engine and the password gate from config
func buildServices(config *infra.Config, logger *zap.Logger) (api.Services, error) {
	table, err := loadTable(config.Pricing.TiersFile)
	if err != nil {
		return api.Services{}, err
	}
	engine := pricing.NewEngine(table,
		pricing.WithSurchargeRate(config.Pricing.SurchargeRate),
		pricing.WithStrict(config.Pricing.Strict),
	)

	verifier, err := newVerifier(config.Auth, logger)
	if err != nil {
		return api.Services{}, err
	}

	guard := services.NewLoginGuard(services.LoginGuardConfig{
		MaxAttempts:     config.Auth.MaxAttempts,
		LockoutDuration: time.Duration(config.Auth.LockoutSeconds) * time.Second,
		RatePerMinute:   config.Auth.RatePerMinute,
	}, logger)

	return api.Services{
		Quotes:   services.NewQuoteService(engine, config.Pricing.MaxApps, logger),
		Sessions: services.NewSessionService(config.JWT.Secret, time.Duration(config.JWT.Expiration)*time.Second, logger),
		Verifier: verifier,
		Guard:    guard,
	}, nil
}

func loadTable(path string) (*pricing.Table, error) {
	if path == "" {
		return pricing.DefaultTable()
	}
	table, err := pricing.LoadTableFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiers file %s: %w", path, err)
	}
	return table, nil
}

func newVerifier(auth infra.AuthConfig, logger *zap.Logger) (services.CredentialVerifier, error) {
	if auth.PasswordHash != "" {
		return services.NewBcryptVerifier(auth.PasswordHash, logger)
	}
	return services.NewBcryptVerifierFromPassword(auth.Password, logger)
}

func initLogger(level string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()

	// Parse log level
	var zapLevel zap.AtomicLevel
	switch level {
	case "debug":
		zapLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	config.Level = zapLevel
	return config.Build()
}
