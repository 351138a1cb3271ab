package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/erilshackle/vinti4-payment-service/internal/adapters/ports"
	"github.com/erilshackle/vinti4-payment-service/internal/adapters/secrets"
	"github.com/erilshackle/vinti4-payment-service/internal/adapters/vinti4"
	"github.com/erilshackle/vinti4-payment-service/internal/config"
	paymentHandler "github.com/erilshackle/vinti4-payment-service/internal/handlers/payment"
	"github.com/erilshackle/vinti4-payment-service/pkg/middleware"
	"github.com/erilshackle/vinti4-payment-service/pkg/observability"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		bootLogger, _ := zap.NewProduction()
		bootLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger := initLogger(cfg.Logger)
	defer logger.Sync()

	logger.Info("Starting vinti4 payment service",
		zap.String("version", "0.1.0"),
	)

	// Resolve the POS authentication code from the configured secret backend
	posAutCode, err := resolvePosAutCode(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to resolve POS authentication code", zap.Error(err))
	}

	gatewayConfig := &vinti4.BrowserPostConfig{
		PostURL:    cfg.Gateway.PostURL,
		PosID:      cfg.Gateway.PosID,
		PosAutCode: posAutCode,
		Currency:   cfg.Gateway.Currency,
		Language:   cfg.Gateway.Language,
	}

	logger.Info("Vinti4 gateway configured",
		zap.String("post_url", cfg.Gateway.PostURL),
		zap.String("pos_id", cfg.Gateway.PosID),
		zap.String("currency", cfg.Gateway.Currency),
	)

	formHandler := paymentHandler.NewBrowserPostFormHandler(gatewayConfig, logger)
	callbackHandler := paymentHandler.NewBrowserPostCallbackHandler(gatewayConfig, logger)

	rateLimiter := middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
	defer rateLimiter.Shutdown()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/payments/vinti4/form", rateLimiter.HTTPHandlerFunc(formHandler.GetPaymentForm))
	mux.HandleFunc("/api/v1/payments/vinti4/callback", rateLimiter.HTTPHandlerFunc(callbackHandler.HandleCallback))

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      observability.HTTPMiddleware(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Metrics and health endpoints on a separate port
	healthChecker := observability.NewHealthChecker()
	healthChecker.Register("gateway_config", func(ctx context.Context) error {
		if gatewayConfig.PosAutCode == "" {
			return fmt.Errorf("POS authentication code not loaded")
		}
		return nil
	})
	metricsServer := observability.StartMetricsServer(strconv.Itoa(cfg.Server.MetricsPort), healthChecker, logger)

	go func() {
		logger.Info("HTTP server listening",
			zap.String("address", httpServer.Addr),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to serve HTTP", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down servers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	if err := observability.ShutdownMetricsServer(metricsServer); err != nil {
		logger.Error("Metrics server shutdown error", zap.Error(err))
	}

	logger.Info("Servers stopped")
}

// resolvePosAutCode loads the shared secret from the configured backend.
// The value itself is never logged.
func resolvePosAutCode(cfg *config.Config, logger *zap.Logger) (string, error) {
	if cfg.Secrets.Backend == "env" {
		return cfg.Gateway.PosAutCode, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	manager, err := initSecretManager(ctx, cfg, logger)
	if err != nil {
		return "", err
	}

	secret, err := manager.GetSecret(ctx, cfg.Secrets.SecretPath)
	if err != nil {
		return "", fmt.Errorf("failed to load POS auth code from %s backend: %w", cfg.Secrets.Backend, err)
	}

	logger.Info("POS authentication code loaded",
		zap.String("backend", cfg.Secrets.Backend),
		zap.String("version", secret.Version),
	)

	return secret.Value, nil
}

// initSecretManager selects the secret backend from configuration
func initSecretManager(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.SecretManagerAdapter, error) {
	switch cfg.Secrets.Backend {
	case "local":
		return secrets.NewLocalSecretManager(cfg.Secrets.LocalPath, logger), nil

	case "vault":
		vaultCfg := secrets.DefaultVaultConfig(cfg.Secrets.VaultAddress)
		vaultCfg.Token = cfg.Secrets.VaultToken
		vaultCfg.MountPath = cfg.Secrets.VaultMountPath
		return secrets.NewVaultAdapter(ctx, vaultCfg, logger)

	case "aws":
		awsCfg := secrets.DefaultAWSSecretsManagerConfig(cfg.Secrets.AWSRegion)
		return secrets.NewAWSSecretsManagerAdapter(ctx, awsCfg, logger)

	default:
		return nil, fmt.Errorf("unsupported secret backend: %s", cfg.Secrets.Backend)
	}
}

func initLogger(cfg config.LoggerConfig) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return logger
}
