package main

import (
	"context"
	"os"

	gateway "github.com/vaultpay/gateway"
	"github.com/vaultpay/gateway/config"
	"github.com/vaultpay/gateway/idempotency"
	"github.com/vaultpay/gateway/paypal"
	"github.com/vaultpay/gateway/server"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := newLogger(cfg.Environment)
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	client := paypal.NewClient(&paypal.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Environment:  cfg.Environment,
	})
	if !client.Configured() {
		log.Warn("processor credentials are not configured; API calls will fail until they are set")
	}

	orch := gateway.NewOrchestrator(client, gateway.OrchestratorConfig{
		BrandName: cfg.BrandName,
		Locale:    cfg.Locale,
		ReturnURL: cfg.ReturnURL,
		CancelURL: cfg.CancelURL,
		Logger:    log,
	})

	store := idempotency.NewInMemoryStore(cfg.CacheTTL)
	store.StartSweeper(context.Background(), cfg.SweepInterval, log)
	charger := idempotency.Wrap(orch, idempotency.WithStore(store))

	srv := server.New(cfg.ClientID, cfg.Environment, client, orch, charger, log)

	log.Info("gateway listening",
		zap.String("port", cfg.Port),
		zap.String("mode", cfg.Environment))
	if err := srv.Routes().Run(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(mode string) (*zap.Logger, error) {
	if mode == "live" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
