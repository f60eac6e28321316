package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	webAdapter "github.com/borghilucas/fluitax/internal/adapters/web"
	"github.com/borghilucas/fluitax/internal/app"
	"github.com/borghilucas/fluitax/internal/db"
	"github.com/borghilucas/fluitax/internal/env"
	"github.com/borghilucas/fluitax/internal/kardex"
	"github.com/borghilucas/fluitax/internal/repo"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if lvl, err := logrus.ParseLevel(env.GetString("LOG_LEVEL", "info")); err == nil {
		log.SetLevel(lvl)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer pool.Close()

	cfg := loadConfig()
	svc := app.NewAppService(repo.New(pool), cfg, log)

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins, log)

	port := env.GetString("SERVER_PORT", "8080")
	log.WithField("port", port).Info("server starting")
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

// loadConfig starts from the production constants and applies environment
// overrides. Explicit company IDs or CNPJs replace the name matchers.
func loadConfig() kardex.Config {
	cfg := kardex.DefaultConfig()

	cfg.Epoch = env.GetDate("KARDEX_EPOCH", cfg.Epoch)
	cfg.OpeningSacks = env.GetDecimal("OPENING_SACKS", cfg.OpeningSacks)
	cfg.OpeningUnitCost = env.GetDecimal("OPENING_UNIT_COST", cfg.OpeningUnitCost)
	cfg.ConsumptionRatio = env.GetDecimal("CONSUMPTION_RATIO", cfg.ConsumptionRatio)

	if ids := env.GetIntSlice("COMPANY_IDS"); len(ids) > 0 {
		cfg.CompanyIDs = ids
	}
	if cnpjs := env.GetStringSlice("COMPANY_CNPJS"); len(cnpjs) > 0 {
		cfg.CompanyCNPJs = cnpjs
	}
	if blocked := env.GetStringSlice("BLOCKED_PARTNERS"); len(blocked) > 0 {
		cfg.BlockedPartnerIDs = blocked
	}

	return cfg
}
