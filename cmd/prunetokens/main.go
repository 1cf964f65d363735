// Command prunetokens deletes expired refresh token rows. It reads the same
// configuration as the server and is meant to be run from cron.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/licitacrm/licitacrm/internal/server"
	"github.com/licitacrm/licitacrm/internal/server/config"
	"github.com/licitacrm/licitacrm/internal/server/repositories/repomanager"
	"github.com/licitacrm/licitacrm/internal/server/services"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg := config.LoadConfig()
	logger := server.NewLogger(cfg)

	pool, err := server.OpenPool(cfg)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer pool.Close()

	svc := services.NewAuthService(pool, repomanager.NewPostgresRepositoryManager(), server.NewCodec(cfg), logger)

	n, err := svc.PruneExpired(ctx)
	if err != nil {
		logger.Error(ctx, "prune failed", "error", err)
		pool.Close()
		os.Exit(1)
	}

	logger.Info(ctx, "expired refresh tokens removed", "count", n)
}
