package main

import (
	"context"
	"log"
	"os"

	"github.com/licitacrm/licitacrm/internal/buildinfo"
	"github.com/licitacrm/licitacrm/internal/server"
	"github.com/licitacrm/licitacrm/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
