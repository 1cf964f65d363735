package main

import (
	"context"
	"log"
	"os"

	"github.com/licitacrm/licitacrm/internal/buildinfo"
	"github.com/licitacrm/licitacrm/internal/client/cli"
	"github.com/licitacrm/licitacrm/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
