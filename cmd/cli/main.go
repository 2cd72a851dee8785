package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/blogdesk/internal/buildinfo"
	"github.com/dmitrijs2005/blogdesk/internal/client/cli"
	"github.com/dmitrijs2005/blogdesk/internal/client/config"
	"github.com/dmitrijs2005/blogdesk/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	// Ctrl-C cancels the running command only, see cli.App.Run
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
