package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/openmart/catalog/config"
	"github.com/openmart/catalog/internal/app"
	"github.com/openmart/catalog/internal/catalogapi"
	"github.com/openmart/catalog/internal/webserver"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	conffile   = flag.String("c", "/etc/catalogd.yml", "config file")
	initdb     = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
	importCSV  = flag.String("import", "", "import products from a csv file, then exit")
	debugFlag  = flag.Bool("x", false, "enable debug mode")
	showConfig = flag.Bool("p", false, "print effective config, then exit")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*conffile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *debugFlag {
		cfg.System.Debug = true
		cfg.Database.Debug = true
		cfg.Logger.Mode = "development"
	}
	if *showConfig {
		fmt.Printf("%+v\n", cfg)
		return
	}

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	if *importCSV != "" {
		if err := application.ImportProductsCSV(*importCSV); err != nil {
			zap.S().Fatalf("product import failed: %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	webserver.Init(application)
	catalogapi.InitRouter()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return webserver.Listen(ctx)
	})

	if err := g.Wait(); err != nil {
		zap.S().Fatalf("server exited with error: %v", err)
	}
}
