package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/echomine/planetctl/internal/api"
	"github.com/echomine/planetctl/internal/config"
	"github.com/echomine/planetctl/internal/observability"
	"github.com/echomine/planetctl/internal/workspace"
)

func main() {
	configPath := flag.String("config", "", "path to planetctl config file (optional)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "planetctl: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := observability.InitLogger("planetctl")
	observability.SetLevel(cfg.LogLevel)

	ws, err := workspace.Open(workspace.Config{
		DatasetPath:  cfg.DatasetPath,
		FallbackPath: cfg.FallbackPath,
		DataRoot:     cfg.DataRoot,
		User:         cfg.User,
		Backend:      cfg.Backend,
	}, logger)
	if err != nil {
		return err
	}
	defer ws.Close()

	observability.RecordCatalogSize(len(ws.Catalog().Planets))

	logger.Info().
		Str("listen", cfg.ListenAddr).
		Str("backend", cfg.Backend).
		Int("planets", len(ws.Catalog().Planets)).
		Msg("planetctl ready")

	server := api.NewServer(api.Config{
		ListenAddr:  cfg.ListenAddr,
		CorsOrigins: cfg.CorsOrigins,
	}, ws, logger)
	return server.Serve()
}
