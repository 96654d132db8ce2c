package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/echomine/planetctl/internal/config"
	"github.com/echomine/planetctl/internal/observability"
	"github.com/echomine/planetctl/internal/prices"
	"github.com/echomine/planetctl/internal/workspace"
)

func main() {
	configPath := flag.String("config", "", "path to planetctl config file (optional)")
	file := flag.String("file", "", "price CSV to import")
	noMatch := flag.Bool("no-match", false, "skip fuzzy matching of import names to catalog resources")
	flag.Parse()

	if err := run(*configPath, *file, !*noMatch); err != nil {
		fmt.Fprintf(os.Stderr, "pricectl: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, file string, match bool) error {
	if file == "" {
		return fmt.Errorf("missing -file")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := observability.InitLogger("pricectl")
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

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open price file: %w", err)
	}
	defer f.Close()

	imported, stats := prices.ParseCSV(f, logger)
	if match {
		imported, stats.Matched = prices.MatchKnown(imported, ws.Catalog().ResourceNames)
	}

	table := ws.PriceTable()
	table.Update(imported)
	if err := table.Save(); err != nil {
		return err
	}

	logger.Info().
		Int("rows", stats.Rows).
		Int("skipped", stats.Skipped).
		Int("coerced", stats.Coerced).
		Int("matched", stats.Matched).
		Int("prices", table.Len()).
		Msg("price import complete")
	return nil
}
