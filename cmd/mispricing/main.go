package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/jask/mispricing/internal/config"
	"github.com/jask/mispricing/internal/database"
	"github.com/jask/mispricing/internal/database/repository"
	"github.com/jask/mispricing/internal/logging"
	"github.com/jask/mispricing/internal/provider"
	"github.com/jask/mispricing/internal/store"
	"github.com/jask/mispricing/internal/tui"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	if err := database.RunMigrations(cfg.Database.Path, "internal/database/migrations"); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	// the TUI owns the terminal, so logs go to a file next to the db
	logger, err := logging.New(filepath.Join(filepath.Dir(cfg.Database.Path), "mispricing.log"))
	if err != nil {
		logger = logging.Discard()
	}

	repo := store.NewRepository(repository.NewKVRepo(db), logger)

	var prov provider.Provider
	switch cfg.Provider.Mode {
	case "http":
		prov = provider.NewHTTPProvider(cfg.Provider.BaseURL, logger)
	default:
		prov = provider.NewLocalProvider(
			provider.NewFMPClient(cfg.ResolveFMPKey()),
			provider.NewSECClient(cfg.ResolveSECKey()),
			logger,
		)
	}

	loc, err := time.LoadLocation(cfg.UI.Timezone)
	if err != nil {
		logger.WithError(err).Warn("bad ui.timezone, using local")
		loc = time.Local
	}

	p := tea.NewProgram(tui.New(repo, prov, cfg.UI.ExportDir, loc, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
