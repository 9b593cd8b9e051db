package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/tgienger/kanboard/internal/board"
	"github.com/tgienger/kanboard/internal/config"
	"github.com/tgienger/kanboard/internal/db"
	"github.com/tgienger/kanboard/internal/feed"
	"github.com/tgienger/kanboard/internal/logging"
	"github.com/tgienger/kanboard/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("kanboard %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run owns every resource so deferred closes happen before main exits
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		return fmt.Errorf("resolving log path: %w", err)
	}
	logger, err := logging.New(logPath, cfg.LogLevel)
	if err != nil {
		// keep going with logging discarded
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer logger.Close()
	session := logger.Session()
	session.WithFields(log.Fields{"version": version, "sample_data": cfg.SampleData}).Info("starting")

	database, err := openBoard(cfg)
	if err != nil {
		session.WithError(err).Error("open board")
		return err
	}
	defer database.Close()

	service := board.New(database, feed.New(database, time.Now), session)

	// Create and run the application
	app := ui.NewApp(service, cfg.ToastDuration, session)
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(app, opts...)

	if _, err := p.Run(); err != nil {
		session.WithError(err).Error("run program")
		return fmt.Errorf("running application: %w", err)
	}
	session.Info("exiting")
	return nil
}

// openBoard creates the in-memory board and seeds it per cfg. The database
// is closed again if seeding fails.
func openBoard(cfg *config.Config) (*db.DB, error) {
	database, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	if cfg.SampleData {
		err = database.Seed()
	} else {
		err = database.SeedColumns(cfg.DefaultColumns)
	}
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("seeding board: %w", err)
	}
	return database, nil
}
