package main

import (
	"strings"
	"testing"

	"github.com/tgienger/kanboard/internal/config"
)

func TestOpenBoardSeedsSampleData(t *testing.T) {
	database, err := openBoard(config.Default())
	if err != nil {
		t.Fatalf("open board: %v", err)
	}
	defer database.Close()

	cols, err := database.Columns()
	if err != nil {
		t.Fatalf("columns: %v", err)
	}
	if len(cols) != 3 {
		t.Fatalf("expected the 3 sample columns, got %d", len(cols))
	}
}

func TestOpenBoardReturnsSeedError(t *testing.T) {
	cfg := config.Default()
	cfg.SampleData = false
	cfg.DefaultColumns = []string{"Backlog", "   "}

	database, err := openBoard(cfg)
	if err == nil {
		database.Close()
		t.Fatalf("expected a seed error for a blank column title")
	}
	if database != nil {
		t.Fatalf("no database should be returned on failure")
	}
	if !strings.Contains(err.Error(), "seeding board") {
		t.Fatalf("unexpected error %v", err)
	}
}
