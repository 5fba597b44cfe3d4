package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lazygrid/lazygrid/internal/app"
	"github.com/lazygrid/lazygrid/internal/config"
)

func main() {
	csvPath := flag.String("csv", "", "load rows from a CSV file instead of PostgreSQL")
	dsn := flag.String("dsn", "", "PostgreSQL connection string")
	table := flag.String("table", "", "table to load when using a PostgreSQL source")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load config: %v (using defaults)\n", err)
		cfg = config.GetDefaults()
	}

	// Flags override the config file.
	if *csvPath != "" {
		cfg.Source.CSV = *csvPath
		cfg.Source.DSN = ""
	}
	if *dsn != "" {
		cfg.Source.DSN = *dsn
	}
	if *table != "" {
		cfg.Source.Table = *table
	}

	a := app.New(cfg)
	defer a.Close()

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(a, opts...)
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
