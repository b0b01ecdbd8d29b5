package cli

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/avolkau/daybook/internal/config"
	"github.com/avolkau/daybook/internal/database"
	"github.com/avolkau/daybook/internal/database/entries"
	"github.com/avolkau/daybook/internal/database/moods"
	"github.com/avolkau/daybook/internal/exporters"
)

// ExportCommand performs a one-shot markdown export from the command line.
type ExportCommand struct {
	DatabasePath string
	OutputDir    string
	From         string
	To           string
}

func NewExportCommand() *ExportCommand {
	return &ExportCommand{}
}

func (cmd *ExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the journal database")
	fs.StringVar(&cmd.OutputDir, "out", "", "Output directory for markdown files (required)")
	fs.StringVar(&cmd.From, "from", "", "Start date (YYYY-MM-DD); omit with -to for a full export")
	fs.StringVar(&cmd.To, "to", "", "End date (YYYY-MM-DD, inclusive)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export journal entries as markdown files, one file per day.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s export -out ./journal-export\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s export -out ./journal-export -from 2026-01-01 -to 2026-01-31\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.OutputDir == "" {
		fs.Usage()
		return fmt.Errorf("output directory is required")
	}
	if (cmd.From == "") != (cmd.To == "") {
		return fmt.Errorf("-from and -to must be provided together")
	}

	return nil
}

func (cmd *ExportCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	exporter := exporters.NewDatabaseMarkdownExporter(
		entries.NewRepository(db.DB),
		moods.NewRepository(db.DB),
		exporters.StaticDir(cmd.OutputDir),
	)

	var result exporters.ExportResult
	if cmd.From == "" {
		result, err = exporter.ExportAll()
	} else {
		var from, to time.Time
		from, err = time.Parse("2006-01-02", cmd.From)
		if err != nil {
			return fmt.Errorf("invalid from date: %w", err)
		}
		to, err = time.Parse("2006-01-02", cmd.To)
		if err != nil {
			return fmt.Errorf("invalid to date: %w", err)
		}
		result, err = exporter.ExportRange(from, to)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d entries to %s (%d failed)\n", result.EntriesProcessed, cmd.OutputDir, result.EntriesFailed)
	return nil
}
