package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/avolkau/daybook/internal/auth"
	"github.com/avolkau/daybook/internal/config"
	"github.com/avolkau/daybook/internal/database"
	"github.com/avolkau/daybook/internal/database/settings"
)

// SetPinCommand stores a new access PIN, replacing any existing one.
type SetPinCommand struct {
	DatabasePath string
	PIN          string
}

func NewSetPinCommand() *SetPinCommand {
	return &SetPinCommand{}
}

func (cmd *SetPinCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("set-pin", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the journal database")
	fs.StringVar(&cmd.PIN, "pin", "", "The new PIN (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s set-pin -pin <pin> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Set or replace the access PIN for the journal.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.PIN == "" {
		fs.Usage()
		return fmt.Errorf("pin is required")
	}

	return nil
}

func (cmd *SetPinCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	pinService := auth.NewService(settings.NewRepository(db.DB), 0)
	if err := pinService.SetPIN(cmd.PIN); err != nil {
		return fmt.Errorf("failed to set PIN: %w", err)
	}

	fmt.Println("PIN updated")
	return nil
}
