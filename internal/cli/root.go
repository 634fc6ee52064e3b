package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/travellabs/tripbot/internal/dialogue"
	"github.com/travellabs/tripbot/internal/domain"
	"github.com/travellabs/tripbot/internal/service"
)

// App holds what CLI commands need. Bootstrap fills it before any
// subcommand runs; tests build it directly.
type App struct {
	NewSession  func(lang domain.Language) *dialogue.Session
	Trips       service.TripService
	Itineraries service.ItineraryService
	Serve       func(ctx context.Context, addr string) error

	// Language is the default chat language when no flag is given.
	Language domain.Language
	Addr     string

	IsInteractive func() bool
	In            io.Reader
	Now           func() time.Time
}

// GlobalFlags are the persistent flags shared by every subcommand.
type GlobalFlags struct {
	ConfigPath string
	EnvFile    string
	LogLevel   string
}

// Bootstrap wires app from the global flags. The returned cleanup runs
// after the command finishes.
type Bootstrap func(app *App, flags GlobalFlags) (cleanup func(), err error)

// NewRootCmd creates the top-level "tripbot" command. boot may be nil
// when app is already wired.
func NewRootCmd(app *App, boot Bootstrap) *cobra.Command {
	var (
		flags   GlobalFlags
		cleanup func()
	)

	root := &cobra.Command{
		Use:           "tripbot",
		Short:         "Conversational travel planner",
		Long:          "tripbot chats with you to collect trip details, then plans an itinerary.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if boot == nil {
				return nil
			}
			var err error
			cleanup, err = boot(app, flags)
			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if cleanup != nil {
				cleanup()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.ConfigPath, "config", "", "config file (default ~/.tripbot/config.yaml)")
	pf.StringVar(&flags.EnvFile, "env-file", "", "dotenv file to load (default .env)")
	pf.StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newChatCmd(app),
		newTripsCmd(app),
		newItineraryCmd(app),
		newServeCmd(app),
	)
	return root
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) input() io.Reader {
	if a.In != nil {
		return a.In
	}
	return os.Stdin
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}
